package httpserver

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()

	t.Run("Writes", func(t *testing.T) {
		path := filepath.Join(dir, "ok.png")
		require.NoError(t, saveUpload(path, strings.NewReader("pixels")))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "pixels", string(got))
	})

	t.Run("RemovesPartialFileOnReadError", func(t *testing.T) {
		path := filepath.Join(dir, "partial.png")
		boom := errors.New("connection reset")
		src := io.MultiReader(strings.NewReader("half of the"), iotest.ErrReader(boom))

		err := saveUpload(path, src)
		assert.ErrorIs(t, err, boom)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "partial upload left behind")
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		err := saveUpload(filepath.Join(dir, "nope", "x.png"), strings.NewReader("x"))
		assert.Error(t, err)
	})
}
