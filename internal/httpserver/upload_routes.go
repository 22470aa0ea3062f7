package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// handleUpload stores an avatar image under a random name and returns the
// URL it is served from.
//
// @Summary      Upload an avatar image
// @Tags         uploads
// @Security     UserID
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "png, jpeg, gif or webp"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Router       /uploads [post]
func handleUpload(uploadDir string, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeMessage(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			writeMessage(w, http.StatusBadRequest, "failed to parse multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "missing file")
			return
		}
		defer file.Close()

		if header.Size > maxBytes {
			writeMessage(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}

		// sniff the content rather than trusting the client's extension
		head := make([]byte, 512)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			writeMessage(w, http.StatusBadRequest, "could not read file")
			return
		}
		ext, ok := allowedImageTypes[http.DetectContentType(head[:n])]
		if !ok {
			writeMessage(w, http.StatusBadRequest, "only png, jpeg, gif or webp images are accepted")
			return
		}

		filename := uuid.NewString() + ext
		if err := saveUpload(filepath.Join(uploadDir, filename), io.MultiReader(bytes.NewReader(head[:n]), file)); err != nil {
			slog.Error("save upload", "filename", filename, "error", err)
			writeMessage(w, http.StatusInternalServerError, "could not save file")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{
			"avatar_url": "/api/uploads/" + filename,
			"filename":   filename,
		})
	}
}

// saveUpload writes src to path. A partial file is removed on failure.
func saveUpload(path string, src io.Reader) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// @Summary      Fetch an uploaded file
// @Tags         uploads
// @Param        filename  path  string  true  "name returned by the upload"
// @Success      200
// @Failure      404
// @Router       /uploads/{filename} [get]
func handleServeUpload(uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		// Prevent path traversal by cleaning the path and not allowing separators.
		if filename == "" || filepath.Base(filename) != filename || strings.HasPrefix(filename, ".") {
			writeMessage(w, http.StatusBadRequest, "invalid filename")
			return
		}
		http.ServeFile(w, r, filepath.Join(uploadDir, filename))
	}
}
