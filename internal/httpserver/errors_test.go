package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hellchat/internal/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrInvalidTarget, http.StatusBadRequest},
		{fmt.Errorf("decode: %w", domain.ErrInvalidInput), http.StatusBadRequest},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrConflict, http.StatusConflict},
		{fmt.Errorf("insert: %w: %w", domain.ErrConstraintViolation, errors.New("FOREIGN KEY")), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusFor(c.err), c.err.Error())
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/x", nil)

	rec := httptest.NewRecorder()
	writeError(rec, r, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	writeError(rec, r, fmt.Errorf("insert message: %w: %w", domain.ErrConstraintViolation, errors.New("FOREIGN KEY constraint failed")))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"constraint violation"}`, rec.Body.String())
}
