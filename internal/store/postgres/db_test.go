package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"hellchat/internal/domain"
)

func TestWrapErrClassifiesIntegrityViolations(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint bool
	}{
		{"UniqueViolation", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, true},
		{"ForeignKeyViolation", &pgconn.PgError{Code: "23503"}, true},
		{"CheckViolation", &pgconn.PgError{Code: "23514", ConstraintName: "messages_single_target"}, true},
		{"WrappedPgError", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), true},
		{"SerializationFailure", &pgconn.PgError{Code: "40001"}, false},
		{"UndefinedTable", &pgconn.PgError{Code: "42P01"}, false},
		{"EmptyCode", &pgconn.PgError{}, false},
		{"PlainError", errors.New("connection reset"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := wrapErr("insert message", c.err)
			assert.ErrorIs(t, got, c.err)
			assert.Equal(t, c.constraint, errors.Is(got, domain.ErrConstraintViolation))
			assert.Contains(t, got.Error(), "insert message")
		})
	}
}

func TestTargetFromColumns(t *testing.T) {
	direct := targetFromColumns(sql.NullInt64{Int64: 7, Valid: true}, sql.NullInt64{})
	assert.True(t, direct.IsDirect())
	assert.Equal(t, int64(7), direct.ID())

	group := targetFromColumns(sql.NullInt64{}, sql.NullInt64{Int64: 3, Valid: true})
	assert.True(t, group.IsGroup())
	assert.Equal(t, int64(3), group.ID())
}
