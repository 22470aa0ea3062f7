package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"hellchat/internal/domain"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL migrations for the messaging schema on PostgreSQL.
func Migrate(db *sql.DB) error {
	stmts := []string{
		// Users
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL    PRIMARY KEY,
			username      VARCHAR(50)  UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			nickname      VARCHAR(100) NOT NULL DEFAULT '',
			avatar_url    TEXT,
			bio           TEXT,
			online        BOOLEAN      NOT NULL DEFAULT FALSE,
			last_seen     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		// Groups
		`CREATE TABLE IF NOT EXISTS groups (
			id          BIGSERIAL    PRIMARY KEY,
			name        VARCHAR(100) NOT NULL,
			description TEXT         NOT NULL DEFAULT '',
			avatar_url  TEXT,
			creator_id  BIGINT       NOT NULL REFERENCES users(id),
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		// Group membership
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id  BIGINT      NOT NULL REFERENCES groups(id),
			user_id   BIGINT      NOT NULL REFERENCES users(id),
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (group_id, user_id)
		)`,

		// Messages: exactly one of receiver_id / group_id
		`CREATE TABLE IF NOT EXISTS messages (
			id           BIGSERIAL   PRIMARY KEY,
			sender_id    BIGINT      NOT NULL REFERENCES users(id),
			receiver_id  BIGINT      REFERENCES users(id),
			group_id     BIGINT      REFERENCES groups(id),
			message_text TEXT        NOT NULL,
			is_read      BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT messages_single_target CHECK ((receiver_id IS NULL) <> (group_id IS NULL))
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_users_online ON users(online)`,
		`CREATE INDEX IF NOT EXISTS idx_groups_created_at ON groups(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, is_read)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_group_created ON messages(group_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

// wrapErr annotates err with op and tags integrity violations (SQLSTATE
// class 23) with domain.ErrConstraintViolation.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == "23" {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func targetFromColumns(receiverID, groupID sql.NullInt64) domain.Target {
	if groupID.Valid {
		return domain.GroupTarget(groupID.Int64)
	}
	return domain.Direct(receiverID.Int64)
}
