package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"hellchat/internal/domain"
)

// Open opens a SQLite database with the given DSN. Foreign keys and a busy
// timeout are enabled on every pooled connection through _pragma parameters.
func Open(dsn string) (*sql.DB, error) {
	if !strings.Contains(dsn, "_pragma=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL for the messaging schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      VARCHAR(50)  UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			nickname      VARCHAR(100) NOT NULL DEFAULT '',
			avatar_url    TEXT DEFAULT NULL,
			bio           TEXT DEFAULT NULL,
			online        BOOLEAN NOT NULL DEFAULT 0,
			last_seen     DATETIME NOT NULL,
			created_at    DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS groups (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			avatar_url  TEXT DEFAULT NULL,
			creator_id  INTEGER NOT NULL,
			created_at  DATETIME NOT NULL,
			FOREIGN KEY (creator_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id  INTEGER NOT NULL,
			user_id   INTEGER NOT NULL,
			joined_at DATETIME NOT NULL,
			PRIMARY KEY (group_id, user_id),
			FOREIGN KEY (group_id) REFERENCES groups(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			sender_id    INTEGER NOT NULL,
			receiver_id  INTEGER DEFAULT NULL,
			group_id     INTEGER DEFAULT NULL,
			message_text TEXT NOT NULL,
			is_read      BOOLEAN NOT NULL DEFAULT 0,
			created_at   DATETIME NOT NULL,
			FOREIGN KEY (sender_id) REFERENCES users(id),
			FOREIGN KEY (receiver_id) REFERENCES users(id),
			FOREIGN KEY (group_id) REFERENCES groups(id),
			CHECK ((receiver_id IS NULL) <> (group_id IS NULL))
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_online ON users(online);`,
		`CREATE INDEX IF NOT EXISTS idx_groups_created_at ON groups(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, is_read);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_group_created ON messages(group_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// now is the write timestamp. CURRENT_TIMESTAMP only has second precision,
// which is too coarse to order messages.
func now() time.Time {
	return time.Now().UTC()
}

// wrapErr annotates err with op and tags integrity failures with
// domain.ErrConstraintViolation.
func wrapErr(op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
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
