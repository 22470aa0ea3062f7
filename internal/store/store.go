// Package store opens the configured database dialect and exposes its
// repositories behind the domain interfaces.
package store

import (
	"database/sql"
	"fmt"

	"hellchat/internal/config"
	"hellchat/internal/domain"
	"hellchat/internal/store/postgres"
	"hellchat/internal/store/sqlite"
)

type Store struct {
	DB       *sql.DB
	Users    domain.UserRepository
	Groups   domain.GroupRepository
	Messages domain.MessageRepository
}

// Open connects to the database selected by cfg.DBDriver, applies the pool
// settings and runs migrations.
func Open(cfg *config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return &Store{
			DB:       db,
			Users:    postgres.NewUserRepo(db),
			Groups:   postgres.NewGroupRepo(db),
			Messages: postgres.NewMessageRepo(db),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLite(db), nil
	}
	return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
}

// NewSQLite wraps an already migrated SQLite handle.
func NewSQLite(db *sql.DB) *Store {
	return &Store{
		DB:       db,
		Users:    sqlite.NewUserRepo(db),
		Groups:   sqlite.NewGroupRepo(db),
		Messages: sqlite.NewMessageRepo(db),
	}
}

func (s *Store) Close() error {
	return s.DB.Close()
}
