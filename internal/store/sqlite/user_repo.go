package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hellchat/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, nickname, avatar_url, bio, online, last_seen, created_at`

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	ts := now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, nickname, avatar_url, bio, online, last_seen, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`, u.Username, u.PasswordHash, u.Nickname, u.AvatarURL, u.Bio, ts, ts)
	if err != nil {
		return wrapErr("insert user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	u.ID = id
	u.Online = false
	u.LastSeen = ts
	u.CreatedAt = ts
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username LIKE ? OR nickname LIKE ?
		ORDER BY username ASC
		LIMIT ?
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return r.scanUsers(rows)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET nickname   = COALESCE(?, nickname),
		    bio        = COALESCE(?, bio),
		    avatar_url = COALESCE(?, avatar_url)
		WHERE id = ?
	`, p.Nickname, p.Bio, p.AvatarURL, id)
	if err != nil {
		return nil, wrapErr("update profile", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepo) SetOnlineStatus(ctx context.Context, id int64, online bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET online = ?, last_seen = ? WHERE id = ?`,
		online, now(), id,
	)
	if err != nil {
		return fmt.Errorf("set online status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *UserRepo) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Nickname,
		&u.AvatarURL, &u.Bio, &u.Online, &u.LastSeen, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) scanUsers(rows *sql.Rows) ([]*domain.User, error) {
	defer rows.Close()
	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(
			&u.ID, &u.Username, &u.PasswordHash, &u.Nickname,
			&u.AvatarURL, &u.Bio, &u.Online, &u.LastSeen, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
