package postgres

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
	query := `
		INSERT INTO users (username, password_hash, nickname, avatar_url, bio, online, last_seen, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW(), NOW())
		RETURNING id, online, last_seen, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		u.Username, u.PasswordHash, u.Nickname, u.AvatarURL, u.Bio,
	).Scan(&u.ID, &u.Online, &u.LastSeen, &u.CreatedAt)
	if err != nil {
		return wrapErr("insert user", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE $1 OR nickname ILIKE $1
		ORDER BY username ASC
		LIMIT $2
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return r.scanUsers(rows)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, p domain.ProfileUpdate) (*domain.User, error) {
	u, err := r.scanUser(ctx, `
		UPDATE users
		SET nickname   = COALESCE($1, nickname),
		    bio        = COALESCE($2, bio),
		    avatar_url = COALESCE($3, avatar_url)
		WHERE id = $4
		RETURNING `+userColumns,
		p.Nickname, p.Bio, p.AvatarURL, id,
	)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, wrapErr("update profile", err)
	}
	return u, err
}

func (r *UserRepo) SetOnlineStatus(ctx context.Context, id int64, online bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET online = $1, last_seen = NOW() WHERE id = $2`,
		online, id,
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
