package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hellchat/internal/domain"
)

type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

var _ domain.GroupRepository = (*GroupRepo)(nil)

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO groups (name, description, avatar_url, creator_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, g.Name, g.Description, g.AvatarURL, g.CreatorID, ts)
	if err != nil {
		return wrapErr("insert group", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES (?, ?, ?)
	`, id, g.CreatorID, ts); err != nil {
		return wrapErr("insert creator membership", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	g.ID = id
	g.CreatedAt = ts
	return nil
}

func (r *GroupRepo) GetByID(ctx context.Context, id int64) (*domain.Group, error) {
	g := &domain.Group{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, avatar_url, creator_id, created_at
		FROM groups
		WHERE id = ?
	`, id).Scan(&g.ID, &g.Name, &g.Description, &g.AvatarURL, &g.CreatorID, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return g, nil
}

// AddMember is idempotent: an existing membership is left untouched.
// INSERT OR IGNORE does not suppress foreign key failures.
func (r *GroupRepo) AddMember(ctx context.Context, groupID, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO group_members (group_id, user_id, joined_at)
		VALUES (?, ?, ?)
	`, groupID, userID, now()); err != nil {
		return wrapErr("add member", err)
	}
	return nil
}

func (r *GroupRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.GroupSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.avatar_url, g.creator_id, g.created_at,
		       (SELECT COUNT(*) FROM group_members c WHERE c.group_id = g.id) AS member_count
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC, g.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var res []*domain.GroupSummary
	for rows.Next() {
		g := &domain.GroupSummary{IsGroup: true}
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&g.Description,
			&g.AvatarURL,
			&g.CreatorID,
			&g.CreatedAt,
			&g.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r *GroupRepo) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM group_members
			WHERE group_id = ? AND user_id = ?
		)
	`, groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check member: %w", err)
	}
	return exists, nil
}

func (r *GroupRepo) ListMemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list member ids: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
