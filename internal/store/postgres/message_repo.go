package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"hellchat/internal/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

const messageColumns = `m.id, m.sender_id, m.receiver_id, m.group_id, m.message_text, m.is_read, m.created_at`

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	if err := m.Target.Validate(); err != nil {
		return err
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, group_id, message_text, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING id, is_read, created_at
	`, m.SenderID, m.Target.ReceiverID(), m.Target.GroupID(), m.Text,
	).Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return wrapErr("insert message", err)
	}
	return nil
}

func (r *MessageRepo) ListDirect(ctx context.Context, userID, otherUserID int64) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`
		FROM messages m
		WHERE m.group_id IS NULL
		  AND ((m.sender_id = $1 AND m.receiver_id = $2)
		    OR (m.sender_id = $2 AND m.receiver_id = $1))
		ORDER BY m.created_at ASC, m.id ASC
	`, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("list direct messages: %w", err)
	}
	return r.scanMessages(rows)
}

func (r *MessageRepo) ListGroup(ctx context.Context, groupID int64) ([]*domain.GroupMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`, u.username, u.nickname, u.avatar_url
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.group_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.GroupMessage
	for rows.Next() {
		gm := &domain.GroupMessage{}
		var receiverID, gID sql.NullInt64
		if err := rows.Scan(
			&gm.ID, &gm.SenderID, &receiverID, &gID, &gm.Text, &gm.IsRead, &gm.CreatedAt,
			&gm.SenderUsername, &gm.SenderNickname, &gm.SenderAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan group message: %w", err)
		}
		gm.Target = targetFromColumns(receiverID, gID)
		res = append(res, gm)
	}
	return res, rows.Err()
}

func (r *MessageRepo) ListDirectThreads(ctx context.Context, userID int64) ([]*domain.DirectThreadRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+`,
		       u.id, u.username, u.nickname, u.avatar_url, u.online, u.last_seen
		FROM messages m
		JOIN users u
		  ON u.id = CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END
		WHERE m.group_id IS NULL
		  AND (m.sender_id = $1 OR m.receiver_id = $1)
		ORDER BY m.created_at DESC, m.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list direct threads: %w", err)
	}
	defer rows.Close()

	var res []*domain.DirectThreadRow
	for rows.Next() {
		row := &domain.DirectThreadRow{}
		var receiverID, groupID sql.NullInt64
		if err := rows.Scan(
			&row.ID, &row.SenderID, &receiverID, &groupID, &row.Text, &row.IsRead, &row.CreatedAt,
			&row.Counterpart.ID, &row.Counterpart.Username, &row.Counterpart.Nickname,
			&row.Counterpart.AvatarURL, &row.Counterpart.Online, &row.Counterpart.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("scan direct thread: %w", err)
		}
		row.Target = targetFromColumns(receiverID, groupID)
		res = append(res, row)
	}
	return res, rows.Err()
}

func (r *MessageRepo) MarkDirectRead(ctx context.Context, readerID, senderID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET is_read = TRUE
		WHERE group_id IS NULL AND receiver_id = $1 AND sender_id = $2 AND is_read = FALSE
	`, readerID, senderID)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return res.RowsAffected()
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (r *MessageRepo) scanMessages(rows *sql.Rows) ([]*domain.Message, error) {
	defer rows.Close()
	var res []*domain.Message
	for rows.Next() {
		m := &domain.Message{}
		var receiverID, groupID sql.NullInt64
		if err := rows.Scan(
			&m.ID, &m.SenderID, &receiverID, &groupID, &m.Text, &m.IsRead, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Target = targetFromColumns(receiverID, groupID)
		res = append(res, m)
	}
	return res, rows.Err()
}
