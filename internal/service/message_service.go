package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hellchat/internal/domain"
	"hellchat/internal/metrics"
	"hellchat/internal/security"
)

// Event names pushed to connected clients.
const (
	EventMessageNew   = "message:new"
	EventMessagesRead = "messages:read"
	EventTyping       = "typing"
)

// Notifier pushes an event to every live connection of the given users.
type Notifier interface {
	Publish(userIDs []int64, event string, payload any)
}

type MessageOptions struct {
	Location *time.Location
	// RequireGroupMembership makes GetGroupHistory reject non-members.
	RequireGroupMembership bool
	Encryptor              *security.Encryptor
	Notifier               Notifier
	Metrics                *metrics.Metrics
}

type MessageService struct {
	users    domain.UserRepository
	groups   domain.GroupRepository
	messages domain.MessageRepository

	loc               *time.Location
	requireMembership bool
	encryptor         *security.Encryptor
	notifier          Notifier
	metrics           *metrics.Metrics
}

func NewMessageService(
	users domain.UserRepository,
	groups domain.GroupRepository,
	messages domain.MessageRepository,
	opts MessageOptions,
) *MessageService {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &MessageService{
		users:             users,
		groups:            groups,
		messages:          messages,
		loc:               loc,
		requireMembership: opts.RequireGroupMembership,
		encryptor:         opts.Encryptor,
		notifier:          opts.Notifier,
		metrics:           opts.Metrics,
	}
}

// SendMessage stores text from senderID to target and returns the stored
// message with plaintext text.
func (s *MessageService) SendMessage(ctx context.Context, senderID int64, target domain.Target, text string) (*domain.Message, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	sealed, err := s.encryptor.Encrypt(text)
	if err != nil {
		return nil, fmt.Errorf("encrypt text: %w", err)
	}
	msg := &domain.Message{SenderID: senderID, Target: target, Text: sealed}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	msg.Text = text

	s.metrics.MessageSent(target.Kind().String())
	s.publishNew(ctx, msg)
	return msg, nil
}

// GetDirectHistory returns the thread between two users, oldest first.
func (s *MessageService) GetDirectHistory(ctx context.Context, userID, otherUserID int64) ([]*domain.Message, error) {
	msgs, err := s.messages.ListDirect(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		m.Text = s.encryptor.Reveal(m.Text)
	}
	return msgs, nil
}

// GetGroupHistory returns a group's thread, oldest first, with each sender's
// current nickname and avatar. An unknown group is ErrNotFound.
func (s *MessageService) GetGroupHistory(ctx context.Context, callerID, groupID int64) ([]*domain.GroupMessage, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if s.requireMembership {
		ok, err := s.groups.IsMember(ctx, groupID, callerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrForbidden
		}
	}
	msgs, err := s.messages.ListGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		m.Text = s.encryptor.Reveal(m.Text)
	}
	return msgs, nil
}

// ListConversations returns one summary per direct counterpart, most
// recently active first.
func (s *MessageService) ListConversations(ctx context.Context, userID int64) ([]*ConversationSummary, error) {
	rows, err := s.messages.ListDirectThreads(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		r.Text = s.encryptor.Reveal(r.Text)
	}
	out := summarizeDirect(userID, rows, s.loc)
	if out == nil {
		out = []*ConversationSummary{}
	}
	return out, nil
}

// ListChats is ListConversations followed by the user's groups.
func (s *MessageService) ListChats(ctx context.Context, userID int64) ([]*ConversationSummary, error) {
	chats, err := s.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.groups.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		chats = append(chats, groupSummary(g))
	}
	return chats, nil
}

// MarkConversationRead flags every unread message from counterpartID to
// userID as read and returns how many changed.
func (s *MessageService) MarkConversationRead(ctx context.Context, userID, counterpartID int64) (int64, error) {
	n, err := s.messages.MarkDirectRead(ctx, userID, counterpartID)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.notifier != nil {
		s.notifier.Publish([]int64{counterpartID}, EventMessagesRead, ReadReceipt{
			ReaderID:      userID,
			CounterpartID: counterpartID,
			Count:         n,
		})
	}
	return n, nil
}

// Recipients lists the users who should see activity on target.
func (s *MessageService) Recipients(ctx context.Context, senderID int64, target domain.Target) ([]int64, error) {
	if target.IsGroup() {
		return s.groups.ListMemberIDs(ctx, target.ID())
	}
	if target.ID() == senderID {
		return []int64{senderID}, nil
	}
	return []int64{target.ID(), senderID}, nil
}

func (s *MessageService) publishNew(ctx context.Context, msg *domain.Message) {
	if s.notifier == nil {
		return
	}
	ids, err := s.Recipients(ctx, msg.SenderID, msg.Target)
	if err != nil {
		slog.Warn("resolve message recipients", "message_id", msg.ID, "target", msg.Target.String(), "error", err)
		return
	}
	resp := s.ToResponse(msg)
	if msg.Target.IsGroup() {
		if u, err := s.users.GetByID(ctx, msg.SenderID); err == nil {
			resp.SenderNickname = u.DisplayName()
			resp.SenderAvatarURL = u.AvatarURL
		}
	}
	s.notifier.Publish(ids, EventMessageNew, resp)
}

// ReadReceipt is the payload of EventMessagesRead.
type ReadReceipt struct {
	ReaderID      int64 `json:"reader_id"`
	CounterpartID int64 `json:"counterpart_id"`
	Count         int64 `json:"count"`
}

// MessageResponse is the wire form of a message.
type MessageResponse struct {
	ID              int64     `json:"id"`
	SenderID        int64     `json:"sender_id"`
	ReceiverID      *int64    `json:"receiver_id,omitempty"`
	GroupID         *int64    `json:"group_id,omitempty"`
	Text            string    `json:"text"`
	Time            string    `json:"time"`
	CreatedAt       time.Time `json:"created_at"`
	IsRead          bool      `json:"is_read"`
	SenderNickname  string    `json:"sender_nickname,omitempty"`
	SenderAvatarURL *string   `json:"sender_avatar_url,omitempty"`
}

func (s *MessageService) ToResponse(m *domain.Message) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.Target.ReceiverID(),
		GroupID:    m.Target.GroupID(),
		Text:       m.Text,
		Time:       FormatClock(m.CreatedAt, s.loc),
		CreatedAt:  m.CreatedAt,
		IsRead:     m.IsRead,
	}
}

func (s *MessageService) ToResponses(msgs []*domain.Message) []*MessageResponse {
	res := make([]*MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, s.ToResponse(m))
	}
	return res
}

func (s *MessageService) GroupResponses(msgs []*domain.GroupMessage) []*MessageResponse {
	res := make([]*MessageResponse, 0, len(msgs))
	for _, gm := range msgs {
		r := s.ToResponse(&gm.Message)
		r.SenderNickname = gm.SenderNickname
		if r.SenderNickname == "" {
			r.SenderNickname = gm.SenderUsername
		}
		r.SenderAvatarURL = gm.SenderAvatarURL
		res = append(res, r)
	}
	return res
}
