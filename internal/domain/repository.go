package domain

import (
	"context"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Search(ctx context.Context, query string, limit int) ([]*User, error)
	UpdateProfile(ctx context.Context, id int64, p ProfileUpdate) (*User, error)
	SetOnlineStatus(ctx context.Context, id int64, online bool) error
}

// GroupRepository defines persistence operations for groups and memberships.
type GroupRepository interface {
	// Create inserts the group and the creator's membership atomically.
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id int64) (*Group, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	ListForUser(ctx context.Context, userID int64) ([]*GroupSummary, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMemberIDs(ctx context.Context, groupID int64) ([]int64, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// ListDirect returns the thread between two users, oldest first.
	ListDirect(ctx context.Context, userID, otherUserID int64) ([]*Message, error)
	// ListGroup returns the group thread with sender profiles, oldest first.
	ListGroup(ctx context.Context, groupID int64) ([]*GroupMessage, error)
	// ListDirectThreads returns every direct message sent or received by
	// userID, newest first.
	ListDirectThreads(ctx context.Context, userID int64) ([]*DirectThreadRow, error)
	// MarkDirectRead flags every unread message from senderID to readerID as
	// read and returns how many changed.
	MarkDirectRead(ctx context.Context, readerID, senderID int64) (int64, error)
}
