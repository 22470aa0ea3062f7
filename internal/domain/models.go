package domain

import "time"

// User represents an application user.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Nickname     string    `db:"nickname" json:"nickname"`
	AvatarURL    *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Bio          *string   `db:"bio" json:"bio,omitempty"`
	Online       bool      `db:"online" json:"online"`
	LastSeen     time.Time `db:"last_seen" json:"last_seen"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DisplayName returns the nickname, or the username when no nickname is set.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Nickname  *string
	Bio       *string
	AvatarURL *string
}

// Group represents a group chat.
type Group struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	AvatarURL   *string   `db:"avatar_url" json:"avatar_url"`
	CreatorID   int64     `db:"creator_id" json:"creator_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GroupSummary is a group annotated with its live member count. IsGroup is
// always true; chat-list clients key on it.
type GroupSummary struct {
	Group
	MemberCount int  `db:"member_count" json:"member_count"`
	IsGroup     bool `db:"-" json:"is_group"`
}

// Message represents a single chat message. Target tells whether it belongs
// to a direct thread or a group thread.
type Message struct {
	ID        int64     `db:"id"`
	SenderID  int64     `db:"sender_id"`
	Target    Target    `db:"-"`
	Text      string    `db:"message_text"` // may be encrypted at rest
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

// GroupMessage is a group message joined with the sender's current profile.
type GroupMessage struct {
	Message
	SenderNickname  string
	SenderUsername  string
	SenderAvatarURL *string
}

// DirectThreadRow is one direct message involving a user, annotated with the
// other participant's identity. Repositories return these newest first.
type DirectThreadRow struct {
	Message
	Counterpart User
}
