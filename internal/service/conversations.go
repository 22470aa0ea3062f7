package service

import (
	"sort"
	"time"
	"unicode/utf8"

	"hellchat/internal/domain"
)

const (
	previewLimit = 50
	ellipsis     = "…"
	clockLayout  = "15:04"
)

// ConversationSummary is one row of a user's chat list.
type ConversationSummary struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	LastMessage string  `json:"lastMessage"`
	Time        string  `json:"time"`
	Unread      int     `json:"unread"`
	Online      bool    `json:"online"`
	IsGroup     bool    `json:"is_group"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	MemberCount int     `json:"member_count,omitempty"`
	Description string  `json:"description,omitempty"`

	lastAt time.Time
}

// Preview shortens text to previewLimit characters, appending an ellipsis
// when anything was cut.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLimit {
		return text
	}
	return string([]rune(text)[:previewLimit]) + ellipsis
}

// FormatClock renders t as HH:MM in loc (UTC when loc is nil).
func FormatClock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(clockLayout)
}

// summarizeDirect folds newest-first direct rows into one summary per
// counterpart. Rows must already carry decrypted text.
func summarizeDirect(userID int64, rows []*domain.DirectThreadRow, loc *time.Location) []*ConversationSummary {
	byCounterpart := make(map[int64]*ConversationSummary)
	var out []*ConversationSummary

	for _, row := range rows {
		cp := row.Counterpart
		sum, ok := byCounterpart[cp.ID]
		if !ok {
			sum = &ConversationSummary{
				ID:          cp.ID,
				Name:        cp.DisplayName(),
				LastMessage: Preview(row.Text),
				Time:        FormatClock(row.CreatedAt, loc),
				Online:      cp.Online,
				AvatarURL:   cp.AvatarURL,
				lastAt:      row.CreatedAt,
			}
			byCounterpart[cp.ID] = sum
			out = append(out, sum)
		}
		// notes to self never count as unread
		if cp.ID != userID && row.SenderID == cp.ID && !row.IsRead {
			sum.Unread++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].lastAt.Equal(out[j].lastAt) {
			return out[i].lastAt.After(out[j].lastAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func groupSummary(g *domain.GroupSummary) *ConversationSummary {
	return &ConversationSummary{
		ID:          g.ID,
		Name:        g.Name,
		IsGroup:     true,
		AvatarURL:   g.AvatarURL,
		MemberCount: g.MemberCount,
		Description: g.Description,
		lastAt:      g.CreatedAt,
	}
}
