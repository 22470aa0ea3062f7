package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hellchat/internal/domain"
)

func TestPreview(t *testing.T) {
	fifty := strings.Repeat("a", 50)
	assert.Equal(t, fifty, Preview(fifty))
	assert.Equal(t, fifty+"…", Preview(fifty+"b"))
	assert.Equal(t, "", Preview(""))

	// counted in characters, not bytes
	cyr := strings.Repeat("ж", 50)
	assert.Equal(t, cyr, Preview(cyr))
	assert.Equal(t, cyr+"…", Preview(cyr+"ж"))
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2024, 3, 1, 21, 5, 0, 0, time.UTC)
	assert.Equal(t, "21:05", FormatClock(ts, nil))

	loc := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, "00:05", FormatClock(ts, loc))
}

func directRow(id, from, to int64, cp domain.User, text string, at time.Time, read bool) *domain.DirectThreadRow {
	return &domain.DirectThreadRow{
		Message: domain.Message{
			ID: id, SenderID: from, Target: domain.Direct(to),
			Text: text, IsRead: read, CreatedAt: at,
		},
		Counterpart: cp,
	}
}

func TestSummarizeDirect(t *testing.T) {
	const me = int64(1)
	x := domain.User{ID: 2, Username: "x", Nickname: "Xavier", Online: true}
	y := domain.User{ID: 3, Username: "y"}
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	t.Run("OrderedByLastActivity", func(t *testing.T) {
		// newest first, as the repository returns them
		rows := []*domain.DirectThreadRow{
			directRow(3, y.ID, me, y, "from y", t0.Add(3*time.Minute), false),
			directRow(2, me, x.ID, x, "to x", t0.Add(2*time.Minute), false),
			directRow(1, x.ID, me, x, "from x", t0.Add(time.Minute), false),
		}
		got := summarizeDirect(me, rows, time.UTC)
		require.Len(t, got, 2)

		assert.Equal(t, y.ID, got[0].ID)
		assert.Equal(t, "y", got[0].Name, "falls back to username")
		assert.Equal(t, "from y", got[0].LastMessage)
		assert.Equal(t, "09:03", got[0].Time)
		assert.Equal(t, 1, got[0].Unread)
		assert.False(t, got[0].IsGroup)

		assert.Equal(t, x.ID, got[1].ID)
		assert.Equal(t, "Xavier", got[1].Name)
		assert.Equal(t, "to x", got[1].LastMessage)
		assert.Equal(t, 1, got[1].Unread, "own outgoing message is not unread")
		assert.True(t, got[1].Online)
	})

	t.Run("TieBrokenByCounterpartID", func(t *testing.T) {
		rows := []*domain.DirectThreadRow{
			directRow(5, y.ID, me, y, "b", t0, true),
			directRow(4, x.ID, me, x, "a", t0, true),
		}
		got := summarizeDirect(me, rows, time.UTC)
		require.Len(t, got, 2)
		assert.Equal(t, []int64{x.ID, y.ID}, []int64{got[0].ID, got[1].ID})
	})

	t.Run("UnreadCountsOnlyIncomingUnread", func(t *testing.T) {
		rows := []*domain.DirectThreadRow{
			directRow(9, x.ID, me, x, "3", t0.Add(4*time.Minute), false),
			directRow(8, x.ID, me, x, "2", t0.Add(3*time.Minute), false),
			directRow(7, me, x.ID, x, "mine", t0.Add(2*time.Minute), false),
			directRow(6, x.ID, me, x, "1", t0.Add(time.Minute), false),
			directRow(5, x.ID, me, x, "old", t0, true),
		}
		got := summarizeDirect(me, rows, time.UTC)
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Unread)
		assert.Equal(t, "3", got[0].LastMessage)
	})

	t.Run("NoteToSelfIsNeverUnread", func(t *testing.T) {
		self := domain.User{ID: me, Username: "me"}
		rows := []*domain.DirectThreadRow{
			directRow(11, me, me, self, "remember milk", t0, false),
		}
		got := summarizeDirect(me, rows, time.UTC)
		require.Len(t, got, 1)
		assert.Equal(t, me, got[0].ID)
		assert.Equal(t, "remember milk", got[0].LastMessage)
		assert.Zero(t, got[0].Unread)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, summarizeDirect(me, nil, time.UTC))
	})
}
