package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hellchat/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, repo *UserRepo, username, nickname string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, PasswordHash: "x", Nickname: nickname}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Migrate(db))
}

func TestUserRepo(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "Alice")
	assert.NotZero(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, "Alice", got.Nickname)
		assert.Nil(t, got.AvatarURL)
	})

	t.Run("MissingUserIsNotFound", func(t *testing.T) {
		_, err := users.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("DuplicateUsernameIsConstraintViolation", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "y"})
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})

	t.Run("UpdateProfileKeepsUnsetFields", func(t *testing.T) {
		bio := "lurking"
		got, err := users.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Nickname)
		require.NotNil(t, got.Bio)
		assert.Equal(t, "lurking", *got.Bio)

		nick := "Al"
		got, err = users.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{Nickname: &nick})
		require.NoError(t, err)
		assert.Equal(t, "Al", got.Nickname)
		assert.Equal(t, "lurking", *got.Bio)
	})

	t.Run("UpdateProfileMissingUser", func(t *testing.T) {
		nick := "ghost"
		_, err := users.UpdateProfile(ctx, 9999, domain.ProfileUpdate{Nickname: &nick})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SetOnlineStatus", func(t *testing.T) {
		require.NoError(t, users.SetOnlineStatus(ctx, alice.ID, true))
		got, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, got.Online)
		assert.ErrorIs(t, users.SetOnlineStatus(ctx, 9999, true), domain.ErrNotFound)
	})

	t.Run("Search", func(t *testing.T) {
		createUser(t, users, "bob", "Bobby")
		found, err := users.Search(ctx, "bob", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "bob", found[0].Username)
	})
}

func TestGroupRepo(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	groups := NewGroupRepo(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "Alice")
	bob := createUser(t, users, "bob", "")

	team := &domain.Group{Name: "Team", CreatorID: alice.ID}
	require.NoError(t, groups.Create(ctx, team))
	assert.NotZero(t, team.ID)

	t.Run("CreatorIsFirstMember", func(t *testing.T) {
		list, err := groups.ListForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, team.ID, list[0].ID)
		assert.Equal(t, 1, list[0].MemberCount)
		assert.True(t, list[0].IsGroup)
	})

	t.Run("AddMemberIsIdempotent", func(t *testing.T) {
		require.NoError(t, groups.AddMember(ctx, team.ID, bob.ID))
		require.NoError(t, groups.AddMember(ctx, team.ID, bob.ID))

		ids, err := groups.ListMemberIDs(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{alice.ID, bob.ID}, ids)

		ok, err := groups.IsMember(ctx, team.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AddUnknownMemberFails", func(t *testing.T) {
		err := groups.AddMember(ctx, team.ID, 9999)
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)
	})

	t.Run("CreateForUnknownCreatorLeavesNothingBehind", func(t *testing.T) {
		err := groups.Create(ctx, &domain.Group{Name: "Orphan", CreatorID: 9999})
		assert.ErrorIs(t, err, domain.ErrConstraintViolation)

		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM groups WHERE name = 'Orphan'`).Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("ListOrderedNewestFirst", func(t *testing.T) {
		later := &domain.Group{Name: "Later", CreatorID: alice.ID}
		require.NoError(t, groups.Create(ctx, later))

		list, err := groups.ListForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, later.ID, list[0].ID)
		assert.Equal(t, team.ID, list[1].ID)
		assert.Equal(t, 2, list[1].MemberCount)
	})

	t.Run("GetByIDMissing", func(t *testing.T) {
		_, err := groups.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMessageRepo(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	groups := NewGroupRepo(db)
	messages := NewMessageRepo(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice", "Alice")
	bob := createUser(t, users, "bob", "")
	carol := createUser(t, users, "carol", "Carol")

	team := &domain.Group{Name: "Team", CreatorID: alice.ID}
	require.NoError(t, groups.Create(ctx, team))

	send := func(from int64, to domain.Target, text string) *domain.Message {
		m := &domain.Message{SenderID: from, Target: to, Text: text}
		require.NoError(t, messages.Create(ctx, m))
		return m
	}

	m1 := send(alice.ID, domain.Direct(bob.ID), "hi")
	m2 := send(bob.ID, domain.Direct(alice.ID), "hey")
	g1 := send(alice.ID, domain.GroupTarget(team.ID), "welcome")
	m3 := send(carol.ID, domain.Direct(alice.ID), "psst")

	t.Run("InvalidTargetRejected", func(t *testing.T) {
		err := messages.Create(ctx, &domain.Message{SenderID: alice.ID, Text: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidTarget)
	})

	t.Run("ListDirectIsSymmetricAndChronological", func(t *testing.T) {
		ab, err := messages.ListDirect(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		ba, err := messages.ListDirect(ctx, bob.ID, alice.ID)
		require.NoError(t, err)

		require.Len(t, ab, 2)
		assert.Equal(t, []int64{m1.ID, m2.ID}, []int64{ab[0].ID, ab[1].ID})
		assert.Equal(t, ab, ba)
		assert.True(t, ab[0].Target.IsDirect())
		assert.Equal(t, bob.ID, ab[0].Target.ID())
	})

	t.Run("ListGroupJoinsSenderProfile", func(t *testing.T) {
		list, err := messages.ListGroup(ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, g1.ID, list[0].ID)
		assert.Equal(t, "Alice", list[0].SenderNickname)
		assert.True(t, list[0].Target.IsGroup())
	})

	t.Run("ListDirectThreadsNewestFirstWithoutGroups", func(t *testing.T) {
		rows, err := messages.ListDirectThreads(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, m3.ID, rows[0].ID)
		assert.Equal(t, carol.ID, rows[0].Counterpart.ID)
		assert.Equal(t, m2.ID, rows[1].ID)
		assert.Equal(t, bob.ID, rows[1].Counterpart.ID)
		assert.Equal(t, m1.ID, rows[2].ID)
		assert.Equal(t, bob.ID, rows[2].Counterpart.ID)
	})

	t.Run("MarkDirectRead", func(t *testing.T) {
		n, err := messages.MarkDirectRead(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = messages.MarkDirectRead(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Zero(t, n)

		rows, err := messages.ListDirect(ctx, alice.ID, carol.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.False(t, rows[0].IsRead)
	})

	t.Run("CheckConstraintRejectsBothColumns", func(t *testing.T) {
		_, err := db.Exec(`
			INSERT INTO messages (sender_id, receiver_id, group_id, message_text, created_at)
			VALUES (?, ?, ?, 'bad', CURRENT_TIMESTAMP)
		`, alice.ID, bob.ID, team.ID)
		assert.Error(t, err)
	})
}
