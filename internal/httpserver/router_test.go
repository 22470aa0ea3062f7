package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hellchat/internal/config"
	"hellchat/internal/metrics"
	"hellchat/internal/security"
	"hellchat/internal/service"
	"hellchat/internal/store"
	"hellchat/internal/store/sqlite"
	"hellchat/internal/ws"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, jwtSecret string) *testServer {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { db.Close() })
	st := store.NewSQLite(db)

	cfg := &config.Config{
		AppName:     "hellchat",
		CORSOrigins: []string{"*"},
		UploadDir:   t.TempDir(),
		MaxUploadMB: 1,
	}
	m := metrics.New()
	hub := ws.NewHub(m)
	auth := service.NewAuthService(st.Users, security.NewTokenService(jwtSecret, time.Hour), security.NewPasswordHasher(4))
	msgs := service.NewMessageService(st.Users, st.Groups, st.Messages, service.MessageOptions{
		Notifier: hub,
		Metrics:  m,
	})

	h := NewRouter(Deps{
		Config:   cfg,
		Store:    st,
		Auth:     auth,
		Users:    service.NewUserService(st.Users),
		Groups:   service.NewGroupService(st.Groups),
		Messages: msgs,
		Hub:      hub,
		Metrics:  m,
	})
	return &testServer{t: t, handler: h}
}

// do sends body as JSON. headers alternate key, value.
func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) as(userID int64, method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.do(method, path, body, UserIDHeader, strconv.FormatInt(userID, 10))
}

func (s *testServer) register(username, nickname string) int64 {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth", map[string]string{
		"action": "register", "username": username, "password": "pw", "nickname": nickname,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.User.ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type messagesBody struct {
	Messages []service.MessageResponse `json:"messages"`
}

type chatsBody struct {
	Chats []service.ConversationSummary `json:"chats"`
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, "")
	aliceID := s.register("alice", "Alice")

	t.Run("PasswordNotSerialized", func(t *testing.T) {
		rec := s.as(aliceID, http.MethodGet, "/api/auth/me", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
		assert.Contains(t, rec.Body.String(), `"nickname":"Alice"`)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "alice", "password": "x"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Login", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth", map[string]string{"action": "login", "username": "alice", "password": "pw"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, true, body["success"])
		assert.NotContains(t, body, "access_token")

		rec = s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice", "password": "bad"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("UnknownAction", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth", map[string]string{"action": "dance"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid action"}`, rec.Body.String())
	})

	t.Run("UpdateProfileAction", func(t *testing.T) {
		rec := s.as(aliceID, http.MethodPost, "/api/auth", map[string]string{"action": "update_profile", "bio": "hi"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"bio":"hi"`)

		rec = s.do(http.MethodPost, "/api/auth", map[string]string{"action": "update_profile", "bio": "hi"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MissingCaller", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/messages", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

		rec = s.do(http.MethodGet, "/api/messages", nil, UserIDHeader, "abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Logout", func(t *testing.T) {
		rec := s.as(aliceID, http.MethodPost, "/api/auth/logout", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestBearerMode(t *testing.T) {
	s := newTestServer(t, "secret")
	rec := s.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "bob", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]any](t, rec)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	rec = s.do(http.MethodGet, "/api/auth/me", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)

	// the trusted header is ignored once tokens are on
	rec = s.do(http.MethodGet, "/api/auth/me", nil, UserIDHeader, "1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDirectMessagingEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	alice := s.register("alice", "Alice")
	bob := s.register("bob", "")

	t.Run("TargetMustBeExactlyOne", func(t *testing.T) {
		rec := s.as(alice, http.MethodPost, "/api/messages", map[string]any{"receiver_id": bob, "group_id": 1, "message_text": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.as(alice, http.MethodPost, "/api/messages", map[string]any{"message_text": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec := s.as(alice, http.MethodPost, "/api/messages", map[string]any{"receiver_id": bob, "message_text": "hi bob"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decode[service.MessageResponse](t, rec)
	assert.Equal(t, "hi bob", sent.Text)
	require.NotNil(t, sent.ReceiverID)
	assert.Nil(t, sent.GroupID)
	assert.Len(t, sent.Time, 5)

	t.Run("HistoryFromBothSides", func(t *testing.T) {
		got := decode[messagesBody](t, s.as(alice, http.MethodGet, fmt.Sprintf("/api/messages?user_id=%d", bob), nil))
		require.Len(t, got.Messages, 1)
		assert.Equal(t, sent.ID, got.Messages[0].ID)

		got = decode[messagesBody](t, s.as(bob, http.MethodGet, fmt.Sprintf("/api/messages?user_id=%d", alice), nil))
		require.Len(t, got.Messages, 1)
		assert.Equal(t, sent.ID, got.Messages[0].ID)
	})

	t.Run("ChatListAndMarkRead", func(t *testing.T) {
		chats := decode[chatsBody](t, s.as(bob, http.MethodGet, "/api/messages", nil))
		require.Len(t, chats.Chats, 1)
		assert.Equal(t, alice, chats.Chats[0].ID)
		assert.Equal(t, "Alice", chats.Chats[0].Name)
		assert.Equal(t, 1, chats.Chats[0].Unread)

		rec := s.as(bob, http.MethodPost, "/api/messages/read", map[string]any{"user_id": alice})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"marked":1}`, rec.Body.String())

		chats = decode[chatsBody](t, s.as(bob, http.MethodGet, "/api/messages", nil))
		assert.Zero(t, chats.Chats[0].Unread)
	})

	t.Run("BadQuery", func(t *testing.T) {
		rec := s.as(alice, http.MethodGet, "/api/messages?user_id=x", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		rec = s.as(alice, http.MethodGet, "/api/messages?user_id=1&group_id=1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownReceiverIsConflict", func(t *testing.T) {
		rec := s.as(alice, http.MethodPost, "/api/messages", map[string]any{"receiver_id": 9999, "message_text": "x"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGroupEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	u := s.register("u", "Uma")
	v := s.register("v", "")

	rec := s.as(u, http.MethodPost, "/api/groups", map[string]any{"name": "Team"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Group struct {
			ID          int64 `json:"id"`
			MemberCount int   `json:"member_count"`
			IsGroup     bool  `json:"is_group"`
		} `json:"group"`
	}](t, rec)
	gid := created.Group.ID
	assert.Equal(t, 1, created.Group.MemberCount)
	assert.True(t, created.Group.IsGroup)

	for i := 0; i < 2; i++ {
		rec = s.as(u, http.MethodPost, "/api/groups", map[string]any{"action": "add_member", "group_id": gid, "member_id": v})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = s.as(u, http.MethodPost, fmt.Sprintf("/api/groups/%d/members", gid), map[string]any{"member_id": v})
	require.Equal(t, http.StatusOK, rec.Code)

	groups := decode[struct {
		Groups []struct {
			Name        string `json:"name"`
			MemberCount int    `json:"member_count"`
			IsGroup     bool   `json:"is_group"`
		} `json:"groups"`
	}](t, s.as(v, http.MethodGet, "/api/groups", nil))
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, "Team", groups.Groups[0].Name)
	assert.Equal(t, 2, groups.Groups[0].MemberCount)
	assert.True(t, groups.Groups[0].IsGroup)

	rec = s.as(v, http.MethodGet, fmt.Sprintf("/api/groups/%d", gid), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Team"`)

	rec = s.as(u, http.MethodPost, "/api/messages", map[string]any{"group_id": gid, "message_text": "hello team"})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, path := range []string{
		fmt.Sprintf("/api/messages?group_id=%d", gid),
		fmt.Sprintf("/api/groups/%d/messages", gid),
	} {
		got := decode[messagesBody](t, s.as(v, http.MethodGet, path, nil))
		require.Len(t, got.Messages, 1, path)
		assert.Equal(t, "Uma", got.Messages[0].SenderNickname)
		assert.Equal(t, "hello team", got.Messages[0].Text)
	}

	chats := decode[chatsBody](t, s.as(v, http.MethodGet, "/api/chats", nil))
	require.Len(t, chats.Chats, 1)
	assert.True(t, chats.Chats[0].IsGroup)

	t.Run("UnknownGroupIsNotFound", func(t *testing.T) {
		for _, path := range []string{
			"/api/groups/9999",
			"/api/groups/9999/messages",
			"/api/messages?group_id=9999",
		} {
			rec := s.as(u, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		rec := s.as(u, http.MethodPost, "/api/groups", map[string]any{"action": "create", "name": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("InvalidAction", func(t *testing.T) {
		rec := s.as(u, http.MethodPost, "/api/groups", map[string]any{"action": "remove_member"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t, "")
	alice := s.register("alice", "Alice")
	s.register("bob", "Bobby")

	rec := s.as(alice, http.MethodGet, "/api/users?q=bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)

	rec = s.as(alice, http.MethodGet, "/api/users/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.as(alice, http.MethodPut, "/api/users/me", map[string]string{"nickname": "Ally"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nickname":"Ally"`)

	rec = s.as(9999, http.MethodPut, "/api/users/me", map[string]string{"nickname": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadAvatar(t *testing.T) {
	s := newTestServer(t, "")
	alice := s.register("alice", "")

	upload := func(content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set(UserIDHeader, strconv.FormatInt(alice, 10))
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	rec := upload(png)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)
	assert.Regexp(t, `^/api/uploads/[0-9a-f-]{36}\.png$`, body["avatar_url"])

	get := s.do(http.MethodGet, body["avatar_url"], nil)
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, png, get.Body.Bytes())

	rec = upload([]byte("#!/bin/sh\necho pwned\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "")
	rec := s.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hellchat_http_requests_total")
}
