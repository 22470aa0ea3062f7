package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"hellchat/internal/domain"
	"hellchat/internal/service"
)

// Authenticator resolves the caller of an upgrade request.
type Authenticator func(r *http.Request) (int64, error)

func normalizeAllowedOrigins(origins []string) map[string]struct{} {
	res := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		o := strings.TrimSpace(strings.ToLower(origin))
		if o != "" {
			res[o] = struct{}{}
		}
	}
	return res
}

// makeCheckOrigin allows requests without an Origin header (non-browser
// clients) and browser requests from an allowed origin. "*" allows all.
func makeCheckOrigin(allowedOrigins []string) func(r *http.Request) bool {
	allowed := normalizeAllowedOrigins(allowedOrigins)
	if _, ok := allowed["*"]; ok {
		return func(r *http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := strings.TrimSpace(strings.ToLower(r.Header.Get("Origin")))
		if origin == "" {
			return true
		}
		if _, ok := allowed[origin]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		_, ok := allowed[fmt.Sprintf("%s://%s", u.Scheme, u.Host)]
		return ok
	}
}

// inbound is a client-to-server frame.
type inbound struct {
	Type       string `json:"type"`
	ReceiverID *int64 `json:"receiver_id"`
	GroupID    *int64 `json:"group_id"`
	UserID     int64  `json:"user_id"`
	Text       string `json:"text"`
}

type typingEvent struct {
	UserID     int64  `json:"user_id"`
	ReceiverID *int64 `json:"receiver_id,omitempty"`
	GroupID    *int64 `json:"group_id,omitempty"`
}

type presenceEvent struct {
	UserID int64 `json:"user_id"`
	Online bool  `json:"online"`
}

// MakeHandler returns the /ws endpoint. Client events:
//   - message   -> SendMessage (the service publishes message:new)
//   - mark_read -> MarkConversationRead
//   - typing    -> forwarded to the other side of the thread
func MakeHandler(
	hub *Hub,
	auth Authenticator,
	users domain.UserRepository,
	msgSvc *service.MessageService,
	allowedOrigins []string,
) http.HandlerFunc {
	checkOrigin := makeCheckOrigin(allowedOrigins)
	upgrader := websocket.Upgrader{
		CheckOrigin:     checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := auth(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := users.GetByID(r.Context(), userID); err != nil {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		c := newClient(userID, conn)
		hub.register(c)
		go c.writePump()

		ctx := context.WithoutCancel(r.Context())
		setPresence(ctx, hub, users, userID, true)
		defer func() {
			hub.unregister(c)
			if !hub.Online(userID) {
				setPresence(ctx, hub, users, userID, false)
			}
		}()

		readLoop(ctx, c, hub, msgSvc)
	}
}

func setPresence(ctx context.Context, hub *Hub, users domain.UserRepository, userID int64, online bool) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := users.SetOnlineStatus(ctx, userID, online); err != nil {
		slog.Warn("ws: set presence", "user_id", userID, "online", online, "error", err)
	}
	hub.Broadcast("presence", presenceEvent{UserID: userID, Online: online})
}

func readLoop(ctx context.Context, c *client, hub *Hub, msgSvc *service.MessageService) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in inbound
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("ws: read", "user_id", c.userID, "error", err)
			}
			return
		}

		switch in.Type {
		case "message":
			target, err := domain.ParseTarget(in.ReceiverID, in.GroupID)
			if err != nil {
				sendError(c, err.Error())
				continue
			}
			if _, err := msgSvc.SendMessage(ctx, c.userID, target, in.Text); err != nil {
				slog.Error("ws: send message", "user_id", c.userID, "target", target.String(), "error", err)
				sendError(c, "failed to send message")
			}

		case "mark_read":
			if in.UserID <= 0 {
				sendError(c, "mark_read requires user_id")
				continue
			}
			if _, err := msgSvc.MarkConversationRead(ctx, c.userID, in.UserID); err != nil {
				slog.Error("ws: mark read", "user_id", c.userID, "error", err)
				sendError(c, "failed to mark messages as read")
			}

		case service.EventTyping:
			target, err := domain.ParseTarget(in.ReceiverID, in.GroupID)
			if err != nil {
				sendError(c, err.Error())
				continue
			}
			ids, err := msgSvc.Recipients(ctx, c.userID, target)
			if err != nil {
				continue
			}
			others := ids[:0]
			for _, id := range ids {
				if id != c.userID {
					others = append(others, id)
				}
			}
			hub.Publish(others, service.EventTyping, typingEvent{
				UserID:     c.userID,
				ReceiverID: target.ReceiverID(),
				GroupID:    target.GroupID(),
			})

		default:
			slog.Debug("ws: unknown event", "type", in.Type, "user_id", c.userID)
			sendError(c, fmt.Sprintf("unknown event type %q", in.Type))
		}
	}
}

func sendError(c *client, msg string) {
	frame, err := json.Marshal(Event{Type: "error", Data: map[string]string{"message": msg}})
	if err != nil {
		return
	}
	c.enqueue(frame)
}
