package httpserver

import (
	"net/http"
	"strconv"

	"hellchat/internal/domain"
	"hellchat/internal/service"
)

type messageCreateRequest struct {
	ReceiverID  *int64 `json:"receiver_id"`
	GroupID     *int64 `json:"group_id"`
	MessageText string `json:"message_text"`
}

type markReadRequest struct {
	UserID int64 `json:"user_id"`
}

func queryID(r *http.Request, name string) (int64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, true, domain.ErrInvalidInput
	}
	return id, true, nil
}

// @Summary      Chat list or thread history
// @Description  Without parameters returns the caller's direct conversations.
// @Description  With user_id returns the direct thread, with group_id the group thread.
// @Tags         messages
// @Security     UserID
// @Produce      json
// @Param        user_id   query  int  false  "counterpart id"
// @Param        group_id  query  int  false  "group id"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  errorResponse
// @Router       /messages [get]
func handleGetMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := mustCaller(r)
		otherID, hasUser, err := queryID(r, "user_id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		groupID, hasGroup, err := queryID(r, "group_id")
		if err != nil {
			writeError(w, r, err)
			return
		}

		switch {
		case hasUser && hasGroup:
			writeError(w, r, domain.ErrInvalidTarget)

		case hasUser:
			msgs, err := msgSvc.GetDirectHistory(r.Context(), caller, otherID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"messages": msgSvc.ToResponses(msgs)})

		case hasGroup:
			writeGroupHistory(w, r, msgSvc, caller, groupID)

		default:
			chats, err := msgSvc.ListConversations(r.Context(), caller)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
		}
	}
}

func writeGroupHistory(w http.ResponseWriter, r *http.Request, msgSvc *service.MessageService, caller, groupID int64) {
	msgs, err := msgSvc.GetGroupHistory(r.Context(), caller, groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgSvc.GroupResponses(msgs)})
}

// @Summary      Send a message
// @Description  Exactly one of receiver_id or group_id must be set.
// @Tags         messages
// @Security     UserID
// @Accept       json
// @Produce      json
// @Param        input body messageCreateRequest true "message"
// @Success      201  {object}  service.MessageResponse
// @Failure      400  {object}  errorResponse
// @Router       /messages [post]
func handleSendMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		target, err := domain.ParseTarget(req.ReceiverID, req.GroupID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		msg, err := msgSvc.SendMessage(r.Context(), mustCaller(r), target, req.MessageText)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, msgSvc.ToResponse(msg))
	}
}

// @Summary      Mark a direct conversation read
// @Tags         messages
// @Security     UserID
// @Accept       json
// @Produce      json
// @Param        input body markReadRequest true "counterpart"
// @Success      200  {object}  map[string]int64
// @Router       /messages/read [post]
func handleMarkRead(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markReadRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.UserID <= 0 {
			writeMessage(w, http.StatusBadRequest, "user_id is required")
			return
		}
		n, err := msgSvc.MarkConversationRead(r.Context(), mustCaller(r), req.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"marked": n})
	}
}

// @Summary      Full chat list
// @Description  Direct conversations followed by the caller's groups.
// @Tags         messages
// @Security     UserID
// @Produce      json
// @Success      200  {object}  map[string][]service.ConversationSummary
// @Router       /chats [get]
func handleListChats(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chats, err := msgSvc.ListChats(r.Context(), mustCaller(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
	}
}
