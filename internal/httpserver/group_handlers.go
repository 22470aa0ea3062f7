package httpserver

import (
	"net/http"

	"hellchat/internal/service"
)

type groupActionRequest struct {
	Action      string `json:"action"`
	Name        string `json:"name"`
	Description string `json:"description"`
	GroupID     int64  `json:"group_id"`
	MemberID    int64  `json:"member_id"`
}

type addMemberRequest struct {
	MemberID int64 `json:"member_id"`
}

// @Summary      List the caller's groups
// @Tags         groups
// @Security     UserID
// @Produce      json
// @Success      200  {object}  map[string][]domain.GroupSummary
// @Router       /groups [get]
func handleListGroups(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := groupSvc.ListGroupsForUser(r.Context(), mustCaller(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
	}
}

// @Summary      Group action dispatcher
// @Description  action=create (default) creates a group owned by the caller;
// @Description  action=add_member adds member_id to group_id.
// @Tags         groups
// @Security     UserID
// @Accept       json
// @Produce      json
// @Param        input body groupActionRequest true "action"
// @Success      200  {object}  map[string]any
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  errorResponse
// @Router       /groups [post]
func handleGroupAction(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupActionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		switch req.Action {
		case "", "create":
			g, err := groupSvc.CreateGroup(r.Context(), mustCaller(r), req.Name, req.Description)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "group": g})

		case "add_member":
			if err := groupSvc.AddMember(r.Context(), req.GroupID, req.MemberID); err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})

		default:
			writeMessage(w, http.StatusBadRequest, "Invalid action")
		}
	}
}

// @Summary      Add a member
// @Description  Idempotent.
// @Tags         groups
// @Security     UserID
// @Accept       json
// @Produce      json
// @Param        groupID  path  int  true  "group id"
// @Param        input body addMemberRequest true "member"
// @Success      200  {object}  map[string]bool
// @Failure      409  {object}  errorResponse
// @Router       /groups/{groupID}/members [post]
func handleAddMember(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathID(r, "groupID")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid group id")
			return
		}
		var req addMemberRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if err := groupSvc.AddMember(r.Context(), groupID, req.MemberID); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// @Summary      Get a group
// @Tags         groups
// @Security     UserID
// @Produce      json
// @Param        groupID  path  int  true  "group id"
// @Success      200  {object}  domain.Group
// @Failure      404  {object}  errorResponse
// @Router       /groups/{groupID} [get]
func handleGetGroup(groupSvc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathID(r, "groupID")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid group id")
			return
		}
		g, err := groupSvc.GetGroup(r.Context(), groupID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// @Summary      Group history
// @Tags         groups
// @Security     UserID
// @Produce      json
// @Param        groupID  path  int  true  "group id"
// @Success      200  {object}  map[string][]service.MessageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /groups/{groupID}/messages [get]
func handleGroupMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID, err := pathID(r, "groupID")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid group id")
			return
		}
		writeGroupHistory(w, r, msgSvc, mustCaller(r), groupID)
	}
}
