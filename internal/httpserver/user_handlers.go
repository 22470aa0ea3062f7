package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hellchat/internal/domain"
	"hellchat/internal/service"
)

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

// @Summary      Search users
// @Tags         users
// @Security     UserID
// @Produce      json
// @Param        q      query  string  false  "username or nickname fragment"
// @Param        limit  query  int     false  "max results (default 20, max 100)"
// @Success      200  {object}  map[string][]domain.User
// @Router       /users [get]
func handleSearchUsers(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		users, err := userSvc.Search(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	}
}

// @Summary      Get a user
// @Tags         users
// @Security     UserID
// @Produce      json
// @Param        userID  path  int  true  "user id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/{userID} [get]
func handleGetUser(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "userID")
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}
		user, err := userSvc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// @Summary      Update own profile
// @Description  Only the fields present in the body change.
// @Tags         users
// @Security     UserID
// @Accept       json
// @Produce      json
// @Param        input body profileRequest true "profile fields"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/me [put]
func handleUpdateProfile(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := authSvc.UpdateProfile(r.Context(), mustCaller(r), req.update())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
