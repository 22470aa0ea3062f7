package httpserver

import (
	"encoding/json"
	"net/http"

	"hellchat/internal/domain"
	"hellchat/internal/service"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileRequest struct {
	Nickname  *string `json:"nickname"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

func (p profileRequest) update() domain.ProfileUpdate {
	return domain.ProfileUpdate{Nickname: p.Nickname, Bio: p.Bio, AvatarURL: p.AvatarURL}
}

// authResponse carries the user and, when bearer tokens are enabled, a token.
type authResponse struct {
	Success     bool         `json:"success"`
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token,omitempty"`
	TokenType   string       `json:"token_type,omitempty"`
}

func newAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{
		Success:     true,
		User:        res.User,
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
	}
}

// @Summary      Auth action dispatcher
// @Description  Dispatches on "action": register, login or update_profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body object true "action plus the fields of that action"
// @Success      200  {object}  authResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth [post]
func handleAuthAction(authSvc *service.AuthService, resolve func(*http.Request) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if err := decodeJSON(r, &raw); err != nil {
			writeError(w, r, err)
			return
		}
		var head struct {
			Action string `json:"action"`
		}
		_ = json.Unmarshal(raw, &head)

		switch head.Action {
		case "register":
			var req registerRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				writeError(w, r, domain.ErrInvalidInput)
				return
			}
			register(w, r, authSvc, req)

		case "login":
			var req loginRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				writeError(w, r, domain.ErrInvalidInput)
				return
			}
			login(w, r, authSvc, req)

		case "update_profile":
			id, err := resolve(r)
			if err != nil {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			var req profileRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				writeError(w, r, domain.ErrInvalidInput)
				return
			}
			user, err := authSvc.UpdateProfile(r.Context(), id, req.update())
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, authResponse{Success: true, User: user})

		default:
			writeMessage(w, http.StatusBadRequest, "Invalid action")
		}
	}
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body registerRequest true "Register input"
// @Success      201  {object}  authResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /auth/register [post]
func handleRegister(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		register(w, r, authSvc, req)
	}
}

func register(w http.ResponseWriter, r *http.Request, authSvc *service.AuthService, req registerRequest) {
	res, err := authSvc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAuthResponse(res))
}

// @Summary      Login
// @Description  Marks the user online and returns it.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body loginRequest true "Login input"
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/login [post]
func handleLogin(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		login(w, r, authSvc, req)
	}
}

func login(w http.ResponseWriter, r *http.Request, authSvc *service.AuthService, req loginRequest) {
	res, err := authSvc.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse(res))
}

// @Summary      Logout
// @Tags         auth
// @Security     UserID
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func handleLogout(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authSvc.Logout(r.Context(), mustCaller(r)); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary      Get current user
// @Tags         auth
// @Security     UserID
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func handleMe(userSvc *service.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userSvc.GetByID(r.Context(), mustCaller(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
