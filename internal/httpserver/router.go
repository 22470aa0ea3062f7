package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "hellchat/docs"
	"hellchat/internal/config"
	"hellchat/internal/metrics"
	"hellchat/internal/service"
	"hellchat/internal/store"
	"hellchat/internal/ws"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Store    *store.Store
	Auth     *service.AuthService
	Users    *service.UserService
	Groups   *service.GroupService
	Messages *service.MessageService
	Hub      *ws.Hub
	Metrics  *metrics.Metrics // nil disables /metrics
}

// NewRouter constructs the main HTTP router and wires routes and middleware.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", UserIDHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	resolve := ResolveCaller(d.Auth)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": cfg.AppName,
			"version": "1.0.0",
			"docs":    "/docs/index.html",
		})
	})

	r.Get("/health", handleHealth(d.Store))

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// The websocket connection outlives any request timeout.
	r.Get("/ws", ws.MakeHandler(d.Hub, resolve, d.Store.Users, d.Messages, cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Auth routes (no caller required)
		r.Post("/auth", handleAuthAction(d.Auth, resolve))
		r.Post("/auth/register", handleRegister(d.Auth))
		r.Post("/auth/login", handleLogin(d.Auth))
		r.Get("/uploads/{filename}", handleServeUpload(cfg.UploadDir))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(resolve))

			r.Post("/auth/logout", handleLogout(d.Auth))
			r.Get("/auth/me", handleMe(d.Users))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", handleSearchUsers(d.Users))
				r.Put("/me", handleUpdateProfile(d.Auth))
				r.Get("/{userID}", handleGetUser(d.Users))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", handleGetMessages(d.Messages))
				r.Post("/", handleSendMessage(d.Messages))
				r.Post("/read", handleMarkRead(d.Messages))
			})
			r.Get("/chats", handleListChats(d.Messages))

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", handleListGroups(d.Groups))
				r.Post("/", handleGroupAction(d.Groups))
				r.Get("/{groupID}", handleGetGroup(d.Groups))
				r.Post("/{groupID}/members", handleAddMember(d.Groups))
				r.Get("/{groupID}/messages", handleGroupMessages(d.Messages))
			})

			r.Post("/uploads", handleUpload(cfg.UploadDir, int64(cfg.MaxUploadMB)<<20))
		})
	})

	return r
}

// handleHealth pings the database.
func handleHealth(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.DB.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
