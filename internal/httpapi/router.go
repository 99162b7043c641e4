package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"socialboard/internal/auth"
	"socialboard/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth          *service.AuthService
	Friends       *service.FriendsService
	Conversations *service.ConversationService
	Feed          *service.FeedService
	Users         *service.UsersService
	Profile       *service.ProfileService
	CookieCodec   auth.CookieCodec
	CookieSecure  bool
	SessionTTL    time.Duration
	UploadDir     string

	// WebUI serves everything outside /v1, /healthz and /uploads when set.
	WebUI http.Handler
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.UploadDir == "" {
		opts.UploadDir = "data/uploads"
	}

	api := &api{
		logger:          logger,
		isProd:          opts.IsProd,
		dbPing:          opts.DBPing,
		authSvc:         opts.Auth,
		friendsSvc:      opts.Friends,
		conversationSvc: opts.Conversations,
		feedSvc:         opts.Feed,
		usersSvc:        opts.Users,
		profileSvc:      opts.Profile,
		uploadDir:       opts.UploadDir,
		cookieCodec:     opts.CookieCodec,
		cookieSecure:    opts.CookieSecure,
		sessionTTL:      opts.SessionTTL,
		loginLimiter:    newLoginLimiter(),
	}

	publicMux := http.NewServeMux()
	apiMux := http.NewServeMux()

	publicMux.HandleFunc("GET /healthz", api.handleHealthz)
	publicMux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	if opts.WebUI != nil {
		publicMux.Handle("/", opts.WebUI)
	}

	if api.authSvc == nil {
		apiMux.HandleFunc("POST /v1/auth/register", handleNotImplemented)
		apiMux.HandleFunc("POST /v1/auth/login", handleNotImplemented)
		apiMux.HandleFunc("POST /v1/auth/logout", handleNotImplemented)
		apiMux.HandleFunc("GET /v1/users/me", handleNotImplemented)
	} else {
		apiMux.HandleFunc("POST /v1/auth/register", api.handleAuthRegister)
		apiMux.HandleFunc("POST /v1/auth/login", api.handleAuthLogin)
		apiMux.HandleFunc("POST /v1/auth/logout", api.requireAuth(api.handleAuthLogout))
		apiMux.HandleFunc("GET /v1/users/me", api.requireAuth(api.handleUsersMe))

		if api.usersSvc != nil {
			apiMux.HandleFunc("GET /v1/users/search", api.requireAuth(api.handleUsersSearch))
			apiMux.HandleFunc("GET /v1/users/{username}", api.requireAuth(api.handleUsersGet))
		}
		if api.profileSvc != nil {
			apiMux.HandleFunc("POST /v1/users/me/avatar", api.requireAuth(api.handleAvatarUpload))
		}

		if api.friendsSvc != nil {
			apiMux.HandleFunc("POST /v1/friends", api.requireAuth(api.handleFriendsAdd))
			apiMux.HandleFunc("GET /v1/friends", api.requireAuth(api.handleFriendsList))
			apiMux.HandleFunc("GET /v1/friends/{username}", api.requireAuth(api.handleFriendsStatus))
		}

		if api.conversationSvc != nil {
			apiMux.HandleFunc("POST /v1/messages", api.requireAuth(api.handleMessagesSend))
			apiMux.HandleFunc("GET /v1/conversations/{id}", api.requireAuth(api.handleConversationGet))
		}

		if api.feedSvc != nil {
			apiMux.HandleFunc("POST /v1/posts", api.requireAuth(api.handlePostCreate))
			if api.usersSvc != nil {
				apiMux.HandleFunc("GET /v1/users/{username}/posts", api.requireAuth(api.handleUserPosts))
			}
		}
	}

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := apiMux.Handler(r)
		if pattern == "" {
			handleV1NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") || r.URL.Path == "/v1" {
			apiHandler.ServeHTTP(w, r)
			return
		}
		publicMux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "not implemented")
}

func handleV1NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc         *service.AuthService
	friendsSvc      *service.FriendsService
	conversationSvc *service.ConversationService
	feedSvc         *service.FeedService
	usersSvc        *service.UsersService
	profileSvc      *service.ProfileService
	uploadDir       string
	cookieCodec     auth.CookieCodec
	cookieSecure    bool
	sessionTTL      time.Duration

	loginLimiter *loginLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
