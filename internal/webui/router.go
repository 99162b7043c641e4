package webui

import (
	"log/slog"
	"net/http"
	"time"

	"socialboard/internal/auth"
	"socialboard/internal/domain"
	"socialboard/internal/service"
)

type Opts struct {
	Logger *slog.Logger

	Auth         *service.AuthService
	Friends      *service.FriendsService
	Feed         *service.FeedService
	Users        *service.UsersService
	Profile      *service.ProfileService
	CookieCodec  auth.CookieCodec
	CookieSecure bool
	SessionTTL   time.Duration
	UploadDir    string
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Auth == nil || opts.Friends == nil || opts.Feed == nil || opts.Users == nil {
		logger.Warn("webui: missing services",
			"auth", opts.Auth != nil,
			"friends", opts.Friends != nil,
			"feed", opts.Feed != nil,
			"users", opts.Users != nil,
		)
	}
	if opts.UploadDir == "" {
		opts.UploadDir = "data/uploads"
	}

	app := &app{
		logger:       logger,
		authSvc:      opts.Auth,
		friendsSvc:   opts.Friends,
		feedSvc:      opts.Feed,
		usersSvc:     opts.Users,
		profileSvc:   opts.Profile,
		cookieCodec:  opts.CookieCodec,
		cookieSecure: opts.CookieSecure,
		sessionTTL:   opts.SessionTTL,
		uploadDir:    opts.UploadDir,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("webui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", app.redirectApp)
	mux.HandleFunc("GET /app", app.redirectApp)
	mux.HandleFunc("GET /app/", app.requireAuth(app.handleHome))
	mux.HandleFunc("GET /app/login", app.handleLoginGet)
	mux.HandleFunc("POST /app/login", app.handleLoginPost)
	mux.HandleFunc("GET /app/register", app.handleRegisterGet)
	mux.HandleFunc("POST /app/register", app.handleRegisterPost)
	mux.HandleFunc("POST /app/logout", app.handleLogoutPost)
	mux.HandleFunc("POST /app/posts", app.requireAuth(app.handlePostCreate))
	mux.HandleFunc("GET /app/u/{username}", app.requireAuth(app.handleProfile))
	mux.HandleFunc("POST /app/profile/avatar", app.requireAuth(app.handleAvatarPost))
	mux.HandleFunc("GET /app/friends", app.requireAuth(app.handleFriends))
	mux.HandleFunc("POST /app/friends/add", app.requireAuth(app.handleFriendAdd))

	return mux
}

type app struct {
	logger *slog.Logger

	authSvc    *service.AuthService
	friendsSvc *service.FriendsService
	feedSvc    *service.FeedService
	usersSvc   *service.UsersService
	profileSvc *service.ProfileService

	cookieCodec  auth.CookieCodec
	cookieSecure bool
	sessionTTL   time.Duration
	uploadDir    string

	templates *templates
}

func (a *app) redirectApp(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/app/", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/app/login", http.StatusFound)
}

func (a *app) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := a.currentUser(r)
		if !ok {
			http.Redirect(w, r, "/app/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (a *app) currentUser(r *http.Request) (domain.User, string, bool) {
	if a.authSvc == nil {
		return domain.User{}, "", false
	}
	c, err := r.Cookie(auth.SessionCookieName)
	if err != nil || c.Value == "" {
		return domain.User{}, "", false
	}
	sessID, ok := a.cookieCodec.DecodeSessionID(c.Value)
	if !ok {
		return domain.User{}, "", false
	}
	u, err := a.authSvc.GetUserForSession(r.Context(), sessID)
	if err != nil {
		return domain.User{}, "", false
	}
	return u, sessID, true
}
