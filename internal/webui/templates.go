package webui

import (
	"fmt"
	"html/template"
	"net/http"

	"socialboard/internal/domain"
)

type templates struct {
	login    *template.Template
	register *template.Template
	home     *template.Template
	profile  *template.Template
	friends  *template.Template
	errorT   *template.Template
}

type viewData struct {
	Title  string
	Error  string
	Notice string
}

type loginViewData struct {
	Title  string
	Login  string
	Error  string
	Notice string
}

type registerViewData struct {
	Title    string
	Email    string
	Username string
	Error    string
}

type postCard struct {
	Author    string
	AvatarURL string
	Body      string
	ImageURL  string
	CreatedAt string
}

type homeViewData struct {
	Title  string
	User   domain.User
	Posts  []postCard
	Error  string
	Notice string
}

type profileViewData struct {
	Title     string
	User      domain.User
	Profile   domain.User
	AvatarURL string
	IsSelf    bool
	IsFriend  bool
	Posts     []postCard
	Error     string
	Notice    string
}

type friendsViewData struct {
	Title   string
	User    domain.User
	Query   string
	Results []searchResult
	Friends []friendCard
	Error   string
	Notice  string
}

type searchResult struct {
	Username  string
	AvatarURL string
	IsFriend  bool
}

type friendCard struct {
	Username  string
	AvatarURL string
}

func parseTemplates() (*templates, error) {
	parse := func(files ...string) (*template.Template, error) {
		t, err := template.New("base").ParseFS(assets, files...)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	login, err := parse("templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login: %w", err)
	}
	register, err := parse("templates/register.html")
	if err != nil {
		return nil, fmt.Errorf("parse register: %w", err)
	}
	home, err := parse("templates/layout.html", "templates/home.html")
	if err != nil {
		return nil, fmt.Errorf("parse home: %w", err)
	}
	profile, err := parse("templates/layout.html", "templates/profile.html")
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	friends, err := parse("templates/layout.html", "templates/friends.html")
	if err != nil {
		return nil, fmt.Errorf("parse friends: %w", err)
	}
	errorT, err := parse("templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &templates{
		login:    login,
		register: register,
		home:     home,
		profile:  profile,
		friends:  friends,
		errorT:   errorT,
	}, nil
}

func (t *templates) renderLogin(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.login.ExecuteTemplate(w, "login.html", data)
}

func (t *templates) renderRegister(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.register.ExecuteTemplate(w, "register.html", data)
}

func (t *templates) renderHome(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.home.ExecuteTemplate(w, "home.html", data)
}

func (t *templates) renderProfile(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.profile.ExecuteTemplate(w, "profile.html", data)
}

func (t *templates) renderFriends(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.friends.ExecuteTemplate(w, "friends.html", data)
}

func (t *templates) renderError(w http.ResponseWriter, status int, title, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.errorT.ExecuteTemplate(w, "error.html", viewData{Title: title, Error: msg})
}
