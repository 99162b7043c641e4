package webui

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"socialboard/internal/auth"
	"socialboard/internal/domain"
	"socialboard/internal/uploads"
)

const siteTitle = "SocialBoard"

func (a *app) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/app/", http.StatusFound)
		return
	}
	notice := ""
	if r.URL.Query().Get("notice") == "registered" {
		notice = "Account created. Log in to get started."
	}
	a.templates.renderLogin(w, http.StatusOK, loginViewData{Title: siteTitle, Notice: notice})
}

func (a *app) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/app/", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		a.templates.renderLogin(w, http.StatusBadRequest, loginViewData{Title: siteTitle, Error: "Invalid form."})
		return
	}

	login := strings.TrimSpace(r.FormValue("login"))
	password := r.FormValue("password")
	if login == "" || password == "" {
		a.templates.renderLogin(w, http.StatusBadRequest, loginViewData{Title: siteTitle, Login: login, Error: "Username and password are required."})
		return
	}

	_, sessID, err := a.authSvc.Login(r.Context(), login, password, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.templates.renderLogin(w, http.StatusUnauthorized, loginViewData{Title: siteTitle, Login: login, Error: "Invalid username or password."})
			return
		}
		a.logger.Error("webui: login failed", "err", err)
		a.templates.renderLogin(w, http.StatusInternalServerError, loginViewData{Title: siteTitle, Login: login, Error: "Login failed."})
		return
	}

	auth.SetSessionCookie(w, a.cookieCodec.EncodeSessionID(sessID), a.sessionTTL, a.cookieSecure)
	http.Redirect(w, r, "/app/", http.StatusFound)
}

func (a *app) handleRegisterGet(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/app/", http.StatusFound)
		return
	}
	a.templates.renderRegister(w, http.StatusOK, registerViewData{Title: "Create account"})
}

func (a *app) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/app/", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		a.templates.renderRegister(w, http.StatusBadRequest, registerViewData{Title: "Create account", Error: "Invalid form."})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	username := normalizeUsername(r.FormValue("username"))
	password := r.FormValue("password")

	var errs []string
	if username == "" || !validUsername(username) {
		errs = append(errs, "Username must be 3-32 characters with letters, numbers, or underscore.")
	}
	if !validEmail(email) {
		errs = append(errs, "Email must be valid.")
	}
	if len(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters.")
	}
	if len(errs) > 0 {
		a.templates.renderRegister(w, http.StatusBadRequest, registerViewData{
			Title:    "Create account",
			Email:    email,
			Username: username,
			Error:    strings.Join(errs, " "),
		})
		return
	}

	_, sessID, err := a.authSvc.Register(r.Context(), email, username, password, clientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			a.templates.renderRegister(w, http.StatusBadRequest, registerViewData{
				Title: "Create account", Email: email, Username: username,
				Error: "That username is taken.",
			})
		case errors.Is(err, domain.ErrEmailTaken):
			a.templates.renderRegister(w, http.StatusBadRequest, registerViewData{
				Title: "Create account", Email: email, Username: username,
				Error: "That email is already in use.",
			})
		default:
			a.logger.Error("webui: register failed", "err", err)
			a.templates.renderRegister(w, http.StatusInternalServerError, registerViewData{
				Title: "Create account", Email: email, Username: username,
				Error: "Registration failed.",
			})
		}
		return
	}

	auth.SetSessionCookie(w, a.cookieCodec.EncodeSessionID(sessID), a.sessionTTL, a.cookieSecure)
	http.Redirect(w, r, "/app/", http.StatusFound)
}

func (a *app) handleLogoutPost(w http.ResponseWriter, r *http.Request) {
	if _, sessID, ok := a.currentUser(r); ok {
		_ = a.authSvc.Logout(r.Context(), sessID)
	}
	auth.ClearSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/app/login", http.StatusFound)
}

func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	posts, err := a.feedSvc.ListPosts(r.Context(), u.ID)
	if err != nil {
		a.logger.Error("webui: list posts failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load your feed.")
		return
	}

	a.templates.renderHome(w, http.StatusOK, homeViewData{
		Title:  siteTitle,
		User:   u,
		Posts:  postCards(u.Username, u.AvatarPath, posts),
		Notice: noticeFromQuery(r),
	})
}

func (a *app) handlePostCreate(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxUploadSize)
	if err := r.ParseMultipartForm(uploads.MaxUploadSize); err != nil {
		a.renderHomeError(w, r, u, "Post is too large.")
		return
	}

	imagePath := ""
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		imagePath, err = uploads.SaveImage(a.uploadDir, file, header.Filename)
		if errors.Is(err, uploads.ErrUnsupportedImage) {
			a.renderHomeError(w, r, u, "Images must be jpg or png files.")
			return
		}
		if err != nil {
			a.logger.Error("webui: store post image failed", "err", err)
			a.renderHomeError(w, r, u, "Could not store the image.")
			return
		}
	} else if err != http.ErrMissingFile {
		a.renderHomeError(w, r, u, "Image upload is malformed.")
		return
	}

	if _, err := a.feedSvc.CreatePost(r.Context(), u.ID, r.FormValue("body"), imagePath); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			a.renderHomeError(w, r, u, "A post needs text or an image.")
			return
		}
		a.logger.Error("webui: create post failed", "err", err)
		a.renderHomeError(w, r, u, "Could not create the post.")
		return
	}

	http.Redirect(w, r, "/app/?notice=posted", http.StatusFound)
}

func (a *app) renderHomeError(w http.ResponseWriter, r *http.Request, u domain.User, msg string) {
	posts, err := a.feedSvc.ListPosts(r.Context(), u.ID)
	if err != nil {
		posts = nil
	}
	a.templates.renderHome(w, http.StatusBadRequest, homeViewData{
		Title: siteTitle,
		User:  u,
		Posts: postCards(u.Username, u.AvatarPath, posts),
		Error: msg,
	})
}

func (a *app) handleProfile(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	profile, err := a.usersSvc.GetByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.templates.renderError(w, http.StatusNotFound, siteTitle, "No such user.")
			return
		}
		a.logger.Error("webui: load profile failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the profile.")
		return
	}

	isSelf := profile.ID == u.ID
	isFriend := false
	if !isSelf {
		isFriend, err = a.friendsSvc.IsFriend(r.Context(), u.ID, profile.ID)
		if err != nil {
			a.logger.Error("webui: friendship lookup failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the profile.")
			return
		}
	}

	posts, err := a.feedSvc.ListPosts(r.Context(), profile.ID)
	if err != nil {
		a.logger.Error("webui: list profile posts failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the profile.")
		return
	}

	a.templates.renderProfile(w, http.StatusOK, profileViewData{
		Title:     profile.Username + " - " + siteTitle,
		User:      u,
		Profile:   profile,
		AvatarURL: uploadURL(profile.AvatarPath),
		IsSelf:    isSelf,
		IsFriend:  isFriend,
		Posts:     postCards(profile.Username, profile.AvatarPath, posts),
		Notice:    noticeFromQuery(r),
	})
}

func (a *app) handleAvatarPost(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxUploadSize)
	if err := r.ParseMultipartForm(uploads.MaxUploadSize); err != nil {
		a.templates.renderError(w, http.StatusBadRequest, siteTitle, "Avatar file is too large.")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		a.templates.renderError(w, http.StatusBadRequest, siteTitle, "Avatar file is required.")
		return
	}
	defer file.Close()

	filename, err := uploads.SaveImage(a.uploadDir, file, header.Filename)
	if errors.Is(err, uploads.ErrUnsupportedImage) {
		a.templates.renderError(w, http.StatusBadRequest, siteTitle, "Avatars must be jpg or png files.")
		return
	}
	if err != nil {
		a.logger.Error("webui: store avatar failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not store the avatar.")
		return
	}

	if err := a.profileSvc.UpdateAvatar(r.Context(), u.ID, filename); err != nil {
		a.logger.Error("webui: update avatar failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not update the avatar.")
		return
	}

	http.Redirect(w, r, "/app/u/"+url.PathEscape(u.Username)+"?notice=avatar", http.StatusFound)
}

func (a *app) handleFriends(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	friends, err := a.friendsSvc.ListFriends(r.Context(), u.ID)
	if err != nil {
		a.logger.Error("webui: list friends failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load your friends.")
		return
	}

	friendSet := make(map[string]bool, len(friends))
	cards := make([]friendCard, 0, len(friends))
	for _, f := range friends {
		friendSet[f.ID] = true
		cards = append(cards, friendCard{Username: f.Username, AvatarURL: uploadURL(f.AvatarPath)})
	}

	data := friendsViewData{
		Title:   "Friends - " + siteTitle,
		User:    u,
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		Friends: cards,
		Notice:  noticeFromQuery(r),
	}

	if data.Query != "" {
		results, err := a.usersSvc.SearchUsers(r.Context(), data.Query, 0, u.ID)
		if err != nil && !errors.Is(err, domain.ErrValidation) {
			a.logger.Error("webui: search failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Search failed.")
			return
		}
		for _, res := range results {
			data.Results = append(data.Results, searchResult{
				Username:  res.Username,
				AvatarURL: uploadURL(res.AvatarPath),
				IsFriend:  friendSet[res.ID],
			})
		}
	}

	a.templates.renderFriends(w, http.StatusOK, data)
}

func (a *app) handleFriendAdd(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	if err := r.ParseForm(); err != nil {
		a.templates.renderError(w, http.StatusBadRequest, siteTitle, "Invalid form.")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	friend, _, err := a.friendsSvc.AddFriend(r.Context(), u.ID, username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			a.templates.renderError(w, http.StatusNotFound, siteTitle, "No such user.")
		case errors.Is(err, domain.ErrSelfFriendship):
			a.templates.renderError(w, http.StatusBadRequest, siteTitle, "You can't add yourself.")
		case errors.Is(err, domain.ErrValidation):
			a.templates.renderError(w, http.StatusBadRequest, siteTitle, "Username is required.")
		default:
			a.logger.Error("webui: add friend failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not add the friend.")
		}
		return
	}

	http.Redirect(w, r, "/app/u/"+url.PathEscape(friend.Username)+"?notice=friend_added", http.StatusFound)
}

func postCards(author, avatarPath string, posts []domain.Post) []postCard {
	cards := make([]postCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, postCard{
			Author:    author,
			AvatarURL: uploadURL(avatarPath),
			Body:      p.Body,
			ImageURL:  uploadURL(p.ImagePath),
			CreatedAt: p.CreatedAt.Local().Format("Jan 2, 2006 at 15:04"),
		})
	}
	return cards
}

func noticeFromQuery(r *http.Request) string {
	switch r.URL.Query().Get("notice") {
	case "posted":
		return "Post published."
	case "friend_added":
		return "You are now friends."
	case "avatar":
		return "Profile picture updated."
	}
	return ""
}

func uploadURL(path string) string {
	if path == "" {
		return ""
	}
	return "/uploads/" + path
}
