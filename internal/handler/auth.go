package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dukerupert/studytracker/internal/auth"
	"github.com/dukerupert/studytracker/internal/model"
	"github.com/dukerupert/studytracker/internal/store"
)

const (
	msgAccountCreated     = "Account created successfully!"
	msgInvalidCredentials = "Invalid username or password"
	msgLoginAfterSignup   = "Account created successfully! Please log in."
)

type AuthHandler struct {
	renderer
	gateway *auth.Gateway
}

func NewAuthHandler(gw *auth.Gateway, pages Pages, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		renderer: renderer{pages: pages, logger: logger},
		gateway:  gw,
	}
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", map[string]any{"Title": "Sign Up"})
}

// Signup creates the account, logs the new user in and lands on the dashboard.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	in := auth.SignupInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	_, sess, err := h.gateway.Signup(r.Context(), in)
	if err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.render(w, r, "signup.html", map[string]any{
				"Title":    "Sign Up",
				"Username": in.Username,
				"Email":    in.Email,
				"Errors":   fields,
			})
			return
		}
		if errors.Is(err, auth.ErrSessionNotStarted) {
			redirectWithFlash(w, r, "/login/", msgLoginAfterSignup)
			return
		}
		h.serverError(w, "signup", err)
		return
	}

	setSessionCookie(w, r, sess)
	redirectWithFlash(w, r, "/", msgAccountCreated)
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", map[string]any{
		"Title": "Log In",
		"Next":  r.URL.Query().Get("next"),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	next := r.PostFormValue("next")

	sess, err := h.gateway.Login(r.Context(), username, r.PostFormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.render(w, r, "login.html", map[string]any{
			"Title":    "Log In",
			"Username": username,
			"Next":     next,
			"Error":    msgInvalidCredentials,
		})
		return
	}
	if err != nil {
		h.serverError(w, "login", err)
		return
	}

	setSessionCookie(w, r, sess)
	if !isValidRedirect(next) {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		h.gateway.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sess *model.AuthSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(store.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

// isValidRedirect checks that a redirect path stays on this host. Browsers
// read a backslash as a slash, so "/\evil.com" is treated like "//evil.com".
func isValidRedirect(path string) bool {
	if !strings.HasPrefix(path, "/") || strings.ContainsAny(path, "\\\r\n\t") {
		return false
	}
	if strings.HasPrefix(path, "//") || strings.Contains(path, "://") {
		return false
	}
	u, err := url.Parse(path)
	return err == nil && u.Scheme == "" && u.Host == ""
}
