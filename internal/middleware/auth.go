package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dukerupert/studytracker/internal/auth"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login/"

// Authenticator resolves a session token to the signed-in user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.AuthContext, error)
}

// RequireAuth validates the session cookie and populates AuthContext.
// HTMX-aware: returns HX-Redirect header instead of 303 redirect for HTMX requests.
func RequireAuth(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r)
				return
			}

			ac, err := authn.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrUnauthenticated) {
					logger.Error("authenticate", "error", err)
				}
				redirectToLogin(w, r)
				return
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoginURL returns the login page with next set to the requested path, so
// the user lands back where they started.
func LoginURL(r *http.Request) string {
	if r.Method != http.MethodGet || r.URL.Path == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", LoginPath)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
}
