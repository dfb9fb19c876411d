package handler

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dukerupert/studytracker/internal/auth"
	"github.com/dukerupert/studytracker/internal/validate"
)

const flashCookieName = "studytracker_flash"

var pageNames = []string{
	"login.html",
	"signup.html",
	"dashboard.html",
	"session_form.html",
	"session_list.html",
	"session_delete.html",
	"predict.html",
}

// Pages holds one template set per page, each parsed together with the
// layout so {{define "content"}} blocks never collide.
type Pages map[string]*template.Template

// LoadPages parses templates/layout.html plus each page from fsys. Times
// are shown in loc.
func LoadPages(fsys fs.FS, loc *time.Location) (Pages, error) {
	funcs := template.FuncMap{
		"localtime": func(t time.Time) string {
			return t.In(loc).Format("Jan 2, 2006 15:04")
		},
		"hours": func(h float64) string {
			return strconv.FormatFloat(h, 'f', -1, 64)
		},
		"fixed1": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64)
		},
		"fixed2": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 2, 64)
		},
	}

	pages := make(Pages, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// renderer is embedded by every page handler.
type renderer struct {
	pages  Pages
	logger *slog.Logger
}

// render executes a page inside the layout. The signed-in user and any
// pending flash message are added to data.
func (rn *renderer) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["User"] = auth.Username(r.Context())
	if msg := takeFlash(w, r); msg != "" {
		data["Flash"] = msg
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}

	tmpl, ok := rn.pages[name]
	if !ok {
		rn.logger.Error("template not found", "name", name)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		rn.logger.Error("template render", "name", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (rn *renderer) serverError(w http.ResponseWriter, msg string, err error) {
	rn.logger.Error(msg, "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

// fieldErrors extracts inline messages from a validation failure.
func fieldErrors(err error) (map[string]string, bool) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the pending flash message and clears it.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, path, msg string) {
	setFlash(w, msg)
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// parseID reads the {id} path segment. Anything but a positive integer is
// treated as a missing page.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
