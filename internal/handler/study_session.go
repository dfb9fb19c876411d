package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/studytracker/internal/auth"
	"github.com/dukerupert/studytracker/internal/study"
)

const (
	msgSessionAdded   = "Study session added successfully!"
	msgSessionUpdated = "Study session updated successfully!"
	msgSessionDeleted = "Study session deleted successfully!"
)

var ratings = []int{1, 2, 3, 4, 5}

type StudySessionHandler struct {
	renderer
	service *study.Service
	loc     *time.Location
}

func NewStudySessionHandler(svc *study.Service, loc *time.Location, pages Pages, logger *slog.Logger) *StudySessionHandler {
	return &StudySessionHandler{
		renderer: renderer{pages: pages, logger: logger},
		service:  svc,
		loc:      loc,
	}
}

func (h *StudySessionHandler) renderForm(w http.ResponseWriter, r *http.Request, title, action string, form url.Values, errs map[string]string) {
	h.render(w, r, "session_form.html", map[string]any{
		"Title":   title,
		"Action":  action,
		"Form":    form,
		"Ratings": ratings,
		"Errors":  errs,
	})
}

func (h *StudySessionHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "Add Study Session", "/add-session/", url.Values{}, nil)
}

func (h *StudySessionHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	userID := auth.UserID(r.Context())
	in, err := study.ParseForm(r.PostForm, h.loc)
	if err == nil {
		_, err = h.service.Create(r.Context(), userID, in)
	}
	if err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.renderForm(w, r, "Add Study Session", "/add-session/", r.PostForm, fields)
			return
		}
		h.serverError(w, "create study session", err)
		return
	}

	redirectWithFlash(w, r, "/", msgSessionAdded)
}

func (h *StudySessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.serverError(w, "list study sessions", err)
		return
	}
	h.render(w, r, "session_list.html", map[string]any{
		"Title":    "Study Sessions",
		"Sessions": sessions,
	})
}

func (h *StudySessionHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess, err := h.service.Get(r.Context(), auth.UserID(r.Context()), id)
	if errors.Is(err, study.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, "get study session", err)
		return
	}

	h.renderForm(w, r, "Edit Study Session", r.URL.Path, study.FormValues(sess, h.loc), nil)
}

func (h *StudySessionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	userID := auth.UserID(r.Context())
	if _, err := h.service.Get(r.Context(), userID, id); err != nil {
		if errors.Is(err, study.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, "get study session", err)
		return
	}

	in, err := study.ParseForm(r.PostForm, h.loc)
	if err == nil {
		_, err = h.service.Update(r.Context(), userID, id, in)
	}
	if err != nil {
		if fields, ok := fieldErrors(err); ok {
			h.renderForm(w, r, "Edit Study Session", r.URL.Path, r.PostForm, fields)
			return
		}
		if errors.Is(err, study.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, "update study session", err)
		return
	}

	redirectWithFlash(w, r, "/sessions/", msgSessionUpdated)
}

// DeletePage asks for confirmation. It never removes anything.
func (h *StudySessionHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess, err := h.service.Get(r.Context(), auth.UserID(r.Context()), id)
	if errors.Is(err, study.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, "get study session", err)
		return
	}

	h.render(w, r, "session_delete.html", map[string]any{
		"Title":   "Delete Study Session",
		"Session": sess,
	})
}

func (h *StudySessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.service.Delete(r.Context(), auth.UserID(r.Context()), id)
	if errors.Is(err, study.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, "delete study session", err)
		return
	}

	redirectWithFlash(w, r, "/sessions/", msgSessionDeleted)
}
