package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/studytracker/internal/auth"
	"github.com/dukerupert/studytracker/internal/stats"
	"github.com/dukerupert/studytracker/internal/study"
)

var weekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

type PredictHandler struct {
	renderer
	service *study.Service
	loc     *time.Location
}

func NewPredictHandler(svc *study.Service, loc *time.Location, pages Pages, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{
		renderer: renderer{pages: pages, logger: logger},
		service:  svc,
		loc:      loc,
	}
}

func (h *PredictHandler) page(w http.ResponseWriter, r *http.Request, data map[string]any) {
	subjects, err := h.service.Subjects(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.serverError(w, "list subjects", err)
		return
	}
	data["Title"] = "Predict Productivity"
	data["Subjects"] = subjects
	data["Weekdays"] = weekdays
	h.render(w, r, "predict.html", data)
}

func (h *PredictHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, map[string]any{"Subject": ""})
}

// Predict averages past ratings for the chosen subject and weekday.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	subject := strings.TrimSpace(r.PostFormValue("subject"))
	day, err := strconv.Atoi(r.PostFormValue("day_of_week"))
	errs := map[string]string{}
	if subject == "" {
		errs["subject"] = "This field is required."
	}
	if err != nil || day < int(time.Sunday) || day > int(time.Saturday) {
		errs["day_of_week"] = "Select a valid day of the week."
	}
	if len(errs) > 0 {
		h.page(w, r, map[string]any{"Errors": errs, "Subject": subject})
		return
	}

	sessions, err := h.service.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.serverError(w, "list study sessions", err)
		return
	}

	weekday := time.Weekday(day)
	result := stats.NoPredictionData
	if v, ok := stats.Predict(sessions, subject, weekday, h.loc); ok {
		result = strconv.FormatFloat(v, 'f', 1, 64)
	}

	h.page(w, r, map[string]any{
		"Subject":    subject,
		"Weekday":    weekday,
		"Prediction": result,
		"Predicted":  true,
	})
}
