package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/studytracker/internal/auth"
	"github.com/dukerupert/studytracker/internal/chart"
	"github.com/dukerupert/studytracker/internal/stats"
	"github.com/dukerupert/studytracker/internal/study"
)

// recentLimit caps the session table shown under the charts.
const recentLimit = 10

type DashboardHandler struct {
	renderer
	service *study.Service
	charts  chart.Renderer
	loc     *time.Location
}

func NewDashboardHandler(svc *study.Service, charts chart.Renderer, loc *time.Location, pages Pages, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		renderer: renderer{pages: pages, logger: logger},
		service:  svc,
		charts:   charts,
		loc:      loc,
	}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.serverError(w, "list study sessions", err)
		return
	}

	subjects := stats.SubjectTotals(sessions)
	charts, err := h.charts.Render(chart.Data{
		Subjects: subjects,
		Daily:    stats.DailyTotals(sessions, h.loc),
		Matrix:   stats.WeeklyMatrix(sessions, h.loc),
	})
	if err != nil {
		h.serverError(w, "render charts", err)
		return
	}

	recent := sessions
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	h.render(w, r, "dashboard.html", map[string]any{
		"Title":        "Dashboard",
		"Summary":      stats.Summarize(sessions),
		"SubjectHours": subjects,
		"Charts":       charts,
		"ChartScript":  h.charts.ScriptURL(),
		"Insights":     stats.Insights(sessions, h.loc),
		"Recent":       recent,
	})
}
