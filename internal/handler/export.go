package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/studytracker/internal/auth"
	"github.com/dukerupert/studytracker/internal/export"
	"github.com/dukerupert/studytracker/internal/study"
)

const msgArchiveDisabled = "Export archiving is not configured."

type ExportHandler struct {
	service  *study.Service
	archiver *export.Archiver
	loc      *time.Location
	logger   *slog.Logger
}

func NewExportHandler(svc *study.Service, archiver *export.Archiver, loc *time.Location, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{service: svc, archiver: archiver, loc: loc, logger: logger}
}

// CSV streams every session of the caller as a download.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list study sessions", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sessions, h.loc); err != nil {
		h.logger.Error("write csv", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Write(buf.Bytes())
}

// Archive uploads the same CSV to object storage and reports the key.
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if !h.archiver.Enabled() {
		redirectWithFlash(w, r, "/sessions/", msgArchiveDisabled)
		return
	}

	userID := auth.UserID(r.Context())
	sessions, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list study sessions", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sessions, h.loc); err != nil {
		h.logger.Error("write csv", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	key, err := h.archiver.Archive(r.Context(), userID, buf.Bytes())
	if err != nil {
		h.logger.Error("archive export", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	redirectWithFlash(w, r, "/sessions/", "Export archived as "+key)
}
