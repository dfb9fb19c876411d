package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/studytracker/internal/auth"
	"github.com/dukerupert/studytracker/internal/chart"
	"github.com/dukerupert/studytracker/internal/export"
	"github.com/dukerupert/studytracker/internal/handler"
	"github.com/dukerupert/studytracker/internal/middleware"
	"github.com/dukerupert/studytracker/internal/store"
	"github.com/dukerupert/studytracker/internal/study"
	ws "github.com/dukerupert/studytracker/internal/websocket"
	"github.com/dukerupert/studytracker/web"
)

const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Config holds everything the router needs beyond the database.
type Config struct {
	Location      *time.Location
	EChartsAssets string
	S3            export.S3Config
	// TrustProxy keys rate limits on X-Real-IP/X-Forwarded-For instead of
	// the peer address.
	TrustProxy bool
}

type Server struct {
	hub         *ws.Hub
	gateway     *auth.Gateway
	authH       *handler.AuthHandler
	sessionH    *handler.StudySessionHandler
	dashboardH  *handler.DashboardHandler
	exportH     *handler.ExportHandler
	predictH    *handler.PredictHandler
	rateLimiter *middleware.RateLimiter
	clientIP    func(*http.Request) string
	static      fs.FS
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) (*Server, error) {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	pages, err := handler.LoadPages(web.FS, loc)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	authSessionStore := store.NewAuthSessionStore(db)
	studySessionStore := store.NewStudySessionStore(db)

	gateway := auth.NewGateway(userStore, authSessionStore, logger.With("component", "auth"))
	studySvc := study.NewService(studySessionStore, hub, logger.With("component", "study"))
	archiver := export.NewArchiver(cfg.S3, logger.With("component", "export"))
	charts := chart.NewEChartsRenderer(cfg.EChartsAssets)

	return &Server{
		hub:         hub,
		gateway:     gateway,
		authH:       handler.NewAuthHandler(gateway, pages, logger.With("component", "auth_handler")),
		sessionH:    handler.NewStudySessionHandler(studySvc, loc, pages, logger.With("component", "study_session")),
		dashboardH:  handler.NewDashboardHandler(studySvc, charts, loc, pages, logger.With("component", "dashboard")),
		exportH:     handler.NewExportHandler(studySvc, archiver, loc, logger.With("component", "export")),
		predictH:    handler.NewPredictHandler(studySvc, loc, pages, logger.With("component", "predict")),
		rateLimiter: middleware.NewRateLimiter(authRateLimit, authRateWindow),
		clientIP:    middleware.ClientIP(cfg.TrustProxy),
		static:      static,
		logger:      logger,
	}, nil
}

// Gateway returns the auth gateway for cleanup tasks.
func (s *Server) Gateway() *auth.Gateway {
	return s.gateway
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login/{$}", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login/{$}", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /signup/{$}", s.authH.SignupPage)
	outerMux.HandleFunc("POST /signup/{$}", s.rateLimitedHandler(s.authH.Signup))
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.gateway, s.logger.With("component", "auth_middleware"))
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, s.clientIP)
	return rl(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /logout/{$}", s.authH.Logout)
	mux.HandleFunc("POST /logout/{$}", s.authH.Logout)

	mux.HandleFunc("GET /{$}", s.dashboardH.Dashboard)

	mux.HandleFunc("GET /add-session/{$}", s.sessionH.AddPage)
	mux.HandleFunc("POST /add-session/{$}", s.sessionH.Add)
	mux.HandleFunc("GET /sessions/{$}", s.sessionH.List)
	mux.HandleFunc("GET /sessions/edit/{id}/{$}", s.sessionH.EditPage)
	mux.HandleFunc("POST /sessions/edit/{id}/{$}", s.sessionH.Edit)
	mux.HandleFunc("GET /sessions/delete/{id}/{$}", s.sessionH.DeletePage)
	mux.HandleFunc("POST /sessions/delete/{id}/{$}", s.sessionH.Delete)

	mux.HandleFunc("GET /export-csv/{$}", s.exportH.CSV)
	mux.HandleFunc("POST /export-csv/archive/{$}", s.exportH.Archive)

	mux.HandleFunc("GET /predict/{$}", s.predictH.Page)
	mux.HandleFunc("POST /predict/{$}", s.predictH.Predict)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
