package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sheetcal/internal/app"
	"sheetcal/internal/calendar"
	"sheetcal/internal/config"
	appLog "sheetcal/internal/log"
	"sheetcal/internal/model"
)

// Server exposes the calendar and schedule lookups over HTTP.
type Server struct {
	cfg *config.Config
	app *app.App
	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(a *app.App) *Server {
	s := &Server{
		cfg: a.Config,
		app: a,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// basicAuthEnabled reports whether HTTP Basic Auth is configured.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials mean disabled.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="sheetcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ListenAndServe serves on cfg.Listen until ctx is canceled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, a *app.App) error {
	s := NewServer(a)
	srv := &http.Server{
		Addr:              a.Config.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+a.Config.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/calendar", s.handleCalendar)
	s.mux.HandleFunc("/api/calendar.json", s.handleCalendarJSON)
	s.mux.HandleFunc("/calendar.ics", s.handleICS)
	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

// handleCalendar renders the text calendar.
//
// GET /api/calendar?days=7&refresh=1
//   - days:    how many days from today (default: horizon_days)
//   - refresh: bypass the cache
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if s.app.Calendar == nil {
		writeError(w, http.StatusServiceUnavailable, "calendar source not configured")
		return
	}

	q := r.URL.Query()
	days, err := parseDays(q.Get("days"), s.cfg.Calendar.HorizonDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	force := parseBool(q.Get("refresh"))

	appLog.Info("api calendar request", "days", days, "refresh", force)

	out, err := s.app.Calendar.Get(r.Context(), days, force)
	if err != nil {
		appLog.Error("api calendar: load failed", err)
		writeError(w, http.StatusBadGateway, "failed to load calendar")
		return
	}
	writeText(w, http.StatusOK, out)
}

// calendarResponse is the JSON response shape for /api/calendar.json.
type calendarResponse struct {
	Events     []model.CalendarEvent `json:"events"`
	ComputedAt time.Time             `json:"computed_at"`
}

func (s *Server) handleCalendarJSON(w http.ResponseWriter, r *http.Request) {
	if s.app.Calendar == nil {
		writeError(w, http.StatusServiceUnavailable, "calendar source not configured")
		return
	}
	events, at, err := s.app.Calendar.Events(r.Context(), parseBool(r.URL.Query().Get("refresh")))
	if err != nil {
		appLog.Error("api calendar json: load failed", err)
		writeError(w, http.StatusBadGateway, "failed to load calendar")
		return
	}
	writeJSON(w, http.StatusOK, calendarResponse{Events: events.Events(), ComputedAt: at})
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	if s.app.Calendar == nil {
		writeError(w, http.StatusServiceUnavailable, "calendar source not configured")
		return
	}
	body, err := s.app.Calendar.ICS(r.Context())
	if err != nil {
		appLog.Error("ics export failed", err)
		writeError(w, http.StatusBadGateway, "failed to load calendar")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// handleSchedule answers GET /api/schedule?q=<surname [given name]>.
// Empty queries and misses are answered with their fixed texts and 200,
// like any other lookup result.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if s.app.Schedule == nil {
		writeError(w, http.StatusServiceUnavailable, "schedule source not configured")
		return
	}
	query := r.URL.Query().Get("q")
	appLog.Info("api schedule request", "query", query)
	writeText(w, http.StatusOK, s.app.Schedule.Lookup(r.Context(), query))
}

// parseDays reads the days query parameter, def when absent.
func parseDays(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > calendar.MaxDays {
		return 0, fmt.Errorf("days must be an integer between 1 and %d", calendar.MaxDays)
	}
	return n, nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
