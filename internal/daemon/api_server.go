package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"opensynth/internal/api"
	"opensynth/internal/catalog"
	"opensynth/internal/config"
	"opensynth/internal/logging"
	"opensynth/internal/quiz"
	"opensynth/internal/viewer"
)

const maxRequestBody = 1 << 16

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

type openRequest struct {
	ID string `json:"id"`
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logger,
		daemon: d,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(cfg.Paths.APIToken),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes(token string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/syntheses", s.handleListSyntheses)
	mux.HandleFunc("GET /api/syntheses/{id}", s.handleGetSynthesis)
	mux.HandleFunc("POST /api/syntheses/refresh", s.handleRefreshSyntheses)
	mux.HandleFunc("POST /api/views", s.handleCreateView)
	mux.HandleFunc("GET /api/views/{view}", s.handleGetView)
	mux.HandleFunc("DELETE /api/views/{view}", s.handleDeleteView)
	mux.HandleFunc("POST /api/views/{view}/open", s.handleOpenView)
	mux.HandleFunc("POST /api/views/{view}/next", s.handleNext)
	mux.HandleFunc("POST /api/views/{view}/prev", s.handlePrev)
	mux.HandleFunc("POST /api/views/{view}/reveal/{category}", s.handleReveal)
	mux.HandleFunc("GET /api/quiz/settings", s.handleQuizSettings)
	mux.HandleFunc("POST /api/quiz/settings/{category}/toggle", s.handleToggleSetting)
	mux.HandleFunc("POST /api/quiz/settings/reset", s.handleResetSettings)
	mux.HandleFunc("GET /api/render", s.handleRender)
	return correlationMiddleware(authMiddleware(token, mux.ServeHTTP))
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleListSyntheses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	minSteps := 0
	if value := strings.TrimSpace(query.Get("min_steps")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid min_steps")
			return
		}
		minSteps = parsed
	}
	s.writeJSON(w, http.StatusOK, s.daemon.catalog.List(r.Context(), query.Get("q"), minSteps))
}

func (s *apiServer) handleRefreshSyntheses(w http.ResponseWriter, r *http.Request) {
	s.daemon.catalog.Refresh()
	s.writeJSON(w, http.StatusOK, s.daemon.catalog.List(r.Context(), "", 0))
}

func (s *apiServer) handleGetSynthesis(w http.ResponseWriter, r *http.Request) {
	detail, err := s.daemon.catalog.Describe(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeResolveError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *apiServer) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !s.decodeOptional(w, r, &req) {
		return
	}
	view := s.daemon.views.Create()
	if strings.TrimSpace(req.ID) == "" {
		s.writeJSON(w, http.StatusCreated, api.ViewResponse{View: view.Snapshot()})
		return
	}
	snap, _ := view.Open(r.Context(), strings.TrimSpace(req.ID))
	s.writeJSON(w, http.StatusCreated, api.ViewResponse{View: snap})
}

func (s *apiServer) handleGetView(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, api.ViewResponse{View: view.Snapshot()})
}

func (s *apiServer) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.view(w, r); !ok {
		return
	}
	s.daemon.views.Delete(r.PathValue("view"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleOpenView(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	var req openRequest
	if !s.decodeOptional(w, r, &req) {
		return
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	// A superseded open still reports the newer state.
	snap, _ := view.Open(r.Context(), id)
	s.writeJSON(w, http.StatusOK, api.ViewResponse{View: snap})
}

func (s *apiServer) handleNext(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*viewer.View).Next)
}

func (s *apiServer) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*viewer.View).Prev)
}

func (s *apiServer) handleReveal(w http.ResponseWriter, r *http.Request) {
	category, err := quiz.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.navigate(w, r, func(v *viewer.View) (viewer.Snapshot, error) {
		return v.Reveal(category)
	})
}

func (s *apiServer) navigate(w http.ResponseWriter, r *http.Request, move func(*viewer.View) (viewer.Snapshot, error)) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	snap, err := move(view)
	if errors.Is(err, viewer.ErrNotReady) {
		s.writeError(w, http.StatusConflict, "no synthesis ready in this view")
		return
	}
	s.writeJSON(w, http.StatusOK, api.ViewResponse{View: snap})
}

func (s *apiServer) handleQuizSettings(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, api.FromSettings(s.daemon.prefs.Current()))
}

func (s *apiServer) handleToggleSetting(w http.ResponseWriter, r *http.Request) {
	category, err := quiz.ParseCategory(r.PathValue("category"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromSettings(s.daemon.prefs.Toggle(r.Context(), category)))
}

func (s *apiServer) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.FromSettings(s.daemon.prefs.Reset(r.Context())))
}

func (s *apiServer) handleRender(w http.ResponseWriter, r *http.Request) {
	notation := strings.TrimSpace(r.URL.Query().Get("notation"))
	if notation == "" {
		s.writeError(w, http.StatusBadRequest, "notation is required")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.renderer.Draw(r.Context(), notation))
}

func (s *apiServer) view(w http.ResponseWriter, r *http.Request) (*viewer.View, bool) {
	view, ok := s.daemon.views.Get(r.PathValue("view"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "view not found")
		return nil, false
	}
	return view, true
}

// decodeOptional decodes a JSON body when one is present.
func (s *apiServer) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *apiServer) writeResolveError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, catalog.ErrFetchFailed) {
		s.writeError(w, http.StatusNotFound, "synthesis not found")
		return
	}
	logging.ErrorWithContext(logging.WithContext(r.Context(), s.log()), "synthesis lookup failed", "api_lookup_failed",
		logging.String("path", r.URL.Path),
		logging.Error(err),
	)
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return logging.NewComponentLogger(s.logger, "api-server")
	}
	return logging.NewNop()
}
