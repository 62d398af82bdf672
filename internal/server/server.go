package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/Freeeeeet/boss_timer_bot/internal/schedule"
	"github.com/Freeeeeet/boss_timer_bot/internal/service"
)

// Bosses доступ только на чтение к расписанию боссов
type Bosses interface {
	Overview(ctx context.Context) (*service.Overview, error)
	GetByID(ctx context.Context, id int64) (*model.Boss, error)
}

// apiErrorBody тело ошибки в формате {"error":{"code","message"}}
type apiErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiError struct {
	Body apiErrorBody `json:"error"`
}

type overviewBody struct {
	Field []*model.Boss `json:"field"`
	Fixed []*model.Boss `json:"fixed"`
}

type nearestBody struct {
	Boss    *model.Boss `json:"boss"`
	SpawnAt time.Time   `json:"spawn_at"`
	Fixed   bool        `json:"fixed"`
	Seconds int64       `json:"seconds_remaining"`
}

// Server отдаёт health check и API просмотра боссов
type Server struct {
	bosses Bosses
	logger *zap.Logger
	now    func() time.Time
}

// New возвращает HTTP обработчик со всеми маршрутами
func New(bosses Bosses, logger *zap.Logger) http.Handler {
	return newServer(bosses, logger, time.Now).routes()
}

func newServer(bosses Bosses, logger *zap.Logger, now func() time.Time) *Server {
	return &Server{bosses: bosses, logger: logger, now: now}
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.logRequests)

	router.Get("/health", s.handleHealth)
	router.Route("/api/bosses", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/nearest", s.handleNearest)
		r.Get("/{id}", s.handleGet)
	})

	return router
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	overview, err := s.bosses.Overview(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewBody{
		Field: nonNil(overview.Field),
		Fixed: nonNil(overview.Fixed),
	})
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	overview, err := s.bosses.Overview(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}

	now := s.now()
	occ := service.NearestOf(overview, now)
	if occ == nil {
		writeError(w, http.StatusNotFound, "not_found", "no upcoming spawns")
		return
	}

	remaining := occ.SpawnAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	writeJSON(w, http.StatusOK, nearestBody{
		Boss:    occ.Boss,
		SpawnAt: occ.SpawnAt.UTC(),
		Fixed:   occ.Fixed,
		Seconds: int64(remaining / time.Second),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "id must be a positive integer")
		return
	}

	boss, err := s.bosses.GetByID(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boss)
}

// handleError переводит ошибку сервиса в HTTP статус
func (s *Server) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBossNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrInvalidSchedule), errors.Is(err, schedule.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		s.logger.Error("Store unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", "store unavailable")
	default:
		s.logger.Error("Request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Body: apiErrorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func nonNil(bosses []*model.Boss) []*model.Boss {
	if bosses == nil {
		return []*model.Boss{}
	}
	return bosses
}
