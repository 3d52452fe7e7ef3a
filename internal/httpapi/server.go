package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AbelC27/AcessIT/internal/accessit/service"
	"github.com/AbelC27/AcessIT/internal/accessit/store"
	"github.com/AbelC27/AcessIT/internal/accessit/types"
)

type Dependencies struct {
	Logger        *zap.Logger
	Addr          string
	AccessService *service.AccessService

	// Gatherer backs the /metrics endpoint.  Nil disables it.
	Gatherer prometheus.Gatherer
}

type Server struct {
	httpServer    *http.Server
	logger        *zap.Logger
	router        chi.Router
	accessService *service.AccessService
}

func NewServer(d Dependencies) *Server {
	r := chi.NewRouter()

	s := &Server{
		logger:        d.Logger,
		router:        r,
		accessService: d.AccessService,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	r.Post("/validate", s.handleValidate)
	r.Get("/check-access-status", s.handleCheckAccessStatus)
	r.Post("/approve", s.handleApprove)
	r.Get("/healthz", s.handleHealthz)

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	bleCode := r.URL.Query().Get("ble_code")

	resp, err := s.accessService.Validate(r.Context(), bleCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			writeError(w, http.StatusBadRequest, "invalid_ble_code", err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		default:
			s.logger.Error("validate failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckAccessStatus(w http.ResponseWriter, r *http.Request) {
	logID := r.URL.Query().Get("log_id")

	resp, err := s.accessService.Status(r.Context(), logID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLogID):
			writeError(w, http.StatusBadRequest, "invalid_log_id", err.Error())
		case errors.Is(err, store.ErrLogNotFound):
			writeError(w, http.StatusNotFound, "log_not_found", "Log not found")
		default:
			s.logger.Error("check-access-status failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	logID := r.URL.Query().Get("log_id")

	approve, err := strconv.ParseBool(r.URL.Query().Get("approve"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_approve", "approve must be a boolean")
		return
	}

	if err := s.accessService.Approve(r.Context(), logID, approve); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLogID):
			writeError(w, http.StatusBadRequest, "invalid_log_id", err.Error())
		default:
			s.logger.Error("approve failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, types.ApproveResponse{OK: true})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorBody{Error: code, Detail: detail})
}
