package frontend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mikey/email-verify-api/internal/config"
	"github.com/mikey/email-verify-api/internal/core"
	"github.com/mikey/email-verify-api/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	maxRequestBytes = 64 << 10
	shutdownTimeout = 10 * time.Second
)

// Error codes returned in the error envelope
const (
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

type verifyRequest struct {
	Email *string `json:"email"`
	Quick bool    `json:"quick"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// HTTPFrontend serves the verification API over HTTP
type HTTPFrontend struct {
	verifier ports.Verifier
	logger   *zap.Logger
	cfg      config.ServerConfig
	router   chi.Router
	server   *http.Server
}

// NewHTTPFrontend creates a new HTTP front end. Metrics are served from gatherer.
func NewHTTPFrontend(verifier ports.Verifier, logger *zap.Logger, cfg config.ServerConfig, gatherer prometheus.Gatherer) *HTTPFrontend {
	f := &HTTPFrontend{
		verifier: verifier,
		logger:   logger,
		cfg:      cfg,
	}
	f.router = f.routes(gatherer)
	return f
}

func (f *HTTPFrontend) routes(gatherer prometheus.Gatherer) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(f.requestLogger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: f.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", f.handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Post("/v1/verify", f.handleVerify)

	return r
}

// Handler returns the HTTP handler
func (f *HTTPFrontend) Handler() http.Handler {
	return f.router
}

// Verify runs the pipeline directly, bypassing HTTP
func (f *HTTPFrontend) Verify(ctx context.Context, req core.VerificationRequest) (*core.VerificationOutcome, error) {
	return f.verifier.Verify(ctx, req)
}

// Start starts listening on the configured address
func (f *HTTPFrontend) Start() error {
	listener, err := net.Listen("tcp", f.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.cfg.ListenAddress, err)
	}

	f.server = &http.Server{
		Handler:      f.router,
		ReadTimeout:  f.cfg.ReadTimeout,
		WriteTimeout: f.cfg.WriteTimeout,
	}

	f.logger.Info("HTTP front end starting", zap.String("address", listener.Addr().String()))

	go func() {
		if err := f.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the server down
func (f *HTTPFrontend) Stop() error {
	if f.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return f.server.Shutdown(ctx)
}

func (f *HTTPFrontend) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (f *HTTPFrontend) handleVerify(w http.ResponseWriter, r *http.Request) {
	var body verifyRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Request body must be a JSON object")
		return
	}
	if body.Email == nil || strings.TrimSpace(*body.Email) == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Field 'email' is required")
		return
	}

	ctx := r.Context()
	if f.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.RequestTimeout)
		defer cancel()
	}

	outcome, err := f.verifier.Verify(ctx, core.VerificationRequest{
		Email: *body.Email,
		Quick: body.Quick,
	})
	if err != nil {
		f.logger.Error("Verification failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

func (f *HTTPFrontend) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		f.logger.Debug("HTTP request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}
