// Package server exposes the registration form over HTTP: the server-rendered
// page, a JSON submit endpoint, the date option lists, the OpenAPI export and
// operational endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/components/birthdate"
	"github.com/goliatone/go-regform/internal/metrics"
	"github.com/goliatone/go-regform/pkg/form"
	pkgopenapi "github.com/goliatone/go-regform/pkg/openapi"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/registration"
)

// Route paths.
const (
	PathRegister      = "/register"
	PathRegistrations = "/api/registrations"
	PathOpenAPIJSON   = "/openapi.json"
	PathOpenAPIYAML   = "/openapi.yaml"
	PathMetrics       = "/metrics"
	PathHealth        = "/healthz"
	PathAssets        = "/assets"
)

const maxBodyBytes = 1 << 20

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request and submission logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records submits and renders on m and serves gatherer on
// /metrics.
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithTracer wraps every submit in a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithRenderer selects the HTML renderer by registry name.
func WithRenderer(name string) Option {
	return func(s *Server) {
		s.renderer = name
	}
}

// WithSecureCookies marks the CSRF cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// WithControllerOptions forwards options to the controller built per request.
func WithControllerOptions(opts ...form.Option) Option {
	return func(s *Server) {
		s.controllerOpts = append(s.controllerOpts, opts...)
	}
}

// WithTokenGenerator overrides the CSRF token source.
func WithTokenGenerator(next func() string) Option {
	return func(s *Server) {
		if next != nil {
			s.newToken = next
		}
	}
}

// WithClock sets the clock behind the date option endpoints.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOpenAPIOptions customises the exported document.
func WithOpenAPIOptions(opts pkgopenapi.Options) Option {
	return func(s *Server) {
		s.openapiOpts = opts
	}
}

// Server holds the shared, immutable dependencies of every request. A fresh
// form.Controller is built per submit.
type Server struct {
	orch           *orchestrator.Orchestrator
	logger         *zap.Logger
	metrics        *metrics.Metrics
	gatherer       prometheus.Gatherer
	tracer         trace.Tracer
	renderer       string
	secureCookies  bool
	controllerOpts []form.Option
	newToken       func() string
	now            func() time.Time
	openapiOpts    pkgopenapi.Options
	openapiJSON    []byte
	openapiYAML    []byte
	assets         fs.FS
}

// New builds a server around orch. The OpenAPI document is built once here.
func New(ctx context.Context, orch *orchestrator.Orchestrator, assets fs.FS, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	s := &Server{
		orch:        orch,
		logger:      zap.NewNop(),
		tracer:      noop.NewTracerProvider().Tracer("regform"),
		newToken:    uuid.NewString,
		now:         time.Now,
		openapiOpts: pkgopenapi.DefaultOptions(),
		assets:      assets,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	doc, err := pkgopenapi.Build(ctx, orch.Schema(), s.openapiOpts)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if s.openapiJSON, err = pkgopenapi.MarshalJSON(doc); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if s.openapiYAML, err = pkgopenapi.MarshalYAML(doc); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	return s, nil
}

// Router wires every endpoint with middleware.
func (s *Server) Router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, PathRegister, http.StatusFound)
	})
	r.Get(PathRegister, s.handleForm)
	r.Post(PathRegister, s.handleFormSubmit)
	r.Post(PathRegistrations, s.handleAPISubmit)
	r.Get(PathOpenAPIJSON, s.handleOpenAPI(s.openapiJSON, "application/json"))
	r.Get(PathOpenAPIYAML, s.handleOpenAPI(s.openapiYAML, "application/yaml"))
	r.Get(PathHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.gatherer != nil {
		r.Handle(PathMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.assets != nil {
		r.Handle(PathAssets+"/*", http.StripPrefix(PathAssets+"/", http.FileServer(http.FS(s.assets))))
	}

	if _, err := birthdate.RegisterRoutes(r, "", birthdate.WithClock(s.now)); err != nil {
		return nil, fmt.Errorf("server: mount birthdate routes: %w", err)
	}
	return r, nil
}

// Run serves on addr until ctx is cancelled, then shuts down within grace.
func (s *Server) Run(ctx context.Context, addr string, grace time.Duration) error {
	handler, err := s.Router()
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	s.logger.Info("listening", zap.String("addr", addr))

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("stopped")
	return nil
}

func (s *Server) handleOpenAPI(body []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

func (s *Server) controller(surface string) *form.Controller {
	opts := []form.Option{
		form.WithLogger(s.logger),
		form.WithSubmitHook(s.metrics.SubmitHook(surface)),
	}
	opts = append(opts, s.controllerOpts...)
	return form.New(s.orch.Schema(), opts...)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(started)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// echoValues drops both passwords so a re-rendered form never carries them.
func echoValues(data registration.FormData) map[string]any {
	values := data.Values()
	delete(values, registration.PathPassword)
	delete(values, registration.PathConfirmPassword)
	return values
}
