// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness probe
//	GET  /version                 build information as JSON
//	POST /render?format=svg       body is chart TOML; responds with the artifact
//
// /render accepts the query parameters format (svg, png, pdf, json), width,
// height, scale, embed_fonts and refresh. Every render response carries an
// X-Render-ID header and X-Cache: hit|miss.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/tickplot/pkg/buildinfo"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxBody bounds the size of a chart upload.
	DefaultMaxBody = 4 << 20

	// DefaultRenderTimeout bounds a single render request.
	DefaultRenderTimeout = 30 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr          string
	Runner        *pipeline.Runner
	Logger        *log.Logger
	MaxBody       int64
	RenderTimeout time.Duration
}

// Server serves rendered charts.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server for cfg. A nil runner renders without caching.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = DefaultRenderTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{cfg: cfg, runner: cfg.Runner, logger: cfg.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/render", s.handleRender)
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports requests to the HTTP hooks and logs them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "bytes", ww.BytesWritten(), "duration", dur)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set("X-Render-ID", id)

	opts, err := parseRenderQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "chart exceeds size limit", Code: string(errors.ErrCodeInvalidInput)})
			return
		}
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read chart"))
		return
	}
	opts.Chart = body
	opts.Logger = s.logger.With("render_id", id)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RenderTimeout)
	defer cancel()

	res, err := s.runner.Execute(ctx, opts)
	if err != nil {
		s.logger.Warn("render failed", "render_id", id, "err", err)
		writeError(w, err)
		return
	}

	format := opts.Formats[0]
	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("X-Cache", cacheState)
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// parseRenderQuery maps query parameters onto pipeline options.
func parseRenderQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{Formats: []string{format}}

	var err error
	if opts.Width, err = intParam(q.Get("width"), "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = intParam(q.Get("height"), "height"); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid scale %q", v)
		}
	}
	opts.EmbedFonts = boolParam(q.Get("embed_fonts"))
	opts.Refresh = boolParam(q.Get("refresh"))
	return opts, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
	}
	return n, nil
}

func boolParam(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{Error: errors.UserMessage(err), Code: string(code)})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidChart,
		errors.ErrCodeInvalidRange, errors.ErrCodeInvalidName, errors.ErrCodeInvalidIndex,
		errors.ErrCodeDuplicate, errors.ErrCodeNotFound:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
