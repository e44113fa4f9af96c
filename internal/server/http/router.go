package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ekisa-team/ttsform/internal/audio"
	"github.com/ekisa-team/ttsform/internal/form"
)

const (
	apiTitle   = "ttsform"
	apiVersion = "1.0.0"

	defaultStreamInterval = 250 * time.Millisecond
)

type routerOptions struct {
	logger         *slog.Logger
	streamInterval time.Duration
}

// Option configures the router.
type Option func(*routerOptions)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *routerOptions) {
		o.logger = l
	}
}

// WithStreamInterval sets how often the view stream polls for changes.
// Non-positive values keep the default.
func WithStreamInterval(d time.Duration) Option {
	return func(o *routerOptions) {
		if d > 0 {
			o.streamInterval = d
		}
	}
}

// NewRouter builds the HTTP surface: the HTML form, the JSON form API, audio
// locators and the health check.
func NewRouter(f *form.Form, store *audio.Store, opts ...Option) http.Handler {
	o := routerOptions{
		logger:         slog.Default(),
		streamInterval: defaultStreamInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(o.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	page := NewPageHandler(f, o.logger)
	r.Get("/", page.Show)
	r.Post("/", page.Apply)

	audioHandler := NewAudioHandler(store)
	r.Get("/audio/{id}", audioHandler.Serve)

	api := humachi.New(r, huma.DefaultConfig(apiTitle, apiVersion))
	NewFormHandler(api, f, o.streamInterval)

	return r
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", chimiddleware.GetReqID(r.Context()),
				"elapsed", time.Since(start),
			)
		})
	}
}
