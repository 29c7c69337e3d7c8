package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/abelzeko/aquahealth/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions configures the HTTP API
type RouterOptions struct {
	AllowedOrigins []string
	Timeout        time.Duration
}

// NewRouter mounts the JSON API, the image store and the operational endpoints
func NewRouter(services Services, opts RouterOptions) http.Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	h := &Handler{services: services}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(opts.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/assessments", h.CreateAssessment)
		ar.Post("/assessments/gauge", h.AssessmentGauge)

		ar.Get("/posts", h.ListPosts)
		ar.Post("/posts", h.CreatePost)
		ar.Get("/tags", h.ListTags)

		ar.Get("/dashboard", h.DashboardSummary)
		ar.Get("/logbook", h.ListLogbook)
		ar.Get("/logbook/statuses", h.LogbookStatuses)
		ar.Get("/logbook/series/{parameter}", h.LogbookSeries)

		ar.Get("/insights", h.ListInsights)
		ar.Get("/insights/locations", h.InsightLocations)
	})
	r.Get("/images/{name}", h.GetImage)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestLogger logs every request and records it in the HTTP metrics
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		metrics.HTTPRequestTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())
		zap.S().Infow("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
