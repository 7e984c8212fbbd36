package handlers

import (
	"io/fs"
	"net/http"
	"time"

	"moviebrowse/internal/ui"
	"moviebrowse/internal/ui/assets"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Health)
	r.Handle("/metrics", promhttp.Handler())

	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Get("/", h.Recommended)
	r.Get("/search", h.Search)
	r.Get("/random", h.Random)
	r.Get("/page", h.Page)
	r.Get("/select/{movieID}", func(w http.ResponseWriter, req *http.Request) {
		h.Select(w, req, chi.URLParam(req, "movieID"))
	})
	r.Get("/description", h.Description)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		ui.RenderHTML(w, http.StatusNotFound, ui.ErrorPage("Not Found", "There is nothing here."))
	})

	return r
}

func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func requestLogger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
				"request_id": middleware.GetReqID(r.Context()),
			}).Info("Request handled")
		})
	}
}
