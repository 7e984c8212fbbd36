package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"moviebrowse/internal/metrics"
	"moviebrowse/internal/models"
	"moviebrowse/internal/pagination"
	"moviebrowse/internal/presenter"
	"moviebrowse/internal/services"
	"moviebrowse/internal/session"
	"moviebrowse/internal/ui"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MovieFetcher is the part of services.Client the handlers depend on.
type MovieFetcher interface {
	SearchMovies(ctx context.Context, query string) []models.Movie
	FetchRecommended(ctx context.Context) []models.Movie
	FetchRandomPage(ctx context.Context) ([]models.Movie, error)
	FetchDetails(ctx context.Context, id int) (*models.MovieDetails, error)
	ImageBaseURL() string
}

// Result sources, stored with the view so headings survive navigation.
const (
	sourceRecommended = "recommended"
	sourceSearch      = "search"
	sourceRandom      = "random"
)

var errViewNotStarted = errors.New("view has no results yet")

type Handler struct {
	movies MovieFetcher
	views  session.Store
	logger *logrus.Logger
	secure bool
}

func NewHandler(movies MovieFetcher, views session.Store, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		movies: movies,
		views:  views,
		logger: logger,
	}
}

// SecureCookies marks the view cookie Secure, for deployments behind TLS.
func (h *Handler) SecureCookies(on bool) {
	h.secure = on
}

func (h *Handler) Recommended(w http.ResponseWriter, r *http.Request) {
	h.replace(w, r, sourceRecommended, "", func(ctx context.Context) []models.Movie {
		return h.movies.FetchRecommended(ctx)
	})
}

// Search runs a title search. A blank query falls back to the recommended list.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.Recommended(w, r)
		return
	}

	h.replace(w, r, sourceSearch, query, func(ctx context.Context) []models.Movie {
		return h.movies.SearchMovies(ctx, query)
	})
}

func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	h.replace(w, r, sourceRandom, "", func(ctx context.Context) []models.Movie {
		movies, err := h.movies.FetchRandomPage(ctx)
		if err != nil {
			h.logger.WithError(err).Warn("Random page unavailable, showing empty results")
			return []models.Movie{}
		}
		return movies
	})
}

// Page moves the current view by delta pages without contacting the movie
// service. delta=0 re-renders the current page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	delta, err := parseDelta(r.URL.Query().Get("delta"))
	if err != nil {
		ui.RenderHTML(w, http.StatusBadRequest, ui.ErrorPage("Invalid Request", "delta must be -1, 0 or 1"))
		return
	}

	viewID, ok := existingViewID(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var origin pagination.Origin
	rec := presenter.NewRecorder(h.movies.ImageBaseURL())
	err = h.views.Update(r.Context(), viewID, rec, func(c *pagination.Controller) error {
		if c.Generation() == 0 {
			return errViewNotStarted
		}
		origin = c.Origin()
		if delta == 0 {
			return c.Render()
		}
		return c.GoToPage(delta)
	})
	if errors.Is(err, errViewNotStarted) {
		h.logger.WithField("view_id", viewID).Debug("View expired or never filled, starting over")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.renderStoreError(w, viewID, err)
		return
	}
	if delta != 0 {
		metrics.RecordNavigation(delta)
	}

	h.renderGrid(w, rec, origin)
}

// Select hands a chosen record over to the details view.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		ui.RenderHTML(w, http.StatusBadRequest, ui.ErrorPage("Invalid Request", "unknown movie id"))
		return
	}
	http.Redirect(w, r, presenter.DetailsURL(id), http.StatusFound)
}

func (h *Handler) Description(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("tmdbID"))
	if err != nil || id <= 0 {
		ui.RenderHTML(w, http.StatusBadRequest, ui.ErrorPage("Invalid Request", "tmdbID must be a positive integer"))
		return
	}

	details, err := h.movies.FetchDetails(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("tmdb_id", id).Error("Failed to load movie details")

		var statusErr *services.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			ui.RenderHTML(w, http.StatusNotFound, ui.ErrorPage("Not Found", "That movie could not be found."))
			return
		}
		ui.RenderHTML(w, http.StatusBadGateway, ui.ErrorPage("Unavailable", "Movie details are unavailable right now."))
		return
	}

	ui.RenderHTML(w, http.StatusOK, ui.DetailsPage(details, h.movies.ImageBaseURL()))
}

// replace begins a new generation for the view, runs fetch outside any
// lock and applies the result only if no newer fetch has started meanwhile.
func (h *Handler) replace(w http.ResponseWriter, r *http.Request, source, query string, fetch func(context.Context) []models.Movie) {
	ctx := r.Context()
	viewID := h.ensureViewID(w, r)

	var gen uint64
	if err := h.views.Update(ctx, viewID, nil, func(c *pagination.Controller) error {
		gen = c.Begin()
		return nil
	}); err != nil {
		h.renderStoreError(w, viewID, err)
		return
	}

	records := fetch(ctx)

	// The store may run fn more than once, so fn only sets state.
	var (
		applied bool
		current pagination.Origin
	)
	rec := presenter.NewRecorder(h.movies.ImageBaseURL())
	err := h.views.Update(ctx, viewID, rec, func(c *pagination.Controller) error {
		var err error
		applied, err = c.Apply(gen, pagination.Origin{Source: source, Query: query}, records)
		if err != nil {
			return err
		}
		current = c.Origin()
		if applied {
			return nil
		}
		return c.Render()
	})
	if err != nil {
		h.renderStoreError(w, viewID, err)
		return
	}

	if !applied {
		metrics.RecordStaleResult()
		h.logger.WithFields(logrus.Fields{
			"view_id":    viewID,
			"generation": gen,
			"source":     source,
		}).Info("Discarding stale results, a newer fetch was started")
	}

	h.renderGrid(w, rec, current)
}

func (h *Handler) renderGrid(w http.ResponseWriter, rec *presenter.Recorder, origin pagination.Origin) {
	grid, _ := rec.Grid()
	ui.RenderHTML(w, http.StatusOK, ui.BrowsePage(ui.BrowseData{
		Query:   origin.Query,
		Heading: heading(origin.Source, origin.Query),
		Grid:    grid,
	}))
}

func (h *Handler) renderStoreError(w http.ResponseWriter, viewID string, err error) {
	h.logger.WithError(err).WithField("view_id", viewID).Error("Failed to update view state")
	ui.RenderHTML(w, http.StatusServiceUnavailable, ui.ErrorPage("Unavailable", "Your results could not be loaded. Please try again."))
}

func (h *Handler) ensureViewID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := existingViewID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func existingViewID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

func parseDelta(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	delta, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	switch {
	case delta > 0:
		return 1, nil
	case delta < 0:
		return -1, nil
	}
	return 0, nil
}

func heading(source, query string) string {
	switch source {
	case sourceSearch:
		if query != "" {
			return "Results for \"" + query + "\""
		}
		return "Search results"
	case sourceRandom:
		return "Random movies"
	}
	return "Recommended"
}
