// Package pagination owns the result set of one browsing view and the page
// cursor over it.
package pagination

import (
	"sync"

	"moviebrowse/internal/models"
)

// DefaultPageSize is the number of posters shown per page.
const DefaultPageSize = 12

// State is the derived pager view of a Controller.
type State struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrev     bool `json:"has_prev"`
	HasNext     bool `json:"has_next"`
}

// Renderer is the presentation side of the controller. RenderEmpty is used
// instead of RenderPage whenever the visible slice is empty.
type Renderer interface {
	RenderPage(state State, slice []models.Movie) error
	RenderEmpty(state State) error
}

// Origin labels where the current result set came from.
type Origin struct {
	Source string `json:"source,omitempty"`
	Query  string `json:"query,omitempty"`
}

// Snapshot is the serialisable form of a Controller.
type Snapshot struct {
	Records    []models.Movie `json:"records"`
	Page       int            `json:"page"`
	Generation uint64         `json:"generation"`
	Origin     Origin         `json:"origin"`
}

// Controller is safe for concurrent use. The renderer may be nil, in which
// case state transitions happen without any presentation side effect.
type Controller struct {
	mu         sync.Mutex
	records    []models.Movie
	page       int
	pageSize   int
	generation uint64
	origin     Origin
	renderer   Renderer
}

func New(pageSize int, r Renderer) *Controller {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		page:     1,
		pageSize: pageSize,
		renderer: r,
	}
}

// Restore rebuilds a controller from a snapshot, clamping a page that no
// longer fits the records.
func Restore(s Snapshot, pageSize int, r Renderer) *Controller {
	c := New(pageSize, r)
	c.records = s.Records
	c.generation = s.Generation
	c.origin = s.Origin
	c.page = Clamp(s.Page, TotalPages(len(s.Records), c.pageSize))
	return c
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Records:    c.records,
		Page:       c.page,
		Generation: c.generation,
		Origin:     c.origin,
	}
}

// Generation is the number of fetches begun on this controller. Zero means
// the view has never been filled.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) Origin() Origin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.origin
}

// Begin stamps a new fetch. Only the result of the most recently begun
// fetch will be accepted by Apply.
func (c *Controller) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

// Apply replaces the results and their origin if gen is still the latest
// generation. It reports false, without touching state or rendering, for
// stale results.
func (c *Controller) Apply(gen uint64, origin Origin, records []models.Movie) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false, nil
	}
	c.origin = origin
	return true, c.replaceLocked(records)
}

// ReplaceResults swaps the whole result set and resets to page 1.
func (c *Controller) ReplaceResults(records []models.Movie) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replaceLocked(records)
}

// GoToPage moves the cursor by delta, clamped to the available pages.
// Moving past either end leaves the page unchanged but still re-renders.
func (c *Controller) GoToPage(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = Clamp(c.page+delta, TotalPages(len(c.records), c.pageSize))
	return c.renderLocked()
}

// Render re-renders the current page.
func (c *Controller) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) replaceLocked(records []models.Movie) error {
	c.records = records
	c.page = 1
	return c.renderLocked()
}

func (c *Controller) stateLocked() State {
	total := TotalPages(len(c.records), c.pageSize)
	return State{
		CurrentPage: c.page,
		PageSize:    c.pageSize,
		TotalPages:  total,
		TotalItems:  len(c.records),
		HasPrev:     c.page > 1,
		HasNext:     c.page < total,
	}
}

func (c *Controller) visibleLocked() []models.Movie {
	start, end := Bounds(c.page, c.pageSize, len(c.records))
	return c.records[start:end:end]
}

func (c *Controller) renderLocked() error {
	if c.renderer == nil {
		return nil
	}
	state := c.stateLocked()
	slice := c.visibleLocked()
	if len(slice) == 0 {
		return c.renderer.RenderEmpty(state)
	}
	return c.renderer.RenderPage(state, slice)
}
