// Package presenter turns result records into view models. Nothing here
// touches the network or writes HTML.
package presenter

import (
	"strconv"
	"strings"

	"moviebrowse/internal/models"
	"moviebrowse/internal/pagination"
)

const (
	// RowSize is the number of posters per grid row.
	RowSize = 4

	NoResultsMessage = "Not results found"
	NoResultsIcon    = "/static/images/notFound.png"
	FallbackPoster   = "/static/images/fallback-image.jpg"
)

type Card struct {
	ID        int
	Title     string
	PosterURL string
	Alt       string
	SelectURL string
}

// Row is one grid line. Slots is the number of records the row was built
// from, which can exceed len(Cards) when records without a poster were dropped.
type Row struct {
	Slots int
	Cards []Card
}

type Grid struct {
	State   pagination.State
	Rows    []Row
	Empty   bool
	Message string
	Icon    string
}

// NewCard maps a record to its poster card.
func NewCard(m models.Movie, imageBaseURL string) Card {
	return Card{
		ID:        m.ID,
		Title:     m.Title,
		PosterURL: strings.TrimRight(imageBaseURL, "/") + m.PosterPath,
		Alt:       m.Title + " Poster",
		SelectURL: SelectURL(m.ID),
	}
}

// SelectURL is the click target that hands a record's id to navigation.
func SelectURL(id int) string {
	return "/select/" + strconv.Itoa(id)
}

// DetailsURL is where navigation sends the browser for a selected record.
func DetailsURL(id int) string {
	return "/description?tmdbID=" + strconv.Itoa(id)
}

// BuildGrid chunks slice into rows of RowSize and only then drops records
// without a poster, so a row can render with fewer than RowSize cards.
func BuildGrid(state pagination.State, slice []models.Movie, imageBaseURL string) Grid {
	if len(slice) == 0 {
		return EmptyGrid(state)
	}

	chunks := pagination.Chunk(slice, RowSize)
	rows := make([]Row, 0, len(chunks))
	for _, chunk := range chunks {
		row := Row{Slots: len(chunk), Cards: make([]Card, 0, len(chunk))}
		for _, m := range chunk {
			if !m.HasPoster() {
				continue
			}
			row.Cards = append(row.Cards, NewCard(m, imageBaseURL))
		}
		rows = append(rows, row)
	}

	return Grid{State: state, Rows: rows}
}

func EmptyGrid(state pagination.State) Grid {
	return Grid{
		State:   state,
		Empty:   true,
		Message: NoResultsMessage,
		Icon:    NoResultsIcon,
	}
}

// Recorder is a pagination.Renderer that keeps the most recent grid. It is
// meant to be used for a single request.
type Recorder struct {
	ImageBaseURL string

	grid     Grid
	rendered bool
}

func NewRecorder(imageBaseURL string) *Recorder {
	return &Recorder{ImageBaseURL: imageBaseURL}
}

func (r *Recorder) RenderPage(state pagination.State, slice []models.Movie) error {
	r.grid = BuildGrid(state, slice, r.ImageBaseURL)
	r.rendered = true
	return nil
}

func (r *Recorder) RenderEmpty(state pagination.State) error {
	r.grid = EmptyGrid(state)
	r.rendered = true
	return nil
}

// Grid returns the last rendered grid and whether anything was rendered.
func (r *Recorder) Grid() (Grid, bool) {
	return r.grid, r.rendered
}
