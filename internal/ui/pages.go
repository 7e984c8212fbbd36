package ui

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"moviebrowse/internal/models"
	"moviebrowse/internal/pagination"
	"moviebrowse/internal/presenter"

	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"
)

const siteTitle = "Movie Browse"

// StylesheetPath is served from the embedded assets under /static/.
const StylesheetPath = "/static/app.css"

// BrowseData is everything the grid page needs besides the grid itself.
type BrowseData struct {
	Query   string
	Heading string
	Grid    presenter.Grid
}

func RenderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func layout(title, query string, body ...gomponents.Node) gomponents.Node {
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(gomponents.Text(title+" | "+siteTitle)),
				html.Link(html.Rel("stylesheet"), html.Href(StylesheetPath)),
			),
			html.Body(
				html.Header(
					html.Class("topbar"),
					html.A(html.Href("/"), html.Class("brand"), gomponents.Text(siteTitle)),
					html.Form(
						html.ID("searchForm"),
						html.Method("get"),
						html.Action("/search"),
						html.Input(
							html.ID("searchInput"),
							html.Type("search"),
							html.Name("q"),
							html.Value(query),
							html.Placeholder("Search movies..."),
						),
						html.Button(html.Type("submit"), gomponents.Text("Search")),
					),
					html.A(html.Href("/random"), html.Class("random"), gomponents.Text("Random movies")),
				),
				html.Main(html.Class("layout"), gomponents.Group(body)),
			),
		),
	)
}

// BrowsePage renders a poster grid with its pager.
func BrowsePage(d BrowseData) gomponents.Node {
	title := d.Heading
	if title == "" {
		title = "Recommended"
	}
	return layout(title, d.Query,
		html.H1(html.Class("page-title"), gomponents.Text(title)),
		results(d.Grid),
		pager(d),
	)
}

func results(g presenter.Grid) gomponents.Node {
	if g.Empty {
		return html.Div(
			html.ID("results"),
			html.Class("no-results"),
			html.Img(html.Src(g.Icon), html.Alt("No results found")),
			html.P(html.Class("empty"), gomponents.Text(g.Message)),
		)
	}

	rows := make([]gomponents.Node, 0, len(g.Rows))
	for _, row := range g.Rows {
		cards := make([]gomponents.Node, 0, len(row.Cards))
		for _, c := range row.Cards {
			cards = append(cards, movieCard(c))
		}
		rows = append(rows, html.Div(html.Class("movie-row"), gomponents.Group(cards)))
	}
	return html.Div(html.ID("results"), gomponents.Group(rows))
}

func movieCard(c presenter.Card) gomponents.Node {
	return html.A(
		html.Class("movie-item"),
		html.Href(c.SelectURL),
		html.Data("tmdbid", strconv.Itoa(c.ID)),
		html.Img(
			html.Class("movie-poster"),
			html.Src(c.PosterURL),
			html.Alt(c.Alt),
			gomponents.Attr("onerror", fmt.Sprintf("this.src='%s'; this.onerror=null;", presenter.FallbackPoster)),
		),
		html.Div(html.Class("movie-title"), html.H4(gomponents.Text(c.Title))),
	)
}

func pager(d BrowseData) gomponents.Node {
	st := d.Grid.State
	pages := pagination.PageCount(st.TotalItems, st.PageSize)
	return html.Nav(
		html.Class("pager"),
		pageButton("prevButton", -1, "Previous", st.HasPrev),
		html.Span(html.Class("page-info"), gomponents.Textf("Page %d of %d", st.CurrentPage, pages)),
		pageButton("nextButton", 1, "Next", st.HasNext),
	)
}

func pageButton(id string, delta int, label string, enabled bool) gomponents.Node {
	return html.Form(
		html.Method("get"),
		html.Action("/page"),
		html.Input(html.Type("hidden"), html.Name("delta"), html.Value(strconv.Itoa(delta))),
		html.Button(
			html.ID(id),
			html.Type("submit"),
			gomponents.If(!enabled, html.Disabled()),
			gomponents.Text(label),
		),
	)
}

// DetailsPage shows one movie.
func DetailsPage(d *models.MovieDetails, imageBaseURL string) gomponents.Node {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	facts := []gomponents.Node{}
	if d.ReleaseDate != "" {
		facts = append(facts, html.Li(gomponents.Text("Released: "+d.ReleaseDate)))
	}
	if d.Runtime > 0 {
		facts = append(facts, html.Li(gomponents.Textf("Runtime: %d min", d.Runtime)))
	}
	if d.VoteAverage > 0 {
		facts = append(facts, html.Li(gomponents.Textf("Rating: %.1f", d.VoteAverage)))
	}
	if len(genres) > 0 {
		facts = append(facts, html.Li(gomponents.Text("Genres: "+strings.Join(genres, ", "))))
	}

	return layout(d.Title, "",
		html.Section(
			html.Class("details"),
			gomponents.If(d.PosterPath != "",
				html.Img(html.Class("movie-poster"), html.Src(strings.TrimRight(imageBaseURL, "/")+d.PosterPath), html.Alt(d.Title+" Poster")),
			),
			html.Div(
				html.H1(html.Class("page-title"), gomponents.Text(d.Title)),
				html.Ul(gomponents.Group(facts)),
				html.P(gomponents.Text(d.Overview)),
				html.A(html.Href("/page?delta=0"), gomponents.Text("<- Back to results")),
			),
		),
	)
}

func ErrorPage(title, message string) gomponents.Node {
	return layout(title, "",
		html.H1(html.Class("page-title"), gomponents.Text(title)),
		html.P(gomponents.Text(message)),
		html.P(html.A(html.Href("/"), gomponents.Text("Back to recommended"))),
	)
}
