package pagination_test

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"moviebrowse/internal/models"
	"moviebrowse/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renderCall struct {
	state pagination.State
	slice []models.Movie
	empty bool
}

type fakeRenderer struct {
	calls []renderCall
	err   error
}

func (f *fakeRenderer) RenderPage(state pagination.State, slice []models.Movie) error {
	f.calls = append(f.calls, renderCall{state: state, slice: slice})
	return f.err
}

func (f *fakeRenderer) RenderEmpty(state pagination.State) error {
	f.calls = append(f.calls, renderCall{state: state, empty: true})
	return f.err
}

func (f *fakeRenderer) last() renderCall {
	return f.calls[len(f.calls)-1]
}

func movies(n int) []models.Movie {
	out := make([]models.Movie, n)
	for i := range out {
		out[i] = models.Movie{ID: i + 1, Title: "m", PosterPath: "/p.jpg"}
	}
	return out
}

func TestController_FourteenRecordsScenario(t *testing.T) {
	r := &fakeRenderer{}
	c := pagination.New(12, r)
	records := movies(14)

	require.NoError(t, c.ReplaceResults(records))
	st := c.State()
	assert.Equal(t, 2, st.TotalPages)
	assert.Equal(t, 1, st.CurrentPage)
	assert.False(t, st.HasPrev)
	assert.True(t, st.HasNext)
	assert.Equal(t, records[0:12], r.last().slice)

	require.NoError(t, c.GoToPage(+1))
	assert.Equal(t, 2, c.State().CurrentPage)
	assert.Equal(t, records[12:14], r.last().slice)
	assert.True(t, r.last().state.HasPrev)
	assert.False(t, r.last().state.HasNext)

	require.NoError(t, c.GoToPage(+1))
	assert.Equal(t, 2, c.State().CurrentPage)
	assert.Equal(t, records[12:14], r.last().slice)
}

func TestController_PreviousAtFirstPageIsNoop(t *testing.T) {
	r := &fakeRenderer{}
	c := pagination.New(12, r)
	require.NoError(t, c.ReplaceResults(movies(30)))

	require.NoError(t, c.GoToPage(-1))
	assert.Equal(t, 1, c.State().CurrentPage)
	assert.Equal(t, movies(30)[0:12], r.last().slice)
}

func TestController_EmptyResults(t *testing.T) {
	r := &fakeRenderer{}
	c := pagination.New(12, r)

	require.NoError(t, c.ReplaceResults(nil))
	st := c.State()
	assert.Equal(t, 0, st.TotalPages)
	assert.Equal(t, 1, st.CurrentPage)
	assert.False(t, st.HasPrev)
	assert.False(t, st.HasNext)
	assert.True(t, r.last().empty)

	require.NoError(t, c.GoToPage(+1))
	assert.Equal(t, 1, c.State().CurrentPage)
	assert.True(t, r.last().empty)
}

func TestController_ReplaceResetsPage(t *testing.T) {
	c := pagination.New(12, nil)
	require.NoError(t, c.ReplaceResults(movies(40)))
	require.NoError(t, c.GoToPage(+1))
	require.NoError(t, c.GoToPage(+1))
	require.Equal(t, 3, c.State().CurrentPage)

	require.NoError(t, c.ReplaceResults(movies(40)))
	assert.Equal(t, 1, c.State().CurrentPage)
}

func TestController_PageNeverLeavesRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 50; trial++ {
		n := rng.IntN(60)
		c := pagination.New(12, nil)
		require.NoError(t, c.ReplaceResults(movies(n)))
		upper := pagination.PageCount(n, 12)

		for step := 0; step < 40; step++ {
			delta := 1
			if rng.IntN(2) == 0 {
				delta = -1
			}
			require.NoError(t, c.GoToPage(delta))
			page := c.State().CurrentPage
			assert.GreaterOrEqual(t, page, 1)
			assert.LessOrEqual(t, page, upper)
		}
	}
}

func TestController_StaleGenerationIsDropped(t *testing.T) {
	r := &fakeRenderer{}
	c := pagination.New(12, r)

	slow := c.Begin()
	fast := c.Begin()

	applied, err := c.Apply(fast, pagination.Origin{Source: "search", Query: "new"}, movies(3))
	require.NoError(t, err)
	assert.True(t, applied)

	calls := len(r.calls)
	applied, err = c.Apply(slow, pagination.Origin{Source: "search", Query: "old"}, movies(20))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 3, c.State().TotalItems)
	assert.Equal(t, "new", c.Origin().Query)
	assert.Len(t, r.calls, calls, "stale result must not render")
}

func TestController_RenderErrorPropagates(t *testing.T) {
	boom := errors.New("write failed")
	c := pagination.New(12, &fakeRenderer{err: boom})
	assert.ErrorIs(t, c.ReplaceResults(movies(2)), boom)
}

func TestController_SnapshotRoundTrip(t *testing.T) {
	c := pagination.New(12, nil)
	gen := c.Begin()
	_, err := c.Apply(gen, pagination.Origin{Source: "search", Query: "alien"}, movies(14))
	require.NoError(t, err)
	require.NoError(t, c.GoToPage(+1))

	restored := pagination.Restore(c.Snapshot(), 12, nil)
	assert.Equal(t, c.State(), restored.State())
	assert.Equal(t, pagination.Origin{Source: "search", Query: "alien"}, restored.Origin())
	assert.Equal(t, gen, restored.Generation())

	applied, err := restored.Apply(gen, pagination.Origin{}, movies(1))
	require.NoError(t, err)
	assert.True(t, applied, "generation survives restore")
}

func TestRestore_ClampsPage(t *testing.T) {
	c := pagination.Restore(pagination.Snapshot{Records: movies(5), Page: 9}, 12, nil)
	assert.Equal(t, 1, c.State().CurrentPage)
}

func TestNew_DefaultPageSize(t *testing.T) {
	c := pagination.New(0, nil)
	assert.Equal(t, pagination.DefaultPageSize, c.State().PageSize)
}

func TestController_ConcurrentNavigation(t *testing.T) {
	c := pagination.New(12, nil)
	require.NoError(t, c.ReplaceResults(movies(100)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(delta int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = c.GoToPage(delta)
			}
		}(1 - 2*(i%2))
	}
	wg.Wait()

	page := c.State().CurrentPage
	assert.GreaterOrEqual(t, page, 1)
	assert.LessOrEqual(t, page, 9)
}
