package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
)

type mockFeed struct {
	snapshots    chan domproduct.Snapshot
	fail         chan error
	subscribeErr error
}

func newMockFeed() *mockFeed {
	return &mockFeed{
		snapshots: make(chan domproduct.Snapshot),
		fail:      make(chan error, 1),
	}
}

func (m *mockFeed) Subscribe(ctx context.Context) (*domproduct.Subscription, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}
	return domproduct.Watch(ctx, func(ctx context.Context, emit func(domproduct.Snapshot)) error {
		for {
			select {
			case snap := <-m.snapshots:
				emit(snap)
			case err := <-m.fail:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}), nil
}

func at(ms int64) *time.Time {
	t := time.UnixMilli(ms)
	return &t
}

func newTestSync(t *testing.T, feed domproduct.Feed, pages ...*Page) *Sync {
	t.Helper()
	s, err := NewSync(feed, NewRenderer(), NewInjector(&mockLinker{}, ""), pages...)
	require.NoError(t, err)
	return s
}

func waitForState(t *testing.T, s *Sync, page string, grid int, want GridState) GridView {
	t.Helper()
	var view PageView
	require.Eventually(t, func() bool {
		v, ok := s.Page(page)
		if !ok {
			return false
		}
		view = v
		return v.Grids[grid].State == want
	}, time.Second, 5*time.Millisecond)
	return view.Grids[grid]
}

func TestApply_LimitKeepsNewest(t *testing.T) {
	s := newTestSync(t, newMockFeed(), &Page{
		Name:  "home",
		Grids: []*Grid{{Category: domproduct.CategoryRings, Limit: 2}},
	})

	var snap domproduct.Snapshot
	for i := 1; i <= 5; i++ {
		snap = append(snap, &domproduct.Product{
			ID:        fmt.Sprintf("p%d", i),
			Name:      fmt.Sprintf("Anillo %d", i),
			Category:  domproduct.CategoryRings,
			CreatedAt: at(int64(i)),
		})
	}
	s.Apply(snap)

	view, ok := s.Page("home")
	require.True(t, ok)
	grid := view.Grids[0]
	require.Equal(t, GridReady, grid.State)
	require.Len(t, grid.Cards, 2)
	require.Equal(t, "p5", grid.Cards[0].ID)
	require.Equal(t, "p4", grid.Cards[1].ID)
	require.NotNil(t, grid.Cards[0].Actions)
}

func TestApply_SortsAndPartitions(t *testing.T) {
	s := newTestSync(t, newMockFeed(), &Page{
		Name: "catalogo",
		Grids: []*Grid{
			{Category: domproduct.CategoryRings},
			{Category: domproduct.CategoryNecklaces},
		},
	})

	s.Apply(domproduct.Snapshot{
		{ID: "t1", Category: domproduct.CategoryRings, CreatedAt: at(5)},
		{ID: "t2", Category: domproduct.CategoryRings, CreatedAt: at(10)},
		{ID: "t3", Category: domproduct.CategoryRings},
		{ID: "n1", Category: domproduct.CategoryNecklaces},
		{ID: "x1", Category: "relojes", CreatedAt: at(99)},
	})

	view, _ := s.Page("catalogo")
	rings := view.Grids[0].Cards
	require.Equal(t, []string{"t2", "t1", "t3"}, []string{rings[0].ID, rings[1].ID, rings[2].ID})
	require.Len(t, view.Grids[1].Cards, 1)
	require.Equal(t, "n1", view.Grids[1].Cards[0].ID)
	for _, g := range view.Grids {
		for _, c := range g.Cards {
			require.NotEqual(t, "x1", c.ID, "unknown categories are never shown")
		}
	}
}

func TestApply_EmptyGrid(t *testing.T) {
	s := newTestSync(t, newMockFeed(), &Page{
		Name:  "home",
		Grids: []*Grid{{Category: domproduct.CategoryStuds}},
	})

	s.Apply(domproduct.Snapshot{{ID: "a", Category: domproduct.CategoryRings}})

	view, _ := s.Page("home")
	require.Equal(t, GridEmpty, view.Grids[0].State)
	require.Contains(t, string(view.Grids[0].HTML), "Aún no hay productos en broqueles de plata.")
	require.Len(t, view.Grids[0].Cards, 0)
}

func TestApply_PageCategoryFallback(t *testing.T) {
	s := newTestSync(t, newMockFeed(), &Page{
		Name:     "dijes",
		Category: domproduct.CategoryCharms,
		Grids:    []*Grid{{}},
	})

	s.Apply(domproduct.Snapshot{{ID: "d", Name: "Dije", Category: domproduct.CategoryCharms}})

	view, _ := s.Page("dijes")
	require.Len(t, view.Grids[0].Cards, 1)
	require.Equal(t, "dijes", view.Grids[0].Cards[0].Actions.Item.Category)
}

func TestNewSync_RejectsBadPages(t *testing.T) {
	_, err := NewSync(newMockFeed(), NewRenderer(), NewInjector(&mockLinker{}, ""),
		&Page{Name: "a", Grids: []*Grid{{Category: "relojes"}}})
	require.ErrorIs(t, err, domproduct.ErrUnknownCategory)

	_, err = NewSync(newMockFeed(), NewRenderer(), NewInjector(&mockLinker{}, ""), &Page{Name: "a"})
	require.ErrorIs(t, err, ErrNoGrids)

	p := &Page{Name: "a", Grids: []*Grid{{Category: domproduct.CategoryRings}}}
	_, err = NewSync(newMockFeed(), NewRenderer(), NewInjector(&mockLinker{}, ""), p, p)
	require.ErrorIs(t, err, ErrDuplicatePage)
}

func TestStart_LoadingThenSnapshot(t *testing.T) {
	feed := newMockFeed()
	s := newTestSync(t, feed, &Page{Name: "home", Grids: []*Grid{{Category: domproduct.CategoryRings}}})

	h, err := s.Start(context.Background())
	require.NoError(t, err)
	defer h.Stop()

	view, _ := s.Page("home")
	require.Equal(t, GridLoading, view.Grids[0].State)
	require.Contains(t, string(view.Grids[0].HTML), LoadingText)

	feed.snapshots <- domproduct.Snapshot{{ID: "a", Category: domproduct.CategoryRings}}
	grid := waitForState(t, s, "home", 0, GridReady)
	require.Equal(t, "a", grid.Cards[0].ID)

	feed.snapshots <- domproduct.Snapshot{}
	waitForState(t, s, "home", 0, GridEmpty)
}

func TestStart_FeedErrorShowsErrorEverywhere(t *testing.T) {
	feed := newMockFeed()
	s := newTestSync(t, feed,
		&Page{Name: "home", Grids: []*Grid{{Category: domproduct.CategoryRings}}},
		&Page{Name: "collares", Category: domproduct.CategoryNecklaces, Grids: []*Grid{{}}},
	)

	h, err := s.Start(context.Background())
	require.NoError(t, err)

	feed.fail <- errors.New("store unreachable")

	for _, name := range s.Pages() {
		grid := waitForState(t, s, name, 0, GridError)
		require.Contains(t, string(grid.HTML), "catalog-error")
	}
	h.Stop()
}

func TestStart_SubscribeErrorShowsError(t *testing.T) {
	feed := newMockFeed()
	feed.subscribeErr = errors.New("dial tcp: refused")
	s := newTestSync(t, feed, &Page{Name: "home", Grids: []*Grid{{Category: domproduct.CategoryRings}}})

	h, err := s.Start(context.Background())

	require.Error(t, err)
	require.Nil(t, h)
	view, _ := s.Page("home")
	require.Equal(t, GridError, view.Grids[0].State)
}

func TestStop_KeepsLastRendering(t *testing.T) {
	feed := newMockFeed()
	s := newTestSync(t, feed, &Page{Name: "home", Grids: []*Grid{{Category: domproduct.CategoryRings}}})

	h, err := s.Start(context.Background())
	require.NoError(t, err)
	feed.snapshots <- domproduct.Snapshot{{ID: "a", Category: domproduct.CategoryRings}}
	waitForState(t, s, "home", 0, GridReady)

	h.Stop()
	h.Stop()

	view, _ := s.Page("home")
	require.Equal(t, GridReady, view.Grids[0].State)
}
