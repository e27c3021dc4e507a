package catalog

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

var (
	ErrDuplicatePage = errors.New("catalog page already registered")
	ErrNoGrids       = errors.New("catalog page has no grids")
)

type GridState string

const (
	GridLoading GridState = "loading"
	GridReady   GridState = "ready"
	GridEmpty   GridState = "empty"
	GridError   GridState = "error"
)

// Grid is one category region of a page. Limit > 0 caps how many of the
// newest products it shows.
type Grid struct {
	Category domproduct.Category
	Limit    int

	state GridState
	html  template.HTML
	cards []*Card
}

// Page groups the grids shown together. Category is the page's implicit
// category, used by grids that do not name one.
type Page struct {
	Name     string
	Category domproduct.Category
	Grids    []*Grid
}

type GridView struct {
	Category domproduct.Category `json:"categoria"`
	Label    string              `json:"etiqueta"`
	State    GridState           `json:"estado"`
	HTML     template.HTML       `json:"html"`
	Cards    []Card              `json:"productos"`
}

type PageView struct {
	Name  string     `json:"nombre"`
	Grids []GridView `json:"grids"`
}

// Sync keeps the registered pages rendered from the live product feed. The
// feed goroutine is the only writer; readers take a snapshot with Page.
type Sync struct {
	feed     domproduct.Feed
	renderer *Renderer
	injector *Injector

	mu    sync.RWMutex
	pages map[string]*Page
	order []string
}

func NewSync(feed domproduct.Feed, renderer *Renderer, injector *Injector, pages ...*Page) (*Sync, error) {
	s := &Sync{
		feed:     feed,
		renderer: renderer,
		injector: injector,
		pages:    make(map[string]*Page, len(pages)),
	}
	for _, p := range pages {
		if _, ok := s.pages[p.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePage, p.Name)
		}
		if len(p.Grids) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoGrids, p.Name)
		}
		for _, g := range p.Grids {
			if !categoryOf(p, g).IsKnown() {
				return nil, fmt.Errorf("page %s: %w: %q", p.Name, domproduct.ErrUnknownCategory, categoryOf(p, g))
			}
		}
		s.pages[p.Name] = p
		s.order = append(s.order, p.Name)
	}
	return s, nil
}

// Handle stops a running sync.
type Handle struct {
	sub  *domproduct.Subscription
	done chan struct{}
	once sync.Once
}

// Stop unsubscribes from the feed and waits for the sync loop to exit. The
// last rendering stays in place.
func (h *Handle) Stop() {
	h.once.Do(func() {
		if h.sub != nil {
			h.sub.Unsubscribe()
		}
	})
	<-h.done
}

// Start paints the loading state into every grid and subscribes to the
// feed. If the subscription cannot be opened every grid shows the error
// state and the error is returned.
func (s *Sync) Start(ctx context.Context) (*Handle, error) {
	loading := s.renderer.Loading()
	s.paint(func(_ *Page, g *Grid) { g.set(GridLoading, loading, nil) })

	sub, err := s.feed.Subscribe(ctx)
	if err != nil {
		logx.Error().Err(err).Msg("subscribe to product feed")
		s.paintError()
		return nil, err
	}

	h := &Handle{sub: sub, done: make(chan struct{})}
	go s.run(sub, h.done)
	return h, nil
}

func (s *Sync) run(sub *domproduct.Subscription, done chan struct{}) {
	defer close(done)
	for {
		select {
		case snap := <-sub.Snapshots():
			s.Apply(snap)
		case <-sub.Done():
			if err := sub.Err(); err != nil {
				logx.Error().Err(err).Msg("product feed stopped")
				s.paintError()
			}
			return
		}
	}
}

// Apply renders snap into every grid of every page.
func (s *Sync) Apply(snap domproduct.Snapshot) {
	sorted := make([]*domproduct.Product, 0, len(snap))
	for _, p := range snap {
		if p != nil {
			sorted = append(sorted, p)
		}
	}
	domproduct.SortNewestFirst(sorted)

	s.paint(func(page *Page, grid *Grid) { s.renderGrid(page, grid, sorted) })
}

func (s *Sync) renderGrid(page *Page, grid *Grid, sorted []*domproduct.Product) {
	category := categoryOf(page, grid)
	list := domproduct.FilterCategory(sorted, category)
	if grid.Limit > 0 && len(list) > grid.Limit {
		list = list[:grid.Limit]
	}

	if len(list) == 0 {
		grid.set(GridEmpty, s.renderer.Empty(category), nil)
		return
	}

	cards := make([]*Card, 0, len(list))
	for _, p := range list {
		cards = append(cards, NewCard(p, category))
	}
	s.injector.Inject(page, grid, cards)

	html, err := s.renderer.Cards(cards)
	if err != nil {
		logx.Error().Err(err).Str("page", page.Name).Str("category", category.String()).Msg("render grid")
		grid.set(GridError, s.renderer.Error(), nil)
		return
	}
	grid.set(GridReady, html, cards)
}

func (s *Sync) paintError() {
	html := s.renderer.Error()
	s.paint(func(_ *Page, g *Grid) { g.set(GridError, html, nil) })
}

func (s *Sync) paint(fn func(*Page, *Grid)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range s.order {
		page := s.pages[name]
		for _, grid := range page.Grids {
			fn(page, grid)
		}
	}
}

// Page returns a copy of the current rendering of the named page.
func (s *Sync) Page(name string) (PageView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.pages[name]
	if !ok {
		return PageView{}, false
	}

	view := PageView{Name: page.Name, Grids: make([]GridView, 0, len(page.Grids))}
	for _, g := range page.Grids {
		category := categoryOf(page, g)
		gv := GridView{
			Category: category,
			Label:    category.Label(),
			State:    g.state,
			HTML:     g.html,
			Cards:    make([]Card, 0, len(g.cards)),
		}
		for _, c := range g.cards {
			gv.Cards = append(gv.Cards, *c)
		}
		view.Grids = append(view.Grids, gv)
	}
	return view, true
}

// Pages lists the registered page names in registration order.
func (s *Sync) Pages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

func (g *Grid) set(state GridState, html template.HTML, cards []*Card) {
	g.state = state
	g.html = html
	g.cards = cards
}
