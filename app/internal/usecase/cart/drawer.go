package cart

import (
	"context"
	"fmt"
	"sync"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

const EmptyMessage = "Tu carrito está vacío."

// LinkBuilder turns cart contents into a prefilled messaging deep link.
type LinkBuilder interface {
	Link(items []domcart.LineItem) string
}

type DrawerLine struct {
	Index int
	domcart.LineItem
}

// Label renders the line as "name × quantity".
func (l DrawerLine) Label() string {
	return fmt.Sprintf("%s × %d", l.Name, l.Quantity)
}

type DrawerView struct {
	Open         bool
	Empty        bool
	EmptyMessage string
	Items        []DrawerLine
	ShowCheckout bool
	Count        int
}

// Drawer is the cart overlay of one browser.
type Drawer struct {
	store *Store
	links LinkBuilder

	mu   sync.Mutex
	open bool
}

func NewDrawer(store *Store, links LinkBuilder) *Drawer {
	return &Drawer{store: store, links: links}
}

// Open shows the drawer with the current cart contents.
func (d *Drawer) Open(ctx context.Context) DrawerView {
	d.mu.Lock()
	d.open = true
	d.mu.Unlock()
	return d.render(ctx)
}

func (d *Drawer) Close() {
	d.mu.Lock()
	d.open = false
	d.mu.Unlock()
}

func (d *Drawer) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Remove drops one line and re-renders the drawer from the store.
func (d *Drawer) Remove(ctx context.Context, index int) (DrawerView, error) {
	if err := d.store.RemoveAt(ctx, index); err != nil {
		return DrawerView{}, err
	}
	return d.render(ctx), nil
}

// Checkout hands the cart off as a deep link, then empties the cart and
// closes the drawer. Delivery of the message is never confirmed.
func (d *Drawer) Checkout(ctx context.Context) (string, error) {
	items := d.store.Get(ctx)
	if len(items) == 0 {
		return "", domcart.ErrEmptyCart
	}

	link := d.links.Link(items)

	if err := d.store.Clear(ctx); err != nil {
		logx.Warn().Err(err).Msg("cart not cleared after checkout hand-off")
	}
	d.Close()

	return link, nil
}

func (d *Drawer) render(ctx context.Context) DrawerView {
	items := d.store.Get(ctx)
	view := DrawerView{
		Open:  d.IsOpen(),
		Count: domcart.Count(items),
		Items: make([]DrawerLine, 0, len(items)),
	}
	if len(items) == 0 {
		view.Empty = true
		view.EmptyMessage = EmptyMessage
		return view
	}

	for i, item := range items {
		view.Items = append(view.Items, DrawerLine{Index: i, LineItem: item})
	}
	view.ShowCheckout = true
	return view
}
