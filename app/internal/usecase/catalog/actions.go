package catalog

import (
	"time"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
)

// AddedConfirmation is how long an "add to cart" control stays disabled
// showing the added state.
const AddedConfirmation = 1500 * time.Millisecond

// AddedLabel replaces the add button's text while it is disabled.
const AddedLabel = "¡Agregado!"

const (
	DefaultAddPath = "/cart/items"
	addLabel       = "Agregar al carrito"
	confirmLabel   = AddedLabel
	buyLabel       = "Comprar por WhatsApp"
)

// ItemLinker builds the single-item "buy via message" link.
type ItemLinker interface {
	ItemLink(item domcart.LineItem) string
}

// Actions fills a card's action slot.
type Actions struct {
	Item          domcart.LineItem `json:"item"`
	AddPath       string           `json:"addPath"`
	ConfirmMillis int64            `json:"confirmMs"`
	BuyLink       string           `json:"buyLink"`
}

func (a *Actions) AddLabel() string     { return addLabel }
func (a *Actions) ConfirmLabel() string { return confirmLabel }
func (a *Actions) BuyLabel() string     { return buyLabel }

// Injector adds the cart and messaging controls to rendered cards.
type Injector struct {
	links   ItemLinker
	addPath string
}

func NewInjector(links ItemLinker, addPath string) *Injector {
	if addPath == "" {
		addPath = DefaultAddPath
	}
	return &Injector{links: links, addPath: addPath}
}

// Inject fills the action slot of every card in grid that has none yet.
// The category comes from the grid, or from the page when the grid has
// none. Cards whose category cannot be derived are left untouched.
func (inj *Injector) Inject(page *Page, grid *Grid, cards []*Card) int {
	category := categoryOf(page, grid)
	if category == "" {
		return 0
	}

	injected := 0
	for _, card := range cards {
		if card == nil || card.Actions != nil {
			continue
		}
		item := domcart.LineItem{
			Name:        card.Name,
			Description: card.Description,
			Price:       card.Price,
			Category:    string(category),
			Quantity:    1,
		}
		card.Actions = &Actions{
			Item:          item,
			AddPath:       inj.addPath,
			ConfirmMillis: AddedConfirmation.Milliseconds(),
			BuyLink:       inj.links.ItemLink(item),
		}
		injected++
	}
	return injected
}

func categoryOf(page *Page, grid *Grid) domproduct.Category {
	if grid != nil && grid.Category != "" {
		return grid.Category
	}
	if page != nil {
		return page.Category
	}
	return ""
}
