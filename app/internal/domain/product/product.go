package product

import (
	"sort"
	"strings"
	"time"
)

// Collection is the name of the document collection holding the catalog.
const Collection = "productos"

type Product struct {
	ID          string
	Name        string
	Description string
	// Price is shown as typed by the admin; no currency arithmetic is done on it.
	Price     string
	Category  Category
	ImageURL  string
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Fields is the writable part of a product document.
type Fields struct {
	Name        string
	Description string
	Price       string
	Category    Category
	ImageURL    string
}

// Category is the key a product is filed under. Only the keys in
// Categories are rendered anywhere.
type Category string

const (
	CategoryRings     Category = "anillos"
	CategoryNecklaces Category = "collares"
	CategoryEarrings  Category = "pendientes"
	CategoryBracelets Category = "pulseras"
	CategoryHoops     Category = "arracadas"
	CategoryCharms    Category = "dijes"
	CategoryChains    Category = "cadenas"
	CategoryStuds     Category = "broqueles"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryRings,
	CategoryNecklaces,
	CategoryEarrings,
	CategoryBracelets,
	CategoryHoops,
	CategoryCharms,
	CategoryChains,
	CategoryStuds,
}

var placeholders = map[Category]string{
	CategoryRings:     "◆",
	CategoryNecklaces: "◇",
	CategoryEarrings:  "○",
	CategoryBracelets: "▣",
	CategoryHoops:     "○",
	CategoryCharms:    "◆",
	CategoryChains:    "◇",
	CategoryStuds:     "◆",
}

var labels = map[Category]string{
	CategoryStuds: "broqueles de plata",
}

func (c Category) IsKnown() bool {
	_, ok := placeholders[c]
	return ok
}

// Placeholder returns the glyph shown behind a product image.
func (c Category) Placeholder() string {
	if g, ok := placeholders[c]; ok {
		return g
	}
	return "◆"
}

// Label is the human readable name used in empty-state messages.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory normalises s and checks it against the known set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsKnown() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

// CreatedMillis returns the creation time in milliseconds, or zero when the
// document has no timestamp.
func (p *Product) CreatedMillis() int64 {
	if p == nil || p.CreatedAt == nil {
		return 0
	}
	return p.CreatedAt.UnixMilli()
}

// SortNewestFirst orders products by creation time, newest first. Products
// without a timestamp sort as the oldest. Ties keep their input order.
func SortNewestFirst(products []*Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedMillis() > products[j].CreatedMillis()
	})
}

// FilterCategory returns the products whose category equals c exactly.
func FilterCategory(products []*Product, c Category) []*Product {
	var out []*Product
	for _, p := range products {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of p.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cloned := *p
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		cloned.CreatedAt = &t
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		cloned.UpdatedAt = &t
	}
	return &cloned
}
