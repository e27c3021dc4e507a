package cart

// StorageKey is the single key the serialized cart lives under.
const StorageKey = "cart"

// LineItem is one row of the cart. Its fields are copies of what the
// shopper saw on the product card.
type LineItem struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Price       string `json:"precio"`
	Category    string `json:"categoria"`
	Quantity    int    `json:"cantidad"`
}

// SameLine reports whether two items merge into one line: name and
// category must match exactly.
func (i LineItem) SameLine(other LineItem) bool {
	return i.Name == other.Name && i.Category == other.Category
}

// Count is the sum of quantities.
func Count(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
