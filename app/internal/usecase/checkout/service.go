package checkout

import (
	"net/url"
	"strconv"
	"strings"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
)

const (
	DefaultBaseURL  = "https://wa.me"
	DefaultGreeting = "Hola, me interesa lo siguiente:"
)

// Handoff builds prefilled messaging deep links for a cart. Nothing is sent:
// the customer's messaging app opens the link and delivery is never confirmed.
type Handoff struct {
	BaseURL  string
	Number   string
	Greeting string
}

func NewHandoff(baseURL, number, greeting string) *Handoff {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &Handoff{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Number:   digitsOnly(number),
		Greeting: greeting,
	}
}

// Message formats items as a greeting line followed by one block per item.
func (h *Handoff) Message(items []domcart.LineItem) string {
	var b strings.Builder
	b.WriteString(h.Greeting)
	b.WriteString("\n\n")

	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		writeItem(&b, item)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Link returns the deep link carrying Message(items).
func (h *Handoff) Link(items []domcart.LineItem) string {
	return h.link(h.Message(items))
}

// ItemLink is the "buy via message" link of a single product, quantity one.
func (h *Handoff) ItemLink(item domcart.LineItem) string {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	return h.Link([]domcart.LineItem{item})
}

// link percent-encodes text; spaces become %20, never "+".
func (h *Handoff) link(text string) string {
	return h.BaseURL + "/" + h.Number + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func writeItem(b *strings.Builder, item domcart.LineItem) {
	b.WriteString("• ")
	b.WriteString(item.Name)
	if item.Category != "" {
		b.WriteString(" (")
		b.WriteString(item.Category)
		b.WriteString(")")
	}
	b.WriteString("\n")

	if d := strings.TrimSpace(item.Description); d != "" {
		b.WriteString(d)
		b.WriteString("\n")
	}
	if item.Price != "" {
		b.WriteString("Precio: ")
		b.WriteString(item.Price)
		b.WriteString("\n")
	}
	b.WriteString("Cantidad: ")
	b.WriteString(strconv.Itoa(item.Quantity))
	b.WriteString("\n")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
