package catalog

import (
	"bytes"
	"html/template"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
)

// Card is one rendered product. Actions stays nil until the injector fills it.
type Card struct {
	ID          string              `json:"id"`
	Name        string              `json:"nombre"`
	Description string              `json:"descripcion"`
	Price       string              `json:"precio"`
	Category    domproduct.Category `json:"categoria"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	Actions     *Actions            `json:"acciones,omitempty"`
}

// NewCard builds the card of p as shown in a grid of category c.
func NewCard(p *domproduct.Product, c domproduct.Category) *Card {
	return &Card{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    c,
		ImageURL:    p.ImageURL,
	}
}

func (c *Card) Placeholder() string {
	return c.Category.Placeholder()
}

const (
	LoadingText = "Cargando catálogo…"
	ErrorText   = "No se pudo cargar el catálogo. Inténtalo de nuevo más tarde."
)

const templates = `
{{define "card"}}<article class="product-card product-available" data-product-id="{{.ID}}">
  <div class="product-image">
    <div class="product-placeholder" aria-hidden="true">{{.Placeholder}}</div>
    {{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.Name}}" onerror="this.style.display='none'">{{end}}
  </div>
  <div class="product-info">
    <h3>{{.Name}}</h3>
    <p class="product-desc">{{.Description}}</p>
    <p class="product-price">{{.Price}}</p>
    <div class="product-actions" data-product-actions>{{with .Actions}}{{template "actions" .}}{{end}}</div>
  </div>
</article>
{{end}}

{{define "actions"}}<form method="post" action="{{.AddPath}}" class="add-to-cart" data-confirm-ms="{{.ConfirmMillis}}" data-confirm-label="{{.ConfirmLabel}}">
  <input type="hidden" name="nombre" value="{{.Item.Name}}">
  <input type="hidden" name="descripcion" value="{{.Item.Description}}">
  <input type="hidden" name="precio" value="{{.Item.Price}}">
  <input type="hidden" name="categoria" value="{{.Item.Category}}">
  <button type="submit" class="btn-small">{{.AddLabel}}</button>
</form>
<a class="btn-small btn-message" href="{{.BuyLink}}" target="_blank" rel="noopener">{{.BuyLabel}}</a>{{end}}

{{define "cards"}}{{range .}}{{template "card" .}}{{end}}{{end}}

{{define "loading"}}<p class="catalog-loading">{{.}}</p>{{end}}

{{define "empty"}}<p class="catalog-empty">Aún no hay productos en {{.}}.</p>{{end}}

{{define "error"}}<p class="catalog-error">{{.}}</p>{{end}}
`

// Renderer turns cards into HTML fragments. Every text field goes through
// html/template's contextual escaping.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("catalog").Parse(templates))}
}

func (r *Renderer) Card(c *Card) (template.HTML, error) {
	return r.execute("card", c)
}

// Cards renders a whole grid body.
func (r *Renderer) Cards(cards []*Card) (template.HTML, error) {
	return r.execute("cards", cards)
}

func (r *Renderer) Loading() template.HTML {
	return r.mustExecute("loading", LoadingText)
}

// Empty is shown in a grid with no matching products.
func (r *Renderer) Empty(c domproduct.Category) template.HTML {
	return r.mustExecute("empty", c.Label())
}

func (r *Renderer) Error() template.HTML {
	return r.mustExecute("error", ErrorText)
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) mustExecute(name string, data any) template.HTML {
	out, err := r.execute(name, data)
	if err != nil {
		logx.Error().Err(err).Str("template", name).Msg("render catalog fragment")
	}
	return out
}
