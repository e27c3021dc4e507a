package http

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/catalog"
)

var errPageNotFound = errors.New("catalog page not found")

// addedParam flags a page reached right after a form post added an item.
const addedParam = "agregado"

type pageDocument struct {
	catalog.PageView
	Added string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Joyería Annel</title></head>
<body>
<main data-page="{{.Name}}">
{{with .Added}}<p class="cart-added" role="status"><button type="button" class="add-to-cart" disabled>{{.}}</button></p>
{{end}}{{range .Grids}}<section class="product-grid" data-category="{{.Category}}" data-state="{{.State}}">{{.HTML}}</section>
{{end}}</main>
</body>
</html>
`))

func (a *API) handleHome(w http.ResponseWriter, r *http.Request) {
	a.servePage(w, r, a.homePage)
}

func (a *API) handleListPages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"pages": a.catalog.Pages()})
}

func (a *API) handleGetPage(w http.ResponseWriter, r *http.Request) {
	a.servePage(w, r, chi.URLParam(r, "page"))
}

// servePage answers with the page's current rendering: JSON for API clients,
// a complete HTML document otherwise.
func (a *API) servePage(w http.ResponseWriter, r *http.Request, name string) {
	view, ok := a.catalog.Page(name)
	if !ok {
		respondError(w, http.StatusNotFound, errPageNotFound)
		return
	}

	if wantsJSON(r) || r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, view)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	doc := pageDocument{PageView: view}
	if r.URL.Query().Get(addedParam) != "" {
		doc.Added = catalog.AddedLabel
	}
	if err := pageTemplate.Execute(w, doc); err != nil {
		logx.Error().Err(err).Str("page", name).Msg("render catalog page")
	}
}
