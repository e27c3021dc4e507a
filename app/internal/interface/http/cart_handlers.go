package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/cartstore"
	cartuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/cart"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/catalog"
)

var errInvalidIndex = errors.New("invalid cart line index")

type addCartItemRequest struct {
	Name        string `json:"nombre" validate:"required,max=200"`
	Description string `json:"descripcion" validate:"max=2000"`
	Price       string `json:"precio" validate:"max=50"`
	Category    string `json:"categoria" validate:"required,max=50"`
}

type drawerLineResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	domcart.LineItem
}

type drawerResponse struct {
	Open         bool                 `json:"open"`
	Empty        bool                 `json:"empty"`
	EmptyMessage string               `json:"emptyMessage,omitempty"`
	Items        []drawerLineResponse `json:"items"`
	ShowCheckout bool                 `json:"showCheckout"`
	Count        int                  `json:"count"`
}

func mapDrawer(v cartuc.DrawerView) drawerResponse {
	items := make([]drawerLineResponse, 0, len(v.Items))
	for _, line := range v.Items {
		items = append(items, drawerLineResponse{Index: line.Index, Label: line.Label(), LineItem: line.LineItem})
	}
	return drawerResponse{
		Open:         v.Open,
		Empty:        v.Empty,
		EmptyMessage: v.EmptyMessage,
		Items:        items,
		ShowCheckout: v.ShowCheckout,
		Count:        v.Count,
	}
}

// cartCountHeader carries the badge count on responses that change the cart.
const cartCountHeader = "X-Cart-Count"

// cartBadge records the count the store reports after each write.
type cartBadge struct {
	count   int
	changed bool
}

func (b *cartBadge) set(count int) {
	b.count = count
	b.changed = true
}

func (b *cartBadge) writeHeader(w http.ResponseWriter) {
	if b.changed {
		w.Header().Set(cartCountHeader, strconv.Itoa(b.count))
	}
}

// cartFor builds the store and drawer of the request's browser. Drawers are
// not kept between requests; the open flag only matters within one response.
func (a *API) cartFor(r *http.Request) (*cartuc.Store, *cartuc.Drawer, *cartBadge) {
	badge := &cartBadge{}
	store := cartuc.NewStore(cartstore.Scope(a.carts, cartID(r.Context())), badge.set)
	return store, cartuc.NewDrawer(store, a.handoff), badge
}

func (a *API) handleOpenDrawer(w http.ResponseWriter, r *http.Request) {
	_, drawer, _ := a.cartFor(r)
	writeJSON(w, http.StatusOK, mapDrawer(drawer.Open(r.Context())))
}

func (a *API) handleCartCount(w http.ResponseWriter, r *http.Request) {
	store, _, _ := a.cartFor(r)
	writeJSON(w, http.StatusOK, map[string]int{"count": store.Count(r.Context())})
}

// handleAddCartItem takes JSON from scripts, or the hidden form rendered
// into each product card.
func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if wantsJSON(r) {
		if err := a.decodeAndValidate(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
	} else {
		req = addCartItemRequest{
			Name:        r.PostFormValue("nombre"),
			Description: r.PostFormValue("descripcion"),
			Price:       r.PostFormValue("precio"),
			Category:    r.PostFormValue("categoria"),
		}
		if err := a.validator.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
	}

	store, _, badge := a.cartFor(r)
	err := store.Add(r.Context(), domcart.LineItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	badge.writeHeader(w)
	if !wantsJSON(r) {
		http.Redirect(w, r, withAddedFlag(backTo(r)), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"count":     badge.count,
		"confirmMs": catalog.AddedConfirmation.Milliseconds(),
	})
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, errInvalidIndex)
		return
	}

	_, drawer, badge := a.cartFor(r)
	drawer.Open(r.Context())
	view, err := drawer.Remove(r.Context(), index)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	badge.writeHeader(w)
	writeJSON(w, http.StatusOK, mapDrawer(view))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	store, _, badge := a.cartFor(r)
	if err := store.Clear(r.Context()); err != nil {
		handleDomainError(w, err)
		return
	}
	badge.writeHeader(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleCheckout hands the cart off to the messaging link. Form posts are
// redirected straight to it.
func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	_, drawer, badge := a.cartFor(r)
	link, err := drawer.Checkout(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	badge.writeHeader(w)

	if !wantsJSON(r) {
		http.Redirect(w, r, link, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": link})
}

// backTo is the page a form post returns to. Only same-site paths are used.
func backTo(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	if u, err := r.URL.Parse(ref); err == nil && (u.Host == "" || u.Host == r.Host) {
		if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
			return "/"
		}
		if u.RawQuery != "" {
			return u.Path + "?" + u.RawQuery
		}
		return u.Path
	}
	return "/"
}

// withAddedFlag marks target so the page shows the added confirmation.
func withAddedFlag(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(addedParam, "1")
	u.RawQuery = q.Encode()
	return u.String()
}
