package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
	adminuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/admin"
	authuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/auth"
)

var errBadForm = errors.New("malformed product form")

type loginRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=128"`
}

type productFormRequest struct {
	Name        string `validate:"max=200"`
	Description string `validate:"max=2000"`
	Price       string `validate:"max=50"`
	Category    string `validate:"max=50"`
}

type productResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"nombre"`
	Description string     `json:"descripcion"`
	Price       string     `json:"precio"`
	Category    string     `json:"categoria"`
	ImageURL    string     `json:"imageUrl"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func mapProduct(p *domproduct.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category.String(),
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	session := authuc.NewSession(uuid.NewString())
	ctrl := adminuc.NewController(a.baseCtx, session, a.products, a.bucket)

	result, err := a.authSvc.SignIn(r.Context(), session, req.Email, req.Password)
	if err != nil {
		ctrl.Close()
		handleDomainError(w, err)
		return
	}
	a.sessions.Put(ctrl)

	http.SetCookie(w, &http.Cookie{
		Name:     a.adminCookie.Name,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(a.adminCookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.adminCookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"user": mapUser(result.User)})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(a.adminCookie.Name); err == nil {
		if claims, err := a.authSvc.ParseToken(cookie.Value); err == nil {
			if ctrl, ok := a.sessions.Get(claims.SessionID); ok {
				a.authSvc.SignOut(ctrl.Session())
			}
		}
	}
	a.clearAdminCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	ctrl, err := a.resolveController(r)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          mapUser(ctrl.Session().CurrentUser()),
	})
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r.Context())
	if err := ctrl.Refresh(r.Context()); err != nil {
		handleDomainError(w, err)
		return
	}

	products := ctrl.Products()
	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, mapProduct(p))
	}
	editing, _ := ctrl.Editing()
	writeJSON(w, http.StatusOK, map[string]any{"products": resp, "editing": editing})
}

// handleSubmitProduct creates a product, or updates the one in edit mode.
// The body is multipart with the fields nombre, descripcion, precio,
// categoria and an optional imagen file.
func (a *API) handleSubmitProduct(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r.Context())

	form, cleanup, err := a.parseProductForm(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	defer cleanup()

	_, editing := ctrl.Editing()
	p, err := ctrl.Submit(r.Context(), form)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	status, message := http.StatusCreated, adminuc.MsgCreated
	if editing {
		status, message = http.StatusOK, adminuc.MsgUpdated
	}
	writeJSON(w, status, map[string]any{"product": mapProduct(p), "message": message})
}

func (a *API) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r.Context())
	p, err := ctrl.BeginEdit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": mapProduct(p)})
}

func (a *API) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	controllerFrom(r.Context()).CancelEdit()
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r.Context())
	if err := ctrl.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": adminuc.MsgDeleted})
}

func (a *API) parseProductForm(w http.ResponseWriter, r *http.Request) (adminuc.Form, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return adminuc.Form{}, noop, errBadForm
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return adminuc.Form{}, noop, errBadForm
	}

	cleanup := func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logx.Warn().Err(err).Msg("remove multipart temp files")
		}
	}

	req := productFormRequest{
		Name:        r.FormValue("nombre"),
		Description: r.FormValue("descripcion"),
		Price:       r.FormValue("precio"),
		Category:    r.FormValue("categoria"),
	}
	if err := a.validator.Struct(req); err != nil {
		cleanup()
		return adminuc.Form{}, noop, err
	}

	form := adminuc.Form{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
	}

	file, header, err := r.FormFile("imagen")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return form, cleanup, nil
	case err != nil:
		cleanup()
		return adminuc.Form{}, noop, errBadForm
	}

	form.Image = &adminuc.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return form, func() {
		file.Close()
		cleanup()
	}, nil
}

func (a *API) clearAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.adminCookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.adminCookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
