package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domcart "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/cart"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/media"
	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
	adminuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/admin"
	authuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/auth"
	cartuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/cart"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/catalog"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/checkout"
)

const (
	defaultMaxUploadBytes = 10 << 20
	multipartMemory       = 8 << 20

	internalMessage = "Ocurrió un error. Inténtalo de nuevo."
)

// HealthChecker reports whether the document store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// AdminCookie configures the cookie carrying the admin session token.
type AdminCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type API struct {
	catalog  *catalog.Sync
	homePage string
	handoff  *checkout.Handoff

	carts      domcart.Storage
	cartCookie *CartCookie

	authSvc     *authuc.Service
	products    domproduct.Repository
	bucket      media.Bucket
	sessions    *adminuc.Registry
	adminCookie AdminCookie
	baseCtx     context.Context

	health         HealthChecker
	uploads        http.Handler
	uploadsPrefix  string
	maxUploadBytes int64

	validator *validator.Validate
}

type Dependencies struct {
	Catalog  *catalog.Sync
	HomePage string
	Handoff  *checkout.Handoff

	CartStorage domcart.Storage
	CartCookie  *CartCookie

	AuthService *authuc.Service
	Products    domproduct.Repository
	Bucket      media.Bucket
	Sessions    *adminuc.Registry
	AdminCookie AdminCookie
	// Context bounds the background work of admin controllers. It defaults
	// to context.Background.
	Context context.Context

	Health HealthChecker
	// Uploads serves locally stored images under UploadsPrefix; nil when
	// images live in an object store.
	Uploads        http.Handler
	UploadsPrefix  string
	MaxUploadBytes int64
}

func NewAPI(deps Dependencies) *API {
	baseCtx := deps.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &API{
		catalog:        deps.Catalog,
		homePage:       deps.HomePage,
		handoff:        deps.Handoff,
		carts:          deps.CartStorage,
		cartCookie:     deps.CartCookie,
		authSvc:        deps.AuthService,
		products:       deps.Products,
		bucket:         deps.Bucket,
		sessions:       deps.Sessions,
		adminCookie:    deps.AdminCookie,
		baseCtx:        baseCtx,
		health:         deps.Health,
		uploads:        deps.Uploads,
		uploadsPrefix:  strings.TrimRight(deps.UploadsPrefix, "/"),
		maxUploadBytes: maxUpload,
		validator:      validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "application/x-www-form-urlencoded", "multipart/form-data"))

	r.Get("/health", a.handleHealth)

	if a.uploads != nil && a.uploadsPrefix != "" {
		r.Handle(a.uploadsPrefix+"/*", http.StripPrefix(a.uploadsPrefix, a.uploads))
	}

	r.Get("/", a.handleHome)
	r.Route("/catalog", func(cr chi.Router) {
		cr.Get("/", a.handleListPages)
		cr.Get("/{page}", a.handleGetPage)
	})

	r.Route("/cart", func(cr chi.Router) {
		cr.Use(a.cartSession)
		cr.Get("/", a.handleOpenDrawer)
		cr.Get("/count", a.handleCartCount)
		cr.Post("/items", a.handleAddCartItem)
		cr.Delete("/items/{index}", a.handleRemoveCartItem)
		cr.Delete("/", a.handleClearCart)
		cr.Post("/checkout", a.handleCheckout)
	})

	r.Route("/api/v1/admin", func(ar chi.Router) {
		ar.Post("/login", a.handleLogin)
		ar.Post("/logout", a.handleLogout)
		ar.Get("/session", a.handleSession)

		ar.Group(func(pr chi.Router) {
			pr.Use(a.adminSession)
			pr.Get("/products", a.handleListProducts)
			pr.Post("/products", a.handleSubmitProduct)
			pr.Delete("/products/edit", a.handleCancelEdit)
			pr.Post("/products/{id}/edit", a.handleBeginEdit)
			pr.Delete("/products/{id}", a.handleDeleteProduct)
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.health.Ping(ctx); err != nil {
			logx.Error().Err(err).Msg("document store ping failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

// wantsJSON reports whether the client talks JSON rather than submitting a
// plain HTML form.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func respondMessage(w http.ResponseWriter, status int, err error, message string) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Message: message})
}

func handleDomainError(w http.ResponseWriter, err error) {
	var validationErr *adminuc.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondMessage(w, http.StatusUnprocessableEntity, err, validationErr.Message)
	case domuser.CodeOf(err) != "":
		respondMessage(w, authStatus(domuser.CodeOf(err)), err, authuc.Message(err))
	case errors.Is(err, adminuc.ErrBusy),
		errors.Is(err, adminuc.ErrNotEditing):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domproduct.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domcart.ErrEmptyCart):
		respondMessage(w, http.StatusUnprocessableEntity, err, cartuc.EmptyMessage)
	default:
		logx.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Message: internalMessage})
	}
}

func authStatus(code domuser.Code) int {
	switch code {
	case domuser.CodeMissingFields, domuser.CodeInvalidEmail:
		return http.StatusBadRequest
	case domuser.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusUnauthorized
	}
}
