package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/cartstore"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/objectstore"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/persistence/memory"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/ratelimit"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/security"
	adminuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/admin"
	authuc "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/auth"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/catalog"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/checkout"
)

const (
	adminEmail    = "admin@annel.mx"
	adminPassword = "secreto123"
	shopNumber    = "5215512345678"
)

type testEnv struct {
	deps      Dependencies
	router    http.Handler
	products  *memory.ProductRepository
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	products := memory.NewProductRepository()
	users := memory.NewUserRepository()
	hasher := security.NewBcryptService(bcrypt.MinCost)
	hash, err := hasher.Hash(adminPassword)
	require.NoError(t, err)
	_, err = users.Create(ctx, &domuser.User{Name: "Annel", Email: adminEmail, PasswordHash: hash})
	require.NoError(t, err)

	handoff := checkout.NewHandoff(checkout.DefaultBaseURL, shopNumber, checkout.DefaultGreeting)
	sync, err := catalog.NewSync(products, catalog.NewRenderer(), catalog.NewInjector(handoff, catalog.DefaultAddPath),
		&catalog.Page{Name: "inicio", Grids: []*catalog.Grid{
			{Category: domproduct.CategoryRings, Limit: 2},
			{Category: domproduct.CategoryNecklaces, Limit: 2},
		}},
		&catalog.Page{Name: "anillos", Category: domproduct.CategoryRings, Grids: []*catalog.Grid{{}}},
	)
	require.NoError(t, err)
	handle, err := sync.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(handle.Stop)

	dir := t.TempDir()
	deps := Dependencies{
		Catalog:       sync,
		HomePage:      "inicio",
		Handoff:       handoff,
		CartStorage:   cartstore.NewMemory(time.Hour),
		CartCookie:    NewCartCookie("cart-secret", "cart_session", false, time.Hour),
		AuthService:   authuc.NewService(users, hasher, security.NewJWTService("test-secret", time.Hour), ratelimit.NewMemory(3, time.Minute)),
		Products:      products,
		Bucket:        objectstore.NewLocal(dir, "/uploads"),
		Sessions:      adminuc.NewRegistry(time.Hour),
		AdminCookie:   AdminCookie{Name: "admin_session", TTL: time.Hour},
		Health:        products,
		Uploads:       http.FileServer(http.Dir(dir)),
		UploadsPrefix: "/uploads",
	}

	return &testEnv{
		deps:      deps,
		router:    NewAPI(deps).Router(),
		products:  products,
		uploadDir: dir,
	}
}

// client replays the cookies the server hands out, like a browser.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, router: e.router, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return rec
}

func (c *client) json(method, target string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client(t).json(http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode(t, rec)["status"])
}

func TestHealth_StoreDown(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Health = failingPinger{}
	router := NewAPI(env.deps).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRejectsUnsupportedContentType(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader([]byte("<xml/>")))
	req.Header.Set("Content-Type", "application/xml")
	rec := env.client(t).do(req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHandleDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "Form validation", err: adminuc.ErrMissingFields, wantStatus: http.StatusUnprocessableEntity, wantMessage: "Completa nombre, precio y categoría."},
		{name: "Bad credentials", err: domuser.ErrInvalidCredential, wantStatus: http.StatusUnauthorized, wantMessage: "Correo o contraseña incorrectos."},
		{name: "Throttled", err: domuser.ErrTooManyRequests, wantStatus: http.StatusTooManyRequests},
		{name: "Missing login fields", err: domuser.ErrMissingFields, wantStatus: http.StatusBadRequest, wantMessage: "Indica email y contraseña."},
		{name: "Busy", err: adminuc.ErrBusy, wantStatus: http.StatusConflict},
		{name: "Wrapped not found", err: errors.Join(errors.New("update"), domproduct.ErrProductNotFound), wantStatus: http.StatusNotFound},
		{name: "Unexpected", err: errors.New("disk full"), wantStatus: http.StatusInternalServerError, wantMessage: internalMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			handleDomainError(rec, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMessage != "" {
				require.Equal(t, tt.wantMessage, decode(t, rec)["message"])
			}
		})
	}
}
