package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/media"
	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
	domuser "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/user"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/infra/logx"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/usecase/auth"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Upload is an image file sent with the product form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Form is the product form as submitted. Image is nil when no file was chosen.
type Form struct {
	Name        string
	Description string
	Price       string
	Category    string
	Image       *Upload
}

type Option func(*Controller)

// WithClock replaces time.Now for timestamps and upload names.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller runs the product management panel of one admin session. It
// follows the session's auth state and checks it again on every operation.
type Controller struct {
	session *auth.Session
	repo    domproduct.Repository
	bucket  media.Bucket
	now     func() time.Time
	ctx     context.Context

	busy atomic.Bool

	mu              sync.Mutex
	state           State
	editingID       string
	editingImageURL string
	products        []*domproduct.Product

	unsubscribe func()
}

// NewController attaches a controller to session. ctx bounds the list
// refresh that runs when the session becomes authenticated.
func NewController(ctx context.Context, session *auth.Session, repo domproduct.Repository, bucket media.Bucket, opts ...Option) *Controller {
	c := &Controller{
		session: session,
		repo:    repo,
		bucket:  bucket,
		now:     time.Now,
		ctx:     ctx,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.unsubscribe = session.OnAuthStateChanged(c.onAuthStateChanged)
	return c
}

func (c *Controller) onAuthStateChanged(u *domuser.User) {
	c.mu.Lock()
	if u == nil {
		c.state = Unauthenticated
		c.editingID, c.editingImageURL = "", ""
		c.products = nil
		c.mu.Unlock()
		return
	}
	c.state = Authenticated
	c.mu.Unlock()

	if err := c.Refresh(c.ctx); err != nil {
		logx.Error().Err(err).Str("session", c.session.ID()).Msg("load products after sign-in")
	}
}

// Close detaches the controller from its session.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Session() *auth.Session {
	return c.session
}

// Editing returns the id of the product being edited, if any.
func (c *Controller) Editing() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID, c.editingID != ""
}

// Products returns the cached list, newest first.
func (c *Controller) Products() []*domproduct.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*domproduct.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p.Clone())
	}
	return out
}

// Refresh reloads the product list from the store.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	products, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	domproduct.SortNewestFirst(products)

	c.mu.Lock()
	c.products = products
	c.mu.Unlock()
	return nil
}

// Submit creates a product, or updates the one being edited.
func (c *Controller) Submit(ctx context.Context, form Form) (*domproduct.Product, error) {
	if _, editing := c.Editing(); editing {
		return c.Update(ctx, form)
	}
	return c.Create(ctx, form)
}

func (c *Controller) Create(ctx context.Context, form Form) (*domproduct.Product, error) {
	release, err := c.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	fields, err := validate(form, true)
	if err != nil {
		return nil, err
	}

	now := c.now()
	fields.ImageURL, err = c.upload(ctx, form.Image, now)
	if err != nil {
		return nil, err
	}

	p, err := c.repo.Add(ctx, fields, now)
	if err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}
	c.refreshAfterWrite(ctx)
	return p, nil
}

// BeginEdit enters edit mode for id and returns the product to fill the form with.
func (c *Controller) BeginEdit(ctx context.Context, id string) (*domproduct.Product, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	p, err := c.find(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.editingID = p.ID
	c.editingImageURL = p.ImageURL
	c.mu.Unlock()
	return p, nil
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.editingID, c.editingImageURL = "", ""
	c.mu.Unlock()
}

// Update writes form over the product being edited. Without a new image
// the stored image URL is kept; a replaced image is not deleted.
func (c *Controller) Update(ctx context.Context, form Form) (*domproduct.Product, error) {
	release, err := c.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	c.mu.Lock()
	id, imageURL := c.editingID, c.editingImageURL
	c.mu.Unlock()
	if id == "" {
		return nil, ErrNotEditing
	}

	fields, err := validate(form, false)
	if err != nil {
		return nil, err
	}

	now := c.now()
	fields.ImageURL = imageURL
	if form.Image != nil {
		if fields.ImageURL, err = c.upload(ctx, form.Image, now); err != nil {
			return nil, err
		}
	}

	p, err := c.repo.Update(ctx, id, fields, now)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}

	c.CancelEdit()
	c.refreshAfterWrite(ctx)
	return p, nil
}

// Delete removes the product's image, then its document. A missing image is
// fine; any other storage failure leaves the document in place.
func (c *Controller) Delete(ctx context.Context, id string) error {
	release, err := c.acquire()
	if err != nil {
		return err
	}
	defer release()

	p, err := c.find(ctx, id)
	if err != nil {
		return err
	}

	if p.ImageURL != "" {
		if ref, ok := c.bucket.RefFromURL(p.ImageURL); ok {
			if err := c.bucket.Delete(ctx, ref); err != nil && !errors.Is(err, media.ErrObjectNotFound) {
				return fmt.Errorf("delete image of %s: %w", id, err)
			}
		} else {
			logx.Warn().Str("product_id", id).Str("image_url", p.ImageURL).Msg("image not managed by this bucket, left in place")
		}
	}

	if err := c.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	c.mu.Lock()
	kept := c.products[:0]
	for _, cached := range c.products {
		if cached.ID != id {
			kept = append(kept, cached)
		}
	}
	c.products = kept
	if c.editingID == id {
		c.editingID, c.editingImageURL = "", ""
	}
	c.mu.Unlock()

	c.refreshAfterWrite(ctx)
	return nil
}

func (c *Controller) acquire() (func(), error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { c.busy.Store(false) }, nil
}

func (c *Controller) requireAuth() error {
	if !c.session.IsAuthenticated() || c.State() != Authenticated {
		return domuser.ErrUnauthorized
	}
	return nil
}

func (c *Controller) find(ctx context.Context, id string) (*domproduct.Product, error) {
	c.mu.Lock()
	for _, p := range c.products {
		if p.ID == id {
			c.mu.Unlock()
			return p.Clone(), nil
		}
	}
	c.mu.Unlock()
	return c.repo.Get(ctx, id)
}

func (c *Controller) upload(ctx context.Context, img *Upload, now time.Time) (string, error) {
	if img == nil || !strings.HasPrefix(img.ContentType, "image/") {
		return "", ErrInvalidImage
	}

	ref, err := c.bucket.Upload(ctx, media.Object{
		Path:        UploadPath(img.Filename, now),
		Body:        img.Body,
		Size:        img.Size,
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	url, err := c.bucket.URL(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve image url: %w", err)
	}
	return url, nil
}

func (c *Controller) refreshAfterWrite(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		logx.Error().Err(err).Str("session", c.session.ID()).Msg("refresh products")
	}
}

// UploadPath names an uploaded image: productos/<unix millis>_<filename>,
// with every whitespace character of the filename replaced by "_".
func UploadPath(filename string, now time.Time) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf("%s/%d_%s", domproduct.Collection, now.UnixMilli(), clean)
}

func validate(form Form, imageRequired bool) (domproduct.Fields, error) {
	f := domproduct.Fields{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Price:       strings.TrimSpace(form.Price),
	}
	category := strings.TrimSpace(form.Category)
	if f.Name == "" || f.Price == "" || category == "" {
		return domproduct.Fields{}, ErrMissingFields
	}

	c, err := domproduct.ParseCategory(category)
	if err != nil {
		return domproduct.Fields{}, ErrInvalidCategory
	}
	f.Category = c

	if imageRequired && form.Image == nil {
		return domproduct.Fields{}, ErrInvalidImage
	}
	if form.Image != nil && !strings.HasPrefix(form.Image.ContentType, "image/") {
		return domproduct.Fields{}, ErrInvalidImage
	}
	return f, nil
}
