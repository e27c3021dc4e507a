package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
)

var ErrInvalidCartCookie = errors.New("invalid cart cookie")

// CartCookie signs the cart id kept in the browser so one shopper cannot
// address another shopper's cart.
type CartCookie struct {
	secret []byte
	name   string
	secure bool
	maxAge time.Duration
}

func NewCartCookie(secret, name string, secure bool, maxAge time.Duration) *CartCookie {
	return &CartCookie{secret: []byte(secret), name: name, secure: secure, maxAge: maxAge}
}

// Encode formats the cookie value as id.base64(hmac(id)).
func (c *CartCookie) Encode(id string) string {
	return id + "." + sign(c.secret, id)
}

func (c *CartCookie) Decode(v string) (string, error) {
	id, sig, ok := strings.Cut(v, ".")
	if !ok || id == "" || strings.Contains(sig, ".") {
		return "", ErrInvalidCartCookie
	}
	if !hmac.Equal([]byte(sign(c.secret, id)), []byte(sig)) {
		return "", ErrInvalidCartCookie
	}
	return id, nil
}

// Read returns the cart id of r, if it carries a valid cookie.
func (c *CartCookie) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	id, err := c.Decode(cookie.Value)
	if err != nil {
		return "", false
	}
	return id, true
}

func (c *CartCookie) Write(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    c.Encode(id),
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
