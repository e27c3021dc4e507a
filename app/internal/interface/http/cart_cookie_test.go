package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCartCookie_EncodeDecode(t *testing.T) {
	codec := NewCartCookie("secret", "cart_session", true, time.Hour)

	id, err := codec.Decode(codec.Encode("abc-123"))

	require.NoError(t, err)
	require.Equal(t, "abc-123", id)
}

func TestCartCookie_RejectsTampering(t *testing.T) {
	codec := NewCartCookie("secret", "cart_session", true, time.Hour)
	other := NewCartCookie("other-secret", "cart_session", true, time.Hour)

	for _, v := range []string{
		"",
		"abc-123",
		".sig",
		"abc-123.forged",
		codec.Encode("abc-123") + ".extra",
		other.Encode("abc-123"),
	} {
		_, err := codec.Decode(v)
		require.ErrorIs(t, err, ErrInvalidCartCookie, v)
	}
}

func TestCartCookie_WriteRead(t *testing.T) {
	codec := NewCartCookie("secret", "cart_session", true, time.Hour)
	rec := httptest.NewRecorder()

	codec.Write(rec, "abc-123")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
	require.Equal(t, 3600, cookies[0].MaxAge)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	id, ok := codec.Read(req)
	require.True(t, ok)
	require.Equal(t, "abc-123", id)
}
