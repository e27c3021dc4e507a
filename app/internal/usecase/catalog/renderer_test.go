package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domproduct "github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/product"
)

func TestRenderCard_EscapesUntrustedText(t *testing.T) {
	r := NewRenderer()
	card := &Card{
		Name:        "<b>Anillo</b>",
		Description: `<script>alert("x")</script>`,
		Price:       "<i>$450</i>",
		Category:    domproduct.CategoryRings,
		ImageURL:    "https://cdn.example.com/a.jpg",
	}

	html, err := r.Card(card)
	require.NoError(t, err)

	out := string(html)
	require.NotContains(t, out, "<b>")
	require.NotContains(t, out, "<script>")
	require.NotContains(t, out, "<i>")
	require.Contains(t, out, "&lt;b&gt;Anillo&lt;/b&gt;")
	require.Contains(t, out, "&lt;i&gt;$450&lt;/i&gt;")
	require.Contains(t, out, `alt="&lt;b&gt;Anillo&lt;/b&gt;"`)
}

func TestRenderCard_ImageOnlyWhenPresent(t *testing.T) {
	r := NewRenderer()

	withImage, err := r.Card(&Card{Name: "A", Category: domproduct.CategoryRings, ImageURL: "/uploads/productos/1_a.jpg"})
	require.NoError(t, err)
	require.Contains(t, string(withImage), `src="/uploads/productos/1_a.jpg"`)
	require.Contains(t, string(withImage), "onerror=")

	without, err := r.Card(&Card{Name: "A", Category: domproduct.CategoryRings})
	require.NoError(t, err)
	require.NotContains(t, string(without), "<img")
	require.Contains(t, string(without), "◆")
}

func TestRenderCard_RejectsScriptURL(t *testing.T) {
	r := NewRenderer()

	html, err := r.Card(&Card{Name: "A", Category: domproduct.CategoryRings, ImageURL: "javascript:alert(1)"})

	require.NoError(t, err)
	require.NotContains(t, string(html), "javascript:alert")
}

func TestRenderCard_EmptyActionSlot(t *testing.T) {
	html, err := NewRenderer().Card(&Card{Name: "A", Category: domproduct.CategoryRings})

	require.NoError(t, err)
	require.Contains(t, string(html), "<div class=\"product-actions\" data-product-actions></div>")
}

func TestRenderStates(t *testing.T) {
	r := NewRenderer()

	require.Contains(t, string(r.Loading()), LoadingText)
	require.Contains(t, string(r.Error()), "catalog-error")
	require.Contains(t, string(r.Empty(domproduct.CategoryStuds)), "Aún no hay productos en broqueles de plata.")
	require.True(t, strings.HasPrefix(string(r.Empty(domproduct.CategoryRings)), `<p class="catalog-empty">`))
}
