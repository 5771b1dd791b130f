// Package public holds the storefront handlers: catalog browsing, carts,
// checkout, the payment webhook and account registration/login.
package public

import "github.com/solmercado/tienda-api/internal/provider"

// Handler is the storefront handler entry point.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
