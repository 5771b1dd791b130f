package public

import (
	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
)

// CreateCartRequest optionally binds the new cart to a person.
type CreateCartRequest struct {
	PersonID *uint `json:"id_persona"`
}

// CreateCart opens a new active cart.
func (h *Handler) CreateCart(c *gin.Context) {
	var req CreateCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "cuerpo inválido")
			return
		}
	}
	cart, err := h.CartService.CreateCart(req.PersonID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, cart)
}

// GetCart returns a cart with its lines and products.
func (h *Handler) GetCart(c *gin.Context) {
	cartID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	cart, err := h.CartService.GetCart(cartID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddCartItemRequest adds a product to a cart.
type AddCartItemRequest struct {
	CartID    uint `json:"id_carrito" binding:"required"`
	ProductID uint `json:"id_producto" binding:"required"`
	Quantity  int  `json:"cantidad" binding:"required"`
}

// AddCartItem inserts a line or merges quantities into an existing one.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	item, err := h.CartService.AddItem(req.CartID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateCartItemRequest changes a line's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"cantidad" binding:"required"`
}

// UpdateCartItem replaces the quantity, answering 400 with stockDisponible
// when the product cannot cover it.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	item, err := h.CartService.UpdateItemQuantity(itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// RemoveCartItem deletes one line.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	itemID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart removes every line and marks the cart emptied.
func (h *Handler) ClearCart(c *gin.Context) {
	cartID, ok := parseUintParam(c, "cartId")
	if !ok {
		return
	}
	if err := h.CartService.ClearCart(cartID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true, "id_carrito": cartID})
}
