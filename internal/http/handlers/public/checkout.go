package public

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
)

// CheckoutFormData carries the buyer contact details entered at checkout.
type CheckoutFormData struct {
	Email     string `json:"correo"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
}

// CreateCheckoutSessionRequest opens a payment session for a cart. The
// server rebuilds the line items from the stored cart; client-sent items,
// shipping and tax figures are ignored.
type CreateCheckoutSessionRequest struct {
	CartID   uint             `json:"carritoId" binding:"required"`
	FormData CheckoutFormData `json:"formData"`
}

// CreateCheckoutSession answers the session id and redirect URL.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}

	buyerName := req.FormData.FirstName
	if req.FormData.LastName != "" {
		if buyerName != "" {
			buyerName += " "
		}
		buyerName += req.FormData.LastName
	}

	session, err := h.CheckoutService.CreateSession(c.Request.Context(), req.CartID, req.FormData.Email, buyerName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	// The storefront's redirect helper reads {id, url} at the top level.
	c.JSON(http.StatusOK, session)
}
