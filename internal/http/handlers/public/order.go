package public

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/service"
)

// SaveOrder creates a sale directly, without a payment session. The request
// lines drive a fresh cart that is finalized in one transaction. The sale is
// attributed to the token subject; a body id_persona naming someone else is
// refused.
func (h *Handler) SaveOrder(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil || claims.PersonID == 0 {
		response.Unauthorized(c, "token inválido")
		return
	}

	var req service.SaveSaleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}
	if req.PersonID != nil && *req.PersonID != claims.PersonID {
		response.Forbidden(c, "la venta no pertenece al usuario autenticado")
		return
	}
	personID := claims.PersonID
	req.PersonID = &personID
	if req.BuyerEmail == "" {
		req.BuyerEmail = claims.Email
	}

	sale, err := h.SaleService.SaveSale(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"id_venta":   sale.ID,
		"id_carrito": sale.CartID,
	})
}
