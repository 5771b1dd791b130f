package public

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/service"
)

// The auth middleware stores verified token claims under this key.
const claimsContextKey = "auth_claims"

// currentClaims reads the verified claims set by the auth middleware; nil
// when the route ran without it.
func currentClaims(c *gin.Context) *service.JWTClaims {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*service.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// respondServiceError maps service sentinels onto the response envelope.
// Stock shortfalls answer 400 with the available quantity in the body.
func respondServiceError(c *gin.Context, err error) {
	if stockErr, ok := service.AsStockInsufficient(err); ok {
		response.ErrorWithData(c, response.CodeBadRequest, "stock insuficiente", gin.H{
			"stockDisponible": stockErr.Available,
			"id_producto":     stockErr.ProductID,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, "datos inválidos")
	case errors.Is(err, service.ErrCartNotFound):
		response.NotFound(c, "carrito no encontrado")
	case errors.Is(err, service.ErrCartItemNotFound):
		response.NotFound(c, "detalle de carrito no encontrado")
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, "producto no encontrado")
	case errors.Is(err, service.ErrBrandNotFound):
		response.NotFound(c, "marca no encontrada")
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, "persona no encontrada")
	case errors.Is(err, service.ErrSaleNotFound):
		response.NotFound(c, "venta no encontrada")
	case errors.Is(err, service.ErrCartEmpty):
		response.BadRequest(c, "el carrito está vacío")
	case errors.Is(err, service.ErrCartNotActive):
		response.BadRequest(c, "el carrito no está activo")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, "el correo ya está registrado")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "credenciales inválidas")
	case errors.Is(err, service.ErrPaymentGateway):
		response.Internal(c, "error del proveedor de pagos")
	default:
		response.Internal(c, "error interno")
	}
}
