// Package admin holds the back-office handlers: catalog and account
// management, sale tracking and the dashboard. Every route behind it
// requires the administrator role.
package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/provider"
	"github.com/solmercado/tienda-api/internal/service"
)

// Handler is the back-office handler entry point.
type Handler struct {
	*provider.Container
}

// New creates the back-office handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
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

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func respondServiceError(c *gin.Context, err error) {
	if stockErr, ok := service.AsStockInsufficient(err); ok {
		response.ErrorWithData(c, response.CodeBadRequest, "stock insuficiente", gin.H{
			"stockDisponible": stockErr.Available,
			"id_producto":     stockErr.ProductID,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, "datos inválidos")
	case errors.Is(err, service.ErrProductNotFound):
		response.NotFound(c, "producto no encontrado")
	case errors.Is(err, service.ErrBrandNotFound):
		response.NotFound(c, "marca no encontrada")
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, "persona no encontrada")
	case errors.Is(err, service.ErrSaleNotFound):
		response.NotFound(c, "venta no encontrada")
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, "el correo ya está registrado")
	case errors.Is(err, service.ErrBrandInUse):
		response.Conflict(c, "la marca tiene productos asociados")
	default:
		response.Internal(c, "error interno")
	}
}
