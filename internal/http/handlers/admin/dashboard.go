package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
)

// Dashboard answers the store summary: counts, completed revenue and the
// latest sales.
func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.DashboardService.Summary()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, summary)
}
