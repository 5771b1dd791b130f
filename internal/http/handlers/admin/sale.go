package admin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/http/response"
	"github.com/solmercado/tienda-api/internal/logger"
	"github.com/solmercado/tienda-api/internal/queue"
	"github.com/solmercado/tienda-api/internal/repository"
)

func (h *Handler) ListSales(c *gin.Context) {
	filter := repository.SaleListFilter{
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 20),
		Status:     c.Query("estado"),
		BuyerEmail: c.Query("correo"),
	}
	if personID := queryInt(c, "id_persona", 0); personID > 0 {
		filter.PersonID = uint(personID)
	}
	if from := c.Query("desde"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			filter.CreatedFrom = &parsed
		}
	}
	if to := c.Query("hasta"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			end := parsed.Add(24 * time.Hour)
			filter.CreatedTo = &end
		}
	}

	sales, total, err := h.SaleService.ListSales(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, sales, response.NewPagination(filter.Page, filter.PageSize, total))
}

func (h *Handler) GetSale(c *gin.Context) {
	saleID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	sale, err := h.SaleService.GetSale(saleID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, sale)
}

// UpdateSaleStatusRequest carries the target state.
type UpdateSaleStatusRequest struct {
	Status string `json:"estado" binding:"required"`
}

// UpdateSaleStatus applies a status transition and queues the buyer
// notification.
func (h *Handler) UpdateSaleStatus(c *gin.Context) {
	saleID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "cuerpo inválido")
		return
	}

	sale, err := h.SaleService.UpdateSaleStatus(saleID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if h.QueueClient != nil {
		if err := h.QueueClient.EnqueueSaleStatusChanged(queue.SaleStatusChangedPayload{
			SaleID: sale.ID,
			Status: sale.Status,
		}); err != nil {
			logger.Warnw("sale_status_enqueue_failed", "venta_id", sale.ID, "error", err)
		}
	}
	response.Success(c, sale)
}
