package public

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/logger"
	"github.com/solmercado/tienda-api/internal/payment/stripe"
)

// PaymentWebhook receives provider events. A verified completed session
// finalizes its cart; every verified delivery is ACKed with {received: true}
// no matter what finalization did, so the provider stops retrying events we
// have already acted on.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warnw("webhook_body_read_failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}

	event, err := stripe.VerifyAndParseWebhook(h.StripeCfg, c.GetHeader("Stripe-Signature"), body, time.Now())
	if err != nil {
		logger.Warnw("webhook_verify_failed", "client_ip", c.ClientIP(), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	if !event.Completed() {
		logger.Infow("webhook_event_ignored", "event_type", event.EventType, "session_id", event.SessionID)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	sale, err := h.SaleService.FinalizeCheckoutSession(event.SessionID, event.CartID, event.CustomerEmail)
	if err != nil {
		// The ACK still goes out: retrying a failed finalization against
		// the same cart state cannot succeed, and the failure is logged
		// for the operator.
		logger.Errorw("webhook_finalize_failed",
			"session_id", event.SessionID,
			"carrito_id", event.CartID,
			"error", err,
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	logger.Infow("webhook_sale_finalized",
		"session_id", event.SessionID,
		"venta_id", sale.ID,
		"carrito_id", sale.CartID,
		"total", sale.Total.String(),
	)
	c.JSON(http.StatusOK, gin.H{"received": true})
}
