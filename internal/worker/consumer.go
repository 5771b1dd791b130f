package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"

	"github.com/solmercado/tienda-api/internal/logger"
	"github.com/solmercado/tienda-api/internal/provider"
	"github.com/solmercado/tienda-api/internal/queue"
	"github.com/solmercado/tienda-api/internal/service"
)

// Consumer handles queued sale notification tasks.
type Consumer struct {
	*provider.Container
}

func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task types to their handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSaleConfirmEmail, c.handleSaleConfirmEmail)
	mux.HandleFunc(queue.TaskSaleStatusChanged, c.handleSaleStatusChanged)
}

func (c *Consumer) handleSaleConfirmEmail(_ context.Context, task *asynq.Task) error {
	var payload queue.SaleConfirmEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_sale_confirm_unmarshal_failed", "error", err)
		return err
	}
	if payload.SaleID == 0 {
		logger.Debugw("worker_sale_confirm_skip_invalid_payload")
		return nil
	}

	err := c.EmailService.SendSaleConfirmation(payload.SaleID)
	switch {
	case err == nil:
		logger.Infow("worker_sale_confirm_sent", "venta_id", payload.SaleID)
		return nil
	case errors.Is(err, service.ErrEmailDisabled), errors.Is(err, service.ErrEmailNotConfigured):
		logger.Debugw("worker_sale_confirm_skip_email_off", "venta_id", payload.SaleID)
		return nil
	case errors.Is(err, service.ErrSaleNotFound), errors.Is(err, service.ErrInvalidEmail):
		// No retry can fix these.
		logger.Warnw("worker_sale_confirm_skip", "venta_id", payload.SaleID, "error", err)
		return nil
	default:
		logger.Warnw("worker_sale_confirm_failed", "venta_id", payload.SaleID, "error", err)
		return err
	}
}

func (c *Consumer) handleSaleStatusChanged(_ context.Context, task *asynq.Task) error {
	var payload queue.SaleStatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_sale_status_unmarshal_failed", "error", err)
		return err
	}
	if payload.SaleID == 0 {
		return nil
	}

	err := c.EmailService.SendSaleStatusUpdate(payload.SaleID, payload.Status)
	switch {
	case err == nil:
		logger.Infow("worker_sale_status_notified", "venta_id", payload.SaleID, "estado", payload.Status)
		return nil
	case errors.Is(err, service.ErrEmailDisabled), errors.Is(err, service.ErrEmailNotConfigured),
		errors.Is(err, service.ErrSaleNotFound), errors.Is(err, service.ErrInvalidEmail):
		return nil
	default:
		return err
	}
}
