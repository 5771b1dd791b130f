package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/solmercado/tienda-api/internal/constants"
)

const (
	// TaskSaleConfirmEmail mails the buyer a receipt after finalization.
	TaskSaleConfirmEmail = constants.TaskSaleConfirmEmail
	// TaskSaleStatusChanged notifies the buyer of an admin status change.
	TaskSaleStatusChanged = constants.TaskSaleStatusChanged
)

// SaleConfirmEmailPayload identifies the sale to confirm.
type SaleConfirmEmailPayload struct {
	SaleID uint `json:"id_venta"`
}

// SaleStatusChangedPayload carries a status transition.
type SaleStatusChangedPayload struct {
	SaleID uint   `json:"id_venta"`
	Status string `json:"estado"`
}

// NewSaleConfirmEmailTask builds the confirmation email task.
func NewSaleConfirmEmailTask(payload SaleConfirmEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSaleConfirmEmail, body), nil
}

// NewSaleStatusChangedTask builds the status change task.
func NewSaleStatusChangedTask(payload SaleStatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSaleStatusChanged, body), nil
}
