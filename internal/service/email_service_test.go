package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/solmercado/tienda-api/internal/config"
	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

func sampleSale() *models.Sale {
	total := models.NewMoneyFromDecimal(decimal.RequireFromString("50.99"))
	sub := models.NewMoneyFromDecimal(decimal.RequireFromString("35.00"))
	return &models.Sale{
		ID:         3,
		Total:      total,
		Status:     constants.SaleStatusCompleted,
		BuyerEmail: "ana@example.com",
		Items: []models.SaleItem{
			{ProductID: 1, Quantity: 2, Subtotal: sub},
		},
	}
}

func TestBuildSaleConfirmationContent(t *testing.T) {
	subject, body := buildSaleConfirmationContent(sampleSale())
	if subject != "Confirmación de compra #3" {
		t.Fatalf("unexpected subject: %q", subject)
	}
	if !strings.Contains(body, "Venta #3") || !strings.Contains(body, "50.99") {
		t.Fatalf("body missing sale details: %q", body)
	}
}

func TestBuildSaleStatusUpdateContent(t *testing.T) {
	subject, body := buildSaleStatusUpdateContent(sampleSale(), constants.SaleStatusShipped)
	if subject != "Actualización de tu pedido #3: Enviado" {
		t.Fatalf("unexpected subject: %q", subject)
	}
	if !strings.Contains(body, "Nuevo estado: Enviado") {
		t.Fatalf("body missing new status: %q", body)
	}
	if strings.Contains(body, "Gracias por tu compra") {
		t.Fatalf("status update must not reuse the purchase receipt: %q", body)
	}
}

func TestSendSaleStatusUpdateSkipsWithoutBuyerEmail(t *testing.T) {
	db := openTestDB(t, "email_status")
	sales := repository.NewSaleRepository(db)

	cart := &models.Cart{Status: constants.CartStatusConverted}
	if err := db.Create(cart).Error; err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	sale := &models.Sale{
		CartID:        cart.ID,
		Total:         models.NewMoneyFromDecimal(decimal.RequireFromString("15.99")),
		Status:        constants.SaleStatusCompleted,
		PaymentMethod: constants.PaymentMethodManual,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	emails := NewEmailService(config.EmailConfig{Enabled: true}, sales)
	if err := emails.SendSaleStatusUpdate(sale.ID, constants.SaleStatusShipped); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
}

func TestSendSaleStatusUpdateUnknownSale(t *testing.T) {
	db := openTestDB(t, "email_status_missing")
	emails := NewEmailService(config.EmailConfig{Enabled: true}, repository.NewSaleRepository(db))

	if err := emails.SendSaleStatusUpdate(999, constants.SaleStatusShipped); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}
