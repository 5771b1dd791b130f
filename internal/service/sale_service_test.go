package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

type notifierRecorder struct {
	saleIDs []uint
	err     error
}

func (n *notifierRecorder) NotifySaleFinalized(saleID uint) error {
	n.saleIDs = append(n.saleIDs, saleID)
	return n.err
}

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Person{}, &models.Brand{}, &models.Product{},
		&models.Cart{}, &models.CartItem{}, &models.Sale{}, &models.SaleItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newSaleFixture(t *testing.T, name string) (*gorm.DB, *SaleService, *CartService, *notifierRecorder) {
	t.Helper()
	db := openTestDB(t, name)
	sales := repository.NewSaleRepository(db)
	carts := repository.NewCartRepository(db)
	products := repository.NewProductRepository(db)
	persons := repository.NewPersonRepository(db)
	notifier := &notifierRecorder{}
	saleService := NewSaleService(db, sales, carts, products, persons,
		decimal.RequireFromString("15.99"), notifier)
	cartService := NewCartService(db, carts, products)
	return db, saleService, cartService, notifier
}

func createTestProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  name,
		Price: models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		Stock: stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func cartWithTwoLines(t *testing.T, db *gorm.DB, cartService *CartService) (*models.Cart, *models.Product, *models.Product) {
	t.Helper()
	p1 := createTestProduct(t, db, "Teclado", "10.00", 5)
	p2 := createTestProduct(t, db, "Mouse", "15.00", 5)
	cart, err := cartService.CreateCart(nil)
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := cartService.AddItem(cart.ID, p1.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if _, err := cartService.AddItem(cart.ID, p2.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	return cart, p1, p2
}

func TestFinalizeCheckoutSession(t *testing.T) {
	db, saleService, cartService, notifier := newSaleFixture(t, "finalize_ok")
	cart, p1, p2 := cartWithTwoLines(t, db, cartService)

	sale, err := saleService.FinalizeCheckoutSession("cs_test_123", cart.ID, "ana@example.com")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	// 2 x 10.00 + 1 x 15.00 + 15.99 shipping
	if !sale.Total.Decimal.Equal(decimal.RequireFromString("50.99")) {
		t.Fatalf("expected total 50.99, got %s", sale.Total.String())
	}
	if sale.Status != constants.SaleStatusCompleted {
		t.Fatalf("expected Completado, got %s", sale.Status)
	}
	if sale.PaymentSessionID == nil || *sale.PaymentSessionID != "cs_test_123" {
		t.Fatalf("expected session id on sale, got %+v", sale.PaymentSessionID)
	}
	if sale.PersonID != nil {
		t.Fatalf("expected guest sale, got person %v", *sale.PersonID)
	}

	var items []models.SaleItem
	if err := db.Where("id_venta = ?", sale.ID).Find(&items).Error; err != nil {
		t.Fatalf("load sale items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 sale items, got %d", len(items))
	}

	var gotP1 models.Product
	if err := db.First(&gotP1, p1.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if gotP1.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", gotP1.Stock)
	}
	var gotP2 models.Product
	if err := db.First(&gotP2, p2.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if gotP2.Stock != 4 {
		t.Fatalf("expected stock 4, got %d", gotP2.Stock)
	}

	var gotCart models.Cart
	if err := db.First(&gotCart, cart.ID).Error; err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if gotCart.Status != constants.CartStatusConverted {
		t.Fatalf("expected convertido, got %s", gotCart.Status)
	}
	var lineCount int64
	db.Model(&models.CartItem{}).Where("id_carrito = ?", cart.ID).Count(&lineCount)
	if lineCount != 0 {
		t.Fatalf("expected cart lines cleared, got %d", lineCount)
	}

	if len(notifier.saleIDs) != 1 || notifier.saleIDs[0] != sale.ID {
		t.Fatalf("expected one notification for sale %d, got %v", sale.ID, notifier.saleIDs)
	}
}

func TestFinalizeCheckoutSessionResolvesPerson(t *testing.T) {
	db, saleService, cartService, _ := newSaleFixture(t, "finalize_person")
	person := &models.Person{
		FirstName:    "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Role:         constants.RoleCustomer,
	}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("create person failed: %v", err)
	}
	cart, _, _ := cartWithTwoLines(t, db, cartService)

	sale, err := saleService.FinalizeCheckoutSession("cs_test_person", cart.ID, "ANA@example.com")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if sale.PersonID == nil || *sale.PersonID != person.ID {
		t.Fatalf("expected sale bound to person %d, got %+v", person.ID, sale.PersonID)
	}
}

func TestFinalizeCheckoutSessionDuplicateIsNoop(t *testing.T) {
	db, saleService, cartService, notifier := newSaleFixture(t, "finalize_dup")
	cart, p1, _ := cartWithTwoLines(t, db, cartService)

	first, err := saleService.FinalizeCheckoutSession("cs_dup", cart.ID, "ana@example.com")
	if err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	second, err := saleService.FinalizeCheckoutSession("cs_dup", cart.ID, "ana@example.com")
	if err != nil {
		t.Fatalf("redelivered finalize failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same sale, got %d and %d", first.ID, second.ID)
	}

	var saleCount int64
	db.Model(&models.Sale{}).Count(&saleCount)
	if saleCount != 1 {
		t.Fatalf("expected 1 sale, got %d", saleCount)
	}
	var gotP1 models.Product
	if err := db.First(&gotP1, p1.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if gotP1.Stock != 3 {
		t.Fatalf("expected stock decremented once to 3, got %d", gotP1.Stock)
	}
	if len(notifier.saleIDs) != 1 {
		t.Fatalf("expected a single notification across redeliveries, got %v", notifier.saleIDs)
	}
}

func TestFinalizeCheckoutSessionInsufficientStockRollsBack(t *testing.T) {
	db, saleService, cartService, notifier := newSaleFixture(t, "finalize_rollback")
	cart, p1, _ := cartWithTwoLines(t, db, cartService)

	// Stock drains between cart time and finalization.
	if err := db.Model(&models.Product{}).Where("id_producto = ?", p1.ID).Update("stock", 1).Error; err != nil {
		t.Fatalf("drain stock failed: %v", err)
	}

	_, err := saleService.FinalizeCheckoutSession("cs_short", cart.ID, "ana@example.com")
	var stockErr *StockInsufficientError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected stock error, got %v", err)
	}
	if stockErr.Available != 1 {
		t.Fatalf("expected available 1, got %d", stockErr.Available)
	}

	var saleCount int64
	db.Model(&models.Sale{}).Count(&saleCount)
	if saleCount != 0 {
		t.Fatalf("expected no sale persisted, got %d", saleCount)
	}
	var itemCount int64
	db.Model(&models.SaleItem{}).Count(&itemCount)
	if itemCount != 0 {
		t.Fatalf("expected no sale items persisted, got %d", itemCount)
	}
	var gotCart models.Cart
	if err := db.First(&gotCart, cart.ID).Error; err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if gotCart.Status != constants.CartStatusActive {
		t.Fatalf("expected cart still activo, got %s", gotCart.Status)
	}
	var lineCount int64
	db.Model(&models.CartItem{}).Where("id_carrito = ?", cart.ID).Count(&lineCount)
	if lineCount != 2 {
		t.Fatalf("expected cart lines kept, got %d", lineCount)
	}
	if len(notifier.saleIDs) != 0 {
		t.Fatalf("expected no notification, got %v", notifier.saleIDs)
	}
}

func TestFinalizeCheckoutSessionEmptyCart(t *testing.T) {
	_, saleService, cartService, _ := newSaleFixture(t, "finalize_empty")
	cart, err := cartService.CreateCart(nil)
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if _, err := saleService.FinalizeCheckoutSession("cs_empty", cart.ID, ""); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestSaveSaleDirectPath(t *testing.T) {
	db, saleService, _, notifier := newSaleFixture(t, "save_sale")
	p1 := createTestProduct(t, db, "Teclado", "10.00", 5)
	p2 := createTestProduct(t, db, "Mouse", "15.00", 5)

	sale, err := saleService.SaveSale(SaveSaleInput{
		BuyerEmail: "luis@example.com",
		Lines: []SaveSaleLine{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("save sale failed: %v", err)
	}
	if !sale.Total.Decimal.Equal(decimal.RequireFromString("50.99")) {
		t.Fatalf("expected total 50.99, got %s", sale.Total.String())
	}
	if sale.PaymentMethod != constants.PaymentMethodManual {
		t.Fatalf("expected manual payment method, got %s", sale.PaymentMethod)
	}
	if sale.PaymentSessionID != nil {
		t.Fatalf("expected no session id, got %v", *sale.PaymentSessionID)
	}
	if sale.CartID == 0 {
		t.Fatalf("expected fabricated cart id")
	}

	var gotCart models.Cart
	if err := db.First(&gotCart, sale.CartID).Error; err != nil {
		t.Fatalf("load fabricated cart failed: %v", err)
	}
	if gotCart.Status != constants.CartStatusConverted {
		t.Fatalf("expected convertido, got %s", gotCart.Status)
	}
	var gotP1 models.Product
	if err := db.First(&gotP1, p1.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if gotP1.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", gotP1.Stock)
	}
	if len(notifier.saleIDs) != 1 {
		t.Fatalf("expected one notification, got %v", notifier.saleIDs)
	}
}

func TestSaveSaleUsesOfferPrice(t *testing.T) {
	db, saleService, _, _ := newSaleFixture(t, "save_sale_offer")
	offer := models.NewMoneyFromDecimal(decimal.RequireFromString("8.00"))
	product := &models.Product{
		Name:       "Audífonos",
		Price:      models.NewMoneyFromDecimal(decimal.RequireFromString("10.00")),
		OfferPrice: &offer,
		Stock:      5,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	sale, err := saleService.SaveSale(SaveSaleInput{
		Lines: []SaveSaleLine{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("save sale failed: %v", err)
	}
	// 8.00 + 15.99 shipping
	if !sale.Total.Decimal.Equal(decimal.RequireFromString("23.99")) {
		t.Fatalf("expected total 23.99, got %s", sale.Total.String())
	}
}

func TestSaveSaleRejectsEmptyLines(t *testing.T) {
	_, saleService, _, _ := newSaleFixture(t, "save_sale_empty")
	if _, err := saleService.SaveSale(SaveSaleInput{}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestUpdateSaleStatusTransitions(t *testing.T) {
	db, saleService, cartService, _ := newSaleFixture(t, "sale_status")
	cart, _, _ := cartWithTwoLines(t, db, cartService)
	sale, err := saleService.FinalizeCheckoutSession("cs_status", cart.ID, "")
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	updated, err := saleService.UpdateSaleStatus(sale.ID, constants.SaleStatusShipped)
	if err != nil {
		t.Fatalf("to Enviado failed: %v", err)
	}
	if updated.Status != constants.SaleStatusShipped {
		t.Fatalf("expected Enviado, got %s", updated.Status)
	}

	if _, err := saleService.UpdateSaleStatus(sale.ID, "Perdido"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for unknown state, got %v", err)
	}

	if _, err := saleService.UpdateSaleStatus(sale.ID, constants.SaleStatusCanceled); err != nil {
		t.Fatalf("to Cancelado failed: %v", err)
	}
	if _, err := saleService.UpdateSaleStatus(sale.ID, constants.SaleStatusCompleted); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected Cancelado to be terminal, got %v", err)
	}
}

func TestUpdateSaleStatusNotFound(t *testing.T) {
	_, saleService, _, _ := newSaleFixture(t, "sale_status_missing")
	if _, err := saleService.UpdateSaleStatus(42, constants.SaleStatusShipped); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}
