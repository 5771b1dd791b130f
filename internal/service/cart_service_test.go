package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

func newCartFixture(t *testing.T, name string) (*gorm.DB, *CartService) {
	t.Helper()
	db := openTestDB(t, name)
	carts := repository.NewCartRepository(db)
	products := repository.NewProductRepository(db)
	return db, NewCartService(db, carts, products)
}

func TestAddItemSnapshotsUnitPrice(t *testing.T) {
	db, cartService := newCartFixture(t, "cart_add")
	product := createTestProduct(t, db, "Monitor", "120.50", 10)
	cart, err := cartService.CreateCart(nil)
	if err != nil {
		t.Fatalf("create cart failed: %v", err)
	}

	item, err := cartService.AddItem(cart.ID, product.ID, 2)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if !item.UnitPrice.Decimal.Equal(decimal.RequireFromString("120.50")) {
		t.Fatalf("expected unit price 120.50, got %s", item.UnitPrice.String())
	}
	if !item.Total.Decimal.Equal(decimal.RequireFromString("241.00")) {
		t.Fatalf("expected total 241.00, got %s", item.Total.String())
	}

	// A later price change must not touch the stored snapshot.
	if err := db.Model(&models.Product{}).Where("id_producto = ?", product.ID).
		Update("precio", "999.99").Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	merged, err := cartService.AddItem(cart.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("merge item failed: %v", err)
	}
	if merged.ID != item.ID {
		t.Fatalf("expected merge into line %d, got %d", item.ID, merged.ID)
	}
	if merged.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", merged.Quantity)
	}
	if !merged.Total.Decimal.Equal(decimal.RequireFromString("361.50")) {
		t.Fatalf("expected total 361.50 from snapshot, got %s", merged.Total.String())
	}
}

func TestAddItemPrefersOfferPrice(t *testing.T) {
	db, cartService := newCartFixture(t, "cart_offer")
	offer := models.NewMoneyFromDecimal(decimal.RequireFromString("80.00"))
	product := &models.Product{
		Name:       "Tablet",
		Price:      models.NewMoneyFromDecimal(decimal.RequireFromString("100.00")),
		OfferPrice: &offer,
		Stock:      10,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	cart, _ := cartService.CreateCart(nil)

	item, err := cartService.AddItem(cart.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if !item.UnitPrice.Decimal.Equal(decimal.RequireFromString("80.00")) {
		t.Fatalf("expected offer price 80.00, got %s", item.UnitPrice.String())
	}
}

func TestAddItemInsufficientStock(t *testing.T) {
	db, cartService := newCartFixture(t, "cart_stock")
	product := createTestProduct(t, db, "Cable", "5.00", 3)
	cart, _ := cartService.CreateCart(nil)

	_, err := cartService.AddItem(cart.ID, product.ID, 4)
	stockErr, ok := AsStockInsufficient(err)
	if !ok {
		t.Fatalf("expected stock error, got %v", err)
	}
	if stockErr.Available != 3 {
		t.Fatalf("expected available 3, got %d", stockErr.Available)
	}

	// Merging past the stock also fails, counting the existing line.
	if _, err := cartService.AddItem(cart.ID, product.ID, 2); err != nil {
		t.Fatalf("add within stock failed: %v", err)
	}
	_, err = cartService.AddItem(cart.ID, product.ID, 2)
	if _, ok := AsStockInsufficient(err); !ok {
		t.Fatalf("expected stock error on merge, got %v", err)
	}
}

func TestUpdateItemQuantityRecomputesTotal(t *testing.T) {
	db, cartService := newCartFixture(t, "cart_update")
	product := createTestProduct(t, db, "Disco", "30.00", 10)
	cart, _ := cartService.CreateCart(nil)
	item, err := cartService.AddItem(cart.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	updated, err := cartService.UpdateItemQuantity(item.ID, 4)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if updated.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", updated.Quantity)
	}
	if !updated.Total.Decimal.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("expected total 120.00, got %s", updated.Total.String())
	}

	_, err = cartService.UpdateItemQuantity(item.ID, 11)
	stockErr, ok := AsStockInsufficient(err)
	if !ok {
		t.Fatalf("expected stock error, got %v", err)
	}
	if stockErr.Available != 10 {
		t.Fatalf("expected available 10, got %d", stockErr.Available)
	}

	if _, err := cartService.UpdateItemQuantity(item.ID, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero quantity, got %v", err)
	}
}

func TestRemoveItem(t *testing.T) {
	db, cartService := newCartFixture(t, "cart_remove")
	product := createTestProduct(t, db, "Funda", "12.00", 5)
	cart, _ := cartService.CreateCart(nil)
	item, _ := cartService.AddItem(cart.ID, product.ID, 1)

	if err := cartService.RemoveItem(item.ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}
	if err := cartService.RemoveItem(item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	db, cartService := newCartFixture(t, "cart_clear")
	product := createTestProduct(t, db, "Base", "20.00", 5)
	cart, _ := cartService.CreateCart(nil)
	if _, err := cartService.AddItem(cart.ID, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := cartService.ClearCart(cart.ID); err != nil {
		t.Fatalf("clear cart failed: %v", err)
	}

	var gotCart models.Cart
	if err := db.First(&gotCart, cart.ID).Error; err != nil {
		t.Fatalf("load cart failed: %v", err)
	}
	if gotCart.Status != constants.CartStatusEmptied {
		t.Fatalf("expected vaciado, got %s", gotCart.Status)
	}
	total, err := cartService.CartTotal(cart.ID)
	if err != nil {
		t.Fatalf("cart total failed: %v", err)
	}
	if !total.Decimal.Equal(decimal.Zero) {
		t.Fatalf("expected total 0, got %s", total.String())
	}
}

func TestGetCartNotFound(t *testing.T) {
	_, cartService := newCartFixture(t, "cart_missing")
	if _, err := cartService.GetCart(99); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}
