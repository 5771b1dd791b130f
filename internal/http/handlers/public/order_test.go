package public

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/provider"
	"github.com/solmercado/tienda-api/internal/repository"
	"github.com/solmercado/tienda-api/internal/service"
)

func newOrderFixture(t *testing.T) (*gorm.DB, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:order_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	saleService := service.NewSaleService(
		db,
		repository.NewSaleRepository(db),
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		repository.NewPersonRepository(db),
		decimal.RequireFromString("15.99"),
		nil,
	)
	handler := New(&provider.Container{SaleService: saleService})
	return db, handler
}

func postSaveOrder(t *testing.T, handler *Handler, claims *service.JWTClaims, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body failed: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/orders/save", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(claimsContextKey, claims)
	}
	handler.SaveOrder(c)
	return w
}

func TestSaveOrderAttributesSaleToTokenSubject(t *testing.T) {
	db, handler := newOrderFixture(t)

	person := &models.Person{
		FirstName:    "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Role:         constants.RoleCustomer,
	}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("create person failed: %v", err)
	}
	product := &models.Product{
		Name:  "Teclado",
		Price: models.NewMoneyFromDecimal(decimal.RequireFromString("10.00")),
		Stock: 5,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	claims := &service.JWTClaims{PersonID: person.ID, Email: person.Email, Role: person.Role}
	w := postSaveOrder(t, handler, claims, gin.H{
		"productos": []gin.H{{"id_producto": product.ID, "cantidad": 2}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var sale models.Sale
	if err := db.First(&sale).Error; err != nil {
		t.Fatalf("load sale failed: %v", err)
	}
	if sale.PersonID == nil || *sale.PersonID != person.ID {
		t.Fatalf("expected sale for person %d, got %v", person.ID, sale.PersonID)
	}
	if sale.BuyerEmail != "ana@example.com" {
		t.Fatalf("expected buyer email from token, got %q", sale.BuyerEmail)
	}
}

func TestSaveOrderRejectsAnonymousCaller(t *testing.T) {
	db, handler := newOrderFixture(t)

	w := postSaveOrder(t, handler, nil, gin.H{
		"productos": []gin.H{{"id_producto": 1, "cantidad": 1}},
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.Sale{}).Count(&count).Error; err != nil {
		t.Fatalf("count sales failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no sales, got %d", count)
	}
}

func TestSaveOrderRejectsForeignPersonID(t *testing.T) {
	db, handler := newOrderFixture(t)

	claims := &service.JWTClaims{PersonID: 1, Email: "ana@example.com", Role: constants.RoleCustomer}
	w := postSaveOrder(t, handler, claims, gin.H{
		"id_persona": 42,
		"productos":  []gin.H{{"id_producto": 1, "cantidad": 1}},
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.Sale{}).Count(&count).Error; err != nil {
		t.Fatalf("count sales failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no sales, got %d", count)
	}
}
