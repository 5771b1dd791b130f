package service

import (
	"testing"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

func TestDashboardSummary(t *testing.T) {
	db, saleService, cartService, _ := newSaleFixture(t, "dashboard")
	dashboard := NewDashboardService(
		repository.NewSaleRepository(db),
		repository.NewProductRepository(db),
		repository.NewPersonRepository(db),
	)

	if err := db.Create(&models.Person{
		FirstName:    "Ana",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Role:         constants.RoleCustomer,
	}).Error; err != nil {
		t.Fatalf("create person failed: %v", err)
	}

	cart, _, _ := cartWithTwoLines(t, db, cartService)
	if _, err := saleService.FinalizeCheckoutSession("cs_dash_1", cart.ID, "ana@example.com"); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	summary, err := dashboard.Summary()
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalSales != 1 {
		t.Fatalf("expected 1 sale, got %d", summary.TotalSales)
	}
	if summary.TotalProducts != 2 {
		t.Fatalf("expected 2 products, got %d", summary.TotalProducts)
	}
	if summary.TotalPersons != 1 {
		t.Fatalf("expected 1 person, got %d", summary.TotalPersons)
	}
	if summary.Revenue.StringFixed(2) != "50.99" {
		t.Fatalf("expected revenue 50.99, got %s", summary.Revenue.StringFixed(2))
	}
	if len(summary.RecentSales) != 1 {
		t.Fatalf("expected 1 recent sale, got %d", len(summary.RecentSales))
	}
}

func TestDashboardSummaryEmptyStore(t *testing.T) {
	db := openTestDB(t, "dashboard_empty")
	dashboard := NewDashboardService(
		repository.NewSaleRepository(db),
		repository.NewProductRepository(db),
		repository.NewPersonRepository(db),
	)

	summary, err := dashboard.Summary()
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalSales != 0 || summary.TotalProducts != 0 || summary.TotalPersons != 0 {
		t.Fatalf("expected zero counts, got %+v", summary)
	}
	if !summary.Revenue.IsZero() {
		t.Fatalf("expected zero revenue, got %s", summary.Revenue.StringFixed(2))
	}
	if len(summary.RecentSales) != 0 {
		t.Fatalf("expected no recent sales, got %d", len(summary.RecentSales))
	}
}
