package service

import (
	"context"
	"time"

	"github.com/solmercado/tienda-api/internal/cache"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

// DashboardService aggregates the numbers shown on the admin landing page.
type DashboardService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	persons  repository.PersonRepository
}

func NewDashboardService(sales repository.SaleRepository, products repository.ProductRepository, persons repository.PersonRepository) *DashboardService {
	return &DashboardService{sales: sales, products: products, persons: persons}
}

// DashboardSummary is one snapshot of the store. Revenue counts completed
// sales only.
type DashboardSummary struct {
	TotalSales    int64         `json:"total_ventas"`
	TotalProducts int64         `json:"total_productos"`
	TotalPersons  int64         `json:"total_personas"`
	Revenue       models.Money  `json:"ingresos"`
	RecentSales   []models.Sale `json:"ventas_recientes"`
}

const (
	recentSalesLimit  = 10
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = time.Minute
)

// Summary gathers entity counts, completed revenue and the latest sales. The
// snapshot is served from the JSON cache when one is present; finalization
// and status changes drop it.
func (s *DashboardService) Summary() (*DashboardSummary, error) {
	ctx := context.Background()

	var cached DashboardSummary
	if hit, err := cache.GetJSON(ctx, dashboardCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	totalSales, err := s.sales.Count()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.Count()
	if err != nil {
		return nil, err
	}
	totalPersons, err := s.persons.Count()
	if err != nil {
		return nil, err
	}
	revenue, err := s.sales.CompletedRevenue()
	if err != nil {
		return nil, err
	}
	recent, err := s.sales.Recent(recentSalesLimit)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalSales:    totalSales,
		TotalProducts: totalProducts,
		TotalPersons:  totalPersons,
		Revenue:       revenue,
		RecentSales:   recent,
	}
	_ = cache.SetJSON(ctx, dashboardCacheKey, summary, dashboardCacheTTL)
	return summary, nil
}

// invalidateDashboardSummary drops the cached snapshot after any write that
// changes the numbers it reports.
func invalidateDashboardSummary() {
	_ = cache.Del(context.Background(), dashboardCacheKey)
}
