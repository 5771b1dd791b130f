package main

import (
	"github.com/shopspring/decimal"

	"github.com/solmercado/tienda-api/internal/config"
	"github.com/solmercado/tienda-api/internal/logger"
	"github.com/solmercado/tienda-api/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("failed to migrate database: %v", err)
	}

	brands := []models.Brand{
		{Name: "Samsung", LogoPath: "/uploads/marcas/samsung.png"},
		{Name: "Apple", LogoPath: "/uploads/marcas/apple.png"},
		{Name: "Xiaomi", LogoPath: "/uploads/marcas/xiaomi.png"},
	}
	brandIDs := map[string]uint{}
	for _, brand := range brands {
		var existing models.Brand
		if err := models.DB.Where("nombre = ?", brand.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&brand).Error; err != nil {
				stdLog.Printf("failed to create brand %s: %v", brand.Name, err)
				continue
			}
			stdLog.Printf("created brand: %s", brand.Name)
			brandIDs[brand.Name] = brand.ID
			continue
		}
		stdLog.Printf("brand already exists: %s", existing.Name)
		brandIDs[existing.Name] = existing.ID
	}

	products := []struct {
		brand string
		model models.Product
	}{
		{
			brand: "Samsung",
			model: models.Product{
				Name:        "Galaxy S24",
				Description: "Pantalla AMOLED 6.2, 256 GB",
				Price:       money("899.99"),
				Stock:       25,
				ImagePath:   "/uploads/productos/galaxy-s24.png",
			},
		},
		{
			brand: "Apple",
			model: models.Product{
				Name:        "iPhone 15",
				Description: "Chip A16, 128 GB",
				Price:       money("999.99"),
				Stock:       18,
				ImagePath:   "/uploads/productos/iphone-15.png",
			},
		},
		{
			brand: "Xiaomi",
			model: models.Product{
				Name:        "Redmi Note 13",
				Description: "Pantalla 6.67, 256 GB",
				Price:       money("299.99"),
				OfferPrice:  moneyPtr("249.99"),
				Stock:       40,
				ImagePath:   "/uploads/productos/redmi-note-13.png",
			},
		},
	}

	for _, entry := range products {
		product := entry.model
		if id, ok := brandIDs[entry.brand]; ok {
			brandID := id
			product.BrandID = &brandID
		}
		var existing models.Product
		if err := models.DB.Where("nombre = ?", product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("failed to create product %s: %v", product.Name, err)
				continue
			}
			stdLog.Printf("created product: %s", product.Name)
			continue
		}
		stdLog.Printf("product already exists: %s", existing.Name)
	}

	stdLog.Printf("seed finished")
}

func money(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}

func moneyPtr(value string) *models.Money {
	m := money(value)
	return &m
}
