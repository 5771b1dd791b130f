package service

import (
	"strings"

	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

// ProductService is the producto CRUD surface.
type ProductService struct {
	products repository.ProductRepository
	brands   repository.BrandRepository
}

func NewProductService(products repository.ProductRepository, brands repository.BrandRepository) *ProductService {
	return &ProductService{products: products, brands: brands}
}

// CreateProductInput is the admin create payload.
type CreateProductInput struct {
	Name        string        `json:"nombre"`
	Description string        `json:"descripcion"`
	BrandID     *uint         `json:"id_marca"`
	Price       models.Money  `json:"precio"`
	OfferPrice  *models.Money `json:"precio_oferta"`
	Stock       int           `json:"stock"`
	Image       string        `json:"imagen"`
}

// UpdateProductInput patches a product. Nil fields are left untouched, so a
// partial body never zeroes columns it did not mention.
type UpdateProductInput struct {
	Name        *string       `json:"nombre"`
	Description *string       `json:"descripcion"`
	BrandID     *uint         `json:"id_marca"`
	Price       *models.Money `json:"precio"`
	OfferPrice  *models.Money `json:"precio_oferta"`
	Stock       *int          `json:"stock"`
	Image       *string       `json:"imagen"`
}

func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.products.List(filter)
}

func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price.Decimal.IsNegative() || input.Stock < 0 {
		return nil, ErrInvalidInput
	}
	if input.BrandID != nil {
		brand, err := s.brands.GetByID(*input.BrandID)
		if err != nil {
			return nil, err
		}
		if brand == nil {
			return nil, ErrBrandNotFound
		}
	}

	product := &models.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		BrandID:     input.BrandID,
		Price:       input.Price,
		OfferPrice:  input.OfferPrice,
		Stock:       input.Stock,
		ImagePath:   strings.TrimSpace(input.Image),
	}
	if err := s.products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) UpdateProduct(id uint, input UpdateProductInput) (*models.Product, error) {
	if _, err := s.GetProduct(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		updates["nombre"] = name
	}
	if input.Description != nil {
		updates["descripcion"] = strings.TrimSpace(*input.Description)
	}
	if input.BrandID != nil {
		brand, err := s.brands.GetByID(*input.BrandID)
		if err != nil {
			return nil, err
		}
		if brand == nil {
			return nil, ErrBrandNotFound
		}
		updates["id_marca"] = *input.BrandID
	}
	if input.Price != nil {
		if input.Price.Decimal.IsNegative() {
			return nil, ErrInvalidInput
		}
		updates["precio"] = *input.Price
	}
	if input.OfferPrice != nil {
		updates["precio_oferta"] = *input.OfferPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrInvalidInput
		}
		updates["stock"] = *input.Stock
	}
	if input.Image != nil {
		updates["imagen"] = strings.TrimSpace(*input.Image)
	}

	if len(updates) > 0 {
		if err := s.products.Update(id, updates); err != nil {
			return nil, err
		}
	}
	return s.GetProduct(id)
}

func (s *ProductService) DeleteProduct(id uint) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	return s.products.Delete(id)
}
