package service

import (
	"strings"

	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

// BrandService is the marca CRUD surface.
type BrandService struct {
	brands   repository.BrandRepository
	products repository.ProductRepository
}

func NewBrandService(brands repository.BrandRepository, products repository.ProductRepository) *BrandService {
	return &BrandService{brands: brands, products: products}
}

type CreateBrandInput struct {
	Name string `json:"nombre"`
	Logo string `json:"logo"`
}

type UpdateBrandInput struct {
	Name *string `json:"nombre"`
	Logo *string `json:"logo"`
}

func (s *BrandService) GetBrand(id uint) (*models.Brand, error) {
	brand, err := s.brands.GetByID(id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

func (s *BrandService) ListBrands(search string) ([]models.Brand, error) {
	return s.brands.List(strings.TrimSpace(search))
}

func (s *BrandService) CreateBrand(input CreateBrandInput) (*models.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	brand := &models.Brand{Name: name, LogoPath: strings.TrimSpace(input.Logo)}
	if err := s.brands.Create(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *BrandService) UpdateBrand(id uint, input UpdateBrandInput) (*models.Brand, error) {
	if _, err := s.GetBrand(id); err != nil {
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
	if input.Logo != nil {
		updates["logo"] = strings.TrimSpace(*input.Logo)
	}

	if len(updates) > 0 {
		if err := s.brands.Update(id, updates); err != nil {
			return nil, err
		}
	}
	return s.GetBrand(id)
}

// DeleteBrand removes a brand with no products; deleting one still
// referenced by products is refused.
func (s *BrandService) DeleteBrand(id uint) error {
	if _, err := s.GetBrand(id); err != nil {
		return err
	}
	count, err := s.countProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBrandInUse
	}
	return s.brands.Delete(id)
}

func (s *BrandService) countProducts(brandID uint) (int64, error) {
	_, total, err := s.products.List(repository.ProductListFilter{
		Page:     1,
		PageSize: 1,
		BrandID:  brandID,
	})
	return total, err
}
