package repository

import (
	"errors"
	"strings"

	"github.com/solmercado/tienda-api/internal/models"

	"gorm.io/gorm"
)

// BrandRepository is the marca data-access interface.
type BrandRepository interface {
	GetByID(id uint) (*models.Brand, error)
	List(search string) ([]models.Brand, error)
	Create(brand *models.Brand) error
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) BrandRepository
}

// GormBrandRepository is the GORM implementation.
type GormBrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a marca repository.
func NewBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormBrandRepository) WithTx(tx *gorm.DB) BrandRepository {
	if tx == nil {
		return r
	}
	return &GormBrandRepository{db: tx}
}

// GetByID fetches a brand, nil when not found.
func (r *GormBrandRepository) GetByID(id uint) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.First(&brand, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// List returns brands, optionally filtered by name.
func (r *GormBrandRepository) List(search string) ([]models.Brand, error) {
	query := r.db.Model(&models.Brand{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("nombre LIKE ?", "%"+search+"%")
	}
	var brands []models.Brand
	if err := query.Order("nombre asc").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// Create inserts a marca row.
func (r *GormBrandRepository) Create(brand *models.Brand) error {
	return r.db.Create(brand).Error
}

// Update applies a partial update built from a patch struct.
func (r *GormBrandRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Brand{}).Where("id_marca = ?", id).Updates(updates).Error
}

// Delete soft-deletes a marca row. Products keep a dangling nullable FK.
func (r *GormBrandRepository) Delete(id uint) error {
	return r.db.Delete(&models.Brand{}, id).Error
}
