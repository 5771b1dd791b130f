package repository

import (
	"errors"
	"strings"

	"github.com/solmercado/tienda-api/internal/models"

	"gorm.io/gorm"
)

// PersonRepository is the persona data-access interface.
type PersonRepository interface {
	GetByID(id uint) (*models.Person, error)
	GetByEmail(email string) (*models.Person, error)
	Create(person *models.Person) error
	Update(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	List(filter PersonListFilter) ([]models.Person, int64, error)
	Count() (int64, error)
	WithTx(tx *gorm.DB) PersonRepository
}

// GormPersonRepository is the GORM implementation.
type GormPersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a persona repository.
func NewPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPersonRepository) WithTx(tx *gorm.DB) PersonRepository {
	if tx == nil {
		return r
	}
	return &GormPersonRepository{db: tx}
}

// GetByID fetches a person, nil when not found.
func (r *GormPersonRepository) GetByID(id uint) (*models.Person, error) {
	var person models.Person
	err := r.db.First(&person, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// GetByEmail fetches a person by correo, nil when not found.
func (r *GormPersonRepository) GetByEmail(email string) (*models.Person, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var person models.Person
	err := r.db.Where("correo = ?", email).First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

// Create inserts a persona row.
func (r *GormPersonRepository) Create(person *models.Person) error {
	return r.db.Create(person).Error
}

// Update applies a partial update built from a patch struct.
func (r *GormPersonRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Person{}).Where("id_persona = ?", id).Updates(updates).Error
}

// Delete soft-deletes a persona row.
func (r *GormPersonRepository) Delete(id uint) error {
	return r.db.Delete(&models.Person{}, id).Error
}

// List returns a filtered, paginated page of persona rows plus the total.
func (r *GormPersonRepository) List(filter PersonListFilter) ([]models.Person, int64, error) {
	query := r.db.Model(&models.Person{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("nombre LIKE ? OR apellido LIKE ? OR correo LIKE ?", like, like, like)
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		query = query.Where("rol = ?", role)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var persons []models.Person
	if err := applyPagination(query.Order("id_persona desc"), filter.Page, filter.PageSize).Find(&persons).Error; err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

// Count returns the number of persona rows.
func (r *GormPersonRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Person{}).Count(&total).Error
	return total, err
}
