package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/solmercado/tienda-api/internal/models"

	"gorm.io/gorm"
)

// SaleRepository is the venta / detalle_venta data-access interface.
type SaleRepository interface {
	Create(sale *models.Sale, items []models.SaleItem) error
	GetByID(id uint) (*models.Sale, error)
	GetBySessionID(sessionID string) (*models.Sale, error)
	List(filter SaleListFilter) ([]models.Sale, int64, error)
	UpdateStatus(id uint, status string) error
	Count() (int64, error)
	CompletedRevenue() (models.Money, error)
	Recent(limit int) ([]models.Sale, error)
	WithTx(tx *gorm.DB) SaleRepository
}

// GormSaleRepository is the GORM implementation.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a venta repository.
func NewSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormSaleRepository) WithTx(tx *gorm.DB) SaleRepository {
	if tx == nil {
		return r
	}
	return &GormSaleRepository{db: tx}
}

// Create inserts the venta row and its detalle_venta rows. Callers run this
// inside a transaction when atomicity with other writes matters.
func (r *GormSaleRepository) Create(sale *models.Sale, items []models.SaleItem) error {
	if err := r.db.Create(sale).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].SaleID = sale.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches a sale with its items, nil when not found.
func (r *GormSaleRepository) GetByID(id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.Preload("Items").First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetBySessionID fetches the sale finalized for one payment session, nil
// when no finalization happened for it yet.
func (r *GormSaleRepository) GetBySessionID(sessionID string) (*models.Sale, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, nil
	}
	var sale models.Sale
	err := r.db.Preload("Items").Where("stripe_session_id = ?", sessionID).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns a filtered, paginated page of venta rows plus the total.
func (r *GormSaleRepository) List(filter SaleListFilter) ([]models.Sale, int64, error) {
	query := r.db.Model(&models.Sale{})
	if filter.PersonID > 0 {
		query = query.Where("id_persona = ?", filter.PersonID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("estado = ?", status)
	}
	if email := strings.TrimSpace(filter.BuyerEmail); email != "" {
		query = query.Where("correo_comprador = ?", email)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sales []models.Sale
	if err := applyPagination(query.Preload("Items").Order("id_venta desc"), filter.Page, filter.PageSize).Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// UpdateStatus sets venta.estado.
func (r *GormSaleRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Sale{}).Where("id_venta = ?", id).Update("estado", status).Error
}

// Count returns the number of venta rows.
func (r *GormSaleRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Sale{}).Count(&total).Error
	return total, err
}

// CompletedRevenue sums venta totals in the Completado state.
func (r *GormSaleRepository) CompletedRevenue() (models.Money, error) {
	var total sql.NullString
	err := r.db.Model(&models.Sale{}).
		Where("estado = ?", "Completado").
		Select("SUM(total)").
		Scan(&total).Error
	if err != nil {
		return models.Money{}, err
	}
	if !total.Valid || total.String == "" {
		return models.Money{}, nil
	}
	return models.NewMoneyFromString(total.String)
}

// Recent returns the latest sales for the dashboard.
func (r *GormSaleRepository) Recent(limit int) ([]models.Sale, error) {
	if limit <= 0 {
		limit = 10
	}
	var sales []models.Sale
	if err := r.db.Preload("Items").Order("id_venta desc").Limit(limit).Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
