package repository

import (
	"database/sql"
	"errors"

	"github.com/solmercado/tienda-api/internal/models"

	"gorm.io/gorm"
)

// CartRepository is the carrito / detalle_carrito data-access interface.
type CartRepository interface {
	Create(cart *models.Cart) error
	GetByID(id uint) (*models.Cart, error)
	UpdateStatus(id uint, status string) error
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItemByID(itemID uint) (*models.CartItem, error)
	GetItemByProduct(cartID, productID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(itemID uint, updates map[string]interface{}) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) error
	Total(cartID uint) (models.Money, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a carrito repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Create inserts a carrito row.
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// GetByID fetches a cart with items and their products, nil when not found.
func (r *GormCartRepository) GetByID(id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Product").Preload("Items").First(&cart, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateStatus sets carrito.estado.
func (r *GormCartRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Cart{}).Where("id_carrito = ?", id).Update("estado", status).Error
}

// ListItems returns all lines of one cart with their products.
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("id_carrito = ?", cartID).Order("id_detalle_carrito asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemByID fetches one line with its product, nil when not found.
func (r *GormCartRepository) GetItemByID(itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByProduct fetches the line for one product in one cart, nil when
// the cart has no such line yet.
func (r *GormCartRepository) GetItemByProduct(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("id_carrito = ? AND id_producto = ?", cartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a detalle_carrito row.
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItem applies a partial update to one line.
func (r *GormCartRepository) UpdateItem(itemID uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.CartItem{}).Where("id_detalle_carrito = ?", itemID).Updates(updates).Error
}

// DeleteItem removes one line.
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// ClearItems removes every line of one cart.
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("id_carrito = ?", cartID).Delete(&models.CartItem{}).Error
}

// Total sums the line totals of one cart. An empty cart totals 0.
func (r *GormCartRepository) Total(cartID uint) (models.Money, error) {
	var total sql.NullString
	err := r.db.Model(&models.CartItem{}).
		Where("id_carrito = ?", cartID).
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
