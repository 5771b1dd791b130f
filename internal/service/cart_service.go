package service

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

// CartService owns cart lifecycle and line mutations. A line always stores
// the unit price captured when it entered the cart; totals are recomputed
// from that snapshot, never from the live product price.
type CartService struct {
	db       *gorm.DB
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(db *gorm.DB, carts repository.CartRepository, products repository.ProductRepository) *CartService {
	return &CartService{db: db, carts: carts, products: products}
}

// CreateCart opens a new active cart, optionally bound to a person.
func (s *CartService) CreateCart(personID *uint) (*models.Cart, error) {
	cart := &models.Cart{
		PersonID: personID,
		Status:   constants.CartStatusActive,
	}
	if err := s.carts.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart loads a cart with its lines and their products.
func (s *CartService) GetCart(cartID uint) (*models.Cart, error) {
	cart, err := s.carts.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

// AddItem puts a product into the cart. If the product is already in the
// cart the quantities merge into the existing line; the unit price snapshot
// taken when the line was created is kept.
func (s *CartService) AddItem(cartID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidInput
	}

	cart, err := s.carts.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if cart.Status != constants.CartStatusActive {
		return nil, ErrCartNotActive
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.carts.GetItemByProduct(cartID, productID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if product.Stock < newQuantity {
		return nil, &StockInsufficientError{
			ProductID: productID,
			Requested: newQuantity,
			Available: product.Stock,
		}
	}

	if existing != nil {
		total := lineTotal(existing.UnitPrice, newQuantity)
		updates := map[string]interface{}{
			"cantidad": newQuantity,
			"total":    total,
		}
		if err := s.carts.UpdateItem(existing.ID, updates); err != nil {
			return nil, err
		}
		existing.Quantity = newQuantity
		existing.Total = total
		return existing, nil
	}

	unitPrice := product.EffectivePrice()
	item := &models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     lineTotal(unitPrice, quantity),
	}
	if err := s.carts.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemQuantity replaces a line's quantity and recomputes its total
// from the stored unit price. The stock check here is advisory; the binding
// check happens inside the finalize transaction.
func (s *CartService) UpdateItemQuantity(itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidInput
	}

	item, err := s.carts.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}

	product, err := s.products.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Stock < quantity {
		return nil, &StockInsufficientError{
			ProductID: item.ProductID,
			Requested: quantity,
			Available: product.Stock,
		}
	}

	total := lineTotal(item.UnitPrice, quantity)
	updates := map[string]interface{}{
		"cantidad": quantity,
		"total":    total,
	}
	if err := s.carts.UpdateItem(itemID, updates); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	item.Total = total
	return item, nil
}

// RemoveItem deletes one line from its cart.
func (s *CartService) RemoveItem(itemID uint) error {
	item, err := s.carts.GetItemByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	return s.carts.DeleteItem(itemID)
}

// ClearCart removes every line and marks the cart emptied. The cart row
// stays so the id keeps working for history lookups.
func (s *CartService) ClearCart(cartID uint) error {
	cart, err := s.carts.GetByID(cartID)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		if err := carts.ClearItems(cartID); err != nil {
			return err
		}
		return carts.UpdateStatus(cartID, constants.CartStatusEmptied)
	})
}

// CartTotal sums the cart's line totals. An empty cart totals zero.
func (s *CartService) CartTotal(cartID uint) (models.Money, error) {
	cart, err := s.carts.GetByID(cartID)
	if err != nil {
		return models.Money{}, err
	}
	if cart == nil {
		return models.Money{}, ErrCartNotFound
	}
	return s.carts.Total(cartID)
}

func lineTotal(unitPrice models.Money, quantity int) models.Money {
	return models.NewMoneyFromDecimal(unitPrice.Decimal.Mul(decimal.NewFromInt(int64(quantity))))
}
