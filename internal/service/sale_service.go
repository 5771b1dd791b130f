package service

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/logger"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

// SaleNotifier enqueues post-sale work. Finalization must commit whether or
// not the queue is reachable, so implementations report errors and the
// caller only logs them.
type SaleNotifier interface {
	NotifySaleFinalized(saleID uint) error
}

// SaleService turns carts into sales. Both entry points, the payment webhook
// and the direct order save, run the same transactional primitive.
type SaleService struct {
	db       *gorm.DB
	sales    repository.SaleRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	persons  repository.PersonRepository
	shipping decimal.Decimal
	notifier SaleNotifier
}

func NewSaleService(
	db *gorm.DB,
	sales repository.SaleRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	persons repository.PersonRepository,
	shipping decimal.Decimal,
	notifier SaleNotifier,
) *SaleService {
	return &SaleService{
		db:       db,
		sales:    sales,
		carts:    carts,
		products: products,
		persons:  persons,
		shipping: shipping,
		notifier: notifier,
	}
}

// SaveSaleLine is one requested line of a direct order.
type SaveSaleLine struct {
	ProductID uint `json:"id_producto"`
	Quantity  int  `json:"cantidad"`
}

// SaveSaleInput is the direct-order request body. A fresh cart is always
// fabricated for the sale; the client's cart id and total are advisory and
// never trusted.
type SaveSaleInput struct {
	PersonID      *uint          `json:"id_persona"`
	BuyerEmail    string         `json:"correo"`
	PaymentMethod string         `json:"metodo_pago"`
	Lines         []SaveSaleLine `json:"productos"`
}

// FinalizeCheckoutSession finalizes the cart a paid checkout session points
// at. A redelivered event for a session that already produced a sale is a
// no-op returning the existing sale.
func (s *SaleService) FinalizeCheckoutSession(sessionID string, cartID uint, buyerEmail string) (*models.Sale, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || cartID == 0 {
		return nil, ErrInvalidInput
	}

	var sale *models.Sale
	alreadyFinalized := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		sales := s.sales.WithTx(tx)

		existing, err := sales.GetBySessionID(sessionID)
		if err != nil {
			return err
		}
		if existing != nil {
			sale = existing
			alreadyFinalized = true
			return nil
		}

		carts := s.carts.WithTx(tx)
		cart, err := carts.GetByID(cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		items, err := carts.ListItems(cartID)
		if err != nil {
			return err
		}

		sale, err = s.finalize(tx, cart, items, buyerEmail, constants.PaymentMethodStripe, &sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !alreadyFinalized {
		invalidateDashboardSummary()
		s.notifyFinalized(sale)
	}
	return sale, nil
}

// SaveSale is the direct path: it fabricates a fresh cart from the request
// lines and finalizes it in the same transaction. Unit prices are always the
// current effective product price, never client input.
func (s *SaleService) SaveSale(input SaveSaleInput) (*models.Sale, error) {
	if len(input.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = constants.PaymentMethodManual
	}

	var sale *models.Sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.carts.WithTx(tx)
		products := s.products.WithTx(tx)

		cart := &models.Cart{PersonID: input.PersonID, Status: constants.CartStatusActive}
		if err := carts.Create(cart); err != nil {
			return err
		}

		items := make([]models.CartItem, 0, len(input.Lines))
		for _, line := range input.Lines {
			if line.ProductID == 0 || line.Quantity <= 0 {
				return ErrInvalidInput
			}
			product, err := products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			unitPrice := product.EffectivePrice()
			item := models.CartItem{
				CartID:    cart.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				Total:     lineTotal(unitPrice, line.Quantity),
			}
			if err := carts.CreateItem(&item); err != nil {
				return err
			}
			items = append(items, item)
		}

		var err error
		sale, err = s.finalize(tx, cart, items, input.BuyerEmail, method, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboardSummary()
	s.notifyFinalized(sale)
	return sale, nil
}

// finalize is the shared primitive. It runs inside the caller's transaction:
// any failure, including a stock guard miss, rolls back every step.
func (s *SaleService) finalize(tx *gorm.DB, cart *models.Cart, items []models.CartItem, buyerEmail, paymentMethod string, sessionID *string) (*models.Sale, error) {
	if cart.Status == constants.CartStatusConverted {
		return nil, ErrCartNotActive
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	sales := s.sales.WithTx(tx)
	carts := s.carts.WithTx(tx)
	products := s.products.WithTx(tx)
	persons := s.persons.WithTx(tx)

	buyerEmail = strings.ToLower(strings.TrimSpace(buyerEmail))
	personID := cart.PersonID
	if personID == nil && buyerEmail != "" {
		person, err := persons.GetByEmail(buyerEmail)
		if err != nil {
			return nil, err
		}
		if person != nil {
			personID = &person.ID
		}
	}

	total := s.shipping
	for _, item := range items {
		total = total.Add(item.Total.Decimal)
	}

	sale := &models.Sale{
		PersonID:         personID,
		CartID:           cart.ID,
		Total:            models.NewMoneyFromDecimal(total),
		Status:           constants.SaleStatusCompleted,
		PaymentMethod:    paymentMethod,
		PaymentSessionID: sessionID,
		BuyerEmail:       buyerEmail,
	}
	saleItems := make([]models.SaleItem, 0, len(items))
	for _, item := range items {
		saleItems = append(saleItems, models.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Total,
		})
	}
	if err := sales.Create(sale, saleItems); err != nil {
		return nil, err
	}

	// Guarded decrement: zero rows affected means stock ran out between
	// cart time and now, and the whole sale rolls back.
	for _, item := range items {
		affected, err := products.DecrementStock(item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			product, err := products.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			available := 0
			if product != nil {
				available = product.Stock
			}
			return nil, &StockInsufficientError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: available,
			}
		}
	}

	if err := carts.UpdateStatus(cart.ID, constants.CartStatusConverted); err != nil {
		return nil, err
	}
	if err := carts.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *SaleService) notifyFinalized(sale *models.Sale) {
	if s.notifier == nil || sale == nil {
		return
	}
	if err := s.notifier.NotifySaleFinalized(sale.ID); err != nil {
		logger.Warnw("sale confirmation enqueue failed", "venta_id", sale.ID, "error", err)
	}
}

// GetSale loads one sale with its lines.
func (s *SaleService) GetSale(saleID uint) (*models.Sale, error) {
	sale, err := s.sales.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

// ListSales pages through sales for the admin surface.
func (s *SaleService) ListSales(filter repository.SaleListFilter) ([]models.Sale, int64, error) {
	return s.sales.List(filter)
}

// Transitions an admin may apply. Canceled is terminal.
var saleStatusTransitions = map[string][]string{
	constants.SaleStatusProcessing: {constants.SaleStatusShipped, constants.SaleStatusCompleted, constants.SaleStatusCanceled},
	constants.SaleStatusShipped:    {constants.SaleStatusCompleted, constants.SaleStatusCanceled},
	constants.SaleStatusCompleted:  {constants.SaleStatusShipped, constants.SaleStatusCanceled},
	constants.SaleStatusCanceled:   {},
}

// UpdateSaleStatus applies an admin status change, restricted to the known
// states and their allowed transitions.
func (s *SaleService) UpdateSaleStatus(saleID uint, status string) (*models.Sale, error) {
	sale, err := s.sales.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	if sale.Status == status {
		return sale, nil
	}

	allowed, known := saleStatusTransitions[sale.Status]
	if !known {
		return nil, ErrInvalidStatus
	}
	valid := false
	for _, next := range allowed {
		if next == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidStatus
	}

	if err := s.sales.UpdateStatus(saleID, status); err != nil {
		return nil, err
	}
	sale.Status = status
	invalidateDashboardSummary()
	return sale, nil
}
