package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/payment/stripe"
	"github.com/solmercado/tienda-api/internal/repository"
)

// CheckoutService opens hosted payment sessions for active carts.
type CheckoutService struct {
	carts     repository.CartRepository
	stripeCfg *stripe.Config
	currency  string
	shipping  decimal.Decimal
}

func NewCheckoutService(carts repository.CartRepository, stripeCfg *stripe.Config, currency string, shipping decimal.Decimal) *CheckoutService {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	return &CheckoutService{
		carts:     carts,
		stripeCfg: stripeCfg,
		currency:  currency,
		shipping:  shipping,
	}
}

// CheckoutSession is what the storefront needs to redirect the buyer.
type CheckoutSession struct {
	SessionID string `json:"id"`
	URL       string `json:"url"`
}

// CreateSession builds one provider line per cart line, plus the shipping
// charge, and opens the session. The cart id travels in session metadata so
// the webhook can finalize the right cart.
func (s *CheckoutService) CreateSession(ctx context.Context, cartID uint, buyerEmail, buyerName string) (*CheckoutSession, error) {
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
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	lines := make([]stripe.Line, 0, len(cart.Items)+1)
	for _, item := range cart.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		if name == "" {
			name = fmt.Sprintf("Producto %d", item.ProductID)
		}
		lines = append(lines, stripe.Line{
			Name:      name,
			UnitPrice: item.UnitPrice.Decimal,
			Quantity:  item.Quantity,
		})
	}
	lines = append(lines, stripe.Line{
		Name:      "Envío",
		UnitPrice: s.shipping,
		Quantity:  1,
	})

	result, err := stripe.CreateCheckoutSession(ctx, s.stripeCfg, stripe.CreateSessionInput{
		CartID:     cartID,
		BuyerEmail: buyerEmail,
		BuyerName:  buyerName,
		Currency:   s.currency,
		Lines:      lines,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	return &CheckoutSession{SessionID: result.SessionID, URL: result.URL}, nil
}
