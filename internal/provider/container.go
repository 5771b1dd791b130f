package provider

import (
	"github.com/shopspring/decimal"

	"github.com/solmercado/tienda-api/internal/cache"
	"github.com/solmercado/tienda-api/internal/config"
	"github.com/solmercado/tienda-api/internal/logger"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/payment/stripe"
	"github.com/solmercado/tienda-api/internal/queue"
	"github.com/solmercado/tienda-api/internal/repository"
	"github.com/solmercado/tienda-api/internal/service"
)

// Container wires configuration, repositories and services once at startup.
// Handlers and the worker consume it; nothing resolves dependencies lazily.
type Container struct {
	Config      *config.Config
	StripeCfg   *stripe.Config
	QueueClient *queue.Client

	// Repositories
	PersonRepo  repository.PersonRepository
	BrandRepo   repository.BrandRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	SaleRepo    repository.SaleRepository

	// Services
	AuthService      *service.AuthService
	PersonService    *service.PersonService
	BrandService     *service.BrandService
	ProductService   *service.ProductService
	CartService      *service.CartService
	SaleService      *service.SaleService
	CheckoutService  *service.CheckoutService
	DashboardService *service.DashboardService
	EmailService     *service.EmailService
}

// NewContainer builds the full dependency graph.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	stripeCfg := &stripe.Config{
		SecretKey:               cfg.Stripe.SecretKey,
		WebhookSecret:           cfg.Stripe.WebhookSecret,
		SuccessURL:              cfg.Stripe.SuccessURL,
		CancelURL:               cfg.Stripe.CancelURL,
		APIBaseURL:              cfg.Stripe.APIBaseURL,
		WebhookToleranceSeconds: cfg.Stripe.WebhookToleranceSeconds,
	}
	stripeCfg.Normalize()

	c := &Container{
		Config:      cfg,
		StripeCfg:   stripeCfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.PersonRepo = repository.NewPersonRepository(db)
	c.BrandRepo = repository.NewBrandRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.SaleRepo = repository.NewSaleRepository(db)
}

func (c *Container) initServices() {
	db := models.DB
	shipping := shippingAmount(c.Config)

	var notifier service.SaleNotifier
	if c.QueueClient != nil {
		notifier = c.QueueClient
	}

	c.AuthService = service.NewAuthService(c.PersonRepo, c.Config.JWT)
	c.PersonService = service.NewPersonService(c.PersonRepo)
	c.BrandService = service.NewBrandService(c.BrandRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.BrandRepo)
	c.CartService = service.NewCartService(db, c.CartRepo, c.ProductRepo)
	c.SaleService = service.NewSaleService(db, c.SaleRepo, c.CartRepo, c.ProductRepo, c.PersonRepo, shipping, notifier)
	c.CheckoutService = service.NewCheckoutService(c.CartRepo, c.StripeCfg, c.Config.Checkout.Currency, shipping)
	c.DashboardService = service.NewDashboardService(c.SaleRepo, c.ProductRepo, c.PersonRepo)
	c.EmailService = service.NewEmailService(c.Config.Email, c.SaleRepo)
}

func shippingAmount(cfg *config.Config) decimal.Decimal {
	amount, err := decimal.NewFromString(cfg.Checkout.ShippingAmount)
	if err != nil || amount.IsNegative() {
		logger.Warnw("provider_invalid_shipping_amount", "value", cfg.Checkout.ShippingAmount)
		return decimal.RequireFromString("15.99")
	}
	return amount
}
