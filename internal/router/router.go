package router

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/solmercado/tienda-api/internal/cache"
	"github.com/solmercado/tienda-api/internal/config"
	adminhandlers "github.com/solmercado/tienda-api/internal/http/handlers/admin"
	publichandlers "github.com/solmercado/tienda-api/internal/http/handlers/public"
	"github.com/solmercado/tienda-api/internal/logger"
	"github.com/solmercado/tienda-api/internal/provider"
)

// SetupRouter builds the gin engine with all storefront and admin routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tn"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Uploaded product and brand images.
	r.Static("/uploads", "./uploads")

	// Storefront cart and payment routes keep their historical paths; the
	// deployed frontend calls them without a version prefix.
	r.POST("/carts", publicHandler.CreateCart)
	r.GET("/carts/:id", publicHandler.GetCart)
	r.POST("/cart-line-items", publicHandler.AddCartItem)
	r.PUT("/cart-line-items/:id", publicHandler.UpdateCartItem)
	r.DELETE("/cart-line-items/:id", publicHandler.RemoveCartItem)
	r.DELETE("/cart-line-items/cart/:cartId", publicHandler.ClearCart)

	r.POST("/payment/create-checkout-session",
		RateLimitMiddleware(redisClient, checkoutRule, nil),
		publicHandler.CreateCheckoutSession)
	r.POST("/payment/webhook", publicHandler.PaymentWebhook)
	r.POST("/orders/save",
		JWTAuthMiddleware(c.AuthService),
		RateLimitMiddleware(redisClient, checkoutRule, nil),
		publicHandler.SaveOrder)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/auth/register", publicHandler.Register)
		apiV1.POST("/auth/login",
			RateLimitMiddleware(redisClient, loginRule, nil),
			publicHandler.Login)

		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/brands", publicHandler.ListBrands)

		admin := apiV1.Group("/admin")
		admin.Use(JWTAuthMiddleware(c.AuthService))
		admin.Use(AdminOnlyMiddleware())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)

			admin.GET("/products", adminHandler.ListProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.GET("/brands", adminHandler.ListBrands)
			admin.GET("/brands/:id", adminHandler.GetBrand)
			admin.POST("/brands", adminHandler.CreateBrand)
			admin.PUT("/brands/:id", adminHandler.UpdateBrand)
			admin.DELETE("/brands/:id", adminHandler.DeleteBrand)

			admin.GET("/persons", adminHandler.ListPersons)
			admin.GET("/persons/:id", adminHandler.GetPerson)
			admin.POST("/persons", adminHandler.CreatePerson)
			admin.PUT("/persons/:id", adminHandler.UpdatePerson)
			admin.DELETE("/persons/:id", adminHandler.DeletePerson)

			admin.GET("/sales", adminHandler.ListSales)
			admin.GET("/sales/:id", adminHandler.GetSale)
			admin.PATCH("/sales/:id/status", adminHandler.UpdateSaleStatus)
		}
	}

	return r
}
