package server

import (
	"database/sql"
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/coupon"
	"storefront-be/internal/currency"
	"storefront-be/internal/customer"
	"storefront-be/internal/handler"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/notify"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/payment/webhook"
	"storefront-be/internal/product"
	"storefront-be/internal/shipping"
	"storefront-be/internal/tax"

	"github.com/labstack/echo/v4"
)

// New wires repositories, services and handlers onto a single echo instance.
func New(cfg *config.Config, db *sql.DB) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logging())
	e.Use(middleware.RateLimit())
	e.Use(middleware.Auth(cfg.JWTSecret))
	e.Use(middleware.Currency())

	checkoutMetrics := metrics.NewCheckout()

	productRepo := product.NewRepository(db)
	couponRepo := coupon.NewRepository(db)
	cartRepo := cart.NewRepository(db)
	customerRepo := customer.NewRepository(db)
	shippingRepo := shipping.NewRepository(db)
	taxRepo := tax.NewRepository(db)
	currencyRepo := currency.NewRepository(db)
	orderRepo := order.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	deadletterRepo := notify.NewRepository(db)

	mailer := notify.NewHTTPMailer(cfg.MailAPIKey, cfg.MailAPIBaseURL, cfg.MailFromAddress)
	notifier := notify.NewService(mailer, deadletterRepo, checkoutMetrics)

	cartSvc := cart.NewService(cartRepo, productRepo, couponRepo)
	customerSvc := customer.NewService(customerRepo, cfg.JWTSecret, cfg.GuestEmailDomain)
	shippingCalc := shipping.NewCalculator(shippingRepo)
	taxCalc := tax.NewCalculator(taxRepo)
	currencyResolver := currency.NewResolver(currencyRepo)

	orderSvc := order.NewService(
		orderRepo,
		cartSvc,
		customerSvc,
		productRepo,
		shippingCalc,
		taxCalc,
		currencyResolver,
		paymentRepo,
		notifier,
		checkoutMetrics,
		cfg,
	)
	paymentSvc := payment.NewService(paymentRepo, orderRepo, customerRepo, notifier, checkoutMetrics)

	handler.NewAuthHandler(customerSvc).RegisterRoutes(e)
	handler.NewCartHandler(cartSvc).RegisterRoutes(e)
	handler.NewOrderHandler(orderSvc, paymentSvc, cfg.JWTSecret).
		RegisterRoutes(e, middleware.RequireAuth(), middleware.RequireAdmin())
	webhook.NewHandler(paymentSvc, currencyResolver, cfg.ChannelCode, cfg.PaymentCallbackToken).
		RegisterRoutes(e)

	e.GET("/healthz", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "down"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", func(c echo.Context) error {
		return c.JSON(http.StatusOK, checkoutMetrics.Snapshot())
	}, middleware.RequireAuth(), middleware.RequireAdmin())

	return e
}
