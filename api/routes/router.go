package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wrapntrack/wrapntrack-backend/api/controllers"
	"github.com/wrapntrack/wrapntrack-backend/api/middleware"
	"github.com/wrapntrack/wrapntrack-backend/internal/accounts"
	"github.com/wrapntrack/wrapntrack-backend/internal/inventory"
	"github.com/wrapntrack/wrapntrack-backend/internal/orders"
	"github.com/wrapntrack/wrapntrack-backend/internal/reports"
	"github.com/wrapntrack/wrapntrack-backend/internal/suppliers"
	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
	"github.com/wrapntrack/wrapntrack-backend/pkg/metrics"
	"github.com/wrapntrack/wrapntrack-backend/pkg/redis"
)

// Deps bundles everything the router mounts. Redis and HTTPMetrics may be
// nil, the middleware that depends on them degrades to a no-op.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Accounts  accounts.Service
	Inventory inventory.Service
	Orders    orders.Service
	Suppliers suppliers.Service
	Reports   reports.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware)
	}

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore(d.Redis), logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.Accounts, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.Accounts, logg))
		r.Post("/verify-email", controllers.AuthVerifyEmail(d.Accounts, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/resend-code", controllers.AuthResendCode(d.Accounts, logg))
		r.Post("/forgot-password", controllers.AuthForgotPassword(d.Accounts, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(d.Accounts, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.AuthMe(d.Accounts, logg))
			r.Post("/change-email", controllers.AuthChangeEmail(d.Accounts, logg))
		})
	})

	r.Get("/api/products", controllers.CatalogList(d.Inventory, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore(d.Redis), logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(d.Inventory, logg))
			r.With(middleware.RequireVerified(logg)).Post("/", controllers.InventoryCreate(d.Inventory, logg))

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", controllers.ReportStockSummary(d.Reports, logg))
				r.Get("/low-stock", controllers.ReportLowStock(d.Reports, logg))
				r.Get("/expiring", controllers.ReportExpiring(d.Reports, logg))
				r.Get("/abc", controllers.ReportABC(d.Reports, logg))
				r.Get("/turnover", controllers.ReportTurnover(d.Reports, logg))
				r.Get("/movement", controllers.ReportMovement(d.Reports, logg))
				r.Get("/supplier-performance", controllers.ReportSupplierPerformance(d.Reports, logg))
			})

			r.Route("/{itemId}", func(r chi.Router) {
				r.Get("/", controllers.InventoryGet(d.Inventory, logg))
				r.With(middleware.RequireVerified(logg)).Put("/", controllers.InventoryUpdate(d.Inventory, logg))
				r.With(middleware.RequireVerified(logg)).Delete("/", controllers.InventoryArchive(d.Inventory, logg))
				r.With(middleware.RequireVerified(logg)).Post("/restore", controllers.InventoryRestore(d.Inventory, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(d.Orders, logg))
			r.With(middleware.RequireVerified(logg)).Post("/", controllers.OrderCreate(d.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(d.Orders, logg))
			r.With(middleware.RequireVerified(logg)).Put("/{orderId}", controllers.OrderUpdate(d.Orders, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(d.Suppliers, logg))
			r.With(middleware.RequireVerified(logg)).Post("/", controllers.SupplierCreate(d.Suppliers, logg))
			r.Route("/{supplierId}", func(r chi.Router) {
				r.Get("/", controllers.SupplierGet(d.Suppliers, logg))
				r.With(middleware.RequireVerified(logg)).Put("/", controllers.SupplierUpdate(d.Suppliers, logg))
				r.With(
					middleware.RequireVerified(logg),
					middleware.RequireRole(string(enums.AccountRoleAdmin), logg),
				).Delete("/", controllers.SupplierDelete(d.Suppliers, logg))
			})
		})
	})

	return r
}

func idempotencyStore(client *redis.Client) redis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}
