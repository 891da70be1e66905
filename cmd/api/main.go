package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wrapntrack/wrapntrack-backend/api/routes"
	"github.com/wrapntrack/wrapntrack-backend/internal/accounts"
	"github.com/wrapntrack/wrapntrack-backend/internal/inventory"
	"github.com/wrapntrack/wrapntrack-backend/internal/orders"
	"github.com/wrapntrack/wrapntrack-backend/internal/reports"
	"github.com/wrapntrack/wrapntrack-backend/internal/suppliers"
	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
	"github.com/wrapntrack/wrapntrack-backend/pkg/mailer"
	"github.com/wrapntrack/wrapntrack-backend/pkg/metrics"
	"github.com/wrapntrack/wrapntrack-backend/pkg/migrate"
	"github.com/wrapntrack/wrapntrack-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var sender mailer.Sender
	if cfg.Mailer.Enabled() {
		client, err := mailer.NewClient(cfg.Mailer)
		if err != nil {
			logg.Error(context.Background(), "failed to create mailer", err)
			os.Exit(1)
		}
		sender = client
	} else {
		logg.Warn(context.Background(), "mailer API key not set, emails will only be logged")
		sender = mailer.NewLogSender(logg)
	}

	accountsService, err := accounts.NewService(accounts.ServiceParams{
		Repo:            accounts.NewRepository(dbClient.DB()),
		Tx:              dbClient,
		Sender:          sender,
		Logger:          logg,
		VerificationCfg: cfg.Verification,
		PasswordCfg:     cfg.Password,
		JWTCfg:          cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	supplierRepo := suppliers.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		Repo:      inventory.NewRepository(dbClient.DB()),
		Suppliers: supplierRepo,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	suppliersService, err := suppliers.NewService(suppliers.ServiceParams{
		Repo:   supplierRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		DB:     dbClient,
		Config: cfg.Orders,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reportsService, err := reports.NewService(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
			Accounts:    accountsService,
			Inventory:   inventoryService,
			Orders:      ordersService,
			Suppliers:   suppliersService,
			Reports:     reportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
