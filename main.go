package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/insightlane/sales-engine/pkg/config"
	"github.com/insightlane/sales-engine/pkg/database"
	"github.com/insightlane/sales-engine/pkg/handlers"
	"github.com/insightlane/sales-engine/pkg/ingest"
	"github.com/insightlane/sales-engine/pkg/logging"
	"github.com/insightlane/sales-engine/pkg/middleware"
	"github.com/insightlane/sales-engine/pkg/repositories"
	"github.com/insightlane/sales-engine/pkg/services"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on shutdown

	ctx := context.Background()
	dbURL := cfg.Database.ConnectionURL()
	logger.Info("Connecting to database",
		zap.String("url", logging.SanitizeConnectionString(dbURL)))

	// Migrations run over database/sql; the pgx stdlib driver shares the
	// same connection settings as the pool below.
	sqlDB, err := sql.Open("pgx", dbURL)
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, "./migrations", logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            dbURL,
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Upload.Dir != "" {
		if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
			logger.Fatal("Failed to create upload directory", zap.Error(err))
		}
	}

	salesRepo := repositories.NewSalesRepository(db)

	policy := ingest.EstimationPolicy{
		ReviewPurchaseRate: cfg.Estimation.ReviewPurchaseRate,
		DateSpreadDays:     cfg.Estimation.DateSpreadDays,
		DefaultRegion:      cfg.Estimation.DefaultRegion,
	}
	importService := services.NewImportService(salesRepo, policy, logger)
	analyticsService := services.NewAnalyticsService(salesRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSalesHandler(cfg, importService, analyticsService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting sales-engine",
		zap.String("addr", addr),
		zap.String("env", cfg.Env))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
