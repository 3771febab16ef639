package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/create141/Create-fi/internal/config"
	"github.com/create141/Create-fi/internal/handler"
	"github.com/create141/Create-fi/internal/oneinch"
	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/internal/scheduler"
	"github.com/create141/Create-fi/internal/service"
	"github.com/create141/Create-fi/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := initDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer closeDatabase(db)

	userRepo := repository.NewUserRepository(db)
	swapRepo := repository.NewSwapRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	accountSvc := service.NewAccountService(userRepo)
	swapSvc := service.NewSwapService(swapRepo, userRepo)
	orderSvc := service.NewOrderService(orderRepo, userRepo)
	portfolioSvc := service.NewPortfolioService(snapshotRepo, userRepo)

	aggregator := oneinch.NewClient(&cfg.Aggregator)

	orderScheduler := scheduler.NewOrderScheduler(orderSvc, cfg.Orders.ExpirySweepCron)
	if err := orderScheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler:", err)
	}
	defer orderScheduler.Stop()

	router := setupHTTPRouter(accountSvc, swapSvc, orderSvc, portfolioSvc, aggregator)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Instrument(router),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting on port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error:", err)
	}

	logger.Info("Server stopped")
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(db); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	return db, nil
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get database instance:", err)
		return
	}
	sqlDB.Close()
}

func setupHTTPRouter(
	accountSvc *service.AccountService,
	swapSvc *service.SwapService,
	orderSvc *service.OrderService,
	portfolioSvc *service.PortfolioService,
	aggregator *oneinch.Client,
) http.Handler {
	router := http.NewServeMux()

	userHandler := handler.NewUserHandler(accountSvc)
	swapHandler := handler.NewSwapHandler(accountSvc, swapSvc)
	orderHandler := handler.NewOrderHandler(accountSvc, orderSvc)
	portfolioHandler := handler.NewPortfolioHandler(accountSvc, portfolioSvc)
	proxyHandler := handler.NewProxyHandler(aggregator)

	router.HandleFunc("/api/users", userHandler.CreateOrFetch)
	router.HandleFunc("/api/users/", userHandler.Get)
	router.HandleFunc("/api/swap-transactions", swapHandler.Create)
	router.HandleFunc("/api/swap-transactions/", swapHandler.Route)
	router.HandleFunc("/api/limit-orders", orderHandler.Create)
	router.HandleFunc("/api/limit-orders/", orderHandler.Route)
	router.HandleFunc("/api/portfolio-snapshots", portfolioHandler.Create)
	router.HandleFunc("/api/portfolio-snapshots/", portfolioHandler.Latest)
	router.HandleFunc("/api/1inch/", proxyHandler.Route)
	router.HandleFunc("/health", handler.HandleHealth)
	router.Handle("/metrics", promhttp.Handler())

	fs := http.FileServer(http.Dir("./web"))
	router.Handle("/", fs)

	return router
}
