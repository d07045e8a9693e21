package main

import (
	"context"
	"errors"
	"fmt"
	"medifind/internal/client"
	"medifind/internal/config"
	"medifind/internal/logger"
	"medifind/internal/repository"
	"medifind/internal/server"
	"medifind/internal/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	pricePolicy, err := service.ParsePricePolicy(cfg.Order.PricePolicy)
	if err != nil {
		log.Fatal("invalid order config", zap.Error(err))
	}

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatal("failed to init database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo)
	catalogService := service.NewCatalogService(storeRepo, medicationRepo, inventoryRepo)
	inventoryService := service.NewInventoryService(db, log, storeRepo, medicationRepo, inventoryRepo)
	orderService := service.NewOrderService(
		db, log, pricePolicy,
		storeRepo,
		inventoryRepo,
		medicationRepo,
		orderRepo,
		notificationService,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, log, userRepo, orderService, catalogService, inventoryService, notificationService)

	log.Info("starting HTTP server", zap.String("addr", serverAddr), zap.String("env", cfg.Environment.Name))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}
