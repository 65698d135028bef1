package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ordersync/internal/config"
	"ordersync/internal/logger"
	"ordersync/internal/services/bitrix"
	"ordersync/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	if cfg.BitrixWebhookBase == "" {
		logger.Fatal("BITRIX_WEBHOOK_BASE is not configured")
	}

	// Wire the same sync pipeline the API uses
	mappings := bitrix.DefaultMappings()
	mappings.CategoryID = cfg.BitrixCategoryID
	client := bitrix.NewClient(cfg.BitrixWebhookBase, logger)
	mapper := bitrix.NewMapper(mappings, logger)
	contacts := bitrix.NewContactResolver(client, logger)
	syncService := bitrix.NewSyncService(client, mapper, contacts, logger)

	// Initialize worker
	w := worker.New(cfg, logger, syncService)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
