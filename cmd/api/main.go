package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onboardhq-backend/infrastructure/config"
	"onboardhq-backend/infrastructure/di"
	"onboardhq-backend/infrastructure/persistence/schema"
	"onboardhq-backend/interfaces/http/rest"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Local development runs against DynamoDB Local, so the table has to be
	// created here. Deployed environments get theirs from infrastructure-as-code
	if cfg.IsDevelopment() {
		if err := ensureLocalTable(ctx, cfg, container.Logger); err != nil {
			container.Logger.Fatal("Failed to prepare local table", zap.Error(err))
		}
	}

	router := rest.NewRouter(rest.Options{
		CommandBus:   container.CommandBus,
		QueryBus:     container.QueryBus,
		JWTValidator: container.JWTValidator,
		RateLimiter:  container.RateLimiter,
		EnableCORS:   cfg.EnableCORS,
		Debug:        cfg.IsDevelopment(),
		Logger:       container.Logger,

		CreatePreHire:    container.AppHandlers.CreatePreHire,
		OpenTicket:       container.AppHandlers.OpenTicket,
		TransitionTicket: container.AppHandlers.TransitionTicket,
		BundleCommands:   container.AppHandlers.Bundle,
		ScheduleEvent:    container.AppHandlers.ScheduleEvent,
		VenueCommands:    container.AppHandlers.Venue,
		NoteCommands:     container.AppHandlers.Note,
	})

	handler := router.Setup()

	// Drain the transactional outbox alongside the API process. Lambda
	// deployments run this as its own function instead
	go container.OutboxProcessor.Start(ctx)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	container.Logger.Info("Shutting down server...")

	container.OutboxProcessor.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

func ensureLocalTable(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	awsCfg, err := di.ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}
	client := di.ProvideDynamoDBClient(awsCfg)

	spec := schema.TableSpec{
		TableName:     cfg.DynamoDBTable,
		IndexName:     cfg.IndexName,
		GSI2IndexName: cfg.GSI2IndexName,
	}
	if err := schema.EnsureTable(ctx, client, spec, logger); err != nil {
		return err
	}
	// UpdateTimeToLive rejects repeat calls on an already-enabled table
	if err := schema.EnableTTL(ctx, client, cfg.DynamoDBTable); err != nil {
		logger.Warn("Could not enable TTL", zap.Error(err))
	}
	return nil
}
