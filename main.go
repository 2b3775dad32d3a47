package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"assetdesk/cmd"
	"assetdesk/internal/activity"
	"assetdesk/internal/api"
	"assetdesk/internal/config"
	"assetdesk/internal/database"
	"assetdesk/internal/gateway"
	"assetdesk/internal/logger"
	"assetdesk/internal/middleware"
	"assetdesk/internal/orchestrator"
	"assetdesk/internal/scancache"
	"assetdesk/internal/scanflow"
	"assetdesk/internal/synccache"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	zapLogger.Info("Connected to the database successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw := gateway.NewPostgresGateway(db, cfg.DatabaseURL, zapLogger)

	cache := synccache.New(gw, zapLogger)
	if err := cache.Start(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer cache.Dispose()

	recorder := activity.NewRecorder(gw, cache, zapLogger)
	mutations := orchestrator.NewService(gw, cache, recorder, zapLogger)

	scanStore, err := scancache.NewFileStore(cfg.ScanCachePath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	scans := scanflow.NewService(cache, scancache.New(scanStore, zapLogger), zapLogger)

	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery(zapLogger))
	handler := api.NewHandler(cache, mutations, scans, cfg.WarrantyWindowDays, zapLogger)
	handler.RegisterRoutes(router, []byte(cfg.JWTSecret))

	zapLogger.Info("Starting server", zap.String("host", cfg.AppHost))
	if err := router.Run(cfg.AppHost); err != nil {
		panic(err)
	}
}
