package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lumenchat/wa-bridge/internal/config"
	"github.com/lumenchat/wa-bridge/internal/llm"
	"github.com/lumenchat/wa-bridge/internal/routes"
	"github.com/lumenchat/wa-bridge/internal/store"
	"github.com/lumenchat/wa-bridge/internal/utils"
	"github.com/lumenchat/wa-bridge/internal/whatsapp"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Warning: Error loading .env file", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cleanup := utils.InitLogger(cfg)
	defer cleanup()

	utils.Zlog.Info("Starting application",
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
		zap.String("provider", cfg.AIProvider),
		zap.String("port", cfg.ServerPort))

	threads, err := store.Open(cfg.ThreadsDBPath)
	if err != nil {
		utils.Zlog.Error("Failed to open thread store", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := threads.Close(); err != nil {
			utils.Zlog.Error("Error closing thread store", zap.Error(err))
		}
	}()

	// Provider resolution happens exactly once; a bad AI_PROVIDER or missing
	// key kills the process before the webhook is exposed.
	provider, err := llm.NewProvider(context.Background(), cfg, threads)
	if err != nil {
		utils.Zlog.Error("Failed to create AI provider", zap.Error(err))
		os.Exit(1)
	}

	sender := whatsapp.NewClient(cfg.GraphVersion, cfg.PhoneNumberID, cfg.AccessToken)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	routes.SetupRoutes(router, cfg, threads, provider, sender)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Zlog.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Zlog.Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Zlog.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	utils.Zlog.Info("Server exited")
}
