package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chepyr/go-project-tracker/internal/config"
	"github.com/chepyr/go-project-tracker/internal/db"
	"github.com/chepyr/go-project-tracker/internal/handlers"
	"github.com/chepyr/go-project-tracker/internal/service"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	dbConn, err := db.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("close database connection", zap.Error(err))
		}
	}()

	if err := db.EnsureSchema(context.Background(), dbConn); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	svc := service.New(dbConn, logger)
	handler := handlers.New(svc, logger, []byte(cfg.JWTSecret), cfg.IsProduction())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Routes(),
	}
	startServer(server, logger, cfg.Port)
}

func initLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}

func startServer(server *http.Server, logger *zap.Logger, port string) {
	logger.Info("starting server", zap.String("port", port))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
