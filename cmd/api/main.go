package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack-app/fintrack/internal/config"
	"github.com/fintrack-app/fintrack/internal/db"
	"github.com/fintrack-app/fintrack/internal/repo"
	"github.com/fintrack-app/fintrack/internal/server"
	"github.com/fintrack-app/fintrack/internal/stats"
)

func main() {

	// Load configuration
	cfg := config.Load()

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set to a non-default value in prod")
	}

	// Connect to database FIRST
	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Successfully connected to the database")

	if cfg.Migrate {
		if err := db.Run(cfg.DatabaseURL()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Background row-count gauges
	collector := stats.Run(repo.NewUserRepo(database), repo.NewIncomeRepo(database))
	defer collector.Stop()

	srv := server.New(database, cfg)

	go func() {
		log.Println("Starting server on :" + cfg.Port)
		if err := srv.Start(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal, then drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
