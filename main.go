package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polls-service/cache"
	"polls-service/config"
	"polls-service/database"
	"polls-service/handlers"
	"polls-service/routes"
)

func main() {
	cfg := config.Load()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database initialized")

	if err := cache.InitRedis(cfg); err != nil {
		log.Printf("Warning: cache initialization failed: %v", err)
	}

	handlers.Init(database.DB)

	router := routes.SetupRouter(cfg)
	srv := routes.StartServer(router, cfg)
	log.Println("Server started")

	// Wait for an interrupt signal to shut down gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shut down: %v", err)
	}

	database.CloseDB()
	cache.CloseRedis()

	log.Println("Server exited gracefully")
}
