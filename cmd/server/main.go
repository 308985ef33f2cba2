package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gradebook/internal/assessment"
	"gradebook/internal/auth"
	"gradebook/internal/gateway"
	"gradebook/internal/grade"
	"gradebook/internal/shared"
)

func main() {
	log.Println("INFO: Starting Gradebook API Server...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	config, err := shared.LoadServiceConfig("server")
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if shared.IsDevelopment(config) {
		shared.PrintConfig(config)
	}

	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	// Wire services: the grade service consumes the registry's output.
	aggregator := grade.NewAggregator(config.Grading)
	assessmentService := assessment.NewService(db, config.Grading)
	services := &gateway.Services{
		Auth:       auth.NewService(db, config),
		Assessment: assessmentService,
		Grade:      grade.NewService(db, assessmentService, aggregator),
	}

	router := gateway.SetupRoutes(config, services)

	server := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("INFO: Server listening on port %s", config.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: Forced shutdown: %v", err)
	}

	log.Println("INFO: Server stopped.")
}
