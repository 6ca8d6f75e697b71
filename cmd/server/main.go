package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"chatrooms/internal/auth"
	"chatrooms/internal/config"
	"chatrooms/internal/database"
	httpDelivery "chatrooms/internal/delivery/http"
	"chatrooms/internal/delivery/ws"
	"chatrooms/internal/middleware"
	"chatrooms/internal/upload"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	ctx := context.Background()
	store, err := database.Connect(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer store.Close()

	version, err := store.Version(ctx)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if version != database.SchemaVersion {
		log.Fatalf("db: schema version %d, expected %d: run `manage migrate up`", version, database.SchemaVersion)
	}

	authSvc := auth.NewService(store, cfg.SecretKey, cfg.AccessTokenExpires)
	registry := ws.NewRegistry()
	files := upload.NewWriter(cfg.FSRoot)
	handler := httpDelivery.NewHandler(store, authSvc, registry, files, cfg)

	// Middleware onion: security headers around CORS around the routes.
	root := middleware.SecurityHeaders(middleware.CORS(cfg.AllowedOrigins, handler.Routes()))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("chatrooms listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}
