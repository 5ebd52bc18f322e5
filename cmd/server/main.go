package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lostcityforum/internal/seed"
	"lostcityforum/internal/server"
	"lostcityforum/internal/storage"
	"lostcityforum/internal/storage/inmemory"
	"lostcityforum/internal/storage/postgres"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

const defaultPort = "8080"

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	storageType := flag.String("storage", envOr("STORAGE", "postgres"), "storage backend (postgres or in-memory)")
	runSeed := flag.Bool("seed", false, "seed the database before serving")
	flag.Parse()

	port := envOr("PORT", defaultPort)

	var store storage.Storage
	log.Printf("starting server with %s storage", *storageType)
	if *storageType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			log.Fatal("DATABASE_URL must be set for postgres storage")
		}
		pg, err := postgres.New(dsn, postgres.Options{LogLevel: logger.Warn})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer func() {
			if err := pg.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()
		store = pg
	} else {
		store = inmemory.New()
	}

	if *runSeed {
		if err := seed.Run(context.Background(), store); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server.New(store, os.Getenv("DEBUG_KEY")).Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
