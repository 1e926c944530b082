// Package main is the entry point for the jokeshare web server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"

	"jokeshare/src/app/server"
	"jokeshare/src/core/ports"
	"jokeshare/src/infra/config"
	"jokeshare/src/infra/db"
	"jokeshare/src/infra/logger"
	"jokeshare/src/infra/repo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
		"store", cfg.Store.Driver,
	)

	var store ports.Store
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store = repo.NewMemoryRepository()
	default:
		pg, err := db.New(context.Background(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer pg.Close()
		store = repo.NewPostgresRepository(pg, log)
	}

	srv := server.New(cfg, log, store)

	// Run blocks until shutdown signal is received
	return srv.Run()
}
