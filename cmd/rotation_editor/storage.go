package main

import (
	"fmt"
	"log/slog"

	"github.com/courtside/rotations/internal/config"
	"github.com/courtside/rotations/internal/storage"
	"github.com/courtside/rotations/internal/storage/memory"
	sqlitestorage "github.com/courtside/rotations/internal/storage/sqlite"

	"github.com/rs/zerolog"
)

// newBackend creates and initialises the configured override store.
func newBackend(cfg config.StorageConfig, trace zerolog.Logger, log *slog.Logger) (storage.Backend, error) {
	backend, err := createStorageBackend(cfg, trace)
	if err != nil {
		log.Error("Failed to create storage backend", "error", err)
		return nil, err
	}
	if err := backend.Init(); err != nil {
		log.Error("Failed to initialize storage backend", "type", cfg.Type, "error", err)
		return nil, err
	}
	log.Info("Storage backend initialized", "type", cfg.Type)
	return backend, nil
}

func createStorageBackend(cfg config.StorageConfig, trace zerolog.Logger) (storage.Backend, error) {
	switch cfg.Type {
	case "", "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlitestorage.New(trace.With().Str("component", "database").Logger()), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
