package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/pickpair/cliparse"
	"github.com/danielhkuo/pickpair/db"
	"github.com/danielhkuo/pickpair/middleware"
	"github.com/danielhkuo/pickpair/ranking"
	"github.com/danielhkuo/pickpair/router"
	"github.com/danielhkuo/pickpair/session"
	"github.com/danielhkuo/pickpair/store"
	"github.com/danielhkuo/pickpair/store/gormstore"
	"github.com/danielhkuo/pickpair/store/memory"
	"github.com/danielhkuo/pickpair/store/sqlstore"
)

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the item store
	itemStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("item store unavailable", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("Item store ready", "type", cfg.DatabaseType)

	if cfg.SeedFile != "" {
		if err := seedStore(ctx, itemStore, cfg); err != nil {
			slog.Error("seeding failed", "file", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
	}

	// Sessions share one sampler and one store
	mgr := session.NewManager(itemStore, session.Options{
		StoreTimeout:    cfg.StoreTimeout,
		PopulationLimit: cfg.PopulationLimit,
		Sampler:         ranking.NewSampler(),
		Logger:          slog.Default(),
	})
	if cfg.SessionIdleTTL > 0 {
		go mgr.RunPruner(ctx, cfg.SessionIdleTTL/2, cfg.SessionIdleTTL)
	}

	// Create router
	mux := router.NewRouter(mgr, itemStore, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigins)(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore returns the configured item store and a function releasing it
func openStore(ctx context.Context, cfg cliparse.Config) (store.ItemStore, func() error, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabaseMemory:
		return memory.New(), func() error { return nil }, nil
	case cliparse.DatabaseSQLite:
		s, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case cliparse.DatabasePostgres:
		s, err := sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case cliparse.DatabaseGorm:
		s, err := gormstore.Open(ctx, cfg.DatabaseURL, slog.Default())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
}

func seedStore(ctx context.Context, s store.ItemStore, cfg cliparse.Config) error {
	seeder, ok := s.(store.Seeder)
	if !ok {
		return fmt.Errorf("%s store cannot be seeded", cfg.DatabaseType)
	}

	items, err := db.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout+10*time.Second)
	defer cancel()
	if err := seeder.Seed(ctx, items); err != nil {
		return err
	}

	slog.Info("Items seeded", "file", cfg.SeedFile, "count", len(items))
	return nil
}
