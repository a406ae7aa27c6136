package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/opsdash/platform-pulse/internal/api"
	"github.com/opsdash/platform-pulse/internal/cache"
	"github.com/opsdash/platform-pulse/internal/config"
	"github.com/opsdash/platform-pulse/internal/engine"
	"github.com/opsdash/platform-pulse/internal/provider"
	"github.com/opsdash/platform-pulse/internal/provider/sqlite"
	"github.com/opsdash/platform-pulse/internal/provider/static"
	"github.com/opsdash/platform-pulse/internal/scheduler"
)

func main() {
	cfg := parseFlags()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	log.Printf("Starting platform-pulse server...")
	log.Printf("Config: port=%d, data-source=%s, interval=%s", cfg.Port, cfg.DataSource, cfg.EvaluationInterval)

	thresholds, err := config.LoadThresholds(cfg.ThresholdsFile)
	if err != nil {
		log.Fatalf("Failed to load thresholds: %v", err)
	}

	if cfg.ThresholdsFile != "" {
		validator, err := config.NewValidator(cfg.SchemaFile)
		if err != nil {
			log.Fatalf("Failed to create validator: %v", err)
		}
		if errs := validator.ValidateFile(cfg.ThresholdsFile); len(errs) > 0 {
			for _, e := range errs {
				log.Printf("Validation error: %v", e)
			}
			log.Fatalf("Threshold validation failed: %d errors", len(errs))
		}
	}

	var dataProvider provider.Provider
	var store *sqlite.Store

	switch cfg.DataSource {
	case "sqlite":
		store, err = sqlite.NewStore(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()
		dataProvider = store
		log.Printf("Using SQLite data source: %s", cfg.DatabasePath)

	case "static":
		dataProvider = static.New()
		log.Printf("Using static data source (demo mode)")
	}

	eng := engine.New(dataProvider, thresholds)

	sched := scheduler.NewScheduler(eng, cfg.EvaluationInterval)
	if store != nil {
		sched.SetAuditStorage(store)
	}

	var mirror *cache.Mirror
	if cfg.RedisAddr != "" {
		mirror, err = cache.NewMirror(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer mirror.Close()
		sched.SetMirror(mirror)
		log.Printf("Mirroring health snapshots to Redis: %s", cfg.RedisAddr)
	}

	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	apiServer := api.NewServer(eng, sched, addr)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- apiServer.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)

	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}

		sched.Stop()

		log.Println("Shutdown complete")
	}
}

func parseFlags() config.Config {
	cfg := config.DefaultConfig()

	flag.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "HTTP server host")
	flag.StringVar(&cfg.ThresholdsFile, "thresholds", cfg.ThresholdsFile, "Threshold YAML file (built-in defaults when empty)")
	flag.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "JSON schema for threshold validation")
	flag.StringVar(&cfg.DataSource, "data-source", cfg.DataSource, "Data source type (sqlite|static)")
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database path (required for sqlite data source)")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for snapshot mirroring (disabled when empty)")
	flag.DurationVar(&cfg.EvaluationInterval, "interval", cfg.EvaluationInterval, "Health evaluation interval")
	flag.IntVar(&cfg.WindowHours, "window-hours", cfg.WindowHours, "Default performance window in hours")
	flag.DurationVar(&cfg.GracefulShutdownTimeout, "shutdown-timeout", cfg.GracefulShutdownTimeout, "Graceful shutdown timeout")

	flag.Parse()

	return cfg
}
