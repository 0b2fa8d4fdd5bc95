package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"minewright.ai/internal/agent"
	"minewright.ai/internal/config"
	"minewright.ai/internal/coordinator"
	persistlog "minewright.ai/internal/persistence/log"
	"minewright.ai/internal/persistence/statedb"
	"minewright.ai/internal/protocol"
	"minewright.ai/internal/transport/httpapi"
	"minewright.ai/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", "", "http listen address (overrides config)")
		configPath = flag.String("config", "", "path to reflex.yaml (empty: defaults)")
		dataDir    = flag.String("data", "", "runtime data directory (overrides config)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[reflexd] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.ListenAddr = *addr
	}
	if strings.TrimSpace(*dataDir) != "" {
		cfg.DataDir = *dataDir
	}

	store, err := statedb.Open(filepath.Join(cfg.DataDir, "agents.db"))
	if err != nil {
		logger.Fatalf("open state db: %v", err)
	}
	defer store.Close()

	archive := persistlog.NewTelemetryArchive(cfg.DataDir)
	defer archive.Close()

	hub := observer.NewHub()
	onEvent := func(e protocol.TelemetryEvent) {
		if err := archive.WriteEvent(e); err != nil {
			logger.Printf("telemetry archive: %v", err)
		}
		hub.Publish(e)
	}

	coord := coordinator.NewClient(cfg.Coordinator.BaseURL, cfg.Coordinator.APIKey, cfg.CoordinatorTimeout())
	manager := agent.NewManager(agent.ManagerConfig{
		MaxActors:         cfg.Agents.MaxActors,
		TelemetryCapacity: cfg.Agents.TelemetryCapacity,
	}, store, coord, cfg.SyncInterval(), logger, onEvent)
	defer manager.Close()

	mux := http.NewServeMux()
	mux.Handle("/", httpapi.NewServer(manager, logger).Handler())
	mux.HandleFunc("/watch/", observer.NewServer(hub, logger).WSHandler())

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mux,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Coordinator cadence: poke every live actor; each actor's sync
	// manager gates the actual exchange on its own interval.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				manager.SyncAll()
			}
		}
	}()

	go func() {
		logger.Printf("listening on %s (coordinator %s, sync every %s)",
			cfg.ListenAddr, cfg.Coordinator.BaseURL, cfg.SyncInterval())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
