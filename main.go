package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/bridgecore/finality-bridge/pkg/bridge"
	"github.com/bridgecore/finality-bridge/pkg/config"
	"github.com/bridgecore/finality-bridge/pkg/database"
	"github.com/bridgecore/finality-bridge/pkg/kvdb"
	"github.com/bridgecore/finality-bridge/pkg/logging"
	"github.com/bridgecore/finality-bridge/pkg/metrics"
	"github.com/bridgecore/finality-bridge/pkg/server"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML configuration file (optional)")
		showHelp   = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("warning: %v, defaulting to info", err)
	}
	logger, err := logging.NewLogger(&logging.Config{Level: level, Format: cfg.LogFormat, Output: "stdout"})
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	logger.Info("starting finality-bridge", logging.Field{Key: "listen_addr", Value: cfg.ListenAddr})

	db, err := dbm.NewDB(cfg.KVDBName, dbm.GoLevelDBBackend, cfg.DataDir)
	if err != nil {
		log.Fatal("failed to open KV store: ", err)
	}
	defer db.Close()

	registry := bridge.NewRegistry(kvdb.NewKVAdapter(db), logger.WithComponent("bridge"))

	var auditClient *database.Client
	if cfg.DatabaseURL != "" {
		auditClient, err = database.NewClient(cfg)
		if err != nil {
			logger.Warn("audit database unavailable, continuing without an audit trail", logging.Field{Key: "error", Value: err.Error()})
			auditClient = nil
		} else {
			if err := auditClient.MigrateUp(context.Background()); err != nil {
				logger.Warn("audit database migration failed", logging.Field{Key: "error", Value: err.Error()})
			}
			defer auditClient.Close()
		}
	} else {
		logger.Info("no audit database configured, running without an audit trail")
	}

	// Pass a bare nil interface rather than a nil *database.Client so
	// Handlers' "h.audit == nil" check works: a nil pointer wrapped in a
	// non-nil interface value is itself a non-nil interface.
	var handlers *server.Handlers
	if auditClient != nil {
		handlers = server.NewHandlers(registry, cfg.AuthorizedOrigins, log.New(log.Writer(), "[BridgeAPI] ", log.LstdFlags), auditClient)
	} else {
		handlers = server.NewHandlers(registry, cfg.AuthorizedOrigins, log.New(log.Writer(), "[BridgeAPI] ", log.LstdFlags), nil)
	}

	mux := server.NewMux(handlers)
	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler()}

	go func() {
		logger.Info("bridge API listening", logging.Field{Key: "addr", Value: cfg.ListenAddr})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("bridge API server failed: ", err)
		}
	}()

	go func() {
		logger.Info("metrics listening", logging.Field{Key: "addr", Value: cfg.MetricsAddr})
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("metrics server failed: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("bridge API shutdown error", logging.Field{Key: "error", Value: err.Error()})
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown error", logging.Field{Key: "error", Value: err.Error()})
	}

	logger.Info("stopped")
}

func printHelp() {
	log.Println("finality-bridge: verifies finality justifications from a GRANDPA-style remote chain")
	log.Println()
	log.Println("Usage: finality-bridge [-config path/to/config.yaml]")
	flag.PrintDefaults()
}
