package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/property-valuation/internal/logging"
	"github.com/iwvelando/property-valuation/internal/server"
	"github.com/iwvelando/property-valuation/internal/valuation"
	"github.com/iwvelando/property-valuation/pkg/constants"
	"github.com/iwvelando/property-valuation/pkg/pricetable"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	maxBodySize := flag.String("max-body-size", "", "request body limit override (e.g., 128K)")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	envFile := flag.String("env-file", ".env", "optional file of environment overrides")
	flag.Parse()

	if err := logging.LoadDotEnv(*envFile); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load environment file\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if err := applyOverrides(cfg, *address, *maxBodySize); err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid command line override\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	handler, err := buildHandler(logger, cfg)
	if err != nil {
		logger.Fatal("failed to build HTTP handler",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("valuation server listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped unexpectedly",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		logger.Info("valuation server stopped", zap.String("op", "main"))
	}
}

// applyOverrides applies command line flags on top of the loaded config.
func applyOverrides(cfg *server.Config, address, maxBodySize string) error {
	if address != "" {
		cfg.Address = address
	}
	if maxBodySize != "" {
		size, err := server.ParseSize(maxBodySize)
		if err != nil {
			return err
		}
		if size <= 0 {
			return fmt.Errorf("max body size must be positive: %s", maxBodySize)
		}
		cfg.SetBodySizeBytes(size)
	}
	return nil
}

// buildHandler loads the price table and factors named by cfg and wires them
// into the HTTP handler.
func buildHandler(logger *zap.Logger, cfg *server.Config) (http.Handler, error) {
	prices, err := pricetable.Load(cfg.PriceTablePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load price table: %w", err)
	}

	factors, err := cfg.LoadFactors()
	if err != nil {
		return nil, err
	}

	engine, err := valuation.NewEngine(prices, factors)
	if err != nil {
		return nil, fmt.Errorf("failed to build valuation engine: %w", err)
	}

	logger.Info("price table loaded",
		zap.String("op", "buildHandler"),
		zap.String("path", cfg.PriceTablePath()),
		zap.Int("districts", len(prices.Districts())),
		zap.Int("zones", prices.Len()),
	)

	return server.NewHandler(server.Options{
		Logger:         logger,
		Engine:         engine,
		Prices:         prices,
		MaxBodySize:    cfg.BodySizeBytes(),
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		Locale:         cfg.LocaleTag(),
	})
}
