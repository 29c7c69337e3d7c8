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

	"github.com/abelzeko/aquahealth/internal/api"
	"github.com/abelzeko/aquahealth/internal/app"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml if present)")
	flag.Parse()

	cfg, cleanup, err := app.Init(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer cleanup()
	zap.S().Info("Starting AquaHealth API...")

	services, closeServices, err := app.Services(cfg)
	if err != nil {
		zap.S().Fatalf("Failed to initialize services: %v", err)
	}
	defer closeServices()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewRouter(services, app.RouterOptions(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.S().Infof("Listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zap.S().Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.S().Errorf("Graceful shutdown failed: %v", err)
	}
}
