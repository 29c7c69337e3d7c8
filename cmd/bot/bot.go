package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

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
	zap.S().Info("Starting AquaHealth Bot...")

	if cfg.Telegram.Token == "" {
		zap.S().Fatal("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	services, closeServices, err := app.Services(cfg)
	if err != nil {
		zap.S().Fatalf("Failed to initialize services: %v", err)
	}
	defer closeServices()

	telegramBot, err := api.NewTelegramBot(cfg.Telegram.Token, services)
	if err != nil {
		zap.S().Fatalf("Failed to initialize Telegram bot: %v", err)
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		zap.S().Info("Shutting down bot...")
		telegramBot.Stop()
	}()

	telegramBot.Start()
}
