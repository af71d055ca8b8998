package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/carnager/clerk-modular/internal/config"
	"github.com/carnager/clerk-modular/internal/daemon"
	"github.com/carnager/clerk-modular/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (defaults to the XDG location)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, path, exists, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromValues(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if exists {
		logger.Info("configuration loaded", logging.String("path", path))
	} else {
		logger.Info("no configuration file found, using defaults")
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("clerkd exited", logging.Error(err))
		os.Exit(1)
	}
}
