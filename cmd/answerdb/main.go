package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"answerdb/internal/app"
	"answerdb/pkg/config"
	"answerdb/pkg/logger"
	"answerdb/pkg/shutdown"
)

// build metadata - set via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	_ = godotenv.Load(".env")
	logger.Init()
	defer logger.Sync()

	flags := config.ParseConfigFlags()
	eff, err := config.LoadEffective(flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.New(eff, version, commit, buildDate)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		logger.Error("server_exit", "error", err)
		log.Fatalf("server exit: %v", err)
	}
	logger.Info("server_stopped")
}
