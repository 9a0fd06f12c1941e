package main

import (
	"log"

	"github.com/UltraPon/SellUp/app/cmd"
	"github.com/UltraPon/SellUp/app/configs"
	"go.uber.org/zap"
)

func main() {
	env := configs.LoadEnv()

	logger, err := configs.NewLogger(env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cmd.RunCli(env, logger); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}
