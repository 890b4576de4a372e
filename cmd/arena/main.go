// Package main provides the arena binary: one headless duel between the
// player and an enemy template, driven from stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	enemyID := flag.String("enemy", "", "enemy template id; empty lists the available enemies")
	seed := flag.Int64("seed", 0, "non-zero selects the seeded random source with this seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != 0 {
		cfg.Encounter.RandomSource = config.RandomSeeded
		cfg.Encounter.Seed = *seed
	}

	app, cleanup, err := initializeApp(cfg)
	if err != nil {
		log.Fatalf("initializing arena: %v", err)
	}
	defer cleanup()

	if *enemyID == "" {
		fmt.Println("available enemies:")
		for _, id := range app.Service.Enemies() {
			fmt.Printf("  %s\n", id)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, ok, err := app.Run(ctx, *enemyID, os.Stdin, os.Stdout)
	if err != nil {
		app.Logger.Error("duel failed", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
	if ok {
		app.Logger.Info("duel finished", zap.Stringer("result", result))
	} else {
		app.Logger.Info("duel abandoned")
	}
}
