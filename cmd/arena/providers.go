package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/game/ai"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/command"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/scripting"
)

// ProviderSet builds an App from a validated config.Config.
var ProviderSet = wire.NewSet(
	provideLogger,
	provideRoller,
	provideRules,
	provideParams,
	provideContent,
	provideScripts,
	ai.DefaultTable,
	command.DefaultRegistry,
	combat.NewManager,
	provideService,
	wire.Bind(new(combat.Roller), new(*dice.Roller)),
	wire.Bind(new(npc.Chancer), new(*dice.Roller)),
	wire.Struct(new(App), "*"),
)

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideRoller(cfg config.Config, logger *zap.Logger) *dice.Roller {
	var src dice.Source
	if cfg.Encounter.RandomSource == config.RandomSeeded {
		src = dice.NewSeededSource(cfg.Encounter.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	return dice.NewRoller(src, logger)
}

func provideRules(cfg config.Config) combat.Rules {
	return combat.Rules{FleeChance: cfg.Encounter.FleeChance}
}

func provideParams(cfg config.Config) ai.Params {
	return ai.Params{LowHealthPercent: cfg.Encounter.LowHealthPercent}
}

func provideContent(cfg config.Config, logger *zap.Logger) (*arena.Content, error) {
	content, err := arena.LoadContent(cfg.Content)
	if err != nil {
		return nil, err
	}
	logger.Info("content loaded",
		zap.Int("spells", len(content.Spells.All())),
		zap.Int("items", len(content.Items.All())),
		zap.Int("enemies", len(content.Enemies.IDs())),
	)
	return content, nil
}

func provideService(
	content *arena.Content,
	scripts arena.Scripts,
	table *ai.Table,
	params ai.Params,
	manager *combat.Manager,
	loot npc.Chancer,
	logger *zap.Logger,
) (*arena.Service, error) {
	svc := arena.NewService(content, scripts, table, params, manager, loot, logger)
	if err := svc.Validate(); err != nil {
		return nil, err
	}
	return svc, nil
}

// provideScripts returns a nil Scripts when no script directory is configured.
func provideScripts(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (arena.Scripts, func(), error) {
	if cfg.Content.ScriptsDir == "" {
		logger.Info("scripting disabled")
		return nil, func() {}, nil
	}
	mgr := scripting.NewManager(roller, cfg.Scripting.InstructionLimit, logger)
	if err := mgr.LoadDirectory(cfg.Content.ScriptsDir); err != nil {
		mgr.Close()
		return nil, nil, err
	}
	logger.Info("scripts loaded", zap.Strings("scripts", mgr.Names()))
	return mgr, mgr.Close, nil
}
