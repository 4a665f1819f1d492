// Package main provides the arbiter binary: a scenario sandbox that loads a
// content directory, resolves one interaction between catalog entities, and
// then advances the game clock to exercise the status lifecycle.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/dmeverett/arbiter/internal/config"
	"github.com/dmeverett/arbiter/internal/game/catalog"
	"github.com/dmeverett/arbiter/internal/game/clock"
	"github.com/dmeverett/arbiter/internal/game/dice"
	"github.com/dmeverett/arbiter/internal/game/effect"
	"github.com/dmeverett/arbiter/internal/game/entity"
	"github.com/dmeverett/arbiter/internal/game/interaction"
	"github.com/dmeverett/arbiter/internal/game/rules"
	"github.com/dmeverett/arbiter/internal/game/status"
	"github.com/dmeverett/arbiter/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	userName := flag.String("user", "", "acting entity name from the catalog")
	targetName := flag.String("target", "", "target entity name from the catalog; empty = no target")
	interactionName := flag.String("interaction", "", "interaction name from the catalog")
	ticks := flag.Int("ticks", 5, "number of post-interaction clock ticks to run")
	tickSeconds := flag.Int64("tick-seconds", 6, "game seconds advanced per tick")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := dice.NewCryptoSource()
	if cfg.Dice.Seed != 0 {
		src = dice.NewSeededSource(cfg.Dice.Seed)
		logger.Info("using seeded dice source", zap.Int64("seed", cfg.Dice.Seed))
	}
	roller := dice.NewRoller(src, logger)

	loadStart := time.Now()
	cat, err := catalog.Load(cfg.Content.Dir, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	if err := cat.Validate(); err != nil {
		logger.Fatal("validating catalog", zap.Error(err))
	}
	logger.Info("content ready", zap.Duration("elapsed", time.Since(loadStart)))

	table := cat.Opposition()
	evaluator := rules.NewEvaluator(roller, table, logger)
	applier := effect.NewApplier(roller, table, logger)
	interactions := interaction.NewManager(evaluator, applier, cat, logger)
	statuses := status.NewManager(applier, cat, logger)

	clk := clock.New(cfg.Clock.Year, cfg.Clock.Month, cfg.Clock.Day, cfg.Clock.Hour)

	if *userName == "" || *interactionName == "" {
		logger.Info("no scenario requested; catalog summary only",
			zap.Strings("entities", cat.EntityNames()),
			zap.Strings("statuses", cat.StatusNames()),
			zap.Strings("interactions", cat.InteractionNames()),
		)
		return
	}

	user, ok := cat.Entity(*userName)
	if !ok {
		logger.Fatal("unknown user entity", zap.String("name", *userName))
	}
	itx, ok := cat.Interaction(*interactionName)
	if !ok {
		logger.Fatal("unknown interaction", zap.String("name", *interactionName))
	}

	var targets []*entity.Entity
	if *targetName != "" {
		target, ok := cat.Entity(*targetName)
		if !ok {
			logger.Fatal("unknown target entity", zap.String("name", *targetName))
		}
		targets = append(targets, target)
	}

	result := interactions.Execute(user, itx, targets, clk)
	fmt.Println(result.Narrative)
	logger.Info("interaction complete",
		zap.Bool("ok", result.OK),
		zap.String("log", result.Log),
	)

	for i := 0; i < *ticks; i++ {
		clk.Advance(*tickSeconds)
		for _, t := range targets {
			for _, line := range statuses.Tick(t, clk) {
				fmt.Printf("[%s] %s\n", clk, line)
			}
		}
		for _, line := range statuses.Tick(user, clk) {
			fmt.Printf("[%s] %s\n", clk, line)
		}
	}

	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}
