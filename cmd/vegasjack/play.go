package main

import (
	"fmt"
	"time"

	"github.com/lox/vegasjack/cmd/vegasjack/shared"
	"github.com/lox/vegasjack/internal/display"
	"github.com/lox/vegasjack/internal/minigame"
	"github.com/lox/vegasjack/internal/randutil"
	"github.com/lox/vegasjack/internal/session"
)

// PlayCmd runs the interactive game
type PlayCmd struct {
	Name     string `help:"Player name (skips the login screen)"`
	Recovery string `help:"Recovery challenge: strength, progress, alternate or random"`
	Theme    string `help:"UI theme: classic or rounded"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
	NoColor  bool   `env:"NO_COLOR" help:"Disable colour output"`
	LogFile  string `default:"vegasjack.log" help:"File to write logs to"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Name != "" {
		cfg.Player.Name = c.Name
	}
	if c.Recovery != "" {
		cfg.Recovery.Game = c.Recovery
	}
	if c.Theme != "" {
		cfg.UI.Theme = c.Theme
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logFile, err := shared.SetupFileLogger(c.LogFile, g.Debug)
	if err != nil {
		return err
	}
	defer logFile.Close()

	seed, explicit := randutil.ResolveSeed(c.Seed, time.Now())
	if explicit {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Info("Using random seed", "seed", seed)
	}
	rng := randutil.New(seed)

	chooser, err := minigame.ParseChooser(cfg.Recovery.Game, rng)
	if err != nil {
		return err
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithRules(cfg.Rules()),
		session.WithChooser(chooser),
		session.WithDealerDelay(cfg.DealerDelay()),
	}
	for _, mg := range cfg.MiniGameConfigs() {
		opts = append(opts, session.WithMiniGame(mg))
	}
	sess := session.New(rng, opts...)

	logger.Info("Starting vegasjack",
		"version", version,
		"config", g.ConfigFile,
		"recovery", cfg.Recovery.Game,
		"theme", cfg.UI.Theme)

	ctx := shared.SetupSignalHandler(logger)
	return display.Run(ctx, sess, display.Options{
		PlayerName:    cfg.Player.Name,
		Opponent:      cfg.Player.Opponent,
		Theme:         cfg.UI.Theme,
		NoColor:       c.NoColor,
		IntroDuration: cfg.IntroDuration(),
		FrameInterval: cfg.FrameInterval(),
		Rng:           rng,
		Logger:        logger,
	})
}
