package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/vegasjack/cmd/vegasjack/shared"
	"github.com/lox/vegasjack/internal/randutil"
	"github.com/lox/vegasjack/internal/simulator"
)

// SimulateCmd plays sessions with a fixed strategy and prints statistics
type SimulateCmd struct {
	Sessions      int           `default:"1000" help:"Number of sessions to play"`
	Rounds        int           `default:"200" help:"Maximum rounds per session"`
	Bet           int           `default:"100" help:"Fixed bet per round (capped at the bankroll)"`
	HitBelow      int           `default:"17" help:"Autoplayer hits while its total is below this"`
	Recovery      string        `help:"Recovery challenge (defaults to the config file)"`
	Seed          *int64        `help:"Deterministic RNG seed (optional)"`
	Workers       int           `default:"0" help:"Parallel workers (0 for GOMAXPROCS)"`
	PressInterval time.Duration `default:"150ms" help:"Base interval between simulated recovery presses"`
	PressJitter   time.Duration `default:"250ms" help:"Random extra delay added to each press"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(os.Stderr, g.Debug)

	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if c.Recovery != "" {
		cfg.Recovery.Game = c.Recovery
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seed, explicit := randutil.ResolveSeed(c.Seed, time.Now())
	logger.Info("Starting simulation", "sessions", c.Sessions, "rounds", c.Rounds, "seed", seed, "explicit_seed", explicit)

	// per-session logs are only useful when debugging
	simLogger := logger.WithPrefix("sim")
	if !g.Debug {
		simLogger.SetLevel(log.WarnLevel)
	}

	simCfg := simulator.DefaultConfig()
	simCfg.Sessions = c.Sessions
	simCfg.MaxRounds = c.Rounds
	simCfg.Bet = c.Bet
	simCfg.HitBelow = c.HitBelow
	simCfg.Seed = seed
	simCfg.Rules = cfg.Rules()
	simCfg.Recovery = cfg.Recovery.Game
	simCfg.MiniGames = cfg.MiniGameConfigs()
	simCfg.PressInterval = c.PressInterval
	simCfg.PressJitter = c.PressJitter
	simCfg.Logger = simLogger
	if c.Workers > 0 {
		simCfg.Workers = c.Workers
	}

	ctx := shared.SetupSignalHandler(logger)
	start := time.Now()
	res, err := simulator.New(simCfg).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, simCfg, res)
	fmt.Printf("\nSeed: %d  Duration: %v\n", seed, time.Since(start).Round(time.Millisecond))
	return nil
}
