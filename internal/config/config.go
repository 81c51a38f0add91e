// Package config loads vegasjack settings from an HCL file.
//
//	player {
//	  name     = "Ada"
//	  opponent = "named"
//	}
//
//	economy {
//	  starting_bankroll = 1000
//	  wealth_threshold  = 3000
//	  upkeep            = 75
//	  recovery_grant    = 500
//	}
//
//	minigame "strength" {
//	  duration         = "7s"
//	  start            = 50
//	  increment        = 3
//	  decay_per_second = 7.5
//	  threshold        = 100
//	}
//
//	recovery {
//	  game = "alternate"
//	}
//
//	ui {
//	  theme        = "rounded"
//	  fps          = 30
//	  dealer_delay = "1s"
//	  intro        = "5s"
//	}
//
// Every block and attribute is optional; omitted values take defaults.
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/vegasjack/internal/economy"
	"github.com/lox/vegasjack/internal/minigame"
)

// DefaultFile is the config file looked for in the working directory
const DefaultFile = "vegasjack.hcl"

// Config is the complete configuration
type Config struct {
	Player    *PlayerSettings   `hcl:"player,block"`
	Economy   *EconomySettings  `hcl:"economy,block"`
	MiniGames []MiniGameConfig  `hcl:"minigame,block"`
	Recovery  *RecoverySettings `hcl:"recovery,block"`
	UI        *UISettings       `hcl:"ui,block"`
}

// PlayerSettings names the player and picks how the dealer is presented
type PlayerSettings struct {
	Name     string `hcl:"name,optional"`
	Opponent string `hcl:"opponent,optional"` // "named" or "dealer"
}

// EconomySettings mirrors economy.Rules
type EconomySettings struct {
	StartingBankroll int `hcl:"starting_bankroll,optional"`
	WealthThreshold  int `hcl:"wealth_threshold,optional"`
	Upkeep           int `hcl:"upkeep,optional"`
	RecoveryGrant    int `hcl:"recovery_grant,optional"`
}

// MiniGameConfig overrides one recovery challenge. Durations are Go
// duration strings.
type MiniGameConfig struct {
	Kind           string   `hcl:"kind,label"`
	Duration       string   `hcl:"duration,optional"`
	Start          *float64 `hcl:"start,optional"`
	Increment      float64  `hcl:"increment,optional"`
	DecayPerSecond *float64 `hcl:"decay_per_second,optional"`
	Threshold      float64  `hcl:"threshold,optional"`
}

// RecoverySettings picks the challenge offered on bankruptcy
type RecoverySettings struct {
	Game string `hcl:"game,optional"`
}

// UISettings controls presentation only
type UISettings struct {
	Theme       string `hcl:"theme,optional"`
	FPS         int    `hcl:"fps,optional"`
	DealerDelay string `hcl:"dealer_delay,optional"`
	Intro       string `hcl:"intro,optional"`
}

// Themes lists the accepted ui.theme values
var Themes = []string{"classic", "rounded"}

// Opponents lists the accepted player.opponent values
var Opponents = []string{"named", "dealer"}

func minigameDefaults(c minigame.Config) MiniGameConfig {
	return MiniGameConfig{
		Kind:           c.Kind.String(),
		Duration:       c.Duration.String(),
		Start:          &c.Start,
		Increment:      c.Increment,
		DecayPerSecond: &c.DecayPerSecond,
		Threshold:      c.Threshold,
	}
}

// Default returns the default configuration
func Default() *Config {
	rules := economy.DefaultRules()
	return &Config{
		Player: &PlayerSettings{
			Opponent: "named",
		},
		Economy: &EconomySettings{
			StartingBankroll: rules.StartingBankroll,
			WealthThreshold:  rules.WealthThreshold,
			Upkeep:           rules.Upkeep,
			RecoveryGrant:    rules.RecoveryGrant,
		},
		MiniGames: []MiniGameConfig{
			minigameDefaults(minigame.StrengthConfig()),
			minigameDefaults(minigame.ProgressConfig()),
		},
		Recovery: &RecoverySettings{
			Game: "strength",
		},
		UI: &UISettings{
			Theme:       "rounded",
			FPS:         30,
			DealerDelay: "1s",
			Intro:       "5s",
		},
	}
}

// Load reads configuration from filename. A missing file yields the
// defaults; the result is not validated.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Player == nil {
		c.Player = defaults.Player
	}
	if c.Economy == nil {
		c.Economy = defaults.Economy
	}
	if c.Recovery == nil {
		c.Recovery = defaults.Recovery
	}
	if c.UI == nil {
		c.UI = defaults.UI
	}

	if c.Player.Opponent == "" {
		c.Player.Opponent = defaults.Player.Opponent
	}

	if c.Economy.StartingBankroll == 0 {
		c.Economy.StartingBankroll = defaults.Economy.StartingBankroll
	}
	if c.Economy.WealthThreshold == 0 {
		c.Economy.WealthThreshold = defaults.Economy.WealthThreshold
	}
	if c.Economy.Upkeep == 0 {
		c.Economy.Upkeep = defaults.Economy.Upkeep
	}
	if c.Economy.RecoveryGrant == 0 {
		c.Economy.RecoveryGrant = defaults.Economy.RecoveryGrant
	}

	for i := range c.MiniGames {
		mg := &c.MiniGames[i]
		kind, err := minigame.ParseKind(mg.Kind)
		if err != nil {
			continue // reported by Validate
		}
		d := minigameDefaults(minigame.DefaultConfig(kind))
		if mg.Duration == "" {
			mg.Duration = d.Duration
		}
		if mg.Increment == 0 {
			mg.Increment = d.Increment
		}
		if mg.Threshold == 0 {
			mg.Threshold = d.Threshold
		}
		// start and decay_per_second can be set to zero, so only absent
		// attributes take defaults
		if mg.Start == nil {
			mg.Start = d.Start
		}
		if mg.DecayPerSecond == nil {
			mg.DecayPerSecond = d.DecayPerSecond
		}
	}
	for _, d := range defaults.MiniGames {
		if c.miniGame(d.Kind) == nil {
			c.MiniGames = append(c.MiniGames, d)
		}
	}

	if c.Recovery.Game == "" {
		c.Recovery.Game = defaults.Recovery.Game
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.FPS == 0 {
		c.UI.FPS = defaults.UI.FPS
	}
	if c.UI.DealerDelay == "" {
		c.UI.DealerDelay = defaults.UI.DealerDelay
	}
	if c.UI.Intro == "" {
		c.UI.Intro = defaults.UI.Intro
	}
}

func (c *Config) miniGame(kind string) *MiniGameConfig {
	for i := range c.MiniGames {
		if c.MiniGames[i].Kind == kind {
			return &c.MiniGames[i]
		}
	}
	return nil
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if !slices.Contains(Opponents, c.Player.Opponent) {
		return fmt.Errorf("player: invalid opponent %q (want one of %v)", c.Player.Opponent, Opponents)
	}

	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("economy: %w", err)
	}

	seen := map[string]bool{}
	for _, mg := range c.MiniGames {
		if seen[mg.Kind] {
			return fmt.Errorf("minigame %q: declared more than once", mg.Kind)
		}
		seen[mg.Kind] = true

		cfg, err := mg.toMiniGame()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("minigame %w", err)
		}
	}

	if !slices.Contains(minigame.ChooserModes, c.Recovery.Game) {
		return fmt.Errorf("recovery: invalid game %q (want one of %v)", c.Recovery.Game, minigame.ChooserModes)
	}

	if !slices.Contains(Themes, c.UI.Theme) {
		return fmt.Errorf("ui: invalid theme %q (want one of %v)", c.UI.Theme, Themes)
	}
	if c.UI.FPS < 1 || c.UI.FPS > 120 {
		return fmt.Errorf("ui: fps must be between 1 and 120, got %d", c.UI.FPS)
	}
	if d, err := time.ParseDuration(c.UI.DealerDelay); err != nil || d < 0 {
		return fmt.Errorf("ui: invalid dealer_delay %q", c.UI.DealerDelay)
	}
	if d, err := time.ParseDuration(c.UI.Intro); err != nil || d < 0 {
		return fmt.Errorf("ui: invalid intro %q", c.UI.Intro)
	}
	return nil
}

func (mg MiniGameConfig) toMiniGame() (minigame.Config, error) {
	kind, err := minigame.ParseKind(mg.Kind)
	if err != nil {
		return minigame.Config{}, fmt.Errorf("minigame: %w", err)
	}
	d, err := time.ParseDuration(mg.Duration)
	if err != nil {
		return minigame.Config{}, fmt.Errorf("minigame %q: invalid duration: %w", mg.Kind, err)
	}
	cfg := minigame.Config{
		Kind:      kind,
		Duration:  d,
		Increment: mg.Increment,
		Threshold: mg.Threshold,
	}
	if mg.Start != nil {
		cfg.Start = *mg.Start
	}
	if mg.DecayPerSecond != nil {
		cfg.DecayPerSecond = *mg.DecayPerSecond
	}
	return cfg, nil
}

// Rules returns the economy rules
func (c *Config) Rules() economy.Rules {
	return economy.Rules{
		StartingBankroll: c.Economy.StartingBankroll,
		WealthThreshold:  c.Economy.WealthThreshold,
		Upkeep:           c.Economy.Upkeep,
		RecoveryGrant:    c.Economy.RecoveryGrant,
	}
}

// MiniGameConfigs returns the parsed challenge parameters. Call Validate first.
func (c *Config) MiniGameConfigs() []minigame.Config {
	var out []minigame.Config
	for _, mg := range c.MiniGames {
		if cfg, err := mg.toMiniGame(); err == nil {
			out = append(out, cfg)
		}
	}
	return out
}

// DealerDelay returns the parsed ui.dealer_delay
func (c *Config) DealerDelay() time.Duration {
	d, _ := time.ParseDuration(c.UI.DealerDelay)
	return d
}

// IntroDuration returns the parsed ui.intro
func (c *Config) IntroDuration() time.Duration {
	d, _ := time.ParseDuration(c.UI.Intro)
	return d
}

// FrameInterval returns the time between UI frames
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(c.UI.FPS, 1))
}

// Encode renders the configuration as HCL
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return hclwrite.Format(f.Bytes())
}
