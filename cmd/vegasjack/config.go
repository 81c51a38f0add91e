package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lox/vegasjack/internal/config"
	"github.com/lox/vegasjack/internal/fileutil"
)

// ConfigCmd groups the config file commands
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a config file with the default settings"`
	Show ConfigShowCmd `cmd:"" help:"Print the effective configuration"`
}

// ConfigInitCmd writes the defaults to the config file
type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing file"`
}

func (c *ConfigInitCmd) Run(g *Globals) error {
	err := fileutil.WriteNew(g.ConfigFile, config.Default().Encode(), 0o644, c.Force)
	if errors.Is(err, fileutil.ErrExists) {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", g.ConfigFile)
	return nil
}

// ConfigShowCmd prints the configuration after defaults and environment
// overrides are applied
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	_, err = os.Stdout.Write(cfg.Encode())
	return err
}
