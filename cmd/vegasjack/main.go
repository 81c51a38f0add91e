package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/lox/vegasjack/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	ConfigFile string `short:"c" default:"vegasjack.hcl" type:"path" help:"HCL config file (missing file means defaults)"`
	EnvFile    string `default:".env" help:"Dotenv file loaded before reading the environment"`
	Debug      bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play many sessions headlessly and report statistics"`
	Config   ConfigCmd        `cmd:"" help:"Write or show the config file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("vegasjack"),
		kong.Description("Blackjack with a bankroll, a house to keep up and a loan man for hard times"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	ctx.FatalIfErrorf(loadDotenv(cli.EnvFile))
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadDotenv loads path into the environment. A missing file is not an error.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadConfig reads the config file and applies environment overrides. The
// result is not validated so commands can apply their own flags first.
func loadConfig(g *Globals) (*config.Config, error) {
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}
