package session

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/vegasjack/internal/deck"
	"github.com/lox/vegasjack/internal/economy"
	"github.com/lox/vegasjack/internal/minigame"
)

// Option configures a Session
type Option func(*sessionConfig)

type sessionConfig struct {
	clock       quartz.Clock
	logger      *log.Logger
	rules       economy.Rules
	chooser     minigame.Chooser
	miniGames   map[minigame.Kind]minigame.Config
	dealerDelay time.Duration
	bus         EventBus
	deckFactory func() *deck.Deck
	id          string
}

// WithClock sets the clock used for dealer pacing, recovery challenges and IDs
func WithClock(clock quartz.Clock) Option {
	return func(c *sessionConfig) {
		c.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithRules sets the economy rules
func WithRules(rules economy.Rules) Option {
	return func(c *sessionConfig) {
		c.rules = rules
	}
}

// WithChooser sets how the recovery challenge is picked on bankruptcy
func WithChooser(chooser minigame.Chooser) Option {
	return func(c *sessionConfig) {
		c.chooser = chooser
	}
}

// WithMiniGame overrides the parameters for one challenge kind
func WithMiniGame(cfg minigame.Config) Option {
	return func(c *sessionConfig) {
		c.miniGames[cfg.Kind] = cfg
	}
}

// WithDealerDelay sets the clock time between dealer actions. Zero plays
// the dealer out as soon as the player stands.
func WithDealerDelay(d time.Duration) Option {
	return func(c *sessionConfig) {
		c.dealerDelay = d
	}
}

// WithEventBus publishes session events on an existing bus
func WithEventBus(bus EventBus) Option {
	return func(c *sessionConfig) {
		c.bus = bus
	}
}

// WithDeckFactory supplies the deck for each new round. By default every
// round gets a freshly shuffled deck.
func WithDeckFactory(f func() *deck.Deck) Option {
	return func(c *sessionConfig) {
		c.deckFactory = f
	}
}

// WithID sets the session ID used in logs
func WithID(id string) Option {
	return func(c *sessionConfig) {
		c.id = id
	}
}
