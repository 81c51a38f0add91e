package game

import (
	"github.com/charmbracelet/log"
	"github.com/lox/vegasjack/internal/deck"
)

// RoundOption configures a Round during creation.
type RoundOption func(*roundConfig)

// roundConfig holds the optional parts of a round
type roundConfig struct {
	id     string
	deck   *deck.Deck // If provided, used instead of a fresh deck
	logger *log.Logger
}

// WithDeck sets a specific deck, typically a stacked one for tests.
// The round takes ownership of it.
func WithDeck(d *deck.Deck) RoundOption {
	return func(c *roundConfig) {
		c.deck = d
	}
}

// WithID sets the identifier used in logs and snapshots
func WithID(id string) RoundOption {
	return func(c *roundConfig) {
		c.id = id
	}
}

// WithLogger sets the logger the round reports transitions to
func WithLogger(logger *log.Logger) RoundOption {
	return func(c *roundConfig) {
		c.logger = logger
	}
}
