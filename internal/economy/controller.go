package economy

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/vegasjack/internal/game"
)

// ErrInvalidBet is returned when a bet is not positive or exceeds the
// bankroll. Callers are expected to validate bets before placing them.
var ErrInvalidBet = errors.New("economy: invalid bet")

// Controller tracks the bankroll across rounds. It is not safe for
// concurrent use; a session owns exactly one.
type Controller struct {
	rules      Rules
	bankroll   int
	assetOwned bool
	logger     *log.Logger
}

// New creates a controller holding the starting bankroll
func New(rules Rules, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Controller{
		rules:    rules,
		bankroll: rules.StartingBankroll,
		logger:   logger.WithPrefix("economy"),
	}
}

// Rules returns the rules the controller was created with
func (c *Controller) Rules() Rules {
	return c.rules
}

// Bankroll returns the current bankroll. It can be negative after upkeep.
func (c *Controller) Bankroll() int {
	return c.bankroll
}

// AssetOwned reports whether the wealth threshold has been reached
func (c *Controller) AssetOwned() bool {
	return c.assetOwned
}

// PlaceBet checks a wager against the bankroll. The bankroll is not touched
// until the round settles.
func (c *Controller) PlaceBet(amount int) error {
	if amount <= 0 || amount > c.bankroll {
		return fmt.Errorf("%w: %d with bankroll %d", ErrInvalidBet, amount, c.bankroll)
	}
	c.logger.Debug("Bet placed", "amount", amount, "bankroll", c.bankroll)
	return nil
}

// Settle applies a round outcome to the bankroll and returns the change
func (c *Controller) Settle(outcome game.Outcome, amount int) int {
	delta := outcome.Delta(amount)
	c.bankroll += delta
	c.logger.Debug("Settled", "outcome", outcome, "amount", amount, "delta", delta, "bankroll", c.bankroll)
	return delta
}

// CheckWealthThreshold marks the asset as owned the first time the bankroll
// reaches the threshold. It returns true only on that transition.
func (c *Controller) CheckWealthThreshold() bool {
	if c.assetOwned || c.bankroll < c.rules.WealthThreshold {
		return false
	}
	c.assetOwned = true
	c.logger.Info("Wealth threshold reached", "bankroll", c.bankroll, "threshold", c.rules.WealthThreshold)
	return true
}

// ApplyUpkeep charges upkeep when the asset is owned and returns the amount
// charged. The charge is unconditional and may drive the bankroll negative.
func (c *Controller) ApplyUpkeep() int {
	if !c.assetOwned {
		return 0
	}
	c.bankroll -= c.rules.Upkeep
	c.logger.Debug("Upkeep charged", "upkeep", c.rules.Upkeep, "bankroll", c.bankroll)
	return c.rules.Upkeep
}

// CheckBankruptcy reports whether the bankroll is exhausted
func (c *Controller) CheckBankruptcy() bool {
	return c.bankroll <= 0
}

// GrantRecovery sets the bankroll to the recovery grant
func (c *Controller) GrantRecovery() int {
	c.bankroll = c.rules.RecoveryGrant
	c.logger.Info("Recovery granted", "bankroll", c.bankroll)
	return c.bankroll
}

// Settlement records each step of the end-of-round pipeline
type Settlement struct {
	Outcome       game.Outcome
	Bet           int
	Delta         int
	AssetAcquired bool
	Upkeep        int
	Bankrupt      bool
	Bankroll      int
}

// Net returns the total bankroll change for the round including upkeep
func (s Settlement) Net() int {
	return s.Delta - s.Upkeep
}

// EndRound runs the per-round pipeline in order: settle the bet, check the
// wealth threshold, apply upkeep, then check for bankruptcy. Upkeep is
// charged on the same round the asset is acquired.
func (c *Controller) EndRound(outcome game.Outcome, bet int) Settlement {
	s := Settlement{Outcome: outcome, Bet: bet}
	s.Delta = c.Settle(outcome, bet)
	s.AssetAcquired = c.CheckWealthThreshold()
	s.Upkeep = c.ApplyUpkeep()
	s.Bankrupt = c.CheckBankruptcy()
	s.Bankroll = c.bankroll

	if s.Bankrupt {
		c.logger.Info("Bankrupt", "bankroll", c.bankroll)
	}
	return s
}
