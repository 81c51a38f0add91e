// Package session ties rounds of blackjack to a persistent bankroll. A
// Session owns one economy controller, deals rounds on request, paces the
// dealer against a clock, and runs a recovery challenge when the player goes
// broke. Everything is driven cooperatively by the caller: Advance is meant
// to be called from a frame loop, and nothing blocks or spawns goroutines.
//
// A Session is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/vegasjack/internal/deck"
	"github.com/lox/vegasjack/internal/economy"
	"github.com/lox/vegasjack/internal/game"
	"github.com/lox/vegasjack/internal/gameid"
	"github.com/lox/vegasjack/internal/minigame"
	"github.com/lox/vegasjack/internal/statistics"
)

var (
	// ErrSessionOver is returned by every operation once the session has ended
	ErrSessionOver = errors.New("session: over")

	// ErrWrongState is returned when an operation is not valid in the
	// current state, e.g. starting a round during recovery
	ErrWrongState = errors.New("session: wrong state")

	// ErrStaleHandle is returned for a handle that does not refer to the
	// current round
	ErrStaleHandle = errors.New("session: stale round handle")
)

// State is the session's position in the betting loop
type State int

const (
	Betting State = iota
	InRound
	Recovery
	Over
)

func (s State) String() string {
	switch s {
	case Betting:
		return "betting"
	case InRound:
		return "in_round"
	case Recovery:
		return "recovery"
	case Over:
		return "over"
	default:
		return "unknown"
	}
}

// RoundHandle refers to one round of a session
type RoundHandle struct {
	id  string
	seq int
}

// ID returns the round ID
func (h *RoundHandle) ID() string {
	return h.id
}

// Session is one player's run from the starting bankroll until they quit or
// fail a recovery challenge
type Session struct {
	id     string
	rng    *rand.Rand
	clock  quartz.Clock
	logger *log.Logger
	bus    EventBus
	ids    *gameid.Generator

	econ        *economy.Controller
	chooser     minigame.Chooser
	miniGames   map[minigame.Kind]minigame.Config
	dealerDelay time.Duration
	deckFactory func() *deck.Deck

	state      State
	round      *game.Round
	handle     *RoundHandle
	seq        int
	nextDealer time.Time
	settlement *economy.Settlement

	recovery minigame.Engine
	attempts int

	stats statistics.Statistics
}

// New creates a session in the Betting state with the starting bankroll
func New(rng *rand.Rand, opts ...Option) *Session {
	if rng == nil {
		panic("rng is required for session creation")
	}

	cfg := &sessionConfig{
		rules: economy.DefaultRules(),
		miniGames: map[minigame.Kind]minigame.Config{
			minigame.Strength: minigame.StrengthConfig(),
			minigame.Progress: minigame.ProgressConfig(),
		},
		dealerDelay: time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.chooser == nil {
		cfg.chooser = minigame.Fixed(minigame.Strength)
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}

	ids := gameid.NewGenerator(cfg.clock, rng)
	if cfg.id == "" {
		cfg.id = ids.Generate()
	}
	logger := cfg.logger.With("session", cfg.id)

	s := &Session{
		id:          cfg.id,
		rng:         rng,
		clock:       cfg.clock,
		logger:      logger.WithPrefix("session"),
		bus:         cfg.bus,
		ids:         ids,
		econ:        economy.New(cfg.rules, logger),
		chooser:     cfg.chooser,
		miniGames:   cfg.miniGames,
		dealerDelay: cfg.dealerDelay,
		deckFactory: cfg.deckFactory,
		state:       Betting,
	}
	s.stats.Sessions = 1
	s.stats.ObserveBankroll(s.econ.Bankroll())

	s.logger.Info("Session started", "bankroll", s.econ.Bankroll())
	return s
}

// ID returns the session ID
func (s *Session) ID() string {
	return s.id
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Bus returns the event bus
func (s *Session) Bus() EventBus {
	return s.bus
}

// Bankroll returns the current bankroll
func (s *Session) Bankroll() int {
	return s.econ.Bankroll()
}

// AssetOwned reports whether the house has been bought
func (s *Session) AssetOwned() bool {
	return s.econ.AssetOwned()
}

// Rules returns the economy rules in force
func (s *Session) Rules() economy.Rules {
	return s.econ.Rules()
}

// Stats returns a copy of the session statistics
func (s *Session) Stats() statistics.Statistics {
	stats := s.stats
	stats.Values = append([]float64(nil), s.stats.Values...)
	return stats
}

// LastSettlement returns the settlement of the most recent round
func (s *Session) LastSettlement() (economy.Settlement, bool) {
	if s.settlement == nil {
		return economy.Settlement{}, false
	}
	return *s.settlement, true
}

// Recovery returns the active recovery challenge, if any
func (s *Session) Recovery() (minigame.Snapshot, bool) {
	if s.state != Recovery || s.recovery == nil {
		return minigame.Snapshot{}, false
	}
	return s.recovery.Snapshot(), true
}

func (s *Session) publish(e Event) {
	s.logger.Debug("Event", "type", e.EventType())
	s.bus.Publish(e)
}

// StartRound validates the bet and deals a new round
func (s *Session) StartRound(bet int) (*RoundHandle, error) {
	if s.state == Over {
		return nil, ErrSessionOver
	}
	if s.state != Betting {
		return nil, fmt.Errorf("%w: cannot start a round while %s", ErrWrongState, s.state)
	}
	if err := s.econ.PlaceBet(bet); err != nil {
		return nil, err
	}

	s.seq++
	id := s.ids.Generate()

	opts := []game.RoundOption{game.WithID(id), game.WithLogger(s.logger)}
	if s.deckFactory != nil {
		opts = append(opts, game.WithDeck(s.deckFactory()))
	}

	s.round = game.NewRound(s.rng, bet, opts...)
	s.handle = &RoundHandle{id: id, seq: s.seq}
	s.settlement = nil
	s.state = InRound

	s.logger.Info("Round started", "round", id, "bet", bet, "bankroll", s.econ.Bankroll())
	s.publish(RoundStartedEvent{RoundID: id, Bet: bet, timestamp: s.clock.Now()})
	return s.handle, nil
}

func (s *Session) checkHandle(h *RoundHandle) error {
	if h == nil || s.handle == nil || h.seq != s.handle.seq {
		return ErrStaleHandle
	}
	return nil
}

// SubmitIntent forwards a player action to the round. Actions that are not
// valid at this point of the round are ignored.
func (s *Session) SubmitIntent(h *RoundHandle, action game.Action) error {
	if s.state == Over {
		return ErrSessionOver
	}
	if err := s.checkHandle(h); err != nil {
		return err
	}
	if s.state != InRound {
		return nil
	}

	if !s.round.Submit(action) {
		return nil
	}

	switch s.round.Phase() {
	case game.Resolved:
		s.finishRound()
	case game.DealerTurn:
		s.nextDealer = s.clock.Now().Add(s.dealerDelay)
		if s.dealerDelay <= 0 {
			s.round.PlayDealer()
			s.finishRound()
		}
	}
	return nil
}

// PollOutcome returns the outcome of the round once it has resolved
func (s *Session) PollOutcome(h *RoundHandle) (game.Outcome, bool) {
	if s.checkHandle(h) != nil {
		return game.NoOutcome, false
	}
	return s.round.Outcome()
}

// Snapshot returns a view of the round for rendering
func (s *Session) Snapshot(h *RoundHandle) (game.Snapshot, error) {
	if err := s.checkHandle(h); err != nil {
		return game.Snapshot{}, err
	}
	return s.round.Snapshot(), nil
}

// NextDealerAction reports what the dealer will do on its next step, for
// renderers that comment on the dealer's play. The second value is false
// outside the dealer's turn.
func (s *Session) NextDealerAction() (game.Action, bool) {
	if s.state != InRound || s.round.Phase() != game.DealerTurn {
		return 0, false
	}
	return s.round.NextDealerAction(), true
}

// Advance moves time-driven work forward: one dealer action per dealer
// delay, and the recovery challenge clock. It checks ctx before each step.
func (s *Session) Advance(ctx context.Context) error {
	if s.state == Over {
		return ErrSessionOver
	}

	switch s.state {
	case InRound:
		for s.round.Phase() == game.DealerTurn {
			if err := ctx.Err(); err != nil {
				return err
			}
			now := s.clock.Now()
			if s.dealerDelay > 0 && now.Before(s.nextDealer) {
				return nil
			}
			s.round.Step()
			s.nextDealer = s.nextDealer.Add(s.dealerDelay)
		}
		if s.round.IsResolved() {
			s.finishRound()
		}

	case Recovery:
		if err := ctx.Err(); err != nil {
			return err
		}
		if status := s.recovery.Tick(); status.Done() {
			s.completeRecovery(status == minigame.Succeeded)
		}
	}
	return nil
}

func (s *Session) finishRound() {
	res, ok := s.round.Result()
	if !ok || s.settlement != nil {
		return
	}

	settlement := s.econ.EndRound(res.Outcome, res.Bet)
	s.settlement = &settlement
	now := s.clock.Now()

	s.stats.Add(statistics.RoundResult{
		RoundID:       res.RoundID,
		Outcome:       res.Outcome,
		Bet:           res.Bet,
		Net:           settlement.Net(),
		Upkeep:        settlement.Upkeep,
		AssetAcquired: settlement.AssetAcquired,
		Bankroll:      settlement.Bankroll,
		Bankrupt:      settlement.Bankrupt,
	})

	s.logger.Info("Round settled",
		"round", res.RoundID,
		"outcome", res.Outcome,
		"player", res.PlayerTotal,
		"dealer", res.DealerTotal,
		"bankroll", settlement.Bankroll)

	s.publish(RoundSettledEvent{
		RoundID:   res.RoundID,
		Outcome:   res.Outcome,
		Bet:       res.Bet,
		Delta:     settlement.Delta,
		Bankroll:  settlement.Bankroll + settlement.Upkeep,
		timestamp: now,
	})
	if settlement.AssetAcquired {
		s.publish(WealthThresholdReachedEvent{
			Bankroll:  settlement.Bankroll + settlement.Upkeep,
			Threshold: s.econ.Rules().WealthThreshold,
			timestamp: now,
		})
	}
	if settlement.Upkeep > 0 {
		s.publish(UpkeepChargedEvent{Amount: settlement.Upkeep, Bankroll: settlement.Bankroll, timestamp: now})
	}

	if !settlement.Bankrupt {
		s.state = Betting
		return
	}

	kind := s.chooser.Choose(s.attempts)
	s.attempts++
	s.recovery = minigame.NewChallenge(s.miniGameConfig(kind), s.clock)
	s.state = Recovery

	s.logger.Info("Bankrupt, starting recovery", "game", kind, "attempt", s.attempts)
	s.publish(BankruptcyEvent{MiniGame: kind, Attempt: s.attempts, Bankroll: settlement.Bankroll, timestamp: now})
}

func (s *Session) miniGameConfig(kind minigame.Kind) minigame.Config {
	if cfg, ok := s.miniGames[kind]; ok {
		return cfg
	}
	return minigame.DefaultConfig(kind)
}

// PressRecovery records one qualifying input for the recovery challenge
func (s *Session) PressRecovery() (minigame.Status, error) {
	if s.state == Over {
		return minigame.Failed, ErrSessionOver
	}
	if s.state != Recovery {
		return minigame.Running, fmt.Errorf("%w: no recovery in progress", ErrWrongState)
	}

	status := s.recovery.Press()
	if status.Done() {
		s.completeRecovery(status == minigame.Succeeded)
	}
	return status, nil
}

// BeginRecovery restarts the active challenge from its initial state at the
// current time. Renderers that show intermission screens after the
// bankruptcy call it when the challenge actually appears, and must not call
// Advance in between.
func (s *Session) BeginRecovery() error {
	if s.state == Over {
		return ErrSessionOver
	}
	if s.state != Recovery {
		return fmt.Errorf("%w: no recovery in progress", ErrWrongState)
	}
	s.recovery = minigame.NewChallenge(s.miniGameConfig(s.recovery.Kind()), s.clock)
	s.logger.Debug("Recovery started", "game", s.recovery.Kind())
	return nil
}

// CompleteRecovery ends the recovery challenge with a result decided
// elsewhere, such as a replayed press stream
func (s *Session) CompleteRecovery(success bool) error {
	if s.state == Over {
		return ErrSessionOver
	}
	if s.state != Recovery {
		return fmt.Errorf("%w: no recovery in progress", ErrWrongState)
	}
	s.completeRecovery(success)
	return nil
}

// RecoveryConfig returns the parameters of the active recovery challenge
func (s *Session) RecoveryConfig() (minigame.Config, bool) {
	if s.state != Recovery || s.recovery == nil {
		return minigame.Config{}, false
	}
	return s.miniGameConfig(s.recovery.Kind()), true
}

func (s *Session) completeRecovery(success bool) {
	kind := s.recovery.Kind()
	now := s.clock.Now()

	if !success {
		s.logger.Info("Recovery failed", "game", kind)
		s.end(OverRecoveryFailed)
		return
	}

	bankroll := s.econ.GrantRecovery()
	s.stats.AddRecovery()
	s.stats.ObserveBankroll(bankroll)
	s.recovery = nil
	s.state = Betting

	s.publish(RecoveryGrantedEvent{MiniGame: kind, Bankroll: bankroll, timestamp: now})
}

// Quit ends the session. Any round in progress is abandoned without settling.
func (s *Session) Quit() error {
	if s.state == Over {
		return ErrSessionOver
	}
	s.end(OverQuit)
	return nil
}

func (s *Session) end(reason OverReason) {
	s.state = Over
	s.recovery = nil
	s.logger.Info("Session over",
		"reason", reason,
		"bankroll", s.econ.Bankroll(),
		"rounds", s.stats.Rounds)
	s.publish(SessionOverEvent{
		Reason:    reason,
		Bankroll:  s.econ.Bankroll(),
		Rounds:    s.stats.Rounds,
		timestamp: s.clock.Now(),
	})
}
