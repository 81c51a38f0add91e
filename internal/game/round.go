package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/vegasjack/internal/deck"
)

// Phase is the state of a round
type Phase int

const (
	Dealing Phase = iota
	PlayerTurn
	DealerTurn
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "player_turn"
	case DealerTurn:
		return "dealer_turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Round is one hand of blackjack between the player and the dealer.
// Rounds are single use: once Resolved, create a new one.
type Round struct {
	id      string
	bet     int
	deck    *deck.Deck
	player  *Hand
	dealer  *Hand
	phase   Phase
	outcome Outcome
	policy  DealerPolicy
	logger  *log.Logger
}

// NewRound deals a new round for the given bet. The deal happens
// immediately, so the returned round is already in PlayerTurn.
func NewRound(rng *rand.Rand, bet int, opts ...RoundOption) *Round {
	if rng == nil {
		panic("rng is required for round creation")
	}

	cfg := &roundConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	d := cfg.deck
	if d == nil {
		d = deck.NewDeck(rng)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	r := &Round{
		id:     cfg.id,
		bet:    bet,
		deck:   d,
		player: NewHand(),
		dealer: NewHand(),
		phase:  Dealing,
		logger: logger.WithPrefix("round").With("round", cfg.id),
	}
	r.deal()
	return r
}

func (r *Round) deal() {
	r.player.AddCard(r.deck.Deal())
	r.player.AddCard(r.deck.Deal())
	r.dealer.AddCard(r.deck.Deal())
	r.dealer.AddCard(r.deck.Deal())
	r.phase = PlayerTurn

	r.logger.Debug("Dealt",
		"player", r.player.String(),
		"playerTotal", r.player.Total(),
		"dealerUp", r.dealer.cards[1].String())
}

// ID returns the round identifier
func (r *Round) ID() string {
	return r.id
}

// Bet returns the amount wagered on this round
func (r *Round) Bet() int {
	return r.bet
}

// Phase returns the current phase
func (r *Round) Phase() Phase {
	return r.phase
}

// Submit applies a player intent. It returns false, changing nothing, when
// the intent is not valid in the current phase.
func (r *Round) Submit(a Action) bool {
	if r.phase != PlayerTurn {
		r.logger.Debug("Ignoring intent outside player turn", "action", a, "phase", r.phase)
		return false
	}

	switch a {
	case Hit:
		card := r.deck.Deal()
		r.player.AddCard(card)
		r.logger.Debug("Player hits", "card", card.String(), "total", r.player.Total())
		if r.player.IsBust() {
			r.resolve()
		}
		return true

	case Stand:
		r.logger.Debug("Player stands", "total", r.player.Total())
		r.phase = DealerTurn
		return true

	default:
		r.logger.Debug("Ignoring unknown intent", "action", a)
		return false
	}
}

// Step performs one dealer action: a single draw, or the final resolution
// once the policy stands or the dealer busts. It returns false when it is
// not the dealer's turn.
func (r *Round) Step() bool {
	if r.phase != DealerTurn {
		return false
	}

	if r.dealer.IsBust() || r.policy.Decide(r.dealer) == Stand {
		r.resolve()
		return true
	}

	card := r.deck.Deal()
	r.dealer.AddCard(card)
	r.logger.Debug("Dealer hits", "card", card.String(), "total", r.dealer.Total())
	return true
}

// PlayDealer runs the dealer turn to completion
func (r *Round) PlayDealer() {
	for r.Step() {
	}
}

// NextDealerAction reports what the dealer will do on the next Step. Only
// meaningful during DealerTurn.
func (r *Round) NextDealerAction() Action {
	if r.dealer.IsBust() {
		return Stand
	}
	return r.policy.Decide(r.dealer)
}

func (r *Round) resolve() {
	r.outcome = ResolveOutcome(r.player, r.dealer)
	r.phase = Resolved
	r.logger.Debug("Round resolved",
		"outcome", r.outcome,
		"player", r.player.Total(),
		"dealer", r.dealer.Total())
}

// Outcome returns the outcome once the round is resolved
func (r *Round) Outcome() (Outcome, bool) {
	if r.phase != Resolved {
		return NoOutcome, false
	}
	return r.outcome, true
}

// IsResolved reports whether the round has finished
func (r *Round) IsResolved() bool {
	return r.phase == Resolved
}

// PlayerHand returns a copy of the player's hand
func (r *Round) PlayerHand() *Hand {
	return NewHand(r.player.cards...)
}

// DealerHand returns a copy of the dealer's hand
func (r *Round) DealerHand() *Hand {
	return NewHand(r.dealer.cards...)
}

// Result is the final record of a resolved round
type Result struct {
	RoundID     string
	Bet         int
	Player      []deck.Card
	Dealer      []deck.Card
	PlayerTotal int
	DealerTotal int
	Outcome     Outcome
}

// Result returns the final record. The second value is false until the
// round is resolved.
func (r *Round) Result() (Result, bool) {
	if r.phase != Resolved {
		return Result{}, false
	}
	return Result{
		RoundID:     r.id,
		Bet:         r.bet,
		Player:      r.player.Cards(),
		Dealer:      r.dealer.Cards(),
		PlayerTotal: r.player.Total(),
		DealerTotal: r.dealer.Total(),
		Outcome:     r.outcome,
	}, true
}
