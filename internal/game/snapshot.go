package game

import "github.com/lox/vegasjack/internal/deck"

// Snapshot is a read-only view of a round for rendering. The dealer's first
// card is hidden until the player's turn is over; while hidden, DealerTotal
// only counts the visible cards.
type Snapshot struct {
	RoundID               string
	Bet                   int
	Phase                 Phase
	Player                []deck.Card
	Dealer                []deck.Card
	PlayerTotal           int
	PlayerSoft            bool
	DealerTotal           int
	DealerFirstCardHidden bool
	Outcome               Outcome
}

// Resolved reports whether the snapshot was taken after the round finished
func (s Snapshot) Resolved() bool {
	return s.Phase == Resolved
}

// Snapshot captures the current state of the round
func (r *Round) Snapshot() Snapshot {
	hidden := r.phase == Dealing || r.phase == PlayerTurn

	dealerTotal := r.dealer.Total()
	if hidden && r.dealer.Len() > 1 {
		dealerTotal, _ = total(r.dealer.cards[1:])
	}

	return Snapshot{
		RoundID:               r.id,
		Bet:                   r.bet,
		Phase:                 r.phase,
		Player:                r.player.Cards(),
		Dealer:                r.dealer.Cards(),
		PlayerTotal:           r.player.Total(),
		PlayerSoft:            r.player.IsSoft(),
		DealerTotal:           dealerTotal,
		DealerFirstCardHidden: hidden,
		Outcome:               r.outcome,
	}
}
