package game

// Outcome is the result of a resolved round from the player's point of view
type Outcome int

const (
	NoOutcome Outcome = iota
	PlayerBust
	DealerBust
	DealerWins
	PlayerWins
	Push
)

func (o Outcome) String() string {
	switch o {
	case PlayerBust:
		return "player_bust"
	case DealerBust:
		return "dealer_bust"
	case DealerWins:
		return "dealer_wins"
	case PlayerWins:
		return "player_wins"
	case Push:
		return "push"
	default:
		return "none"
	}
}

// PlayerWon reports whether the bet is paid to the player
func (o Outcome) PlayerWon() bool {
	return o == DealerBust || o == PlayerWins
}

// PlayerLost reports whether the bet goes to the house
func (o Outcome) PlayerLost() bool {
	return o == PlayerBust || o == DealerWins
}

// Delta returns the bankroll change a bet of the given size produces.
// Wins pay even money; a push returns the bet.
func (o Outcome) Delta(bet int) int {
	switch {
	case o.PlayerWon():
		return bet
	case o.PlayerLost():
		return -bet
	default:
		return 0
	}
}

// ResolveOutcome applies the decision rule to two finished hands. A player
// bust is checked first since the player busting ends the round before the
// dealer draws.
func ResolveOutcome(player, dealer *Hand) Outcome {
	playerTotal, dealerTotal := player.Total(), dealer.Total()
	switch {
	case playerTotal > BlackjackTotal:
		return PlayerBust
	case dealerTotal > BlackjackTotal:
		return DealerBust
	case playerTotal > dealerTotal:
		return PlayerWins
	case dealerTotal > playerTotal:
		return DealerWins
	default:
		return Push
	}
}
