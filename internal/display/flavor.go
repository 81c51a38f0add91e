package display

import (
	rand "math/rand/v2"

	"github.com/lox/vegasjack/internal/game"
)

// OpponentNames are the dealers a player can be seated against
var OpponentNames = []string{
	"Bert", "Björn", "Kalle", "Mats", "Sven", "Anders", "Erik", "Lars",
	"Oskar", "Gustav", "Jan", "Per", "Bosse", "Nils", "Ove",
}

// GenericDealer is shown when player.opponent is "dealer"
const GenericDealer = "Dealer"

// DealerStandLine is said once the dealer stops drawing
const DealerStandLine = "I'll stand now."

var dealerHitComments = []string{
	"Hmm, let me think...",
	"I'll take another card.",
	"Not high enough yet!",
	"Here I go!",
}

// PickOpponent returns the dealer's display name for an opponent mode
func PickOpponent(rng *rand.Rand, mode string) string {
	if mode == "dealer" {
		return GenericDealer
	}
	return OpponentNames[rng.IntN(len(OpponentNames))]
}

// DealerComment returns what the dealer says before taking an action
func DealerComment(rng *rand.Rand, action game.Action) string {
	if action == game.Stand {
		return DealerStandLine
	}
	return dealerHitComments[rng.IntN(len(dealerHitComments))]
}
