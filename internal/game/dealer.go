package game

// Action is a Hit or Stand decision, whether it comes from the player's
// input or from the dealer policy.
type Action int

const (
	Hit Action = iota + 1
	Stand
)

func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	default:
		return "unknown"
	}
}

// DealerStandTotal is the total at which the dealer stops drawing
const DealerStandTotal = 17

// DealerPolicy is the house rule for the dealer's turn: draw below 17,
// stand on anything else, soft 17 included.
type DealerPolicy struct{}

// Decide returns Hit while the hand totals less than 17 and Stand otherwise
func (DealerPolicy) Decide(h *Hand) Action {
	if h.Total() < DealerStandTotal {
		return Hit
	}
	return Stand
}
