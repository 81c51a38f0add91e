package minigame

import (
	"fmt"
	rand "math/rand/v2"
)

// Chooser picks the challenge offered on each bankruptcy. attempt counts
// from zero across the session.
type Chooser interface {
	Choose(attempt int) Kind
}

// ChooserFunc adapts a function to a Chooser
type ChooserFunc func(attempt int) Kind

func (f ChooserFunc) Choose(attempt int) Kind { return f(attempt) }

// Fixed always offers the same challenge
func Fixed(kind Kind) Chooser {
	return ChooserFunc(func(int) Kind { return kind })
}

// Alternate offers strength first, then progress, and so on
func Alternate() Chooser {
	return ChooserFunc(func(attempt int) Kind {
		if attempt%2 == 0 {
			return Strength
		}
		return Progress
	})
}

// Random picks a challenge uniformly from the session's rng
func Random(rng *rand.Rand) Chooser {
	if rng == nil {
		panic("rng is required for random chooser")
	}
	return ChooserFunc(func(int) Kind {
		if rng.IntN(2) == 0 {
			return Strength
		}
		return Progress
	})
}

// ChooserModes lists the names ParseChooser accepts
var ChooserModes = []string{"strength", "progress", "alternate", "random"}

// ParseChooser builds a chooser from its configuration name
func ParseChooser(mode string, rng *rand.Rand) (Chooser, error) {
	switch mode {
	case "strength":
		return Fixed(Strength), nil
	case "progress":
		return Fixed(Progress), nil
	case "alternate":
		return Alternate(), nil
	case "random":
		return Random(rng), nil
	default:
		return nil, fmt.Errorf("unknown recovery game %q (want one of %v)", mode, ChooserModes)
	}
}
