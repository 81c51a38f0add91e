// Package economy owns the player's bankroll and the side events that hang
// off it: the one-time asset purchase at the wealth threshold, recurring
// upkeep once the asset is owned, and bankruptcy recovery.
package economy

import "fmt"

// Rules are the economy parameters for one session
type Rules struct {
	StartingBankroll int
	WealthThreshold  int
	Upkeep           int
	RecoveryGrant    int
}

// DefaultRules returns the standard economy
func DefaultRules() Rules {
	return Rules{
		StartingBankroll: 1000,
		WealthThreshold:  3000,
		Upkeep:           75,
		RecoveryGrant:    500,
	}
}

// Validate checks the rules describe a playable economy
func (r Rules) Validate() error {
	if r.StartingBankroll <= 0 {
		return fmt.Errorf("starting bankroll must be positive, got %d", r.StartingBankroll)
	}
	if r.WealthThreshold <= r.StartingBankroll {
		return fmt.Errorf("wealth threshold (%d) must exceed starting bankroll (%d)", r.WealthThreshold, r.StartingBankroll)
	}
	if r.Upkeep < 0 {
		return fmt.Errorf("upkeep cannot be negative, got %d", r.Upkeep)
	}
	if r.RecoveryGrant <= 0 {
		return fmt.Errorf("recovery grant must be positive, got %d", r.RecoveryGrant)
	}
	return nil
}
