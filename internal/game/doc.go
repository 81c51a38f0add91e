// Package game implements the rules core of a single blackjack round.
//
// The main type is Round, which deals a player hand and a dealer hand from a
// shuffled deck, accepts the player's Hit/Stand intents, plays the dealer by
// a fixed policy and produces exactly one Outcome.
//
// # Basic Usage
//
//	r := game.NewRound(rng, 100)
//	r.Submit(game.Hit)
//	r.Submit(game.Stand)
//	r.PlayDealer()
//	if outcome, ok := r.Outcome(); ok {
//	    fmt.Println(outcome)
//	}
//
// # Pacing
//
// The dealer turn can be advanced one action at a time with Step, so a
// caller's frame loop can space dealer draws out in time. PlayDealer runs
// the dealer to completion in one call.
//
// # Deterministic Testing
//
// The RNG is required so that randomness is explicit. A pre-arranged deck
// gives complete control over the cards:
//
//	d := deck.NewStackedDeck(rng, deck.MustParseCards("Ah Kd 9c 7s")...)
//	r := game.NewRound(rng, 10, game.WithDeck(d))
//
// A Round never touches the bankroll; settling the bet is the economy's job.
package game
