package deck

import (
	rand "math/rand/v2"
)

// Size is the number of cards in a standard deck
const Size = 52

// Deck represents a single 52-card deck. Dealing from an exhausted deck
// rebuilds and reshuffles it in place, so Deal never fails.
type Deck struct {
	cards      []Card
	next       int
	rng        *rand.Rand
	reshuffles int
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{rng: rng}
	d.rebuild()
	return d
}

// NewStackedDeck creates a deck that deals the given cards in order before
// falling back to a freshly shuffled standard deck. Used for deterministic
// tests and replays; the stacked cards are not checked for duplicates.
func NewStackedDeck(rng *rand.Rand, cards ...Card) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	d := &Deck{
		cards: make([]Card, len(cards)),
		rng:   rng,
	}
	copy(d.cards, cards)
	return d
}

// rebuild restores all 52 cards and shuffles them
func (d *Deck) rebuild() {
	d.cards = d.cards[:0]
	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.Shuffle()
}

// Shuffle randomises the undealt cards using Fisher-Yates. Cards already
// dealt stay dealt.
func (d *Deck) Shuffle() {
	rest := d.cards[d.next:]
	for i := len(rest) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}
}

// Deal removes and returns the top card. An empty deck is rebuilt and
// reshuffled first.
func (d *Deck) Deal() Card {
	if d.next >= len(d.cards) {
		d.next = 0
		d.reshuffles++
		d.rebuild()
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// Remaining returns the number of cards left before the next rebuild
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Reshuffles returns how many times the deck rebuilt itself after running out
func (d *Deck) Reshuffles() int {
	return d.reshuffles
}
