package game

import (
	"strings"

	"github.com/lox/vegasjack/internal/deck"
)

// BlackjackTotal is the highest total a hand can hold without busting
const BlackjackTotal = 21

// Hand is the ordered set of cards held by one party for one round
type Hand struct {
	cards []deck.Card
}

// NewHand creates a hand holding the given cards
func NewHand(cards ...deck.Card) *Hand {
	h := &Hand{cards: make([]deck.Card, 0, max(len(cards), 4))}
	h.cards = append(h.cards, cards...)
	return h
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card deck.Card) {
	h.cards = append(h.cards, card)
}

// Cards returns a copy of the cards in deal order
func (h *Hand) Cards() []deck.Card {
	cards := make([]deck.Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Len returns the number of cards held
func (h *Hand) Len() int {
	return len(h.cards)
}

// Total returns the hand value. Every Ace starts at 11; while the total is
// over 21 and an Ace is still counted high, one Ace drops to 1.
func (h *Hand) Total() int {
	total, _ := total(h.cards)
	return total
}

// IsSoft reports whether an Ace is still counted as 11
func (h *Hand) IsSoft() bool {
	_, softAces := total(h.cards)
	return softAces > 0
}

// IsBust reports whether the total exceeds 21
func (h *Hand) IsBust() bool {
	return h.Total() > BlackjackTotal
}

// String returns the cards separated by spaces, e.g. "A♠ 10♥"
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// total returns the softened total and the number of Aces still at 11
func total(cards []deck.Card) (int, int) {
	sum, aces := 0, 0
	for _, c := range cards {
		sum += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for sum > BlackjackTotal && aces > 0 {
		sum -= 10
		aces--
	}
	return sum, aces
}
