package game

import (
	"testing"

	"github.com/lox/vegasjack/internal/deck"
)

func TestHandTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		total int
		soft  bool
		bust  bool
	}{
		{name: "empty hand", cards: "", total: 0},
		{name: "single ace", cards: "Ah", total: 11, soft: true},
		{name: "face cards", cards: "Kh Qd", total: 20},
		{name: "ace and king", cards: "As Kd", total: 21, soft: true},
		{name: "ace as one", cards: "Ah 9c 2d", total: 12},
		{name: "two aces and a nine", cards: "Ah Ad 9c", total: 21, soft: true},
		{name: "two aces", cards: "Ah As", total: 12, soft: true},
		{name: "four aces", cards: "Ah Ad Ac As", total: 14, soft: true},
		{name: "bust without aces", cards: "Kh Qd 5c", total: 25, bust: true},
		{name: "bust after softening", cards: "Ah Kd Qc 5s", total: 26, bust: true},
		{name: "ten notation", cards: "10h 7c", total: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHand(deck.MustParseCards(tt.cards)...)
			if got := h.Total(); got != tt.total {
				t.Errorf("Total() = %d, want %d", got, tt.total)
			}
			if got := h.IsSoft(); got != tt.soft {
				t.Errorf("IsSoft() = %v, want %v", got, tt.soft)
			}
			if got := h.IsBust(); got != tt.bust {
				t.Errorf("IsBust() = %v, want %v", got, tt.bust)
			}
		})
	}
}

// A, 9, A, A: nominal 11+9+11+11 = 42. Softening continues while the total
// is over 21 and an Ace is still high: 42 -> 32 -> 22 -> 12.
func TestHandTotalThreeAcesSoftenSequentially(t *testing.T) {
	t.Parallel()

	h := NewHand(deck.MustParseCards("Ah 9c Ad As")...)

	nominal := 0
	for _, c := range h.Cards() {
		nominal += c.Value()
	}
	if nominal != 42 {
		t.Fatalf("nominal sum = %d, want 42", nominal)
	}

	want := nominal
	for aces := 3; want > BlackjackTotal && aces > 0; aces-- {
		want -= 10
	}
	if want != 12 {
		t.Fatalf("derived total = %d, want 12", want)
	}

	if got := h.Total(); got != want {
		t.Errorf("Total() = %d, want %d", got, want)
	}
	if h.IsBust() {
		t.Error("hand should not be bust once all aces are softened")
	}
	if h.IsSoft() {
		t.Error("no ace should still count as 11")
	}
}

func TestHandTotalIncremental(t *testing.T) {
	t.Parallel()

	h := NewHand()
	steps := []struct {
		card  string
		total int
	}{
		{"Ah", 11},
		{"9c", 20},
		{"Ad", 21},
		{"As", 12},
		{"Kh", 22},
	}
	for _, s := range steps {
		h.AddCard(deck.MustParseCards(s.card)[0])
		if got := h.Total(); got != s.total {
			t.Errorf("after %s: Total() = %d, want %d", s.card, got, s.total)
		}
	}
}

func TestHandCardsIsCopy(t *testing.T) {
	t.Parallel()

	h := NewHand(deck.MustParseCards("Ah Kd")...)
	cards := h.Cards()
	cards[0] = deck.NewCard(deck.Clubs, deck.Two)

	if h.Cards()[0].Rank != deck.Ace {
		t.Error("mutating Cards() result should not affect the hand")
	}
	if h.String() != "A♥ K♦" {
		t.Errorf("String() = %q", h.String())
	}
}
