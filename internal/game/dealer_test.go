package game

import (
	"testing"

	"github.com/lox/vegasjack/internal/deck"
	"github.com/lox/vegasjack/internal/randutil"
)

func TestDealerPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards string
		want  Action
	}{
		{"2c 3d", Hit},
		{"Kh 6d", Hit},
		{"Kh 7d", Stand},
		{"Ah 6d", Stand}, // soft 17 stands
		{"Ah 5d", Hit},
		{"Kh 9d", Stand},
		{"Kh Qd 5c", Stand}, // bust hands never draw
		{"Ah Ad 4c", Hit},  // 16
	}

	var policy DealerPolicy
	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			h := NewHand(deck.MustParseCards(tt.cards)...)
			if got := policy.Decide(h); got != tt.want {
				t.Errorf("Decide(%s=%d) = %v, want %v", tt.cards, h.Total(), got, tt.want)
			}
		})
	}
}

func TestDealerPolicyMatchesThreshold(t *testing.T) {
	t.Parallel()

	var policy DealerPolicy
	rng := randutil.New(11)
	for i := 0; i < 2000; i++ {
		d := deck.NewDeck(rng)
		h := NewHand()
		n := 1 + rng.IntN(5)
		for j := 0; j < n; j++ {
			h.AddCard(d.Deal())
		}

		want := Stand
		if h.Total() < DealerStandTotal {
			want = Hit
		}
		// Asking twice must give the same answer
		first, second := policy.Decide(h), policy.Decide(h)
		if first != want || second != want {
			t.Fatalf("hand %s (%d): got %v/%v, want %v", h, h.Total(), first, second, want)
		}
	}
}
