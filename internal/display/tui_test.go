package display

import (
	"context"
	"io"
	"slices"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/vegasjack/internal/deck"
	"github.com/lox/vegasjack/internal/economy"
	"github.com/lox/vegasjack/internal/game"
	"github.com/lox/vegasjack/internal/minigame"
	"github.com/lox/vegasjack/internal/randutil"
	"github.com/lox/vegasjack/internal/session"
)

// Card strings deal player, player, dealer, dealer, then hits in order
const (
	playerWins = "Kh 9d Tc 8s"
	dealerWins = "Kh 6d Tc 9s"
)

type harness struct {
	m     *Model
	clock *quartz.Mock
}

func newHarness(t *testing.T, hands []string, opts Options, sopts ...session.Option) *harness {
	t.Helper()

	rng := randutil.New(7)
	mClock := quartz.NewMock(t)
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})

	next := 0
	factory := func() *deck.Deck {
		if next >= len(hands) {
			return deck.NewDeck(rng)
		}
		d := deck.NewStackedDeck(rng, deck.MustParseCards(hands[next])...)
		next++
		return d
	}

	base := []session.Option{
		session.WithClock(mClock),
		session.WithLogger(logger),
		session.WithDeckFactory(factory),
		session.WithDealerDelay(time.Second),
	}
	sess := session.New(rng, append(base, sopts...)...)

	opts.Clock = mClock
	opts.Rng = rng
	opts.Logger = logger
	opts.NoColor = true
	opts.Output = io.Discard
	if opts.Opponent == "" {
		opts.Opponent = "dealer"
	}

	m := NewModel(context.Background(), sess, opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return &harness{m: m, clock: mClock}
}

func (h *harness) typeText(s string) {
	h.m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) key(k tea.KeyType) tea.Cmd {
	_, cmd := h.m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func (h *harness) frame() {
	h.m.Update(frameMsg(h.clock.Now()))
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d).MustWait(context.Background())
	h.frame()
}

// bet places a bet from the betting screen and stands
func (h *harness) betAndStand(t *testing.T, amount string) {
	t.Helper()
	require.Equal(t, screenBetting, h.m.screen)
	h.typeText(amount)
	h.key(tea.KeyEnter)
	require.Equal(t, screenRound, h.m.screen)
	h.typeText("s")
}

func TestLoginAndRound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{playerWins}, Options{})
	require.Equal(t, screenLogin, h.m.screen)

	h.key(tea.KeyEnter)
	assert.Equal(t, screenLogin, h.m.screen, "empty names are rejected")
	assert.Contains(t, h.m.View(), "Please enter a name")

	h.typeText("Ada")
	h.key(tea.KeyEnter)
	require.Equal(t, screenWelcome, h.m.screen)
	assert.Equal(t, "Ada", h.m.playerName)
	assert.Equal(t, GenericDealer, h.m.opponentName)
	assert.Contains(t, h.m.View(), "Welcome, Ada!")

	h.key(tea.KeyEnter)
	require.Equal(t, screenBetting, h.m.screen)

	h.typeText("100")
	assert.Equal(t, 100, h.m.bet())
	h.key(tea.KeyEnter)
	require.Equal(t, screenRound, h.m.screen)
	assert.Equal(t, game.PlayerTurn, h.m.round.Phase)
	assert.Contains(t, h.m.View(), "??", "dealer's first card is face down")
	assert.Contains(t, h.m.View(), "[H]it")

	h.typeText("s")
	require.Equal(t, screenRound, h.m.screen)
	assert.Equal(t, game.DealerTurn, h.m.round.Phase)
	assert.Equal(t, DealerStandLine, h.m.dealerComment)

	h.frame()
	assert.Equal(t, screenRound, h.m.screen, "dealer waits for its delay")

	h.advance(time.Second)
	require.Equal(t, screenSummary, h.m.screen)
	assert.Equal(t, game.PlayerWins, h.m.round.Outcome)
	assert.Contains(t, h.m.View(), "You win, Ada!")
	assert.Equal(t, 1100, h.m.session.Bankroll())

	h.key(tea.KeyEnter)
	require.Equal(t, screenResult, h.m.screen)
	assert.Contains(t, h.m.View(), "Won:")

	h.key(tea.KeyEnter)
	assert.Equal(t, screenBetting, h.m.screen)
	assert.Equal(t, 100, h.m.bet(), "previous bet is kept")

	assert.True(t, slices.ContainsFunc(h.m.gameLog, func(s string) bool {
		return s == "You win, Ada! (+100) Bankroll $1100"
	}), "log: %v", h.m.gameLog)
}

func TestBetting(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, Options{PlayerName: "Ada"})
	require.Equal(t, screenWelcome, h.m.screen)
	h.key(tea.KeyEnter)
	require.Equal(t, screenBetting, h.m.screen)

	h.key(tea.KeyEnter)
	assert.Equal(t, screenBetting, h.m.screen)
	assert.Contains(t, h.m.View(), "Bet must be more than $0")

	h.typeText("abc")
	assert.Equal(t, 0, h.m.bet(), "letters are ignored")

	h.typeText("5000")
	assert.Equal(t, 1000, h.m.bet(), "clamped to the bankroll")
	h.key(tea.KeyUp)
	assert.Equal(t, 1000, h.m.bet())
	h.key(tea.KeyDown)
	assert.Equal(t, 990, h.m.bet())

	h.key(tea.KeyEsc)
	assert.Equal(t, screenGameOver, h.m.screen)
	assert.Equal(t, session.Over, h.m.session.State())
	assert.Equal(t, session.OverQuit, h.m.overReason)
	assert.Contains(t, h.m.View(), "You left the table.")

	cmd := h.key(tea.KeyEnter)
	assert.NotNil(t, cmd)
	assert.True(t, h.m.quitting)
	assert.Empty(t, h.m.View())
}

func TestClampBet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bet, bankroll, want int
	}{
		{100, 1000, 100},
		{1500, 1000, 1000},
		{-10, 1000, 0},
		{0, 500, 0},
		{500, 500, 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampBet(tt.bet, tt.bankroll), "clampBet(%d, %d)", tt.bet, tt.bankroll)
	}
}

func TestHousePurchase(t *testing.T) {
	t.Parallel()

	rules := economy.Rules{StartingBankroll: 2950, WealthThreshold: 3000, Upkeep: 75, RecoveryGrant: 500}
	h := newHarness(t, []string{playerWins}, Options{PlayerName: "Ada"},
		session.WithRules(rules), session.WithDealerDelay(0))

	h.key(tea.KeyEnter)
	h.betAndStand(t, "100")
	require.Equal(t, screenSummary, h.m.screen)

	h.key(tea.KeyEnter)
	assert.Contains(t, h.m.View(), "Upkeep:")
	h.key(tea.KeyEnter)
	require.Equal(t, screenHouse, h.m.screen)
	assert.Contains(t, h.m.View(), "you bought a new house")

	h.advance(2 * time.Second)
	assert.Equal(t, screenHouse, h.m.screen)
	h.advance(time.Second)
	assert.Equal(t, screenBetting, h.m.screen)

	assert.Equal(t, 2975, h.m.session.Bankroll())
	assert.Contains(t, h.m.View(), "House owned")
}

func goBroke(t *testing.T, h *harness) {
	t.Helper()
	h.key(tea.KeyEnter)
	h.betAndStand(t, "1000")
	require.Equal(t, screenSummary, h.m.screen)
	h.key(tea.KeyEnter)
	h.key(tea.KeyEnter)
	require.Equal(t, screenBankrupt, h.m.screen)
	assert.Contains(t, h.m.View(), "You're broke!")

	h.key(tea.KeyEnter)
	require.Equal(t, screenIntro, h.m.screen)
	h.advance(4 * time.Second)
	require.Equal(t, screenIntro, h.m.screen)
	h.advance(time.Second)
	require.Equal(t, screenRecovery, h.m.screen)
}

func TestRecoverySucceeds(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerWins}, Options{PlayerName: "Ada"},
		session.WithDealerDelay(0), session.WithChooser(minigame.Fixed(minigame.Progress)))
	goBroke(t, h)

	assert.Equal(t, minigame.Progress, h.m.recovery.Kind)
	assert.Equal(t, 10*time.Second, h.m.recovery.Remaining, "intro time does not count against the challenge")
	assert.Contains(t, h.m.View(), "Mash Space")

	for i := 0; i < 20; i++ {
		h.clock.Advance(100 * time.Millisecond).MustWait(context.Background())
		h.key(tea.KeySpace)
	}
	require.Equal(t, screenLoanMan, h.m.screen)
	assert.Equal(t, 500, h.m.session.Bankroll())
	assert.Contains(t, h.m.View(), "you get a loan")

	h.key(tea.KeyEnter)
	assert.Equal(t, screenBetting, h.m.screen)
}

func TestRecoveryFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerWins}, Options{PlayerName: "Ada"}, session.WithDealerDelay(0))
	goBroke(t, h)

	assert.Equal(t, minigame.Strength, h.m.recovery.Kind)
	h.m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 1, h.m.recovery.Presses, "clicks count for strength")

	h.advance(7 * time.Second)
	require.Equal(t, screenGameOver, h.m.screen)
	assert.Equal(t, session.OverRecoveryFailed, h.m.overReason)
	assert.Contains(t, h.m.View(), "You lost the recovery challenge.")
	assert.Contains(t, h.m.View(), "Recoveries:     0 of 1")
}

func TestCtrlCQuitsSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{playerWins}, Options{PlayerName: "Ada"})
	h.key(tea.KeyEnter)
	h.typeText("100")
	h.key(tea.KeyEnter)
	require.Equal(t, screenRound, h.m.screen)

	cmd := h.key(tea.KeyCtrlC)
	assert.NotNil(t, cmd)
	assert.True(t, h.m.quitting)
	assert.Equal(t, session.Over, h.m.session.State())

	h.frame()
	assert.Equal(t, screenRound, h.m.screen, "frames stop after quitting")
}

func TestThemes(t *testing.T) {
	t.Parallel()

	rounded := newHarness(t, nil, Options{PlayerName: "Ada", Theme: "rounded"})
	assert.Contains(t, rounded.m.View(), "╭")

	classic := newHarness(t, nil, Options{PlayerName: "Ada", Theme: "classic"})
	assert.Contains(t, classic.m.View(), "┌")
	assert.NotContains(t, classic.m.View(), "╭")
}

func TestFlavor(t *testing.T) {
	t.Parallel()

	rng := randutil.New(3)
	assert.Equal(t, GenericDealer, PickOpponent(rng, "dealer"))
	for i := 0; i < 20; i++ {
		assert.Contains(t, OpponentNames, PickOpponent(rng, "named"))
		assert.Contains(t, dealerHitComments, DealerComment(rng, game.Hit))
	}
	assert.Equal(t, DealerStandLine, DealerComment(rng, game.Stand))
}
