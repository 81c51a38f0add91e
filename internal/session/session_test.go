package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/vegasjack/internal/deck"
	"github.com/lox/vegasjack/internal/economy"
	"github.com/lox/vegasjack/internal/game"
	"github.com/lox/vegasjack/internal/minigame"
	"github.com/lox/vegasjack/internal/randutil"
)

// Card strings deal player, player, dealer, dealer, then hits in order
const (
	playerBusts  = "Kh Qd 9c 7s 5h"
	playerWins   = "Kh 9d Tc 8s"
	dealerWins   = "Kh 6d Tc 9s"
	push         = "Kh 9d Tc 9s"
	dealerDraws3 = "Kh 9d 2c 3d 4h 5s 6c"
	dealerBusts  = "Kh 9d 6c Ts 8h"
)

type harness struct {
	s     *Session
	clock *quartz.Mock
	log   *EventLog
}

func newHarness(t *testing.T, hands []string, opts ...Option) *harness {
	t.Helper()

	rng := randutil.New(1)
	mClock := quartz.NewMock(t)
	events := &EventLog{}
	bus := NewEventBus()
	bus.Subscribe(events)

	next := 0
	factory := func() *deck.Deck {
		if next >= len(hands) {
			return deck.NewDeck(rng)
		}
		d := deck.NewStackedDeck(rng, deck.MustParseCards(hands[next])...)
		next++
		return d
	}

	base := []Option{
		WithClock(mClock),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})),
		WithEventBus(bus),
		WithDeckFactory(factory),
		WithDealerDelay(0),
	}
	return &harness{
		s:     New(rng, append(base, opts...)...),
		clock: mClock,
		log:   events,
	}
}

func (h *harness) advance(t *testing.T, d time.Duration) {
	t.Helper()
	h.clock.Advance(d).MustWait(context.Background())
	require.NoError(t, h.s.Advance(context.Background()))
}

func (h *harness) play(t *testing.T, bet int, actions ...game.Action) *RoundHandle {
	t.Helper()
	handle, err := h.s.StartRound(bet)
	require.NoError(t, err)
	for _, a := range actions {
		require.NoError(t, h.s.SubmitIntent(handle, a))
	}
	return handle
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	assert.Equal(t, Betting, h.s.State())
	assert.Equal(t, 1000, h.s.Bankroll())
	assert.False(t, h.s.AssetOwned())
	assert.NotEmpty(t, h.s.ID())

	_, ok := h.s.LastSettlement()
	assert.False(t, ok)
}

func TestStartRoundValidatesBet(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	for _, bet := range []int{0, -10, 1001} {
		_, err := h.s.StartRound(bet)
		require.Error(t, err)
		assert.True(t, errors.Is(err, economy.ErrInvalidBet), "bet %d", bet)
		assert.Equal(t, Betting, h.s.State())
	}
	assert.Empty(t, h.log.Events)
}

func TestStartRoundOnlyWhileBetting(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{playerWins})
	h.play(t, 100)
	require.Equal(t, InRound, h.s.State())

	_, err := h.s.StartRound(100)
	assert.True(t, errors.Is(err, ErrWrongState))
}

func TestPlayerBustSettlesImmediately(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{playerBusts})
	handle := h.play(t, 100, game.Hit)

	outcome, ok := h.s.PollOutcome(handle)
	require.True(t, ok)
	assert.Equal(t, game.PlayerBust, outcome)
	assert.Equal(t, 900, h.s.Bankroll())
	assert.Equal(t, Betting, h.s.State())
	assert.Equal(t, []EventType{EventTypeRoundStarted, EventTypeRoundSettled}, h.log.Types())

	settled := h.log.Events[1].(RoundSettledEvent)
	assert.Equal(t, handle.ID(), settled.RoundID)
	assert.Equal(t, -100, settled.Delta)
}

func TestZeroDelayPlaysDealerOnStand(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerBusts})
	handle := h.play(t, 100, game.Stand)

	outcome, ok := h.s.PollOutcome(handle)
	require.True(t, ok)
	assert.Equal(t, game.DealerBust, outcome)
	assert.Equal(t, 1100, h.s.Bankroll())
}

func TestDealerPacedByClock(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerDraws3}, WithDealerDelay(time.Second))
	handle := h.play(t, 100, game.Stand)

	snap, err := h.s.Snapshot(handle)
	require.NoError(t, err)
	assert.Equal(t, game.DealerTurn, snap.Phase)
	assert.False(t, snap.DealerFirstCardHidden)

	action, ok := h.s.NextDealerAction()
	require.True(t, ok)
	assert.Equal(t, game.Hit, action)

	h.advance(t, 500*time.Millisecond)
	snap, _ = h.s.Snapshot(handle)
	assert.Len(t, snap.Dealer, 2, "no dealer action before the delay")

	for want := 3; want <= 5; want++ {
		h.advance(t, 500*time.Millisecond)
		h.advance(t, 500*time.Millisecond)
		snap, _ = h.s.Snapshot(handle)
		assert.Len(t, snap.Dealer, want, "one card per second")
		_, ok := h.s.PollOutcome(handle)
		assert.False(t, ok)
	}

	h.advance(t, time.Second)
	outcome, ok := h.s.PollOutcome(handle)
	require.True(t, ok)
	assert.Equal(t, game.DealerWins, outcome)
	assert.Equal(t, 900, h.s.Bankroll())
	assert.Equal(t, Betting, h.s.State())
}

func TestDealerCatchesUpAfterLongFrame(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerDraws3}, WithDealerDelay(time.Second))
	handle := h.play(t, 100, game.Stand)

	h.advance(t, 10*time.Second)
	outcome, ok := h.s.PollOutcome(handle)
	require.True(t, ok)
	assert.Equal(t, game.DealerWins, outcome)
}

func TestAdvanceObservesContext(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerDraws3}, WithDealerDelay(time.Second))
	handle := h.play(t, 100, game.Stand)

	h.clock.Advance(5 * time.Second).MustWait(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.s.Advance(ctx)
	assert.True(t, errors.Is(err, context.Canceled))

	snap, _ := h.s.Snapshot(handle)
	assert.Len(t, snap.Dealer, 2, "no dealer step after cancellation")
	assert.Equal(t, InRound, h.s.State())
}

func TestWealthThresholdThenUpkeep(t *testing.T) {
	t.Parallel()

	rules := economy.DefaultRules()
	rules.StartingBankroll = 2950
	h := newHarness(t, []string{playerWins, push}, WithRules(rules))

	h.play(t, 100, game.Stand)
	assert.Equal(t, 2975, h.s.Bankroll(), "2950 + 100 - 75 upkeep")
	assert.True(t, h.s.AssetOwned())
	assert.Equal(t, []EventType{
		EventTypeRoundStarted,
		EventTypeRoundSettled,
		EventTypeWealthThresholdReached,
		EventTypeUpkeepCharged,
	}, h.log.Types())

	wealth := h.log.Events[2].(WealthThresholdReachedEvent)
	assert.Equal(t, 3050, wealth.Bankroll)
	assert.Equal(t, 3000, wealth.Threshold)

	settlement, ok := h.s.LastSettlement()
	require.True(t, ok)
	assert.Equal(t, 25, settlement.Net())

	h.log.Reset()
	h.play(t, 100, game.Stand)
	assert.Equal(t, 2900, h.s.Bankroll(), "push still pays upkeep")
	assert.Equal(t, []EventType{
		EventTypeRoundStarted,
		EventTypeRoundSettled,
		EventTypeUpkeepCharged,
	}, h.log.Types())
}

func TestUpkeepCanBankrupt(t *testing.T) {
	t.Parallel()

	rules := economy.Rules{StartingBankroll: 2950, WealthThreshold: 3000, Upkeep: 5000, RecoveryGrant: 500}
	h := newHarness(t, []string{playerWins}, WithRules(rules))

	h.play(t, 100, game.Stand)
	assert.Equal(t, -1950, h.s.Bankroll())
	assert.Equal(t, Recovery, h.s.State())
}

func TestBankruptcyRecoveryFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerWins})
	handle := h.play(t, 1000, game.Stand)

	assert.Equal(t, 0, h.s.Bankroll())
	require.Equal(t, Recovery, h.s.State())

	bankrupt := h.log.Events[len(h.log.Events)-1].(BankruptcyEvent)
	assert.Equal(t, minigame.Strength, bankrupt.MiniGame)
	assert.Equal(t, 1, bankrupt.Attempt)

	_, err := h.s.StartRound(100)
	assert.True(t, errors.Is(err, ErrWrongState), "no betting during recovery")

	snap, ok := h.s.Recovery()
	require.True(t, ok)
	assert.Equal(t, 50.0, snap.Progress)
	assert.Equal(t, 7*time.Second, snap.Remaining)

	h.advance(t, 6*time.Second)
	assert.Equal(t, Recovery, h.s.State())
	h.advance(t, time.Second)
	require.Equal(t, Over, h.s.State())

	over := h.log.Events[len(h.log.Events)-1].(SessionOverEvent)
	assert.Equal(t, OverRecoveryFailed, over.Reason)
	assert.Equal(t, 1, over.Rounds)

	_, err = h.s.StartRound(100)
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.ErrorIs(t, h.s.SubmitIntent(handle, game.Hit), ErrSessionOver)
	assert.ErrorIs(t, h.s.Advance(context.Background()), ErrSessionOver)
	_, err = h.s.PressRecovery()
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.ErrorIs(t, h.s.CompleteRecovery(true), ErrSessionOver)
	assert.ErrorIs(t, h.s.Quit(), ErrSessionOver)
}

func TestBankruptcyRecoverySucceeds(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerWins}, WithChooser(minigame.Fixed(minigame.Progress)))
	h.play(t, 1000, game.Stand)
	require.Equal(t, Recovery, h.s.State())

	cfg, ok := h.s.RecoveryConfig()
	require.True(t, ok)
	assert.Equal(t, minigame.Progress, cfg.Kind)

	var status minigame.Status
	for i := 0; i < 20; i++ {
		h.clock.Advance(100 * time.Millisecond).MustWait(context.Background())
		var err error
		status, err = h.s.PressRecovery()
		require.NoError(t, err)
	}

	assert.Equal(t, minigame.Succeeded, status)
	assert.Equal(t, 500, h.s.Bankroll(), "recovery sets the bankroll to exactly the grant")
	assert.Equal(t, Betting, h.s.State())

	granted := h.log.Events[len(h.log.Events)-1].(RecoveryGrantedEvent)
	assert.Equal(t, minigame.Progress, granted.MiniGame)

	stats := h.s.Stats()
	assert.Equal(t, 1, stats.Bankruptcies)
	assert.Equal(t, 1, stats.Recoveries)
	require.NoError(t, stats.Validate())

	_, err := h.s.StartRound(500)
	assert.NoError(t, err, "the whole grant can be bet")
}

func TestBeginRecoveryRestartsClock(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerWins})
	assert.ErrorIs(t, h.s.BeginRecovery(), ErrWrongState)

	h.play(t, 1000, game.Stand)
	require.Equal(t, Recovery, h.s.State())

	// intermission screens run without Advance
	h.clock.Advance(5 * time.Second).MustWait(context.Background())
	require.NoError(t, h.s.BeginRecovery())

	snap, ok := h.s.Recovery()
	require.True(t, ok)
	assert.Equal(t, 7*time.Second, snap.Remaining)

	h.advance(t, 6*time.Second)
	assert.Equal(t, Recovery, h.s.State(), "deadline counts from BeginRecovery")
	h.advance(t, time.Second)
	assert.Equal(t, Over, h.s.State())
	assert.ErrorIs(t, h.s.BeginRecovery(), ErrSessionOver)
}

func TestCompleteRecovery(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{dealerWins, dealerWins}, WithChooser(minigame.Alternate()))

	assert.ErrorIs(t, h.s.CompleteRecovery(true), ErrWrongState)
	_, err := h.s.PressRecovery()
	assert.ErrorIs(t, err, ErrWrongState)

	h.play(t, 1000, game.Stand)
	cfg, _ := h.s.RecoveryConfig()
	assert.Equal(t, minigame.Strength, cfg.Kind)
	require.NoError(t, h.s.CompleteRecovery(true))
	assert.Equal(t, 500, h.s.Bankroll())

	h.play(t, 500, game.Stand)
	cfg, _ = h.s.RecoveryConfig()
	assert.Equal(t, minigame.Progress, cfg.Kind, "alternate chooser switches games")
	require.NoError(t, h.s.CompleteRecovery(false))
	assert.Equal(t, Over, h.s.State())
}

func TestStaleHandle(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{playerBusts, playerWins})
	first := h.play(t, 100, game.Hit)
	second := h.play(t, 100)

	assert.ErrorIs(t, h.s.SubmitIntent(first, game.Stand), ErrStaleHandle)
	assert.ErrorIs(t, h.s.SubmitIntent(nil, game.Stand), ErrStaleHandle)

	_, ok := h.s.PollOutcome(first)
	assert.False(t, ok)
	_, err := h.s.Snapshot(first)
	assert.ErrorIs(t, err, ErrStaleHandle)

	snap, err := h.s.Snapshot(second)
	require.NoError(t, err)
	assert.True(t, snap.DealerFirstCardHidden)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestIgnoredIntentsAfterResolution(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{playerBusts})
	handle := h.play(t, 100, game.Hit)
	bankroll := h.s.Bankroll()

	assert.NoError(t, h.s.SubmitIntent(handle, game.Hit))
	assert.NoError(t, h.s.SubmitIntent(handle, game.Stand))
	assert.Equal(t, bankroll, h.s.Bankroll(), "a round settles exactly once")
	assert.Equal(t, 1, h.s.Stats().Rounds)
}

func TestQuit(t *testing.T) {
	t.Parallel()

	h := newHarness(t, []string{playerWins})
	handle := h.play(t, 100)

	require.NoError(t, h.s.Quit())
	assert.Equal(t, Over, h.s.State())
	assert.Equal(t, 1000, h.s.Bankroll(), "abandoned round is not settled")

	over := h.log.Events[len(h.log.Events)-1].(SessionOverEvent)
	assert.Equal(t, OverQuit, over.Reason)
	assert.ErrorIs(t, h.s.SubmitIntent(handle, game.Stand), ErrSessionOver)
}

func TestEventBusUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	a, b := &EventLog{}, &EventLog{}
	calls := 0
	bus.Subscribe(a)
	bus.Subscribe(SubscriberFunc(func(Event) { calls++ }))
	bus.Subscribe(b)

	bus.Publish(RoundStartedEvent{RoundID: "r1"})
	bus.Unsubscribe(a)
	bus.Publish(RoundStartedEvent{RoundID: "r2"})

	assert.Len(t, a.Events, 1)
	assert.Len(t, b.Events, 2)
	assert.Equal(t, 2, calls)
}
