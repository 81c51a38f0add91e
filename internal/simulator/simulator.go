// Package simulator plays whole sessions headlessly with a fixed strategy,
// for balancing the economy and for soak testing the session loop.
package simulator

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/vegasjack/internal/economy"
	"github.com/lox/vegasjack/internal/game"
	"github.com/lox/vegasjack/internal/minigame"
	"github.com/lox/vegasjack/internal/randutil"
	"github.com/lox/vegasjack/internal/session"
	"github.com/lox/vegasjack/internal/statistics"
)

// Config holds configuration for a simulation run
type Config struct {
	Sessions  int
	MaxRounds int // per session
	Bet       int // fixed wager, capped at the bankroll
	HitBelow  int // the autoplayer hits while its total is below this
	Seed      int64
	Workers   int

	Rules     economy.Rules
	Recovery  string // chooser mode, see minigame.ChooserModes
	MiniGames []minigame.Config

	// Simulated recovery presses arrive every PressInterval plus up to
	// PressJitter of uniform noise
	PressInterval time.Duration
	PressJitter   time.Duration

	Logger *log.Logger
}

// DefaultConfig returns a small run with the standard economy
func DefaultConfig() Config {
	return Config{
		Sessions:      100,
		MaxRounds:     200,
		Bet:           100,
		HitBelow:      17,
		Workers:       runtime.GOMAXPROCS(0),
		Rules:         economy.DefaultRules(),
		Recovery:      "strength",
		PressInterval: 150 * time.Millisecond,
		PressJitter:   250 * time.Millisecond,
	}
}

// SessionSummary is the end state of one simulated session
type SessionSummary struct {
	Index         int
	Rounds        int
	FinalBankroll int
	AssetOwned    bool
	Busted        bool // ended by a failed recovery rather than the round limit
}

// Result aggregates a run
type Result struct {
	Stats    *statistics.Statistics
	Sessions []SessionSummary
}

// Busted returns how many sessions ended on a failed recovery
func (r *Result) Busted() int {
	n := 0
	for _, s := range r.Sessions {
		if s.Busted {
			n++
		}
	}
	return n
}

// Simulator runs independent sessions in parallel
type Simulator struct {
	config Config
}

// New creates a simulator
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.HitBelow == 0 {
		config.HitBelow = 17
	}
	return &Simulator{config: config}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Sessions < 1 {
		return fmt.Errorf("sessions must be positive, got %d", c.Sessions)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be positive, got %d", c.MaxRounds)
	}
	if c.Bet < 1 {
		return fmt.Errorf("bet must be positive, got %d", c.Bet)
	}
	if c.PressInterval <= 0 {
		return fmt.Errorf("press interval must be positive, got %v", c.PressInterval)
	}
	return c.Rules.Validate()
}

// Run plays every session and merges their statistics. Each session gets
// its own rng stream derived from the seed, so results do not depend on
// scheduling.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, s.config.Sessions)
	stats := make([]statistics.Statistics, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Sessions; i++ {
		g.Go(func() error {
			summary, st, err := s.playSession(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			summaries[i] = summary
			stats[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for i := range stats {
		total.Merge(&stats[i])
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return &Result{Stats: total, Sessions: summaries}, nil
}

func (s *Simulator) playSession(ctx context.Context, index int) (SessionSummary, statistics.Statistics, error) {
	rng := randutil.Child(s.config.Seed, index)
	logger := s.config.Logger.With("sim", index)

	chooser, err := minigame.ParseChooser(s.config.Recovery, rng)
	if err != nil {
		return SessionSummary{}, statistics.Statistics{}, err
	}

	opts := []session.Option{
		session.WithClock(quartz.NewReal()),
		session.WithLogger(logger),
		session.WithRules(s.config.Rules),
		session.WithChooser(chooser),
		session.WithDealerDelay(0),
	}
	for _, mg := range s.config.MiniGames {
		opts = append(opts, session.WithMiniGame(mg))
	}
	sess := session.New(rng, opts...)

	rounds := 0
	for rounds < s.config.MaxRounds && sess.State() != session.Over {
		if err := ctx.Err(); err != nil {
			return SessionSummary{}, statistics.Statistics{}, err
		}

		if sess.State() == session.Recovery {
			cfg, _ := sess.RecoveryConfig()
			res := minigame.Replay(cfg, s.presses(rng, cfg.Duration))
			logger.Debug("Recovery replayed", "game", cfg.Kind, "status", res.Status, "presses", res.Presses)
			if err := sess.CompleteRecovery(res.Status == minigame.Succeeded); err != nil {
				return SessionSummary{}, statistics.Statistics{}, err
			}
			continue
		}

		if err := s.playRound(sess); err != nil {
			return SessionSummary{}, statistics.Statistics{}, err
		}
		rounds++
	}

	busted := sess.State() == session.Over
	if !busted {
		if err := sess.Quit(); err != nil {
			return SessionSummary{}, statistics.Statistics{}, err
		}
	}

	return SessionSummary{
		Index:         index,
		Rounds:        rounds,
		FinalBankroll: sess.Bankroll(),
		AssetOwned:    sess.AssetOwned(),
		Busted:        busted,
	}, sess.Stats(), nil
}

// playRound bets the fixed stake and hits below the configured total
func (s *Simulator) playRound(sess *session.Session) error {
	bet := min(s.config.Bet, sess.Bankroll())
	h, err := sess.StartRound(bet)
	if err != nil {
		return err
	}

	for {
		snap, err := sess.Snapshot(h)
		if err != nil {
			return err
		}
		if snap.Phase != game.PlayerTurn {
			break
		}
		action := game.Stand
		if snap.PlayerTotal < s.config.HitBelow {
			action = game.Hit
		}
		if err := sess.SubmitIntent(h, action); err != nil {
			return err
		}
	}

	if _, ok := sess.PollOutcome(h); !ok {
		return fmt.Errorf("round %s did not resolve", h.ID())
	}
	return nil
}

// presses generates a human-like stream of press times up to duration
func (s *Simulator) presses(rng *rand.Rand, duration time.Duration) []time.Duration {
	var times []time.Duration
	at := time.Duration(0)
	for {
		at += s.config.PressInterval
		if s.config.PressJitter > 0 {
			at += time.Duration(rng.Int64N(int64(s.config.PressJitter)))
		}
		if at >= duration {
			return times
		}
		times = append(times, at)
	}
}

// PrintSummary writes a human-readable report of a run
func PrintSummary(w io.Writer, cfg Config, res *Result) {
	stats := res.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== SIMULATION: %d sessions x %d rounds, bet %d, hit below %d ===\n",
		cfg.Sessions, cfg.MaxRounds, cfg.Bet, cfg.HitBelow)
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for _, o := range []game.Outcome{game.PlayerWins, game.DealerBust, game.DealerWins, game.PlayerBust, game.Push} {
		n := stats.Outcomes[o]
		fmt.Fprintf(w, "%-12s %6d (%5.1f%%)\n", o, n, pct(n, stats.Rounds))
	}
	fmt.Fprintf(w, "Win rate: %.1f%%\n", stats.WinRate()*100)

	fmt.Fprintf(w, "\n=== BANKROLL ===\n")
	fmt.Fprintf(w, "Mean: %.2f per round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.2f per round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.2f\n", stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f] per round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.0f, P25=%.0f, P75=%.0f, P95=%.0f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Peak bankroll: %d\n", stats.PeakBankroll)
	fmt.Fprintf(w, "Wagered: %d\n", stats.Wagered)

	fmt.Fprintf(w, "\n=== ECONOMY ===\n")
	fmt.Fprintf(w, "Houses bought: %d (%.1f%% of sessions)\n", stats.Purchases, pct(stats.Purchases, stats.Sessions))
	fmt.Fprintf(w, "Upkeep paid: %d\n", stats.UpkeepPaid)
	fmt.Fprintf(w, "Bankruptcies: %d, recoveries: %d\n", stats.Bankruptcies, stats.Recoveries)
	fmt.Fprintf(w, "Sessions ended broke: %d (%.1f%%)\n", res.Busted(), pct(res.Busted(), len(res.Sessions)))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
