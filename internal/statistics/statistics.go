// Package statistics accumulates per-round results for a session or a batch
// of simulated sessions.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/vegasjack/internal/game"
)

// RoundResult is the economic record of one settled round
type RoundResult struct {
	RoundID       string
	Outcome       game.Outcome
	Bet           int
	Net           int // bankroll change including upkeep
	Upkeep        int
	AssetAcquired bool
	Bankroll      int // after settlement and upkeep
	Bankrupt      bool
}

// Statistics tracks running totals. The zero value is ready to use.
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // sum of squares for variance
	Values  []float64 // per-round net for median and percentiles

	Outcomes [game.Push + 1]int // indexed by game.Outcome
	Wins     int
	Losses   int
	Pushes   int

	Wagered      int
	UpkeepPaid   int
	Purchases    int
	Bankruptcies int
	Recoveries   int
	Sessions     int
	PeakBankroll int
}

// Add incorporates one round
func (s *Statistics) Add(r RoundResult) {
	net := float64(r.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	if r.Outcome > game.NoOutcome && int(r.Outcome) < len(s.Outcomes) {
		s.Outcomes[r.Outcome]++
	}
	switch {
	case r.Outcome.PlayerWon():
		s.Wins++
	case r.Outcome.PlayerLost():
		s.Losses++
	default:
		s.Pushes++
	}

	s.Wagered += r.Bet
	s.UpkeepPaid += r.Upkeep
	if r.AssetAcquired {
		s.Purchases++
	}
	if r.Bankrupt {
		s.Bankruptcies++
	}
	if r.Bankroll > s.PeakBankroll {
		s.PeakBankroll = r.Bankroll
	}
}

// AddRecovery records a successful bankruptcy recovery
func (s *Statistics) AddRecovery() {
	s.Recoveries++
}

// ObserveBankroll raises the peak if bankroll exceeds it. Used for the
// starting bankroll, which no round reports.
func (s *Statistics) ObserveBankroll(bankroll int) {
	if bankroll > s.PeakBankroll {
		s.PeakBankroll = bankroll
	}
}

// Merge folds another set of statistics into s
func (s *Statistics) Merge(o *Statistics) {
	s.Rounds += o.Rounds
	s.SumNet += o.SumNet
	s.SumNet2 += o.SumNet2
	s.Values = append(s.Values, o.Values...)
	for i := range s.Outcomes {
		s.Outcomes[i] += o.Outcomes[i]
	}
	s.Wins += o.Wins
	s.Losses += o.Losses
	s.Pushes += o.Pushes
	s.Wagered += o.Wagered
	s.UpkeepPaid += o.UpkeepPaid
	s.Purchases += o.Purchases
	s.Bankruptcies += o.Bankruptcies
	s.Recoveries += o.Recoveries
	s.Sessions += o.Sessions
	if o.PeakBankroll > s.PeakBankroll {
		s.PeakBankroll = o.PeakBankroll
	}
}

// Mean returns the mean net bankroll change per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of the per-round net
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the fraction of rounds the player won
func (s *Statistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the median per-round net
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at p (0.0 to 1.0) using linear interpolation
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Rounds < 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values length (%d) does not match rounds (%d)", len(s.Values), s.Rounds)
	}
	if s.Wins+s.Losses+s.Pushes != s.Rounds {
		return fmt.Errorf("wins (%d) + losses (%d) + pushes (%d) does not match rounds (%d)",
			s.Wins, s.Losses, s.Pushes, s.Rounds)
	}

	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Rounds {
		return fmt.Errorf("outcome counts total (%d) does not match rounds (%d)", total, s.Rounds)
	}
	if s.Recoveries > s.Bankruptcies {
		return fmt.Errorf("recoveries (%d) exceed bankruptcies (%d)", s.Recoveries, s.Bankruptcies)
	}
	return nil
}
