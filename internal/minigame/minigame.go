// Package minigame implements the time-boxed recovery challenges offered on
// bankruptcy. Each challenge has a progress value that rises with every
// qualifying press and may decay continuously; it succeeds as soon as
// progress reaches the threshold and fails when time runs out.
//
// The rules are a pure function of press times and elapsed time, so the
// same Config can be evaluated against a recorded press stream with Replay
// or driven live from a clock with Challenge.
package minigame

import (
	"fmt"
	"time"
)

// Kind identifies a recovery challenge
type Kind int

const (
	Strength Kind = iota + 1 // arm wrestling: rapid presses against decay
	Progress                 // fill a bar with the space bar, no decay
)

func (k Kind) String() string {
	switch k {
	case Strength:
		return "strength"
	case Progress:
		return "progress"
	default:
		return "unknown"
	}
}

// ParseKind converts a configuration name to a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "strength":
		return Strength, nil
	case "progress":
		return Progress, nil
	default:
		return 0, fmt.Errorf("unknown mini-game %q", s)
	}
}

// Status is the state of a challenge
type Status int

const (
	Running Status = iota
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Done reports whether the challenge has finished
func (s Status) Done() bool {
	return s != Running
}

// Config parameterises a challenge
type Config struct {
	Kind           Kind
	Duration       time.Duration
	Start          float64
	Increment      float64
	DecayPerSecond float64
	Threshold      float64
}

// StrengthConfig is arm wrestling: 7 seconds, starting at 50, +3 per press,
// losing 0.25 per frame at 30 FPS.
func StrengthConfig() Config {
	return Config{
		Kind:           Strength,
		Duration:       7 * time.Second,
		Start:          50,
		Increment:      3,
		DecayPerSecond: 7.5,
		Threshold:      100,
	}
}

// ProgressConfig is the space bar challenge: 10 seconds from empty, +5 per
// press, no decay.
func ProgressConfig() Config {
	return Config{
		Kind:      Progress,
		Duration:  10 * time.Second,
		Start:     0,
		Increment: 5,
		Threshold: 100,
	}
}

// DefaultConfig returns the standard parameters for a kind
func DefaultConfig(kind Kind) Config {
	if kind == Progress {
		return ProgressConfig()
	}
	return StrengthConfig()
}

// Validate checks the parameters describe a winnable challenge
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("%s: duration must be positive", c.Kind)
	}
	if c.Increment <= 0 {
		return fmt.Errorf("%s: increment must be positive", c.Kind)
	}
	if c.DecayPerSecond < 0 {
		return fmt.Errorf("%s: decay cannot be negative", c.Kind)
	}
	if c.Start < 0 || c.Start >= c.Threshold {
		return fmt.Errorf("%s: start must be in [0, threshold)", c.Kind)
	}
	return nil
}

// state is the clock-free core shared by Replay and Challenge. All times
// are offsets from the start of the challenge.
type state struct {
	cfg      Config
	progress float64
	last     time.Duration
	status   Status
	presses  int
	finished time.Duration
}

func newState(cfg Config) *state {
	return &state{cfg: cfg, progress: cfg.Start}
}

// advance applies decay up to elapsed and expires the challenge once the
// duration has passed
func (s *state) advance(elapsed time.Duration) {
	if s.status.Done() || elapsed <= s.last {
		return
	}

	until := min(elapsed, s.cfg.Duration)
	if s.cfg.DecayPerSecond > 0 && until > s.last {
		s.progress -= s.cfg.DecayPerSecond * (until - s.last).Seconds()
		s.progress = max(s.progress, 0)
	}
	s.last = elapsed

	if elapsed >= s.cfg.Duration {
		s.status = Failed
		s.finished = s.cfg.Duration
	}
}

// press records one qualifying input at elapsed
func (s *state) press(elapsed time.Duration) {
	s.advance(elapsed)
	if s.status.Done() {
		return
	}

	s.presses++
	s.progress += s.cfg.Increment
	if s.progress >= s.cfg.Threshold {
		s.status = Succeeded
		s.finished = elapsed
	}
}

// Result summarises a finished challenge
type Result struct {
	Kind     Kind
	Status   Status
	Progress float64
	Presses  int
	Elapsed  time.Duration
}

func (s *state) result() Result {
	return Result{
		Kind:     s.cfg.Kind,
		Status:   s.status,
		Progress: s.progress,
		Presses:  s.presses,
		Elapsed:  s.finished,
	}
}

// Replay evaluates a challenge against press times measured from the start.
// Presses after the challenge finishes are ignored. A challenge that has not
// succeeded by the last press runs out its clock and fails.
func Replay(cfg Config, pressTimes []time.Duration) Result {
	s := newState(cfg)
	for _, at := range pressTimes {
		s.press(at)
		if s.status.Done() {
			break
		}
	}
	s.advance(cfg.Duration)
	return s.result()
}
