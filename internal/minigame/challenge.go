package minigame

import (
	"time"

	"github.com/coder/quartz"
)

// Engine is a running recovery challenge. The session treats every kind of
// challenge through this interface.
type Engine interface {
	Kind() Kind
	Press() Status
	Tick() Status
	Status() Status
	Snapshot() Snapshot
	Result() Result
}

// Snapshot is what a renderer needs to draw a challenge
type Snapshot struct {
	Kind      Kind
	Status    Status
	Progress  float64
	Threshold float64
	Elapsed   time.Duration
	Remaining time.Duration
	Presses   int
}

// Fraction returns progress as a fraction of the threshold, clamped to [0, 1]
func (s Snapshot) Fraction() float64 {
	if s.Threshold <= 0 {
		return 0
	}
	return min(max(s.Progress/s.Threshold, 0), 1)
}

// Challenge is a live challenge timed by a clock. The clock starts when the
// challenge is created.
type Challenge struct {
	clock   quartz.Clock
	started time.Time
	state   *state
}

var _ Engine = (*Challenge)(nil)

// NewChallenge starts a challenge now
func NewChallenge(cfg Config, clock quartz.Clock) *Challenge {
	if clock == nil {
		panic("clock is required for challenge creation")
	}
	return &Challenge{
		clock:   clock,
		started: clock.Now(),
		state:   newState(cfg),
	}
}

func (c *Challenge) elapsed() time.Duration {
	return c.clock.Since(c.started)
}

// Kind returns the challenge kind
func (c *Challenge) Kind() Kind {
	return c.state.cfg.Kind
}

// Press records a qualifying input at the current time
func (c *Challenge) Press() Status {
	c.state.press(c.elapsed())
	return c.state.status
}

// Tick applies decay and expiry up to the current time
func (c *Challenge) Tick() Status {
	c.state.advance(c.elapsed())
	return c.state.status
}

// Status returns the status as of the last Press or Tick
func (c *Challenge) Status() Status {
	return c.state.status
}

// Result returns the summary as of the last Press or Tick
func (c *Challenge) Result() Result {
	return c.state.result()
}

// Snapshot returns the current view without advancing the challenge
func (c *Challenge) Snapshot() Snapshot {
	elapsed := min(c.state.last, c.state.cfg.Duration)
	if c.state.status.Done() {
		elapsed = c.state.finished
	}
	return Snapshot{
		Kind:      c.state.cfg.Kind,
		Status:    c.state.status,
		Progress:  c.state.progress,
		Threshold: c.state.cfg.Threshold,
		Elapsed:   elapsed,
		Remaining: max(c.state.cfg.Duration-elapsed, 0),
		Presses:   c.state.presses,
	}
}
