package renderer

import "time"

// Clock measures variable time steps between ticks.
// The first Tick only records a start time, so FrameCount stays zero until
// a real interval has been measured.
type Clock struct {
	now     func() time.Time
	last    time.Time
	started bool

	elapsed time.Duration
	total   time.Duration
	frames  uint64
}

// NewClock creates a clock on the given time source, or time.Now when nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Tick advances the clock and returns the time since the previous Tick.
func (c *Clock) Tick() time.Duration {
	t := c.now()
	if !c.started {
		c.last = t
		c.started = true
		c.elapsed = 0
		return 0
	}
	c.elapsed = max(t.Sub(c.last), 0)
	c.last = t
	c.total += c.elapsed
	c.frames++
	return c.elapsed
}

// ResetElapsed discards the time accumulated since the last Tick, so the
// step after a suspension is not huge.
func (c *Clock) ResetElapsed() {
	if c.started {
		c.last = c.now()
	}
	c.elapsed = 0
}

// Elapsed returns the last measured step.
func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// Total returns the sum of all measured steps.
func (c *Clock) Total() time.Duration { return c.total }

// FrameCount returns the number of measured steps.
func (c *Clock) FrameCount() uint64 { return c.frames }
