package collector

import "time"

// Countdown is a tick driven deadline. The owner calls Update every tick.
type Countdown struct {
	remaining time.Duration
	running   bool
}

// Start (re)arms the countdown. A non-positive duration leaves it stopped.
func (c *Countdown) Start(d time.Duration) {
	c.remaining = d
	c.running = d > 0
}

// Stop disarms the countdown without firing
func (c *Countdown) Stop() {
	c.running = false
	c.remaining = 0
}

// Update advances by delta and reports true exactly once, on the tick that
// reaches the deadline
func (c *Countdown) Update(delta time.Duration) bool {
	if !c.running {
		return false
	}
	c.remaining -= delta
	if c.remaining > 0 {
		return false
	}
	c.running = false
	c.remaining = 0
	return true
}

// Running reports whether the countdown is armed
func (c *Countdown) Running() bool {
	return c.running
}

// Remaining is the time left before expiry
func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}
