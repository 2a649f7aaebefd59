package loop

import (
	"sync"
	"time"
)

// Clock is the time source of the driver loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep pauses the current goroutine for at least d.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// VirtualClock only moves forward when Sleep is called, which makes the loop
// run frames back to back as fast as the host can take them. Used for
// headless runs and tests.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewVirtualClock returns a VirtualClock starting at the zero time.
func NewVirtualClock() *VirtualClock {
	return &VirtualClock{}
}

// Now returns the virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the virtual time by d without blocking.
func (c *VirtualClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// Advance moves the virtual time forward by d.
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
