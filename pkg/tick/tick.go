// Package tick models the free-running down-counter used as the control
// loop time base.
//
// The counter counts from Reload down to zero and then reloads. Elapsed
// time between two readings is computed modulo the counter period, so a
// reading taken after a rollover never produces a negative interval.
package tick

import (
	"sync"
	"time"
)

// Source returns the current counter value.
type Source interface {
	Now() uint32
}

// Elapsed returns the number of ticks counted down from `from` to `to` on a
// counter reloading at reload. A reload of zero means the full 32-bit range.
func Elapsed(from, to, reload uint32) uint32 {
	if reload == 0 || reload == ^uint32(0) {
		return from - to
	}
	period := uint64(reload) + 1
	return uint32((uint64(from) + period - uint64(to)%period) % period)
}

// DownCounter is a hosted Source decrementing once per Resolution.
type DownCounter struct {
	reload     uint32
	resolution time.Duration

	mu    sync.Mutex
	start time.Time
	now   func() time.Time
}

var _ Source = (*DownCounter)(nil)

// NewDownCounter creates a counter that decrements every resolution and
// reloads after reaching zero. A reload of zero uses the full 32-bit range.
func NewDownCounter(reload uint32, resolution time.Duration) *DownCounter {
	if resolution <= 0 {
		resolution = time.Millisecond
	}
	return &DownCounter{
		reload:     reload,
		resolution: resolution,
		start:      time.Now(),
		now:        time.Now,
	}
}

// Reload returns the counter reload value.
func (c *DownCounter) Reload() uint32 {
	return c.reload
}

// Now returns the current counter value.
func (c *DownCounter) Now() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ticks := uint64(c.now().Sub(c.start) / c.resolution)
	if c.reload == 0 || c.reload == ^uint32(0) {
		return ^uint32(0) - uint32(ticks)
	}
	period := uint64(c.reload) + 1
	return c.reload - uint32(ticks%period)
}

// Elapsed returns the ticks elapsed between two readings of this counter.
func (c *DownCounter) Elapsed(from, to uint32) uint32 {
	return Elapsed(from, to, c.reload)
}
