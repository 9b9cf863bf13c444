// Package alarm implements the elapsed cook time counter driven by a
// periodic alarm.
package alarm

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/itohio/sousvide/pkg/logging"
)

// DefaultPeriod is the alarm period: one count per minute.
const DefaultPeriod = time.Minute

// Counter counts alarm events while enabled.
//
// Enable and Disable gate the alarm source. An alarm that has already fired
// is always counted, even if Disable runs before it is handled.
type Counter struct {
	period time.Duration
	logger logging.Logger

	minutes atomic.Uint32
	enabled atomic.Bool
	wake    chan struct{}
}

// Option configures a Counter.
type Option func(*Counter)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Counter) {
		c.logger = logger
	}
}

// New creates a disabled counter firing every period.
func New(period time.Duration, opts ...Option) *Counter {
	if period <= 0 {
		period = DefaultPeriod
	}
	c := &Counter{
		period: period,
		logger: logging.Nop(),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enable starts the alarm source. Calling it again has no effect.
func (c *Counter) Enable() {
	if !c.enabled.Swap(true) {
		c.notify()
	}
}

// Disable stops the alarm source. Calling it again has no effect.
func (c *Counter) Disable() {
	if c.enabled.Swap(false) {
		c.notify()
	}
}

// Enabled reports whether the alarm source is running.
func (c *Counter) Enabled() bool {
	return c.enabled.Load()
}

// Reset sets the counter to zero.
func (c *Counter) Reset() {
	c.minutes.Store(0)
}

// Minutes returns the number of alarms counted since the last Reset.
func (c *Counter) Minutes() uint32 {
	return c.minutes.Load()
}

// Alarm handles one alarm event.
func (c *Counter) Alarm() {
	n := c.minutes.Add(1)
	c.logger.Debugf("alarm: %d elapsed", n)
}

// Run is the alarm source. The period restarts every time the counter is
// enabled. Run returns when ctx is done.
func (c *Counter) Run(ctx context.Context) error {
	var ticker *time.Ticker
	var fired <-chan time.Time

	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			fired = nil
		}
	}
	defer stop()

	for {
		if c.enabled.Load() {
			if ticker == nil {
				ticker = time.NewTicker(c.period)
				fired = ticker.C
			}
		} else {
			stop()
		}

		select {
		case <-ctx.Done():
			return nil
		case <-fired:
			c.Alarm()
		case <-c.wake:
			if !c.enabled.Load() {
				c.drain(fired)
			}
		}
	}
}

// drain counts an alarm that fired before the source is stopped. Stopping a
// ticker discards its pending tick.
func (c *Counter) drain(fired <-chan time.Time) {
	select {
	case <-fired:
		c.Alarm()
	default:
	}
}

func (c *Counter) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
