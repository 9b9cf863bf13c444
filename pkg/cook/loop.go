package cook

import (
	"context"
	"errors"
	"time"

	"github.com/itohio/sousvide/pkg/command"
	"github.com/itohio/sousvide/pkg/display"
	"github.com/itohio/sousvide/pkg/logging"
	"github.com/itohio/sousvide/pkg/relay"
	"github.com/itohio/sousvide/pkg/sensor"
	"github.com/itohio/sousvide/pkg/tick"
)

// Reader acquires one temperature sample.
type Reader interface {
	Read(ctx context.Context) (sensor.Sample, error)
}

var _ Reader = (*sensor.Reader)(nil)

// Loop is the foreground control loop: read, step, display.
type Loop struct {
	reader  Reader
	machine *Machine
	mailbox *command.Mailbox
	ticks   tick.Source
	shared  *Shared

	display display.Display
	width   int
	period  time.Duration
	logger  logging.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithDisplay shows the status lines on d after every iteration.
func WithDisplay(d display.Display, width int) LoopOption {
	return func(l *Loop) {
		l.display = d
		l.width = width
	}
}

// WithPeriod sets the minimum iteration period.
func WithPeriod(period time.Duration) LoopOption {
	return func(l *Loop) {
		l.period = period
	}
}

// WithLoopLogger sets the loop logger.
func WithLoopLogger(logger logging.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates the control loop.
func NewLoop(reader Reader, machine *Machine, mailbox *command.Mailbox, ticks tick.Source, opts ...LoopOption) *Loop {
	l := &Loop{
		reader:  reader,
		machine: machine,
		mailbox: mailbox,
		ticks:   ticks,
		shared:  machine.shared,
		width:   display.DefaultWidth,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run iterates until ctx is done and leaves the relay off. Iteration
// errors are logged and the loop carries on.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		if err := l.machine.Shutdown(); err != nil {
			l.logger.Errorf("loop: %v", err)
		}
	}()

	for {
		start := time.Now()
		if err := l.Iterate(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.logger.Errorf("loop: %v", err)
		}

		if wait := l.period - time.Since(start); wait > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
		} else if ctx.Err() != nil {
			return nil
		}
	}
}

// Iterate runs one loop iteration. Sensor faults produce an invalid sample
// and are only logged; the returned error is a relay or display failure or
// the cancellation of ctx.
func (l *Loop) Iterate(ctx context.Context) error {
	sample, err := l.reader.Read(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, sensor.ErrSensorAbsent) || errors.Is(err, sensor.ErrBusTimeout) {
			l.logger.Warnf("loop: %v", err)
		} else {
			l.logger.Errorf("loop: failed to read temperature: %v", err)
		}
		sample = sensor.Sample{}
	}

	cmd := l.mailbox.Take()
	if err := l.machine.Step(cmd, l.ticks.Now(), sample); err != nil {
		return err
	}

	if l.display == nil {
		return nil
	}
	return l.display.Show(display.Lines(l.Status(), l.width))
}

// Status returns the display status.
func (l *Loop) Status() display.Status {
	sp := l.shared.Setpoint()
	sample := l.shared.Sample()
	return display.Status{
		State:     l.shared.State().String(),
		Celsius:   sample.Celsius(),
		Valid:     sample.Valid,
		Remaining: int(sp.Minutes) - int(l.shared.Elapsed()),
		Power:     relay.State(l.shared.Power()),
	}
}
