package onewire

import (
	"context"
	"time"

	"github.com/itohio/sousvide/pkg/logging"
)

const (
	// DefaultFastBaudRate gives ~87µs per character, one time slot.
	DefaultFastBaudRate = 115200
	// DefaultSlowBaudRate gives a ~520µs low pulse for the 0xF0 reset character.
	DefaultSlowBaudRate = 9600
	// DefaultTimeout bounds every wait on the bus.
	DefaultTimeout = 2 * time.Second
)

// Transport is a 1-Wire bus master on a half-duplex UART with one transmit
// and one receive channel.
type Transport struct {
	uart    UART
	fast    int
	slow    int
	timeout time.Duration
	logger  logging.Logger

	tx *Channel
	rx *Channel
}

// Option configures a Transport.
type Option func(*Transport)

// WithBaudRates sets the slot and reset baud rates.
func WithBaudRates(fast, slow int) Option {
	return func(t *Transport) {
		if fast > 0 {
			t.fast = fast
		}
		if slow > 0 {
			t.slow = slow
		}
	}
}

// WithTimeout bounds waits for idle channels and echoed characters.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Transport) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger logging.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// New creates a Transport on uart. The UART is expected to run at the fast
// baud rate already.
func New(uart UART, options ...Option) *Transport {
	t := &Transport{
		uart:    uart,
		fast:    DefaultFastBaudRate,
		slow:    DefaultSlowBaudRate,
		timeout: DefaultTimeout,
		logger:  logging.Nop(),
	}

	for _, option := range options {
		option(t)
	}

	t.tx = newChannel(Transmit, uart, t.logger)
	t.rx = newChannel(Receive, uart, t.logger)

	return t
}

// Timeout returns the bus wait bound.
func (t *Transport) Timeout() time.Duration {
	return t.timeout
}

// Reset sends a reset pulse and reports whether a device answered with a
// presence pulse. Any failure on the line reads as absence. The fast baud
// rate is restored on every path.
func (t *Transport) Reset(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	// The reset drives the line directly, so neither channel may be active.
	if err := t.tx.acquire(ctx); err != nil {
		t.logger.Warnf("reset: %v", err)
		return false
	}
	defer t.tx.release()
	if err := t.rx.acquire(ctx); err != nil {
		t.logger.Warnf("reset: %v", err)
		return false
	}
	defer t.rx.release()

	defer func() {
		if err := t.uart.SetBaudRate(t.fast); err != nil {
			t.logger.Errorf("reset: failed to restore %d baud: %v", t.fast, err)
		}
	}()

	if err := t.uart.SetBaudRate(t.slow); err != nil {
		t.logger.Errorf("reset: failed to set %d baud: %v", t.slow, err)
		return false
	}
	if err := t.uart.ResetInputBuffer(); err != nil {
		t.logger.Warnf("reset: failed to discard input: %v", err)
	}
	if _, err := t.uart.Write([]byte{ResetPulse}); err != nil {
		t.logger.Errorf("reset: failed to write pulse: %v", err)
		return false
	}
	if err := t.uart.Drain(); err != nil {
		t.logger.Warnf("reset: failed to drain: %v", err)
	}

	echo, ok := t.readEcho(ctx)
	if !ok {
		t.logger.Debugf("reset: no echo within %s", t.timeout)
		return false
	}

	present := Presence(echo)
	t.logger.Debugf("reset: echo 0x%02X present=%v", echo, present)
	return present
}

// Presence classifies the character echoed for a reset pulse. An unchanged
// pulse means nobody answered; an all-zero character means the line is
// stuck low.
func Presence(echo byte) bool {
	return echo != ResetPulse && echo != Bit0
}

func (t *Transport) readEcho(ctx context.Context) (byte, bool) {
	var buf [1]byte
	for ctx.Err() == nil {
		n, err := t.uart.Read(buf[:])
		if err != nil {
			t.logger.Warnf("reset: failed to read echo: %v", err)
			return 0, false
		}
		if n == 1 {
			return buf[0], true
		}
	}
	return 0, false
}

// BeginTransmit starts sending frame on the transmit channel. It waits for
// the previous transmission to complete, bounded by ctx and the bus
// timeout.
func (t *Transport) BeginTransmit(ctx context.Context, frame []byte) error {
	wait, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.rx.clearFlagsIfIdle()
	if err := t.tx.acquire(wait); err != nil {
		return err
	}
	t.tx.clearFlags()
	go t.tx.run(ctx, frame)
	return nil
}

// BeginReceive arms the receive channel to capture len(buf) echoed
// characters. buf must not be touched until Received fires.
func (t *Transport) BeginReceive(ctx context.Context, buf []byte) error {
	wait, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	t.tx.clearFlagsIfIdle()
	if err := t.rx.acquire(wait); err != nil {
		return err
	}
	t.rx.clearFlags()
	if err := t.uart.ResetInputBuffer(); err != nil {
		t.logger.Warnf("rx: failed to discard stale input: %v", err)
	}
	go t.rx.run(ctx, buf)
	return nil
}

// Transmitted is raised when a transmission completes.
func (t *Transport) Transmitted() <-chan struct{} {
	return t.tx.Complete()
}

// Received is the data-ready flag raised when an armed receive completes.
func (t *Transport) Received() <-chan struct{} {
	return t.rx.Complete()
}
