// Package sensor acquires temperatures from a single DS18B20 on a
// onewire.Transport.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itohio/sousvide/pkg/logging"
	"github.com/itohio/sousvide/pkg/onewire"
)

var (
	// ErrSensorAbsent means no presence pulse answered the reset.
	ErrSensorAbsent = errors.New("sensor absent")
	// ErrBusTimeout means the bus stopped answering mid acquisition.
	ErrBusTimeout = errors.New("bus timeout")
)

// DefaultConversionDelay is the 12-bit conversion time.
const DefaultConversionDelay = 750 * time.Millisecond

// Sample is one temperature reading. Raw is in 1/16 °C. A sample with
// Valid unset carries no temperature.
type Sample struct {
	Raw   int16
	Valid bool
	At    time.Time
}

// Celsius returns the temperature in °C.
func (s Sample) Celsius() float64 {
	return float64(s.Raw) / 16.0
}

// Fahrenheit returns the temperature in °F.
func (s Sample) Fahrenheit() float64 {
	return s.Celsius()*9/5 + 32
}

func (s Sample) String() string {
	if !s.Valid {
		return "invalid"
	}
	return fmt.Sprintf("%.4f°C", s.Celsius())
}

// Decode rebuilds the temperature register from its 16 echoed characters.
// Bits arrive least significant first: each one is shifted in at the top so
// the first bit ends up in bit 0.
func Decode(echo []byte) int16 {
	var v uint16
	for _, c := range echo[:onewire.TemperatureBits] {
		if c == onewire.Bit1 {
			v = v>>1 | 0x8000
		} else {
			v >>= 1
		}
	}
	return int16(v)
}

// Bus is the part of onewire.Transport used by the Reader.
type Bus interface {
	Reset(ctx context.Context) bool
	BeginTransmit(ctx context.Context, frame []byte) error
	BeginReceive(ctx context.Context, buf []byte) error
	Received() <-chan struct{}
	Timeout() time.Duration
}

var _ Bus = (*onewire.Transport)(nil)

// Reader runs complete acquisition cycles on a Bus.
type Reader struct {
	bus        Bus
	conversion time.Duration
	logger     logging.Logger

	convertFrame []byte
	readFrame    []byte
	buf          []byte
}

// Option configures a Reader.
type Option func(*Reader)

// WithConversionDelay sets the wait between starting a conversion and
// reading it back.
func WithConversionDelay(d time.Duration) Option {
	return func(r *Reader) {
		r.conversion = d
	}
}

// WithLogger sets a logger.
func WithLogger(logger logging.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// New creates a Reader on bus.
func New(bus Bus, options ...Option) *Reader {
	r := &Reader{
		bus:          bus,
		conversion:   DefaultConversionDelay,
		logger:       logging.Nop(),
		convertFrame: onewire.ConvertFrame(),
		readFrame:    onewire.ReadFrame(),
	}
	r.buf = make([]byte, len(r.readFrame))

	for _, option := range options {
		option(r)
	}

	return r
}

// Read performs reset, convert, reset, read scratchpad and returns the
// decoded sample. On any failure the sample is invalid and the error wraps
// ErrSensorAbsent, ErrBusTimeout or the context error.
func (r *Reader) Read(ctx context.Context) (Sample, error) {
	if !r.bus.Reset(ctx) {
		return Sample{}, ErrSensorAbsent
	}

	if err := r.bus.BeginTransmit(ctx, r.convertFrame); err != nil {
		return Sample{}, fmt.Errorf("convert: %w: %v", ErrBusTimeout, err)
	}

	if err := sleep(ctx, r.conversion); err != nil {
		return Sample{}, err
	}

	if !r.bus.Reset(ctx) {
		return Sample{}, fmt.Errorf("read: %w", ErrSensorAbsent)
	}

	// The receiver has to be armed before the read command goes out or the
	// response is lost.
	rxCtx, cancel := context.WithTimeout(ctx, r.bus.Timeout())
	defer cancel()

	if err := r.bus.BeginReceive(rxCtx, r.buf); err != nil {
		return Sample{}, fmt.Errorf("arm receive: %w: %v", ErrBusTimeout, err)
	}
	if err := r.bus.BeginTransmit(rxCtx, r.readFrame); err != nil {
		return Sample{}, fmt.Errorf("read: %w: %v", ErrBusTimeout, err)
	}

	select {
	case <-r.bus.Received():
	case <-rxCtx.Done():
		if err := ctx.Err(); err != nil {
			return Sample{}, err
		}
		return Sample{}, fmt.Errorf("scratchpad: %w", ErrBusTimeout)
	}

	s := Sample{
		Raw:   Decode(r.buf[len(r.buf)-onewire.TemperatureBits:]),
		Valid: true,
		At:    time.Now(),
	}
	r.logger.Debugf("sample %s", s)
	return s, nil
}

var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
