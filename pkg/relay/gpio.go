//go:build !tinygo

package relay

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// GPIO drives a relay wired to a Raspberry Pi BCM pin. The pin is driven
// high to turn the heater on.
type GPIO struct {
	mu  sync.Mutex
	pin rpio.Pin
	on  bool
}

var _ Relay = (*GPIO)(nil)

// Open maps the GPIO registers and configures pin as an output held low.
func Open(pin int) (*GPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open gpio: %w", err)
	}

	g := &GPIO{pin: rpio.Pin(pin)}
	g.pin.Output()
	g.pin.Low()
	return g, nil
}

// On drives the pin high.
func (g *GPIO) On() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pin.High()
	g.on = true
	return nil
}

// Off drives the pin low.
func (g *GPIO) Off() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pin.Low()
	g.on = false
	return nil
}

// IsOn reports the last commanded state.
func (g *GPIO) IsOn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.on
}

// Close turns the relay off and releases the GPIO mapping.
func (g *GPIO) Close() error {
	if err := g.Off(); err != nil {
		return err
	}
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("failed to close gpio: %w", err)
	}
	return nil
}
