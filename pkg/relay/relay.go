// Package relay drives the heating element relay.
package relay

import "sync"

// Relay is a single digital output switching the heater.
// On and Off are idempotent; IsOn reflects the most recent call.
type Relay interface {
	On() error
	Off() error
	IsOn() bool
}

// State returns the display name of a relay state.
func State(on bool) string {
	if on {
		return "On"
	}
	return "Off"
}

// Mock is an in-memory relay. The optional hook observes every switch,
// which lets a simulated water bath follow the heater.
type Mock struct {
	mu       sync.Mutex
	on       bool
	switches int
	hook     func(on bool)
}

var _ Relay = (*Mock)(nil)

// NewMock creates a relay that starts off.
func NewMock(hook func(on bool)) *Mock {
	return &Mock{hook: hook}
}

// On switches the relay on.
func (m *Mock) On() error {
	m.set(true)
	return nil
}

// Off switches the relay off.
func (m *Mock) Off() error {
	m.set(false)
	return nil
}

// IsOn reports the relay state.
func (m *Mock) IsOn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.on
}

// Switches returns how many times the output actually changed.
func (m *Mock) Switches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.switches
}

func (m *Mock) set(on bool) {
	m.mu.Lock()
	changed := m.on != on
	m.on = on
	if changed {
		m.switches++
	}
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(on)
	}
}
