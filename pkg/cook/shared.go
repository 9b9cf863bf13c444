package cook

import (
	"sync"

	"github.com/itohio/sousvide/pkg/command"
	"github.com/itohio/sousvide/pkg/sensor"
)

// Setpoint is the target of a cook.
type Setpoint struct {
	Celsius float64
	Minutes uint16
}

// Minuter reports elapsed cook minutes.
type Minuter interface {
	Minutes() uint32
}

// Shared is the state exchanged between the control loop, the console and
// the display.
type Shared struct {
	elapsed Minuter

	mu       sync.RWMutex
	setpoint Setpoint
	state    State
	sample   sensor.Sample // last valid reading
	power    bool
}

var _ command.Target = (*Shared)(nil)

// NewShared creates shared state holding the initial setpoint.
func NewShared(setpoint Setpoint, elapsed Minuter) *Shared {
	return &Shared{
		elapsed:  elapsed,
		setpoint: setpoint,
	}
}

// Setpoint returns the current target.
func (s *Shared) Setpoint() Setpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setpoint
}

// SetTemperature sets the target temperature.
func (s *Shared) SetTemperature(celsius float64) {
	s.mu.Lock()
	s.setpoint.Celsius = celsius
	s.mu.Unlock()
}

// SetDuration sets the target cook time.
func (s *Shared) SetDuration(minutes uint16) {
	s.mu.Lock()
	s.setpoint.Minutes = minutes
	s.mu.Unlock()
}

// State returns the current cook state.
func (s *Shared) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Sample returns the last valid reading. It is invalid until the sensor
// has answered once.
func (s *Shared) Sample() sensor.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample
}

// Power reports the last relay state set by the machine.
func (s *Shared) Power() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.power
}

// Elapsed returns the minutes cooked so far.
func (s *Shared) Elapsed() uint32 {
	if s.elapsed == nil {
		return 0
	}
	return s.elapsed.Minutes()
}

// Status reports the controller status for the console.
func (s *Shared) Status() command.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return command.Status{
		Celsius:     s.setpoint.Celsius,
		Minutes:     s.setpoint.Minutes,
		State:       s.state.String(),
		Active:      s.state.Active(),
		Temperature: s.sample.Celsius(),
		Elapsed:     s.Elapsed(),
	}
}

func (s *Shared) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Shared) setSample(sample sensor.Sample) {
	s.mu.Lock()
	s.sample = sample
	s.mu.Unlock()
}

func (s *Shared) setPower(on bool) {
	s.mu.Lock()
	s.power = on
	s.mu.Unlock()
}
