package cook

import (
	"fmt"

	"github.com/itohio/sousvide/pkg/command"
	"github.com/itohio/sousvide/pkg/logging"
	"github.com/itohio/sousvide/pkg/pid"
	"github.com/itohio/sousvide/pkg/relay"
	"github.com/itohio/sousvide/pkg/sensor"
)

// Timer is the elapsed cook time counter.
type Timer interface {
	Minuter
	Enable()
	Disable()
	Reset()
}

// Machine is the cook state machine. It is driven from a single goroutine.
type Machine struct {
	shared *Shared
	relay  relay.Relay
	timer  Timer
	pid    *pid.Controller
	window *pid.Window
	logger logging.Logger

	state       State
	temperature float64
	measured    bool
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithLogger sets the machine logger.
func WithLogger(logger logging.Logger) MachineOption {
	return func(m *Machine) {
		m.logger = logger
	}
}

// NewMachine creates a machine in the Rest state with the relay off.
func NewMachine(shared *Shared, r relay.Relay, timer Timer, controller *pid.Controller, window *pid.Window, opts ...MachineOption) (*Machine, error) {
	m := &Machine{
		shared: shared,
		relay:  r,
		timer:  timer,
		pid:    controller,
		window: window,
		logger: logging.Nop(),
		state:  Rest,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.power(false); err != nil {
		return nil, err
	}
	shared.setState(Rest)
	return m, nil
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Step runs one control iteration at counter value now with the command
// taken from the mailbox and the latest sample. An invalid sample leaves
// the last valid temperature in place and skips the controller update.
func (m *Machine) Step(cmd command.Command, now uint32, sample sensor.Sample) error {
	fresh := sample.Valid
	if fresh {
		m.temperature = sample.Celsius()
		m.measured = true
		m.shared.setSample(sample)
	}

	setpoint := m.shared.Setpoint()
	from := m.state
	var err error

	switch m.state {
	case Rest:
		if cmd.Kind == command.Start {
			err = m.power(true)
			m.state = Warming
		}
	case Warming:
		switch {
		case cmd.Kind == command.Pause || cmd.Kind == command.Stop:
			m.timer.Disable()
			err = m.power(false)
			m.state = Rest
		case m.measured && m.temperature >= setpoint.Celsius:
			m.timer.Enable()
			m.state = Cooking
		}
	case Cooking:
		switch {
		case cmd.Kind == command.Pause:
			m.timer.Disable()
			err = m.power(false)
			m.state = Paused
		case cmd.Kind == command.Stop:
			m.timer.Disable()
			m.timer.Reset()
			err = m.power(false)
			m.state = Rest
		case m.timer.Minutes() >= uint32(setpoint.Minutes):
			m.timer.Disable()
			err = m.power(false)
			m.state = Finished
		default:
			err = m.drive(now, fresh, setpoint.Celsius)
		}
	case Paused:
		switch cmd.Kind {
		case command.Start:
			m.timer.Enable()
			err = m.power(true)
			m.state = Warming
		case command.Stop:
			m.timer.Reset()
			m.state = Rest
		}
	case Finished:
		switch cmd.Kind {
		case command.Start:
			err = m.power(true)
			m.state = Warming
		case command.Stop:
			err = m.power(false)
			m.state = Rest
		}
	}

	if m.state != from {
		m.logger.Infof("cook: %s -> %s", from, m.state)
		m.shared.setState(m.state)
	} else if cmd.Kind != command.None {
		m.logger.Debugf("cook: %s ignored in %s", cmd.Kind, m.state)
	}

	return err
}

// drive runs the time proportioning output while cooking.
func (m *Machine) drive(now uint32, fresh bool, setpoint float64) error {
	output := m.pid.Output()
	if fresh {
		output = m.pid.Compute(now, m.temperature, setpoint)
	}
	return m.power(m.window.On(now, output))
}

// Shutdown turns the relay off.
func (m *Machine) Shutdown() error {
	return m.power(false)
}

func (m *Machine) power(on bool) error {
	var err error
	if on {
		err = m.relay.On()
	} else {
		err = m.relay.Off()
	}
	if err != nil {
		return fmt.Errorf("failed to switch relay %s: %w", relay.State(on), err)
	}
	m.shared.setPower(on)
	return nil
}
