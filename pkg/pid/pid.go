// Package pid implements the incremental PID controller and the time
// proportioning window that turns its output into relay on/off decisions.
package pid

import "github.com/itohio/sousvide/pkg/tick"

// Controller is a PID controller sampled on a free-running down-counter.
//
// The integral accumulator is never reset by the controller itself; callers
// decide when accumulated error should be discarded (see Reset).
type Controller struct {
	kp, ki, kd float64
	reload     uint32

	integral  float64
	lastError float64
	lastTick  uint32
	output    float64
	started   bool
}

// New creates a controller with the given gains on a counter reloading at
// reload (0 for the full 32-bit range).
func New(kp, ki, kd float64, reload uint32) *Controller {
	return &Controller{
		kp:     kp,
		ki:     ki,
		kd:     kd,
		reload: reload,
	}
}

// Compute runs one controller step at counter value now and returns the new
// output. The first call only records the time base. A zero interval leaves
// the state untouched and returns the previous output.
func (c *Controller) Compute(now uint32, measured, setpoint float64) float64 {
	if !c.started {
		c.started = true
		c.lastTick = now
		c.lastError = setpoint - measured
		return c.output
	}

	dt := float64(tick.Elapsed(c.lastTick, now, c.reload))
	if dt == 0 {
		return c.output
	}

	err := setpoint - measured
	c.integral += err * dt
	derivative := (err - c.lastError) / dt

	c.output = c.kp*err + c.ki*c.integral + c.kd*derivative
	c.lastError = err
	c.lastTick = now

	return c.output
}

// Output returns the last computed output.
func (c *Controller) Output() float64 {
	return c.output
}

// Integral returns the accumulated error.
func (c *Controller) Integral() float64 {
	return c.integral
}

// Reset clears the accumulated state.
func (c *Controller) Reset() {
	c.integral = 0
	c.lastError = 0
	c.output = 0
	c.started = false
}
