package pid

import "github.com/itohio/sousvide/pkg/tick"

// DefaultWindowSize is the time proportioning window in ticks.
const DefaultWindowSize = 5000

// Window drives a relay with a duty cycle: within each window of Size ticks
// the relay is on while the controller output exceeds the time already
// spent in the window.
type Window struct {
	size   uint32
	reload uint32
	start  uint32
	primed bool
}

// NewWindow creates a window of size ticks on a counter reloading at reload.
func NewWindow(size, reload uint32) *Window {
	if size == 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size, reload: reload}
}

// Size returns the window length in ticks.
func (w *Window) Size() uint32 {
	return w.size
}

// Elapsed returns the ticks spent in the current window at counter value
// now, rolling the window start forward by whole windows when needed.
func (w *Window) Elapsed(now uint32) uint32 {
	if !w.primed {
		w.primed = true
		w.start = now
	}

	elapsed := tick.Elapsed(w.start, now, w.reload)
	if elapsed >= w.size {
		windows := elapsed / w.size
		// The counter counts down, so the window start moves down too.
		w.start = w.wrap(uint64(w.start), uint64(windows)*uint64(w.size))
		elapsed -= windows * w.size
	}
	return elapsed
}

// On reports whether the relay should be on at counter value now.
func (w *Window) On(now uint32, output float64) bool {
	return output > float64(w.Elapsed(now))
}

// Restart begins a new window at counter value now.
func (w *Window) Restart(now uint32) {
	w.start = now
	w.primed = true
}

func (w *Window) wrap(start, by uint64) uint32 {
	if w.reload == 0 || w.reload == ^uint32(0) {
		return uint32(start - by)
	}
	period := uint64(w.reload) + 1
	by %= period
	return uint32((start + period - by) % period)
}
