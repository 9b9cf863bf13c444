package cook

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/itohio/sousvide/pkg/command"
	"github.com/itohio/sousvide/pkg/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReader struct {
	mu      sync.Mutex
	samples []sensor.Sample
	errs    []error
	calls   int
}

func (r *scriptedReader) Read(ctx context.Context) (sensor.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.calls
	r.calls++
	if i >= len(r.samples) {
		i = len(r.samples) - 1
	}
	var err error
	if i < len(r.errs) {
		err = r.errs[i]
	}
	return r.samples[i], err
}

type countdown struct {
	mu  sync.Mutex
	now uint32
}

func (c *countdown) Now() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now -= 1000
	return c.now
}

type recorder struct {
	mu    sync.Mutex
	shown [][4]string
}

func (r *recorder) Show(lines [4]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, lines)
	return nil
}

func (r *recorder) last() [4]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown[len(r.shown)-1]
}

func TestLoop_Iterate(t *testing.T) {
	f := newFixture(t, 2, 5, 1)
	reader := &scriptedReader{
		samples: []sensor.Sample{reading(20), {}, reading(57)},
		errs:    []error{nil, sensor.ErrSensorAbsent, nil},
	}
	mailbox := &command.Mailbox{}
	screen := &recorder{}
	loop := NewLoop(reader, f.machine, mailbox, &countdown{now: 100000}, WithDisplay(screen, 20))

	mailbox.Post(start)
	require.NoError(t, loop.Iterate(context.Background()))
	assert.Equal(t, Warming, f.machine.State())
	assert.Equal(t, command.None, mailbox.Peek().Kind)
	assert.Equal(t, "Status: Warming     ", screen.last()[0])
	assert.Equal(t, "Temp: 68.00 F       ", screen.last()[1])
	assert.Equal(t, "Power: On           ", screen.last()[3])

	require.NoError(t, loop.Iterate(context.Background()))
	assert.Equal(t, Warming, f.machine.State())
	assert.Equal(t, "Temp: 68.00 F       ", screen.last()[1])

	require.NoError(t, loop.Iterate(context.Background()))
	assert.Equal(t, Cooking, f.machine.State())
	assert.Equal(t, "Timer: 3 Minutes    ", screen.last()[2])
}

func TestLoop_Status(t *testing.T) {
	f := newFixture(t, 2, 5, 1)
	loop := NewLoop(&scriptedReader{samples: []sensor.Sample{{}}}, f.machine, &command.Mailbox{}, &countdown{now: 1000})

	s := loop.Status()
	assert.Equal(t, "Rest", s.State)
	assert.False(t, s.Valid)
	assert.Equal(t, 3, s.Remaining)
	assert.Equal(t, "Off", s.Power)
}

func TestLoop_GracefulShutdown(t *testing.T) {
	f := newFixture(t, 2, 5, 1)
	reader := &scriptedReader{samples: []sensor.Sample{reading(20)}}
	mailbox := &command.Mailbox{}
	loop := NewLoop(reader, f.machine, mailbox, &countdown{now: 1 << 30}, WithPeriod(time.Millisecond))

	mailbox.Post(start)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	assert.Eventually(t, func() bool { return f.shared.State() == Warming }, time.Second, time.Millisecond)
	assert.True(t, f.shared.Power())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop within timeout")
	}
	assert.False(t, f.relay.IsOn(), "relay must be off after shutdown")
}
