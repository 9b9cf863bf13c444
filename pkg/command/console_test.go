package command

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	celsius float64
	minutes uint16
	status  Status
}

func (f *fakeTarget) SetTemperature(celsius float64) { f.celsius = celsius }
func (f *fakeTarget) SetDuration(minutes uint16)     { f.minutes = minutes }
func (f *fakeTarget) Status() Status {
	s := f.status
	s.Celsius = f.celsius
	s.Minutes = f.minutes
	return s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func newConsole(input string) (*Console, *fakeTarget, *Mailbox, *bytes.Buffer) {
	target := &fakeTarget{celsius: 57, minutes: 90, status: Status{State: "Rest"}}
	mailbox := &Mailbox{}
	out := &bytes.Buffer{}
	return NewConsole(strings.NewReader(input), out, mailbox, target), target, mailbox, out
}

func TestConsole_Temperature(t *testing.T) {
	c, target, _, out := newConsole("")

	require.NoError(t, c.Handle("TEMP 140"))
	assert.InDelta(t, 60.0, target.celsius, 1e-9)
	assert.Equal(t, "SETTING TEMPERATURE TO 140.000000 F\n", out.String())

	out.Reset()
	require.NoError(t, c.Handle("TEMP 203"))
	assert.InDelta(t, 60.0, target.celsius, 1e-9, "rejected value must keep the setpoint")
	assert.Equal(t, "INVALID TEMPERATURE\n", out.String())

	out.Reset()
	require.NoError(t, c.Handle("TEMP hot"))
	assert.Equal(t, "INVALID TEMPERATURE\n", out.String())
}

func TestConsole_Duration(t *testing.T) {
	c, target, _, out := newConsole("")

	require.NoError(t, c.Handle("TIME 1 30"))
	assert.Equal(t, uint16(90), target.minutes)
	assert.Equal(t, "SETTING COOK TIME TO 90 MINUTES\n", out.String())

	out.Reset()
	require.NoError(t, c.Handle("TIME 45"))
	assert.Equal(t, uint16(45), target.minutes)

	for _, line := range []string{"TIME 0", "TIME 2880"} {
		out.Reset()
		require.NoError(t, c.Handle(line))
		assert.Equal(t, uint16(45), target.minutes)
		assert.Equal(t, "INVALID COOK TIME\n", out.String())
	}
}

func TestConsole_Events(t *testing.T) {
	c, _, mailbox, out := newConsole("")

	require.NoError(t, c.Handle("start"))
	assert.Equal(t, "COMMAND ACKNOWLEDGED\n", out.String())
	assert.Equal(t, Start, mailbox.Take().Kind)

	out.Reset()
	require.NoError(t, c.Handle("nonsense"))
	assert.Equal(t, "INVALID COMMAND\n", out.String())
	assert.Equal(t, None, mailbox.Take().Kind)
}

func TestConsole_PendingEventSurvivesSettings(t *testing.T) {
	c, target, mailbox, _ := newConsole("")

	require.NoError(t, c.Handle("START"))
	require.NoError(t, c.Handle("TEMP 140"))
	require.NoError(t, c.Handle("TIME 30"))
	require.NoError(t, c.Handle("REPORT"))
	require.NoError(t, c.Handle("bogus"))

	assert.InDelta(t, 60.0, target.celsius, 1e-9)
	assert.Equal(t, uint16(30), target.minutes)
	assert.Equal(t, Start, mailbox.Take().Kind)

	// A later event still replaces the pending one.
	require.NoError(t, c.Handle("START"))
	require.NoError(t, c.Handle("STOP"))
	assert.Equal(t, Stop, mailbox.Take().Kind)
}

func TestConsole_Report(t *testing.T) {
	c, target, _, out := newConsole("")

	require.NoError(t, c.Handle("REPORT"))
	assert.Equal(t, "SET TO 57.000000 C for 90 MINUTES\nCURRENT STATE: Rest\n", out.String())

	out.Reset()
	target.status = Status{State: "Cooking", Active: true, Temperature: 56.5, Elapsed: 12}
	require.NoError(t, c.Handle("report"))
	assert.Equal(t, "SET TO 57.000000 C for 90 MINUTES\n"+
		"CURRENT STATE: Cooking\n"+
		"CURRENT TEMPERATURE: 56.500000, MINUTES ELAPSED: 12\n", out.String())
}

func TestConsole_Run(t *testing.T) {
	c, target, mailbox, out := newConsole("TEMP 140\n\nTIME 2 0\nPAUSE\n")

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background())
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return at end of input")
	}

	assert.InDelta(t, 60.0, target.celsius, 1e-9)
	assert.Equal(t, uint16(120), target.minutes)
	assert.Equal(t, Pause, mailbox.Take().Kind)
	assert.Equal(t, 3, strings.Count(out.String(), "\n"))
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestConsole_GracefulShutdown(t *testing.T) {
	c := NewConsole(blockingReader{}, &bytes.Buffer{}, &Mailbox{}, &fakeTarget{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop within timeout")
	}
}
