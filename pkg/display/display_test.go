package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	lines := Lines(Status{
		State:     "Cooking",
		Celsius:   57,
		Valid:     true,
		Remaining: 42,
		Power:     "On",
	}, 20)

	assert.Equal(t, "Status: Cooking     ", lines[0])
	assert.Equal(t, "Temp: 134.60 F      ", lines[1])
	assert.Equal(t, "Timer: 42 Minutes   ", lines[2])
	assert.Equal(t, "Power: On           ", lines[3])
}

func TestLines_Width(t *testing.T) {
	lines := Lines(Status{State: "Finished", Remaining: 2879, Power: "Off"}, 0)
	for _, l := range lines {
		assert.Len(t, l, DefaultWidth)
	}

	narrow := Lines(Status{State: "Warming", Power: "Off"}, 10)
	assert.Equal(t, "Status: Wa", narrow[0])
}

func TestLines_NoReading(t *testing.T) {
	lines := Lines(Status{State: "Rest", Celsius: 0}, 20)
	assert.Equal(t, "Temp: --- F         ", lines[1])
}

func TestLines_NegativeRemaining(t *testing.T) {
	lines := Lines(Status{State: "Rest", Remaining: -5}, 20)
	assert.Equal(t, "Timer: 0 Minutes    ", lines[2])
}

func TestFahrenheit(t *testing.T) {
	assert.Equal(t, int32(7711), Fahrenheit(25.0625))
	assert.Equal(t, int32(3200), Fahrenheit(0))
	assert.Equal(t, int32(-400), Fahrenheit(-20))
	assert.Equal(t, int32(-40), Fahrenheit(-18))
}

func TestLines_Hundredths(t *testing.T) {
	cases := []struct {
		celsius float64
		want    string
	}{
		{25.0625, "Temp: 77.11 F"},
		{20, "Temp: 68.00 F"},
		{-20, "Temp: -4.00 F"},
		{-18, "Temp: -0.40 F"},
		{100, "Temp: 212.00 F"},
	}
	for _, tc := range cases {
		lines := Lines(Status{State: "Rest", Celsius: tc.celsius, Valid: true}, 20)
		assert.Equal(t, tc.want, strings.TrimRight(lines[1], " "), "celsius %v", tc.celsius)
	}
}

func TestTerminal_Show(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)
	lines := Lines(Status{State: "Rest", Power: "Off"}, 20)

	require.NoError(t, term.Show(lines))
	assert.Contains(t, out.String(), "Status: Rest")
	assert.Contains(t, out.String(), "Power: Off")

	n := out.Len()
	require.NoError(t, term.Show(lines))
	assert.Equal(t, n, out.Len(), "unchanged lines must not be redrawn")

	lines[0] = "Status: Warming"
	require.NoError(t, term.Show(lines))
	assert.Greater(t, out.Len(), n)
	assert.True(t, strings.Contains(out.String(), "Warming"))
}
