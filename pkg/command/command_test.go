package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Keywords(t *testing.T) {
	tests := []struct {
		line string
		kind Kind
	}{
		{"REPORT", Report},
		{"report", Report},
		{"  Start \r", Start},
		{"PAUSE", Pause},
		{"stop", Stop},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, cmd.Kind)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, line := range []string{"", "   ", "HELLO", "STARTING", "START NOW", "TEMP", "TEMP abc", "TEMP 100 200", "TIME", "TIME x", "TIME -5", "TIME 1 2 3"} {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			assert.ErrorIs(t, err, ErrInvalidCommand)
		})
	}
}

func TestParse_Temperature(t *testing.T) {
	for f := 68.5; f < 203; f += 0.5 {
		cmd, err := Parse("TEMP " + formatFloat(f))
		require.NoError(t, err, "F=%v", f)
		assert.Equal(t, SetTemp, cmd.Kind)
		assert.InDelta(t, (f-32)*5/9, cmd.Celsius, 1e-9, "F=%v", f)
	}
}

func TestParse_TemperatureOutOfRange(t *testing.T) {
	for _, line := range []string{"TEMP 68", "TEMP 67.9", "TEMP 203", "TEMP 250", "TEMP -40", "TEMP NaN", "TEMP +Inf"} {
		t.Run(line, func(t *testing.T) {
			cmd, err := Parse(line)
			assert.ErrorIs(t, err, ErrTemperatureOutOfRange)
			assert.Equal(t, SetTemp, cmd.Kind)
		})
	}
}

func TestParse_Duration(t *testing.T) {
	tests := []struct {
		line    string
		minutes uint16
	}{
		{"TIME 1 30", 90},
		{"TIME 45", 45},
		{"time 1", 1},
		{"TIME 47 59", 2879},
		{"TIME 0 5", 5},
		{"TIME 2879", 2879},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, SetTime, cmd.Kind)
			assert.Equal(t, tt.minutes, cmd.Minutes)
		})
	}
}

func TestParse_DurationOutOfRange(t *testing.T) {
	for _, line := range []string{"TIME 0", "TIME 2880", "TIME 48 0", "TIME 0 0", "TIME 4000000000"} {
		t.Run(line, func(t *testing.T) {
			cmd, err := Parse(line)
			assert.ErrorIs(t, err, ErrDurationOutOfRange)
			assert.Equal(t, SetTime, cmd.Kind)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "NONE", None.String())
	assert.Equal(t, "START", Start.String())
	assert.Equal(t, "TEMP", SetTemp.String())
	assert.Equal(t, "INVALID", Invalid.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestConversions(t *testing.T) {
	assert.InDelta(t, 57.0, Celsius(134.6), 1e-9)
	assert.InDelta(t, 134.6, Fahrenheit(57), 1e-9)
	assert.InDelta(t, 20.0, Celsius(MinFahrenheit), 1e-9)
	assert.InDelta(t, 95.0, Celsius(MaxFahrenheit), 1e-9)
}

func TestMailbox_LastWriteWins(t *testing.T) {
	var m Mailbox
	assert.Equal(t, None, m.Take().Kind)

	m.Post(Command{Kind: Start})
	m.Post(Command{Kind: Stop})
	assert.Equal(t, Stop, m.Peek().Kind)
	assert.Equal(t, Stop, m.Take().Kind)
	assert.Equal(t, None, m.Take().Kind)
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrTemperatureOutOfRange, ErrInvalidCommand))
	assert.False(t, errors.Is(ErrDurationOutOfRange, ErrInvalidCommand))
}
