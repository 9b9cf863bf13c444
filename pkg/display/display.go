// Package display formats the four status lines shown to the cook.
package display

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// DefaultWidth matches a 20x4 character LCD.
const DefaultWidth = 20

// Display shows four lines of text.
type Display interface {
	Show(lines [4]string) error
}

// Status is the controller state rendered on the display.
type Status struct {
	State     string
	Celsius   float64
	Valid     bool // Celsius holds a real reading
	Remaining int  // Minutes left in the cook
	Power     string
}

// Lines formats s as four lines, each padded or cut to width characters.
func Lines(s Status, width int) [4]string {
	if width <= 0 {
		width = DefaultWidth
	}

	temp := "Temp: --- F"
	if s.Valid {
		temp = "Temp: " + hundredths(Fahrenheit(float32(s.Celsius))) + " F"
	}

	remaining := s.Remaining
	if remaining < 0 {
		remaining = 0
	}

	return [4]string{
		fit(fmt.Sprintf("Status: %s", s.State), width),
		fit(temp, width),
		fit(fmt.Sprintf("Timer: %d Minutes", remaining), width),
		fit(fmt.Sprintf("Power: %s", s.Power), width),
	}
}

// Fahrenheit converts to hundredths of a degree Fahrenheit, rounded half
// away from zero.
func Fahrenheit(celsius float32) int32 {
	return int32(math32.Round((celsius*9/5 + 32) * 100))
}

// hundredths formats v/100 with two decimals.
func hundredths(v int32) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func fit(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
