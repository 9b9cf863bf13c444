// Package command parses operator console lines into controller commands.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Temperature and duration limits accepted from the console.
const (
	MinFahrenheit = 68.0  // exclusive
	MaxFahrenheit = 203.0 // exclusive
	MinMinutes    = 1
	MaxMinutes    = 2879
)

var (
	// ErrInvalidCommand is returned for unrecognized or malformed lines.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrTemperatureOutOfRange is returned for TEMP outside (68, 203) °F.
	ErrTemperatureOutOfRange = errors.New("temperature out of range")
	// ErrDurationOutOfRange is returned for TIME outside 1..2879 minutes.
	ErrDurationOutOfRange = errors.New("cook time out of range")
)

// Kind identifies a command.
type Kind int

const (
	None Kind = iota
	Report
	Start
	Pause
	Stop
	SetTime
	SetTemp
	Invalid
)

// String returns the console keyword of the command.
func (k Kind) String() string {
	switch k {
	case None:
		return "NONE"
	case Report:
		return "REPORT"
	case Start:
		return "START"
	case Pause:
		return "PAUSE"
	case Stop:
		return "STOP"
	case SetTime:
		return "TIME"
	case SetTemp:
		return "TEMP"
	case Invalid:
		return "INVALID"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is a parsed operator instruction.
type Command struct {
	Kind    Kind
	Minutes uint16  // SetTime
	Celsius float64 // SetTemp
}

// Parse parses one console line. Keywords are case-insensitive.
//
// TEMP and TIME lines that fail validation return a command of the matching
// kind together with the error, so callers can report which setting was
// rejected.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToUpper(line))
	if len(fields) == 0 {
		return Command{Kind: Invalid}, fmt.Errorf("%w: empty line", ErrInvalidCommand)
	}

	keyword, args := fields[0], fields[1:]
	switch keyword {
	case "REPORT":
		return simple(Report, args)
	case "START":
		return simple(Start, args)
	case "PAUSE":
		return simple(Pause, args)
	case "STOP":
		return simple(Stop, args)
	case "TEMP":
		celsius, err := parseTemperature(args)
		if err != nil {
			return Command{Kind: SetTemp}, err
		}
		return Command{Kind: SetTemp, Celsius: celsius}, nil
	case "TIME":
		minutes, err := parseDuration(args)
		if err != nil {
			return Command{Kind: SetTime}, err
		}
		return Command{Kind: SetTime, Minutes: minutes}, nil
	}

	return Command{Kind: Invalid}, fmt.Errorf("%w: %q", ErrInvalidCommand, keyword)
}

// Fahrenheit converts a Celsius value for display.
func Fahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// Celsius converts a Fahrenheit value.
func Celsius(fahrenheit float64) float64 {
	return (fahrenheit - 32) * 5 / 9
}

func simple(kind Kind, args []string) (Command, error) {
	if len(args) != 0 {
		return Command{Kind: Invalid}, fmt.Errorf("%w: %s takes no arguments", ErrInvalidCommand, kind)
	}
	return Command{Kind: kind}, nil
}

func parseTemperature(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: TEMP takes one value", ErrInvalidCommand)
	}

	f, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse temperature %q: %v", ErrInvalidCommand, args[0], err)
	}
	if !(f > MinFahrenheit && f < MaxFahrenheit) {
		return 0, fmt.Errorf("%w: %g F", ErrTemperatureOutOfRange, f)
	}
	return Celsius(f), nil
}

func parseDuration(args []string) (uint16, error) {
	if len(args) == 0 || len(args) > 2 {
		return 0, fmt.Errorf("%w: TIME takes minutes or hours and minutes", ErrInvalidCommand)
	}

	values := make([]uint64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: failed to parse cook time %q: %v", ErrInvalidCommand, arg, err)
		}
		values[i] = v
	}

	total := values[0]
	if len(values) == 2 {
		total = values[0]*60 + values[1]
	}
	if total < MinMinutes || total > MaxMinutes {
		return 0, fmt.Errorf("%w: %d minutes", ErrDurationOutOfRange, total)
	}
	return uint16(total), nil
}
