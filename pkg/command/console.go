package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/itohio/sousvide/pkg/logging"
)

// Status is the controller snapshot printed by REPORT.
type Status struct {
	Celsius     float64 // Target temperature
	Minutes     uint16  // Target cook time
	State       string
	Active      bool    // Cooking or paused
	Temperature float64 // Last valid reading (°C)
	Elapsed     uint32  // Minutes cooked so far
}

// Target receives validated settings and reports controller status.
type Target interface {
	SetTemperature(celsius float64)
	SetDuration(minutes uint16)
	Status() Status
}

// Console reads operator lines and answers them. Settings are applied
// immediately; state machine events are posted to the mailbox.
//
// Only START, PAUSE and STOP occupy the mailbox, so a pending event is
// replaced by a later event and nothing else. A START followed by TEMP, TIME,
// REPORT or an invalid line before the loop runs is still delivered.
type Console struct {
	r       io.Reader
	w       io.Writer
	mailbox *Mailbox
	target  Target
	logger  logging.Logger

	mu sync.Mutex
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithLogger sets the console logger.
func WithLogger(logger logging.Logger) ConsoleOption {
	return func(c *Console) {
		c.logger = logger
	}
}

// NewConsole creates a console reading commands from r and writing replies
// to w.
func NewConsole(r io.Reader, w io.Writer, mailbox *Mailbox, target Target, opts ...ConsoleOption) *Console {
	c := &Console{
		r:       r,
		w:       w,
		mailbox: mailbox,
		target:  target,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run handles lines until the reader ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
			errs <- fmt.Errorf("failed to read console: %w", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errs:
					return err
				default:
					return nil
				}
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := c.Handle(line); err != nil {
				return err
			}
		}
	}
}

// Handle parses one line, applies it and writes the reply. The returned
// error reports a failure to write the reply; command errors are answered
// on the console instead.
func (c *Console) Handle(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd, err := Parse(line)
	if err != nil {
		c.logger.Debugf("console: rejected %q: %v", line, err)
	}

	var reply []string
	switch cmd.Kind {
	case SetTemp:
		if err != nil {
			reply = append(reply, "INVALID TEMPERATURE")
			break
		}
		c.target.SetTemperature(cmd.Celsius)
		reply = append(reply, fmt.Sprintf("SETTING TEMPERATURE TO %f F", Fahrenheit(cmd.Celsius)))
	case SetTime:
		if err != nil {
			reply = append(reply, "INVALID COOK TIME")
			break
		}
		c.target.SetDuration(cmd.Minutes)
		reply = append(reply, fmt.Sprintf("SETTING COOK TIME TO %d MINUTES", cmd.Minutes))
	case Report:
		reply = append(reply, report(c.target.Status())...)
	case Start, Pause, Stop:
		c.mailbox.Post(cmd)
		c.logger.Infof("console: %s", cmd.Kind)
		reply = append(reply, "COMMAND ACKNOWLEDGED")
	default:
		reply = append(reply, "INVALID COMMAND")
	}

	for _, r := range reply {
		if _, err := fmt.Fprintln(c.w, r); err != nil {
			return fmt.Errorf("failed to write console reply: %w", err)
		}
	}
	return nil
}

func report(s Status) []string {
	lines := []string{
		fmt.Sprintf("SET TO %f C for %d MINUTES", s.Celsius, s.Minutes),
		fmt.Sprintf("CURRENT STATE: %s", s.State),
	}
	if s.Active {
		lines = append(lines, fmt.Sprintf("CURRENT TEMPERATURE: %f, MINUTES ELAPSED: %d", s.Temperature, s.Elapsed))
	}
	return lines
}
