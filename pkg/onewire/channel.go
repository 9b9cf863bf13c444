package onewire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/itohio/sousvide/pkg/logging"
)

// ErrChannelBusy is returned when a channel is still transferring when the
// caller gives up waiting for it.
var ErrChannelBusy = errors.New("channel busy")

// Direction is the transfer direction of a channel.
type Direction int

const (
	Transmit Direction = iota
	Receive
)

func (d Direction) String() string {
	switch d {
	case Transmit:
		return "tx"
	case Receive:
		return "rx"
	default:
		return "unknown"
	}
}

// Channel moves a whole buffer between memory and the UART in the
// background, like a DMA channel. The buffer belongs to the channel until
// the completion signal fires.
type Channel struct {
	dir    Direction
	uart   UART
	logger logging.Logger

	idle     chan struct{} // holds a token while the channel is disabled
	complete chan struct{} // transfer complete flag
	busy     atomic.Bool
}

func newChannel(dir Direction, uart UART, logger logging.Logger) *Channel {
	c := &Channel{
		dir:      dir,
		uart:     uart,
		logger:   logger,
		idle:     make(chan struct{}, 1),
		complete: make(chan struct{}, 1),
	}
	c.idle <- struct{}{}
	return c
}

// Busy reports whether a transfer is in flight.
func (c *Channel) Busy() bool {
	return c.busy.Load()
}

// Complete returns the transfer complete flag. It is raised once per
// successful transfer and cleared by receiving from it.
func (c *Channel) Complete() <-chan struct{} {
	return c.complete
}

// acquire waits until the channel is disabled and takes ownership of it.
func (c *Channel) acquire(ctx context.Context) error {
	select {
	case <-c.idle:
		c.busy.Store(true)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w: %v", c.dir, ErrChannelBusy, ctx.Err())
	}
}

// release disables the channel again.
func (c *Channel) release() {
	c.busy.Store(false)
	c.idle <- struct{}{}
}

// clearFlags drops a stale completion flag from an earlier transfer.
func (c *Channel) clearFlags() {
	select {
	case <-c.complete:
	default:
	}
}

// clearFlagsIfIdle drops a stale completion flag unless a transfer is in
// flight.
func (c *Channel) clearFlagsIfIdle() {
	if !c.Busy() {
		c.clearFlags()
	}
}

func (c *Channel) run(ctx context.Context, buf []byte) {
	var err error
	switch c.dir {
	case Transmit:
		err = c.transmit(buf)
	case Receive:
		err = c.receive(ctx, buf)
	}

	if err != nil {
		c.logger.Warnf("%s transfer of %d bytes aborted: %v", c.dir, len(buf), err)
		c.release()
		return
	}

	// Completion: disable the channel, then raise the flag.
	c.release()
	select {
	case c.complete <- struct{}{}:
	default:
	}
}

func (c *Channel) transmit(buf []byte) error {
	if _, err := c.uart.Write(buf); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	if err := c.uart.Drain(); err != nil {
		return fmt.Errorf("failed to drain: %w", err)
	}
	return nil
}

func (c *Channel) receive(ctx context.Context, buf []byte) error {
	n := 0
	for n < len(buf) {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := c.uart.Read(buf[n:])
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return fmt.Errorf("failed to read: %w", err)
		}
		n += m
	}
	return nil
}
