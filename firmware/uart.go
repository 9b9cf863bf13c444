//go:build tinygo

package main

import (
	"machine"
	"runtime"
	"time"

	"github.com/itohio/sousvide/pkg/onewire"
)

// busUART adapts a hardware UART with TX and RX on the one-wire line.
type busUART struct {
	uart    *machine.UART
	baud    uint32
	timeout time.Duration
}

var _ onewire.UART = (*busUART)(nil)

func (u *busUART) SetBaudRate(baud int) error {
	u.baud = uint32(baud)
	u.uart.SetBaudRate(u.baud)
	return nil
}

func (u *busUART) Write(p []byte) (int, error) {
	return u.uart.Write(p)
}

// Read waits up to the timeout for the first byte, then returns what is
// buffered.
func (u *busUART) Read(p []byte) (int, error) {
	deadline := time.Now().Add(u.timeout)
	for u.uart.Buffered() == 0 {
		if time.Now().After(deadline) {
			return 0, nil
		}
		runtime.Gosched()
	}

	n := 0
	for n < len(p) && u.uart.Buffered() > 0 {
		c, err := u.uart.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = c
		n++
	}
	return n, nil
}

// Drain waits for the last character to leave the shift register.
func (u *busUART) Drain() error {
	if u.baud > 0 {
		time.Sleep(2 * 10 * time.Second / time.Duration(u.baud))
	}
	return nil
}

func (u *busUART) ResetInputBuffer() error {
	for u.uart.Buffered() > 0 {
		if _, err := u.uart.ReadByte(); err != nil {
			return err
		}
	}
	return nil
}

// console turns the polled USB serial into a blocking stream.
type console struct {
	serial machine.Serialer
}

func (c console) Read(p []byte) (int, error) {
	for c.serial.Buffered() == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	n := 0
	for n < len(p) && c.serial.Buffered() > 0 {
		b, err := c.serial.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (c console) Write(p []byte) (int, error) {
	return c.serial.Write(p)
}
