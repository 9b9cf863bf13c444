package onewire

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
)

// DefaultReadTimeout is how long a Read waits for echoed characters.
const DefaultReadTimeout = 50 * time.Millisecond

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Serial is a UART backed by a host serial port wired as a 1-Wire master
// (TX and RX joined through an open-drain buffer).
type Serial struct {
	name        string
	readTimeout time.Duration

	mu   sync.Mutex
	conn serial.Port
	baud int
}

var _ UART = (*Serial)(nil)

// OpenSerial opens the named port at baud with 8N1 framing.
func OpenSerial(name string, baud int, readTimeout time.Duration) (*Serial, error) {
	if baud == 0 {
		baud = DefaultFastBaudRate
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	port, err := serial.Open(name, mode(baud))
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", name, err)
	}

	return &Serial{
		name:        name,
		readTimeout: readTimeout,
		conn:        port,
		baud:        baud,
	}, nil
}

func mode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Name returns the port name.
func (s *Serial) Name() string {
	return s.name
}

// SetBaudRate reconfigures the port speed.
func (s *Serial) SetBaudRate(baud int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if baud == s.baud {
		return nil
	}
	if err := s.conn.SetMode(mode(baud)); err != nil {
		return fmt.Errorf("failed to set %d baud on %s: %w", baud, s.name, err)
	}
	s.baud = baud
	return nil
}

// Write queues characters for transmission.
func (s *Serial) Write(p []byte) (int, error) {
	return s.conn.Write(p)
}

// Read returns echoed characters, or 0, nil after the read timeout.
func (s *Serial) Read(p []byte) (int, error) {
	return s.conn.Read(p)
}

// Drain waits until the transmit buffer is empty.
func (s *Serial) Drain() error {
	return s.conn.Drain()
}

// ResetInputBuffer discards unread input.
func (s *Serial) ResetInputBuffer() error {
	return s.conn.ResetInputBuffer()
}

// Close closes the port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
