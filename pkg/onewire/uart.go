package onewire

// UART is a half-duplex serial line whose TX and RX are tied to the bus.
// Every transmitted character is echoed back on RX, modified by any device
// pulling the line low.
type UART interface {
	// SetBaudRate reconfigures the line speed.
	SetBaudRate(baud int) error
	// Write queues characters for transmission.
	Write(p []byte) (int, error)
	// Read returns echoed characters. It returns 0, nil when the read
	// timeout expires without data.
	Read(p []byte) (int, error)
	// Drain blocks until all queued characters left the transmitter.
	Drain() error
	// ResetInputBuffer discards characters received but not yet read.
	ResetInputBuffer() error
}
