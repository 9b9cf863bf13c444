package onewire

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/itohio/sousvide/pkg/config"
)

// Characters echoed by the simulated device.
const (
	mockPresence byte = 0xE0 // reset pulse shortened by the presence pulse
	mockReadZero byte = 0xF8 // read slot held low by the device

	// Characters sent below this rate are long enough to be reset pulses.
	mockResetBaudLimit = 20000
)

// Simulated device protocol phases.
const (
	phaseIdle = iota
	phaseROM
	phaseFunction
	phaseRead
)

// Mock simulates a UART 1-Wire line with a single DS18B20 immersed in a
// heated water bath. It implements UART.
type Mock struct {
	cfg         *config.MockConfig
	readTimeout time.Duration

	mu      sync.Mutex
	ready   *sync.Cond
	rx      []byte
	closed  bool
	baud    int
	present bool

	// Device protocol state
	phase   int
	shift   byte
	nbits   int
	spad    [9]byte
	readBit int

	// Water bath
	heating     bool
	temperature float64
	lastUpdate  time.Time
	now         func() time.Time
}

var _ UART = (*Mock)(nil)

// NewMock creates a simulated line running at the fast baud rate.
func NewMock(cfg *config.MockConfig) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			Present:     true,
			Ambient:     20,
			Initial:     20,
			HeatingRate: 0.5,
			CoolingRate: 0.001,
		}
	}

	m := &Mock{
		cfg:         cfg,
		readTimeout: DefaultReadTimeout,
		baud:        DefaultFastBaudRate,
		present:     cfg.Present,
		temperature: cfg.Initial,
		now:         time.Now,
	}
	m.ready = sync.NewCond(&m.mu)
	m.lastUpdate = m.now()
	// Power-on scratchpad: 85°C, TH, TL, 12-bit configuration.
	m.spad = [9]byte{0x50, 0x05, 0x4B, 0x46, 0x7F, 0xFF, 0x0C, 0x10, 0x00}

	return m
}

// SetPresent attaches or detaches the simulated sensor.
func (m *Mock) SetPresent(present bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.present = present
}

// SetTemperature forces the bath temperature in °C.
func (m *Mock) SetTemperature(celsius float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advance()
	m.temperature = celsius
}

// Temperature returns the current bath temperature in °C.
func (m *Mock) Temperature() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advance()
	return m.temperature
}

// SetHeating switches the simulated heater.
func (m *Mock) SetHeating(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advance()
	m.heating = on
}

// BaudRate returns the current line speed.
func (m *Mock) BaudRate() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baud
}

// SetBaudRate reconfigures the line speed.
func (m *Mock) SetBaudRate(baud int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baud = baud
	return nil
}

// Write puts characters on the line and queues their echoes.
func (m *Mock) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, io.ErrClosedPipe
	}

	for _, c := range p {
		m.rx = append(m.rx, m.slot(c))
	}
	m.ready.Broadcast()

	return len(p), nil
}

// Read returns echoed characters, waiting up to the read timeout.
func (m *Mock) Read(p []byte) (int, error) {
	deadline := time.Now().Add(m.readTimeout)
	timer := time.AfterFunc(m.readTimeout, func() {
		m.mu.Lock()
		m.ready.Broadcast()
		m.mu.Unlock()
	})
	defer timer.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.rx) == 0 && !m.closed && time.Now().Before(deadline) {
		m.ready.Wait()
	}
	if len(m.rx) == 0 {
		if m.closed {
			return 0, io.EOF
		}
		return 0, nil
	}

	n := copy(p, m.rx)
	m.rx = m.rx[n:]
	return n, nil
}

// Drain is a no-op: characters are echoed as soon as they are written.
func (m *Mock) Drain() error {
	return nil
}

// ResetInputBuffer discards unread echoes.
func (m *Mock) ResetInputBuffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx = m.rx[:0]
	return nil
}

// Close closes the line and wakes blocked readers.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.ready.Broadcast()
	return nil
}

// slot runs one character through the simulated device and returns the
// echoed character. Must be called with mu held.
func (m *Mock) slot(c byte) byte {
	if m.baud < mockResetBaudLimit {
		if c != ResetPulse {
			return c
		}
		m.phase, m.shift, m.nbits = phaseIdle, 0, 0
		if !m.present {
			return c
		}
		m.phase = phaseROM
		return mockPresence
	}

	if !m.present {
		return c
	}

	if m.phase == phaseRead {
		bit := m.spad[m.readBit/8] >> uint(m.readBit%8) & 1
		m.readBit++
		if m.readBit >= 8*len(m.spad) {
			m.phase = phaseIdle
		}
		if bit == 1 {
			return c
		}
		return c & mockReadZero
	}

	if m.phase == phaseIdle {
		return c
	}

	// Write slot: any character pulled low past the sample point is a 0.
	m.shift >>= 1
	if c == Bit1 {
		m.shift |= 0x80
	}
	m.nbits++
	if m.nbits < 8 {
		return c
	}

	cmd := m.shift
	m.shift, m.nbits = 0, 0
	m.command(cmd)
	return c
}

// command handles a complete command byte. Must be called with mu held.
func (m *Mock) command(cmd byte) {
	switch m.phase {
	case phaseROM:
		if cmd == SkipROM {
			m.phase = phaseFunction
			return
		}
		m.phase = phaseIdle
	case phaseFunction:
		switch cmd {
		case ConvertT:
			m.convert()
			m.phase = phaseIdle
		case ReadScratchpad:
			m.phase = phaseRead
			m.readBit = 0
		default:
			m.phase = phaseIdle
		}
	}
}

// convert latches the bath temperature into the scratchpad. The CRC byte is
// kept valid for readers that clock out all nine bytes; the sensor reader
// stops after the temperature register.
func (m *Mock) convert() {
	m.advance()
	raw := int16(math.Round(m.temperature * 16))
	m.spad[0] = byte(uint16(raw))
	m.spad[1] = byte(uint16(raw) >> 8)
	m.spad[8] = crc8(m.spad[:8])
}

// advance integrates the bath model up to now. Must be called with mu held.
func (m *Mock) advance() {
	now := m.now()
	dt := now.Sub(m.lastUpdate).Seconds()
	m.lastUpdate = now
	if dt <= 0 {
		return
	}

	if m.heating {
		m.temperature += m.cfg.HeatingRate * dt
	}
	// Newton cooling towards ambient
	m.temperature -= m.cfg.CoolingRate * (m.temperature - m.cfg.Ambient) * dt
}

// crc8 is the Dallas/Maxim CRC (x^8 + x^5 + x^4 + 1).
func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		for i := 0; i < 8; i++ {
			mix := (crc ^ b) & 1
			crc >>= 1
			if mix != 0 {
				crc ^= 0x8C
			}
			b >>= 1
		}
	}
	return crc
}
