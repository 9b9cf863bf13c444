// Package onewire emulates a single-device 1-Wire bus master on a
// half-duplex UART.
//
// Each 1-Wire time slot is one UART character: at the fast baud rate a 0x00
// character holds the line low for the whole slot (write 0) and a 0xFF
// character only produces the start bit (write 1 or read slot). The reset
// pulse is a 0xF0 character sent at the slow baud rate; a device answering
// with a presence pulse corrupts the echoed character.
package onewire

// Transport characters.
const (
	Bit0       byte = 0x00
	Bit1       byte = 0xFF
	ResetPulse byte = 0xF0
)

// Device commands used by the controller.
const (
	SkipROM        byte = 0xCC
	ConvertT       byte = 0x44
	ReadScratchpad byte = 0xBE
)

// TemperatureBits is the size of the scratchpad temperature register.
const TemperatureBits = 16

// ExpandBits appends the low `bits` bits of value to dst, least significant
// bit first, one transport character per bit.
func ExpandBits(dst []byte, value uint64, bits int) []byte {
	for i := 0; i < bits; i++ {
		if value&(1<<uint(i)) != 0 {
			dst = append(dst, Bit1)
		} else {
			dst = append(dst, Bit0)
		}
	}
	return dst
}

// Expand converts command bytes into transport characters.
func Expand(cmds ...byte) []byte {
	out := make([]byte, 0, 8*len(cmds))
	for _, c := range cmds {
		out = ExpandBits(out, uint64(c), 8)
	}
	return out
}

// ReadSlots appends n read slots to dst.
func ReadSlots(dst []byte, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, Bit1)
	}
	return dst
}

// ConvertFrame returns the characters starting a temperature conversion on
// every device on the bus.
func ConvertFrame() []byte {
	return Expand(SkipROM, ConvertT)
}

// ReadFrame returns the characters reading the scratchpad temperature
// register. The response occupies the last TemperatureBits characters of
// the echo.
func ReadFrame() []byte {
	return ReadSlots(Expand(SkipROM, ReadScratchpad), TemperatureBits)
}
