package onewire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		cmds []byte
		want []byte
	}{
		{
			name: "skip rom",
			cmds: []byte{SkipROM},
			want: []byte{Bit0, Bit0, Bit1, Bit1, Bit0, Bit0, Bit1, Bit1},
		},
		{
			name: "convert",
			cmds: []byte{ConvertT},
			want: []byte{Bit0, Bit0, Bit1, Bit0, Bit0, Bit0, Bit1, Bit0},
		},
		{
			name: "read scratchpad",
			cmds: []byte{ReadScratchpad},
			want: []byte{Bit0, Bit1, Bit1, Bit1, Bit1, Bit1, Bit0, Bit1},
		},
		{
			name: "empty",
			cmds: nil,
			want: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.cmds...))
		})
	}
}

func TestExpandBits(t *testing.T) {
	got := ExpandBits(nil, 0x0191, 16)
	assert.Len(t, got, 16)
	// 0x0191 = 0000 0001 1001 0001, least significant bit first
	want := []byte{
		Bit1, Bit0, Bit0, Bit0, Bit1, Bit0, Bit0, Bit1,
		Bit1, Bit0, Bit0, Bit0, Bit0, Bit0, Bit0, Bit0,
	}
	assert.Equal(t, want, got)

	assert.Equal(t, []byte{Bit1, Bit0, Bit1}, ExpandBits(nil, 0xFD, 3))
}

func TestFrames(t *testing.T) {
	convert := ConvertFrame()
	assert.Len(t, convert, 16)
	assert.Equal(t, Expand(SkipROM), convert[:8])
	assert.Equal(t, Expand(ConvertT), convert[8:])

	read := ReadFrame()
	assert.Len(t, read, 32)
	assert.Equal(t, Expand(SkipROM, ReadScratchpad), read[:16])
	for _, c := range read[16:] {
		assert.Equal(t, Bit1, c)
	}
}

func TestPresence(t *testing.T) {
	assert.False(t, Presence(ResetPulse), "unchanged pulse")
	assert.False(t, Presence(Bit0), "line stuck low")
	assert.True(t, Presence(0xE0))
	assert.True(t, Presence(0x10))
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "tx", Transmit.String())
	assert.Equal(t, "rx", Receive.String())
	assert.Equal(t, "unknown", Direction(7).String())
}

func TestCRC8(t *testing.T) {
	// Running the CRC over a block followed by its CRC yields zero.
	spad := []byte{0x91, 0x01, 0x4B, 0x46, 0x7F, 0xFF, 0x0C, 0x10}
	crc := crc8(spad)
	assert.Equal(t, byte(0), crc8(append(spad, crc)))
}
