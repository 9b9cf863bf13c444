package tick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsed(t *testing.T) {
	tests := []struct {
		name   string
		from   uint32
		to     uint32
		reload uint32
		want   uint32
	}{
		{"no rollover", 5000, 3000, 0, 2000},
		{"full range rollover", 10, ^uint32(0) - 9, 0, 20},
		{"reload no rollover", 3999, 3000, 3999, 999},
		{"reload rollover", 100, 3900, 3999, 200},
		{"same reading", 1234, 1234, 3999, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Elapsed(tt.from, tt.to, tt.reload))
		})
	}
}

func TestDownCounter_CountsDown(t *testing.T) {
	c := NewDownCounter(0, time.Millisecond)
	base := time.Unix(100, 0)
	c.start = base
	c.now = func() time.Time { return base }
	first := c.Now()
	assert.Equal(t, ^uint32(0), first)

	c.now = func() time.Time { return base.Add(250 * time.Millisecond) }
	second := c.Now()
	assert.Equal(t, uint32(250), c.Elapsed(first, second))
}

func TestDownCounter_Reloads(t *testing.T) {
	c := NewDownCounter(999, time.Millisecond)
	base := time.Unix(100, 0)
	c.start = base

	c.now = func() time.Time { return base.Add(1500 * time.Millisecond) }
	assert.Equal(t, uint32(499), c.Now())
	assert.Equal(t, uint32(999), c.Reload())
	assert.Equal(t, uint32(600), c.Elapsed(99, 499))
}
