package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			l, err := New(level)
			require.NoError(t, err)
			assert.NotNil(t, l)
			l.Debugf("probe %d", 1)
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	l, err := New("loud")
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNamed(t *testing.T) {
	l, err := New("info")
	require.NoError(t, err)
	assert.NotNil(t, Named(l, "bus"))

	nop := Nop()
	assert.Equal(t, nop, Named(nop, "bus"))
}
