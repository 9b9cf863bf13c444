//go:build !tinygo

package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Terminal draws the display lines in a bordered box. A frame is written
// only when the lines change.
type Terminal struct {
	w     io.Writer
	style lipgloss.Style

	mu    sync.Mutex
	last  [4]string
	shown bool
}

var _ Display = (*Terminal)(nil)

// NewTerminal creates a terminal display writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w: w,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Foreground(lipgloss.Color("10")).
			Padding(0, 1),
	}
}

// Show renders lines.
func (t *Terminal) Show(lines [4]string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.shown && lines == t.last {
		return nil
	}

	frame := t.style.Render(strings.Join(lines[:], "\n"))
	if _, err := fmt.Fprintln(t.w, frame); err != nil {
		return fmt.Errorf("failed to draw display: %w", err)
	}

	t.last = lines
	t.shown = true
	return nil
}
