//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/sousvide/pkg/display"
	"tinygo.org/x/drivers/hd44780i2c"
)

// lcd shows the status lines on the 20x4 character display.
type lcd struct {
	dev  hd44780i2c.Device
	last [4]string
}

var _ display.Display = (*lcd)(nil)

func newLCD(bus *machine.I2C) (*lcd, error) {
	dev := hd44780i2c.New(bus, LCD_ADDRESS)
	if err := dev.Configure(hd44780i2c.Config{
		Width:  LCD_WIDTH,
		Height: LCD_HEIGHT,
	}); err != nil {
		return nil, err
	}
	dev.ClearDisplay()
	return &lcd{dev: dev}, nil
}

// Show rewrites the rows that changed.
func (l *lcd) Show(lines [4]string) error {
	for row, line := range lines {
		if line == l.last[row] {
			continue
		}
		l.dev.SetCursor(0, uint8(row))
		l.dev.Print([]byte(line))
		l.last[row] = line
	}
	return nil
}
