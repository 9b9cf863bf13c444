//go:build tinygo

package main

import "machine"

const (
	// One-wire bus UART, TX and RX tied to the sensor data line
	PIN_BUS_TX = machine.UART_TX_PIN
	PIN_BUS_RX = machine.UART_RX_PIN

	// Heater relay output, high = heater on
	PIN_RELAY = machine.D8

	// 2004 character LCD behind a PCF8574 I2C backpack
	PIN_LCD_SDA = machine.SDA_PIN
	PIN_LCD_SCL = machine.SCL_PIN
	LCD_ADDRESS = 0x27
	LCD_WIDTH   = 20
	LCD_HEIGHT  = 4

	// Operator console over USB CDC
	CONSOLE_BAUD_RATE = 9600

	// Bus UART read timeout for a single echo
	BUS_READ_TIMEOUT_MS = 5
)
