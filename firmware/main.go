//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"context"
	"machine"
	"time"

	"github.com/itohio/sousvide/pkg/alarm"
	"github.com/itohio/sousvide/pkg/command"
	"github.com/itohio/sousvide/pkg/config"
	"github.com/itohio/sousvide/pkg/cook"
	"github.com/itohio/sousvide/pkg/onewire"
	"github.com/itohio/sousvide/pkg/pid"
	"github.com/itohio/sousvide/pkg/sensor"
	"github.com/itohio/sousvide/pkg/tick"
)

func main() {
	cfg := config.Default()
	ctx := context.Background()

	PIN_RELAY.Configure(machine.PinConfig{Mode: machine.PinOutput})
	heater := &relayPin{pin: PIN_RELAY}
	heater.Off()

	machine.UART1.Configure(machine.UARTConfig{
		BaudRate: uint32(cfg.Bus.FastBaudRate),
		TX:       PIN_BUS_TX,
		RX:       PIN_BUS_RX,
	})
	bus := onewire.New(&busUART{
		uart:    machine.UART1,
		baud:    uint32(cfg.Bus.FastBaudRate),
		timeout: BUS_READ_TIMEOUT_MS * time.Millisecond,
	},
		onewire.WithBaudRates(cfg.Bus.FastBaudRate, cfg.Bus.SlowBaudRate),
		onewire.WithTimeout(cfg.Bus.Timeout),
	)
	reader := sensor.New(bus, sensor.WithConversionDelay(cfg.Bus.ConversionDelay))

	machine.Serial.Configure(machine.UARTConfig{BaudRate: CONSOLE_BAUD_RATE})

	ticks := tick.NewDownCounter(cfg.Control.CounterReload, cfg.Control.TickResolution)
	timer := alarm.New(cfg.Control.AlarmPeriod)
	shared := cook.NewShared(cook.Setpoint{
		Celsius: cfg.Control.Celsius,
		Minutes: cfg.Control.Minutes,
	}, timer)

	m, err := cook.NewMachine(shared, heater, timer,
		pid.New(cfg.Control.Kp, cfg.Control.Ki, cfg.Control.Kd, ticks.Reload()),
		pid.NewWindow(cfg.Control.WindowTicks, ticks.Reload()),
	)
	if err != nil {
		println("relay:", err.Error())
		return
	}

	mailbox := &command.Mailbox{}
	term := console{serial: machine.Serial}
	go command.NewConsole(term, term, mailbox, shared).Run(ctx)
	go timer.Run(ctx)

	opts := []cook.LoopOption{cook.WithPeriod(cfg.Control.LoopPeriod)}
	machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       PIN_LCD_SDA,
		SCL:       PIN_LCD_SCL,
	})
	if screen, err := newLCD(machine.I2C0); err != nil {
		println("lcd:", err.Error())
	} else {
		opts = append(opts, cook.WithDisplay(screen, LCD_WIDTH))
	}

	cook.NewLoop(reader, m, mailbox, ticks, opts...).Run(ctx)
}
