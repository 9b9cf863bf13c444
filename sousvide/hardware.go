package main

import (
	"fmt"
	"io"
	"os"

	"github.com/itohio/sousvide/pkg/config"
	"github.com/itohio/sousvide/pkg/logging"
	"github.com/itohio/sousvide/pkg/onewire"
	"github.com/itohio/sousvide/pkg/relay"
	"github.com/itohio/sousvide/pkg/sensor"
	"go.bug.st/serial"
)

// hardware holds the opened devices and how to release them.
type hardware struct {
	bus     *onewire.Transport
	reader  *sensor.Reader
	bath    *onewire.Mock // nil on real hardware
	relay   relay.Relay
	closers []io.Closer
}

// openBus opens the one-wire bus on the configured serial port, or a
// simulated sensor in a water bath.
func openBus(cfg *config.Config, mock bool, logger logging.Logger) (*hardware, error) {
	hw := &hardware{}

	var uart onewire.UART
	if mock {
		hw.bath = onewire.NewMock(&cfg.Mock)
		uart = hw.bath
		hw.closers = append(hw.closers, hw.bath)
		logger.Infof("using simulated sensor at %.2f°C", cfg.Mock.Initial)
	} else {
		port, err := onewire.OpenSerial(cfg.Bus.Port, cfg.Bus.FastBaudRate, onewire.DefaultReadTimeout)
		if err != nil {
			return nil, err
		}
		uart = port
		hw.closers = append(hw.closers, port)
		logger.Infof("one-wire bus on %s", port.Name())
	}

	hw.bus = onewire.New(uart,
		onewire.WithBaudRates(cfg.Bus.FastBaudRate, cfg.Bus.SlowBaudRate),
		onewire.WithTimeout(cfg.Bus.Timeout),
		onewire.WithLogger(logging.Named(logger, "onewire")),
	)
	hw.reader = sensor.New(hw.bus,
		sensor.WithConversionDelay(cfg.Bus.ConversionDelay),
		sensor.WithLogger(logging.Named(logger, "sensor")),
	)
	return hw, nil
}

// openRelay opens the heater relay. The simulated bath follows a mock relay.
func (hw *hardware) openRelay(cfg *config.Config, logger logging.Logger) error {
	if hw.bath != nil || cfg.Relay.Driver == "mock" {
		var hook func(bool)
		if hw.bath != nil {
			hook = hw.bath.SetHeating
		}
		hw.relay = relay.NewMock(hook)
		logger.Infof("using simulated relay")
		return nil
	}

	if cfg.Relay.Driver != "gpio" {
		return fmt.Errorf("unknown relay driver %q", cfg.Relay.Driver)
	}
	g, err := relay.Open(cfg.Relay.Pin)
	if err != nil {
		return err
	}
	hw.relay = g
	hw.closers = append(hw.closers, g)
	logger.Infof("relay on gpio %d", cfg.Relay.Pin)
	return nil
}

// Close releases the devices in reverse order of opening.
func (hw *hardware) Close() error {
	var first error
	for i := len(hw.closers) - 1; i >= 0; i-- {
		if err := hw.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openConsole returns the operator console streams: the configured serial
// port, or stdin and stdout.
func openConsole(cfg *config.Config) (io.Reader, io.Writer, io.Closer, error) {
	if cfg.Console.Port == "" {
		return os.Stdin, os.Stdout, io.NopCloser(os.Stdin), nil
	}

	port, err := serial.Open(cfg.Console.Port, &serial.Mode{
		BaudRate: cfg.Console.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open console port %s: %w", cfg.Console.Port, err)
	}
	return port, port, port, nil
}
