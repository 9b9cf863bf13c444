package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the controller configuration.
type Config struct {
	Bus     BusConfig     `yaml:"bus"`
	Console ConsoleConfig `yaml:"console"`
	Relay   RelayConfig   `yaml:"relay"`
	Control ControlConfig `yaml:"control"`
	Display DisplayConfig `yaml:"display"`
	Mock    MockConfig    `yaml:"mock"`
	Log     LogConfig     `yaml:"log"`
}

// BusConfig contains the one-wire bus UART configuration.
type BusConfig struct {
	Port            string        `yaml:"port"`
	FastBaudRate    int           `yaml:"fast_baud_rate"`   // Bit slot rate
	SlowBaudRate    int           `yaml:"slow_baud_rate"`   // Reset pulse rate
	Timeout         time.Duration `yaml:"timeout"`          // Upper bound for any single bus wait
	ConversionDelay time.Duration `yaml:"conversion_delay"` // Temperature conversion wait
}

// ConsoleConfig contains the operator console configuration.
// An empty port reads commands from stdin.
type ConsoleConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// RelayConfig selects the heating relay driver.
type RelayConfig struct {
	Driver string `yaml:"driver"` // gpio or mock
	Pin    int    `yaml:"pin"`    // BCM pin number for the gpio driver
}

// ControlConfig contains the controller tuning and defaults.
type ControlConfig struct {
	Kp             float64       `yaml:"kp"`
	Ki             float64       `yaml:"ki"`
	Kd             float64       `yaml:"kd"`
	WindowTicks    uint32        `yaml:"window_ticks"`    // Time proportioning window
	TickResolution time.Duration `yaml:"tick_resolution"` // Duration of one tick
	CounterReload  uint32        `yaml:"counter_reload"`  // Down-counter reload value, 0 = 32-bit range
	LoopPeriod     time.Duration `yaml:"loop_period"`     // Minimum foreground loop period
	AlarmPeriod    time.Duration `yaml:"alarm_period"`    // Elapsed time counter period
	Celsius        float64       `yaml:"celsius"`         // Default target temperature
	Minutes        uint16        `yaml:"minutes"`         // Default cook duration
}

// DisplayConfig contains the status display configuration.
type DisplayConfig struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"` // Characters per line
}

// MockConfig contains the simulated water bath configuration.
type MockConfig struct {
	Present     bool    `yaml:"present"`      // Sensor answers reset pulses
	Ambient     float64 `yaml:"ambient"`      // Ambient temperature (°C)
	Initial     float64 `yaml:"initial"`      // Water temperature at start (°C)
	HeatingRate float64 `yaml:"heating_rate"` // °C per second with the relay on
	CoolingRate float64 `yaml:"cooling_rate"` // Newton cooling coefficient (1/s)
}

// LogConfig contains the logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Bus: BusConfig{
			Port:            "/dev/ttyUSB0",
			FastBaudRate:    115200,
			SlowBaudRate:    9600,
			Timeout:         2 * time.Second,
			ConversionDelay: 750 * time.Millisecond, // 12-bit resolution
		},
		Console: ConsoleConfig{
			Port:     "",
			BaudRate: 9600,
		},
		Relay: RelayConfig{
			Driver: "gpio",
			Pin:    13,
		},
		Control: ControlConfig{
			Kp:             2,
			Ki:             5,
			Kd:             1,
			WindowTicks:    5000,
			TickResolution: time.Millisecond,
			CounterReload:  0,
			LoopPeriod:     time.Second,
			AlarmPeriod:    time.Minute,
			Celsius:        57,
			Minutes:        90,
		},
		Display: DisplayConfig{
			Enabled: true,
			Width:   20,
		},
		Mock: MockConfig{
			Present:     true,
			Ambient:     20,
			Initial:     20,
			HeatingRate: 0.5,
			CoolingRate: 0.001,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Bus.Port == "" {
		c.Bus.Port = def.Bus.Port
	}
	if c.Bus.FastBaudRate == 0 {
		c.Bus.FastBaudRate = def.Bus.FastBaudRate
	}
	if c.Bus.SlowBaudRate == 0 {
		c.Bus.SlowBaudRate = def.Bus.SlowBaudRate
	}
	if c.Bus.Timeout == 0 {
		c.Bus.Timeout = def.Bus.Timeout
	}
	if c.Bus.ConversionDelay == 0 {
		c.Bus.ConversionDelay = def.Bus.ConversionDelay
	}

	if c.Console.BaudRate == 0 {
		c.Console.BaudRate = def.Console.BaudRate
	}

	if c.Relay.Driver == "" {
		c.Relay.Driver = def.Relay.Driver
	}

	if c.Control.WindowTicks == 0 {
		c.Control.WindowTicks = def.Control.WindowTicks
	}
	if c.Control.TickResolution == 0 {
		c.Control.TickResolution = def.Control.TickResolution
	}
	if c.Control.LoopPeriod == 0 {
		c.Control.LoopPeriod = def.Control.LoopPeriod
	}
	if c.Control.AlarmPeriod == 0 {
		c.Control.AlarmPeriod = def.Control.AlarmPeriod
	}

	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}
