package main

import (
	"fmt"

	"github.com/itohio/sousvide/pkg/config"
	"github.com/itohio/sousvide/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "sousvide",
	Short: "Sous-vide cooking controller",
	Long: `Sousvide reads a DS18B20 temperature sensor through a serial port wired as a
one-wire bus master, holds a water bath at the target temperature with a PID
driven heater relay and counts the cook time.

Commands are read line by line from the console:
  REPORT, START, PAUSE, STOP, TEMP <F>, TIME <minutes>, TIME <hours> <minutes>`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

// loadConfig loads the configuration file and builds the logger.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
