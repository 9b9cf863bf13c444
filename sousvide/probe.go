package main

import (
	"context"
	"fmt"
	"time"

	"github.com/itohio/sousvide/pkg/sensor"
	"github.com/spf13/cobra"
)

var probeCount int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Read the sensor and print the temperature",
	Long: `Read the sensor --count times and print each reading and their average.
Use it to check the bus wiring before a cook.`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().BoolVar(&useMock, "mock", false, "Use a simulated sensor")
	probeCmd.Flags().StringVarP(&busPort, "bus-port", "p", "", "One-wire bus serial port override")
	probeCmd.Flags().IntVarP(&probeCount, "count", "n", 1, "Number of readings to average")
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if busPort != "" {
		cfg.Bus.Port = busPort
	}
	if probeCount < 1 {
		probeCount = 1
	}

	hw, err := openBus(cfg, useMock, logger)
	if err != nil {
		return err
	}
	defer hw.Close()

	perReading := cfg.Bus.ConversionDelay + 2*cfg.Bus.Timeout
	ctx, cancel := context.WithTimeout(cmd.Context(), perReading*time.Duration(probeCount))
	defer cancel()

	out := cmd.OutOrStdout()
	readings := make([]sensor.Sample, 0, probeCount)
	for sample := range sensor.Stream(ctx, hw.reader, 0, probeCount) {
		fmt.Fprintf(out, "%d: %s\n", len(readings)+1, sample)
		readings = append(readings, sample)
		if len(readings) == probeCount {
			cancel()
			break
		}
	}

	avg := sensor.Average(readings)
	if !avg.Valid {
		return fmt.Errorf("failed to read sensor: %w", sensor.ErrSensorAbsent)
	}
	fmt.Fprintf(out, "%.4f°C  %.2f°F  raw 0x%04X\n", avg.Celsius(), avg.Fahrenheit(), uint16(avg.Raw))
	return nil
}
