package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/itohio/sousvide/pkg/alarm"
	"github.com/itohio/sousvide/pkg/command"
	"github.com/itohio/sousvide/pkg/cook"
	"github.com/itohio/sousvide/pkg/display"
	"github.com/itohio/sousvide/pkg/logging"
	"github.com/itohio/sousvide/pkg/pid"
	"github.com/itohio/sousvide/pkg/tick"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	useMock     bool
	busPort     string
	consolePort string
	noDisplay   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller",
	Long: `Run the control loop, the cook timer and the operator console until
interrupted. The heater relay is switched off on exit.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&useMock, "mock", false, "Use a simulated sensor, relay and water bath")
	runCmd.Flags().StringVarP(&busPort, "bus-port", "p", "", "One-wire bus serial port override")
	runCmd.Flags().StringVar(&consolePort, "console-port", "", "Console serial port override (default stdin)")
	runCmd.Flags().BoolVar(&noDisplay, "no-display", false, "Do not draw the status display")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if busPort != "" {
		cfg.Bus.Port = busPort
	}
	if consolePort != "" {
		cfg.Console.Port = consolePort
	}
	if noDisplay {
		cfg.Display.Enabled = false
	}

	hw, err := openBus(cfg, useMock, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := hw.Close(); err != nil {
			logger.Errorf("failed to close devices: %v", err)
		}
	}()
	if err := hw.openRelay(cfg, logger); err != nil {
		return err
	}

	in, out, consoleCloser, err := openConsole(cfg)
	if err != nil {
		return err
	}
	defer consoleCloser.Close()

	ticks := tick.NewDownCounter(cfg.Control.CounterReload, cfg.Control.TickResolution)
	timer := alarm.New(cfg.Control.AlarmPeriod, alarm.WithLogger(logging.Named(logger, "alarm")))
	shared := cook.NewShared(cook.Setpoint{
		Celsius: cfg.Control.Celsius,
		Minutes: cfg.Control.Minutes,
	}, timer)

	machine, err := cook.NewMachine(shared, hw.relay, timer,
		pid.New(cfg.Control.Kp, cfg.Control.Ki, cfg.Control.Kd, ticks.Reload()),
		pid.NewWindow(cfg.Control.WindowTicks, ticks.Reload()),
		cook.WithLogger(logging.Named(logger, "cook")),
	)
	if err != nil {
		return err
	}

	mailbox := &command.Mailbox{}
	console := command.NewConsole(in, out, mailbox, shared, command.WithLogger(logging.Named(logger, "console")))

	loopOpts := []cook.LoopOption{
		cook.WithPeriod(cfg.Control.LoopPeriod),
		cook.WithLoopLogger(logging.Named(logger, "loop")),
	}
	if cfg.Display.Enabled {
		loopOpts = append(loopOpts, cook.WithDisplay(display.NewTerminal(os.Stderr), cfg.Display.Width))
	}
	loop := cook.NewLoop(hw.reader, machine, mailbox, ticks, loopOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("target %.2f°C for %d minutes", cfg.Control.Celsius, cfg.Control.Minutes)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return timer.Run(ctx) })
	eg.Go(func() error { return console.Run(ctx) })
	eg.Go(func() error { return loop.Run(ctx) })

	err = eg.Wait()
	logger.Infof("stopped")
	return err
}
