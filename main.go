package main

import (
	"context"
	"fmt"
	"os"

	"circle-scope.klederson.com/internal/app"
	"circle-scope.klederson.com/internal/config"
	"circle-scope.klederson.com/internal/logging"
	"circle-scope.klederson.com/internal/scope"
	"circle-scope.klederson.com/internal/source"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagDemo      bool
	flagRosbridge string
	flagBLE       bool
	flagAdapter   string
	flagConfig    string
	flagCapacity  int
	flagWindow    int
	flagLogFile   string
	flagDebug     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "circle-scope",
		Short: "Circle Scope - terminal X/Y scope for live scalar topics",
		Long: `Circle Scope plots pairs of live scalar streams against each other,
keeping a rolling history per topic that can be paused and scrubbed.

Topics come from a rosbridge websocket (--rosbridge ws://host:9090),
from Bluetooth LE RSSI (--ble, needs sudo or CAP_NET_ADMIN), or from
the built-in demo joints (--demo, the default).`,
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Use generated demo joint topics (no hardware required)")
	rootCmd.Flags().StringVar(&flagRosbridge, "rosbridge", "", "rosbridge websocket URL, e.g. ws://localhost:9090")
	rootCmd.Flags().BoolVar(&flagBLE, "ble", false, "Use Bluetooth LE RSSI as topics")
	rootCmd.Flags().StringVar(&flagAdapter, "adapter", "hci0", "Bluetooth adapter to use")
	rootCmd.Flags().StringVar(&flagConfig, "config", config.DefaultPath(), "Config file path")
	rootCmd.Flags().IntVar(&flagCapacity, "capacity", config.DefaultCapacity, "Samples kept per topic")
	rootCmd.Flags().IntVar(&flagWindow, "window", config.DefaultWindow, "Samples drawn per frame")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file path (overrides config)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	hook, closeLog, err := logging.Setup(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer closeLog()

	palette, err := scope.NewPalette(cfg.Palette)
	if err != nil {
		return fmt.Errorf("config palette: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := openSource(ctx, cfg)
	if err != nil {
		if flagBLE {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(os.Stderr, "Bluetooth scanning requires elevated permissions.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./circle-scope --ble")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./circle-scope")
			fmt.Fprintln(os.Stderr, "  ./circle-scope --demo    (demo mode, no hardware needed)")
		}
		return err
	}

	model := app.New(src, cfg, palette, hook)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFPS(cfg.TargetFPS),
	)

	log.WithFields(log.Fields{
		"source":   src.Name(),
		"capacity": cfg.Capacity,
		"window":   cfg.Window,
	}).Info("circle-scope started")

	_, err = p.Run()
	return err
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("capacity") {
		cfg.Capacity = flagCapacity
	}
	if flags.Changed("window") {
		cfg.Window = flagWindow
	}
	if flags.Changed("rosbridge") {
		cfg.RosbridgeURL = flagRosbridge
	}
	if flags.Changed("log-file") {
		path, err := config.ExpandPath(flagLogFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openSource starts exactly one source: BLE, rosbridge or demo.
func openSource(ctx context.Context, cfg config.Config) (source.Source, error) {
	switch {
	case flagDemo && (flagBLE || flagRosbridge != ""), flagBLE && flagRosbridge != "":
		return nil, fmt.Errorf("choose one of --demo, --rosbridge and --ble")

	case flagBLE:
		ble := source.NewBLE(flagAdapter)
		if err := ble.Start(ctx); err != nil {
			return nil, err
		}
		return ble, nil

	case !flagDemo && cfg.RosbridgeURL != "":
		rb, err := source.DialRosbridge(ctx, cfg.RosbridgeURL)
		if err != nil {
			return nil, err
		}
		return rb, nil

	default:
		mock := source.NewMock(config.DemoJointCount, config.DemoRate)
		if err := mock.Start(ctx); err != nil {
			return nil, err
		}
		return mock, nil
	}
}
