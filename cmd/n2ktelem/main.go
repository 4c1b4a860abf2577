package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"github.com/tarm/serial"

	n2k "github.com/marinetel/go-n2k-telemetry"
	"github.com/marinetel/go-n2k-telemetry/internal/cliconfig"
	"github.com/marinetel/go-n2k-telemetry/ydnu"
)

const longHelp = `n2ktelem reads NMEA2000 frames from Yacht Devices YDNU-02 USB gateway (RAW mode),
decodes position, course/speed, attitude and heading PGNs and periodically prints the
current vessel state snapshot as JSON to stdout.`

var exampleUsage = `  n2ktelem --device /dev/ttyACM0
  n2ktelem --device testdata/capture.txt --is-file
  n2ktelem --config ~/.n2ktelem/config.toml --print-interval 250ms`

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "n2ktelem",
		Short:   "Decode vessel telemetry from a YDNU-02 NMEA2000 gateway",
		Long:    longHelp,
		Example: exampleUsage,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if !cfg.Debug {
				logger = logger.Level(zerolog.InfoLevel)
			}
			logger.Info().
				Str("device", cfg.Device).
				Int("baud", cfg.Baud).
				Dur("print_interval", cfg.PrintInterval).
				Msg("configuration")

			return run(cfg, logger)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.n2ktelem/config.toml)")
	root.Flags().StringVar(&cfg.Device, "device", cfg.Device, "path to YDNU-02 USB gateway device")
	root.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "serial device baud rate")
	root.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "how long single serial read may block")
	root.Flags().DurationVar(&cfg.ReceiveTimeout, "receive-timeout", cfg.ReceiveTimeout, "how long reads may return no data before giving up")
	root.Flags().DurationVar(&cfg.PrintInterval, "print-interval", cfg.PrintInterval, "how often telemetry snapshot is printed")
	root.Flags().BoolVar(&cfg.IsFile, "is-file", cfg.IsFile, "consider device as ordinary file")
	root.Flags().BoolVar(&cfg.Raw, "raw", cfg.Raw, "log raw frame lines before parsing (debug)")
	root.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug level logging")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("n2ktelem")
		os.Exit(1)
	}
}

func run(cfg cliconfig.Config, logger zerolog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var stream io.ReadWriteCloser
	var err error
	if cfg.IsFile {
		stream, err = os.OpenFile(cfg.Device, os.O_RDONLY, 0)
	} else {
		stream, err = serial.OpenPort(&serial.Config{
			Name: cfg.Device,
			Baud: cfg.Baud,
			// ReadTimeout is duration that Read call is allowed to block. Can not be smaller
			// than 100ms for YDNU-02.
			ReadTimeout: cfg.ReadTimeout,
			Size:        8,
		})
	}
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}

	receiveTimeout := cfg.ReceiveTimeout
	if cfg.IsFile {
		receiveTimeout = 0 // first EOF ends the run
	}
	device := ydnu.NewDevice(stream, ydnu.Config{
		ReceiveDataTimeout:    receiveTimeout,
		DebugLogRawFrameBytes: cfg.Raw,
		Logger:                logger,
	})
	defer device.Close()

	if !cfg.IsFile {
		logger.Info().Str("device", cfg.Device).Msg("initializing gateway raw mode")
		if err := device.Initialize(); err != nil {
			return err
		}
	}

	store := n2k.NewTelemetryStore()
	decoder := n2k.NewDecoder(store, logger)
	service := n2k.NewService(device, decoder, logger)

	go printSnapshots(ctx, store, cfg.PrintInterval)

	logger.Info().Str("device", cfg.Device).Msg("starting to read device")
	err = service.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("received signal, stopping")
		return nil
	}
	if errors.Is(err, io.EOF) {
		printSnapshot(store) // final state of a file run
		return nil
	}
	return err
}

// printSnapshots is the consumer loop: it polls the store on its own timing, independently
// of the producer.
func printSnapshots(ctx context.Context, store *n2k.TelemetryStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			printSnapshot(store)
		}
	}
}

func printSnapshot(store *n2k.TelemetryStore) {
	b, err := json.Marshal(store.Snapshot())
	if err != nil {
		return
	}
	fmt.Printf("%s\n", b)
}
