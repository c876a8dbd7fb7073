// Yamactl discovers and controls Yamaha network receivers over the
// Yamaha Extended Control HTTP API.
//
// It sweeps a subnet for devices that answer getDeviceInfo, then sends zone
// commands (power, volume, input, sound program and the like) to the one
// selected. Running without arguments in a terminal launches the
// interactive UI.
//
// Usage:
//
//	yamactl [command] [flags]
//
// See 'yamactl --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/config"
	"github.com/yamactl/yamactl/internal/logging"
	"github.com/yamactl/yamactl/internal/ui"
	"github.com/yamactl/yamactl/internal/version"
	"github.com/yamactl/yamactl/internal/yxc"
)

func main() {
	// Ctrl+C cancels a running sweep; devices found so far are still reported
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError renders a command failure on stderr. Device errors get the
// styled box with troubleshooting hints.
func printError(err error) {
	var devErr *yxc.DeviceError
	if errors.As(err, &devErr) && devErr.Type != yxc.ErrTypeInvalidArgument {
		fmt.Fprintln(os.Stderr, ui.RenderDeviceFailure("Command failed", err))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// Global flags
var (
	deviceAddr   string
	devicePort   int
	zoneName     string
	outputFormat string
	logLevel     string
)

// prefs holds the user preferences loaded before any command runs
var prefs = config.DefaultPreferences()

var rootCmd = &cobra.Command{
	Use:   "yamactl",
	Short: "Yamaha network receiver discovery and control",
	Long: `Discover and control Yamaha network receivers and amplifiers.

yamactl sweeps the local network for devices that speak the Yamaha Extended
Control API and sends them zone commands: power, volume, mute, input and
sound program selection, DSP toggles and the sleep timer.

Commands that talk to a device use --device when given. Otherwise they run
discovery and use the device found, asking for --device when there is more
than one.

If no command is specified and stdout is a terminal, the interactive UI
launches.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsTerminal() {
			return cmd.Help()
		}
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("yamactl {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&deviceAddr, "device", "", "Device IP address (skips discovery)")
	rootCmd.PersistentFlags().IntVar(&devicePort, "port", yxc.DefaultPort, "Device HTTP port")
	rootCmd.PersistentFlags().StringVar(&zoneName, "zone", "", "Zone to control: main, zone2, zone3, zone4 (default from config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "Output format: detailed, compact, json (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default silent, or $"+logging.LogLevelEnvVar+")")
}

// setup initializes logging and loads preferences. Flags win over the file.
func setup(cmd *cobra.Command, args []string) error {
	if logLevel != "" {
		if err := logging.Initialize(logLevel); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
	} else if err := logging.InitializeFromEnv(); err != nil {
		// Ignore error, GetLogger falls back to a silent logger
		_ = err
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v (using defaults)\n", ui.WarningMarker, err)
	} else {
		prefs = registry.Preferences
	}

	if outputFormat == "" {
		outputFormat = prefs.OutputFormat
	}
	outputFormat = strings.ToLower(outputFormat)
	if outputFormat == "" {
		outputFormat = config.FormatDetailed
	}
	if !slices.Contains(config.OutputFormats, outputFormat) {
		return fmt.Errorf("invalid --format %q (want one of %s)", outputFormat, strings.Join(config.OutputFormats, ", "))
	}

	return nil
}

// selectedZone returns --zone, or the configured default zone
func selectedZone() (yxc.Zone, error) {
	if zoneName != "" {
		return yxc.ParseZone(zoneName)
	}
	return prefs.Zone()
}
