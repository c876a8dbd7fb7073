package main

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/tui"
)

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiCmd launches the interactive terminal UI
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal UI.

The UI discovers receivers with a live progress bar, lists them and lets you
pick one to control: power, volume, mute, input and sound program.

With --device the discovery screen is skipped.`,
	Example: `  yamactl tui
  # Or simply:
  yamactl

  yamactl tui --device 192.168.1.20 --zone zone2`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := prefs.DiscoveryConfig()
	if err != nil {
		return err
	}
	zone, err := selectedZone()
	if err != nil {
		return err
	}

	opts := tui.Options{
		Scanner:    newScanner(cfg),
		Zone:       zone,
		VolumeStep: prefs.VolumeStep,
	}
	if prefs.Discovery.UseMDNS {
		opts.Browse = func(ctx context.Context) ([]netip.Addr, error) {
			return discovery.BrowseCandidates(ctx, discovery.DefaultBrowseTimeout)
		}
	}
	if deviceAddr != "" {
		device, err := resolveDevice(cmd.Context())
		if err != nil {
			return err
		}
		opts.Device = device
	}

	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
