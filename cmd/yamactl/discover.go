package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/logging"
	"github.com/yamactl/yamactl/internal/ui"
)

// directProbeTimeout bounds the identity probe of an address given with --device
const directProbeTimeout = 3 * time.Second

// Discovery command flags
var (
	scanSubnet      string
	scanMask        int
	scanTimeout     time.Duration
	scanConcurrency int
	scanMDNS        bool
	scanVerbose     bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVar(&scanSubnet, "subnet", "", "Network address to sweep (default from config, 192.168.1.0)")
	discoverCmd.Flags().IntVar(&scanMask, "mask", 0, "Prefix length of the subnet, 0-32 (default from config, 24)")
	discoverCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "Per-probe timeout (default from config, 500ms)")
	discoverCmd.Flags().IntVar(&scanConcurrency, "concurrency", 0, "Probes in flight at once (default from config, 50)")
	discoverCmd.Flags().BoolVar(&scanMDNS, "mdns", false, "Probe mDNS responders instead of sweeping the subnet")
	discoverCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Print every probe outcome")
}

// discoverCmd sweeps the network for receivers
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find Yamaha receivers on the network",
	Long: `Find Yamaha receivers by probing every host address of a subnet.

Each address is sent a getDeviceInfo request with a short timeout. Devices
that answer with a model name are listed. Probes run concurrently with a
sliding window, so a /24 takes about (254 / concurrency) x timeout.

With --mdns, hosts advertising an HTTP service over mDNS are probed instead
of the whole subnet.`,
	Example: `  # Sweep the configured subnet (192.168.1.0/24 by default)
  yamactl discover

  # Sweep another network with a longer timeout
  yamactl discover --subnet 10.0.0.0 --mask 24 --timeout 1s

  # Only probe mDNS responders
  yamactl discover --mdns

  # Machine-readable output
  yamactl discover --format json`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

// deviceJSON is the JSON form of a discovered device
type deviceJSON struct {
	IP           string    `json:"ip"`
	Port         int       `json:"port"`
	ModelName    string    `json:"model_name"`
	DeviceID     string    `json:"device_id"`
	APIVersion   string    `json:"api_version"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

func toDeviceJSON(devices []*discovery.Device) []deviceJSON {
	out := make([]deviceJSON, 0, len(devices))
	for _, d := range devices {
		out = append(out, deviceJSON{
			IP:           d.IP.String(),
			Port:         d.Port,
			ModelName:    d.ModelName,
			DeviceID:     d.DeviceID,
			APIVersion:   d.APIVersion,
			DiscoveredAt: d.DiscoveredAt,
		})
	}
	return out
}

// discoveryConfig merges the discover flags over the configured defaults
func discoveryConfig(cmd *cobra.Command) (discovery.Config, bool, error) {
	cfg, err := prefs.DiscoveryConfig()
	if err != nil {
		return cfg, false, err
	}
	useMDNS := prefs.Discovery.UseMDNS

	flags := cmd.Flags()
	if flags.Changed("subnet") {
		subnet, err := netip.ParseAddr(scanSubnet)
		if err != nil {
			return cfg, false, fmt.Errorf("invalid --subnet %q: %w", scanSubnet, err)
		}
		cfg.Subnet = subnet
	}
	if flags.Changed("mask") {
		cfg.Mask = scanMask
	}
	if flags.Changed("timeout") {
		cfg.Timeout = scanTimeout
	}
	if flags.Changed("concurrency") {
		cfg.MaxConcurrent = scanConcurrency
	}
	if flags.Changed("mdns") {
		useMDNS = scanMDNS
	}

	return cfg, useMDNS, cfg.Validate()
}

func newScanner(cfg discovery.Config) *discovery.Scanner {
	return discovery.NewScanner(cfg,
		discovery.WithPort(devicePort),
		discovery.WithLogger(logging.Named("discovery")),
	)
}

// sweep runs one discovery pass, reporting progress on w
func sweep(ctx context.Context, w io.Writer, cfg discovery.Config, useMDNS, verbose bool) ([]*discovery.Device, discovery.Summary, error) {
	scanner := newScanner(cfg)
	live := ui.IsTerminal() && !verbose

	var progress *ui.ScanProgress
	onResult := func(o discovery.Outcome) {
		progress.Record(o)
		switch {
		case verbose:
			printOutcome(w, o)
		case live:
			fmt.Fprint(w, "\r"+progress.Line())
		}
	}

	var (
		devices []*discovery.Device
		summary discovery.Summary
		err     error
	)
	if useMDNS {
		fmt.Fprintf(w, "Browsing mDNS for %s...\n", discovery.DefaultBrowseTimeout)
		addrs, berr := discovery.BrowseCandidates(ctx, discovery.DefaultBrowseTimeout)
		if berr != nil {
			return nil, summary, berr
		}
		progress = ui.NewScanProgress(fmt.Sprintf("Probing %d mDNS responder(s)", len(addrs)), len(addrs))
		fmt.Fprintln(w, ui.ProgressLabelStyle.Render(progress.Label))
		devices, summary, err = scanner.ScanAddresses(ctx, addrs, onResult)
	} else {
		r, rerr := discovery.NewRange(cfg.Subnet, cfg.Mask)
		if rerr != nil {
			return nil, summary, rerr
		}
		progress = ui.NewScanProgress("Scanning "+cfg.String(), r.Len())
		fmt.Fprintln(w, ui.ProgressLabelStyle.Render(progress.Label))
		devices, summary, err = scanner.ScanStream(ctx, onResult)
	}
	if live {
		fmt.Fprintln(w)
	}

	return devices, summary, err
}

func printOutcome(w io.Writer, o discovery.Outcome) {
	switch o.Kind {
	case discovery.Found:
		fmt.Fprintf(w, "  %s %-15s %s\n", ui.SuccessMarker, o.Addr, o.Device)
	default:
		reason := o.Kind.String()
		if o.Err != nil {
			reason += ": " + o.Err.Error()
		}
		fmt.Fprintf(w, "  %s %-15s %s\n", ui.FailureMarker, o.Addr, reason)
	}
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cfg, useMDNS, err := discoveryConfig(cmd)
	if err != nil {
		return err
	}

	// Progress goes to stderr so json output stays clean
	devices, summary, err := sweep(cmd.Context(), os.Stderr, cfg, useMDNS, scanVerbose)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("discovery failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, ui.WarningMarker+" Discovery interrupted, showing partial results")
	}

	switch outputFormat {
	case "json":
		return printJSON(toDeviceJSON(devices))
	case "compact":
		for _, d := range devices {
			fmt.Printf("%s\t%s\t%s\t%s\n", d.IP, d.ModelName, d.DeviceID, d.APIVersion)
		}
		return nil
	}

	fmt.Println(ui.RenderDiscoverySummary(summary))
	if len(devices) == 0 {
		fmt.Println()
		fmt.Println(ui.RenderWarning("No receivers found",
			ui.Param{Key: "Network", Value: cfg.String()},
			ui.Param{Key: "Timeout", Value: cfg.Timeout.String()},
		))
		fmt.Println("Troubleshooting:")
		fmt.Println("  - Ensure the receiver is powered on or in network standby")
		fmt.Println("  - Check that it is on the same network as this computer")
		fmt.Println("  - Try a longer --timeout for slow or busy networks")
		fmt.Println("  - Use --subnet/--mask if your network is not " + discovery.DefaultSubnet.String() + "/24")
		fmt.Println("  - Use --device to address a receiver directly")
		return nil
	}

	fmt.Println(ui.RenderDeviceTable(devices))
	fmt.Println()
	fmt.Println("Use 'yamactl status --device <ip>' to query a receiver")
	fmt.Println("Use 'yamactl tui' for interactive control")

	return nil
}

// resolveDevice returns the device to talk to: the --device address when
// given, otherwise the single receiver found by discovery.
func resolveDevice(ctx context.Context) (*discovery.Device, error) {
	if deviceAddr != "" {
		addr, err := netip.ParseAddr(deviceAddr)
		if err != nil || !addr.Is4() {
			return nil, fmt.Errorf("invalid --device %q: want an IPv4 address", deviceAddr)
		}

		cfg := discovery.DefaultConfig()
		cfg.Timeout = directProbeTimeout
		out := newScanner(cfg).Connect(ctx, addr)
		if out.Kind != discovery.Found {
			if out.Err != nil {
				return nil, fmt.Errorf("no Yamaha device answered at %s (%s): %w", addr, out.Kind, out.Err)
			}
			return nil, fmt.Errorf("no Yamaha device answered at %s (%s)", addr, out.Kind)
		}
		logging.LogDeviceSelected(out.Device.IP, out.Device.ModelName, "flag")
		return out.Device, nil
	}

	cfg, err := prefs.DiscoveryConfig()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(os.Stderr, "No device specified, discovering receivers...")
	devices, _, err := sweep(ctx, os.Stderr, cfg, prefs.Discovery.UseMDNS, false)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no receivers found on %s. Use --device to specify an IP address", cfg)
	case 1:
		d := devices[0]
		fmt.Fprintf(os.Stderr, "Found %s\n\n", d)
		logging.LogDeviceSelected(d.IP, d.ModelName, "discovery")
		return d, nil
	default:
		fmt.Fprintln(os.Stderr, ui.RenderDeviceTable(devices))
		return nil, fmt.Errorf("found %d receivers. Use --device to choose one", len(devices))
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
