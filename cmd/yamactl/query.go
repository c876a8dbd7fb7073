package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/logging"
	"github.com/yamactl/yamactl/internal/ui"
	"github.com/yamactl/yamactl/internal/yxc"
)

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(signalCmd)
	rootCmd.AddCommand(programsCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(namesCmd)
}

// target is a resolved device with its client and the zone to act on
type target struct {
	device *discovery.Device
	client *yxc.Client
	zone   yxc.Zone
}

// connect resolves the device and zone for a command
func connect(cmd *cobra.Command) (*target, error) {
	zone, err := selectedZone()
	if err != nil {
		return nil, err
	}

	device, err := resolveDevice(cmd.Context())
	if err != nil {
		return nil, err
	}

	client := yxc.NewClient(device.IP.String(), device.Port)
	client.SetLogger(logging.Named("yxc"))

	return &target{device: device, client: client, zone: zone}, nil
}

// printHeader prints the command header in detailed mode
func (t *target) printHeader(title string, cmd *cobra.Command, params ...ui.Param) {
	if outputFormat != "detailed" {
		return
	}
	all := []ui.Param{
		{Key: "Device", Value: t.device.String()},
		{Key: "Zone", Value: t.zone.String()},
	}
	fmt.Println(ui.NewHeader(title, cmd.CommandPath(), append(all, params...)...).Render())
	fmt.Println()
}

// infoCmd shows device identification
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show device information",
	Long: `Show model, firmware and API version of a receiver (system/getDeviceInfo).

With --device the address is probed directly, without a network sweep.`,
	Example: `  yamactl info --device 192.168.1.20
  yamactl info --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect(cmd)
		if err != nil {
			return err
		}

		info, err := t.client.DeviceInfo(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get device info: %w", err)
		}

		switch outputFormat {
		case "json":
			return printJSON(info)
		case "compact":
			fmt.Println(info.Summary())
		default:
			t.printHeader("Device Information", cmd)
			fmt.Print(info.FormatDetailed())
		}
		return nil
	},
}

// statusCmd shows zone status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show zone status",
	Long:  `Show power, volume, mute, input and sound program of a zone (<zone>/getStatus).`,
	Example: `  yamactl status
  yamactl status --zone zone2 --device 192.168.1.20

  # One line, for scripts and status bars
  yamactl status --format compact`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect(cmd)
		if err != nil {
			return err
		}

		status, err := t.client.Status(cmd.Context(), t.zone)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch outputFormat {
		case "json":
			return printJSON(status)
		case "compact":
			fmt.Println(status.FormatCompact())
		default:
			t.printHeader("Zone Status", cmd)
			fmt.Print(status.FormatDetailed())
		}
		return nil
	},
}

// featuresCmd shows device capabilities
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Show device capabilities",
	Long:  `Show zones, inputs, sound programs and value ranges the receiver supports (system/getFeatures).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect(cmd)
		if err != nil {
			return err
		}

		features, err := t.client.Features(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get features: %w", err)
		}

		switch outputFormat {
		case "json":
			return printJSON(features)
		case "compact":
			for _, z := range features.Zones {
				fmt.Printf("%s\tinputs=%s\tprograms=%s\n", z.ID, strings.Join(z.InputList, ","), strings.Join(z.SoundProgramList, ","))
			}
		default:
			t.printHeader("Device Features", cmd)
			fmt.Print(features.FormatDetailed())
		}
		return nil
	},
}

// signalCmd shows the incoming audio signal
var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Show the incoming audio signal",
	Long:  `Show format, sampling rate and bit depth of the current input signal (<zone>/getSignalInfo).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect(cmd)
		if err != nil {
			return err
		}

		signal, err := t.client.SignalInfo(cmd.Context(), t.zone)
		if err != nil {
			return fmt.Errorf("failed to get signal info: %w", err)
		}

		switch outputFormat {
		case "json":
			return printJSON(signal)
		case "compact":
			a := signal.Audio
			fmt.Printf("format=%s fs=%s bit=%s bitrate=%d\n", a.Format, a.Fs, a.Bit, a.Bitrate)
		default:
			t.printHeader("Signal Information", cmd)
			fmt.Print(signal.FormatDetailed())
		}
		return nil
	},
}

// programsCmd lists the sound programs of a zone
var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List the sound programs of a zone",
	Long:  `List the DSP sound programs the zone accepts (<zone>/getSoundProgramList).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect(cmd)
		if err != nil {
			return err
		}

		programs, err := t.client.SoundProgramList(cmd.Context(), t.zone)
		if err != nil {
			return fmt.Errorf("failed to get sound programs: %w", err)
		}

		switch outputFormat {
		case "json":
			return printJSON(programs)
		case "compact":
			fmt.Println(strings.Join(programs, " "))
		default:
			t.printHeader("Sound Programs", cmd)
			for _, p := range programs {
				fmt.Println("  " + p)
			}
		}
		return nil
	},
}

// networkCmd shows network, function and Bluetooth settings
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Show network and Bluetooth status",
	Long:  `Show the receiver's network settings (system/getNetworkStatus), system functions (system/getFuncStatus) and Bluetooth state (system/getBluetoothInfo).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		network, err := t.client.NetworkStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to get network status: %w", err)
		}
		funcs, err := t.client.FuncStatus(ctx)
		if err != nil {
			return fmt.Errorf("failed to get function status: %w", err)
		}
		// Models without Bluetooth reject the request; that is not fatal
		bluetooth, btErr := t.client.BluetoothInfo(ctx)

		switch outputFormat {
		case "json":
			return printJSON(struct {
				Network   *yxc.NetworkStatus `json:"network"`
				Functions *yxc.FuncStatus    `json:"functions"`
				Bluetooth *yxc.BluetoothInfo `json:"bluetooth,omitempty"`
			}{network, funcs, bluetooth})
		case "compact":
			fmt.Printf("name=%s connection=%s ip=%s dhcp=%t\n", network.NetworkName, network.Connection, network.IPAddress, network.DHCP)
			return nil
		}

		t.printHeader("Network Status", cmd)
		fmt.Printf("Name:           %s\n", network.NetworkName)
		fmt.Printf("Connection:     %s\n", network.Connection)
		fmt.Printf("IP Address:     %s/%s\n", network.IPAddress, network.SubnetMask)
		fmt.Printf("Gateway:        %s\n", network.DefaultGateway)
		fmt.Printf("DNS:            %s %s\n", network.DNSServer1, network.DNSServer2)
		fmt.Printf("DHCP:           %t\n", network.DHCP)
		if network.Connection == "wireless_lan" {
			fmt.Printf("SSID:           %s (strength %d)\n", network.WirelessLAN.SSID, network.WirelessLAN.Strength)
		}
		fmt.Printf("HDMI Out 1:     %t\n", funcs.HDMIOut1)
		fmt.Printf("HDMI Through:   %s\n", funcs.HDMIStandbyThrough)
		if btErr == nil {
			name := bluetooth.Device.Name
			if !bluetooth.Device.Connected {
				name = "not connected"
			}
			fmt.Printf("Bluetooth:      %s\n", name)
		}
		return nil
	},
}

// namesCmd shows the display names of zones, inputs and programs
var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Show display names of zones, inputs and sound programs",
	Long:  `Show the user-visible names the receiver uses for zones, inputs and sound programs (system/getNameText).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := connect(cmd)
		if err != nil {
			return err
		}

		names, err := t.client.NameText(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get names: %w", err)
		}

		if outputFormat == "json" {
			return printJSON(names)
		}

		t.printHeader("Display Names", cmd)
		sections := []struct {
			title   string
			entries []yxc.NameTextEntry
		}{
			{"Zones", names.ZoneList},
			{"Inputs", names.InputList},
			{"Sound programs", names.SoundProgramList},
		}
		for _, s := range sections {
			if outputFormat == "detailed" {
				fmt.Printf("--- %s ---\n", s.title)
			}
			for _, e := range s.entries {
				fmt.Printf("%-20s %s\n", e.ID, e.Text)
			}
		}
		return nil
	},
}
