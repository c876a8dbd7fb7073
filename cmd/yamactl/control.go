package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/logging"
	"github.com/yamactl/yamactl/internal/ui"
	"github.com/yamactl/yamactl/internal/yxc"
)

// Control command flags
var volumeStep int

func init() {
	rootCmd.AddCommand(powerCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(muteCmd)
	rootCmd.AddCommand(inputCmd)
	rootCmd.AddCommand(programCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(dialogueLevelCmd)
	rootCmd.AddCommand(subwooferVolumeCmd)
	rootCmd.AddCommand(sleepCmd)

	volumeCmd.Flags().IntVar(&volumeStep, "step", 0, "Step for up/down (default from config, 2)")
}

// commandResult is the JSON form of a control command outcome
type commandResult struct {
	Device  string `json:"device"`
	Zone    string `json:"zone"`
	Command string `json:"command"`
	Value   string `json:"value"`
	OK      bool   `json:"ok"`
}

// runControl resolves the device, sends one command and prints the result
func runControl(cmd *cobra.Command, title, command, value string, send func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error) error {
	t, err := connect(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	err = send(cmd.Context(), t.client, t.zone)
	logging.LogCommand(t.device.IP.String(), t.zone.String(), command, value, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s %s: %w", command, value, err)
	}

	switch outputFormat {
	case "json":
		return printJSON(commandResult{
			Device:  t.device.IP.String(),
			Zone:    t.zone.String(),
			Command: command,
			Value:   value,
			OK:      true,
		})
	case "compact":
		fmt.Printf("ok %s %s\n", command, value)
	default:
		fmt.Println(ui.RenderSuccess(title,
			ui.Param{Key: "Device", Value: t.device.String()},
			ui.Param{Key: "Zone", Value: t.zone.String()},
			ui.Param{Key: strings.ToUpper(command[:1]) + command[1:], Value: value},
		))
	}
	return nil
}

// parseOnOff accepts on/off and the usual boolean spellings
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q (want on or off)", s)
	}
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// powerCmd switches a zone on or to standby
var powerCmd = &cobra.Command{
	Use:       "power <on|standby|toggle>",
	Short:     "Switch a zone on or to standby",
	Example:   "  yamactl power on\n  yamactl power standby --zone zone2",
	Args:      cobra.ExactArgs(1),
	ValidArgs: stringsOf(yxc.AllPowerStates),
	RunE: func(cmd *cobra.Command, args []string) error {
		power, err := yxc.ParsePowerState(args[0])
		if err != nil {
			return err
		}
		return runControl(cmd, "Power set", "power", power.String(), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetPower(ctx, zone, power)
		})
	},
}

// volumeCmd sets or steps the volume
var volumeCmd = &cobra.Command{
	Use:   "volume <level|up|down>",
	Short: "Set or step the volume",
	Long: `Set the volume of a zone to an absolute level, or step it up or down.

Levels are in the device's internal units (0 to the max_volume reported by
status, typically 161 on AV receivers).`,
	Example: `  yamactl volume 80
  yamactl volume up
  yamactl volume down --step 5`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := strings.ToLower(args[0])

		if arg == "up" || arg == "down" {
			step := prefs.VolumeStep
			if cmd.Flags().Changed("step") {
				step = volumeStep
			}
			if step < 1 {
				step = 1
			}
			up := arg == "up"
			return runControl(cmd, "Volume stepped", "volume", fmt.Sprintf("%s %d", arg, step), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
				return c.VolumeStep(ctx, zone, up, step)
			})
		}

		level, err := strconv.Atoi(arg)
		if err != nil || level < 0 {
			return fmt.Errorf("invalid volume %q (want a level >= 0, up or down)", args[0])
		}
		return runControl(cmd, "Volume set", "volume", strconv.Itoa(level), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetVolume(ctx, zone, level)
		})
	},
}

// muteCmd mutes or unmutes a zone
var muteCmd = &cobra.Command{
	Use:       "mute <on|off>",
	Short:     "Mute or unmute a zone",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mute, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		return runControl(cmd, "Mute set", "mute", onOff(mute), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetMute(ctx, zone, mute)
		})
	},
}

// inputCmd selects the input source
var inputCmd = &cobra.Command{
	Use:   "input <name>",
	Short: "Select the input source",
	Long: `Select the input source of a zone.

Names are the API input IDs (hdmi1, tv, optical1, spotify, net_radio...).
Case is ignored and "-" may be used for "_". Run 'yamactl features' to see
which inputs your receiver has.`,
	Example:   "  yamactl input hdmi1\n  yamactl input net-radio",
	Args:      cobra.ExactArgs(1),
	ValidArgs: stringsOf(yxc.AllInputs),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := yxc.ParseInput(args[0])
		if err != nil {
			return err
		}
		return runControl(cmd, "Input selected", "input", input.String(), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetInput(ctx, zone, input)
		})
	},
}

// programCmd selects the DSP sound program
var programCmd = &cobra.Command{
	Use:   "program <name>",
	Short: "Select the sound program",
	Long: `Select the DSP sound program of a zone.

Names are the API program IDs (straight, 2ch_stereo, 7ch_stereo, hall_in_munich,
sci-fi, surr_decoder...). Run 'yamactl programs' to see what the zone accepts.`,
	Example:   "  yamactl program straight\n  yamactl program 2ch_stereo",
	Args:      cobra.ExactArgs(1),
	ValidArgs: stringsOf(yxc.AllSoundPrograms),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := yxc.ParseSoundProgram(args[0])
		if err != nil {
			return err
		}
		return runControl(cmd, "Sound program selected", "program", program.String(), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetSoundProgram(ctx, zone, program)
		})
	},
}

// toggles maps the "set" feature names to their setters
var toggles = map[string]func(c *yxc.Client, ctx context.Context, zone yxc.Zone, enable bool) error{
	"direct":         (*yxc.Client).SetDirect,
	"pure-direct":    (*yxc.Client).SetPureDirect,
	"enhancer":       (*yxc.Client).SetEnhancer,
	"bass-extension": (*yxc.Client).SetBassExtension,
	"extra-bass":     (*yxc.Client).SetExtraBass,
	"adaptive-drc":   (*yxc.Client).SetAdaptiveDRC,
}

func toggleNames() []string {
	names := make([]string, 0, len(toggles))
	for name := range toggles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// setCmd switches an on/off sound feature
var setCmd = &cobra.Command{
	Use:   "set <feature> <on|off>",
	Short: "Switch a sound feature on or off",
	Long: `Switch an on/off sound feature of a zone.

Features: ` + strings.Join(toggleNames(), ", ") + `.
Not every receiver has every feature; unsupported ones are rejected by the
device.`,
	Example: "  yamactl set pure-direct on\n  yamactl set enhancer off",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(strings.ReplaceAll(args[0], "_", "-"))
		setter, ok := toggles[name]
		if !ok {
			return fmt.Errorf("unknown feature %q (want one of %s)", args[0], strings.Join(toggleNames(), ", "))
		}
		enable, err := parseOnOff(args[1])
		if err != nil {
			return err
		}
		return runControl(cmd, "Feature set", name, onOff(enable), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return setter(c, ctx, zone, enable)
		})
	},
}

// dialogueLevelCmd sets the dialogue level
var dialogueLevelCmd = &cobra.Command{
	Use:   "dialogue-level <level>",
	Short: "Set the dialogue level",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid dialogue level %q: %w", args[0], err)
		}
		return runControl(cmd, "Dialogue level set", "dialogue-level", strconv.Itoa(level), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetDialogueLevel(ctx, zone, level)
		})
	},
}

// subwooferVolumeCmd sets the subwoofer volume
var subwooferVolumeCmd = &cobra.Command{
	Use:   "subwoofer-volume <level>",
	Short: "Set the subwoofer volume",
	Long: `Set the subwoofer volume of a zone. Negative levels are allowed; the
valid range is model specific and reported by 'yamactl features'.`,
	Example: "  yamactl subwoofer-volume -- -2\n  yamactl subwoofer-volume 3",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid subwoofer volume %q: %w", args[0], err)
		}
		return runControl(cmd, "Subwoofer volume set", "subwoofer-volume", strconv.Itoa(level), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetSubwooferVolume(ctx, zone, level)
		})
	},
}

// sleepCmd sets the sleep timer
var sleepCmd = &cobra.Command{
	Use:       "sleep <minutes>",
	Short:     "Set the sleep timer (0, 30, 60, 90 or 120 minutes)",
	Example:   "  yamactl sleep 60\n  yamactl sleep 0",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"0", "30", "60", "90", "120"},
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid sleep timer %q: %w", args[0], err)
		}
		return runControl(cmd, "Sleep timer set", "sleep", strconv.Itoa(minutes), func(ctx context.Context, c *yxc.Client, zone yxc.Zone) error {
			return c.SetSleep(ctx, zone, minutes)
		})
	},
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
