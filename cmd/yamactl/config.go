package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/config"
	"github.com/yamactl/yamactl/internal/ui"
)

var configForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}

// configCmd groups the preference commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage preferences",
	Long: `Manage the yamactl preferences file.

The file holds defaults only (discovery network, timeout and concurrency,
default zone, output format and volume step). Command-line flags always
override it. Its location follows the XDG base directory spec and can be
overridden with $` + config.ConfigPathEnvVar + `.

Keys: ` + strings.Join(config.Keys, ", "),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		if outputFormat == "json" {
			values := make(map[string]string, len(config.Keys))
			for _, key := range config.Keys {
				values[key], _ = prefs.Get(key)
			}
			return printJSON(values)
		}

		registry := &config.Registry{Version: config.CurrentVersion, Preferences: prefs}
		data, err := registry.Marshal(path)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefaultConfig(configForce)
		if err != nil && !configForce && path != "" {
			// An existing file is only replaced after an interactive yes
			if !ui.IsTerminal() {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			if !ui.Confirm(os.Stdin, os.Stdout, "Overwrite config",
				[]string{"The existing file at " + path + " will be replaced", "All preferences return to their defaults"},
				"Overwrite it?") {
				return nil
			}
			path, err = config.CreateDefaultConfig(true)
		}
		if err != nil {
			return err
		}
		fmt.Println(ui.RenderSuccess("Config file created", ui.Param{Key: "Path", Value: path}))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one preference",
	Example:   "  yamactl config set discovery.subnet 10.0.0.0\n  yamactl config set volume_step 5",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if err := registry.Preferences.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := registry.Save(); err != nil {
			return err
		}

		value, _ := registry.Preferences.Get(args[0])
		fmt.Println(ui.RenderSuccess("Preference saved", ui.Param{Key: args[0], Value: value}))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "Print one preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := prefs.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}
