// Package config manages the yamactl preferences file.
//
// The file is YAML and holds defaults for discovery (subnet, mask, probe
// timeout, concurrency, mDNS), the default zone, the output format and the
// volume step. Receivers found by discovery are never written to it.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/yamactl/config.yaml or $HOME/.config/yamactl/config.yaml
//   - macOS: $HOME/.config/yamactl/config.yaml
//   - Windows: %LOCALAPPDATA%\yamactl\config.yaml
//
// YAMACTL_CONFIG overrides the location.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//
//	cfg, err := registry.Preferences.DiscoveryConfig()
//	if err != nil {
//	    return err
//	}
//
//	if err := registry.Preferences.Set("volume_step", "3"); err != nil {
//	    return err
//	}
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes are protected by a mutex and are atomic (write then rename).
package config
