// Package tui implements the interactive terminal interface.
//
// The application has two screens coordinated by AppModel:
//
//   - Discovery: sweeps the configured subnet (or probes mDNS responders),
//     shows per-probe progress as outcomes arrive and lists the amplifiers
//     found, deduplicated by IP with the time each was last seen. An address
//     can also be entered by hand.
//   - Control: shows the zone status of the selected amplifier and sends
//     power, volume, mute, input and sound program commands.
//
// All network work runs in tea.Cmd functions and reports back through
// messages, so Update never blocks. A scan started on the discovery screen
// keeps running while a device is being controlled.
//
// Usage:
//
//	err := tui.Run(tui.Options{
//		Scanner:    discovery.NewScanner(cfg),
//		Zone:       yxc.ZoneMain,
//		VolumeStep: 2,
//	})
package tui
