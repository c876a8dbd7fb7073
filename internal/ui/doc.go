// Package ui renders styled, non-interactive output for yamactl commands.
//
// Components follow a "render once and print" pattern with Lipgloss styles:
//
//   - Header: command banner with the device and zone being addressed
//   - Result: success, failure and warning boxes
//   - ScanProgress: one-line bar for a running discovery sweep
//   - RenderDeviceTable: table of discovered receivers
//   - Confirm: yes/no prompt behind a warning box
//
// The interactive terminal UI lives in package tui; both share the palette
// defined here.
//
// Example:
//
//	fmt.Println(ui.NewHeader("Zone Status", "yamactl status",
//	    ui.Param{Key: "Device", Value: dev.String()},
//	    ui.Param{Key: "Zone", Value: "main"},
//	).Render())
//
//	if err != nil {
//	    fmt.Println(ui.RenderDeviceFailure("Could not read status", err))
//	}
//
// # Logging Integration
//
// Logging is silent unless YAMACTL_LOG_LEVEL is set, so the curated output
// here is the only thing printed by default.
package ui
