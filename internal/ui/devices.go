package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yamactl/yamactl/internal/discovery"
)

// RenderDeviceTable renders discovered devices as a bordered table, one row
// per device, numbered from 1.
func RenderDeviceTable(devices []*discovery.Device) string {
	rows := make([][]string, 0, len(devices))
	for i, d := range devices {
		model := d.ModelName
		if model == "" {
			model = "Yamaha device"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			model,
			d.IP.String(),
			d.DeviceID,
			d.APIVersion,
			formatSeen(d.DiscoveredAt),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		Headers("#", "MODEL", "IP", "DEVICE ID", "API", "SEEN").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Render()
}

// RenderDiscoverySummary renders the one-line result of a sweep
func RenderDiscoverySummary(s discovery.Summary) string {
	line := fmt.Sprintf("Found %d amplifier(s) in %s (%d probed, %d timed out, %d unreachable, %d not Yamaha)",
		s.Found, s.Elapsed.Round(time.Millisecond), s.Probed, s.TimedOut, s.TransportErrors, s.NotFound)
	if s.Found == 0 {
		return lipgloss.NewStyle().Foreground(WarningColor).Render(line)
	}
	return SuccessTitleStyle.Render(line)
}

func formatSeen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("15:04:05")
}
