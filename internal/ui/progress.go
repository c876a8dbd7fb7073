package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/yamactl/yamactl/internal/discovery"
)

// ScanProgress renders the state of a running discovery sweep as one line:
// bar, percentage, probed/total and devices found so far.
type ScanProgress struct {
	Label   string // e.g., "Scanning 192.168.1.0/24"
	Total   int    // Candidate addresses
	Probed  int    // Outcomes received
	Found   int    // Found outcomes received
	Width   int    // Terminal width
	bar     progress.Model
	lastHit string
}

// NewScanProgress creates a progress display for total candidates
func NewScanProgress(label string, total int) *ScanProgress {
	p := &ScanProgress{Label: label, Total: total}
	return p.SetWidth(GetTerminalWidth())
}

// SetWidth sets the terminal width for responsive rendering
func (p *ScanProgress) SetWidth(width int) *ScanProgress {
	p.Width = width
	barWidth := width - 30 // Leave room for percentage and counters
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	p.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	return p
}

// Record counts one probe outcome
func (p *ScanProgress) Record(o discovery.Outcome) {
	p.Probed++
	if o.Kind == discovery.Found && o.Device != nil {
		p.Found++
		p.lastHit = o.Device.String()
	}
}

// Percent returns the fraction of candidates probed (0.0 - 1.0)
func (p *ScanProgress) Percent() float64 {
	if p.Total <= 0 {
		return 1
	}
	pct := float64(p.Probed) / float64(p.Total)
	if pct > 1 {
		return 1
	}
	return pct
}

// Render returns the styled progress line
func (p *ScanProgress) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.Label))
		b.WriteString("\n")
	}

	counter := fmt.Sprintf("[%d/%d]", p.Probed, p.Total)
	found := fmt.Sprintf("%d found", p.Found)
	if p.Found > 0 {
		found = SuccessTitleStyle.Render(found)
	}

	b.WriteString(lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  %s  %s", p.bar.ViewAs(p.Percent()), p.Percent()*100, counter, found)))

	return b.String()
}

// Line returns the bar line without the label, for carriage-return redraws
func (p *ScanProgress) Line() string {
	label := p.Label
	p.Label = ""
	defer func() { p.Label = label }()
	return p.Render()
}

// LastHit returns the most recent device found, or ""
func (p *ScanProgress) LastHit() string {
	return p.lastHit
}

// String implements fmt.Stringer
func (p *ScanProgress) String() string {
	return p.Render()
}
