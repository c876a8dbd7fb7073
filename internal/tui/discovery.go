package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/ui"
)

// BrowseFunc returns candidate addresses to probe instead of sweeping the subnet
type BrowseFunc func(ctx context.Context) ([]netip.Addr, error)

// Messages for async operations
type scanRequestMsg struct{}

type scanStartMsg struct {
	id    int
	total int
	label string
}

type scanOutcomeMsg struct {
	id      int
	outcome discovery.Outcome
}

type scanCompleteMsg struct {
	id      int
	summary discovery.Summary
	err     error
}

type connectResultMsg struct {
	addr    netip.Addr
	outcome discovery.Outcome
}

// deviceSelectedMsg asks the application to open the control screen
type deviceSelectedMsg struct {
	device *discovery.Device
}

// streamScan runs one discovery pass in the background and feeds its progress
// into the returned channel. The channel is closed when the pass ends.
func streamScan(ctx context.Context, scanner *discovery.Scanner, browse BrowseFunc, id int) <-chan tea.Msg {
	events := make(chan tea.Msg, 64)

	send := func(msg tea.Msg) {
		select {
		case events <- msg:
		case <-ctx.Done():
		}
	}
	onResult := func(o discovery.Outcome) {
		send(scanOutcomeMsg{id: id, outcome: o})
	}

	go func() {
		defer close(events)

		var (
			summary discovery.Summary
			err     error
		)
		if browse != nil {
			var addrs []netip.Addr
			addrs, err = browse(ctx)
			if err != nil {
				send(scanCompleteMsg{id: id, err: err})
				return
			}
			send(scanStartMsg{id: id, total: len(addrs), label: fmt.Sprintf("Probing %d mDNS responder(s)", len(addrs))})
			_, summary, err = scanner.ScanAddresses(ctx, addrs, onResult)
		} else {
			cfg := scanner.Config()
			total := 0
			if r, rerr := discovery.NewRange(cfg.Subnet, cfg.Mask); rerr == nil {
				total = r.Len()
			}
			send(scanStartMsg{id: id, total: total, label: "Scanning " + cfg.String()})
			_, summary, err = scanner.ScanStream(ctx, onResult)
		}
		send(scanCompleteMsg{id: id, summary: summary, err: err})
	}()

	return events
}

// waitForScan reads the next progress message of a running scan
func waitForScan(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// connectDevice probes a single address entered by the user
func connectDevice(scanner *discovery.Scanner, addr netip.Addr) tea.Cmd {
	return func() tea.Msg {
		return connectResultMsg{addr: addr, outcome: scanner.Connect(context.Background(), addr)}
	}
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual IP entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// deviceItem wraps a Device for use with bubbles/list
type deviceItem struct {
	device   *discovery.Device
	lastSeen time.Time
}

// FilterValue implements list.Item
func (d deviceItem) FilterValue() string {
	return d.device.ModelName + " " + d.device.IP.String() + " " + d.device.DeviceID
}

// Title returns the device name for list display
func (d deviceItem) Title() string {
	return d.device.String()
}

// Description returns device details for list display
func (d deviceItem) Description() string {
	return fmt.Sprintf("ID %s • API %s • seen %s", d.device.DeviceID, d.device.APIVersion, d.lastSeen.Format("15:04:05"))
}

// deviceDelegate renders discovered amplifiers as compact cards
type deviceDelegate struct {
	width int
}

func (d deviceDelegate) Height() int { return 5 }

func (d deviceDelegate) Spacing() int { return 0 }

func (d deviceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d deviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(deviceItem)
	if !ok {
		return
	}
	selected := index == m.Index()

	var content strings.Builder
	content.WriteString(RenderMenuItem(it.Title(), selected))
	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Foreground(SubtleColor).PaddingLeft(4).Render(it.Description()))

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SubtleColor).
		Width(cardWidth)
	if selected {
		card = card.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, card.Render(content.String()))
}

// DiscoveryModel represents the amplifier discovery screen state
type DiscoveryModel struct {
	// Discovery state
	Scanning      bool
	DeviceList    list.Model
	Progress      *ui.ScanProgress
	Summary       discovery.Summary
	ScanStartTime time.Time
	Err           error

	// Manual IP entry state
	ManualMode bool
	Connecting bool
	IPInput    textinput.Model
	Notice     string

	// UI state
	Width      int
	Height     int
	Spinner    spinner.Model
	Help       help.Model
	Keys       discoveryKeyMap
	ManualKeys manualModeKeyMap

	scanner *discovery.Scanner
	browse  BrowseFunc
	scanID  int
	events  <-chan tea.Msg
	cancel  context.CancelFunc
}

// NewDiscoveryModel creates a new discovery screen model. browse may be nil,
// in which case the configured subnet is swept.
func NewDiscoveryModel(scanner *discovery.Scanner, browse BrowseFunc) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ipInput := textinput.New()
	ipInput.Placeholder = "192.168.1.20"
	ipInput.CharLimit = 15 // Max length for IPv4 address
	ipInput.Width = 30

	deviceList := list.New([]list.Item{}, deviceDelegate{width: MinTerminalWidth}, 0, 0)
	deviceList.Title = "Amplifiers"
	deviceList.SetShowStatusBar(false)
	deviceList.SetShowHelp(false)
	deviceList.SetFilteringEnabled(true)
	deviceList.Styles.Title = TitleStyle

	keys := discoveryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "control"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "manual IP"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	manualKeys := manualModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "connect"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return DiscoveryModel{
		DeviceList: deviceList,
		IPInput:    ipInput,
		Spinner:    s,
		Help:       help.New(),
		Keys:       keys,
		ManualKeys: manualKeys,
		scanner:    scanner,
		browse:     browse,
	}
}

// Init starts the first scan
func (m DiscoveryModel) Init() tea.Cmd {
	return func() tea.Msg { return scanRequestMsg{} }
}

// Stop cancels a running scan
func (m DiscoveryModel) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// beginScan cancels any running pass and starts a new one. Devices already
// listed stay; a rescan refreshes their last-seen time.
func (m DiscoveryModel) beginScan() (DiscoveryModel, tea.Cmd) {
	m.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	m.scanID++
	m.cancel = cancel
	m.events = streamScan(ctx, m.scanner, m.browse, m.scanID)

	m.Scanning = true
	m.ScanStartTime = time.Now()
	m.Summary = discovery.Summary{}
	m.Err = nil
	m.Notice = ""
	m.Progress = ui.NewScanProgress("", 0).SetWidth(m.contentWidth())

	return m, tea.Batch(waitForScan(m.events), m.Spinner.Tick)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DeviceList.SetDelegate(deviceDelegate{width: msg.Width})
		m.DeviceList.SetWidth(msg.Width - 4)
		m.DeviceList.SetHeight(msg.Height - 14) // Leave room for header, progress and footer
		if m.Progress != nil {
			m.Progress.SetWidth(m.contentWidth())
		}
		return m, nil

	case scanRequestMsg:
		return m.beginScan()

	case scanStartMsg:
		if msg.id != m.scanID || m.Progress == nil {
			return m, nil
		}
		m.Progress.Label = msg.label
		m.Progress.Total = msg.total
		return m, waitForScan(m.events)

	case scanOutcomeMsg:
		if msg.id != m.scanID || m.Progress == nil {
			return m, nil
		}
		m.Progress.Record(msg.outcome)
		if msg.outcome.Kind == discovery.Found && msg.outcome.Device != nil {
			m.upsertDevice(msg.outcome.Device)
		}
		return m, waitForScan(m.events)

	case scanCompleteMsg:
		if msg.id != m.scanID {
			return m, nil
		}
		m.Scanning = false
		m.Summary = msg.summary
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.Err = msg.err
		}
		m.Stop()
		m.cancel = nil
		return m, nil

	case connectResultMsg:
		m.Connecting = false
		if msg.outcome.Kind != discovery.Found || msg.outcome.Device == nil {
			m.Err = fmt.Errorf("no Yamaha device answered at %s (%s)", msg.addr, msg.outcome.Kind)
			return m, nil
		}
		idx := m.upsertDevice(msg.outcome.Device)
		m.DeviceList.Select(idx)
		m.ManualMode = false
		m.IPInput.SetValue("")
		m.IPInput.Blur()
		m.Err = nil
		m.Notice = "Connected to " + msg.outcome.Device.String()
		return m, nil

	case spinner.TickMsg:
		if !m.Scanning && !m.Connecting {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input in device list mode
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.DeviceList.FilterState() == list.Filtering {
		m.DeviceList, cmd = m.DeviceList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Stop()
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Enter):
		if it, ok := m.DeviceList.SelectedItem().(deviceItem); ok {
			device := it.device
			return m, func() tea.Msg { return deviceSelectedMsg{device: device} }
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		return m.beginScan()

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.Err = nil
		m.IPInput.SetValue("")
		return m, m.IPInput.Focus()
	}

	// Let the list handle navigation and filtering
	m.DeviceList, cmd = m.DeviceList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual IP entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.Err = nil
		m.IPInput.SetValue("")
		m.IPInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		if m.Connecting {
			return m, nil
		}
		value := strings.TrimSpace(m.IPInput.Value())
		addr, err := netip.ParseAddr(value)
		if err != nil || !addr.Is4() {
			m.Err = fmt.Errorf("invalid IPv4 address %q", value)
			return m, nil
		}
		m.Err = nil
		m.Connecting = true
		return m, tea.Batch(connectDevice(m.scanner, addr), m.Spinner.Tick)
	}

	m.IPInput, cmd = m.IPInput.Update(msg)
	return m, cmd
}

// upsertDevice adds a device to the list, or refreshes the entry with the same
// IP, and returns its index.
func (m *DiscoveryModel) upsertDevice(device *discovery.Device) int {
	seen := device.DiscoveredAt
	if seen.IsZero() {
		seen = time.Now()
	}
	item := deviceItem{device: device, lastSeen: seen}

	items := m.DeviceList.Items()
	for i, existing := range items {
		if d, ok := existing.(deviceItem); ok && d.device.IP == device.IP {
			m.DeviceList.SetItem(i, item)
			return i
		}
	}
	m.DeviceList.InsertItem(len(items), item)
	return len(items)
}

// Devices returns the amplifiers currently listed
func (m DiscoveryModel) Devices() []*discovery.Device {
	items := m.DeviceList.Items()
	devices := make([]*discovery.Device, 0, len(items))
	for _, it := range items {
		if d, ok := it.(deviceItem); ok {
			devices = append(devices, d.device)
		}
	}
	return devices
}

// StatusText returns the status bar line for the discovery screen
func (m DiscoveryModel) StatusText() string {
	if m.Scanning {
		return "Discovering amplifiers..."
	}
	return fmt.Sprintf("Found %d amplifier(s)", len(m.DeviceList.Items()))
}

// HelpText returns the context-sensitive key help
func (m DiscoveryModel) HelpText() string {
	if m.ManualMode {
		return m.Help.View(m.ManualKeys)
	}
	return m.Help.View(m.Keys)
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	var sections []string

	if m.Scanning && m.Progress != nil {
		elapsed := time.Since(m.ScanStartTime).Truncate(100 * time.Millisecond)
		sections = append(sections,
			m.Spinner.View()+" "+RenderSubtitle(fmt.Sprintf("Discovering amplifiers... %s", elapsed)),
			m.Progress.Render(),
		)
	} else if m.ScanStartTime.IsZero() {
		sections = append(sections, RenderSubtitle("Preparing discovery..."))
	} else {
		sections = append(sections, ui.RenderDiscoverySummary(m.Summary))
	}

	if m.ManualMode {
		sections = append(sections, m.renderManualEntry())
	}

	if m.Err != nil {
		sections = append(sections, RenderError(m.Err.Error()))
	}
	if m.Notice != "" {
		sections = append(sections, NoticeStyle.Render(m.Notice))
	}

	if len(m.DeviceList.Items()) > 0 {
		sections = append(sections, m.DeviceList.View())
	} else if !m.Scanning {
		sections = append(sections, m.renderEmpty())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Connect by IP address"))
	b.WriteString("\n")
	b.WriteString(m.IPInput.View())
	if m.Connecting {
		b.WriteString("\n\n" + m.Spinner.View() + " Probing " + strings.TrimSpace(m.IPInput.Value()) + "...")
	}
	return PanelStyle.Render(b.String())
}

func (m DiscoveryModel) renderEmpty() string {
	lines := []string{
		RenderTitle("No amplifiers found"),
		"Make sure the receiver is powered on (or in network standby)",
		"and connected to the same network, then press r to rescan",
		"or m to enter its IP address.",
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m DiscoveryModel) contentWidth() int {
	if m.Width == 0 {
		return MinTerminalWidth
	}
	return m.Width - 6
}
