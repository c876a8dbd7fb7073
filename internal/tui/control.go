package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/logging"
	"github.com/yamactl/yamactl/internal/ui"
	"github.com/yamactl/yamactl/internal/yxc"
)

const (
	// commandTimeout bounds one request issued from the control screen
	commandTimeout = 10 * time.Second

	// pickerWindow is how many picker options are shown at once
	pickerWindow = 10
)

// Controller is the part of the command client the control screen drives.
// *yxc.Client implements it.
type Controller interface {
	Status(ctx context.Context, zone yxc.Zone) (*yxc.Status, error)
	Features(ctx context.Context) (*yxc.Features, error)
	SoundProgramList(ctx context.Context, zone yxc.Zone) ([]string, error)
	SetPower(ctx context.Context, zone yxc.Zone, power yxc.PowerState) error
	VolumeStep(ctx context.Context, zone yxc.Zone, up bool, step int) error
	SetMute(ctx context.Context, zone yxc.Zone, mute bool) error
	SetInput(ctx context.Context, zone yxc.Zone, input yxc.Input) error
	SetSoundProgram(ctx context.Context, zone yxc.Zone, program yxc.SoundProgram) error
}

// Messages for async operations
type statusMsg struct {
	zone   yxc.Zone
	status *yxc.Status
	err    error
}

type featuresMsg struct {
	features *yxc.Features
	programs []string
	err      error
}

type commandResultMsg struct {
	action string
	err    error
}

// backToDiscoveryMsg asks the application to return to the discovery screen
type backToDiscoveryMsg struct{}

// pickerKind identifies what a picker selects
type pickerKind int

const (
	pickInput pickerKind = iota
	pickProgram
)

// picker is an inline single-choice menu
type picker struct {
	kind    pickerKind
	title   string
	options []string
	cursor  int
}

func (p *picker) selected() string {
	if p.cursor < 0 || p.cursor >= len(p.options) {
		return ""
	}
	return p.options[p.cursor]
}

// controlKeyMap defines key bindings for the control screen
type controlKeyMap struct {
	PowerOn    key.Binding
	Standby    key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	Input      key.Binding
	Program    key.Binding
	Zone       key.Binding
	Refresh    key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k controlKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PowerOn, k.Standby, k.VolumeUp, k.VolumeDown, k.Mute, k.Input, k.Program, k.Zone, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k controlKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PowerOn, k.Standby, k.Mute},
		{k.VolumeUp, k.VolumeDown},
		{k.Input, k.Program, k.Zone},
		{k.Refresh, k.Back, k.Quit},
	}
}

// pickerKeyMap defines key bindings while a picker is open
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Cancel}}
}

// ControlModel represents the amplifier control screen state
type ControlModel struct {
	Device     *discovery.Device
	Zone       yxc.Zone
	VolumeStep int

	// Device state
	Status   *yxc.Status
	Features *yxc.Features
	Programs []string
	Loading  bool
	Busy     string // Action in flight
	Err      error
	Notice   string
	Picker   *picker

	// UI state
	Width      int
	Height     int
	Spinner    spinner.Model
	Help       help.Model
	Keys       controlKeyMap
	PickerKeys pickerKeyMap

	client Controller
}

// NewControlModel creates the control screen for device
func NewControlModel(device *discovery.Device, client Controller, zone yxc.Zone, volumeStep int) ControlModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	if zone == "" {
		zone = yxc.ZoneMain
	}
	if volumeStep < 1 {
		volumeStep = 1
	}

	keys := controlKeyMap{
		PowerOn: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "power on"),
		),
		Standby: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "standby"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "=", "right"),
			key.WithHelp("+", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-", "_", "left"),
			key.WithHelp("-", "volume down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Input: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "input"),
		),
		Program: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "program"),
		),
		Zone: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "zone"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "devices"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	pickerKeys := pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return ControlModel{
		Device:     device,
		Zone:       zone,
		VolumeStep: volumeStep,
		Loading:    true,
		Spinner:    s,
		Help:       help.New(),
		Keys:       keys,
		PickerKeys: pickerKeys,
		client:     client,
	}
}

// Init loads status and capabilities
func (m ControlModel) Init() tea.Cmd {
	return tea.Batch(m.fetchStatus(), m.fetchFeatures(), m.Spinner.Tick)
}

func (m ControlModel) fetchStatus() tea.Cmd {
	client, zone := m.client, m.Zone
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		status, err := client.Status(ctx, zone)
		return statusMsg{zone: zone, status: status, err: err}
	}
}

func (m ControlModel) fetchFeatures() tea.Cmd {
	client, zone := m.client, m.Zone
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		features, err := client.Features(ctx)
		if err != nil {
			return featuresMsg{err: err}
		}
		// Older firmware lacks getSoundProgramList; getFeatures has the list too.
		programs, _ := client.SoundProgramList(ctx, zone)
		return featuresMsg{features: features, programs: programs}
	}
}

// runCommand issues one write request and reports back with commandResultMsg
func (m ControlModel) runCommand(action, value string, fn func(ctx context.Context) error) tea.Cmd {
	host, zone := m.Device.IP.String(), m.Zone
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		start := time.Now()
		err := fn(ctx)
		logging.LogCommand(host, string(zone), action, value, time.Since(start), err)
		label := action
		if value != "" {
			label += " " + value
		}
		return commandResultMsg{action: label, err: err}
	}
}

// Update handles messages and updates the model
func (m ControlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Picker != nil {
			return m.updatePicker(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case statusMsg:
		if msg.zone != m.Zone {
			return m, nil
		}
		m.Loading = false
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Status = msg.status
		return m, nil

	case featuresMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Features = msg.features
		m.Programs = msg.programs
		return m, nil

	case commandResultMsg:
		m.Busy = ""
		if msg.err != nil {
			m.Err = msg.err
			m.Notice = ""
			return m, nil
		}
		m.Err = nil
		m.Notice = ui.SuccessMarker + " " + msg.action
		return m, m.fetchStatus()

	case spinner.TickMsg:
		if !m.Loading && m.Busy == "" {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input when no picker is open
func (m ControlModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Back):
		return m, func() tea.Msg { return backToDiscoveryMsg{} }

	case key.Matches(msg, m.Keys.Refresh):
		m.Loading = true
		return m, tea.Batch(m.fetchStatus(), m.Spinner.Tick)
	}

	// Write commands are serialized so the displayed state stays coherent
	if m.Busy != "" {
		return m, nil
	}

	client, zone := m.client, m.Zone
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.Keys.PowerOn):
		cmd = m.runCommand("power", "on", func(ctx context.Context) error {
			return client.SetPower(ctx, zone, yxc.PowerOn)
		})

	case key.Matches(msg, m.Keys.Standby):
		cmd = m.runCommand("power", "standby", func(ctx context.Context) error {
			return client.SetPower(ctx, zone, yxc.PowerStandby)
		})

	case key.Matches(msg, m.Keys.VolumeUp), key.Matches(msg, m.Keys.VolumeDown):
		up := key.Matches(msg, m.Keys.VolumeUp)
		step := m.VolumeStep
		direction := "down"
		if up {
			direction = "up"
		}
		cmd = m.runCommand("volume", direction, func(ctx context.Context) error {
			return client.VolumeStep(ctx, zone, up, step)
		})

	case key.Matches(msg, m.Keys.Mute):
		mute := m.Status == nil || !m.Status.Mute
		cmd = m.runCommand("mute", onOff(mute), func(ctx context.Context) error {
			return client.SetMute(ctx, zone, mute)
		})

	case key.Matches(msg, m.Keys.Input):
		m.Picker = m.newPicker(pickInput)
		return m, nil

	case key.Matches(msg, m.Keys.Program):
		m.Picker = m.newPicker(pickProgram)
		return m, nil

	case key.Matches(msg, m.Keys.Zone):
		m.Zone = m.nextZone()
		m.Status = nil
		m.Programs = nil
		m.Loading = true
		m.Notice = "Zone " + m.Zone.String()
		return m, tea.Batch(m.fetchStatus(), m.fetchFeatures(), m.Spinner.Tick)
	}

	if cmd == nil {
		return m, nil
	}
	m.Busy = msg.String()
	return m, tea.Batch(cmd, m.Spinner.Tick)
}

// updatePicker handles keyboard input while a picker is open
func (m ControlModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := *m.Picker

	switch {
	case key.Matches(msg, m.PickerKeys.Cancel):
		m.Picker = nil
		return m, nil

	case key.Matches(msg, m.PickerKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}

	case key.Matches(msg, m.PickerKeys.Down):
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}

	case key.Matches(msg, m.PickerKeys.Select):
		m.Picker = nil
		choice := p.selected()
		if choice == "" || m.Busy != "" {
			return m, nil
		}
		client, zone := m.client, m.Zone
		var cmd tea.Cmd
		switch p.kind {
		case pickInput:
			cmd = m.runCommand("input", choice, func(ctx context.Context) error {
				return client.SetInput(ctx, zone, yxc.Input(choice))
			})
		case pickProgram:
			cmd = m.runCommand("program", choice, func(ctx context.Context) error {
				return client.SetSoundProgram(ctx, zone, yxc.SoundProgram(choice))
			})
		}
		m.Busy = choice
		return m, tea.Batch(cmd, m.Spinner.Tick)
	}

	m.Picker = &p
	return m, nil
}

// newPicker builds a picker from what the device reports, falling back to the
// full API lists when the capabilities are not known yet.
func (m ControlModel) newPicker(kind pickerKind) *picker {
	var zf *yxc.ZoneFeatures
	if m.Features != nil {
		zf = m.Features.Zone(m.Zone)
	}

	p := &picker{kind: kind}
	current := ""
	switch kind {
	case pickInput:
		p.title = "Select input"
		if zf != nil && len(zf.InputList) > 0 {
			p.options = zf.InputList
		} else {
			for _, in := range yxc.AllInputs {
				p.options = append(p.options, in.String())
			}
		}
		if m.Status != nil {
			current = m.Status.Input
		}
	case pickProgram:
		p.title = "Select sound program"
		switch {
		case len(m.Programs) > 0:
			p.options = m.Programs
		case zf != nil && len(zf.SoundProgramList) > 0:
			p.options = zf.SoundProgramList
		default:
			for _, sp := range yxc.AllSoundPrograms {
				p.options = append(p.options, sp.String())
			}
		}
		if m.Status != nil {
			current = m.Status.SoundProgram
		}
	}

	for i, opt := range p.options {
		if opt == current {
			p.cursor = i
			break
		}
	}
	return p
}

// nextZone returns the zone after the current one among those the device has
func (m ControlModel) nextZone() yxc.Zone {
	zones := []yxc.Zone{yxc.ZoneMain}
	if m.Features != nil && len(m.Features.Zones) > 0 {
		zones = zones[:0]
		for _, zf := range m.Features.Zones {
			zones = append(zones, yxc.Zone(zf.ID))
		}
	}
	for i, z := range zones {
		if z == m.Zone {
			return zones[(i+1)%len(zones)]
		}
	}
	return zones[0]
}

// Connected reports whether the last status request succeeded
func (m ControlModel) Connected() bool {
	return m.Status != nil && m.Err == nil
}

// StatusText returns the status bar line for the control screen
func (m ControlModel) StatusText() string {
	marker := ui.StandbyMarker
	state := "not connected"
	if m.Connected() {
		marker = ui.PowerOnMarker
		state = "connected"
	}
	return fmt.Sprintf("%s %s • %s • zone %s", marker, state, m.Device, m.Zone)
}

// HelpText returns the context-sensitive key help
func (m ControlModel) HelpText() string {
	if m.Picker != nil {
		return m.Help.View(m.PickerKeys)
	}
	return m.Help.View(m.Keys)
}

// View renders the control screen
func (m ControlModel) View() string {
	sections := []string{RenderTitle(m.Device.String())}

	switch {
	case m.Status != nil:
		sections = append(sections, m.renderStatusGrid())
	case m.Loading:
		sections = append(sections, m.Spinner.View()+" Loading zone status...")
	}

	if m.Busy != "" {
		sections = append(sections, m.Spinner.View()+" Sending "+m.Busy+"...")
	}
	if m.Err != nil {
		sections = append(sections, m.renderError())
	} else if m.Notice != "" {
		sections = append(sections, NoticeStyle.Render(m.Notice))
	}
	if m.Picker != nil {
		sections = append(sections, m.renderPicker())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ControlModel) renderStatusGrid() string {
	s := m.Status

	input := s.Input
	if s.InputText != "" && s.InputText != s.Input {
		input = fmt.Sprintf("%s (%s)", s.Input, s.InputText)
	}
	sleep := "off"
	if s.Sleep > 0 {
		sleep = strconv.Itoa(s.Sleep) + " min"
	}

	rows := []struct{ label, value string }{
		{"Zone", m.Zone.String()},
		{"Power", ui.PowerMarker(s.Power) + " " + s.Power},
		{"Volume", s.FormatVolume()},
		{"Mute", onOff(s.Mute)},
		{"Input", input},
		{"Sound program", s.SoundProgram},
		{"Sleep", sleep},
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, GridLabelStyle.Render(r.label)+GridValueStyle.Render(r.value))
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m ControlModel) renderError() string {
	return RenderError(yxc.ShortMessage(m.Err))
}

func (m ControlModel) renderPicker() string {
	var b strings.Builder
	b.WriteString(RenderTitle(m.Picker.title))
	b.WriteString("\n")
	start := max(0, m.Picker.cursor-pickerWindow/2)
	end := min(len(m.Picker.options), start+pickerWindow)
	for i := start; i < end; i++ {
		b.WriteString(RenderMenuItem(m.Picker.options[i], i == m.Picker.cursor))
		b.WriteString("\n")
	}
	return PanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
