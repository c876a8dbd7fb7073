package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/logging"
	"github.com/yamactl/yamactl/internal/yxc"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenControl   Screen = "control"
)

// Options configures the terminal UI
type Options struct {
	// Scanner runs discovery; required
	Scanner *discovery.Scanner

	// Browse, when set, replaces the subnet sweep with mDNS candidates
	Browse BrowseFunc

	// Device, when set, opens the control screen directly
	Device *discovery.Device

	// Zone is the zone controlled first (defaults to main)
	Zone yxc.Zone

	// VolumeStep is the step used by volume up/down (defaults to 1)
	VolumeStep int

	// Dial creates the command client for a device (defaults to yxc.NewClient)
	Dial func(device *discovery.Device) Controller
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	// Screen models
	DiscoveryModel DiscoveryModel
	ControlModel   ControlModel

	// Shared application state
	SelectedDevice *discovery.Device

	// UI state
	Width  int
	Height int

	opts Options
}

// NewAppModel creates the application model. It starts on the control screen
// when opts.Device is set, on discovery otherwise.
func NewAppModel(opts Options) AppModel {
	if opts.Dial == nil {
		opts.Dial = dialClient
	}

	m := AppModel{
		CurrentScreen:  ScreenDiscovery,
		DiscoveryModel: NewDiscoveryModel(opts.Scanner, opts.Browse),
		opts:           opts,
	}
	if opts.Device != nil {
		m.CurrentScreen = ScreenControl
		m.SelectedDevice = opts.Device
		m.ControlModel = NewControlModel(opts.Device, opts.Dial(opts.Device), opts.Zone, opts.VolumeStep)
	}
	return m
}

func dialClient(device *discovery.Device) Controller {
	client := yxc.NewClient(device.IP.String(), device.Port)
	client.SetLogger(logging.Named("yxc"))
	return client
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenControl:
		return m.ControlModel.Init()
	default:
		return m.DiscoveryModel.Init()
	}
}

// Update handles all messages and routes them to the appropriate screen.
// Scan progress always goes to the discovery model so a scan keeps running
// while a device is being controlled.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		d, _ := m.DiscoveryModel.Update(msg)
		m.DiscoveryModel = d.(DiscoveryModel)
		c, _ := m.ControlModel.Update(msg)
		m.ControlModel = c.(ControlModel)
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			m.DiscoveryModel.Stop()
			return m, tea.Quit
		}

	case deviceSelectedMsg:
		return m.transitionTo(ScreenControl, msg.device)

	case backToDiscoveryMsg:
		return m.transitionTo(ScreenDiscovery, nil)

	case scanRequestMsg, scanStartMsg, scanOutcomeMsg, scanCompleteMsg, connectResultMsg:
		return m.updateDiscovery(msg)

	case statusMsg, featuresMsg, commandResultMsg:
		return m.updateControl(msg)

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's ID
		var dcmd, ccmd tea.Cmd
		m, dcmd = m.updateDiscovery(msg)
		m, ccmd = m.updateControl(msg)
		return m, tea.Batch(dcmd, ccmd)
	}

	// Route to current screen
	if m.CurrentScreen == ScreenControl {
		return m.updateControl(msg)
	}
	return m.updateDiscovery(msg)
}

func (m AppModel) updateDiscovery(msg tea.Msg) (AppModel, tea.Cmd) {
	updated, cmd := m.DiscoveryModel.Update(msg)
	m.DiscoveryModel = updated.(DiscoveryModel)
	return m, cmd
}

func (m AppModel) updateControl(msg tea.Msg) (AppModel, tea.Cmd) {
	if m.SelectedDevice == nil {
		return m, nil
	}
	updated, cmd := m.ControlModel.Update(msg)
	m.ControlModel = updated.(ControlModel)
	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen, device *discovery.Device) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen

	switch screen {
	case ScreenControl:
		if device == nil {
			m.CurrentScreen = ScreenDiscovery
			return m, nil
		}
		logging.LogDeviceSelected(device.IP, device.ModelName, "tui")
		m.SelectedDevice = device
		m.ControlModel = NewControlModel(device, m.opts.Dial(device), m.opts.Zone, m.opts.VolumeStep)
		m.ControlModel.Width = m.Width
		m.ControlModel.Height = m.Height
		return m, m.ControlModel.Init()

	case ScreenDiscovery:
		// Start a scan the first time discovery is shown after a direct connect
		if m.DiscoveryModel.ScanStartTime.IsZero() && !m.DiscoveryModel.Scanning {
			return m, m.DiscoveryModel.Init()
		}
	}

	return m, nil
}

// View renders the current screen inside the application frame
func (m AppModel) View() string {
	var content, status, help string

	switch m.CurrentScreen {
	case ScreenControl:
		content = m.ControlModel.View()
		status = m.ControlModel.StatusText()
		if m.DiscoveryModel.Scanning {
			status += " • " + m.DiscoveryModel.StatusText()
		}
		help = m.ControlModel.HelpText()
	default:
		content = m.DiscoveryModel.View()
		status = m.DiscoveryModel.StatusText()
		help = m.DiscoveryModel.HelpText()
	}

	return RenderApplicationContainer(content, status, help, m.Width, m.Height)
}

// Run starts the terminal UI and blocks until the user quits
func Run(opts Options) error {
	if opts.Scanner == nil {
		return errors.New("tui: a scanner is required")
	}

	model := NewAppModel(opts)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if app, ok := final.(AppModel); ok {
		app.DiscoveryModel.Stop()
	}
	return err
}
