package yxc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yamactl/yamactl/internal/version"
)

const (
	// APIBasePath is the path prefix of every Extended Control endpoint
	APIBasePath = "/YamahaExtendedControl/v1"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Second

	// DefaultPort is the HTTP port receivers serve the API on
	DefaultPort = 80

	// maxResponseSize caps how much of a reply is read
	maxResponseSize = 1 << 20
)

// Client talks to one receiver. Requests carry no state between calls, so a
// Client is safe for concurrent use once configured.
type Client struct {
	// BaseURL is the device root (e.g., "http://192.168.1.20")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	logger *zap.Logger
}

// NewClient creates a client for the receiver at host
// host: Device IP address or hostname (e.g., "192.168.1.20")
// port: Device HTTP port (typically 80)
func NewClient(host string, port int) *Client {
	if port == 0 || port == DefaultPort {
		return NewClientWithURL("http://" + host)
	}
	return NewClientWithURL("http://" + host + ":" + strconv.Itoa(port))
}

// NewClientWithURL creates a client with a full base URL
// baseURL: Device root (e.g., "http://192.168.1.20:8080")
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetLogger sets the logger used for request diagnostics
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Host returns the host part of BaseURL, for messages
func (c *Client) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL
	}
	return u.Host
}

// Endpoint returns the full URL of an API path such as "main/getStatus"
func (c *Client) Endpoint(path string) string {
	return c.BaseURL + APIBasePath + "/" + strings.TrimPrefix(path, "/")
}

// BuildURL returns the endpoint URL with params encoded as the query string
func (c *Client) BuildURL(path string, params url.Values) string {
	u := c.Endpoint(path)
	if len(params) == 0 {
		return u
	}
	return u + "?" + params.Encode()
}

// Get calls an API path and decodes the reply into out (which may be nil).
// A non-zero response_code is returned as a vendor *DeviceError and out is
// left untouched.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	target := c.BuildURL(path, params)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return NewNetworkError("failed to create request", err, c.Host())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	c.logger.Debug("YXC request", zap.String("url", target))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError("request failed", err, c.Host())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return NewHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return NewNetworkError("failed to read response body", err, c.Host())
	}

	code, err := ParseResponseCode(body)
	if err != nil {
		return err
	}

	c.logger.Debug("YXC response",
		zap.String("url", target),
		zap.Int("response_code", int(code)),
	)

	if err := code.Err(); err != nil {
		if devErr, ok := asDeviceError(err); ok {
			devErr.DeviceIP = c.Host()
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}
	return nil
}

// System information

// DeviceInfo returns model and firmware information
func (c *Client) DeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	var info DeviceInfo
	if err := c.Get(ctx, "system/getDeviceInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Features returns the device capabilities
func (c *Client) Features(ctx context.Context) (*Features, error) {
	var features Features
	if err := c.Get(ctx, "system/getFeatures", nil, &features); err != nil {
		return nil, err
	}
	return &features, nil
}

// NetworkStatus returns the network configuration of the device
func (c *Client) NetworkStatus(ctx context.Context) (*NetworkStatus, error) {
	var status NetworkStatus
	if err := c.Get(ctx, "system/getNetworkStatus", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// FuncStatus returns system-wide function settings
func (c *Client) FuncStatus(ctx context.Context) (*FuncStatus, error) {
	var status FuncStatus
	if err := c.Get(ctx, "system/getFuncStatus", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// NameText returns the display names of zones, inputs and sound programs
func (c *Client) NameText(ctx context.Context) (*NameText, error) {
	var names NameText
	if err := c.Get(ctx, "system/getNameText", nil, &names); err != nil {
		return nil, err
	}
	return &names, nil
}

// BluetoothInfo returns the Bluetooth settings and connected device
func (c *Client) BluetoothInfo(ctx context.Context) (*BluetoothInfo, error) {
	var info BluetoothInfo
	if err := c.Get(ctx, "system/getBluetoothInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Zone status

// Status returns the state of a zone
func (c *Client) Status(ctx context.Context, zone Zone) (*Status, error) {
	var status Status
	if err := c.Get(ctx, zonePath(zone, "getStatus"), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SoundProgramList returns the sound programs a zone offers
func (c *Client) SoundProgramList(ctx context.Context, zone Zone) ([]string, error) {
	var list SoundProgramList
	if err := c.Get(ctx, zonePath(zone, "getSoundProgramList"), nil, &list); err != nil {
		return nil, err
	}
	return list.SoundProgramList, nil
}

// SignalInfo returns information about the incoming audio signal
func (c *Client) SignalInfo(ctx context.Context, zone Zone) (*SignalInfo, error) {
	var info SignalInfo
	if err := c.Get(ctx, zonePath(zone, "getSignalInfo"), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Zone control

// SetPower switches a zone on, to standby, or toggles it
func (c *Client) SetPower(ctx context.Context, zone Zone, power PowerState) error {
	return c.set(ctx, zone, "setPower", "power", string(power))
}

// SetVolume sets the absolute volume step (0 to the zone's max_volume)
func (c *Client) SetVolume(ctx context.Context, zone Zone, volume int) error {
	if volume < 0 {
		return NewInvalidArgumentError(fmt.Sprintf("volume must not be negative, got %d", volume))
	}
	return c.set(ctx, zone, "setVolume", "volume", strconv.Itoa(volume))
}

// VolumeStep moves the volume up or down by step units
func (c *Client) VolumeStep(ctx context.Context, zone Zone, up bool, step int) error {
	if step < 1 {
		return NewInvalidArgumentError(fmt.Sprintf("volume step must be at least 1, got %d", step))
	}
	direction := "down"
	if up {
		direction = "up"
	}
	params := url.Values{}
	params.Set("volume", direction)
	params.Set("step", strconv.Itoa(step))
	return c.Get(ctx, zonePath(zone, "setVolume"), params, nil)
}

// SetMute mutes or unmutes a zone
func (c *Client) SetMute(ctx context.Context, zone Zone, mute bool) error {
	return c.set(ctx, zone, "setMute", "enable", boolString(mute))
}

// SetInput selects the input source of a zone
func (c *Client) SetInput(ctx context.Context, zone Zone, input Input) error {
	return c.set(ctx, zone, "setInput", "input", string(input))
}

// SetSoundProgram selects the DSP program of a zone
func (c *Client) SetSoundProgram(ctx context.Context, zone Zone, program SoundProgram) error {
	return c.set(ctx, zone, "setSoundProgram", "program", string(program))
}

// SetDirect enables or disables Direct mode
func (c *Client) SetDirect(ctx context.Context, zone Zone, enable bool) error {
	return c.set(ctx, zone, "setDirect", "enable", boolString(enable))
}

// SetPureDirect enables or disables Pure Direct mode
func (c *Client) SetPureDirect(ctx context.Context, zone Zone, enable bool) error {
	return c.set(ctx, zone, "setPureDirect", "enable", boolString(enable))
}

// SetEnhancer enables or disables the Compressed Music Enhancer
func (c *Client) SetEnhancer(ctx context.Context, zone Zone, enable bool) error {
	return c.set(ctx, zone, "setEnhancer", "enable", boolString(enable))
}

// SetDialogueLevel sets the dialogue level
func (c *Client) SetDialogueLevel(ctx context.Context, zone Zone, level int) error {
	if level < 0 {
		return NewInvalidArgumentError(fmt.Sprintf("dialogue level must not be negative, got %d", level))
	}
	return c.set(ctx, zone, "setDialogueLevel", "value", strconv.Itoa(level))
}

// SetSubwooferVolume sets the subwoofer trim (may be negative)
func (c *Client) SetSubwooferVolume(ctx context.Context, zone Zone, volume int) error {
	return c.set(ctx, zone, "setSubwooferVolume", "volume", strconv.Itoa(volume))
}

// SetBassExtension enables or disables bass extension
func (c *Client) SetBassExtension(ctx context.Context, zone Zone, enable bool) error {
	return c.set(ctx, zone, "setBassExtension", "enable", boolString(enable))
}

// SetExtraBass enables or disables extra bass
func (c *Client) SetExtraBass(ctx context.Context, zone Zone, enable bool) error {
	return c.set(ctx, zone, "setExtraBass", "enable", boolString(enable))
}

// SetAdaptiveDRC enables or disables adaptive dynamic range control
func (c *Client) SetAdaptiveDRC(ctx context.Context, zone Zone, enable bool) error {
	return c.set(ctx, zone, "setAdaptiveDrc", "enable", boolString(enable))
}

// SleepValues are the sleep timer settings the API accepts, in minutes
var SleepValues = []int{0, 30, 60, 90, 120}

// SetSleep sets the sleep timer in minutes (0 cancels it)
func (c *Client) SetSleep(ctx context.Context, zone Zone, minutes int) error {
	valid := false
	for _, v := range SleepValues {
		if v == minutes {
			valid = true
			break
		}
	}
	if !valid {
		return NewInvalidArgumentError(fmt.Sprintf("sleep must be one of 0, 30, 60, 90, 120 minutes, got %d", minutes))
	}
	return c.set(ctx, zone, "setSleep", "sleep", strconv.Itoa(minutes))
}

// set issues a single-parameter zone command
func (c *Client) set(ctx context.Context, zone Zone, command, key, value string) error {
	params := url.Values{}
	params.Set(key, value)
	return c.Get(ctx, zonePath(zone, command), params, nil)
}

func zonePath(zone Zone, command string) string {
	if zone == "" {
		zone = ZoneMain
	}
	return string(zone) + "/" + command
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
