package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"os"
	"time"
)

const (
	// DeviceInfoPath is the Extended Control endpoint every Yamaha device answers
	DeviceInfoPath = "/YamahaExtendedControl/v1/system/getDeviceInfo"

	// DefaultPort is the HTTP port Yamaha devices serve the API on
	DefaultPort = 80

	// maxDeviceInfoSize caps how much of a probe response is read
	maxDeviceInfoSize = 64 << 10
)

// OutcomeKind classifies the result of a single probe
type OutcomeKind int

const (
	// Found means the address answered with a usable device identity
	Found OutcomeKind = iota
	// NotFound means something answered but it is not a usable device
	// (non-2xx status, body not JSON, no model name)
	NotFound
	// TimedOut means the probe timeout elapsed before the response was read
	TimedOut
	// TransportError means the connection failed (refused, unreachable, reset)
	TransportError
)

// String returns a human-readable name for the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case TimedOut:
		return "timed out"
	case TransportError:
		return "transport error"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", k)
	}
}

// Outcome is the result of probing one candidate address.
// Device is set only when Kind is Found; Err carries the cause otherwise.
type Outcome struct {
	Addr   netip.Addr
	Kind   OutcomeKind
	Device *Device
	Err    error
}

// ProbeFunc probes a single address. Implementations must bound their own
// duration and must be safe for concurrent use.
type ProbeFunc func(ctx context.Context, addr netip.Addr) Outcome

// Prober issues getDeviceInfo requests. A Prober is safe for concurrent use;
// its fields must not change once probing has started.
type Prober struct {
	// Client is the shared HTTP client used by all probes
	Client *http.Client

	// Timeout bounds one whole probe: connect, headers and body
	Timeout time.Duration

	// Port is the HTTP port to probe (0 means DefaultPort)
	Port int
}

// NewProber creates a prober with the given client and per-probe timeout.
// A nil client means http.DefaultClient.
func NewProber(client *http.Client, timeout time.Duration) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	return &Prober{
		Client:  client,
		Timeout: timeout,
		Port:    DefaultPort,
	}
}

// URL returns the probe URL for addr
func (p *Prober) URL(addr netip.Addr) string {
	port := p.Port
	if port == 0 {
		port = DefaultPort
	}
	if port == DefaultPort {
		return "http://" + addr.String() + DeviceInfoPath
	}
	return "http://" + netip.AddrPortFrom(addr, uint16(port)).String() + DeviceInfoPath
}

// Probe performs one getDeviceInfo request against addr. It never retries and
// never returns an error: every failure is reported through the Outcome kind.
func (p *Prober) Probe(ctx context.Context, addr netip.Addr) Outcome {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL(addr), nil)
	if err != nil {
		return Outcome{Addr: addr, Kind: TransportError, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return failedOutcome(ctx, addr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Outcome{Addr: addr, Kind: NotFound, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDeviceInfoSize))
	if err != nil {
		return failedOutcome(ctx, addr, err)
	}

	device, err := ParseDeviceInfo(body)
	if err != nil {
		return Outcome{Addr: addr, Kind: NotFound, Err: err}
	}
	device.IP = addr
	device.Port = p.Port
	if device.Port == 0 {
		device.Port = DefaultPort
	}
	device.DiscoveredAt = time.Now()

	return Outcome{Addr: addr, Kind: Found, Device: device}
}

// failedOutcome maps a request or body-read error to TimedOut or TransportError
func failedOutcome(ctx context.Context, addr netip.Addr, err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) || os.IsTimeout(err) {
		return Outcome{Addr: addr, Kind: TimedOut, Err: err}
	}
	return Outcome{Addr: addr, Kind: TransportError, Err: err}
}

// ParseDeviceInfo extracts the identity fields from a getDeviceInfo body.
// Only model_name is required; device_id and api_version default to "".
// The IP and timestamp of the returned Device are left for the caller.
func ParseDeviceInfo(body []byte) (*Device, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	raw, ok := fields["model_name"]
	if !ok {
		return nil, errors.New("response has no model_name")
	}
	model, ok := jsonText(raw)
	if !ok {
		return nil, errors.New("model_name is not a string")
	}

	device := &Device{ModelName: model}
	if v, ok := jsonText(fields["device_id"]); ok {
		device.DeviceID = v
	}
	if v, ok := jsonText(fields["api_version"]); ok {
		device.APIVersion = v
	}
	return device, nil
}

// jsonText renders a JSON string or number as text. Anything else (missing,
// null, objects, arrays, booleans) reports false.
func jsonText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}

	return "", false
}
