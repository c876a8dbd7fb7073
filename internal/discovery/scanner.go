package discovery

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/netip"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMask is the default subnet mask width
	DefaultMask = 24

	// DefaultProbeTimeout bounds each probe by default
	DefaultProbeTimeout = 500 * time.Millisecond

	// DefaultMaxConcurrent is the default number of probes in flight
	DefaultMaxConcurrent = 50
)

// DefaultSubnet is the network swept when none is configured (192.168.1.0)
var DefaultSubnet = netip.AddrFrom4([4]byte{192, 168, 1, 0})

// Config describes one discovery run. A Scanner copies it on construction,
// so changing a Config afterwards does not affect a run.
type Config struct {
	// Subnet is any address inside the network to sweep
	Subnet netip.Addr

	// Mask is the prefix length (0-32)
	Mask int

	// Timeout bounds each individual probe, not the whole run
	Timeout time.Duration

	// MaxConcurrent is the maximum number of probes in flight
	MaxConcurrent int
}

// DefaultConfig returns 192.168.1.0/24 with a 500ms probe timeout and 50
// concurrent probes.
func DefaultConfig() Config {
	return Config{
		Subnet:        DefaultSubnet,
		Mask:          DefaultMask,
		Timeout:       DefaultProbeTimeout,
		MaxConcurrent: DefaultMaxConcurrent,
	}
}

// Validate reports ErrInvalidConfig for unusable configurations
func (c Config) Validate() error {
	if err := c.validateRun(); err != nil {
		return err
	}
	_, err := NewRange(c.Subnet, c.Mask)
	return err
}

// validateRun checks the fields that apply to every kind of run, including
// sweeps over an explicit address list.
func (c Config) validateRun() error {
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("%w: max concurrent probes must be at least 1, got %d", ErrInvalidConfig, c.MaxConcurrent)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: probe timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	return nil
}

// String returns the config in CIDR-like form (e.g., "192.168.1.0/24")
func (c Config) String() string {
	return fmt.Sprintf("%s/%d", c.Subnet, c.Mask)
}

// Summary counts probe outcomes of a run
type Summary struct {
	Candidates      int
	Probed          int
	Found           int
	NotFound        int
	TimedOut        int
	TransportErrors int
	Elapsed         time.Duration
}

func (s *Summary) record(kind OutcomeKind) {
	s.Probed++
	switch kind {
	case Found:
		s.Found++
	case NotFound:
		s.NotFound++
	case TimedOut:
		s.TimedOut++
	case TransportError:
		s.TransportErrors++
	}
}

// Scanner sweeps a subnet for Yamaha devices with a bounded number of probes
// in flight. A Scanner holds no per-run state and may run several scans at once.
type Scanner struct {
	cfg    Config
	client *http.Client
	port   int
	probe  ProbeFunc
	logger *zap.Logger
}

// Option is a functional option for configuring a Scanner
type Option func(*Scanner)

// WithHTTPClient sets the shared client used by the default prober
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scanner) {
		s.client = client
	}
}

// WithPort probes a port other than 80
func WithPort(port int) Option {
	return func(s *Scanner) {
		s.port = port
	}
}

// WithProbeFunc replaces the HTTP prober entirely
func WithProbeFunc(fn ProbeFunc) Option {
	return func(s *Scanner) {
		s.probe = fn
	}
}

// WithLogger sets the logger used for per-probe diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a scanner for cfg. The config is validated when a scan
// starts, not here.
func NewScanner(cfg Config, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:    cfg,
		port:   DefaultPort,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.probe == nil {
		prober := NewProber(s.client, cfg.Timeout)
		prober.Port = s.port
		s.probe = prober.Probe
	}

	return s
}

// Config returns the configuration the scanner was created with
func (s *Scanner) Config() Config {
	return s.cfg
}

// Scan probes every host address of the configured subnet and returns the
// devices that answered, in completion order. Finding nothing is not an error.
// If ctx is cancelled the devices found so far are returned with ctx.Err().
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	devices, _, err := s.ScanStream(ctx, nil)
	return devices, err
}

// ScanStream is Scan with per-probe reporting. onResult, if non-nil, is called
// once per completed probe. Calls are serialized, so onResult need not be
// safe for concurrent use, but it should return quickly.
func (s *Scanner) ScanStream(ctx context.Context, onResult func(Outcome)) ([]*Device, Summary, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, Summary{}, err
	}

	r, err := NewRange(s.cfg.Subnet, s.cfg.Mask)
	if err != nil {
		return nil, Summary{}, err
	}

	s.logger.Info("Starting discovery",
		zap.String("network", s.cfg.String()),
		zap.Int("candidates", r.Len()),
		zap.Duration("probe_timeout", s.cfg.Timeout),
		zap.Int("max_concurrent", s.cfg.MaxConcurrent),
	)

	return s.run(ctx, r.All(), r.Len(), onResult)
}

// ScanAddresses probes an explicit list of addresses with the same window and
// prober as Scan. Duplicate addresses are probed once.
func (s *Scanner) ScanAddresses(ctx context.Context, addrs []netip.Addr, onResult func(Outcome)) ([]*Device, Summary, error) {
	if err := s.cfg.validateRun(); err != nil {
		return nil, Summary{}, err
	}

	unique := make([]netip.Addr, 0, len(addrs))
	for _, addr := range addrs {
		if !slices.Contains(unique, addr) {
			unique = append(unique, addr)
		}
	}

	s.logger.Info("Probing candidate addresses", zap.Int("candidates", len(unique)))

	return s.run(ctx, slices.Values(unique), len(unique), onResult)
}

// Connect probes a single address. The outcome carries the device when the
// address answered as one.
func (s *Scanner) Connect(ctx context.Context, addr netip.Addr) Outcome {
	out := s.probe(ctx, addr)
	s.logOutcome(out)
	return out
}

// run drives probe over candidates as a sliding window of MaxConcurrent
// goroutines. A new probe starts as soon as any in-flight probe finishes.
func (s *Scanner) run(ctx context.Context, candidates iter.Seq[netip.Addr], total int, onResult func(Outcome)) ([]*Device, Summary, error) {
	start := time.Now()

	var (
		mu      sync.Mutex
		devices []*Device
		summary = Summary{Candidates: total}
	)

	// Per-probe failures are outcomes, never group errors.
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrent)

	for addr := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			out := s.probe(ctx, addr)
			s.logOutcome(out)

			mu.Lock()
			defer mu.Unlock()
			summary.record(out.Kind)
			if out.Kind == Found && out.Device != nil {
				devices = append(devices, out.Device)
			}
			if onResult != nil {
				onResult(out)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Elapsed = time.Since(start)

	s.logger.Info("Discovery finished",
		zap.Int("found", summary.Found),
		zap.Int("probed", summary.Probed),
		zap.Int("timed_out", summary.TimedOut),
		zap.Int("transport_errors", summary.TransportErrors),
		zap.Duration("elapsed", summary.Elapsed),
	)

	if err := ctx.Err(); err != nil {
		return devices, summary, err
	}
	return devices, summary, nil
}

func (s *Scanner) logOutcome(out Outcome) {
	if out.Kind == Found && out.Device != nil {
		s.logger.Debug("Device found",
			zap.Stringer("addr", out.Addr),
			zap.String("model", out.Device.ModelName),
			zap.String("device_id", out.Device.DeviceID),
			zap.String("api_version", out.Device.APIVersion),
		)
		return
	}
	s.logger.Debug("Probe failed",
		zap.Stringer("addr", out.Addr),
		zap.Stringer("outcome", out.Kind),
		zap.Error(out.Err),
	)
}

// Discover runs a scan with cfg, using the default HTTP prober unless opts
// replace it.
func Discover(ctx context.Context, cfg Config, opts ...Option) ([]*Device, error) {
	return NewScanner(cfg, opts...).Scan(ctx)
}

// ConnectDirect probes a single address with the given timeout and returns
// the device, or nil when nothing usable answered.
func ConnectDirect(ctx context.Context, addr netip.Addr, timeout time.Duration, opts ...Option) *Device {
	cfg := DefaultConfig()
	cfg.Timeout = timeout
	out := NewScanner(cfg, opts...).Connect(ctx, addr)
	if out.Kind != Found {
		return nil
	}
	return out.Device
}
