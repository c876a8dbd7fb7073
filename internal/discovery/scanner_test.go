package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testConfig(mask int, maxConcurrent int) Config {
	return Config{
		Subnet:        netip.MustParseAddr("192.168.50.0"),
		Mask:          mask,
		Timeout:       100 * time.Millisecond,
		MaxConcurrent: maxConcurrent,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Subnet.String() != "192.168.1.0" {
		t.Errorf("Subnet = %v, want 192.168.1.0", cfg.Subnet)
	}
	if cfg.Mask != 24 {
		t.Errorf("Mask = %d, want 24", cfg.Mask)
	}
	if cfg.Timeout != 500*time.Millisecond {
		t.Errorf("Timeout = %v, want 500ms", cfg.Timeout)
	}
	if cfg.MaxConcurrent != 50 {
		t.Errorf("MaxConcurrent = %d, want 50", cfg.MaxConcurrent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if cfg.String() != "192.168.1.0/24" {
		t.Errorf("String() = %q, want %q", cfg.String(), "192.168.1.0/24")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"mask above 32", func(c *Config) { c.Mask = 33 }},
		{"zero concurrency", func(c *Config) { c.MaxConcurrent = 0 }},
		{"negative concurrency", func(c *Config) { c.MaxConcurrent = -4 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"IPv6 subnet", func(c *Config) { c.Subnet = netip.MustParseAddr("fd00::1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestScanner_InvalidConfigProbesNothing(t *testing.T) {
	var calls atomic.Int32
	probe := func(ctx context.Context, addr netip.Addr) Outcome {
		calls.Add(1)
		return Outcome{Addr: addr, Kind: NotFound}
	}

	scanner := NewScanner(testConfig(33, 10), WithProbeFunc(probe))
	devices, err := scanner.Scan(context.Background())

	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Scan() error = %v, want ErrInvalidConfig", err)
	}
	if devices != nil {
		t.Errorf("Scan() devices = %v, want nil", devices)
	}
	if calls.Load() != 0 {
		t.Errorf("probe called %d times, want 0", calls.Load())
	}
}

func TestScanner_ConcurrencyCap(t *testing.T) {
	const limit = 10

	var (
		inFlight atomic.Int32
		peak     atomic.Int32
		calls    atomic.Int32
	)
	probe := func(ctx context.Context, addr netip.Addr) Outcome {
		calls.Add(1)
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return Outcome{Addr: addr, Kind: TimedOut}
	}

	// /24 gives 254 candidates
	scanner := NewScanner(testConfig(24, limit), WithProbeFunc(probe))
	devices, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(devices) != 0 {
		t.Errorf("Scan() found %d devices, want 0", len(devices))
	}
	if calls.Load() != 254 {
		t.Errorf("probe called %d times, want 254", calls.Load())
	}
	if p := peak.Load(); p > limit {
		t.Errorf("peak in-flight probes = %d, want <= %d", p, limit)
	}
}

func TestScanner_FindsExactlyResponders(t *testing.T) {
	responders := map[string]string{
		"192.168.50.10":  "RX-V6A",
		"192.168.50.99":  "WX-030",
		"192.168.50.200": "R-N803D",
	}

	probe := func(ctx context.Context, addr netip.Addr) Outcome {
		// Vary completion order
		time.Sleep(time.Duration(255-int(addr.As4()[3])) * 20 * time.Microsecond)
		if model, ok := responders[addr.String()]; ok {
			return Outcome{Addr: addr, Kind: Found, Device: &Device{IP: addr, ModelName: model}}
		}
		return Outcome{Addr: addr, Kind: TransportError, Err: errors.New("connection refused")}
	}

	scanner := NewScanner(testConfig(24, 16), WithProbeFunc(probe))
	devices, summary, err := scanner.ScanStream(context.Background(), nil)
	if err != nil {
		t.Fatalf("ScanStream() error = %v", err)
	}

	if len(devices) != 3 {
		t.Fatalf("ScanStream() found %d devices, want 3", len(devices))
	}

	var got []string
	for _, d := range devices {
		if responders[d.IP.String()] != d.ModelName {
			t.Errorf("device %v has model %q, want %q", d.IP, d.ModelName, responders[d.IP.String()])
		}
		got = append(got, d.IP.String())
	}
	sort.Strings(got)
	want := []string{"192.168.50.10", "192.168.50.200", "192.168.50.99"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("devices = %v, want %v", got, want)
			break
		}
	}

	if summary.Candidates != 254 || summary.Probed != 254 {
		t.Errorf("summary candidates/probed = %d/%d, want 254/254", summary.Candidates, summary.Probed)
	}
	if summary.Found != 3 || summary.TransportErrors != 251 {
		t.Errorf("summary found/transport = %d/%d, want 3/251", summary.Found, summary.TransportErrors)
	}
}

func TestScanner_AllUnreachableCompletes(t *testing.T) {
	const timeout = 50 * time.Millisecond

	probe := func(ctx context.Context, addr netip.Addr) Outcome {
		time.Sleep(timeout)
		return Outcome{Addr: addr, Kind: TimedOut, Err: context.DeadlineExceeded}
	}

	cfg := testConfig(24, 254)
	cfg.Timeout = timeout
	scanner := NewScanner(cfg, WithProbeFunc(probe))

	start := time.Now()
	devices, err := scanner.Scan(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Scan() error = %v, want nil", err)
	}
	if len(devices) != 0 {
		t.Errorf("Scan() found %d devices, want 0", len(devices))
	}
	if elapsed > 20*timeout {
		t.Errorf("Scan() took %v, want roughly one probe timeout", elapsed)
	}
}

func TestScanner_Cancel(t *testing.T) {
	var calls atomic.Int32
	probe := func(ctx context.Context, addr netip.Addr) Outcome {
		calls.Add(1)
		select {
		case <-ctx.Done():
			return Outcome{Addr: addr, Kind: TransportError, Err: ctx.Err()}
		case <-time.After(time.Second):
			return Outcome{Addr: addr, Kind: TimedOut}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	scanner := NewScanner(testConfig(24, 5), WithProbeFunc(probe))

	start := time.Now()
	_, err := scanner.Scan(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() error = %v, want context.Canceled", err)
	}
	if n := calls.Load(); n >= 254 {
		t.Errorf("probe called %d times after cancel, want fewer than 254", n)
	}
	if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
		t.Errorf("Scan() took %v after cancel, want prompt return", elapsed)
	}
}

func TestScanner_ScanStreamReportsEveryProbe(t *testing.T) {
	probe := func(ctx context.Context, addr netip.Addr) Outcome {
		switch addr.As4()[3] % 3 {
		case 0:
			return Outcome{Addr: addr, Kind: NotFound}
		case 1:
			return Outcome{Addr: addr, Kind: TimedOut}
		default:
			return Outcome{Addr: addr, Kind: TransportError}
		}
	}

	scanner := NewScanner(testConfig(26, 8), WithProbeFunc(probe))

	seen := make(map[netip.Addr]bool)
	var reported int
	_, summary, err := scanner.ScanStream(context.Background(), func(out Outcome) {
		reported++
		seen[out.Addr] = true
	})
	if err != nil {
		t.Fatalf("ScanStream() error = %v", err)
	}

	if reported != 62 || len(seen) != 62 {
		t.Errorf("reported %d outcomes for %d addresses, want 62", reported, len(seen))
	}
	if total := summary.NotFound + summary.TimedOut + summary.TransportErrors; total != 62 {
		t.Errorf("summary counts add up to %d, want 62", total)
	}
}

func TestScanner_ScanAddresses(t *testing.T) {
	var (
		mu     sync.Mutex
		probed []netip.Addr
	)
	probe := func(ctx context.Context, addr netip.Addr) Outcome {
		mu.Lock()
		probed = append(probed, addr)
		mu.Unlock()
		return Outcome{Addr: addr, Kind: Found, Device: &Device{IP: addr, ModelName: "RX-V6A"}}
	}

	a := netip.MustParseAddr("10.0.0.5")
	b := netip.MustParseAddr("10.0.0.9")

	// Mask is irrelevant for an explicit list
	cfg := testConfig(40, 4)
	scanner := NewScanner(cfg, WithProbeFunc(probe))

	devices, summary, err := scanner.ScanAddresses(context.Background(), []netip.Addr{a, b, a}, nil)
	if err != nil {
		t.Fatalf("ScanAddresses() error = %v", err)
	}
	if len(devices) != 2 || len(probed) != 2 {
		t.Errorf("ScanAddresses() found %d devices with %d probes, want 2 and 2", len(devices), len(probed))
	}
	if summary.Candidates != 2 {
		t.Errorf("summary.Candidates = %d, want 2", summary.Candidates)
	}
}

func TestScanner_ConnectAndScanAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DeviceInfoPath {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"model_name":"RX-V6A","device_id":"ABC123","api_version":"2.0"}`))
	}))
	defer srv.Close()

	addrPort := netip.MustParseAddrPort(srv.Listener.Addr().String())
	cfg := Config{
		Subnet:        addrPort.Addr(),
		Mask:          32,
		Timeout:       time.Second,
		MaxConcurrent: 1,
	}
	scanner := NewScanner(cfg, WithHTTPClient(srv.Client()), WithPort(int(addrPort.Port())))

	out := scanner.Connect(context.Background(), addrPort.Addr())
	if out.Kind != Found {
		t.Fatalf("Connect() kind = %v (err %v), want found", out.Kind, out.Err)
	}
	if out.Device.Port != int(addrPort.Port()) {
		t.Errorf("Connect() device port = %d, want %d", out.Device.Port, addrPort.Port())
	}

	devices, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(devices) != 1 || devices[0].ModelName != "RX-V6A" {
		t.Errorf("Scan() = %v, want one RX-V6A", devices)
	}
}

func TestDiscoverAndConnectDirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response_code":0,"model_name":"R-N803","device_id":"XYZ","api_version":2.13}`))
	}))
	defer srv.Close()

	addrPort := netip.MustParseAddrPort(srv.Listener.Addr().String())
	port := WithPort(int(addrPort.Port()))

	d := ConnectDirect(context.Background(), addrPort.Addr(), time.Second, port)
	if d == nil {
		t.Fatal("ConnectDirect() = nil, want device")
	}
	if d.ModelName != "R-N803" || d.APIVersion != "2.13" {
		t.Errorf("ConnectDirect() = %+v, want R-N803 api 2.13", d)
	}

	devices, err := Discover(context.Background(), Config{
		Subnet:        addrPort.Addr(),
		Mask:          32,
		Timeout:       time.Second,
		MaxConcurrent: 4,
	}, port)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(devices) != 1 {
		t.Errorf("Discover() found %d devices, want 1", len(devices))
	}

	if _, err := Discover(context.Background(), Config{Mask: 40}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Discover() with mask 40 error = %v, want ErrInvalidConfig", err)
	}
}

func TestConnectDirect_NothingAnswers(t *testing.T) {
	ln := httptest.NewServer(http.NotFoundHandler())
	addrPort := netip.MustParseAddrPort(ln.Listener.Addr().String())
	ln.Close()

	if d := ConnectDirect(context.Background(), addrPort.Addr(), 200*time.Millisecond, WithPort(int(addrPort.Port()))); d != nil {
		t.Errorf("ConnectDirect() = %v, want nil", d)
	}
}
