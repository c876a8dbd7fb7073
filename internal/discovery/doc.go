// Package discovery finds Yamaha Extended Control devices on the local network.
//
// Discovery sweeps every host address of an IPv4 subnet with a single HTTP
// probe against /YamahaExtendedControl/v1/system/getDeviceInfo and keeps the
// addresses that answer with a device identity.
//
// # Sweeping a Subnet
//
//	cfg := discovery.DefaultConfig() // 192.168.1.0/24, 500ms, 50 in flight
//	cfg.Subnet = netip.MustParseAddr("10.0.0.0")
//
//	scanner := discovery.NewScanner(cfg, discovery.WithLogger(logging.GetLogger()))
//	devices, err := scanner.Scan(ctx)
//	if err != nil {
//	    // Only ErrInvalidConfig or a cancelled ctx end up here
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// At most MaxConcurrent probes are in flight at any time. A new probe starts
// as soon as one finishes. Results are in completion order, not address order.
//
// # Probe Outcomes
//
// Each probe produces an Outcome whose Kind is Found, NotFound, TimedOut or
// TransportError. Only Found outcomes become devices; the rest are available
// through ScanStream and debug logging. A probe's timeout covers the whole
// request including the body.
//
// # Candidate Sources
//
// Besides subnet sweeps, ScanAddresses probes an explicit list, such as the
// hosts returned by MDNSBrowser, and Connect probes one address.
package discovery
