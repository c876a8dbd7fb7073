package discovery

import (
	"context"
	"fmt"
	"net/netip"
	"slices"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type Yamaha devices advertise
	// (alongside AirPlay and Spotify Connect, which are not needed here)
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultBrowseTimeout is how long BrowseCandidates listens by default
	DefaultBrowseTimeout = 3 * time.Second
)

// MDNSBrowser collects addresses of hosts that advertise an HTTP service over
// mDNS. It only produces candidates: whether a host is a Yamaha device is
// still decided by the getDeviceInfo probe.
type MDNSBrowser struct {
	// Timeout is how long to listen for announcements
	Timeout time.Duration
}

// NewMDNSBrowser creates a browser with default settings
func NewMDNSBrowser() *MDNSBrowser {
	return &MDNSBrowser{
		Timeout: DefaultBrowseTimeout,
	}
}

// Browse listens for _http._tcp announcements until the timeout elapses or ctx
// is done, and returns the IPv4 addresses seen, deduplicated, in arrival order.
func (b *MDNSBrowser) Browse(ctx context.Context) ([]netip.Addr, error) {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)

	var (
		mu    sync.Mutex
		addrs []netip.Addr
		done  = make(chan struct{})
	)
	go func() {
		defer close(done)
		for entry := range entries {
			for _, addr := range entryAddrs(entry) {
				mu.Lock()
				addrs = appendUnique(addrs, addr)
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	// zeroconf closes entries once the browse context is done
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	return slices.Clone(addrs), nil
}

// entryAddrs returns the IPv4 addresses of a service entry.
// IPv6-only entries yield nothing because the probe sweep is IPv4 only.
func entryAddrs(entry *zeroconf.ServiceEntry) []netip.Addr {
	if entry == nil {
		return nil
	}

	var addrs []netip.Addr
	for _, ip := range entry.AddrIPv4 {
		addr, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}
		addr = addr.Unmap()
		if addr.Is4() {
			addrs = appendUnique(addrs, addr)
		}
	}
	return addrs
}

func appendUnique(addrs []netip.Addr, addr netip.Addr) []netip.Addr {
	for _, a := range addrs {
		if a == addr {
			return addrs
		}
	}
	return append(addrs, addr)
}

// BrowseCandidates is a convenience function to browse with a custom timeout
func BrowseCandidates(ctx context.Context, timeout time.Duration) ([]netip.Addr, error) {
	browser := NewMDNSBrowser()
	browser.Timeout = timeout
	return browser.Browse(ctx)
}
