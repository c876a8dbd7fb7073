package discovery

import (
	"fmt"
	"net/netip"
	"time"
)

// Device represents a Yamaha receiver that answered the discovery probe
type Device struct {
	// IP is the IPv4 address the device answered on (e.g., "192.168.1.20")
	IP netip.Addr

	// Port is the HTTP port the device answered on (80 unless overridden)
	Port int

	// ModelName is the reported model (e.g., "RX-V6A")
	ModelName string

	// DeviceID is the vendor device identifier, usually the MAC address in hex
	DeviceID string

	// APIVersion is the reported Extended Control API version (e.g., "2.11").
	// Devices report it either as a JSON string or a number; both end up here as text.
	APIVersion string

	// DiscoveredAt is when the probe that produced this record completed
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	model := d.ModelName
	if model == "" {
		model = "Yamaha device"
	}
	return fmt.Sprintf("%s -> (%s)", model, d.IP)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	if d.Port == 0 || d.Port == DefaultPort {
		return "http://" + d.IP.String()
	}
	return "http://" + netip.AddrPortFrom(d.IP, uint16(d.Port)).String()
}
