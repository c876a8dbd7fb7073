package discovery

import (
	"net/netip"
	"testing"
)

func TestDevice_String(t *testing.T) {
	tests := []struct {
		name   string
		device *Device
		want   string
	}{
		{
			name:   "with model",
			device: &Device{IP: netip.MustParseAddr("192.168.1.20"), ModelName: "RX-V6A"},
			want:   "RX-V6A -> (192.168.1.20)",
		},
		{
			name:   "without model",
			device: &Device{IP: netip.MustParseAddr("192.168.1.21")},
			want:   "Yamaha device -> (192.168.1.21)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.String(); got != tt.want {
				t.Errorf("Device.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDevice_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		device   *Device
		expected string
	}{
		{
			name:     "standard HTTP port",
			device:   &Device{IP: netip.MustParseAddr("192.168.1.20"), Port: 80},
			expected: "http://192.168.1.20",
		},
		{
			name:     "port unset",
			device:   &Device{IP: netip.MustParseAddr("192.168.1.20")},
			expected: "http://192.168.1.20",
		},
		{
			name:     "custom port",
			device:   &Device{IP: netip.MustParseAddr("10.0.0.5"), Port: 8080},
			expected: "http://10.0.0.5:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.device.BaseURL(); got != tt.expected {
				t.Errorf("Device.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}
