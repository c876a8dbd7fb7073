package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/yamactl/yamactl/internal/discovery"
)

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"ON", true, false},
		{"true", true, false},
		{"off", false, false},
		{" Off ", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOnOff(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOnOff(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseOnOff(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestToggleNames(t *testing.T) {
	names := toggleNames()
	want := []string{"adaptive-drc", "bass-extension", "direct", "enhancer", "extra-bass", "pure-direct"}
	if !slices.Equal(names, want) {
		t.Errorf("toggleNames() = %v, want %v", names, want)
	}
}

// newDiscoverFlags returns a command carrying the discover flags, unset
func newDiscoverFlags() *cobra.Command {
	c := &cobra.Command{Use: "discover"}
	c.Flags().StringVar(&scanSubnet, "subnet", "", "")
	c.Flags().IntVar(&scanMask, "mask", 0, "")
	c.Flags().DurationVar(&scanTimeout, "timeout", 0, "")
	c.Flags().IntVar(&scanConcurrency, "concurrency", 0, "")
	c.Flags().BoolVar(&scanMDNS, "mdns", false, "")
	return c
}

func TestDiscoveryConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, useMDNS, err := discoveryConfig(newDiscoverFlags())
		if err != nil {
			t.Fatalf("discoveryConfig() error = %v", err)
		}
		if cfg != discovery.DefaultConfig() {
			t.Errorf("cfg = %v, want defaults", cfg)
		}
		if useMDNS {
			t.Error("useMDNS should default to false")
		}
	})

	t.Run("flags override", func(t *testing.T) {
		c := newDiscoverFlags()
		for flag, value := range map[string]string{
			"subnet":      "10.1.0.0",
			"mask":        "16",
			"timeout":     "1s",
			"concurrency": "200",
			"mdns":        "true",
		} {
			if err := c.Flags().Set(flag, value); err != nil {
				t.Fatal(err)
			}
		}

		cfg, useMDNS, err := discoveryConfig(c)
		if err != nil {
			t.Fatalf("discoveryConfig() error = %v", err)
		}
		want := discovery.Config{
			Subnet:        netip.MustParseAddr("10.1.0.0"),
			Mask:          16,
			Timeout:       time.Second,
			MaxConcurrent: 200,
		}
		if cfg != want {
			t.Errorf("cfg = %+v, want %+v", cfg, want)
		}
		if !useMDNS {
			t.Error("useMDNS should follow --mdns")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := map[string]string{
			"subnet":      "not-an-ip",
			"mask":        "33",
			"concurrency": "0",
		}
		for flag, value := range tests {
			c := newDiscoverFlags()
			if err := c.Flags().Set(flag, value); err != nil {
				t.Fatal(err)
			}
			if _, _, err := discoveryConfig(c); err == nil {
				t.Errorf("--%s %s: expected error", flag, value)
			}
		}
	})
}

func TestToDeviceJSON(t *testing.T) {
	seen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got := toDeviceJSON([]*discovery.Device{{
		IP:           netip.MustParseAddr("192.168.1.20"),
		Port:         80,
		ModelName:    "RX-V6A",
		DeviceID:     "00A0DE123456",
		APIVersion:   "2.11",
		DiscoveredAt: seen,
	}})

	want := deviceJSON{IP: "192.168.1.20", Port: 80, ModelName: "RX-V6A", DeviceID: "00A0DE123456", APIVersion: "2.11", DiscoveredAt: seen}
	if len(got) != 1 || got[0] != want {
		t.Errorf("toDeviceJSON() = %+v, want [%+v]", got, want)
	}
}

// fakeReceiver answers getDeviceInfo and records every other request
type fakeReceiver struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeReceiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == discovery.DeviceInfoPath {
		_, _ = w.Write([]byte(`{"response_code":0,"model_name":"RX-V6A","device_id":"00A0DE123456","api_version":2.11}`))
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path+"?"+r.URL.RawQuery)
	f.mu.Unlock()

	if r.URL.Query().Get("input") == "phono" {
		_, _ = w.Write([]byte(`{"response_code":4}`))
		return
	}
	_, _ = w.Write([]byte(`{"response_code":0}`))
}

func (f *fakeReceiver) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1]
}

func TestControlCommands(t *testing.T) {
	t.Setenv("YAMACTL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	receiver := &fakeReceiver{}
	server := httptest.NewServer(receiver)
	defer server.Close()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"power on", []string{"power", "on"}, "/YamahaExtendedControl/v1/main/setPower?power=on", false},
		{"power off is standby", []string{"power", "off"}, "/YamahaExtendedControl/v1/main/setPower?power=standby", false},
		{"volume level", []string{"volume", "80"}, "/YamahaExtendedControl/v1/main/setVolume?volume=80", false},
		{"volume up", []string{"volume", "up", "--step", "3"}, "/YamahaExtendedControl/v1/main/setVolume?step=3&volume=up", false},
		{"mute", []string{"mute", "on"}, "/YamahaExtendedControl/v1/main/setMute?enable=true", false},
		{"input", []string{"input", "HDMI1"}, "/YamahaExtendedControl/v1/main/setInput?input=hdmi1", false},
		{"program", []string{"program", "2ch_stereo"}, "/YamahaExtendedControl/v1/main/setSoundProgram?program=2ch_stereo", false},
		{"toggle", []string{"set", "pure_direct", "on"}, "/YamahaExtendedControl/v1/main/setPureDirect?enable=true", false},
		{"adaptive drc", []string{"set", "adaptive-drc", "off"}, "/YamahaExtendedControl/v1/main/setAdaptiveDrc?enable=false", false},
		{"sleep", []string{"sleep", "90", "--zone", "zone2"}, "/YamahaExtendedControl/v1/zone2/setSleep?sleep=90", false},
		{"vendor error", []string{"input", "phono"}, "/YamahaExtendedControl/v1/main/setInput?input=phono", true},
		{"bad sleep value", []string{"sleep", "45"}, "", true},
		{"unknown feature", []string{"set", "loudness", "on"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receiver.mu.Lock()
			receiver.requests = nil
			receiver.mu.Unlock()

			// Persistent flags keep their values between runs; reset the zone
			args := append([]string{"--device", "127.0.0.1", "--port", strconv.Itoa(port), "--format", "compact", "--zone", "main"}, tt.args...)
			rootCmd.SetArgs(args)
			err := rootCmd.ExecuteContext(context.Background())

			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got := receiver.last(); got != tt.want {
				t.Errorf("request = %q, want %q", got, tt.want)
			}
		})
	}
}
