package ui

import (
	"bytes"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/yxc"
)

func TestHeader_Render(t *testing.T) {
	h := NewHeader("Zone Status", "yamactl status",
		Param{Key: "Device", Value: "RX-V685 -> (192.168.1.20)"},
		Param{Key: "Zone", Value: "main"},
	).SetWidth(80)

	output := h.Render()

	for _, want := range []string{"ZONE STATUS", "yamactl status", "Device:", "RX-V685 -> (192.168.1.20)", "Zone:"} {
		if !strings.Contains(output, want) {
			t.Errorf("Render() missing %q\n%s", want, output)
		}
	}
	if strings.Index(output, "Device:") > strings.Index(output, "Zone:") {
		t.Error("params should render in the order given")
	}
}

func TestResult_Success(t *testing.T) {
	output := NewSuccessResult("Volume set",
		Param{Key: "Zone", Value: "main"},
		Param{Key: "Volume", Value: "60"},
	).SetWidth(80).Render()

	for _, want := range []string{"SUCCESS", "Volume set", "Zone:", "60"} {
		if !strings.Contains(output, want) {
			t.Errorf("Render() missing %q\n%s", want, output)
		}
	}
}

func TestResult_DeviceFailure(t *testing.T) {
	output := NewDeviceFailureResult("Could not select program", yxc.NewVendorError(yxc.CodeGuarded)).
		SetWidth(80).
		Render()

	for _, want := range []string{"FAILED", "Receiver returned error 5 Guarded", "Troubleshooting:"} {
		if !strings.Contains(output, want) {
			t.Errorf("Render() missing %q\n%s", want, output)
		}
	}
}

func TestResult_AddDetail(t *testing.T) {
	r := NewWarningResult("No devices")
	r.AddDetail("Subnet", "192.168.1.0/24").AddDetail("Timeout", "500ms")

	if len(r.Details) != 2 || r.Details[1].Key != "Timeout" {
		t.Errorf("Details = %v", r.Details)
	}
	if !strings.Contains(r.SetWidth(80).Render(), "WARNING") {
		t.Error("warning box should contain WARNING")
	}
}

func TestHintLines(t *testing.T) {
	hint := "The device did not respond in time.\nTroubleshooting:\n  • Check power\n  • Check network"
	got := HintLines(hint)
	want := []string{"The device did not respond in time.", "Check power", "Check network"}

	if len(got) != len(want) {
		t.Fatalf("HintLines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("HintLines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanProgress(t *testing.T) {
	p := NewScanProgress("Scanning 192.168.1.0/24", 4).SetWidth(80)

	if p.Percent() != 0 {
		t.Errorf("Percent() = %v, want 0", p.Percent())
	}

	dev := &discovery.Device{IP: netip.MustParseAddr("192.168.1.20"), ModelName: "RX-V685"}
	p.Record(discovery.Outcome{Kind: discovery.NotFound})
	p.Record(discovery.Outcome{Kind: discovery.Found, Device: dev})

	if p.Percent() != 0.5 {
		t.Errorf("Percent() = %v, want 0.5", p.Percent())
	}
	if p.Found != 1 {
		t.Errorf("Found = %d, want 1", p.Found)
	}
	if p.LastHit() != "RX-V685 -> (192.168.1.20)" {
		t.Errorf("LastHit() = %q", p.LastHit())
	}

	output := p.Render()
	for _, want := range []string{"Scanning 192.168.1.0/24", "[2/4]", "1 found", "50%"} {
		if !strings.Contains(output, want) {
			t.Errorf("Render() missing %q\n%s", want, output)
		}
	}

	line := p.Line()
	if strings.Contains(line, "Scanning") {
		t.Errorf("Line() should omit the label: %q", line)
	}
	if p.Label == "" {
		t.Error("Line() should restore the label")
	}
}

func TestScanProgress_EmptyRange(t *testing.T) {
	p := NewScanProgress("", 0)
	if p.Percent() != 1 {
		t.Errorf("Percent() = %v, want 1", p.Percent())
	}
}

func TestRenderDeviceTable(t *testing.T) {
	seen := time.Date(2024, 5, 1, 20, 15, 30, 0, time.Local)
	devices := []*discovery.Device{
		{IP: netip.MustParseAddr("192.168.1.20"), ModelName: "RX-V685", DeviceID: "AC44F2A1B2C3", APIVersion: "2.11", DiscoveredAt: seen},
		{IP: netip.MustParseAddr("192.168.1.31")},
	}

	output := RenderDeviceTable(devices)

	for _, want := range []string{"MODEL", "RX-V685", "192.168.1.20", "AC44F2A1B2C3", "2.11", "20:15:30", "Yamaha device", "192.168.1.31"} {
		if !strings.Contains(output, want) {
			t.Errorf("RenderDeviceTable() missing %q\n%s", want, output)
		}
	}
}

func TestRenderDiscoverySummary(t *testing.T) {
	output := RenderDiscoverySummary(discovery.Summary{Found: 2, Probed: 254, NotFound: 3, TimedOut: 240, TransportErrors: 9, Elapsed: 2300 * time.Millisecond})

	if !strings.Contains(output, "Found 2 amplifier(s) in 2.3s") {
		t.Errorf("RenderDiscoverySummary() = %q", output)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := Confirm(strings.NewReader(tt.input), &out, "Overwrite config", []string{"The existing file will be replaced"}, "Continue?")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Continue? [y/N]") {
				t.Errorf("prompt missing from output:\n%s", out.String())
			}
		})
	}
}

func TestPowerMarker(t *testing.T) {
	if !strings.Contains(PowerMarker("on"), PowerOnMarker) {
		t.Error("PowerMarker(on) should contain the on marker")
	}
	if !strings.Contains(PowerMarker("standby"), StandbyMarker) {
		t.Error("PowerMarker(standby) should contain the standby marker")
	}
}

