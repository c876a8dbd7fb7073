package yxc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"
	"testing"
)

type timeoutError struct{}

func (e *timeoutError) Error() string { return "i/o timeout" }
func (e *timeoutError) Timeout() bool { return true }
func (e *timeoutError) Temporary() bool { return true }

func dialError(err error) error {
	return &url.Error{
		Op:  "Get",
		URL: "http://192.168.1.20/YamahaExtendedControl/v1/main/getStatus",
		Err: &net.OpError{Op: "dial", Net: "tcp", Err: err},
	}
}

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantType    ErrorType
		wantSubtype NetworkErrorSubtype
	}{
		{"timeout", dialError(&timeoutError{}), ErrTypeTimeout, NetworkErrorGeneral},
		{"deadline exceeded", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), ErrTypeTimeout, NetworkErrorGeneral},
		{"connection refused", dialError(syscall.ECONNREFUSED), ErrTypeConnectionRefused, NetworkErrorGeneral},
		{"host unreachable", dialError(syscall.EHOSTUNREACH), ErrTypeNetwork, NetworkErrorHostUnreachable},
		{"network unreachable", dialError(syscall.ENETUNREACH), ErrTypeNetwork, NetworkErrorNetworkUnreachable},
		{"dns", &net.DNSError{Err: "no such host", Name: "receiver.local", IsNotFound: true}, ErrTypeDNS, NetworkErrorGeneral},
		{"other", errors.New("connection reset by peer"), ErrTypeNetwork, NetworkErrorGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devErr := ClassifyNetworkError(tt.err, "192.168.1.20")
			if devErr == nil {
				t.Fatal("ClassifyNetworkError() = nil, want DeviceError")
			}
			if devErr.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", devErr.Type, tt.wantType)
			}
			if devErr.NetworkSubtype != tt.wantSubtype {
				t.Errorf("NetworkSubtype = %v, want %v", devErr.NetworkSubtype, tt.wantSubtype)
			}
			if devErr.DeviceIP != "192.168.1.20" {
				t.Errorf("DeviceIP = %q, want 192.168.1.20", devErr.DeviceIP)
			}
			if !errors.Is(devErr, tt.err) {
				t.Error("DeviceError should wrap the original error")
			}
		})
	}
}

func TestClassifyNetworkError_Nil(t *testing.T) {
	if devErr := ClassifyNetworkError(nil, "192.168.1.20"); devErr != nil {
		t.Errorf("ClassifyNetworkError(nil) = %v, want nil", devErr)
	}
}

func TestNewNetworkError_KeepsClassification(t *testing.T) {
	devErr := NewNetworkError("request failed", dialError(syscall.ECONNREFUSED), "192.168.1.20")

	if devErr.Type != ErrTypeConnectionRefused {
		t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeConnectionRefused)
	}
	if devErr.Message != "request failed" {
		t.Errorf("Message = %q, want %q", devErr.Message, "request failed")
	}
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		network  bool
		timeout  bool
		http     bool
		parse    bool
		vendor   bool
		wantCode ResponseCode
	}{
		{"timeout", &DeviceError{Type: ErrTypeTimeout}, true, true, false, false, false, CodeOK},
		{"refused", &DeviceError{Type: ErrTypeConnectionRefused}, true, false, false, false, false, CodeOK},
		{"dns", &DeviceError{Type: ErrTypeDNS}, true, false, false, false, false, CodeOK},
		{"http", NewHTTPError(404, "not found"), false, false, true, false, false, CodeOK},
		{"parse", NewParseError("bad json", nil), false, false, false, true, false, CodeOK},
		{"vendor", NewVendorError(CodeGuarded), false, false, false, false, true, CodeGuarded},
		{"wrapped vendor", fmt.Errorf("set input: %w", NewVendorError(CodeInvalidParameter)), false, false, false, false, true, CodeInvalidParameter},
		{"plain", errors.New("boom"), false, false, false, false, false, CodeOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNetworkError(tt.err); got != tt.network {
				t.Errorf("IsNetworkError() = %v, want %v", got, tt.network)
			}
			if got := IsTimeout(tt.err); got != tt.timeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.timeout)
			}
			if got := IsHTTPError(tt.err); got != tt.http {
				t.Errorf("IsHTTPError() = %v, want %v", got, tt.http)
			}
			if got := IsParseError(tt.err); got != tt.parse {
				t.Errorf("IsParseError() = %v, want %v", got, tt.parse)
			}
			code, ok := IsVendorError(tt.err)
			if ok != tt.vendor {
				t.Errorf("IsVendorError() ok = %v, want %v", ok, tt.vendor)
			}
			if code != tt.wantCode {
				t.Errorf("IsVendorError() code = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestDeviceError_Error(t *testing.T) {
	err := NewParseError("failed to parse JSON response", errors.New("unexpected EOF"))
	want := "Parse Error: failed to parse JSON response (caused by: unexpected EOF)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	vendor := NewVendorError(CodeGuarded)
	if vendor.Error() != "Device Error: 5 Guarded" {
		t.Errorf("Error() = %q, want %q", vendor.Error(), "Device Error: 5 Guarded")
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", &DeviceError{Type: ErrTypeTimeout}, "Device not responding (timeout)"},
		{"refused", &DeviceError{Type: ErrTypeConnectionRefused}, "Device refused connection"},
		{"host unreachable", &DeviceError{Type: ErrTypeNetwork, NetworkSubtype: NetworkErrorHostUnreachable}, "Device unreachable - check network connection"},
		{"http", NewHTTPError(500, "boom"), "Device error (HTTP 500)"},
		{"vendor", NewVendorError(CodeGuarded), "Receiver returned error 5 Guarded"},
		{"unknown vendor", NewVendorError(ResponseCode(42)), "Receiver returned error 42 Unknown Error Code"},
		{"invalid argument", NewInvalidArgumentError("unknown input \"foo\""), "unknown input \"foo\""},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortMessage(tt.err); got != tt.want {
				t.Errorf("ShortMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTroubleshootingHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"timeout", &DeviceError{Type: ErrTypeTimeout}, "did not respond in time"},
		{"refused", &DeviceError{Type: ErrTypeConnectionRefused}, "yamactl discover"},
		{"host unreachable", &DeviceError{Type: ErrTypeNetwork, NetworkSubtype: NetworkErrorHostUnreachable, DeviceIP: "192.168.1.20"}, "ping 192.168.1.20"},
		{"guarded", NewVendorError(CodeGuarded), "current state"},
		{"firmware", NewVendorError(CodeFirmwareUpdating), "firmware"},
		{"other vendor", NewVendorError(CodeLicenseError), "109 License Error"},
		{"http", NewHTTPError(404, ""), "HTTP error 404"},
		{"plain", errors.New("boom"), "unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := TroubleshootingHint(tt.err)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("TroubleshootingHint() = %q, want it to contain %q", hint, tt.contains)
			}
		})
	}
}
