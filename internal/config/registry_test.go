package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/yxc"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	}

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "yamactl") {
		t.Errorf("GetConfigDir() = %v, should contain 'yamactl'", configDir)
	}

	if runtime.GOOS == "linux" && configDir != filepath.Join("/tmp/xdg", "yamactl") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/yamactl", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	t.Setenv(ConfigPathEnvVar, "/etc/yamactl.yaml")
	configPath, err = GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if configPath != "/etc/yamactl.yaml" {
		t.Errorf("GetConfigPath() = %v, want /etc/yamactl.yaml", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != CurrentVersion {
		t.Errorf("NewRegistry().Version = %v, want %v", reg.Version, CurrentVersion)
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if err := reg.Preferences.Validate(); err != nil {
		t.Errorf("default preferences invalid: %v", err)
	}

	cfg, err := reg.Preferences.DiscoveryConfig()
	if err != nil {
		t.Fatalf("DiscoveryConfig() error = %v", err)
	}
	if cfg != discovery.DefaultConfig() {
		t.Errorf("DiscoveryConfig() = %+v, want %+v", cfg, discovery.DefaultConfig())
	}
}

func TestDiscoveryConfig_Overrides(t *testing.T) {
	p := DefaultPreferences()
	p.Discovery = DiscoveryPrefs{Subnet: "10.0.5.0", Mask: 26, TimeoutMS: 250, MaxConcurrent: 8}

	cfg, err := p.DiscoveryConfig()
	if err != nil {
		t.Fatalf("DiscoveryConfig() error = %v", err)
	}
	if cfg.String() != "10.0.5.0/26" {
		t.Errorf("cfg = %s, want 10.0.5.0/26", cfg)
	}
	if cfg.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", cfg.Timeout)
	}
	if cfg.MaxConcurrent != 8 {
		t.Errorf("MaxConcurrent = %d, want 8", cfg.MaxConcurrent)
	}
}

func TestDiscoveryConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		prefs DiscoveryPrefs
	}{
		{"bad subnet", DiscoveryPrefs{Subnet: "192.168.1"}},
		{"ipv6 subnet", DiscoveryPrefs{Subnet: "fe80::1"}},
		{"mask too large", DiscoveryPrefs{Mask: 33}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreferences()
			p.Discovery = tt.prefs
			if _, err := p.DiscoveryConfig(); err == nil {
				t.Error("DiscoveryConfig() should fail")
			}
		})
	}
}

func TestPreferencesSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"discovery.subnet", "10.0.0.0", "10.0.0.0", false},
		{"discovery.subnet", "not-an-ip", "", true},
		{"discovery.mask", "16", "16", false},
		{"discovery.mask", "40", "", true},
		{"discovery.mask", "abc", "", true},
		{"discovery.timeout_ms", "750", "750", false},
		{"discovery.max_concurrent", "100", "100", false},
		{"discovery.use_mdns", "true", "true", false},
		{"discovery.use_mdns", "maybe", "", true},
		{"default_zone", "Zone2", "zone2", false},
		{"default_zone", "kitchen", "", true},
		{"output_format", "json", "json", false},
		{"output_format", "xml", "", true},
		{"volume_step", "5", "5", false},
		{"volume_step", "11", "", true},
		{"colour", "blue", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			p := DefaultPreferences()
			before := *p

			err := p.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if *p != before {
					t.Errorf("rejected Set() changed preferences: %+v", *p)
				}
				return
			}

			got, err := p.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestPreferencesGet_AllKeys(t *testing.T) {
	p := DefaultPreferences()
	for _, key := range Keys {
		if _, err := p.Get(key); err != nil {
			t.Errorf("Get(%s) error = %v", key, err)
		}
	}
}

func TestPreferencesZone(t *testing.T) {
	p := &Preferences{}
	zone, err := p.Zone()
	if err != nil || zone != yxc.ZoneMain {
		t.Errorf("Zone() = %v, %v; want main", zone, err)
	}

	p.DefaultZone = "zone3"
	zone, err = p.Zone()
	if err != nil || zone != yxc.Zone3 {
		t.Errorf("Zone() = %v, %v; want zone3", zone, err)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	if err := reg.Preferences.Set("discovery.subnet", "10.1.2.0"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Preferences.Set("output_format", "compact"); err != nil {
		t.Fatal(err)
	}

	if err := reg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if *loaded.Preferences != *reg.Preferences {
		t.Errorf("loaded = %+v, want %+v", *loaded.Preferences, *reg.Preferences)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	reg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if *reg.Preferences != *DefaultPreferences() {
		t.Errorf("missing file should load defaults, got %+v", *reg.Preferences)
	}
}

func TestParseRegistry(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, r *Registry)
	}{
		{
			name: "partial file keeps defaults",
			data: "version: 1\npreferences:\n  volume_step: 4\n",
			check: func(t *testing.T, r *Registry) {
				if r.Preferences.VolumeStep != 4 {
					t.Errorf("VolumeStep = %d, want 4", r.Preferences.VolumeStep)
				}
				if r.Preferences.Discovery.MaxConcurrent != discovery.DefaultMaxConcurrent {
					t.Errorf("MaxConcurrent = %d, want default", r.Preferences.Discovery.MaxConcurrent)
				}
			},
		},
		{
			name: "no preferences",
			data: "version: 1\n",
			check: func(t *testing.T, r *Registry) {
				if r.Preferences == nil {
					t.Fatal("Preferences should not be nil")
				}
			},
		},
		{name: "wrong version", data: "version: 2\n", wantErr: true},
		{name: "bad yaml", data: "version: [1\n", wantErr: true},
		{name: "invalid value", data: "version: 1\npreferences:\n  output_format: xml\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := parseRegistry([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRegistry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(ConfigPathEnvVar, path)

	got, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if got != path {
		t.Errorf("path = %s, want %s", got, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# yamactl configuration file") {
		t.Errorf("missing header:\n%s", data)
	}

	if _, err := CreateDefaultConfig(false); err == nil {
		t.Error("CreateDefaultConfig() should refuse to overwrite")
	}
	if _, err := CreateDefaultConfig(true); err != nil {
		t.Errorf("CreateDefaultConfig(true) error = %v", err)
	}
}

func BenchmarkPreferencesSet(b *testing.B) {
	p := DefaultPreferences()
	for i := 0; i < b.N; i++ {
		_ = p.Set("volume_step", "3")
	}
}

func TestReloadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(ConfigPathEnvVar, path)

	reg, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}
	if err := reg.Preferences.Set("volume_step", "7"); err != nil {
		t.Fatal(err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The cached registry survives until reloaded
	cached, _ := LoadRegistry()
	if cached != reg {
		t.Error("LoadRegistry() should return the cached registry")
	}

	reloaded, err := ReloadRegistry()
	if err != nil {
		t.Fatalf("ReloadRegistry() error = %v", err)
	}
	if reloaded == reg {
		t.Error("ReloadRegistry() should read a fresh registry")
	}
	if reloaded.Preferences.VolumeStep != 7 {
		t.Errorf("VolumeStep = %d, want 7", reloaded.Preferences.VolumeStep)
	}
}
