package config

import (
	"fmt"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/yamactl/yamactl/internal/discovery"
	"github.com/yamactl/yamactl/internal/yxc"
)

// CurrentVersion is the config file format version this build reads and writes
const CurrentVersion = 1

// Output formats accepted by output_format and --format
const (
	FormatDetailed = "detailed"
	FormatCompact  = "compact"
	FormatJSON     = "json"
)

// OutputFormats lists every accepted output format
var OutputFormats = []string{FormatDetailed, FormatCompact, FormatJSON}

// Registry represents the entire user configuration file.
// It holds preferences only; discovered devices are never stored.
type Registry struct {
	Version     int          `yaml:"version"`
	Preferences *Preferences `yaml:"preferences,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Discovery    DiscoveryPrefs `yaml:"discovery"`
	DefaultZone  string         `yaml:"default_zone"`  // Zone used when --zone is not given
	OutputFormat string         `yaml:"output_format"` // detailed, compact or json
	VolumeStep   int            `yaml:"volume_step"`   // Step for "volume up|down" and the TUI +/- keys
}

// DiscoveryPrefs are the defaults for "discover" and the TUI scan
type DiscoveryPrefs struct {
	Subnet        string `yaml:"subnet"`         // Network address, e.g. 192.168.1.0
	Mask          int    `yaml:"mask"`           // Prefix length, 0-32
	TimeoutMS     int    `yaml:"timeout_ms"`     // Per-probe timeout
	MaxConcurrent int    `yaml:"max_concurrent"` // Probes in flight at once
	UseMDNS       bool   `yaml:"use_mdns"`       // Browse mDNS instead of sweeping the subnet
}

// DefaultPreferences returns preferences matching the built-in defaults
func DefaultPreferences() *Preferences {
	d := discovery.DefaultConfig()
	return &Preferences{
		Discovery: DiscoveryPrefs{
			Subnet:        d.Subnet.String(),
			Mask:          d.Mask,
			TimeoutMS:     int(d.Timeout / time.Millisecond),
			MaxConcurrent: d.MaxConcurrent,
		},
		DefaultZone:  string(yxc.ZoneMain),
		OutputFormat: FormatDetailed,
		VolumeStep:   2,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Preferences: DefaultPreferences(),
	}
}

// DiscoveryConfig converts the discovery preferences to a scanner config.
// Zero values fall back to the built-in defaults.
func (p *Preferences) DiscoveryConfig() (discovery.Config, error) {
	cfg := discovery.DefaultConfig()

	if p.Discovery.Subnet != "" {
		subnet, err := netip.ParseAddr(p.Discovery.Subnet)
		if err != nil {
			return cfg, fmt.Errorf("invalid discovery.subnet %q: %w", p.Discovery.Subnet, err)
		}
		cfg.Subnet = subnet
	}
	if p.Discovery.Mask != 0 {
		cfg.Mask = p.Discovery.Mask
	}
	if p.Discovery.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(p.Discovery.TimeoutMS) * time.Millisecond
	}
	if p.Discovery.MaxConcurrent > 0 {
		cfg.MaxConcurrent = p.Discovery.MaxConcurrent
	}

	return cfg, cfg.Validate()
}

// Zone returns the default zone, main when unset
func (p *Preferences) Zone() (yxc.Zone, error) {
	if p.DefaultZone == "" {
		return yxc.ZoneMain, nil
	}
	return yxc.ParseZone(p.DefaultZone)
}

// Validate checks every preference value
func (p *Preferences) Validate() error {
	if _, err := p.DiscoveryConfig(); err != nil {
		return err
	}
	if _, err := p.Zone(); err != nil {
		return fmt.Errorf("invalid default_zone: %w", err)
	}
	if p.OutputFormat != "" && !slices.Contains(OutputFormats, p.OutputFormat) {
		return fmt.Errorf("invalid output_format %q (want one of %s)", p.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if p.VolumeStep < 0 || p.VolumeStep > 10 {
		return fmt.Errorf("invalid volume_step %d (want 1-10)", p.VolumeStep)
	}
	return nil
}

// Keys lists the preference keys accepted by Set, in display order
var Keys = []string{
	"discovery.subnet",
	"discovery.mask",
	"discovery.timeout_ms",
	"discovery.max_concurrent",
	"discovery.use_mdns",
	"default_zone",
	"output_format",
	"volume_step",
}

// Set assigns one preference from its string form. The result is validated
// and the previous value is restored when it is rejected.
func (p *Preferences) Set(key, value string) error {
	prev := *p

	var err error
	switch key {
	case "discovery.subnet":
		p.Discovery.Subnet = value
	case "discovery.mask":
		p.Discovery.Mask, err = strconv.Atoi(value)
	case "discovery.timeout_ms":
		p.Discovery.TimeoutMS, err = strconv.Atoi(value)
	case "discovery.max_concurrent":
		p.Discovery.MaxConcurrent, err = strconv.Atoi(value)
	case "discovery.use_mdns":
		p.Discovery.UseMDNS, err = strconv.ParseBool(value)
	case "default_zone":
		p.DefaultZone = strings.ToLower(value)
	case "output_format":
		p.OutputFormat = strings.ToLower(value)
	case "volume_step":
		p.VolumeStep, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	if err != nil {
		*p = prev
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}

	if err := p.Validate(); err != nil {
		*p = prev
		return err
	}
	return nil
}

// Get returns one preference in string form
func (p *Preferences) Get(key string) (string, error) {
	switch key {
	case "discovery.subnet":
		return p.Discovery.Subnet, nil
	case "discovery.mask":
		return strconv.Itoa(p.Discovery.Mask), nil
	case "discovery.timeout_ms":
		return strconv.Itoa(p.Discovery.TimeoutMS), nil
	case "discovery.max_concurrent":
		return strconv.Itoa(p.Discovery.MaxConcurrent), nil
	case "discovery.use_mdns":
		return strconv.FormatBool(p.Discovery.UseMDNS), nil
	case "default_zone":
		return p.DefaultZone, nil
	case "output_format":
		return p.OutputFormat, nil
	case "volume_step":
		return strconv.Itoa(p.VolumeStep), nil
	default:
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
}
