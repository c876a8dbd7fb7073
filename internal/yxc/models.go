package yxc

import "encoding/json"

// DeviceInfo is the reply of system/getDeviceInfo
type DeviceInfo struct {
	ResponseCode        ResponseCode  `json:"response_code"`
	ModelName           string        `json:"model_name"`
	Destination         string        `json:"destination"`
	DeviceID            string        `json:"device_id"`
	SystemID            string        `json:"system_id"`
	SystemVersion       json.Number   `json:"system_version"`
	APIVersion          json.Number   `json:"api_version"` // Reported as a number; some firmware quotes it
	NetmoduleGeneration int           `json:"netmodule_generation"`
	NetmoduleVersion    string        `json:"netmodule_version"`
	NetmoduleChecksum   string        `json:"netmodule_checksum"`
	SerialNumber        string        `json:"serial_number"`
	CategoryCode        int           `json:"category_code"` // 1 AV receiver, 2 sound bar, 3 stereo receiver...
	OperationMode       string        `json:"operation_mode"`
	UpdateErrorCode     string        `json:"update_error_code"`
	NetModuleNum        int           `json:"net_module_num"`
	UpdateDataType      int           `json:"update_data_type"`
	AnalyticsInfo       AnalyticsInfo `json:"analytics_info"`
}

// AnalyticsInfo is nested in DeviceInfo
type AnalyticsInfo struct {
	UUID string `json:"uuid"`
}

// Category returns a readable name for CategoryCode
func (d *DeviceInfo) Category() string {
	switch d.CategoryCode {
	case 1:
		return "AV Receiver"
	case 2:
		return "Sound Bar"
	case 3:
		return "Stereo Receiver"
	case 4:
		return "Subwoofer"
	case 5:
		return "Mini System"
	case 6:
		return "Desktop Audio"
	default:
		return "Unknown"
	}
}

// Features is the reply of system/getFeatures. Only the parts used for
// validating requests and building menus are decoded.
type Features struct {
	ResponseCode ResponseCode     `json:"response_code"`
	System       SystemFeatures   `json:"system"`
	Zones        []ZoneFeatures   `json:"zone"`
	Tuner        TunerFeatures    `json:"tuner"`
	NetUSB       NetUSBFeatures   `json:"netusb"`
	Distribution DistributionInfo `json:"distribution"`
	CCS          struct {
		Supported bool `json:"supported"`
	} `json:"ccs"`
}

// SystemFeatures is the system section of getFeatures
type SystemFeatures struct {
	FuncList      []string            `json:"func_list"`
	ZoneNum       int                 `json:"zone_num"`
	InputList     []InputCapability   `json:"input_list"`
	WebControlURL string              `json:"web_control_url"`
	Bluetooth     BluetoothCapability `json:"bluetooth"`
}

// InputCapability describes one input in the system section of getFeatures
type InputCapability struct {
	ID                 string `json:"id"`
	DistributionEnable bool   `json:"distribution_enable"`
	RenameEnable       bool   `json:"rename_enable"`
	AccountEnable      bool   `json:"account_enable"`
	PlayInfoType       string `json:"play_info_type"`
}

// BluetoothCapability is the bluetooth part of the system features
type BluetoothCapability struct {
	TxConnectivityTypeMax int  `json:"tx_connectivity_type_max"`
	UpdateCancelable      bool `json:"update_cancelable"`
}

// ZoneFeatures describes what one zone supports
type ZoneFeatures struct {
	ID                   string      `json:"id"`
	FuncList             []string    `json:"func_list"`
	InputList            []string    `json:"input_list"`
	SoundProgramList     []string    `json:"sound_program_list"`
	SurrDecoderTypeList  []string    `json:"surr_decoder_type_list"`
	ToneControlModeList  []string    `json:"tone_control_mode_list"`
	LinkControlList      []string    `json:"link_control_list"`
	LinkAudioDelayList   []string    `json:"link_audio_delay_list"`
	ActualVolumeModeList []string    `json:"actual_volume_mode_list"`
	CursorList           []string    `json:"cursor_list"`
	MenuList             []string    `json:"menu_list"`
	RangeStep            []RangeStep `json:"range_step"`
	SceneNum             int         `json:"scene_num"`
	ZoneB                bool        `json:"zone_b"`
}

// RangeStep is a min/max/step triple for a numeric setting
type RangeStep struct {
	ID   string  `json:"id"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// TunerFeatures is the tuner section of getFeatures
type TunerFeatures struct {
	FuncList  []string    `json:"func_list"`
	RangeStep []RangeStep `json:"range_step"`
	Preset    struct {
		Type string `json:"type"`
		Num  int    `json:"num"`
	} `json:"preset"`
}

// NetUSBFeatures is the netusb section of getFeatures
type NetUSBFeatures struct {
	FuncList     []string `json:"func_list"`
	NetRadioType string   `json:"net_radio_type"`
	Preset       struct {
		Num int `json:"num"`
	} `json:"preset"`
}

// DistributionInfo is the MusicCast distribution section of getFeatures
type DistributionInfo struct {
	Version          json.Number `json:"version"`
	CompatibleClient []int       `json:"compatible_client"`
	ClientMax        int         `json:"client_max"`
	ServerZoneList   []string    `json:"server_zone_list"`
}

// Zone returns the features of a zone, or nil when the device lacks it
func (f *Features) Zone(zone Zone) *ZoneFeatures {
	for i := range f.Zones {
		if f.Zones[i].ID == string(zone) {
			return &f.Zones[i]
		}
	}
	return nil
}

// Range returns the range for a setting id (e.g., "volume"), if reported
func (z *ZoneFeatures) Range(id string) (RangeStep, bool) {
	for _, r := range z.RangeStep {
		if r.ID == id {
			return r, true
		}
	}
	return RangeStep{}, false
}

// Supports reports whether name appears in the zone's func_list
func (z *ZoneFeatures) Supports(name string) bool {
	for _, f := range z.FuncList {
		if f == name {
			return true
		}
	}
	return false
}

// Status is the reply of <zone>/getStatus
type Status struct {
	ResponseCode       ResponseCode `json:"response_code"`
	Power              string       `json:"power"`
	Sleep              int          `json:"sleep"`
	Volume             int          `json:"volume"`
	Mute               bool         `json:"mute"`
	MaxVolume          int          `json:"max_volume"`
	Input              string       `json:"input"`
	InputText          string       `json:"input_text"`
	DistributionEnable bool         `json:"distribution_enable"`
	SoundProgram       string       `json:"sound_program"`
	SurrDecoderType    string       `json:"surr_decoder_type"`
	PureDirect         bool         `json:"pure_direct"`
	Enhancer           bool         `json:"enhancer"`
	ToneControl        ToneControl  `json:"tone_control"`
	DialogueLevel      int          `json:"dialogue_level"`
	SubwooferVolume    int          `json:"subwoofer_volume"`
	LinkControl        string       `json:"link_control"`
	LinkAudioDelay     string       `json:"link_audio_delay"`
	DisableFlags       int          `json:"disable_flags"`
	ContentsDisplay    bool         `json:"contents_display"`
	ActualVolume       ActualVolume `json:"actual_volume"`
	AdaptiveDRC        bool         `json:"adaptive_drc"`
	ExtraBass          bool         `json:"extra_bass"`
	BassExtension      bool         `json:"bass_extension"`
	Direct             bool         `json:"direct"`
}

// ToneControl is the tone section of getStatus
type ToneControl struct {
	Mode   string `json:"mode"`
	Bass   int    `json:"bass"`
	Treble int    `json:"treble"`
}

// ActualVolume is the volume in the unit shown on the front panel
type ActualVolume struct {
	Mode  string  `json:"mode"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// IsOn reports whether the zone is powered on
func (s *Status) IsOn() bool {
	return s.Power == string(PowerOn)
}

// SoundProgramList is the reply of <zone>/getSoundProgramList
type SoundProgramList struct {
	ResponseCode     ResponseCode `json:"response_code"`
	SoundProgramList []string     `json:"sound_program_list"`
}

// SignalInfo is the reply of <zone>/getSignalInfo
type SignalInfo struct {
	ResponseCode ResponseCode `json:"response_code"`
	Audio        AudioSignal  `json:"audio"`
}

// AudioSignal describes the incoming audio stream
type AudioSignal struct {
	Error   int    `json:"error"`
	Format  string `json:"format"`
	Fs      string `json:"fs"`
	Bit     string `json:"bit"`
	Bitrate int    `json:"bitrate"`
}

// NetworkStatus is the reply of system/getNetworkStatus
type NetworkStatus struct {
	ResponseCode     ResponseCode `json:"response_code"`
	NetworkName      string       `json:"network_name"`
	Connection       string       `json:"connection"`
	DHCP             bool         `json:"dhcp"`
	IPAddress        string       `json:"ip_address"`
	SubnetMask       string       `json:"subnet_mask"`
	DefaultGateway   string       `json:"default_gateway"`
	DNSServer1       string       `json:"dns_server_1"`
	DNSServer2       string       `json:"dns_server_2"`
	EachModuleIPList []string     `json:"each_module_ip_list"`
	AirPlayPIN       string       `json:"airplay_pin"`
	IPv6             struct {
		Enable  bool   `json:"enable"`
		Address string `json:"address"`
	} `json:"ipv6"`
	WirelessLAN struct {
		SSID     string `json:"ssid"`
		Type     string `json:"type"`
		Ch       int    `json:"ch"`
		Strength int    `json:"strength"`
		Enable   bool   `json:"enable"`
	} `json:"wireless_lan"`
	MACAddress struct {
		WiredLAN       string `json:"wired_lan"`
		WirelessLAN    string `json:"wireless_lan"`
		WirelessDirect string `json:"wireless_direct"`
	} `json:"mac_address"`
}

// FuncStatus is the reply of system/getFuncStatus
type FuncStatus struct {
	ResponseCode       ResponseCode `json:"response_code"`
	HDMIOut1           bool         `json:"hdmi_out_1"`
	HDMIStandbyThrough string       `json:"hdmi_standby_through"`
	Headphone          bool         `json:"headphone"`
	ZoneBVolumeSync    bool         `json:"zone_b_volume_sync"`
}

// NameTextEntry maps an ID to its display text
type NameTextEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// NameText is the reply of system/getNameText without an id
type NameText struct {
	ResponseCode     ResponseCode    `json:"response_code"`
	ZoneList         []NameTextEntry `json:"zone_list"`
	InputList        []NameTextEntry `json:"input_list"`
	SoundProgramList []NameTextEntry `json:"sound_program_list"`
}

// Lookup returns the display text for an ID across all lists
func (n *NameText) Lookup(id string) (string, bool) {
	for _, list := range [][]NameTextEntry{n.InputList, n.SoundProgramList, n.ZoneList} {
		for _, e := range list {
			if e.ID == id {
				return e.Text, true
			}
		}
	}
	return "", false
}

// BluetoothInfo is the reply of system/getBluetoothInfo
type BluetoothInfo struct {
	ResponseCode       ResponseCode `json:"response_code"`
	Standby            bool         `json:"bluetooth_standby"`
	TxSetting          bool         `json:"bluetooth_tx_setting"`
	TxConnectivityType int          `json:"bluetooth_tx_connectivity_type"`
	Device             struct {
		Connected bool   `json:"connected"`
		Name      string `json:"name"`
		Type      string `json:"type"`
		Address   string `json:"address"`
	} `json:"bluetooth_device"`
}
