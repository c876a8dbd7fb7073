package yxc

import "testing"

func TestParseZone(t *testing.T) {
	tests := []struct {
		in      string
		want    Zone
		wantErr bool
	}{
		{"main", ZoneMain, false},
		{"MAIN", ZoneMain, false},
		{" zone2 ", Zone2, false},
		{"zone4", Zone4, false},
		{"zone5", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseZone(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseZone(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseZone(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePowerState(t *testing.T) {
	tests := []struct {
		in      string
		want    PowerState
		wantErr bool
	}{
		{"on", PowerOn, false},
		{"standby", PowerStandby, false},
		{"Toggle", PowerToggle, false},
		{"off", PowerStandby, false},
		{"OFF", PowerStandby, false},
		{"sleep", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePowerState(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePowerState(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePowerState(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		in      string
		want    Input
		wantErr bool
	}{
		{"hdmi1", InputHDMI1, false},
		{"HDMI1", InputHDMI1, false},
		{"net_radio", InputNetRadio, false},
		{"net-radio", InputNetRadio, false},
		{"Net Radio", InputNetRadio, false},
		{"bluetooth", InputBluetooth, false},
		{"mc_link", InputMCLink, false},
		{"hdmi9", "", true},
		{"spotify!", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInput(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInput(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseInput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSoundProgram(t *testing.T) {
	tests := []struct {
		in      string
		want    SoundProgram
		wantErr bool
	}{
		{"straight", ProgramStraight, false},
		{"2ch_stereo", Program2chStereo, false},
		{"2ch-stereo", Program2chStereo, false},
		{"Sci-Fi", ProgramSciFi, false},
		{"munich_a", ProgramMunichA, false},
		{"usa_b", ProgramUSAB, false},
		{"off", ProgramOff, false},
		{"two_ch_stereo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSoundProgram(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSoundProgram(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSoundProgram(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEnum_ErrorIsInvalidArgument(t *testing.T) {
	_, err := ParseInput("nope")
	devErr, ok := asDeviceError(err)
	if !ok {
		t.Fatalf("ParseInput() error = %T, want *DeviceError", err)
	}
	if devErr.Type != ErrTypeInvalidArgument {
		t.Errorf("Type = %v, want %v", devErr.Type, ErrTypeInvalidArgument)
	}
	if devErr.Message != `unknown input "nope"` {
		t.Errorf("Message = %q", devErr.Message)
	}
}

func TestEnumListsAreWireForm(t *testing.T) {
	check := func(t *testing.T, ids []string) {
		t.Helper()
		seen := make(map[string]bool)
		for _, id := range ids {
			if id != normalizeID(id) {
				t.Errorf("%q is not in wire form", id)
			}
			if seen[id] {
				t.Errorf("%q listed twice", id)
			}
			seen[id] = true
		}
	}

	t.Run("inputs", func(t *testing.T) {
		ids := make([]string, len(AllInputs))
		for i, v := range AllInputs {
			ids[i] = string(v)
		}
		check(t, ids)
	})

	t.Run("programs", func(t *testing.T) {
		ids := make([]string, len(AllSoundPrograms))
		for i, v := range AllSoundPrograms {
			ids[i] = string(v)
		}
		check(t, ids)
	})
}
