package yxc

import (
	"fmt"
	"strings"
)

// Zone is an independently controllable output of a receiver
type Zone string

const (
	ZoneMain Zone = "main"
	Zone2    Zone = "zone2" // Zone B on models that have one
	Zone3    Zone = "zone3"
	Zone4    Zone = "zone4"
)

// AllZones lists every zone the API defines
var AllZones = []Zone{ZoneMain, Zone2, Zone3, Zone4}

// String implements fmt.Stringer
func (z Zone) String() string { return string(z) }

// ParseZone accepts a zone name ("main", "zone2", ...), case-insensitively
func ParseZone(s string) (Zone, error) {
	return parseEnum(s, AllZones, "zone")
}

// PowerState is the target of a setPower request
type PowerState string

const (
	PowerOn      PowerState = "on"
	PowerToggle  PowerState = "toggle"
	PowerStandby PowerState = "standby"
)

// AllPowerStates lists every power state setPower accepts
var AllPowerStates = []PowerState{PowerOn, PowerToggle, PowerStandby}

// String implements fmt.Stringer
func (p PowerState) String() string { return string(p) }

// ParsePowerState accepts "on", "toggle" or "standby" ("off" is taken as standby)
func ParsePowerState(s string) (PowerState, error) {
	if strings.EqualFold(strings.TrimSpace(s), "off") {
		return PowerStandby, nil
	}
	return parseEnum(s, AllPowerStates, "power state")
}

// Input is an input source ID as used by setInput and reported by getStatus
type Input string

const (
	InputCD        Input = "cd"
	InputTuner     Input = "tuner"
	InputMultiCh   Input = "multi_ch"
	InputPhono     Input = "phono"
	InputHDMI1     Input = "hdmi1"
	InputHDMI2     Input = "hdmi2"
	InputHDMI3     Input = "hdmi3"
	InputHDMI4     Input = "hdmi4"
	InputHDMI5     Input = "hdmi5"
	InputHDMI6     Input = "hdmi6"
	InputHDMI7     Input = "hdmi7"
	InputHDMI8     Input = "hdmi8"
	InputHDMI      Input = "hdmi"
	InputAV1       Input = "av1"
	InputAV2       Input = "av2"
	InputAV3       Input = "av3"
	InputAV4       Input = "av4"
	InputAV5       Input = "av5"
	InputAV6       Input = "av6"
	InputAV7       Input = "av7"
	InputVAux      Input = "v_aux"
	InputAux1      Input = "aux1"
	InputAux2      Input = "aux2"
	InputAux       Input = "aux"
	InputAudio1    Input = "audio1"
	InputAudio2    Input = "audio2"
	InputAudio3    Input = "audio3"
	InputAudio4    Input = "audio4"
	InputAudioCD   Input = "audio_cd"
	InputAudio     Input = "audio"
	InputOptical1  Input = "optical1"
	InputOptical2  Input = "optical2"
	InputOptical   Input = "optical"
	InputCoaxial1  Input = "coaxial1"
	InputCoaxial2  Input = "coaxial2"
	InputCoaxial   Input = "coaxial"
	InputDigital1  Input = "digital1"
	InputDigital2  Input = "digital2"
	InputDigital   Input = "digital"
	InputLine1     Input = "line1"
	InputLine2     Input = "line2"
	InputLine3     Input = "line3"
	InputLineCD    Input = "line_cd"
	InputAnalog    Input = "analog"
	InputTV        Input = "tv"
	InputBDDVD     Input = "bd_dvd"
	InputUSBDAC    Input = "usb_dac"
	InputUSB       Input = "usb"
	InputBluetooth Input = "bluetooth"
	InputServer    Input = "server"
	InputNetRadio  Input = "net_radio"
	InputRhapsody  Input = "rhapsody"
	InputNapster   Input = "napster"
	InputPandora   Input = "pandora"
	InputSiriusxm  Input = "siriusxm"
	InputSpotify   Input = "spotify"
	InputJuke      Input = "juke"
	InputAirplay   Input = "airplay"
	InputRadiko    Input = "radiko"
	InputQobuz     Input = "qobuz"
	InputMCLink    Input = "mc_link"
	InputMainSync  Input = "main_sync"
	InputNone      Input = "none"
)

// AllInputs lists every input ID the API defines
var AllInputs = []Input{
	InputCD,
	InputTuner,
	InputMultiCh,
	InputPhono,
	InputHDMI1,
	InputHDMI2,
	InputHDMI3,
	InputHDMI4,
	InputHDMI5,
	InputHDMI6,
	InputHDMI7,
	InputHDMI8,
	InputHDMI,
	InputAV1,
	InputAV2,
	InputAV3,
	InputAV4,
	InputAV5,
	InputAV6,
	InputAV7,
	InputVAux,
	InputAux1,
	InputAux2,
	InputAux,
	InputAudio1,
	InputAudio2,
	InputAudio3,
	InputAudio4,
	InputAudioCD,
	InputAudio,
	InputOptical1,
	InputOptical2,
	InputOptical,
	InputCoaxial1,
	InputCoaxial2,
	InputCoaxial,
	InputDigital1,
	InputDigital2,
	InputDigital,
	InputLine1,
	InputLine2,
	InputLine3,
	InputLineCD,
	InputAnalog,
	InputTV,
	InputBDDVD,
	InputUSBDAC,
	InputUSB,
	InputBluetooth,
	InputServer,
	InputNetRadio,
	InputRhapsody,
	InputNapster,
	InputPandora,
	InputSiriusxm,
	InputSpotify,
	InputJuke,
	InputAirplay,
	InputRadiko,
	InputQobuz,
	InputMCLink,
	InputMainSync,
	InputNone,
}

// String implements fmt.Stringer
func (i Input) String() string { return string(i) }

// ParseInput accepts an input ID such as "hdmi1" or "net_radio".
// Case is ignored and "-" or " " may be used in place of "_".
func ParseInput(s string) (Input, error) {
	return parseEnum(s, AllInputs, "input")
}

// SoundProgram is a DSP program ID as used by setSoundProgram
type SoundProgram string

const (
	ProgramMunichA         SoundProgram = "munich_a"
	ProgramMunichB         SoundProgram = "munich_b"
	ProgramMunich          SoundProgram = "munich"
	ProgramFrankfurt       SoundProgram = "frankfurt"
	ProgramStuttgart       SoundProgram = "stuttgart"
	ProgramVienna          SoundProgram = "vienna"
	ProgramAmsterdam       SoundProgram = "amsterdam"
	ProgramUSAA            SoundProgram = "usa_a"
	ProgramUSAB            SoundProgram = "usa_b"
	ProgramTokyo           SoundProgram = "tokyo"
	ProgramFreiburg        SoundProgram = "freiburg"
	ProgramRoyaumont       SoundProgram = "royaumont"
	ProgramChamber         SoundProgram = "chamber"
	ProgramConcert         SoundProgram = "concert"
	ProgramVillageGate     SoundProgram = "village_gate"
	ProgramVillageVanguard SoundProgram = "village_vanguard"
	ProgramWarehouseLoft   SoundProgram = "warehouse_loft"
	ProgramCellarClub      SoundProgram = "cellar_club"
	ProgramJazzClub        SoundProgram = "jazz_club"
	ProgramRoxyTheatre     SoundProgram = "roxy_theatre"
	ProgramBottomLine      SoundProgram = "bottom_line"
	ProgramArena           SoundProgram = "arena"
	ProgramSports          SoundProgram = "sports"
	ProgramActionGame      SoundProgram = "action_game"
	ProgramRoleplayingGame SoundProgram = "roleplaying_game"
	ProgramGame            SoundProgram = "game"
	ProgramMusicVideo      SoundProgram = "music_video"
	ProgramMusic           SoundProgram = "music"
	ProgramRecitalOpera    SoundProgram = "recital_opera"
	ProgramPavilion        SoundProgram = "pavilion"
	ProgramDisco           SoundProgram = "disco"
	ProgramStandard        SoundProgram = "standard"
	ProgramSpectacle       SoundProgram = "spectacle"
	ProgramSciFi           SoundProgram = "sci_fi"
	ProgramAdventure       SoundProgram = "adventure"
	ProgramDrama           SoundProgram = "drama"
	ProgramTalkShow        SoundProgram = "talk_show"
	ProgramTVProgram       SoundProgram = "tv_program"
	ProgramMonoMovie       SoundProgram = "mono_movie"
	ProgramMovie           SoundProgram = "movie"
	ProgramEnhanced        SoundProgram = "enhanced"
	Program2chStereo       SoundProgram = "2ch_stereo"
	Program5chStereo       SoundProgram = "5ch_stereo"
	Program7chStereo       SoundProgram = "7ch_stereo"
	Program9chStereo       SoundProgram = "9ch_stereo"
	Program11chStereo      SoundProgram = "11ch_stereo"
	ProgramStereo          SoundProgram = "stereo"
	ProgramSurrDecoder     SoundProgram = "surr_decoder"
	ProgramMySurround      SoundProgram = "my_surround"
	ProgramTarget          SoundProgram = "target"
	ProgramStraight        SoundProgram = "straight"
	ProgramOff             SoundProgram = "off"
)

// AllSoundPrograms lists every sound program ID the API defines
var AllSoundPrograms = []SoundProgram{
	ProgramMunichA,
	ProgramMunichB,
	ProgramMunich,
	ProgramFrankfurt,
	ProgramStuttgart,
	ProgramVienna,
	ProgramAmsterdam,
	ProgramUSAA,
	ProgramUSAB,
	ProgramTokyo,
	ProgramFreiburg,
	ProgramRoyaumont,
	ProgramChamber,
	ProgramConcert,
	ProgramVillageGate,
	ProgramVillageVanguard,
	ProgramWarehouseLoft,
	ProgramCellarClub,
	ProgramJazzClub,
	ProgramRoxyTheatre,
	ProgramBottomLine,
	ProgramArena,
	ProgramSports,
	ProgramActionGame,
	ProgramRoleplayingGame,
	ProgramGame,
	ProgramMusicVideo,
	ProgramMusic,
	ProgramRecitalOpera,
	ProgramPavilion,
	ProgramDisco,
	ProgramStandard,
	ProgramSpectacle,
	ProgramSciFi,
	ProgramAdventure,
	ProgramDrama,
	ProgramTalkShow,
	ProgramTVProgram,
	ProgramMonoMovie,
	ProgramMovie,
	ProgramEnhanced,
	Program2chStereo,
	Program5chStereo,
	Program7chStereo,
	Program9chStereo,
	Program11chStereo,
	ProgramStereo,
	ProgramSurrDecoder,
	ProgramMySurround,
	ProgramTarget,
	ProgramStraight,
	ProgramOff,
}

// String implements fmt.Stringer
func (p SoundProgram) String() string { return string(p) }

// ParseSoundProgram accepts a program ID such as "straight" or "2ch_stereo".
// Case is ignored and "-" or " " may be used in place of "_".
func ParseSoundProgram(s string) (SoundProgram, error) {
	return parseEnum(s, AllSoundPrograms, "sound program")
}

// normalizeID turns user input into wire form: "Jazz Club" -> "jazz_club"
func normalizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func parseEnum[T ~string](s string, all []T, kind string) (T, error) {
	id := normalizeID(s)
	for _, v := range all {
		if string(v) == id {
			return v, nil
		}
	}
	var zero T
	return zero, NewInvalidArgumentError(fmt.Sprintf("unknown %s %q", kind, s))
}
