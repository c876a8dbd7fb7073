package yxc

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the device
func (d *DeviceInfo) Summary() string {
	return fmt.Sprintf("Yamaha %s (API %s, firmware %s)", d.ModelName, d.APIVersion, d.SystemVersion)
}

// FormatDetailed returns a formatted block with device identification
func (d *DeviceInfo) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Device Information ===\n")
	b.WriteString(fmt.Sprintf("Model:          %s\n", d.ModelName))
	b.WriteString(fmt.Sprintf("Category:       %s\n", d.Category()))
	b.WriteString(fmt.Sprintf("Device ID:      %s\n", d.DeviceID))
	b.WriteString(fmt.Sprintf("System ID:      %s\n", d.SystemID))
	if d.SerialNumber != "" {
		b.WriteString(fmt.Sprintf("Serial Number:  %s\n", d.SerialNumber))
	}
	b.WriteString(fmt.Sprintf("Destination:    %s\n", d.Destination))
	b.WriteString(fmt.Sprintf("Firmware:       %s\n", d.SystemVersion))
	b.WriteString(fmt.Sprintf("API Version:    %s\n", d.APIVersion))
	if d.NetmoduleVersion != "" {
		b.WriteString(fmt.Sprintf("Net Module:     %s (gen %d)\n", d.NetmoduleVersion, d.NetmoduleGeneration))
	}

	return b.String()
}

// FormatVolume renders the volume as "NN/MAX", with the front-panel value when known
func (s *Status) FormatVolume() string {
	v := fmt.Sprintf("%d/%d", s.Volume, s.MaxVolume)
	if s.ActualVolume.Unit != "" {
		v += fmt.Sprintf(" (%.1f %s)", s.ActualVolume.Value, s.ActualVolume.Unit)
	}
	return v
}

// FormatCompact returns a single line suitable for scripts and status bars
func (s *Status) FormatCompact() string {
	mute := ""
	if s.Mute {
		mute = " [muted]"
	}
	return fmt.Sprintf("power=%s volume=%d/%d%s input=%s program=%s",
		s.Power, s.Volume, s.MaxVolume, mute, s.Input, s.SoundProgram)
}

// FormatDetailed returns a multi-line status block
func (s *Status) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Zone Status ===\n")
	b.WriteString(fmt.Sprintf("Power:          %s\n", s.Power))
	b.WriteString(fmt.Sprintf("Volume:         %s\n", s.FormatVolume()))
	b.WriteString(fmt.Sprintf("Mute:           %s\n", onOff(s.Mute)))
	input := s.Input
	if s.InputText != "" && s.InputText != s.Input {
		input = fmt.Sprintf("%s (%s)", s.Input, s.InputText)
	}
	b.WriteString(fmt.Sprintf("Input:          %s\n", input))
	b.WriteString(fmt.Sprintf("Sound Program:  %s\n", s.SoundProgram))
	if s.SurrDecoderType != "" {
		b.WriteString(fmt.Sprintf("Surround Dec.:  %s\n", s.SurrDecoderType))
	}
	b.WriteString(fmt.Sprintf("Pure Direct:    %s\n", onOff(s.PureDirect)))
	b.WriteString(fmt.Sprintf("Enhancer:       %s\n", onOff(s.Enhancer)))
	if s.ToneControl.Mode != "" {
		b.WriteString(fmt.Sprintf("Tone:           %s (bass %d, treble %d)\n", s.ToneControl.Mode, s.ToneControl.Bass, s.ToneControl.Treble))
	}
	b.WriteString(fmt.Sprintf("Dialogue Level: %d\n", s.DialogueLevel))
	b.WriteString(fmt.Sprintf("Subwoofer:      %d\n", s.SubwooferVolume))
	b.WriteString(fmt.Sprintf("Extra Bass:     %s\n", onOff(s.ExtraBass)))
	b.WriteString(fmt.Sprintf("Adaptive DRC:   %s\n", onOff(s.AdaptiveDRC)))
	if s.Sleep > 0 {
		b.WriteString(fmt.Sprintf("Sleep:          %d min\n", s.Sleep))
	}

	return b.String()
}

// FormatDetailed returns a formatted block describing the audio signal
func (s *SignalInfo) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Signal Information ===\n")
	if s.Audio.Format == "" {
		b.WriteString("No signal\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Format:   %s\n", s.Audio.Format))
	b.WriteString(fmt.Sprintf("Sampling: %s\n", s.Audio.Fs))
	if s.Audio.Bit != "" {
		b.WriteString(fmt.Sprintf("Bits:     %s\n", s.Audio.Bit))
	}
	if s.Audio.Bitrate > 0 {
		b.WriteString(fmt.Sprintf("Bitrate:  %d kbps\n", s.Audio.Bitrate))
	}
	if s.Audio.Error != 0 {
		b.WriteString(fmt.Sprintf("Error:    %d\n", s.Audio.Error))
	}

	return b.String()
}

// FormatDetailed returns a formatted block with the capabilities of every zone
func (f *Features) FormatDetailed() string {
	var b strings.Builder

	b.WriteString("=== Features ===\n")
	b.WriteString(fmt.Sprintf("Zones:    %d\n", f.System.ZoneNum))
	if len(f.System.FuncList) > 0 {
		b.WriteString(fmt.Sprintf("System:   %s\n", strings.Join(f.System.FuncList, ", ")))
	}

	for _, z := range f.Zones {
		b.WriteString(fmt.Sprintf("\n--- Zone %s ---\n", z.ID))
		if r, ok := z.Range("volume"); ok {
			b.WriteString(fmt.Sprintf("Volume:   %g-%g (step %g)\n", r.Min, r.Max, r.Step))
		}
		if len(z.InputList) > 0 {
			b.WriteString(fmt.Sprintf("Inputs:   %s\n", strings.Join(z.InputList, ", ")))
		}
		if len(z.SoundProgramList) > 0 {
			b.WriteString(fmt.Sprintf("Programs: %s\n", strings.Join(z.SoundProgramList, ", ")))
		}
		if len(z.FuncList) > 0 {
			b.WriteString(fmt.Sprintf("Funcs:    %s\n", strings.Join(z.FuncList, ", ")))
		}
	}

	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
