// Package yxc provides an HTTP client for the Yamaha Extended Control API.
//
// Every call is a GET under /YamahaExtendedControl/v1 and every reply carries
// an integer response_code. Zero is success; other values are returned as a
// *DeviceError of type ErrTypeVendor whose Code holds the ResponseCode.
//
// # Usage Example
//
//	client := yxc.NewClient("192.168.1.20", 80)
//
//	status, err := client.Status(ctx, yxc.ZoneMain)
//	if err != nil {
//	    fmt.Println(yxc.ShortMessage(err))
//	    return
//	}
//	fmt.Printf("Volume %d/%d\n", status.Volume, status.MaxVolume)
//
//	if err := client.SetSoundProgram(ctx, yxc.ZoneMain, yxc.ProgramStraight); err != nil {
//	    if code, ok := yxc.IsVendorError(err); ok && code == yxc.CodeGuarded {
//	        // The zone is in standby or the input does not allow DSP programs
//	    }
//	}
//
// # Identifiers
//
// Zones, power states, inputs and sound programs are string types holding
// the wire IDs ("main", "standby", "hdmi1", "2ch_stereo"). The Parse
// functions accept user input in any case with "-" or " " in place of "_".
//
// # Errors
//
// Transport failures are classified (timeout, refused, unreachable, DNS)
// by ClassifyNetworkError. ShortMessage and TroubleshootingHint turn any
// error from this package into text for the CLI and TUI.
package yxc
