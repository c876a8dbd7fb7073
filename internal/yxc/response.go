package yxc

import (
	"encoding/json"
	"fmt"
)

// ResponseCode is the response_code every Extended Control reply carries
type ResponseCode int

// Response codes defined by the Extended Control API
const (
	CodeOK                          ResponseCode = 0
	CodeInitializing                ResponseCode = 1
	CodeInternalError               ResponseCode = 2
	CodeInvalidRequest              ResponseCode = 3
	CodeInvalidParameter            ResponseCode = 4
	CodeGuarded                     ResponseCode = 5
	CodeTimeout                     ResponseCode = 6
	CodeFirmwareUpdating            ResponseCode = 99
	CodeStreamingAccessError        ResponseCode = 100
	CodeStreamingOtherError         ResponseCode = 101
	CodeWrongUsername               ResponseCode = 102
	CodeWrongPassword               ResponseCode = 103
	CodeAccountExpired              ResponseCode = 104
	CodeAccountDisconnected         ResponseCode = 105
	CodeLimitReached                ResponseCode = 106
	CodeServerMaintenance           ResponseCode = 107
	CodeInvalidAccount              ResponseCode = 108
	CodeLicenseError                ResponseCode = 109
	CodeReadOnlyMode                ResponseCode = 110
	CodeMaxStationsReached          ResponseCode = 111
	CodeAccessDenied                ResponseCode = 112
	CodePlaylistDestinationRequired ResponseCode = 113
	CodeNewPlaylistRequired         ResponseCode = 114
	CodeSimultaneousLoginLimit      ResponseCode = 115
	CodeLinkingInProgress           ResponseCode = 200
	CodeUnlinkingInProgress         ResponseCode = 201
)

var responseMessages = map[ResponseCode]string{
	CodeOK:                          "Successful request",
	CodeInitializing:                "Initializing",
	CodeInternalError:               "Internal Error",
	CodeInvalidRequest:              "Invalid Request",
	CodeInvalidParameter:            "Invalid Parameter",
	CodeGuarded:                     "Guarded",
	CodeTimeout:                     "Timeout",
	CodeFirmwareUpdating:            "Firmware Updating",
	CodeStreamingAccessError:        "Streaming Access Error",
	CodeStreamingOtherError:         "Streaming Other Error",
	CodeWrongUsername:               "Wrong Username",
	CodeWrongPassword:               "Wrong Password",
	CodeAccountExpired:              "Account Expired",
	CodeAccountDisconnected:         "Account Disconnected",
	CodeLimitReached:                "Limit Reached",
	CodeServerMaintenance:           "Server Maintenance",
	CodeInvalidAccount:              "Invalid Account",
	CodeLicenseError:                "License Error",
	CodeReadOnlyMode:                "Read Only Mode",
	CodeMaxStationsReached:          "Max Stations Reached",
	CodeAccessDenied:                "Access Denied",
	CodePlaylistDestinationRequired: "Playlist Destination Required",
	CodeNewPlaylistRequired:         "New Playlist Required",
	CodeSimultaneousLoginLimit:      "Simultaneous Login Limit",
	CodeLinkingInProgress:           "Linking in progress",
	CodeUnlinkingInProgress:         "Unlinking in progress",
}

// Known reports whether the code is in the vendor table
func (c ResponseCode) Known() bool {
	_, ok := responseMessages[c]
	return ok
}

// Message returns the code followed by its vendor description (e.g., "5 Guarded")
func (c ResponseCode) Message() string {
	if msg, ok := responseMessages[c]; ok {
		return fmt.Sprintf("%d %s", int(c), msg)
	}
	return fmt.Sprintf("%d Unknown Error Code", int(c))
}

// String implements fmt.Stringer
func (c ResponseCode) String() string {
	return c.Message()
}

// Err returns nil for CodeOK and a vendor *DeviceError otherwise
func (c ResponseCode) Err() error {
	if c == CodeOK {
		return nil
	}
	return NewVendorError(c)
}

// ParseResponseCode extracts response_code from a reply body. A body that is
// not a JSON object or lacks response_code is a parse error.
func ParseResponseCode(body []byte) (ResponseCode, error) {
	var envelope struct {
		ResponseCode *int `json:"response_code"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return 0, NewParseError("Invalid Response", err)
	}
	if envelope.ResponseCode == nil {
		return 0, NewParseError("Invalid Response (missing response_code)", nil)
	}
	return ResponseCode(*envelope.ResponseCode), nil
}
