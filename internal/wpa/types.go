package wpa

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FirmwareInfo identifies the device hardware and software revision.
type FirmwareInfo struct {
	Model           string `json:"model"`
	FirmwareVersion string `json:"firmware_version"`
	HardwareVersion string `json:"hardware_version"`
}

// BandStatus describes one Wi-Fi radio (2.4 GHz or 5 GHz).
type BandStatus struct {
	SSID       string `json:"ssid"`
	Channel    string `json:"channel"`
	Enabled    bool   `json:"enabled"`
	MACAddress string `json:"macaddr"`
	Passphrase string `json:"passphrase"`
}

// WlanStatus holds both radios of the extender.
type WlanStatus struct {
	Band24 BandStatus `json:"band_24"`
	Band5  BandStatus `json:"band_5"`
}

// WifiClient is one station associated with either radio. Band carries the
// device's raw band tag ("2.4GHz", "5GHz", firmware-dependent).
type WifiClient struct {
	MAC    string `json:"mac"`
	Name   string `json:"name"`
	IP     string `json:"ip"`
	Band   string `json:"band"`
	RxPkts int64  `json:"rxpkts"`
	TxPkts int64  `json:"txpkts"`
}

// PlcPeer is one powerline link partner. Rates are kept verbatim: depending
// on firmware they arrive as bare numbers or as text like "287 Mbps".
type PlcPeer struct {
	MAC    string `json:"device_mac"`
	RxRate string `json:"rx_rate"`
	TxRate string `json:"tx_rate"`
}

// NormalizeMAC canonicalizes a MAC address for comparison and display:
// trimmed, lowercased, "-" separators replaced with ":".
func NormalizeMAC(mac string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(mac)), "-", ":")
}

// flexString decodes a JSON string, number, bool or null into a string.
// The device mixes these freely, e.g. channel 11 vs channel "11".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	// Numbers and booleans keep their literal text.
	*s = flexString(string(b))
	return nil
}

// flexInt decodes a JSON number or numeric string. Anything else (including
// garbage the firmware occasionally emits) counts as zero rather than
// failing the whole response.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		if i, err := num.Int64(); err == nil {
			*n = flexInt(i)
			return nil
		}
		if f, err := num.Float64(); err == nil {
			*n = flexInt(int64(f))
			return nil
		}
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if i, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64); err == nil {
			*n = flexInt(i)
			return nil
		}
	}
	*n = 0
	return nil
}

// Wire shapes. The management interface has no formal contract, so every
// field is decoded leniently.

type rawFirmware struct {
	Model           flexString `json:"model"`
	FirmwareVersion flexString `json:"firmware_version"`
	HardwareVersion flexString `json:"hardware_version"`
}

type rawWlanStatus struct {
	SSID24    flexString `json:"wireless_2g_ssid"`
	Channel24 flexString `json:"wireless_2g_channel"`
	Enable24  flexString `json:"wireless_2g_enable"`
	MAC24     flexString `json:"wireless_2g_macaddr"`
	Pwd24     flexString `json:"wireless_2g_pwd"`
	SSID5     flexString `json:"wireless_5g_ssid"`
	Channel5  flexString `json:"wireless_5g_channel"`
	Enable5   flexString `json:"wireless_5g_enable"`
	MAC5      flexString `json:"wireless_5g_macaddr"`
	Pwd5      flexString `json:"wireless_5g_pwd"`
}

type rawWifiClient struct {
	MAC     flexString `json:"mac"`
	DevName flexString `json:"devName"`
	Name    flexString `json:"name"`
	IP      flexString `json:"ip"`
	Type    flexString `json:"type"`
	RxPkts  flexInt    `json:"rxpkts"`
	TxPkts  flexInt    `json:"txpkts"`
}

// rawClientList tolerates the singleton ambiguity: with exactly one
// associated station some firmwares return a bare object instead of a
// one-element array.
type rawClientList []rawWifiClient

func (l *rawClientList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var list []rawWifiClient
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var single rawWifiClient
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	*l = rawClientList{single}
	return nil
}

type rawPlcPeer struct {
	DeviceMAC flexString `json:"device_mac"`
	RxRate    flexString `json:"rx_rate"`
	TxRate    flexString `json:"tx_rate"`
}

// rawPeerList has the same singleton tolerance as rawClientList.
type rawPeerList []rawPlcPeer

func (l *rawPeerList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var list []rawPlcPeer
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var single rawPlcPeer
	if err := json.Unmarshal(b, &single); err != nil {
		return err
	}
	*l = rawPeerList{single}
	return nil
}
