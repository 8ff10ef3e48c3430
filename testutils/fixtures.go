package testutils

// Canned management-interface payloads in the shapes the device actually
// produces: mixed string/number fields, textual rates, "unknown" IPs.

// FirmwareData is the data payload of the firmware form.
const FirmwareData = `{
	"model": "TL-WPA4220",
	"firmware_version": "4.0.3 Build 20230207 Rel.52757",
	"hardware_version": "TL-WPA4220 v4.0"
}`

// WlanStatusData is the data payload of the wireless_status form. Channels
// mix number and string on purpose.
const WlanStatusData = `{
	"wireless_2g_ssid": "Heimnetz",
	"wireless_2g_channel": 6,
	"wireless_2g_enable": "on",
	"wireless_2g_macaddr": "AA-BB-CC-00-11-22",
	"wireless_2g_pwd": "supersecret24",
	"wireless_5g_ssid": "Heimnetz_5G",
	"wireless_5g_channel": "36",
	"wireless_5g_enable": "off",
	"wireless_5g_macaddr": "AA-BB-CC-00-11-23",
	"wireless_5g_pwd": "supersecret5"
}`

// WifiClientsData is the data payload of the wifi_clients form.
const WifiClientsData = `[
	{"mac": "AA-BB-CC-DD-EE-01", "devName": "laptop", "ip": "192.168.1.50", "type": "2.4GHz", "rxpkts": 5200, "txpkts": "4800"},
	{"mac": "aa:bb:cc:dd:ee:02", "devName": "phone", "ip": "unknown", "type": "5GHz", "rxpkts": 300, "txpkts": 150},
	{"mac": "AA:BB:CC:DD:EE:03", "name": "tablet", "ip": "192.168.1.52", "type": "2.4GHz", "rxpkts": "90", "txpkts": 10}
]`

// PlcDeviceData is the data payload of the plc_device form. One peer
// reports textual rates.
const PlcDeviceData = `[
	{"device_mac": "10-27-F5-11-22-33", "rx_rate": 287, "tx_rate": 202},
	{"device_mac": "10-27-F5-44-55-66", "rx_rate": "95 Mbps", "tx_rate": "120 Mbps"}
]`

// GetValidTestMAC returns a valid MAC address for testing
func GetValidTestMAC() string {
	return "aa:bb:cc:dd:ee:01"
}

// GetTestPassword returns the password the mock device accepts by default.
func GetTestPassword() string {
	return "admin"
}
