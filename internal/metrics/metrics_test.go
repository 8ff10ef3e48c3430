package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrandt/tplink-wpa-monitor/internal/status"
	"github.com/mbrandt/tplink-wpa-monitor/internal/wpa"
)

func sampleSnapshot() *status.Snapshot {
	return &status.Snapshot{
		Firmware: wpa.FirmwareInfo{Model: "TL-WPA4220"},
		Wlan: wpa.WlanStatus{
			Band24: wpa.BandStatus{SSID: "net24", Channel: "6", Enabled: true},
			Band5:  wpa.BandStatus{SSID: "net5", Channel: "36", Enabled: false},
		},
		Clients: []wpa.WifiClient{
			{MAC: "AA-BB-CC-DD-EE-01", Name: "laptop", IP: "192.168.1.50", Band: "2.4GHz", RxPkts: 300, TxPkts: 200},
			{MAC: "aa:bb:cc:dd:ee:02", Name: "phone", IP: "unknown", Band: "5GHz", RxPkts: 200, TxPkts: 100},
			{MAC: "AA:BB:CC:DD:EE:03", Name: "tablet", IP: "", Band: "something else", RxPkts: 70, TxPkts: 30},
		},
		PLCPeers: []wpa.PlcPeer{
			{MAC: "10-27-F5-11-22-33", RxRate: "80", TxRate: "120"},
			{MAC: "10-27-F5-44-55-66", RxRate: "150", TxRate: "90"},
		},
	}
}

func TestMatchesBand(t *testing.T) {
	tests := []struct {
		tag  string
		band Band
		want bool
	}{
		{"2.4GHz", Band24, true},
		{"Wireless 2.4G", Band24, true},
		{"5GHz", Band24, false},
		{"5GHz", Band5, true},
		{"5 GHz", Band5, true},
		{"Wireless 5G", Band5, true},
		// "2.4" contains a 5 but has no GHz qualifier attached to it...
		// it does contain "ghz" in the full tag, so the interesting cases
		// are the bare ones.
		{"2.45", Band5, false},
		{"channel 5", Band5, false},
		{"", Band5, false},
		{"anything", BandAny, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesBand(tt.tag, tt.band), "tag %q band %q", tt.tag, tt.band)
	}
}

func TestClientCounts(t *testing.T) {
	s := sampleSnapshot()

	// One 2.4 GHz, one 5 GHz, one ambiguous: totals must add up.
	assert.Equal(t, 3, ClientCount(s, BandAny))
	assert.Equal(t, 1, ClientCount(s, Band24))
	assert.Equal(t, 1, ClientCount(s, Band5))
}

func TestClientCountsNilSnapshot(t *testing.T) {
	assert.Equal(t, 0, ClientCount(nil, BandAny))
	assert.Equal(t, 0, ClientsWithIP(nil))
	assert.Equal(t, 0, PLCPeerCount(nil))
	assert.False(t, PLCDegraded(nil))
	assert.Empty(t, TopClientsByTraffic(nil, BandAny, 12))
	assert.Equal(t, "", SSID(nil, Band24))
}

func TestClientsWithIP(t *testing.T) {
	s := sampleSnapshot()

	// "unknown" and "" do not count as known IPs.
	assert.Equal(t, 1, ClientsWithIP(s))

	s.Clients = append(s.Clients, wpa.WifiClient{MAC: "aa:bb:cc:dd:ee:04", IP: "192.168.1.60", Band: "5GHz"})
	assert.Equal(t, 2, ClientsWithIP(s))
}

func TestClientNamesAndMACs(t *testing.T) {
	s := sampleSnapshot()

	assert.Equal(t, []string{"laptop", "phone", "tablet"}, ClientNames(s, BandAny))
	assert.Equal(t,
		[]string{"aa:bb:cc:dd:ee:01", "aa:bb:cc:dd:ee:02", "aa:bb:cc:dd:ee:03"},
		ClientMACs(s, BandAny))
}

func TestPLCPeerCountDeduplicates(t *testing.T) {
	s := sampleSnapshot()
	assert.Equal(t, 2, PLCPeerCount(s))

	// Same peer under a different separator style counts once.
	s.PLCPeers = append(s.PLCPeers, wpa.PlcPeer{MAC: "10:27:f5:11:22:33", RxRate: "80", TxRate: "80"})
	assert.Equal(t, 2, PLCPeerCount(s))
}

func TestPLCRateExtremes(t *testing.T) {
	s := sampleSnapshot()

	v, ok := PLCMaxRx(s)
	require.True(t, ok)
	assert.Equal(t, 150, v)

	v, ok = PLCMaxTx(s)
	require.True(t, ok)
	assert.Equal(t, 120, v)

	v, ok = PLCMinRx(s)
	require.True(t, ok)
	assert.Equal(t, 80, v)

	v, ok = PLCMinTx(s)
	require.True(t, ok)
	assert.Equal(t, 90, v)
}

func TestPLCRateExtremesTextualRates(t *testing.T) {
	s := &status.Snapshot{
		PLCPeers: []wpa.PlcPeer{
			{MAC: "10-27-F5-11-22-33", RxRate: "287 Mbps", TxRate: "202 Mbps"},
		},
	}

	v, ok := PLCMaxRx(s)
	require.True(t, ok)
	assert.Equal(t, 287, v)
}

func TestPLCRateExtremesEmpty(t *testing.T) {
	s := &status.Snapshot{}

	// No peers means no value, not zero.
	for _, fn := range []func(*status.Snapshot) (int, bool){PLCMaxRx, PLCMaxTx, PLCMinRx, PLCMinTx} {
		_, ok := fn(s)
		assert.False(t, ok)
	}

	// Peers without numeric rates also yield no value.
	s.PLCPeers = []wpa.PlcPeer{{MAC: "10-27-F5-11-22-33", RxRate: "n/a", TxRate: ""}}
	_, ok := PLCMinRx(s)
	assert.False(t, ok)
}

func TestPLCDegraded(t *testing.T) {
	s := sampleSnapshot()

	// Worst rate over both directions is 80, below the 100 threshold.
	assert.True(t, PLCDegraded(s))

	s.PLCPeers = []wpa.PlcPeer{
		{MAC: "10-27-F5-11-22-33", RxRate: "150", TxRate: "120"},
	}
	assert.False(t, PLCDegraded(s))

	// No numeric rates at all: not degraded, just unknown.
	s.PLCPeers = nil
	assert.False(t, PLCDegraded(s))
}

func TestTopClientsByTraffic(t *testing.T) {
	s := &status.Snapshot{
		Clients: []wpa.WifiClient{
			{MAC: "AA-BB-CC-DD-EE-01", Name: "laptop", IP: "192.168.1.50", Band: "2.4GHz", RxPkts: 300, TxPkts: 200},
			{MAC: "aa:bb:cc:dd:ee:02", Name: "phone", IP: "unknown", Band: "5GHz", RxPkts: 200, TxPkts: 100},
			{MAC: "AA:BB:CC:DD:EE:03", Name: "tablet", IP: "", Band: "2.4GHz", RxPkts: 70, TxPkts: 30},
		},
	}

	top := TopClientsByTraffic(s, BandAny, 2)
	require.Len(t, top, 2)

	// Sorted descending by total packets (500, 300, 100), truncated to 2.
	assert.Equal(t, "laptop", top[0].Name)
	assert.Equal(t, "aa:bb:cc:dd:ee:01", top[0].MAC)
	assert.Equal(t, "phone", top[1].Name)

	assert.Equal(t, "(0.3k, 0.2k)", top[0].Packets)

	assert.Empty(t, TopClientsByTraffic(s, BandAny, 0))
	assert.Len(t, TopClientsByTraffic(s, BandAny, 10), 3)
	assert.Len(t, TopClientsByTraffic(s, Band24, 10), 2)
}

func TestBandPassThrough(t *testing.T) {
	s := sampleSnapshot()

	assert.Equal(t, "net24", SSID(s, Band24))
	assert.Equal(t, "net5", SSID(s, Band5))
	assert.Equal(t, "6", Channel(s, Band24))
	assert.Equal(t, "36", Channel(s, Band5))
	assert.True(t, BandEnabled(s, Band24))
	assert.False(t, BandEnabled(s, Band5))
}

func TestRegistry(t *testing.T) {
	s := sampleSnapshot()
	registry := Registry(2)

	for _, name := range []string{
		"wifi_clients_total", "wifi_clients_24", "wifi_clients_5",
		"wifi_clients_with_ip", "plc_peers",
		"plc_max_rx", "plc_max_tx", "plc_min_rx", "plc_min_tx",
		"plc_degraded",
		"wifi_ssid_24", "wifi_ssid_5", "wifi_channel_24", "wifi_channel_5",
		"wifi_enabled_24", "wifi_enabled_5",
	} {
		require.Contains(t, registry, name)
	}

	v := registry["wifi_clients_total"](s)
	assert.Equal(t, 3, v.State)
	require.Contains(t, v.Attributes, "wifi_top2_by_packets")

	top, ok := v.Attributes["wifi_top2_by_packets"].([]ClientTraffic)
	require.True(t, ok)
	assert.Len(t, top, 2)

	v = registry["plc_min_rx"](s)
	assert.Equal(t, 80, v.State)

	// Registry functions are total over missing data: no value, no panic.
	empty := &status.Snapshot{}
	v = registry["plc_min_rx"](empty)
	assert.Nil(t, v.State)
	v = registry["plc_degraded"](empty)
	assert.Equal(t, false, v.State)
}
