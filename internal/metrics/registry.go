package metrics

import (
	"fmt"

	"github.com/mbrandt/tplink-wpa-monitor/internal/status"
)

// Value is one computed metric: a scalar state (nil when there is no
// value) plus optional auxiliary attributes for the host to attach.
type Value struct {
	State      interface{}
	Attributes map[string]interface{}
}

// Func computes one named metric from the current snapshot.
type Func func(*status.Snapshot) Value

// Registry returns the fixed set of named metrics as independent functions
// over the snapshot. Hosts iterate this table to build their entities; no
// metric carries state of its own.
func Registry(topN int) map[string]Func {
	if topN <= 0 {
		topN = DefaultTopN
	}

	scalar := func(v interface{}) Value { return Value{State: v} }
	optional := func(v int, ok bool) Value {
		if !ok {
			return Value{}
		}
		return Value{State: v}
	}

	return map[string]Func{
		"wifi_clients_total": func(s *status.Snapshot) Value {
			return Value{
				State: ClientCount(s, BandAny),
				Attributes: map[string]interface{}{
					"wifi_client_names": ClientNames(s, BandAny),
					fmt.Sprintf("wifi_top%d_by_packets", topN): TopClientsByTraffic(s, BandAny, topN),
				},
			}
		},
		"wifi_clients_24": func(s *status.Snapshot) Value {
			return Value{
				State: ClientCount(s, Band24),
				Attributes: map[string]interface{}{
					"wifi_24_client_names": ClientNames(s, Band24),
					fmt.Sprintf("wifi_24_top%d_by_packets", topN): TopClientsByTraffic(s, Band24, topN),
				},
			}
		},
		"wifi_clients_5": func(s *status.Snapshot) Value {
			return Value{
				State: ClientCount(s, Band5),
				Attributes: map[string]interface{}{
					"wifi_5_client_names": ClientNames(s, Band5),
					fmt.Sprintf("wifi_5_top%d_by_packets", topN): TopClientsByTraffic(s, Band5, topN),
				},
			}
		},
		"wifi_clients_with_ip": func(s *status.Snapshot) Value {
			return scalar(ClientsWithIP(s))
		},
		"plc_peers": func(s *status.Snapshot) Value {
			return Value{
				State: PLCPeerCount(s),
				Attributes: map[string]interface{}{
					"plc_peers_macs": PLCPeerMACs(s),
				},
			}
		},
		"plc_max_rx": func(s *status.Snapshot) Value { return optional(PLCMaxRx(s)) },
		"plc_max_tx": func(s *status.Snapshot) Value { return optional(PLCMaxTx(s)) },
		"plc_min_rx": func(s *status.Snapshot) Value { return optional(PLCMinRx(s)) },
		"plc_min_tx": func(s *status.Snapshot) Value { return optional(PLCMinTx(s)) },
		"plc_degraded": func(s *status.Snapshot) Value {
			return scalar(PLCDegraded(s))
		},
		"wifi_ssid_24": func(s *status.Snapshot) Value { return scalar(SSID(s, Band24)) },
		"wifi_ssid_5":  func(s *status.Snapshot) Value { return scalar(SSID(s, Band5)) },
		"wifi_channel_24": func(s *status.Snapshot) Value {
			return scalar(Channel(s, Band24))
		},
		"wifi_channel_5": func(s *status.Snapshot) Value {
			return scalar(Channel(s, Band5))
		},
		"wifi_enabled_24": func(s *status.Snapshot) Value {
			return scalar(BandEnabled(s, Band24))
		},
		"wifi_enabled_5": func(s *status.Snapshot) Value {
			return scalar(BandEnabled(s, Band5))
		},
	}
}
