// Package metrics computes derived values from a status snapshot. Every
// function here is pure and total: a nil snapshot or malformed sub-fields
// degrade to empty/no-value results, never to an error.
package metrics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mbrandt/tplink-wpa-monitor/internal/status"
	"github.com/mbrandt/tplink-wpa-monitor/internal/wpa"
)

// PLCDegradedThreshold is the rate in Mbit/s below which a powerline link
// counts as degraded.
const PLCDegradedThreshold = 100

// DefaultTopN bounds the top-clients-by-traffic list unless configured.
const DefaultTopN = 12

// Band selects which radio a client metric applies to.
type Band string

const (
	BandAny Band = ""
	Band24  Band = "2.4"
	Band5   Band = "5"
)

// MatchesBand classifies a raw band tag. 2.4 GHz matches any tag
// containing "2.4". 5 GHz requires a "5" plus a GHz-style qualifier, so
// that tags like "2.45" or bare revision strings containing a 5 do not
// count. The qualifier rule is deliberate: firmware tags vary between
// "5GHz", "5 GHz" and "Wireless 5G".
func MatchesBand(tag string, band Band) bool {
	t := strings.ToLower(strings.TrimSpace(tag))
	switch band {
	case BandAny:
		return true
	case Band24:
		return strings.Contains(t, "2.4")
	case Band5:
		if !strings.Contains(t, "5") {
			return false
		}
		return strings.Contains(t, "ghz") || strings.Contains(t, " 5g") || strings.HasSuffix(t, "5g")
	}
	return false
}

func clientsFor(s *status.Snapshot, band Band) []wpa.WifiClient {
	if s == nil {
		return nil
	}
	var out []wpa.WifiClient
	for _, c := range s.Clients {
		if MatchesBand(c.Band, band) {
			out = append(out, c)
		}
	}
	return out
}

// ClientCount counts associated stations, optionally restricted to a band.
func ClientCount(s *status.Snapshot, band Band) int {
	return len(clientsFor(s, band))
}

// ClientsWithIP counts stations whose IP is known: present, non-empty and
// not the literal "unknown".
func ClientsWithIP(s *status.Snapshot) int {
	n := 0
	for _, c := range clientsFor(s, BandAny) {
		if c.IP != "" && !strings.EqualFold(c.IP, "unknown") {
			n++
		}
	}
	return n
}

// ClientNames returns the sorted, de-duplicated display names on a band.
func ClientNames(s *status.Snapshot, band Band) []string {
	seen := make(map[string]struct{})
	for _, c := range clientsFor(s, band) {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	return sortedKeys(seen)
}

// ClientMACs returns the sorted, de-duplicated normalized MACs on a band.
func ClientMACs(s *status.Snapshot, band Band) []string {
	seen := make(map[string]struct{})
	for _, c := range clientsFor(s, band) {
		if mac := wpa.NormalizeMAC(c.MAC); mac != "" {
			seen[mac] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// PLCPeerMACs returns the sorted distinct normalized peer MACs.
func PLCPeerMACs(s *status.Snapshot) []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, p := range s.PLCPeers {
		if mac := wpa.NormalizeMAC(p.MAC); mac != "" {
			seen[mac] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// PLCPeerCount counts distinct powerline peers.
func PLCPeerCount(s *status.Snapshot) int {
	return len(PLCPeerMACs(s))
}

var rateToken = regexp.MustCompile(`\d+`)

// parseRate extracts the first numeric token from a rate field, which may
// be a bare number ("287") or text with a unit ("287 Mbps"). The second
// return is false when no numeric value is present.
func parseRate(raw string) (int, bool) {
	m := rateToken.FindString(raw)
	if m == "" {
		return 0, false
	}
	n := 0
	for _, d := range m {
		n = n*10 + int(d-'0')
	}
	return n, true
}

func rateExtreme(s *status.Snapshot, tx bool, min bool) (int, bool) {
	if s == nil {
		return 0, false
	}
	best := 0
	found := false
	for _, p := range s.PLCPeers {
		raw := p.RxRate
		if tx {
			raw = p.TxRate
		}
		v, ok := parseRate(raw)
		if !ok {
			continue
		}
		if !found || (min && v < best) || (!min && v > best) {
			best = v
			found = true
		}
	}
	return best, found
}

// PLCMaxRx returns the highest receive rate over all peers in Mbit/s.
// The second return is false when no peer reported a numeric rate.
func PLCMaxRx(s *status.Snapshot) (int, bool) { return rateExtreme(s, false, false) }

// PLCMinRx returns the lowest receive rate over all peers.
func PLCMinRx(s *status.Snapshot) (int, bool) { return rateExtreme(s, false, true) }

// PLCMaxTx returns the highest transmit rate over all peers.
func PLCMaxTx(s *status.Snapshot) (int, bool) { return rateExtreme(s, true, false) }

// PLCMinTx returns the lowest transmit rate over all peers.
func PLCMinTx(s *status.Snapshot) (int, bool) { return rateExtreme(s, true, true) }

// PLCDegraded reports whether the worst rate across all peers and both
// directions is below PLCDegradedThreshold. With no numeric rates at all
// the link is not considered degraded.
func PLCDegraded(s *status.Snapshot) bool {
	minRx, okRx := PLCMinRx(s)
	minTx, okTx := PLCMinTx(s)
	switch {
	case okRx && okTx:
		if minTx < minRx {
			minRx = minTx
		}
	case okTx:
		minRx = minTx
	case !okRx:
		return false
	}
	return minRx < PLCDegradedThreshold
}

// ClientTraffic is one row of the top-N-by-traffic list. Packets is a
// human-readable summary; the raw sort key is intentionally not exposed.
type ClientTraffic struct {
	Name    string `json:"name"`
	MAC     string `json:"mac"`
	IP      string `json:"ip"`
	Band    string `json:"band"`
	Packets string `json:"pkts"`
}

// TopClientsByTraffic returns up to n clients of the selected band, sorted
// descending by total packet count (receive plus transmit).
func TopClientsByTraffic(s *status.Snapshot, band Band, n int) []ClientTraffic {
	if n <= 0 {
		return nil
	}

	type ranked struct {
		row   ClientTraffic
		total int64
	}

	clients := clientsFor(s, band)
	rows := make([]ranked, 0, len(clients))
	for _, c := range clients {
		mac := wpa.NormalizeMAC(c.MAC)
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = mac
		}
		rows = append(rows, ranked{
			row: ClientTraffic{
				Name:    name,
				MAC:     mac,
				IP:      c.IP,
				Band:    c.Band,
				Packets: fmt.Sprintf("(%.1fk, %.1fk)", float64(c.RxPkts)/1000, float64(c.TxPkts)/1000),
			},
			total: c.RxPkts + c.TxPkts,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].total > rows[j].total
	})

	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]ClientTraffic, len(rows))
	for i, r := range rows {
		out[i] = r.row
	}
	return out
}

func bandStatus(s *status.Snapshot, band Band) wpa.BandStatus {
	if s == nil {
		return wpa.BandStatus{}
	}
	if band == Band5 {
		return s.Wlan.Band5
	}
	return s.Wlan.Band24
}

// SSID passes through the SSID of the selected band.
func SSID(s *status.Snapshot, band Band) string {
	return bandStatus(s, band).SSID
}

// Channel passes through the channel of the selected band.
func Channel(s *status.Snapshot, band Band) string {
	return bandStatus(s, band).Channel
}

// BandEnabled passes through the enabled flag of the selected band.
func BandEnabled(s *status.Snapshot, band Band) bool {
	return bandStatus(s, band).Enabled
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
