package status

import (
	"sync"
	"time"

	"github.com/mbrandt/tplink-wpa-monitor/internal/wpa"
)

// Snapshot is the immutable result of one successful fetch cycle. It is
// either fully populated or it does not exist; partial snapshots are never
// published. Consumers share the same instance and must not mutate it.
type Snapshot struct {
	Firmware wpa.FirmwareInfo
	Wlan     wpa.WlanStatus
	Clients  []wpa.WifiClient
	PLCPeers []wpa.PlcPeer
	TakenAt  time.Time
}

// State is the consumer-facing condition of the monitored device.
type State string

const (
	StateIdle      State = "idle"
	StateConnected State = "connected"
	StateError     State = "error"
)

// Slot holds the last known status: single writer (the aggregator),
// many readers (the derived-metric consumers). A failed cycle flips the
// state to error but keeps the previous snapshot; stale data beats a hole.
type Slot struct {
	mu      sync.RWMutex
	last    *Snapshot
	state   State
	lastErr string
}

// NewSlot returns an empty slot in the idle state.
func NewSlot() *Slot {
	return &Slot{state: StateIdle}
}

// Last returns the most recent snapshot, or nil before the first
// successful cycle.
func (s *Slot) Last() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// State returns the current state and, in the error state, the message of
// the failure that caused it.
func (s *Slot) State() (State, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.lastErr
}

func (s *Slot) publish(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	s.state = StateConnected
	s.lastErr = ""
}

func (s *Slot) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.lastErr = msg
}
