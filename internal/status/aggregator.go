package status

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mbrandt/tplink-wpa-monitor/internal/wpa"
)

const defaultCycleTimeout = 60 * time.Second

// DeviceClient is the session-scoped view of the extender used by one
// fetch cycle.
type DeviceClient interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	GetFirmwareInfo(ctx context.Context) (wpa.FirmwareInfo, error)
	GetPlcDeviceStatus(ctx context.Context) ([]wpa.PlcPeer, error)
	GetWlanStatus(ctx context.Context) (wpa.WlanStatus, error)
	GetWifiClients(ctx context.Context) ([]wpa.WifiClient, error)
}

// DeviceInfo is the identity metadata handed to the host's device registry
// after a successful cycle.
type DeviceInfo struct {
	Model           string
	FirmwareVersion string
	HardwareVersion string
	RadioMACs       []string
}

// RegistryFunc receives device identity as an opportunistic side output.
// Errors are logged at debug level and never fail the cycle.
type RegistryFunc func(DeviceInfo) error

// Aggregator runs fetch cycles against one device and publishes the result.
// Cycles against the same device are serialized: the extender has a single
// session slot and concurrent logins would evict each other.
type Aggregator struct {
	address    string
	logger     *logrus.Logger
	dispatcher *Dispatcher
	slot       *Slot
	timeout    time.Duration
	newClient  func() DeviceClient
	registry   RegistryFunc

	cycleMu sync.Mutex
}

// NewAggregator wires an aggregator for the device at address. A fresh
// client is created per cycle and discarded afterwards; no session
// survives across cycles.
func NewAggregator(address, password string, logger *logrus.Logger, dispatcher *Dispatcher) *Aggregator {
	return &Aggregator{
		address:    address,
		logger:     logger,
		dispatcher: dispatcher,
		slot:       NewSlot(),
		timeout:    defaultCycleTimeout,
		newClient: func() DeviceClient {
			return wpa.NewClient(address, password, wpa.NewLogrusAdapter(logger))
		},
	}
}

// SetCycleTimeout bounds one whole cycle including login and logout.
func (a *Aggregator) SetCycleTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// SetRegistryFunc installs the host callback for device identity metadata.
func (a *Aggregator) SetRegistryFunc(fn RegistryFunc) {
	a.registry = fn
}

// SetClientFactory replaces the client constructor. Used by tests.
func (a *Aggregator) SetClientFactory(fn func() DeviceClient) {
	a.newClient = fn
}

// Address returns the device address used as dispatch key.
func (a *Aggregator) Address() string {
	return a.address
}

// Slot returns the shared last-known-status slot.
func (a *Aggregator) Slot() *Slot {
	return a.slot
}

// RunCycle executes exactly one fetch cycle: login, the four reads
// concurrently, logout. All four reads must succeed or nothing is
// published and the slot keeps its previous snapshot. Logout runs on both
// the success and the failure path and its own failure is swallowed.
func (a *Aggregator) RunCycle(ctx context.Context) error {
	a.cycleMu.Lock()
	defer a.cycleMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	client := a.newClient()
	defer func() {
		// A dedicated context: the cycle deadline may already be spent,
		// yet the session slot should still be freed if at all possible.
		logoutCtx, logoutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer logoutCancel()
		if err := client.Logout(logoutCtx); err != nil {
			a.logger.Errorf("Logout from %s failed: %v", a.address, err)
		}
	}()

	a.logger.Debugf("Cycle start for %s: logging in", a.address)
	if err := client.Login(ctx); err != nil {
		return a.failCycle(err)
	}

	var (
		firmware wpa.FirmwareInfo
		wlan     wpa.WlanStatus
		clients  []wpa.WifiClient
		peers    []wpa.PlcPeer
	)

	a.logger.Debugf("Cycle for %s: fetching", a.address)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		firmware, err = client.GetFirmwareInfo(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		peers, err = client.GetPlcDeviceStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		wlan, err = client.GetWlanStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = client.GetWifiClients(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return a.failCycle(err)
	}

	now := time.Now()
	wlan.Band24.Passphrase = maskPassphrase(now)
	wlan.Band5.Passphrase = maskPassphrase(now)

	snap := &Snapshot{
		Firmware: firmware,
		Wlan:     wlan,
		Clients:  clients,
		PLCPeers: peers,
		TakenAt:  now,
	}

	a.slot.publish(snap)
	a.dispatcher.Send(a.address)
	a.logger.Infof("Cycle for %s succeeded: %d clients, %d PLC peers",
		a.address, len(clients), len(peers))

	a.registerDevice(snap)
	return nil
}

func (a *Aggregator) failCycle(err error) error {
	a.logger.Errorf("Cycle for %s failed: %v", a.address, err)
	a.slot.fail(err.Error())
	return err
}

// registerDevice hands identity metadata to the host registry. Failures
// here never escalate.
func (a *Aggregator) registerDevice(snap *Snapshot) {
	if a.registry == nil {
		return
	}

	var macs []string
	for _, m := range []string{snap.Wlan.Band24.MACAddress, snap.Wlan.Band5.MACAddress} {
		if norm := wpa.NormalizeMAC(m); norm != "" {
			macs = append(macs, norm)
		}
	}

	info := DeviceInfo{
		Model:           snap.Firmware.Model,
		FirmwareVersion: snap.Firmware.FirmwareVersion,
		HardwareVersion: snap.Firmware.HardwareVersion,
		RadioMACs:       macs,
	}
	if err := a.registry(info); err != nil {
		a.logger.Debugf("Device registry update skipped/failed: %v", err)
	}
}

func maskPassphrase(now time.Time) string {
	return fmt.Sprintf("hidden (%s)", now.Format("2006-01-02 15:04:05"))
}
