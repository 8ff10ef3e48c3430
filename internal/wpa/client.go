package wpa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Client owns one authenticated session to a TL-WPA4220 web management
// interface. A Client is meant to live for exactly one fetch cycle:
// create, Login, read, Logout, discard. The device keeps a single session
// slot, so sessions must not be hoarded across cycles.
type Client struct {
	baseURL  string
	password string
	http     *http.Client
	logger   Logger
	loggedIn bool
}

// NewClient creates a client for the device at address (bare IP/host or
// http:// URL). No network traffic happens until Login.
func NewClient(address, password string, logger Logger) *Client {
	base := strings.TrimSpace(address)
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	base = strings.TrimRight(base, "/")

	// The session cookie set at login authenticates every later read.
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL:  base,
		password: password,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
			Jar:     jar,
		},
		logger: logger,
	}
}

// SetTimeout overrides the per-request timeout. Cycle-level deadlines are
// enforced by the caller's context on top of this.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.Timeout = d
	}
}

// apiResponse is the common envelope of the management interface.
type apiResponse struct {
	Success   bool            `json:"success"`
	ErrorCode flexString      `json:"errorcode"`
	Data      json.RawMessage `json:"data"`
}

// Login authenticates against the device. Calling Login twice without a
// Logout in between is not supported.
func (c *Client) Login(ctx context.Context) error {
	c.logger.Debugf("Logging in to WPA4220 at %s", c.baseURL)

	form := url.Values{
		"operation": {"login"},
		"password":  {base64.StdEncoding.EncodeToString([]byte(c.password))},
	}

	body, err := c.postForm(ctx, "/login?form=login", form)
	if err != nil {
		return err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &ProtocolError{Form: "login", Err: err}
	}

	if !resp.Success {
		c.logger.Errorf("Login rejected by %s: %s", c.baseURL, resp.ErrorCode)
		return &AuthenticationError{Reason: string(resp.ErrorCode)}
	}

	c.loggedIn = true
	c.logger.Infof("Logged in to WPA4220 at %s", c.baseURL)
	return nil
}

// Logout tears down the session. Best effort: the caller logs failures
// and moves on, the device expires the session on its own eventually.
func (c *Client) Logout(ctx context.Context) error {
	if !c.loggedIn {
		return nil
	}
	c.loggedIn = false

	form := url.Values{"operation": {"logout"}}
	if _, err := c.postForm(ctx, "/logout?form=logout", form); err != nil {
		return err
	}
	c.logger.Debugf("Logged out from %s", c.baseURL)
	return nil
}

// GetFirmwareInfo reads model, firmware and hardware version.
func (c *Client) GetFirmwareInfo(ctx context.Context) (FirmwareInfo, error) {
	data, err := c.read(ctx, "/admin/status", "firmware")
	if err != nil {
		return FirmwareInfo{}, err
	}

	var raw rawFirmware
	if err := json.Unmarshal(data, &raw); err != nil {
		return FirmwareInfo{}, &ProtocolError{Form: "firmware", Err: err}
	}

	return FirmwareInfo{
		Model:           strings.TrimSpace(string(raw.Model)),
		FirmwareVersion: strings.TrimSpace(string(raw.FirmwareVersion)),
		HardwareVersion: strings.TrimSpace(string(raw.HardwareVersion)),
	}, nil
}

// GetWlanStatus reads SSID, channel, enabled flag, radio MAC and passphrase
// for both bands. Passphrases come back in cleartext here; the aggregator
// masks them before anything is published.
func (c *Client) GetWlanStatus(ctx context.Context) (WlanStatus, error) {
	data, err := c.read(ctx, "/admin/wireless", "wireless_status")
	if err != nil {
		return WlanStatus{}, err
	}

	var raw rawWlanStatus
	if err := json.Unmarshal(data, &raw); err != nil {
		return WlanStatus{}, &ProtocolError{Form: "wireless_status", Err: err}
	}

	return WlanStatus{
		Band24: BandStatus{
			SSID:       string(raw.SSID24),
			Channel:    strings.TrimSpace(string(raw.Channel24)),
			Enabled:    isOn(string(raw.Enable24)),
			MACAddress: strings.TrimSpace(string(raw.MAC24)),
			Passphrase: string(raw.Pwd24),
		},
		Band5: BandStatus{
			SSID:       string(raw.SSID5),
			Channel:    strings.TrimSpace(string(raw.Channel5)),
			Enabled:    isOn(string(raw.Enable5)),
			MACAddress: strings.TrimSpace(string(raw.MAC5)),
			Passphrase: string(raw.Pwd5),
		},
	}, nil
}

// GetWifiClients reads the stations associated with either radio.
func (c *Client) GetWifiClients(ctx context.Context) ([]WifiClient, error) {
	data, err := c.read(ctx, "/admin/wireless", "wifi_clients")
	if err != nil {
		return nil, err
	}

	var raw rawClientList
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ProtocolError{Form: "wifi_clients", Err: err}
	}

	clients := make([]WifiClient, 0, len(raw))
	for _, rc := range raw {
		name := strings.TrimSpace(string(rc.DevName))
		if name == "" {
			name = strings.TrimSpace(string(rc.Name))
		}
		clients = append(clients, WifiClient{
			MAC:    strings.TrimSpace(string(rc.MAC)),
			Name:   name,
			IP:     strings.TrimSpace(string(rc.IP)),
			Band:   strings.TrimSpace(string(rc.Type)),
			RxPkts: int64(rc.RxPkts),
			TxPkts: int64(rc.TxPkts),
		})
	}
	return clients, nil
}

// GetPlcDeviceStatus reads the powerline peer links and their rates.
func (c *Client) GetPlcDeviceStatus(ctx context.Context) ([]PlcPeer, error) {
	data, err := c.read(ctx, "/admin/powerline", "plc_device")
	if err != nil {
		return nil, err
	}

	var raw rawPeerList
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ProtocolError{Form: "plc_device", Err: err}
	}

	peers := make([]PlcPeer, 0, len(raw))
	for _, rp := range raw {
		peers = append(peers, PlcPeer{
			MAC:    strings.TrimSpace(string(rp.DeviceMAC)),
			RxRate: strings.TrimSpace(string(rp.RxRate)),
			TxRate: strings.TrimSpace(string(rp.TxRate)),
		})
	}
	return peers, nil
}

// read issues one authenticated read of a management form and returns the
// raw data payload.
func (c *Client) read(ctx context.Context, path, form string) (json.RawMessage, error) {
	if !c.loggedIn {
		return nil, fmt.Errorf("not logged in")
	}

	endpoint := fmt.Sprintf("%s%s?form=%s&operation=read", c.baseURL, path, form)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for form %s: %w", form, err)
	}

	body, err := c.do(req, form)
	if err != nil {
		return nil, err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProtocolError{Form: form, Err: err}
	}
	if !resp.Success {
		return nil, &ProtocolError{Form: form, Err: fmt.Errorf("device rejected read: %s", resp.ErrorCode)}
	}

	return resp.Data, nil
}

func (c *Client) postForm(ctx context.Context, pathAndQuery string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+pathAndQuery, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	op := pathAndQuery
	if i := strings.IndexByte(op, '?'); i >= 0 {
		op = op[:i]
	}
	return c.do(req, strings.TrimPrefix(op, "/"))
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectivityError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProtocolError{Form: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{Op: op, Err: err}
	}
	return body, nil
}

func isOn(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "on")
}
