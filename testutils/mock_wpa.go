package testutils

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockDeviceServer simulates a TL-WPA4220 web management interface:
// cookie-session login, form-keyed reads, loosely typed JSON payloads.
type MockDeviceServer struct {
	Server *httptest.Server
	URL    string

	mu          sync.Mutex
	password    string
	loginCount  int
	logoutCount int
	failForms   map[string]bool
	data        map[string]string
}

const sessionCookie = "wpa_sid"

// NewMockDeviceServer starts a mock device with the factory password and
// the fixture payloads. Callers must Close it.
func NewMockDeviceServer() *MockDeviceServer {
	m := &MockDeviceServer{
		password:  "admin",
		failForms: make(map[string]bool),
		data: map[string]string{
			"firmware":        FirmwareData,
			"wireless_status": WlanStatusData,
			"wifi_clients":    WifiClientsData,
			"plc_device":      PlcDeviceData,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", m.handleLogin)
	mux.HandleFunc("/logout", m.handleLogout)
	mux.HandleFunc("/admin/status", m.handleRead)
	mux.HandleFunc("/admin/wireless", m.handleRead)
	mux.HandleFunc("/admin/powerline", m.handleRead)

	m.Server = httptest.NewServer(mux)
	m.URL = m.Server.URL
	return m
}

// Close shuts down the mock server.
func (m *MockDeviceServer) Close() {
	m.Server.Close()
}

// SetPassword changes the password the device accepts.
func (m *MockDeviceServer) SetPassword(pwd string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.password = pwd
}

// SetFormData replaces the data payload served for a form.
func (m *MockDeviceServer) SetFormData(form, rawJSON string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[form] = rawJSON
}

// FailForm makes reads of one form answer with HTTP 500.
func (m *MockDeviceServer) FailForm(form string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failForms[form] = true
}

// LoginCount reports how many login attempts the device saw.
func (m *MockDeviceServer) LoginCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginCount
}

// LogoutCount reports how many logout requests the device saw.
func (m *MockDeviceServer) LogoutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutCount
}

func (m *MockDeviceServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.loginCount++
	want := m.password
	m.mu.Unlock()

	got, err := base64.StdEncoding.DecodeString(r.PostFormValue("password"))
	w.Header().Set("Content-Type", "application/json")
	if err != nil || string(got) != want {
		fmt.Fprint(w, `{"success": false, "errorcode": "login failed"}`)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookie,
		Value: "mock-session-token",
		Path:  "/",
	})
	fmt.Fprint(w, `{"success": true}`)
}

func (m *MockDeviceServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.logoutCount++
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"success": true}`)
}

func (m *MockDeviceServer) handleRead(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(sessionCookie); err != nil {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": false, "errorcode": "timeout"}`)
		return
	}

	form := r.URL.Query().Get("form")

	m.mu.Lock()
	fail := m.failForms[form]
	payload, ok := m.data[form]
	m.mu.Unlock()

	if fail {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": false, "errorcode": "no such form"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"success": true, "data": %s}`, payload)
}
