package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/status"
)

func TestAPIClient_GetStatus(t *testing.T) {
	want := status.State{
		Clock:   time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
		Battery: &status.BatterySample{Percent: 57.5, EnergyWh: 28.7, FullWh: 50, State: "Discharging"},
		Levels:  status.Levels{Volume: 0.4},
		Toggles: status.Toggles{IdleInhibit: true},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	got, err := newAPIClient(srv.URL).GetStatus()
	if err != nil {
		t.Fatalf("GetStatus() error = %v", err)
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("GetStatus() mismatch (-want +got):\n%s", diff)
	}
}

func TestAPIClient_GetServerInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(backend.ServerDeviceInfo{
			App:      "dwsh",
			Session:  backend.SessionInfo{Dispatcher: "exec"},
			Backends: backend.Backends{Login1: true},
		})
	}))
	defer srv.Close()

	got, err := newAPIClient(srv.URL).GetServerInfo()
	if err != nil {
		t.Fatal(err)
	}
	if got.App != "dwsh" || got.Session.Dispatcher != "exec" || !got.Backends.Login1 {
		t.Errorf("GetServerInfo() = %+v", got)
	}
}

func TestAPIClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/server":
			_, _ = w.Write([]byte("{not json"))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL)
	if _, err := c.GetStatus(); err == nil {
		t.Error("GetStatus() should fail on a 502")
	}
	if _, err := c.GetServerInfo(); err == nil {
		t.Error("GetServerInfo() should fail on invalid JSON")
	}

	srv.Close()
	if _, err := c.GetStatus(); err == nil {
		t.Error("GetStatus() should fail when the daemon is down")
	}
}

func TestNewAPIClient(t *testing.T) {
	c := NewAPIClient(8018)
	if c.baseURL != "http://127.0.0.1:8018" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
