package signal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/nebulatalks/go-cobot/pkg/relay"
)

func TestService_LoadMissingFile(t *testing.T) {
	s := NewService(filepath.Join(t.TempDir(), "robots.json"))
	if err := s.Load(); err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(s.Robots()) != 0 {
		t.Errorf("expected empty service, got %d robots", len(s.Robots()))
	}
}

func TestService_AddSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robots.json")

	s := NewService(path)
	if err := s.Add(RobotConfig{
		ID:       "arm-2",
		Name:     "Spare arm",
		Protocol: ProtocolHTTP,
		Enabled:  true,
		URL:      "http://10.0.0.2/signal",
		Headers:  map[string]string{"Authorization": "Bearer abc"},
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(RobotConfig{ID: "arm-1", Name: "Desk arm", Protocol: ProtocolWebSocket}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reloaded := NewService(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	robots := reloaded.Robots()
	if len(robots) != 2 {
		t.Fatalf("expected 2 robots, got %d", len(robots))
	}
	// Sorted by ID
	if robots[0].ID != "arm-1" || robots[1].ID != "arm-2" {
		t.Errorf("order: got %s, %s", robots[0].ID, robots[1].ID)
	}
	if robots[1].Headers["Authorization"] != "Bearer abc" {
		t.Errorf("headers not persisted: %v", robots[1].Headers)
	}
}

func TestService_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robots.json")
	s := NewService(path)
	if err := s.Add(RobotConfig{ID: "arm-1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Remove("arm-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(s.Robots()) != 0 {
		t.Errorf("expected no robots after remove, got %d", len(s.Robots()))
	}
}

func TestService_SendHTTP(t *testing.T) {
	var got relay.SignalEnvelope
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewService(filepath.Join(t.TempDir(), "robots.json"))
	if err := s.Add(RobotConfig{
		ID:       "arm-1",
		Protocol: ProtocolHTTP,
		Enabled:  true,
		URL:      srv.URL,
		Headers:  map[string]string{"Authorization": "Bearer abc"},
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	sig := NewSignal("wave_hand", relay.CommandData{Action: "wave"})
	if delivered := s.Send(sig, ""); delivered != 1 {
		t.Fatalf("delivered: got %d, want 1", delivered)
	}

	if got.SignalType != "wave_hand" {
		t.Errorf("signalType: got %q", got.SignalType)
	}
	if got.Data.Action != "wave" {
		t.Errorf("action: got %q", got.Data.Action)
	}
	if auth != "Bearer abc" {
		t.Errorf("auth header: got %q", auth)
	}
}

func TestService_SendHTTP_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewService(filepath.Join(t.TempDir(), "robots.json"))
	if err := s.Add(RobotConfig{ID: "arm-1", Protocol: ProtocolHTTP, Enabled: true, URL: srv.URL}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if delivered := s.Send(NewSignal("wave_hand", relay.CommandData{}), ""); delivered != 0 {
		t.Errorf("delivered: got %d, want 0", delivered)
	}
}

func TestService_CommandOverride(t *testing.T) {
	var got relay.SignalEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	s := NewService(filepath.Join(t.TempDir(), "robots.json"))
	if err := s.Add(RobotConfig{
		ID:       "arm-1",
		Protocol: ProtocolHTTP,
		Enabled:  true,
		URL:      srv.URL,
		Commands: map[string]relay.CommandData{
			"wave_hand": {Action: "nod"},
		},
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	s.Send(NewSignal("wave_hand", relay.CommandData{Action: "wave"}), "")

	if got.Data.Action != "nod" {
		t.Errorf("override not applied: got action %q, want nod", got.Data.Action)
	}
}

func TestService_SendSkipsDisabled(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	s := NewService(filepath.Join(t.TempDir(), "robots.json"))
	if err := s.Add(RobotConfig{ID: "arm-1", Protocol: ProtocolHTTP, Enabled: false, URL: srv.URL}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if delivered := s.Send(NewSignal("wave_hand", relay.CommandData{}), ""); delivered != 0 {
		t.Errorf("delivered: got %d, want 0", delivered)
	}
	if hits != 0 {
		t.Errorf("disabled robot was contacted %d times", hits)
	}
}

func TestService_SendByID_ReachesDisabled(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	s := NewService(filepath.Join(t.TempDir(), "robots.json"))
	if err := s.Add(RobotConfig{ID: "arm-1", Protocol: ProtocolHTTP, Enabled: false, URL: srv.URL}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if delivered := s.Send(NewSignal("wave_hand", relay.CommandData{}), "arm-1"); delivered != 1 {
		t.Errorf("delivered: got %d, want 1", delivered)
	}
	if hits != 1 {
		t.Errorf("expected 1 hit, got %d", hits)
	}
}

func TestService_UnknownProtocol(t *testing.T) {
	s := NewService(filepath.Join(t.TempDir(), "robots.json"))
	if err := s.Add(RobotConfig{ID: "arm-1", Protocol: "carrier-pigeon", Enabled: true}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if delivered := s.Send(NewSignal("wave_hand", relay.CommandData{}), ""); delivered != 0 {
		t.Errorf("delivered: got %d, want 0", delivered)
	}
}
