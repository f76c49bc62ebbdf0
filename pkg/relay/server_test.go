package relay

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nebulatalks/go-cobot/pkg/gesture"
	"github.com/nebulatalks/go-cobot/pkg/mycobot"
)

// stubDriver answers every command without hardware.
type stubDriver struct {
	powered    bool
	angleCalls int
	coordCalls int
}

func (d *stubDriver) SendAngles([mycobot.NumJoints]float64, int) error {
	d.angleCalls++
	return nil
}

func (d *stubDriver) SendAngle(int, float64, int) error { return nil }

func (d *stubDriver) GetAngles() ([mycobot.NumJoints]float64, error) {
	return [mycobot.NumJoints]float64{}, nil
}

func (d *stubDriver) SendCoords([mycobot.NumJoints]float64, int, int) error {
	d.coordCalls++
	return nil
}

func (d *stubDriver) PowerOn() error  { d.powered = true; return nil }
func (d *stubDriver) PowerOff() error { d.powered = false; return nil }

func (d *stubDriver) IsPoweredOn() (bool, error) { return d.powered, nil }

func (d *stubDriver) Version() (string, error) { return "1.2", nil }

func (d *stubDriver) JointLimits(joint int) (mycobot.JointLimit, error) {
	return mycobot.JointLimits(joint)
}

func newTestServer(t *testing.T) (*Server, *stubDriver) {
	t.Helper()
	driver := &stubDriver{powered: true}
	gestures := gesture.NewRegistry()
	gestures.LoadBuiltIn()
	return NewServer("0.0.0.0:8765", driver, gestures), driver
}

func TestHandleMessage_RoundTrip(t *testing.T) {
	srv, driver := newTestServer(t)

	req := `{"signalType":"manual","timestamp":"2025-01-01T00:00:00Z",` +
		`"data":{"action":"send_angles","angles":[0,-30,60,-90,90,0],"speed":30}}`

	var resp ResponseEnvelope
	if err := json.Unmarshal(srv.handleMessage([]byte(req)), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if resp.Type != "response" {
		t.Errorf("type: got %q, want response", resp.Type)
	}
	if resp.SignalType != "manual" {
		t.Errorf("signalType not echoed: got %q", resp.SignalType)
	}
	if resp.Result.Status != "success" {
		t.Errorf("status: got %q (%s)", resp.Result.Status, resp.Result.Message)
	}
	if resp.Timestamp == "" {
		t.Error("response has no timestamp")
	}
	if driver.angleCalls != 1 {
		t.Errorf("expected 1 angle call, got %d", driver.angleCalls)
	}
}

func TestHandleMessage_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	var msg ErrorMessage
	if err := json.Unmarshal(srv.handleMessage([]byte("not json")), &msg); err != nil {
		t.Fatalf("error message is not valid JSON: %v", err)
	}
	if msg.Type != "error" {
		t.Errorf("type: got %q, want error", msg.Type)
	}
	if msg.Message != "Invalid JSON" {
		t.Errorf("message: got %q", msg.Message)
	}
}

func TestHandleMessage_MissingAction(t *testing.T) {
	srv, driver := newTestServer(t)

	var msg ErrorMessage
	out := srv.handleMessage([]byte(`{"signalType":"mystery","data":{}}`))
	if err := json.Unmarshal(out, &msg); err != nil {
		t.Fatalf("error message is not valid JSON: %v", err)
	}
	if msg.Type != "error" {
		t.Errorf("type: got %q, want error", msg.Type)
	}
	if driver.angleCalls != 0 || driver.coordCalls != 0 {
		t.Error("malformed envelope must not reach hardware")
	}
}

func TestHandleMessage_UnknownAction(t *testing.T) {
	srv, _ := newTestServer(t)

	req := `{"signalType":"x","data":{"action":"backflip"}}`
	var resp ResponseEnvelope
	if err := json.Unmarshal(srv.handleMessage([]byte(req)), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if resp.Result.Status != "error" {
		t.Errorf("status: got %q, want error", resp.Result.Status)
	}
	if !strings.Contains(resp.Result.Message, "backflip") {
		t.Errorf("message should contain the action, got %q", resp.Result.Message)
	}

	// Connection state untouched by a bad command
	if srv.Status().Connected {
		t.Error("unknown action must not mutate connection state")
	}
}

func TestHandleMessage_OutOfRangeJoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := `{"signalType":"x","data":{"action":"send_angle","joint_id":7,"angle":10}}`
	var resp ResponseEnvelope
	if err := json.Unmarshal(srv.handleMessage([]byte(req)), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Result.Status != "error" {
		t.Errorf("status: got %q, want error", resp.Result.Status)
	}
}

func TestServer_Status(t *testing.T) {
	srv, _ := newTestServer(t)

	status := srv.Status()
	if status.Connected {
		t.Error("fresh server should not report a peer")
	}
	if status.Host != "0.0.0.0" || status.Port != "8765" {
		t.Errorf("host/port: got %s/%s", status.Host, status.Port)
	}
}

func TestWelcome(t *testing.T) {
	srv, _ := newTestServer(t)

	w := srv.welcome()
	if w.Type != "connected" {
		t.Errorf("type: got %q, want connected", w.Type)
	}
	if w.Robot != RobotName {
		t.Errorf("robot: got %q, want %q", w.Robot, RobotName)
	}
	if w.Version != "1.2" {
		t.Errorf("version: got %q, want 1.2", w.Version)
	}
}
