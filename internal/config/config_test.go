package config

import "testing"

func TestEnv(t *testing.T) {
	t.Setenv("COBOT_TEST_KEY", "set")
	if got := Env("COBOT_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("got %q, want set", got)
	}
	if got := Env("COBOT_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("COBOT_TEST_INT", "9600")
	if got := EnvInt("COBOT_TEST_INT", 115200); got != 9600 {
		t.Errorf("got %d, want 9600", got)
	}

	t.Setenv("COBOT_TEST_INT", "not-a-number")
	if got := EnvInt("COBOT_TEST_INT", 115200); got != 115200 {
		t.Errorf("unparseable value should fall back, got %d", got)
	}
}

func TestRelayURL(t *testing.T) {
	t.Setenv("COBOT_HOST", "10.0.0.5")
	t.Setenv("COBOT_PORT", "9000")
	if got := RelayURL(); got != "ws://10.0.0.5:9000" {
		t.Errorf("got %q", got)
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("RELAY_ADDR", "")
	t.Setenv("BACKEND_PORT", "")
	t.Setenv("COBOT_SERIAL_PORT", "")

	if got := RelayAddr(); got != ":8765" {
		t.Errorf("RelayAddr: got %q", got)
	}
	if got := BackendAddr(); got != ":8080" {
		t.Errorf("BackendAddr: got %q", got)
	}
	if got := SerialPort(); got != "/dev/ttyAMA0" {
		t.Errorf("SerialPort: got %q", got)
	}
	if got := SerialBaud(); got != 115200 {
		t.Errorf("SerialBaud: got %d", got)
	}
}
