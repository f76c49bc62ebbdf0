// Package config provides configuration helpers for go-cobot commands.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default configuration.
const (
	DefaultRelayPort   = "8765"
	DefaultBackendPort = "8080"
	DefaultSerialPort  = "/dev/ttyAMA0"
	DefaultSerialBaud  = 115200
)

// LoadDotenv loads a .env file if one exists in the working directory.
// Missing files are not an error; explicit environment always wins.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Env returns the value of an environment variable, or fallback if unset.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt returns the integer value of an environment variable, or fallback
// if unset or unparseable.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// RelayAddr returns the relay listen address from RELAY_ADDR, defaulting to
// all interfaces on the standard relay port.
func RelayAddr() string {
	return Env("RELAY_ADDR", ":"+DefaultRelayPort)
}

// RelayURL returns the WebSocket URL the backend uses to reach the relay.
func RelayURL() string {
	host := Env("COBOT_HOST", "localhost")
	port := Env("COBOT_PORT", DefaultRelayPort)
	return "ws://" + host + ":" + port
}

// SerialPort returns the robot serial device from COBOT_SERIAL_PORT.
func SerialPort() string {
	return Env("COBOT_SERIAL_PORT", DefaultSerialPort)
}

// SerialBaud returns the robot serial baud rate from COBOT_SERIAL_BAUD.
func SerialBaud() int {
	return EnvInt("COBOT_SERIAL_BAUD", DefaultSerialBaud)
}

// BackendAddr returns the backend HTTP facade listen address.
func BackendAddr() string {
	return ":" + Env("BACKEND_PORT", DefaultBackendPort)
}
