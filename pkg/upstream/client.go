// Package upstream is the backend's side of the relay link: a WebSocket
// client that sends signal envelopes to the robot relay and a presence
// tracker that decides when to send them.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nebulatalks/go-cobot/internal/log"
	"github.com/nebulatalks/go-cobot/pkg/relay"
)

// DefaultReconnectInterval is how long to wait between redial attempts.
const DefaultReconnectInterval = 5 * time.Second

// ErrNotConnected is returned when a signal is sent while the relay link
// is down. Signals are not buffered; the caller decides whether to retry.
var ErrNotConnected = errors.New("not connected to robot relay")

// Client maintains the WebSocket link to the relay, reconnecting with a
// fixed interval when it drops.
type Client struct {
	url string

	wsMu sync.Mutex
	ws   *websocket.Conn

	mu        sync.RWMutex
	connected bool

	reconnect time.Duration

	// OnResponse is called for every result envelope from the relay.
	OnResponse func(relay.ResponseEnvelope)
}

// NewClient creates a client for the relay at url (e.g. ws://pi:8765).
func NewClient(url string) *Client {
	return &Client{
		url:       url,
		reconnect: DefaultReconnectInterval,
	}
}

// Connected reports whether the relay link is up.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Run dials the relay and keeps the link alive until ctx is cancelled,
// redialing every reconnect interval after a failure or disconnect.
// Blocks; run in a goroutine.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.connectOnce(ctx); err != nil {
			log.Warn("relay connection failed", "url", c.url, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.reconnect):
		}
	}
}

// connectOnce dials the relay and pumps messages until the connection
// drops or ctx is cancelled.
func (c *Client) connectOnce(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}

	c.wsMu.Lock()
	c.ws = ws
	c.wsMu.Unlock()
	c.setConnected(true)
	log.Info("connected to robot relay", "url", c.url)

	defer func() {
		c.setConnected(false)
		c.wsMu.Lock()
		c.ws = nil
		c.wsMu.Unlock()
		_ = ws.Close()
		log.Info("relay link closed", "url", c.url)
	}()

	// Close the socket when ctx ends so the read loop unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = ws.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c.handleMessage(data)
	}
}

// SendSignal sends one signal envelope. The relay answers asynchronously
// via OnResponse.
func (c *Client) SendSignal(signalType string, data relay.CommandData) error {
	c.wsMu.Lock()
	defer c.wsMu.Unlock()

	if c.ws == nil {
		return ErrNotConnected
	}

	env := relay.SignalEnvelope{
		SignalType: signalType,
		Timestamp:  time.Now().Format(time.RFC3339),
		Data:       data,
	}
	if err := c.ws.WriteJSON(env); err != nil {
		return err
	}
	log.Info("signal sent", "signalType", signalType)
	return nil
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// handleMessage dispatches one inbound relay message by its type field.
func (c *Client) handleMessage(data []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		log.Warn("non-JSON message from relay")
		return
	}

	switch head.Type {
	case "response":
		var resp relay.ResponseEnvelope
		if err := json.Unmarshal(data, &resp); err != nil {
			log.Warn("bad response envelope", "error", err)
			return
		}
		log.Info("robot response",
			"signalType", resp.SignalType,
			"status", resp.Result.Status,
			"message", resp.Result.Message)
		if c.OnResponse != nil {
			c.OnResponse(resp)
		}
	case "connected":
		var w relay.WelcomeMessage
		if err := json.Unmarshal(data, &w); err == nil {
			log.Info("robot ready", "robot", w.Robot, "version", w.Version)
		}
	case "error":
		var e relay.ErrorMessage
		if err := json.Unmarshal(data, &e); err == nil {
			log.Error("robot error", "message", e.Message)
		}
	default:
		log.Debug("unhandled relay message", "type", head.Type)
	}
}
