// Package signal fans signal envelopes out to configured robots beyond
// the primary myCobot relay. Robots are described in a robots.json file
// and reached over HTTP or WebSocket.
package signal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nebulatalks/go-cobot/internal/httpc"
	"github.com/nebulatalks/go-cobot/internal/log"
	"github.com/nebulatalks/go-cobot/pkg/relay"
)

// Protocol selects how a configured robot is reached.
type Protocol string

const (
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
)

// RobotConfig describes one configured robot endpoint.
type RobotConfig struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Protocol Protocol          `json:"protocol"`
	Enabled  bool              `json:"enabled"`
	URL      string            `json:"url,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`

	// Commands maps signal types to replacement command data, letting a
	// robot translate a generic signal into its own action vocabulary.
	Commands map[string]relay.CommandData `json:"commands,omitempty"`
}

// Signal is one outbound event.
type Signal struct {
	ID         string
	SignalType string
	Timestamp  time.Time
	Data       relay.CommandData
}

// NewSignal creates a signal stamped now.
func NewSignal(signalType string, data relay.CommandData) Signal {
	return Signal{
		ID:         uuid.NewString(),
		SignalType: signalType,
		Timestamp:  time.Now(),
		Data:       data,
	}
}

// envelope is the wire form, identical to the relay's command envelope.
func (s Signal) envelope(data relay.CommandData) relay.SignalEnvelope {
	return relay.SignalEnvelope{
		SignalType: s.SignalType,
		Timestamp:  s.Timestamp.Format(time.RFC3339),
		Data:       data,
	}
}

type robotsFile struct {
	Robots []RobotConfig `json:"robots"`
}

// Service loads robot configurations and delivers signals to them.
type Service struct {
	path string
	http *http.Client

	mu     sync.Mutex
	robots map[string]RobotConfig
	conns  map[string]*websocket.Conn
}

// NewService creates a service persisting configs at path.
func NewService(path string) *Service {
	return &Service{
		path:   path,
		http:   httpc.Client,
		robots: make(map[string]RobotConfig),
		conns:  make(map[string]*websocket.Conn),
	}
}

// Load reads the robots file. A missing file leaves the service empty.
func (s *Service) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("no robots configuration file", "path", s.path)
			return nil
		}
		return fmt.Errorf("failed to read robots file: %w", err)
	}

	var file robotsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse robots file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.robots = make(map[string]RobotConfig, len(file.Robots))
	for _, r := range file.Robots {
		s.robots[r.ID] = r
	}
	log.Info("loaded robot configurations", "count", len(s.robots))
	return nil
}

// Save writes the robots file.
func (s *Service) Save() error {
	s.mu.Lock()
	file := robotsFile{Robots: s.list()}
	s.mu.Unlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Add registers a robot and persists the configuration.
func (s *Service) Add(r RobotConfig) error {
	s.mu.Lock()
	s.robots[r.ID] = r
	s.mu.Unlock()
	log.Info("added robot", "id", r.ID, "name", r.Name)
	return s.Save()
}

// Remove drops a robot, closing any cached connection.
func (s *Service) Remove(id string) error {
	s.mu.Lock()
	delete(s.robots, id)
	if conn, ok := s.conns[id]; ok {
		_ = conn.Close()
		delete(s.conns, id)
	}
	s.mu.Unlock()
	return s.Save()
}

// Robots returns all configured robots sorted by ID.
func (s *Service) Robots() []RobotConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// list returns robots sorted by ID. Callers hold s.mu.
func (s *Service) list() []RobotConfig {
	robots := make([]RobotConfig, 0, len(s.robots))
	for _, r := range s.robots {
		robots = append(robots, r)
	}
	sort.Slice(robots, func(i, j int) bool { return robots[i].ID < robots[j].ID })
	return robots
}

// Send delivers a signal to one robot by ID, or to all enabled robots
// when robotID is empty. Returns how many deliveries succeeded.
func (s *Service) Send(sig Signal, robotID string) int {
	s.mu.Lock()
	var targets []RobotConfig
	if robotID != "" {
		if r, ok := s.robots[robotID]; ok {
			targets = append(targets, r)
		}
	} else {
		for _, r := range s.robots {
			if r.Enabled {
				targets = append(targets, r)
			}
		}
	}
	s.mu.Unlock()

	if len(targets) == 0 {
		log.Warn("no target robots for signal", "signalType", sig.SignalType)
		return 0
	}

	delivered := 0
	for _, r := range targets {
		if err := s.sendTo(r, sig); err != nil {
			log.Error("signal delivery failed", "robot", r.Name, "error", err)
			continue
		}
		delivered++
	}
	log.Info("signal delivered",
		"id", sig.ID, "signalType", sig.SignalType,
		"delivered", delivered, "targets", len(targets))
	return delivered
}

// sendTo delivers one signal to one robot, applying its per-signal
// command override if configured.
func (s *Service) sendTo(r RobotConfig, sig Signal) error {
	data := sig.Data
	if override, ok := r.Commands[sig.SignalType]; ok {
		data = override
	}
	env := sig.envelope(data)

	switch r.Protocol {
	case ProtocolHTTP:
		return s.sendHTTP(r, env)
	case ProtocolWebSocket:
		return s.sendWS(r, env)
	default:
		return fmt.Errorf("unknown protocol %q for robot %s", r.Protocol, r.ID)
	}
}

func (s *Service) sendHTTP(r RobotConfig, env relay.SignalEnvelope) error {
	if r.URL == "" {
		return fmt.Errorf("robot %s has no URL configured", r.ID)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("robot %s answered %s", r.ID, resp.Status)
	}
	return nil
}

// sendWS writes over a cached connection, dialing on first use. A failed
// connection is dropped so the next send redials.
func (s *Service) sendWS(r RobotConfig, env relay.SignalEnvelope) error {
	if r.URL == "" {
		return fmt.Errorf("robot %s has no URL configured", r.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.conns[r.ID]
	if !ok {
		dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
		c, _, err := dialer.Dial(r.URL, nil)
		if err != nil {
			return err
		}
		s.conns[r.ID] = c
		conn = c
	}

	if err := conn.WriteJSON(env); err != nil {
		_ = conn.Close()
		delete(s.conns, r.ID)
		return err
	}
	return nil
}

// Close shuts down all cached connections.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conn := range s.conns {
		_ = conn.Close()
		delete(s.conns, id)
	}
}
