// Package relay is the WebSocket server that runs on the robot's companion
// Pi. It accepts a single upstream peer, decodes command envelopes, drives
// the executor synchronously, and answers with result envelopes.
package relay

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/nebulatalks/go-cobot/internal/log"
	"github.com/nebulatalks/go-cobot/pkg/executor"
	"github.com/nebulatalks/go-cobot/pkg/gesture"
	"github.com/nebulatalks/go-cobot/pkg/mycobot"
)

// RobotName identifies the arm in the welcome message.
const RobotName = "myCobot 320 Pi"

// Status is the read-only connectivity snapshot served at GET /status.
type Status struct {
	Connected bool   `json:"connected"`
	Powered   bool   `json:"powered"`
	Host      string `json:"host"`
	Port      string `json:"port"`
}

// Server is the relay server. Commands are processed strictly one at a
// time on the single peer connection; a second peer is rejected while one
// is active.
type Server struct {
	app      *fiber.App
	addr     string
	exec     *executor.Executor
	driver   mycobot.Driver
	gestures *gesture.Registry

	mu        sync.RWMutex
	connected bool
	powered   bool
	session   string
}

// NewServer creates a relay server listening on addr.
func NewServer(addr string, driver mycobot.Driver, gestures *gesture.Registry) *Server {
	s := &Server{
		addr:     addr,
		exec:     executor.New(driver, gestures),
		driver:   driver,
		gestures: gestures,
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-cobot relay",
		DisableStartupMessage: true,
	})

	app.Get("/status", s.handleStatus)
	app.Get("/gestures", s.handleGestures)

	app.Use("/", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/", websocket.New(s.handleWS))

	s.app = app
	return s
}

// Listen starts serving. Blocks until Shutdown.
func (s *Server) Listen() error {
	log.Info("relay listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Status returns the current connectivity/power snapshot.
func (s *Server) Status() Status {
	host, port, _ := net.SplitHostPort(s.addr)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Connected: s.connected,
		Powered:   s.powered,
		Host:      host,
		Port:      port,
	}
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

func (s *Server) handleGestures(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"gestures": s.gestures.ListWithDescriptions()})
}

// handleWS runs the per-connection message loop. The loop reads the next
// envelope only after the previous result was written, so commands are
// serialized behind the executor's blocking calls.
func (s *Server) handleWS(conn *websocket.Conn) {
	session := uuid.NewString()

	s.mu.Lock()
	if s.connected {
		s.mu.Unlock()
		log.Warn("rejecting second peer", "session", session)
		_ = conn.WriteJSON(ErrorMessage{Type: "error", Message: "another peer is already connected"})
		_ = conn.Close()
		return
	}
	s.connected = true
	s.session = session
	s.mu.Unlock()

	log.Info("peer connected", "session", session)

	defer func() {
		s.mu.Lock()
		s.connected = false
		s.session = ""
		s.mu.Unlock()
		log.Info("peer disconnected", "session", session)
	}()

	s.powerOn()

	if err := conn.WriteJSON(s.welcome()); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Peer closed or errored; any in-flight result is abandoned.
			return
		}

		resp := s.handleMessage(data)
		if err := conn.WriteMessage(websocket.TextMessage, resp); err != nil {
			return
		}
	}
}

// powerOn attempts to power the servos when a peer connects.
func (s *Server) powerOn() {
	if s.driver == nil {
		log.Warn("no robot driver configured")
		return
	}

	err := s.driver.PowerOn()
	s.mu.Lock()
	s.powered = err == nil
	s.mu.Unlock()

	if err != nil {
		log.Error("power on failed", "error", err)
	} else {
		log.Info("robot powered on")
	}
}

// welcome builds the connection greeting, including the firmware version
// when the driver answers.
func (s *Server) welcome() WelcomeMessage {
	version := ""
	if s.driver != nil {
		if v, err := s.driver.Version(); err == nil {
			version = v
		}
	}
	return WelcomeMessage{
		Type:    "connected",
		Message: "myCobot 320 ready for commands",
		Robot:   RobotName,
		Version: version,
	}
}

// handleMessage processes one inbound message and returns the bytes to
// write back. Every well-formed command envelope yields exactly one
// response envelope; malformed input yields an error message and leaves
// the connection open.
func (s *Server) handleMessage(data []byte) []byte {
	var env SignalEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return mustJSON(ErrorMessage{Type: "error", Message: "Invalid JSON"})
	}

	cmd, ok := ResolveCommand(env)
	if !ok {
		log.Warn("unresolvable envelope", "signalType", env.SignalType)
		return mustJSON(ErrorMessage{Type: "error", Message: "missing action: envelope names no signal type or data.action"})
	}

	log.Info("executing command", "action", cmd.Action, "signalType", env.SignalType)
	result := s.exec.Execute(cmd)
	if result.Status != "success" {
		log.Warn("command failed", "action", cmd.Action, "message", result.Message)
	}

	return mustJSON(ResponseEnvelope{
		Type:       "response",
		SignalType: env.SignalType,
		Result:     result,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

// mustJSON marshals values whose encoding cannot fail.
func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
