// Package web provides the backend's HTTP facade: manual gesture
// triggering, presence marking, robot configuration, and a live activity
// feed for the dashboard.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/nebulatalks/go-cobot/pkg/gesture"
	"github.com/nebulatalks/go-cobot/pkg/hub"
	"github.com/nebulatalks/go-cobot/pkg/signal"
	"github.com/nebulatalks/go-cobot/pkg/upstream"
)

// maxEntries bounds the in-memory activity buffer.
const maxEntries = 500

// Entry is one activity line for the dashboard.
type Entry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, robot, signal, error
	Message string `json:"message"`
}

// Server is the backend facade server.
type Server struct {
	app  *fiber.App
	addr string

	relay    *upstream.Client
	presence *upstream.Presence
	gestures *gesture.Registry
	signals  *signal.Service

	// Activity buffer (last maxEntries entries)
	entries   []Entry
	entriesMu sync.RWMutex

	// Hub for websocket broadcast of activity entries
	activityHub *hub.Hub
}

// NewServer creates the facade server.
func NewServer(addr string, relay *upstream.Client, presence *upstream.Presence,
	gestures *gesture.Registry, signals *signal.Service) *Server {

	s := &Server{
		addr:        addr,
		relay:       relay,
		presence:    presence,
		gestures:    gestures,
		signals:     signals,
		entries:     make([]Entry, 0, maxEntries),
		activityHub: hub.New("activity"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-cobot backend",
		DisableStartupMessage: true,
	})

	// CORS for the browser front-end
	app.Use(cors.New())

	app.Get("/status", s.handleStatus)
	app.Get("/gestures", s.handleGestures)
	app.Post("/gesture/:name", s.handleTriggerGesture)
	app.Post("/signal", s.handleSignal)
	app.Post("/mark-spoken", s.handleMarkSpoken)
	app.Post("/presence", s.handlePresence)
	app.Get("/logs", s.handleLogs)

	app.Get("/robots", s.handleListRobots)
	app.Post("/robots", s.handleAddRobot)
	app.Delete("/robots/:id", s.handleRemoveRobot)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))

	s.app = app
	return s
}

// Listen starts the facade server. Blocks until Shutdown.
func (s *Server) Listen() error {
	go s.activityHub.Run()
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the facade server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// AddActivity appends an activity entry and broadcasts it to dashboard
// clients.
func (s *Server) AddActivity(entryType, message string) {
	entry := Entry{
		Time:    time.Now().Format("15:04:05"),
		Type:    entryType,
		Message: message,
	}

	s.entriesMu.Lock()
	s.entries = append(s.entries, entry)
	if len(s.entries) > maxEntries {
		s.entries = s.entries[1:]
	}
	s.entriesMu.Unlock()

	s.activityHub.BroadcastJSON(entry)
}
