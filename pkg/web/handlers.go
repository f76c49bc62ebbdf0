package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/nebulatalks/go-cobot/pkg/hub"
	"github.com/nebulatalks/go-cobot/pkg/relay"
	"github.com/nebulatalks/go-cobot/pkg/signal"
)

// handleStatus reports the backend's view of the relay link.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"relay_connected": s.relay.Connected(),
		"user_spoken":     s.presence.Spoken(),
		"robots":          len(s.signals.Robots()),
	})
}

// handleGestures lists the available gestures.
func (s *Server) handleGestures(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"gestures": s.gestures.ListWithDescriptions()})
}

// TriggerGestureRequest is the optional body for POST /gesture/:name.
type TriggerGestureRequest struct {
	Speed string `json:"speed"`
}

// handleTriggerGesture sends a gesture command to the relay.
func (s *Server) handleTriggerGesture(c *fiber.Ctx) error {
	name := c.Params("name")
	if !s.gestures.Has(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown gesture: " + name,
		})
	}

	var req TriggerGestureRequest
	_ = c.BodyParser(&req)

	err := s.relay.SendSignal(name, relay.CommandData{
		Action: name,
		Speed:  relay.Speed{Word: req.Speed},
	})
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	s.AddActivity("signal", "Manual gesture: "+name)
	return c.JSON(fiber.Map{"message": "Gesture '" + name + "' sent"})
}

// SignalRequest is the body for POST /signal.
type SignalRequest struct {
	SignalType string            `json:"signalType"`
	RobotID    string            `json:"robot_id"`
	Data       relay.CommandData `json:"data"`
}

// handleSignal sends a signal to the relay and fans it out to any other
// configured robots.
func (s *Server) handleSignal(c *fiber.Ctx) error {
	var req SignalRequest
	if err := c.BodyParser(&req); err != nil || req.SignalType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "signalType is required",
		})
	}

	if err := s.relay.SendSignal(req.SignalType, req.Data); err != nil {
		s.AddActivity("error", "Relay unreachable: "+err.Error())
	}
	delivered := s.signals.Send(signal.NewSignal(req.SignalType, req.Data), req.RobotID)

	s.AddActivity("signal", "Signal: "+req.SignalType)
	return c.JSON(fiber.Map{
		"message":   "Signal '" + req.SignalType + "' sent",
		"delivered": delivered,
	})
}

// handleMarkSpoken records that the current visitor has spoken.
func (s *Server) handleMarkSpoken(c *fiber.Ctx) error {
	s.presence.MarkSpoken()
	return c.JSON(fiber.Map{"message": "User marked as spoken"})
}

// PresenceRequest is the body for POST /presence.
type PresenceRequest struct {
	Present bool `json:"present"`
}

// handlePresence feeds one detection result into the presence tracker.
// The detector itself lives in the browser; it only reports here.
func (s *Server) handlePresence(c *fiber.Ctx) error {
	var req PresenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}
	s.presence.Observe(req.Present)
	return c.JSON(fiber.Map{"present": req.Present})
}

// handleLogs returns recent activity entries.
func (s *Server) handleLogs(c *fiber.Ctx) error {
	s.entriesMu.RLock()
	defer s.entriesMu.RUnlock()
	return c.JSON(s.entries)
}

// handleListRobots returns the configured fan-out robots.
func (s *Server) handleListRobots(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"robots": s.signals.Robots()})
}

// handleAddRobot registers a new fan-out robot.
func (s *Server) handleAddRobot(c *fiber.Ctx) error {
	var cfg signal.RobotConfig
	if err := c.BodyParser(&cfg); err != nil || cfg.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "robot id is required",
		})
	}
	if err := s.signals.Add(cfg); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Robot '" + cfg.ID + "' added"})
}

// handleRemoveRobot drops a fan-out robot.
func (s *Server) handleRemoveRobot(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.signals.Remove(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Robot '" + id + "' removed"})
}

// handleLogsWS streams activity entries to a dashboard client.
func (s *Server) handleLogsWS(c *websocket.Conn) {
	// Send recent entries before joining the live feed
	s.entriesMu.RLock()
	for _, entry := range s.entries {
		c.WriteJSON(entry)
	}
	s.entriesMu.RUnlock()

	client := hub.NewClient(s.activityHub, c)
	client.Run()
}
