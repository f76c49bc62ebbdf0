package relay

import (
	"encoding/json"

	"github.com/nebulatalks/go-cobot/pkg/executor"
)

// SignalEnvelope is the inbound command envelope sent by the upstream
// application.
type SignalEnvelope struct {
	SignalType string      `json:"signalType"`
	Timestamp  string      `json:"timestamp"`
	Data       CommandData `json:"data"`
}

// CommandData carries the action and its parameters.
type CommandData struct {
	Action      string    `json:"action"`
	Speed       Speed     `json:"speed,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Angles      []float64 `json:"angles,omitempty"`
	JointID     int       `json:"joint_id,omitempty"`
	Angle       float64   `json:"angle,omitempty"`
}

// ResponseEnvelope is returned for every command envelope, echoing the
// inbound signalType.
type ResponseEnvelope struct {
	Type       string          `json:"type"`
	SignalType string          `json:"signalType"`
	Result     executor.Result `json:"result"`
	Timestamp  string          `json:"timestamp"`
}

// WelcomeMessage is sent once when a peer connects.
type WelcomeMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Robot   string `json:"robot"`
	Version string `json:"version,omitempty"`
}

// ErrorMessage reports a malformed envelope. The connection stays open.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Speed accepts either a pacing word ("normal", "fast") or a numeric
// firmware speed, matching what callers actually send.
type Speed struct {
	Word  string
	Value int
}

// UnmarshalJSON decodes a string or number speed.
func (s *Speed) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &s.Word)
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	s.Value = int(n)
	return nil
}

// MarshalJSON re-encodes the speed in the form it arrived in.
func (s Speed) MarshalJSON() ([]byte, error) {
	if s.Word != "" {
		return json.Marshal(s.Word)
	}
	return json.Marshal(s.Value)
}

// signalActions maps well-known signal types to gesture commands. A signal
// type not listed here falls through to the envelope's data block.
var signalActions = map[string]string{
	"user_left_after_speaking": "wave",
	"wave_hand":                "wave",
	"thumbs_up":                "thumbs_up",
	"greet":                    "greet",
	"celebrate":                "celebrate",
	"point":                    "point",
	"nod":                      "nod",
	"home":                     "home",
}

// ResolveCommand turns an envelope into an executor command. The second
// return is false when the envelope names neither a known signal type nor
// an action in its data block.
func ResolveCommand(env SignalEnvelope) (executor.Command, bool) {
	if action, ok := signalActions[env.SignalType]; ok {
		return executor.Command{
			Action:    action,
			SpeedWord: env.Data.Speed.Word,
		}, true
	}

	if env.Data.Action == "" {
		return executor.Command{}, false
	}
	return executor.Command{
		Action:      env.Data.Action,
		SpeedWord:   env.Data.Speed.Word,
		Speed:       env.Data.Speed.Value,
		Coordinates: env.Data.Coordinates,
		Angles:      env.Data.Angles,
		JointID:     env.Data.JointID,
		Angle:       env.Data.Angle,
	}, true
}
