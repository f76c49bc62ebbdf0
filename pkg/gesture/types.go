// Package gesture provides the fixed library of named arm gestures.
//
// A gesture is a hand-authored, ordered sequence of joint-angle poses with
// per-pose speed and settle delay. Gestures are registered at start-up and
// immutable for the process lifetime; playback is strictly in authored
// order with no blending between poses.
package gesture

import (
	"time"

	"github.com/nebulatalks/go-cobot/pkg/mycobot"
)

// Pose is one target for all six joints.
type Pose struct {
	// Angles are the joint targets in degrees, J1 through J6.
	Angles [mycobot.NumJoints]float64

	// Speed is the firmware speed for the move (0-100).
	Speed int

	// Settle is how long to wait after issuing the move before the next
	// pose. The firmware offers no motion-done acknowledgment over this
	// link, so the delay is a hand-tuned approximation.
	Settle time.Duration
}

// Gesture is a named pose sequence.
type Gesture struct {
	// Name is the identifier used in command envelopes (e.g. "wave").
	Name string

	// Description explains the gesture for listings.
	Description string

	// Poses are played back exactly in order.
	Poses []Pose
}

// Duration returns the sum of the settle delays, a lower bound on how long
// playback blocks.
func (g *Gesture) Duration() time.Duration {
	var total time.Duration
	for _, p := range g.Poses {
		total += p.Settle
	}
	return total
}
