// Package executor runs parsed commands against the robot driver.
//
// Commands are executed synchronously and strictly one at a time; there is
// exactly one physical arm and joint commands must not overlap on the
// serial bus. Once a gesture sequence starts it runs to completion.
package executor

import (
	"fmt"
	"time"

	"github.com/nebulatalks/go-cobot/pkg/gesture"
	"github.com/nebulatalks/go-cobot/pkg/mycobot"
)

// Custom motion actions understood in addition to gesture names.
const (
	ActionMoveTo     = "move_to"
	ActionSendAngles = "send_angles"
	ActionSendAngle  = "send_angle"
)

// DefaultSpeed is used for custom motions when the caller gives none.
const DefaultSpeed = 50

// linearMode selects the firmware's linear path planner for move_to.
const linearMode = 1

// Command is one parsed motion request.
type Command struct {
	// Action is a gesture name or one of the custom motion actions.
	Action string

	// SpeedWord is the gesture pacing alias; "fast" overrides the authored
	// pose speeds, empty or "normal" keeps them.
	SpeedWord string

	// Speed is the numeric speed for custom motions; 0 means DefaultSpeed.
	Speed int

	// Coordinates are x, y, z, rx, ry, rz for move_to.
	Coordinates []float64

	// Angles are the six joint targets for send_angles.
	Angles []float64

	// JointID and Angle identify a single-joint move for send_angle.
	JointID int
	Angle   float64
}

// Result is the outcome reported back over the relay.
type Result struct {
	Status  string `json:"status"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message"`
}

// successMessages mirror what the arm reports for each built-in gesture.
var successMessages = map[string]string{
	"wave":      "Waved hand!",
	"thumbs_up": "Thumbs up!",
	"point":     "Pointing!",
	"greet":     "Greeting!",
	"celebrate": "Celebrating!",
	"nod":       "Nodding!",
	"home":      "Going home",
}

// Executor dispatches commands to the robot driver.
type Executor struct {
	driver   mycobot.Driver
	gestures *gesture.Registry

	// sleep is swapped out in tests so gesture settles don't block.
	sleep func(time.Duration)
}

// New creates an executor for the given driver and gesture registry.
func New(driver mycobot.Driver, gestures *gesture.Registry) *Executor {
	return &Executor{
		driver:   driver,
		gestures: gestures,
		sleep:    time.Sleep,
	}
}

// Execute runs one command to completion and returns its result.
// Validation failures are reported as error results before any hardware
// call; driver failures are reported after whatever motion already ran.
func (e *Executor) Execute(cmd Command) Result {
	if e.driver == nil {
		return errorResult(cmd.Action, "Robot not connected")
	}
	if powered, err := e.driver.IsPoweredOn(); err != nil || !powered {
		return errorResult(cmd.Action, "Robot not connected")
	}

	switch {
	case e.gestures.Has(cmd.Action):
		return e.playGesture(cmd)
	case cmd.Action == ActionMoveTo:
		return e.moveTo(cmd)
	case cmd.Action == ActionSendAngles:
		return e.sendAngles(cmd)
	case cmd.Action == ActionSendAngle:
		return e.sendAngle(cmd)
	default:
		return errorResult(cmd.Action, fmt.Sprintf("Unknown action: %s", cmd.Action))
	}
}

// playGesture plays the named pose sequence in order, then returns the arm
// to the home pose unless the gesture already is home.
func (e *Executor) playGesture(cmd Command) Result {
	g, err := e.gestures.Get(cmd.Action)
	if err != nil {
		return errorResult(cmd.Action, err.Error())
	}

	if err := e.playPoses(g.Poses, cmd.SpeedWord); err != nil {
		return errorResult(cmd.Action, err.Error())
	}

	if g.Name != gesture.HomeName {
		home, err := e.gestures.Get(gesture.HomeName)
		if err != nil {
			return errorResult(cmd.Action, err.Error())
		}
		if err := e.playPoses(home.Poses, ""); err != nil {
			return errorResult(cmd.Action, err.Error())
		}
	}

	msg, ok := successMessages[g.Name]
	if !ok {
		msg = fmt.Sprintf("Played gesture: %s", g.Name)
	}
	return Result{Status: "success", Action: g.Name, Message: msg}
}

// playPoses submits each pose and blocks for its settle delay.
func (e *Executor) playPoses(poses []gesture.Pose, speedWord string) error {
	for _, p := range poses {
		speed := p.Speed
		if speedWord == "fast" {
			speed = 80
		}
		if err := e.driver.SendAngles(p.Angles, speed); err != nil {
			return err
		}
		e.sleep(p.Settle)
	}
	return nil
}

func (e *Executor) moveTo(cmd Command) Result {
	coords, ok := toVector(cmd.Coordinates)
	if !ok {
		return errorResult(cmd.Action,
			fmt.Sprintf("move_to requires exactly %d coordinates, got %d", mycobot.NumJoints, len(cmd.Coordinates)))
	}

	if err := e.driver.SendCoords(coords, DefaultSpeed, linearMode); err != nil {
		return errorResult(cmd.Action, err.Error())
	}
	return Result{Status: "success", Action: cmd.Action, Message: "Moved to coordinates"}
}

func (e *Executor) sendAngles(cmd Command) Result {
	angles, ok := toVector(cmd.Angles)
	if !ok {
		return errorResult(cmd.Action,
			fmt.Sprintf("send_angles requires exactly %d angles, got %d", mycobot.NumJoints, len(cmd.Angles)))
	}

	if err := e.driver.SendAngles(angles, e.speedOrDefault(cmd.Speed)); err != nil {
		return errorResult(cmd.Action, err.Error())
	}
	return Result{Status: "success", Action: cmd.Action, Message: "Angles sent"}
}

func (e *Executor) sendAngle(cmd Command) Result {
	limit, err := e.driver.JointLimits(cmd.JointID)
	if err != nil {
		return errorResult(cmd.Action,
			fmt.Sprintf("joint_id must be in [1,%d], got %d", mycobot.NumJoints, cmd.JointID))
	}
	if !limit.Contains(cmd.Angle) {
		return errorResult(cmd.Action,
			fmt.Sprintf("angle %.1f out of range [%.1f, %.1f] for joint %d", cmd.Angle, limit.Min, limit.Max, cmd.JointID))
	}

	if err := e.driver.SendAngle(cmd.JointID, cmd.Angle, e.speedOrDefault(cmd.Speed)); err != nil {
		return errorResult(cmd.Action, err.Error())
	}
	return Result{
		Status:  "success",
		Action:  cmd.Action,
		Message: fmt.Sprintf("Joint %d moved to %.1f", cmd.JointID, cmd.Angle),
	}
}

func (e *Executor) speedOrDefault(speed int) int {
	if speed <= 0 {
		return DefaultSpeed
	}
	return speed
}

// toVector converts a slice into the fixed joint vector, rejecting any
// other length.
func toVector(vals []float64) ([mycobot.NumJoints]float64, bool) {
	var v [mycobot.NumJoints]float64
	if len(vals) != mycobot.NumJoints {
		return v, false
	}
	copy(v[:], vals)
	return v, true
}

func errorResult(action, msg string) Result {
	return Result{Status: "error", Action: action, Message: msg}
}
