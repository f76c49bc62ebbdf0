package mycobot

import "fmt"

// NumJoints is the number of joints on the myCobot 320.
const NumJoints = 6

// JointLimit is the allowed angle range for one joint, in degrees.
type JointLimit struct {
	Min float64
	Max float64
}

// jointLimits are the firmware limits for the myCobot 320, per joint.
var jointLimits = [NumJoints]JointLimit{
	{Min: -165, Max: 165}, // J1 base
	{Min: -165, Max: 165}, // J2 shoulder
	{Min: -165, Max: 165}, // J3 elbow
	{Min: -165, Max: 165}, // J4 wrist pitch
	{Min: -165, Max: 165}, // J5 wrist roll
	{Min: -175, Max: 175}, // J6 flange
}

// JointLimits returns the angle limits for a 1-indexed joint.
func JointLimits(joint int) (JointLimit, error) {
	if joint < 1 || joint > NumJoints {
		return JointLimit{}, fmt.Errorf("%w: %d", ErrBadJoint, joint)
	}
	return jointLimits[joint-1], nil
}

// JointLimits returns the angle limits for a 1-indexed joint. The 320's
// limits are fixed in firmware, so no serial round-trip is needed.
func (d *SerialDriver) JointLimits(joint int) (JointLimit, error) {
	return JointLimits(joint)
}

// Contains reports whether angle is within the limit range.
func (l JointLimit) Contains(angle float64) bool {
	return angle >= l.Min && angle <= l.Max
}
