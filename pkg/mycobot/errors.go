package mycobot

import "errors"

var (
	// ErrNotPowered is returned when a motion command is issued while the
	// servos are powered off.
	ErrNotPowered = errors.New("robot not powered on")

	// ErrBadFrame is returned when a serial response cannot be parsed.
	ErrBadFrame = errors.New("malformed serial frame")

	// ErrBadJoint is returned for joint IDs outside [1, NumJoints].
	ErrBadJoint = errors.New("joint id out of range")
)
