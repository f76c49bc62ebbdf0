// Package mycobot provides a driver for the Elephant Robotics myCobot 320
// over its serial command protocol.
//
// This package follows the Interface Segregation Principle (ISP) by defining
// small, focused interfaces that can be composed as needed. Consumers should
// depend only on the interfaces they actually use.
package mycobot

// AngleController provides joint-space motion control.
// Use this minimal interface when only joint moves are needed.
type AngleController interface {
	SendAngles(angles [NumJoints]float64, speed int) error
	SendAngle(joint int, angle float64, speed int) error
	GetAngles() ([NumJoints]float64, error)
}

// CoordController provides Cartesian motion control. The mode selects the
// firmware's path planner: 0 for angular, 1 for linear interpolation.
type CoordController interface {
	SendCoords(coords [NumJoints]float64, speed, mode int) error
}

// PowerController provides servo power control.
type PowerController interface {
	PowerOn() error
	PowerOff() error
	IsPoweredOn() (bool, error)
}

// StatusController provides firmware status queries.
type StatusController interface {
	Version() (string, error)
	JointLimits(joint int) (JointLimit, error)
}

// Driver is the composite interface for full arm control.
// It combines all individual control interfaces.
type Driver interface {
	AngleController
	CoordController
	PowerController
	StatusController
}

// Ensure SerialDriver implements Driver
var _ Driver = (*SerialDriver)(nil)
