package gesture

import "time"

// HomeName is the neutral rest gesture. The executor replays it as a
// terminal step after every other gesture.
const HomeName = "home"

// Home is the neutral rest pose for all joints.
var Home = Pose{Angles: [6]float64{0, 0, 0, 0, 0, 0}, Speed: 60, Settle: 500 * time.Millisecond}

// builtIn returns the hand-authored gesture set for the myCobot 320.
// Angles are degrees; settle delays are tuned against the real arm.
func builtIn() []*Gesture {
	return []*Gesture{
		{
			Name:        "wave",
			Description: "Wave hand side to side",
			Poses: []Pose{
				{Angles: [6]float64{0, 0, 0, 0, 90, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 45, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 135, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 45, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 135, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 90, 0}, Speed: 50, Settle: 300 * time.Millisecond},
			},
		},
		{
			Name:        "thumbs_up",
			Description: "Thumbs up pose",
			Poses: []Pose{
				{Angles: [6]float64{0, -30, 60, -90, 90, 0}, Speed: 50, Settle: 1500 * time.Millisecond},
			},
		},
		{
			Name:        "point",
			Description: "Point forward",
			Poses: []Pose{
				{Angles: [6]float64{0, 20, 40, -90, 0, 0}, Speed: 50, Settle: 1500 * time.Millisecond},
			},
		},
		{
			Name:        "greet",
			Description: "Greeting: bow, then wave",
			Poses: []Pose{
				{Angles: [6]float64{0, 0, -30, 0, 0, 0}, Speed: 40, Settle: 800 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 0, 0}, Speed: 40, Settle: 500 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 90, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 45, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 135, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 45, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 135, 0}, Speed: 50, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 90, 0}, Speed: 50, Settle: 300 * time.Millisecond},
			},
		},
		{
			Name:        "celebrate",
			Description: "Celebration wiggle with the arm up",
			Poses: []Pose{
				{Angles: [6]float64{0, -45, 90, -90, 90, 0}, Speed: 80, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, -30, 100, -80, 100, 0}, Speed: 80, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, -45, 90, -90, 90, 0}, Speed: 80, Settle: 300 * time.Millisecond},
				{Angles: [6]float64{0, -30, 100, -80, 100, 0}, Speed: 80, Settle: 300 * time.Millisecond},
			},
		},
		{
			Name:        "nod",
			Description: "Nod the base joint",
			Poses: []Pose{
				{Angles: [6]float64{10, 0, 0, 0, 0, 0}, Speed: 25, Settle: 500 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 0, 0}, Speed: 25, Settle: 500 * time.Millisecond},
				{Angles: [6]float64{10, 0, 0, 0, 0, 0}, Speed: 25, Settle: 500 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 0, 0}, Speed: 25, Settle: 500 * time.Millisecond},
				{Angles: [6]float64{10, 0, 0, 0, 0, 0}, Speed: 25, Settle: 500 * time.Millisecond},
				{Angles: [6]float64{0, 0, 0, 0, 0, 0}, Speed: 25, Settle: 500 * time.Millisecond},
			},
		},
		{
			Name:        HomeName,
			Description: "Return to the neutral rest pose",
			Poses:       []Pose{Home},
		},
	}
}
