package gesture

import (
	"errors"
	"testing"
	"time"
)

func TestRegistry_LoadBuiltIn(t *testing.T) {
	r := NewRegistry()
	r.LoadBuiltIn()

	want := []string{"celebrate", "greet", "home", "nod", "point", "thumbs_up", "wave"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("expected %d gestures, got %d: %v", len(want), len(got), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("List()[%d]: got %q, want %q", i, got[i], name)
		}
	}
}

func TestRegistry_AllGesturesNonEmpty(t *testing.T) {
	r := NewRegistry()
	r.LoadBuiltIn()

	for _, name := range r.List() {
		g, err := r.Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if len(g.Poses) == 0 {
			t.Errorf("gesture %q has no poses", name)
		}
		if g.Description == "" {
			t.Errorf("gesture %q has no description", name)
		}
	}
}

func TestRegistry_Get_Unknown(t *testing.T) {
	r := NewRegistry()
	r.LoadBuiltIn()

	_, err := r.Get("backflip")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_HomeIsNeutral(t *testing.T) {
	r := NewRegistry()
	r.LoadBuiltIn()

	home, err := r.Get(HomeName)
	if err != nil {
		t.Fatalf("Get(home): %v", err)
	}
	if len(home.Poses) != 1 {
		t.Fatalf("home should be a single pose, got %d", len(home.Poses))
	}
	for i, angle := range home.Poses[0].Angles {
		if angle != 0 {
			t.Errorf("home joint %d: got %v, want 0", i+1, angle)
		}
	}
}

func TestGesture_Duration(t *testing.T) {
	g := &Gesture{
		Name: "test",
		Poses: []Pose{
			{Settle: 300 * time.Millisecond},
			{Settle: 700 * time.Millisecond},
		},
	}
	if got := g.Duration(); got != time.Second {
		t.Errorf("Duration: got %v, want 1s", got)
	}
}

func TestRegistry_ListWithDescriptions(t *testing.T) {
	r := NewRegistry()
	r.LoadBuiltIn()

	descs := r.ListWithDescriptions()
	if len(descs) != r.Count() {
		t.Errorf("expected %d descriptions, got %d", r.Count(), len(descs))
	}
	if descs["wave"] == "" {
		t.Error("wave has no description")
	}
}
