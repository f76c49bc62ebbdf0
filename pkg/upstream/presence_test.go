package upstream

import (
	"testing"

	"github.com/nebulatalks/go-cobot/pkg/relay"
)

type fakeSender struct {
	signals []string
}

func (f *fakeSender) SendSignal(signalType string, data relay.CommandData) error {
	f.signals = append(f.signals, signalType)
	return nil
}

func TestPresence_DepartureAfterSpeaking(t *testing.T) {
	sender := &fakeSender{}
	p := NewPresence(sender)

	p.Observe(true)
	p.MarkSpoken()
	p.Observe(false)

	if len(sender.signals) != 1 {
		t.Fatalf("expected 1 signal, got %d: %v", len(sender.signals), sender.signals)
	}
	if sender.signals[0] != DepartureSignal {
		t.Errorf("signal: got %q, want %q", sender.signals[0], DepartureSignal)
	}
}

func TestPresence_NoSignalWithoutSpeech(t *testing.T) {
	sender := &fakeSender{}
	p := NewPresence(sender)

	p.Observe(true)
	p.Observe(false)

	if len(sender.signals) != 0 {
		t.Errorf("silent visitor should not trigger a signal, got %v", sender.signals)
	}
}

func TestPresence_FiresOncePerVisit(t *testing.T) {
	sender := &fakeSender{}
	p := NewPresence(sender)

	p.Observe(true)
	p.MarkSpoken()
	p.Observe(false)
	p.Observe(false) // repeated absence must not refire

	if len(sender.signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(sender.signals))
	}
	if p.Spoken() {
		t.Error("spoken flag should reset after departure")
	}
}

func TestPresence_SecondVisit(t *testing.T) {
	sender := &fakeSender{}
	p := NewPresence(sender)

	// First visit
	p.Observe(true)
	p.MarkSpoken()
	p.Observe(false)

	// Second visit, also with speech
	p.Observe(true)
	p.MarkSpoken()
	p.Observe(false)

	if len(sender.signals) != 2 {
		t.Fatalf("expected 2 signals across 2 visits, got %d", len(sender.signals))
	}
}

func TestPresence_AbsenceBeforePresence(t *testing.T) {
	sender := &fakeSender{}
	p := NewPresence(sender)

	p.MarkSpoken()
	p.Observe(false)

	if len(sender.signals) != 0 {
		t.Errorf("absence without a prior presence must not fire, got %v", sender.signals)
	}
}
