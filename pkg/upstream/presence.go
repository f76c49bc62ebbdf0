package upstream

import (
	"sync"

	"github.com/nebulatalks/go-cobot/internal/log"
	"github.com/nebulatalks/go-cobot/pkg/relay"
)

// DepartureSignal is sent when a visitor who spoke leaves the frame.
const DepartureSignal = "user_left_after_speaking"

// Sender delivers signal envelopes to the relay.
type Sender interface {
	SendSignal(signalType string, data relay.CommandData) error
}

// Presence tracks whether a visitor is in frame and whether they have
// spoken, and fires the departure signal exactly once per visit when a
// visitor who spoke leaves.
type Presence struct {
	mu      sync.Mutex
	present bool
	spoken  bool
	sender  Sender
}

// NewPresence creates a tracker that sends through the given sender.
func NewPresence(sender Sender) *Presence {
	return &Presence{sender: sender}
}

// MarkSpoken records that the current visitor has spoken.
func (p *Presence) MarkSpoken() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.spoken = true
}

// Spoken reports whether the current visitor has spoken.
func (p *Presence) Spoken() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spoken
}

// Observe reports the latest detection result. The transition from
// present to absent with spoken=true triggers the departure signal, after
// which the visit state resets.
func (p *Presence) Observe(present bool) {
	p.mu.Lock()
	wasPresent := p.present
	p.present = present

	departed := wasPresent && !present && p.spoken
	if departed {
		p.spoken = false
	}
	p.mu.Unlock()

	if !departed {
		return
	}

	log.Info("visitor left after speaking, waving goodbye")
	if err := p.sender.SendSignal(DepartureSignal, relay.CommandData{}); err != nil {
		log.Warn("departure signal not delivered", "error", err)
	}
}
