package events

import (
	"sync"
	"time"
)

type GuardState int

const (
	GuardIdle GuardState = iota
	GuardWriting
	GuardCoolingDown
)

// WriteGuard tracks the Idle -> Writing -> CoolingDown window around a local
// optimistic write. Change notifications arriving while the guard is open are
// suppressed so a stale echo of the write in flight cannot clobber local
// state. Best-effort only: the consistency model stays last-writer-wins
// reconciled by reload.
type WriteGuard struct {
	mu     sync.Mutex
	state  GuardState
	until  time.Time
	window time.Duration
}

func NewWriteGuard(window time.Duration) *WriteGuard {
	if window <= 0 {
		window = 2 * time.Second
	}
	return &WriteGuard{window: window}
}

// BeginWrite marks a local write in progress. Suppression holds until
// EndWrite plus the cool-down window.
func (g *WriteGuard) BeginWrite() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = GuardWriting
}

// EndWrite transitions into the cool-down window.
func (g *WriteGuard) EndWrite() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = GuardCoolingDown
	g.until = time.Now().Add(g.window)
}

// ShouldSuppress reports whether an incoming change notification should be
// ignored right now. Expired cool-downs collapse back to Idle.
func (g *WriteGuard) ShouldSuppress() bool {
	return g.shouldSuppressAt(time.Now())
}

func (g *WriteGuard) shouldSuppressAt(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.state {
	case GuardWriting:
		return true
	case GuardCoolingDown:
		if now.Before(g.until) {
			return true
		}
		g.state = GuardIdle
		return false
	default:
		return false
	}
}

// State returns the current guard state, collapsing expired cool-downs.
func (g *WriteGuard) State() GuardState {
	g.shouldSuppressAt(time.Now())
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// GuardSet keys write guards by session so each client connection gets its
// own suppression window.
type GuardSet struct {
	mu     sync.Mutex
	guards map[string]*WriteGuard
	window time.Duration
}

func NewGuardSet(window time.Duration) *GuardSet {
	return &GuardSet{
		guards: make(map[string]*WriteGuard),
		window: window,
	}
}

func (s *GuardSet) Guard(sessionID string) *WriteGuard {
	s.mu.Lock()
	defer s.mu.Unlock()

	guard, ok := s.guards[sessionID]
	if !ok {
		guard = NewWriteGuard(s.window)
		s.guards[sessionID] = guard
	}
	return guard
}

func (s *GuardSet) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.guards, sessionID)
}
