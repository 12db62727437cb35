// Package session owns the process-wide table of terminal sessions.
// A session carries the working state a command needs between
// keystrokes: the open PNR, the cached availability and name-search
// results, modification flags and the vanity counters.  Sessions are
// ephemeral; a process restart discards them all.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/airline-pnr-terminal/internal/model"
)

// Session is the per-terminal working state.  A session owns at most
// one open PNR context at a time.  The embedded mutex serializes
// commands for the same session; the dispatcher locks it for the
// duration of each command.
type Session struct {
	mu sync.Mutex

	ID string // opaque identity token

	CurrentPNRID      uint64    // 0 when no PNR is open
	CurrentPNRLocator string    // locator of the open PNR
	PNRModified       bool      // unsaved changes since open
	PNROpenedAt       time.Time // lock-acquisition marker; zero when closed

	LastAvailability  *model.AvailabilitySnapshot // last search, nil when none
	NameSearchResults []model.PNRSummary          // pending pick list, nil when none

	CommandCount   int // commands accepted this session
	KeystrokeCount int // characters typed this session

	// Flight-change workflow tracking for the end-of-transaction
	// statistics block.
	OriginalSegment       *model.SegmentRef
	NewSegment            *model.SegmentRef
	FlightChangeStartedAt time.Time

	StartedAt  time.Time
	LastSeenAt time.Time
}

// Lock acquires the session for one command.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session after a command completes.
func (s *Session) Unlock() { s.mu.Unlock() }

// OpenPNR sets the given PNR as the session's working context and
// starts the stale-context timer.  The modification flag is reset:
// retrieving a record never counts as changing it.
func (s *Session) OpenPNR(id uint64, locator string, at time.Time) {
	s.CurrentPNRID = id
	s.CurrentPNRLocator = locator
	s.PNRModified = false
	s.PNROpenedAt = at
}

// ClosePNR drops only the working PNR, leaving cached availability and
// name-search results in place.  Used when the record lock expires: the
// agent keeps their screen state but must retrieve the record again.
func (s *Session) ClosePNR() {
	s.CurrentPNRID = 0
	s.CurrentPNRLocator = ""
	s.PNRModified = false
	s.PNROpenedAt = time.Time{}
}

// ClearPNRContext drops the working PNR along with the cached search
// results that referenced it.
func (s *Session) ClearPNRContext() {
	s.CurrentPNRID = 0
	s.CurrentPNRLocator = ""
	s.PNRModified = false
	s.PNROpenedAt = time.Time{}
	s.LastAvailability = nil
	s.NameSearchResults = nil
}

// ClearFlightChange resets the flight-change tracking fields after the
// statistics block has been reported.
func (s *Session) ClearFlightChange() {
	s.OriginalSegment = nil
	s.NewSegment = nil
	s.FlightChangeStartedAt = time.Time{}
}

// TrackCommand bumps the command and keystroke counters.  Called once
// per non-empty command before dispatch, regardless of the outcome.
func (s *Session) TrackCommand(command string) {
	s.CommandCount++
	s.KeystrokeCount += len(command)
}

// Store is the keyed session table.  The clock is injected so tests
// control time; production passes time.Now.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore returns an empty store using the given clock.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{sessions: make(map[string]*Session), now: now}
}

// Create registers a fresh session and returns it.
func (st *Store) Create() *Session {
	s := &Session{
		ID:         uuid.NewString(),
		StartedAt:  st.now(),
		LastSeenAt: st.now(),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session by its identity token and marks it seen.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		s.Lock()
		s.LastSeenAt = st.now()
		s.Unlock()
	}
	return s, ok
}

// Evict removes a single session.
func (st *Store) Evict(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// EvictIdle removes every session whose last activity is older than
// maxIdle and reports how many were dropped.  Run periodically so the
// table cannot grow without bound.
func (st *Store) EvictIdle(maxIdle time.Duration) int {
	cutoff := st.now().Add(-maxIdle)
	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for id, s := range st.sessions {
		if s.LastSeenAt.Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
