// Package session keeps per-visitor analysis state in memory.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/smart-ats/internal/analysis"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// State is what one session remembers between interactions.
// Result is nil until the first successful analysis.
type State struct {
	Result         *analysis.Result
	JobDescription string
	ResumeName     string
	AnalyzedAt     time.Time
}

// HasResult reports whether an analysis has completed in this session.
func (s *State) HasResult() bool {
	return s.Result != nil
}

// Replace swaps in a new result wholesale along with the inputs that produced it.
func (s *State) Replace(result *analysis.Result, jobDescription, resumeName string, at time.Time) {
	s.Result = result
	s.JobDescription = jobDescription
	s.ResumeName = resumeName
	s.AnalyzedAt = at
}

type entry struct {
	state    State
	lastSeen time.Time
}

// Store is an in-memory, TTL-bounded session store safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
	ttl      time.Duration
	now      func() time.Time

	inflight singleflight.Group

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// A ttl of zero disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Create starts an empty session and returns its ID.
func (s *Store) Create() uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &entry{lastSeen: s.now()}
	s.mu.Unlock()
	return id
}

// Exists reports whether id names a live session.
func (s *Store) Exists(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.lookup(id)
	return ok
}

// Get returns a copy of the session state.
func (s *Store) Get(id uuid.UUID) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(id)
	if !ok {
		return State{}, ErrNotFound
	}
	return e.state, nil
}

// Update applies fn to the session state under the store lock.
func (s *Store) Update(id uuid.UUID, fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(id)
	if !ok {
		return ErrNotFound
	}
	fn(&e.state)
	return nil
}

// Reset clears the session back to its initial empty state.
func (s *Store) Reset(id uuid.UUID) error {
	return s.Update(id, func(st *State) { *st = State{} })
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle since before now minus the TTL and returns how
// many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions every interval until Close is called.
// onSweep hears about sweeps that removed something, with the sessions left.
func (s *Store) StartJanitor(interval time.Duration, onSweep func(removed, live int)) {
	if interval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(s.now()); n > 0 && onSweep != nil {
					onSweep(n, s.Len())
				}
			case <-s.stop:
				return
			}
		}
	}()
}

// Close stops the janitor. It is safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// Analyze runs fn for one session and one set of inputs. Callers that
// arrive with the same session and input key while a call is in flight share
// its outcome; shared reports whether that happened. Different inputs never
// share a call.
//
// fn runs on a context detached from ctx cancellation, so one caller going
// away does not fail the others. A caller whose ctx ends stops waiting and
// gets ctx.Err().
func (s *Store) Analyze(ctx context.Context, id uuid.UUID, inputKey string, fn func(context.Context) (*analysis.Result, error)) (result *analysis.Result, shared bool, err error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := s.inflight.DoChan(id.String()+"/"+inputKey, func() (interface{}, error) {
		return fn(flightCtx)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(*analysis.Result), res.Shared, nil
	}
}

// InputKey identifies one set of analyze inputs.
func InputKey(jobDescription string, resume []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:", len(jobDescription))
	h.Write([]byte(jobDescription))
	h.Write(resume)
	return hex.EncodeToString(h.Sum(nil))
}

// lookup returns a live entry and refreshes its idle timer. Caller holds mu.
func (s *Store) lookup(id uuid.UUID) (*entry, bool) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e, true
}
