// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/termfolio/internal/content"
	"github.com/jeranaias/termfolio/internal/reveal"
	"github.com/jeranaias/termfolio/internal/terminal"
)

// Session errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// =============================================================================
// WEB SESSION
// =============================================================================

// webSession is one browser terminal. Auto commands run immediately: the
// browser animates typing on its side.
type webSession struct {
	ID         string
	engine     *terminal.Engine
	controller *reveal.Controller
	queue      *immediateQueue
	created    time.Time

	// revealMu serialises visibility reports so each sees its own entries.
	revealMu sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
}

// reveal marks a section visible and returns whether it fired along with the
// entries its auto command appended.
func (s *webSession) reveal(sectionID string) (bool, []terminal.Entry) {
	s.revealMu.Lock()
	defer s.revealMu.Unlock()
	fired := s.controller.OnVisible(sectionID)
	return fired, s.queue.drain()
}

// immediateQueue runs auto commands as soon as they are enqueued.
type immediateQueue struct {
	engine *terminal.Engine

	mu  sync.Mutex
	ran []terminal.Entry
}

func (q *immediateQueue) Enqueue(command string) error {
	entries := q.engine.Run(command)
	q.mu.Lock()
	q.ran = append(q.ran, entries...)
	q.mu.Unlock()
	return nil
}

// drain returns and forgets the entries produced since the last drain.
func (q *immediateQueue) drain() []terminal.Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.ran
	q.ran = nil
	return out
}

func (s *webSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *webSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore holds web sessions in memory, expiring idle ones.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*webSession

	ttl    time.Duration
	max    int
	now    func() time.Time
	logger *slog.Logger
}

// NewSessionStore creates a store. max <= 0 means unlimited.
func NewSessionStore(ttl time.Duration, max int, now func() time.Time, logger *slog.Logger) *SessionStore {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[string]*webSession),
		ttl:      ttl,
		max:      max,
		now:      now,
		logger:   logger,
	}
}

// Create starts a session over the given content. Expired sessions are swept
// first; if the store is still full ErrTooManySessions is returned.
func (st *SessionStore) Create(bundle *content.Bundle, opts terminal.Options, rc reveal.Config) (*webSession, error) {
	st.Sweep()

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.max > 0 && len(st.sessions) >= st.max {
		return nil, ErrTooManySessions
	}

	now := st.now()
	opts.Outputs = bundle.Outputs
	opts.Now = st.now
	opts.Logger = st.logger
	engine := terminal.NewEngine(opts)
	q := &immediateQueue{engine: engine}
	engine.AttachQueue(q)

	s := &webSession{
		ID:       uuid.NewString(),
		engine:   engine,
		queue:    q,
		created:  now,
		lastSeen: now,
	}
	s.controller = reveal.NewController(bundle.Sections, reveal.Options{
		Config: rc,
		OnTrigger: func(sec content.Section) {
			if err := engine.EnqueueAutoCommand(sec.Command); err != nil && !errors.Is(err, terminal.ErrInteractiveMode) {
				st.logger.Warn("auto command failed", "session", s.ID, "section", sec.ID, "error", err)
			}
		},
	})
	// Browsers report visibility directly, so observation starts with no
	// layout.
	_ = s.controller.Observe(nil)

	st.sessions[s.ID] = s
	st.logger.Debug("web session created", "session", s.ID)
	return s, nil
}

// Get returns a live session and refreshes its idle timer.
func (st *SessionStore) Get(id string) (*webSession, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	now := st.now()
	if st.ttl > 0 && now.Sub(s.idleSince()) > st.ttl {
		st.remove(id)
		return nil, ErrSessionNotFound
	}
	s.touch(now)
	return s, nil
}

// Delete ends a session.
func (st *SessionStore) Delete(id string) error {
	if !st.remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// Sweep removes sessions idle longer than the TTL and returns how many.
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > st.ttl {
			s.controller.Dispose()
			delete(st.sessions, id)
			n++
		}
	}
	if n > 0 {
		st.logger.Debug("web sessions expired", "count", n)
	}
	return n
}

// Len returns the number of sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// IDs returns the session ids, sorted.
func (st *SessionStore) IDs() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	ids := make([]string, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetOutputs pushes reloaded outputs into every live session.
func (st *SessionStore) SetOutputs(o terminal.Outputs) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.sessions {
		s.engine.SetOutputs(o)
	}
}

func (st *SessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return false
	}
	s.controller.Dispose()
	delete(st.sessions, id)
	return true
}
