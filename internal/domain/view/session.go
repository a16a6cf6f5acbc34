package view

import (
	"sync"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
	"github.com/google/uuid"
)

// Session holds the selection state that drives aggregation: the current
// project, view mode, and filters. Every change that invalidates in-flight
// work rotates an opaque token; a result is applied only if the token it was
// issued under is still current. That makes late responses from a superseded
// selection structurally impossible to apply.
type Session struct {
	mu        sync.Mutex
	projectID int64
	mode      Mode
	filters   Filters
	token     string

	search *Debouncer
}

// NewSession creates a session with no project selected and the given search
// debounce period.
func NewSession(searchDebounce time.Duration) *Session {
	return &Session{
		mode:   ModeAll,
		token:  uuid.NewString(),
		search: NewDebouncer(searchDebounce),
	}
}

// Select makes projectID the current selection and returns the fresh token.
func (s *Session) Select(projectID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = projectID
	s.token = uuid.NewString()
	return s.token
}

// Clear drops the selection; any in-flight aggregation becomes stale.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectID = 0
	s.token = uuid.NewString()
}

// SetMode switches the view mode, invalidating in-flight work.
func (s *Session) SetMode(mode Mode) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.token = uuid.NewString()
	return s.token
}

// SetStatusFilter updates the status predicate and applies immediately;
// status changes come from discrete selection events, not typing.
func (s *Session) SetStatusFilter(status skc.Status, apply func()) {
	s.mu.Lock()
	s.filters.Status = status
	s.token = uuid.NewString()
	s.mu.Unlock()
	if apply != nil {
		apply()
	}
}

// SetSearchTerm updates the search predicate and schedules apply after the
// debounce quiet period, so continuous typing does not re-aggregate per
// keystroke.
func (s *Session) SetSearchTerm(term string, apply func()) {
	s.mu.Lock()
	s.filters.Search = term
	s.token = uuid.NewString()
	s.mu.Unlock()
	if apply != nil {
		s.search.Trigger(apply)
	}
}

// Snapshot returns the current selection and its token. ok is false when no
// project is selected.
func (s *Session) Snapshot() (projectID int64, mode Mode, filters Filters, token string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectID, s.mode, s.filters, s.token, s.projectID != 0
}

// Accept reports whether token still identifies the current selection.
func (s *Session) Accept(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token == s.token
}
