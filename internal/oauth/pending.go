package oauth

import (
	"log/slog"
	"sync"
)

// PendingStore holds the PKCE code verifier for each authorization flow that
// is still waiting for its callback, keyed by the flow's CSRF state.
//
// Entries live until taken. There is no expiry: a flow abandoned before its
// callback leaves its entry behind for the process lifetime.
type PendingStore struct {
	verifiers map[string]string
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewPendingStore creates an empty pending-authorization store.
func NewPendingStore(logger *slog.Logger) *PendingStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PendingStore{
		verifiers: make(map[string]string),
		logger:    logger,
	}
}

// Put records the code verifier for a flow identified by state, replacing
// any previous entry for the same state.
func (s *PendingStore) Put(state, verifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.verifiers[state] = verifier
	s.logger.Debug("stored pending authorization", "entries", len(s.verifiers))
}

// Take removes and returns the verifier for state. The second return is
// false when no flow is pending for that state; each entry can be taken
// exactly once.
func (s *PendingStore) Take(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	verifier, ok := s.verifiers[state]
	if ok {
		delete(s.verifiers, state)
	}
	s.logger.Debug("took pending authorization", "found", ok, "entries", len(s.verifiers))
	return verifier, ok
}

// Len returns the number of flows still waiting for their callback.
func (s *PendingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.verifiers)
}
