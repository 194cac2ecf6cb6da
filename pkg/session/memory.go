package session

import "sync"

// MemoryStore implements Store with the same entry semantics as FileStore
// but no durability. Useful for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session, or nil when nothing valid is stored.
func (s *MemoryStore) Load() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.entries == nil {
		return nil, nil
	}
	return decodeEntries(s.entries), nil
}

// Save stores all three entries.
func (s *MemoryStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = encodeEntries(sess)
	return nil
}

// Clear removes every entry.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return nil
}

// put overwrites a single raw entry. Package tests use it to simulate
// partial or malformed persisted state.
func (s *MemoryStore) put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	s.entries[key] = value
}

var _ Store = (*MemoryStore)(nil)
