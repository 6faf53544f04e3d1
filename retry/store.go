package retry

import "sync"

// AttemptStore tracks attempt counts per operation identifier. The
// store is owned by the caller and passed into the coordinator, so its
// lifecycle is scoped to a session rather than the process.
type AttemptStore interface {
	// Attempts returns the current attempt count for the identifier.
	Attempts(operationID string) int
	// Increment bumps the counter and returns the new value.
	Increment(operationID string) int
	// Reset clears the counter for one identifier.
	Reset(operationID string)
	// ClearAll clears every counter.
	ClearAll()
}

// MemoryStore is the in-process AttemptStore. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.Mutex
	attempts map[string]int
}

// NewMemoryStore creates an empty attempt store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attempts: make(map[string]int)}
}

// Attempts returns the current attempt count for the identifier.
func (s *MemoryStore) Attempts(operationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[operationID]
}

// Increment bumps the counter and returns the new value.
func (s *MemoryStore) Increment(operationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[operationID]++
	return s.attempts[operationID]
}

// Reset clears the counter for one identifier.
func (s *MemoryStore) Reset(operationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, operationID)
}

// ClearAll clears every counter.
func (s *MemoryStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = make(map[string]int)
}
