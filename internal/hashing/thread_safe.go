package hashing

import "sync"

// ThreadSafeTable wraps RepetitionTable with mutex protection for concurrent access.
type ThreadSafeTable struct {
	table *RepetitionTable
	mu    sync.RWMutex
}

// NewThreadSafeTable creates a new thread-safe table.
func NewThreadSafeTable() *ThreadSafeTable {
	return &ThreadSafeTable{table: NewRepetitionTable()}
}

// Record atomically adds one occurrence of hash and returns its new count.
func (t *ThreadSafeTable) Record(hash uint64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.table.Record(hash)
}

// Count returns how often hash has been recorded.
func (t *ThreadSafeTable) Count(hash uint64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.table.Count(hash)
}

// Len returns the number of distinct hashes.
func (t *ThreadSafeTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.table.Len()
}
