package quote

import (
	"context"
	"sync"
	"time"
)

// Store persists quotes by id. Implementations must be safe for concurrent
// use; per-quote edit atomicity is the service's job, not the store's.
type Store interface {
	Put(ctx context.Context, quote *Quote) error
	Get(ctx context.Context, id string) (*Quote, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps quotes in process memory. A TTL of zero keeps quotes
// until explicitly deleted.
type MemoryStore struct {
	mu     sync.RWMutex
	quotes map[string]*Quote
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore builds an in-memory store with an optional idle TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		quotes: make(map[string]*Quote),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Put stores a copy of the quote.
func (m *MemoryStore) Put(_ context.Context, quote *Quote) error {
	if quote == nil || quote.ID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[quote.ID] = quote.Clone()
	return nil
}

// Get returns a copy of the stored quote, or nil when the id is unknown.
func (m *MemoryStore) Get(_ context.Context, id string) (*Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.quotes[id]
	if !ok {
		return nil, nil
	}
	return stored.Clone(), nil
}

// Delete removes the quote. Deleting an unknown id is a no-op.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.quotes, id)
	return nil
}

// Len reports how many quotes are resident.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.quotes)
}

// Purge evicts quotes idle longer than the TTL and reports how many were
// removed. With TTL zero it does nothing.
func (m *MemoryStore) Purge() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, stored := range m.quotes {
		if stored.UpdatedAt.Before(cutoff) {
			delete(m.quotes, id)
			evicted++
		}
	}
	return evicted
}

// RunJanitor purges on the given interval until the context is canceled.
func (m *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Purge()
		}
	}
}
