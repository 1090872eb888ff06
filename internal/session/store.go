package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrStoreUnavailable = errors.New("session store unavailable")

// Store owns one Session. Only the store mutates it.
type Store interface {
	Get(ctx context.Context) (Session, error)
	Set(ctx context.Context, patch Patch) error
	Clear(ctx context.Context) error
}

// Provider resolves the Store belonging to a browser session id
type Provider interface {
	For(sessionID string) Store
}

// MemoryStore keeps the session in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	current Session
}

func NewMemoryStore(initial Session) *MemoryStore {
	return &MemoryStore{current: initial}
}

func (m *MemoryStore) Get(ctx context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, nil
}

func (m *MemoryStore) Set(ctx context.Context, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Apply(patch)
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{}
	return nil
}

// MemoryProvider keeps one MemoryStore per session id. A session is only
// stored once something is written to it, and entries idle for longer than
// the idle timeout are evicted. A zero timeout keeps them forever.
type MemoryProvider struct {
	mu        sync.Mutex
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	stores    map[string]*memoryEntry
}

type memoryEntry struct {
	store    *MemoryStore
	lastSeen time.Time
}

func NewMemoryProvider(idle time.Duration) *MemoryProvider {
	return &MemoryProvider{
		idle:   idle,
		now:    time.Now,
		stores: make(map[string]*memoryEntry),
	}
}

// For returns a handle on the session; looking one up allocates nothing
func (p *MemoryProvider) For(sessionID string) Store {
	return memoryHandle{p: p, id: sessionID}
}

// Len reports how many sessions are held
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stores)
}

// lookup returns the live store for id and marks it as seen. A missing
// store is only created when create is set.
func (p *MemoryProvider) lookup(id string, create bool) *MemoryStore {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.sweep(now)

	e, ok := p.stores[id]
	if ok && p.expired(e, now) {
		delete(p.stores, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		e = &memoryEntry{store: NewMemoryStore(Session{})}
		p.stores[id] = e
	}
	e.lastSeen = now
	return e.store
}

func (p *MemoryProvider) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.stores, id)
}

// sweep runs at most once per idle period. Caller holds p.mu.
func (p *MemoryProvider) sweep(now time.Time) {
	if p.idle <= 0 || now.Sub(p.lastSweep) < p.idle {
		return
	}
	p.lastSweep = now
	for id, e := range p.stores {
		if p.expired(e, now) {
			delete(p.stores, id)
		}
	}
}

func (p *MemoryProvider) expired(e *memoryEntry, now time.Time) bool {
	return p.idle > 0 && now.Sub(e.lastSeen) > p.idle
}

type memoryHandle struct {
	p  *MemoryProvider
	id string
}

func (h memoryHandle) Get(ctx context.Context) (Session, error) {
	if m := h.p.lookup(h.id, false); m != nil {
		return m.Get(ctx)
	}
	return Session{}, nil
}

func (h memoryHandle) Set(ctx context.Context, patch Patch) error {
	return h.p.lookup(h.id, true).Set(ctx, patch)
}

func (h memoryHandle) Clear(ctx context.Context) error {
	h.p.remove(h.id)
	return nil
}
