package selection

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Registry holds one Tracker per browser session and event. Trackers not
// used for longer than the idle timeout are evicted; zero keeps them.
type Registry struct {
	mu        sync.Mutex
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	trackers  map[string]*trackerEntry
}

type trackerEntry struct {
	tracker  *Tracker
	lastSeen time.Time
}

func NewRegistry(idle time.Duration) *Registry {
	return &Registry{
		idle:     idle,
		now:      time.Now,
		trackers: make(map[string]*trackerEntry),
	}
}

// For returns the tracker for (sessionID, eventID), creating it on first use
func (r *Registry) For(sessionID string, eventID int64) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	k := key(sessionID, eventID)
	e, ok := r.trackers[k]
	if !ok || r.expired(e, now) {
		e = &trackerEntry{tracker: NewTracker()}
		r.trackers[k] = e
	}
	e.lastSeen = now
	return e.tracker
}

// Len reports how many trackers are held
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// sweep runs at most once per idle period. Caller holds r.mu.
func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 || now.Sub(r.lastSweep) < r.idle {
		return
	}
	r.lastSweep = now
	for k, e := range r.trackers {
		if r.expired(e, now) {
			delete(r.trackers, k)
		}
	}
}

func (r *Registry) expired(e *trackerEntry, now time.Time) bool {
	return r.idle > 0 && now.Sub(e.lastSeen) > r.idle
}

// Drop forgets the tracker, e.g. when the booking page is left
func (r *Registry) Drop(sessionID string, eventID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, key(sessionID, eventID))
}

// DropSession forgets every tracker owned by a session
func (r *Registry) DropSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := sessionID + "/"
	for k := range r.trackers {
		if strings.HasPrefix(k, prefix) {
			delete(r.trackers, k)
		}
	}
}

// Retain forgets every tracker of the session except the one for eventID
func (r *Registry) Retain(sessionID string, eventID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := sessionID + "/"
	keep := key(sessionID, eventID)
	for k := range r.trackers {
		if k != keep && strings.HasPrefix(k, prefix) {
			delete(r.trackers, k)
		}
	}
}

func key(sessionID string, eventID int64) string {
	return sessionID + "/" + strconv.FormatInt(eventID, 10)
}
