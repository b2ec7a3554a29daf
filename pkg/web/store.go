package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/goliatone/go-stepform/pkg/session"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// entry serialises access to one session.
type entry struct {
	mu      sync.Mutex
	session *session.Session
}

// Store keeps sessions in memory with sliding expiry.
type Store struct {
	ttl   time.Duration
	items *cache.Cache
}

// NewStore creates a store evicting sessions idle for longer than ttl.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Store{
		ttl:   ttl,
		items: cache.New(ttl, ttl/2),
	}
}

// Add stores s under a new random id.
func (st *Store) Add(s *session.Session) string {
	id := uuid.NewString()
	st.items.Set(id, &entry{session: s}, st.ttl)
	return id
}

// get returns the entry for id and extends its lifetime.
func (st *Store) get(id string) (*entry, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	raw, ok := st.items.Get(id)
	if !ok {
		return nil, false
	}
	e, ok := raw.(*entry)
	if !ok {
		return nil, false
	}
	st.items.Set(id, e, st.ttl)
	return e, true
}

// Get returns the session stored under id.
func (st *Store) Get(id string) (*session.Session, bool) {
	e, ok := st.get(id)
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Delete drops the session stored under id.
func (st *Store) Delete(id string) {
	st.items.Delete(id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	return st.items.ItemCount()
}
