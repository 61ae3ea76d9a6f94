package cache

import (
	"context"
	"errors"
	"sync"
)

// Tag-keyed read cache with explicit invalidation.
// Writers never mutate cached values directly: they invalidate a tag
// and the next read refetches, so derived values can never drift from
// their inputs.

var ErrUnknownTag = errors.New("unknown cache tag")

// FetchFunc loads the authoritative value for a tag.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	fetch FetchFunc
	value any
	fresh bool
	gen   uint64 // bumped by Invalidate; a fetch started before the bump cannot mark the entry fresh
}

type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Register binds a tag to its fetch function. The entry starts stale,
// so the first Get always hits the fetcher.
func (s *Store) Register(tag string, fetch FetchFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tag] = &entry{fetch: fetch}
}

// Get returns the cached value for tag, refetching first if the entry
// is stale. A failed refetch leaves the entry stale for a later retry.
func (s *Store) Get(ctx context.Context, tag string) (any, error) {
	s.mu.Lock()
	e, ok := s.entries[tag]
	if !ok {
		s.mu.Unlock()
		return nil, ErrUnknownTag
	}
	if e.fresh {
		v := e.value
		s.mu.Unlock()
		return v, nil
	}
	fetch := e.fetch
	gen := e.gen
	s.mu.Unlock()

	// Fetch outside the lock: fetchers may take a while or read
	// other tags from this store.
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// An invalidation that landed during the fetch bumps gen; the
	// entry then stays stale so the next Get re-reads past it.
	if e.gen == gen {
		e.value = v
		e.fresh = true
	}
	s.mu.Unlock()
	return v, nil
}

// Invalidate marks the given tags stale. Unregistered tags are
// ignored so callers can invalidate views that are not materialized.
func (s *Store) Invalidate(tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range tags {
		if e, ok := s.entries[tag]; ok {
			e.fresh = false
			e.value = nil
			e.gen++
		}
	}
}

// Stale reports whether tag needs a refetch. Unknown tags are stale.
func (s *Store) Stale(tag string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[tag]
	return !ok || !e.fresh
}
