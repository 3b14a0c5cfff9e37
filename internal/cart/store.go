package cart

import "sync"

// Store hands out one cart per session ID. The POS is a single-terminal
// system, but net/http serves concurrently, so access is mutex-guarded.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Get returns the cart for the session, creating it on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	return c
}

// WithCart runs fn with the session's cart while holding the store lock, so
// cart mutations from overlapping requests cannot interleave.
func (s *Store) WithCart(sessionID string, fn func(*Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = New()
		s.carts[sessionID] = c
	}
	fn(c)
}
