package intake

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps the live form sessions in memory. Each session has exactly one
// writer (the user driving it), so a single mutex over the map is enough.
type Store struct {
	mu    sync.Mutex
	forms map[string]*Form
}

func NewStore() *Store {
	return &Store{forms: map[string]*Form{}}
}

func (s *Store) Create(f *Form) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.forms[id] = f
	s.mu.Unlock()
	return id
}

func (s *Store) Get(id string) (*Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[id]
	return f, ok
}

// Delete drops the session; called on successful handoff or on the back
// signal.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.forms, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}
