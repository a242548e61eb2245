package kvstore

import "sync"

// MemStore is an in-memory Store for tests and ephemeral sessions.
// FailWrites and FailReads force every call to report the given error, the
// way a full or disabled browser store would.
type MemStore struct {
	mu         sync.Mutex
	values     map[string][]byte
	FailWrites error
	FailReads  error
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailReads != nil {
		return nil, s.FailReads
	}
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	delete(s.values, key)
	return nil
}
