package storage

import (
	"context"
	"sync"
	"time"

	"github.com/CreativeUnicorns/prefseditor"
)

// MemoryStorage keeps saved values in a map. Useful for tests and throwaway sessions.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]map[string]*prefseditor.StoredValue // profile -> name -> value
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]map[string]*prefseditor.StoredValue),
	}
}

// Get returns prefseditor.ErrNotFound when no value is saved.
func (s *MemoryStorage) Get(_ context.Context, profile, name string) (*prefseditor.StoredValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sv, ok := s.values[profile][name]
	if !ok {
		return nil, prefseditor.ErrNotFound
	}
	svCopy := *sv
	return &svCopy, nil
}

// Set stores a copy of v and stamps its UpdatedAt.
func (s *MemoryStorage) Set(_ context.Context, v *prefseditor.StoredValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[v.Profile]; !ok {
		s.values[v.Profile] = make(map[string]*prefseditor.StoredValue)
	}
	toStore := *v
	toStore.UpdatedAt = time.Now()
	s.values[v.Profile][v.Name] = &toStore
	return nil
}

// Delete removes a saved value. Deleting a missing value is not an error.
func (s *MemoryStorage) Delete(_ context.Context, profile, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profileValues, ok := s.values[profile]
	if !ok {
		return nil
	}
	delete(profileValues, name)
	if len(profileValues) == 0 {
		delete(s.values, profile)
	}
	return nil
}

// GetAll returns copies of every value saved for profile.
func (s *MemoryStorage) GetAll(_ context.Context, profile string) (map[string]*prefseditor.StoredValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*prefseditor.StoredValue, len(s.values[profile]))
	for name, sv := range s.values[profile] {
		svCopy := *sv
		out[name] = &svCopy
	}
	return out, nil
}

// GetByModule returns copies of the values saved for entries of one module.
func (s *MemoryStorage) GetByModule(_ context.Context, profile, module string) (map[string]*prefseditor.StoredValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*prefseditor.StoredValue)
	for name, sv := range s.values[profile] {
		if sv.Module == module {
			svCopy := *sv
			out[name] = &svCopy
		}
	}
	return out, nil
}

// Close is a no-op.
func (s *MemoryStorage) Close() error {
	return nil
}
