package googlehome

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/gray-logic-googlehome/internal/coordinator"
)

// DeviceCoordinator is the coordinator type shared by an entry's entities.
type DeviceCoordinator = coordinator.Coordinator[[]Device]

// RuntimeData is what an integration entry shares with its platforms.
type RuntimeData struct {
	Client      Client
	Coordinator *DeviceCoordinator
}

// Store holds runtime data per integration entry id.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*RuntimeData
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*RuntimeData)}
}

// Put stores data for entryID. Returns ErrEntryExists if already set.
func (s *Store) Put(entryID string, data *RuntimeData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entryID]; ok {
		return fmt.Errorf("%w: %s", ErrEntryExists, entryID)
	}
	s.entries[entryID] = data
	return nil
}

// Get returns the data for entryID or ErrEntryNotLoaded.
func (s *Store) Get(entryID string) (*RuntimeData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotLoaded, entryID)
	}
	return data, nil
}

// Remove deletes the data for entryID and reports whether it existed.
func (s *Store) Remove(entryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[entryID]
	delete(s.entries, entryID)
	return ok
}

// EntryIDs returns the loaded entry ids, sorted.
func (s *Store) EntryIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
