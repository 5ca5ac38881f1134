package store

import (
	"sync"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
)

// MemoryStore keeps an ordered roster indexed by name key and id.
type MemoryStore struct {
	mu      sync.RWMutex
	players []players.Player
	byName  map[string]int
	byID    map[string]int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]int),
		byID:   make(map[string]int),
	}
}

// ListPlayers returns a copy of the roster in insertion order.
func (s *MemoryStore) ListPlayers() []players.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]players.Player, len(s.players))
	copy(result, s.players)
	return result
}

// GetPlayer retrieves a player by id.
func (s *MemoryStore) GetPlayer(id string) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return players.Player{}, false
	}
	return s.players[idx], true
}

// HasName reports whether a player with the same case-folded, trimmed name exists.
func (s *MemoryStore) HasName(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byName[players.NameKey(name)]
	return ok
}

// HasID reports whether the id is taken.
func (s *MemoryStore) HasID(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byID[id]
	return ok
}

// SetPlayers replaces the roster. Later duplicates of a name or id keep the
// first index but are still listed, so loaded files round-trip unchanged.
func (s *MemoryStore) SetPlayers(items []players.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make([]players.Player, 0, len(items))
	s.byName = make(map[string]int, len(items))
	s.byID = make(map[string]int, len(items))
	for _, p := range items {
		s.appendLocked(p)
	}
}

// AddPlayer appends p unless its name key or id is already present.
func (s *MemoryStore) AddPlayer(p players.Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[p.Key()]; ok {
		return false
	}
	if _, ok := s.byID[p.ID]; ok {
		return false
	}
	s.appendLocked(p)
	return true
}

// Len returns the roster size.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

func (s *MemoryStore) appendLocked(p players.Player) {
	idx := len(s.players)
	s.players = append(s.players, p)
	if _, ok := s.byName[p.Key()]; !ok {
		s.byName[p.Key()] = idx
	}
	if _, ok := s.byID[p.ID]; !ok {
		s.byID[p.ID] = idx
	}
}
