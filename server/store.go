package main

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Project is a stored drawing: listing metadata plus the raw document
// the editors exchange. The server treats the document as opaque
// beyond sequence-counter normalization.
type Project struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Store is the project persistence interface.
type Store interface {
	List() []Project
	Get(id string) (Project, bool)
	Create(name string, data json.RawMessage) Project
	Update(id, name string, data json.RawMessage) (Project, bool)
	Delete(id string) bool
}

// MemoryStore keeps projects in memory, suitable for a single-node
// deployment and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]Project)}
}

func (s *MemoryStore) List() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Project, 0, len(s.projects))
	for _, p := range s.projects {
		p.Data = nil
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (s *MemoryStore) Get(id string) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	return p, ok
}

func (s *MemoryStore) Create(name string, data json.RawMessage) Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p := Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Data:      data,
	}
	s.projects[p.ID] = p
	return p
}

func (s *MemoryStore) Update(id, name string, data json.RawMessage) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return Project{}, false
	}
	if name != "" {
		p.Name = name
	}
	p.Data = data
	p.UpdatedAt = time.Now().UTC()
	s.projects[id] = p
	return p, true
}

func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false
	}
	delete(s.projects, id)
	return true
}
