package store

import (
	"context"
	"sort"
	"sync"

	"github.com/patchwire/patchwire/pkg/document"
	"github.com/patchwire/patchwire/pkg/errors"
)

// MemoryStore is an in-memory DocumentStore for tests and ephemeral
// sessions. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*document.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*document.Document)}
}

// Put saves a deep copy of the document.
func (s *MemoryStore) Put(ctx context.Context, d *document.Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[d.ID] = d.Clone()
	return nil
}

// Get loads a copy of the document by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	return d.Clone(), nil
}

// Delete removes a document by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", id)
	}
	delete(s.docs, id)
	return nil
}

// List returns summaries sorted by most recently updated.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, Summary{
			ID:        d.ID,
			Name:      d.Name,
			NodeCount: d.Graph.NodeCount(),
			UpdatedAt: d.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements DocumentStore.
var _ DocumentStore = (*MemoryStore)(nil)
