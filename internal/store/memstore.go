package store

import (
	"context"
	"sort"
	"sync"
	"time"

	verrors "github.com/pagevault/pagevault/internal/errors"
)

// MemStore is a thread-safe in-memory Store. Tests use it to exercise the
// pipeline without a database file.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		docs: make(map[string]Document),
	}
}

func (m *MemStore) Create(ctx context.Context, doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	doc.UpdatedAt = doc.CreatedAt
	m.docs[doc.ID] = *doc
	return nil
}

func (m *MemStore) Update(ctx context.Context, doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[doc.ID]; !ok {
		return verrors.ErrNotFound
	}
	doc.UpdatedAt = time.Now()
	m.docs[doc.ID] = *doc
	return nil
}

func (m *MemStore) FindByID(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, verrors.ErrNotFound
	}
	return &doc, nil
}

func (m *MemStore) FindActive(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok || !doc.Active {
		return nil, verrors.ErrNotFound
	}
	return &doc, nil
}

func (m *MemStore) ListActive(ctx context.Context) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.docs))
	for _, doc := range m.docs {
		if doc.Active {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (m *MemStore) Deactivate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return verrors.ErrNotFound
	}
	doc.Active = false
	doc.UpdatedAt = time.Now()
	m.docs[id] = doc
	return nil
}
