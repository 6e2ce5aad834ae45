// Package store provides the in-memory embedding store: one reference
// embedding per enrolled identity, with copy-on-write snapshots so a matching
// pass always sees a consistent candidate set while enrollments and deletions
// run concurrently.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/presenca-labs/presenca/internal/domain"
)

type Store struct {
	mu         sync.RWMutex
	dim        int
	identities map[uuid.UUID]*domain.Identity
	byExternal map[string]uuid.UUID
	snapshot   []domain.Candidate // immutable once published; rebuilt on write
}

// New creates a store for dim-length embeddings. With dim 0 the first
// enrolled embedding fixes the dimension for the lifetime of the store.
func New(dim int) *Store {
	return &Store{
		dim:        dim,
		identities: make(map[uuid.UUID]*domain.Identity),
		byExternal: make(map[string]uuid.UUID),
	}
}

// Put inserts or replaces the embedding for identity.ID. The embedding length
// must match the store dimension, and the external id must not belong to a
// different identity.
func (s *Store) Put(ctx context.Context, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(identity.Embedding)
	}
	if len(identity.Embedding) != s.dim {
		return domain.ErrDimensionMismatch.WithError(
			fmt.Errorf("embedding has %d values, store dimension is %d", len(identity.Embedding), s.dim))
	}

	if owner, ok := s.byExternal[identity.ExternalID]; ok && owner != identity.ID {
		return domain.ErrIdentityExists
	}

	if prev, ok := s.identities[identity.ID]; ok && prev.ExternalID != identity.ExternalID {
		delete(s.byExternal, prev.ExternalID)
	}

	cp := *identity
	cp.Embedding = append([]float64(nil), identity.Embedding...)
	s.identities[cp.ID] = &cp
	s.byExternal[cp.ExternalID] = cp.ID
	s.rebuild()

	return nil
}

// Get returns a copy of the identity.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}

	cp := *identity
	cp.Embedding = append([]float64(nil), identity.Embedding...)
	return &cp, nil
}

// Remove deletes the identity and its embedding.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity, ok := s.identities[id]
	if !ok {
		return domain.ErrIdentityNotFound
	}

	delete(s.byExternal, identity.ExternalID)
	delete(s.identities, id)
	s.rebuild()

	return nil
}

// List returns copies of all identities ordered by enrollment time.
func (s *Store) List(ctx context.Context) ([]*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		cp := *identity
		cp.Embedding = append([]float64(nil), identity.Embedding...)
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	return out, nil
}

// Candidates returns the current enrollment snapshot. The returned slice and
// its embeddings are never mutated after publication; a matching pass may
// hold it for as long as it likes while writes continue.
func (s *Store) Candidates(ctx context.Context) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}

// Count reports store cardinality.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities), nil
}

// Dim reports the fixed embedding dimension, 0 if not yet fixed.
func (s *Store) Dim() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// rebuild publishes a fresh snapshot slice. Caller holds the write lock.
// Stored embeddings are private copies, so sharing the backing arrays with
// published snapshots is safe.
func (s *Store) rebuild() {
	snap := make([]domain.Candidate, 0, len(s.identities))
	for id, identity := range s.identities {
		snap = append(snap, domain.Candidate{ID: id, Embedding: identity.Embedding})
	}
	s.snapshot = snap
}
