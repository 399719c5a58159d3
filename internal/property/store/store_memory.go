package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"landregistry/internal/property/models"
	"landregistry/pkg/domain"
)

// InMemoryStore is the default index backend. Records live for the process
// lifetime; insertion order stands in for the document store's natural order.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.Record
	order   []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]models.Record)}
}

// Insert stores a copy of rec and returns its id, generating one when empty.
func (s *InMemoryStore) Insert(_ context.Context, rec *models.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *rec
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if _, exists := s.records[stored.ID]; !exists {
		s.order = append(s.order, stored.ID)
	}
	s.records[stored.ID] = stored
	return stored.ID, nil
}

// ListByCreatedDesc returns every record, most recent first.
func (s *InMemoryStore) ListByCreatedDesc(_ context.Context) ([]*models.Record, error) {
	out := s.filter(func(models.Record) bool { return true })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListByCreator returns records whose creator equals creator exactly, in insertion order.
func (s *InMemoryStore) ListByCreator(_ context.Context, creator domain.Address) ([]*models.Record, error) {
	return s.filter(func(r models.Record) bool { return r.Creator == creator }), nil
}

func (s *InMemoryStore) FindByIdentifier(_ context.Context, id domain.PropertyID) ([]*models.Record, error) {
	return s.filter(func(r models.Record) bool { return r.Identifier == id }), nil
}

// Update applies patch to the record with recordID.
func (s *InMemoryStore) Update(_ context.Context, recordID string, patch models.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordID]
	if !ok {
		return ErrNotFound
	}
	applyPatch(&rec, patch)
	s.records[recordID] = rec
	return nil
}

func (s *InMemoryStore) filter(keep func(models.Record) bool) []*models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Record, 0, len(s.order))
	for _, id := range s.order {
		rec := s.records[id]
		if keep(rec) {
			out = append(out, &rec)
		}
	}
	return out
}

func applyPatch(rec *models.Record, patch models.Patch) {
	if patch.Owner != nil {
		rec.Owner = *patch.Owner
	}
	if patch.TxHash != nil {
		rec.TxHash = *patch.TxHash
	}
}
