package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vyaparsetu-service/internal/domain"
)

// MemoryStore keeps classifications and audits in process memory. Writes,
// including the override compare-and-swap, run under a single lock.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*domain.ClassificationRecord
	byID    map[string]*domain.ClassificationRecord
	audits  map[string][]domain.OverrideAudit
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*domain.ClassificationRecord),
		audits: make(map[string][]domain.OverrideAudit),
		now:    time.Now,
	}
}

func (s *MemoryStore) Record(ctx context.Context, rec *domain.ClassificationRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rec == nil {
		return "", errNilRecord
	}
	stored := rec.Clone()
	if stored.ID == "" {
		stored.ID = newID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[stored.ID]; exists {
		return "", fmt.Errorf("%w: %s", ErrRecordExists, stored.ID)
	}
	s.records = append(s.records, stored)
	s.byID[stored.ID] = stored
	return stored.ID, nil
}

func (s *MemoryStore) GetClassification(ctx context.Context, id string) (*domain.ClassificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Dashboard(ctx context.Context, recent int) (*domain.DashboardMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return summarize(s.records, recent), nil
}

func (s *MemoryStore) Override(ctx context.Context, req domain.OverrideRequest) (*domain.OverrideAudit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[req.RecordID]
	if !ok {
		return nil, ErrRecordNotFound
	}

	// Patch a copy so a rejected override leaves the record untouched.
	patched := rec.Clone()
	old, err := patch(patched, req)
	if err != nil {
		return nil, err
	}
	audit := newAudit(req, old, s.now())
	s.audits[req.RecordID] = append(s.audits[req.RecordID], audit)
	*rec = *patched
	return &audit, nil
}

func (s *MemoryStore) ListAudits(ctx context.Context, recordID string) ([]domain.OverrideAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.byID[recordID]; !ok {
		return nil, ErrRecordNotFound
	}
	return append([]domain.OverrideAudit{}, s.audits[recordID]...), nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error {
	return nil
}
