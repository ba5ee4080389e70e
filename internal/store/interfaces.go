package store

import (
	"context"
	"errors"

	"vyaparsetu-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrRecordNotFound      = errors.New("store: record not found")
	ErrRecordExists        = errors.New("store: record id already exists")
	ErrOldValueMismatch    = errors.New("store: old value mismatch")
	ErrFieldNotOverridable = errors.New("store: field not overridable")
	ErrInvalidOverride     = errors.New("store: invalid override value")
	errNilRecord           = errors.New("store: nil record")
)

// DefaultRecentLimit is the number of recent classifications shown on the dashboard
// when the caller does not ask for a specific amount.
const DefaultRecentLimit = 10

// ClassificationStorer defines the append-only classification log and its aggregate view.
type ClassificationStorer interface {
	Record(ctx context.Context, rec *domain.ClassificationRecord) (string, error)
	GetClassification(ctx context.Context, id string) (*domain.ClassificationRecord, error)
	Dashboard(ctx context.Context, recent int) (*domain.DashboardMetrics, error)
}

// OverrideStorer defines the admin correction path and its audit trail.
type OverrideStorer interface {
	// Override applies req atomically: either the record is patched and one audit
	// entry is appended, or nothing changes.
	Override(ctx context.Context, req domain.OverrideRequest) (*domain.OverrideAudit, error)
	ListAudits(ctx context.Context, recordID string) ([]domain.OverrideAudit, error)
}

// Store is implemented by every backend.
type Store interface {
	ClassificationStorer
	OverrideStorer
	Close() error
}
