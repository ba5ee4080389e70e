package store

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"vyaparsetu-service/internal/domain"
)

// newID returns a fresh record or audit identifier.
func newID() string {
	return uuid.NewString()
}

func recentLimit(n int) int {
	if n <= 0 {
		return DefaultRecentLimit
	}
	return n
}

// topOf returns the confidence and band used for aggregation. A record without
// categories counts as RED with zero confidence.
func topOf(r *domain.ClassificationRecord) (float64, domain.Band) {
	top := r.Top()
	if top == nil || !top.Band.Valid() {
		return 0, domain.BandRed
	}
	return top.Confidence, top.Band
}

// emptyDistribution keeps every band present even with zero volume.
func emptyDistribution() map[domain.Band]int {
	dist := make(map[domain.Band]int, len(domain.Bands))
	for _, b := range domain.Bands {
		dist[b] = 0
	}
	return dist
}

// summarize builds dashboard metrics from records in insertion order.
func summarize(records []*domain.ClassificationRecord, recent int) *domain.DashboardMetrics {
	m := &domain.DashboardMetrics{
		BandDistribution:      emptyDistribution(),
		RecentClassifications: []domain.ClassificationRecord{},
	}
	if len(records) == 0 {
		return m
	}

	var confSum, timeSum float64
	for _, r := range records {
		conf, band := topOf(r)
		m.BandDistribution[band]++
		confSum += conf
		timeSum += r.ProcessingTimeMS
	}
	m.TotalOnboarded = len(records)
	m.AvgConfidence = roundTo(confSum/float64(len(records)), 3)
	m.AvgProcessingTimeMS = roundTo(timeSum/float64(len(records)), 1)

	// newest first
	limit := recentLimit(recent)
	for i := len(records) - 1; i >= 0 && len(m.RecentClassifications) < limit; i-- {
		m.RecentClassifications = append(m.RecentClassifications, *records[i].Clone())
	}
	return m
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// patch checks the optimistic old value and applies the override to rec,
// returning the value that was replaced.
func patch(rec *domain.ClassificationRecord, req domain.OverrideRequest) (string, error) {
	current, err := domain.FieldValue(rec, req.Field)
	if err != nil {
		return "", overrideError(err)
	}
	if req.OldValue != "" && req.OldValue != current {
		return "", fmt.Errorf("%w: %s is %q, not %q", ErrOldValueMismatch, req.Field, current, req.OldValue)
	}
	if err := domain.ApplyOverride(rec, req.Field, req.NewValue); err != nil {
		return "", overrideError(err)
	}
	return current, nil
}

func overrideError(err error) error {
	switch {
	case errors.Is(err, domain.ErrFieldNotOverridable):
		return ErrFieldNotOverridable
	case errors.Is(err, domain.ErrInvalidBand), errors.Is(err, domain.ErrNoTopCategory):
		return fmt.Errorf("%w: %v", ErrInvalidOverride, err)
	default:
		return err
	}
}

func newAudit(req domain.OverrideRequest, old string, at time.Time) domain.OverrideAudit {
	return domain.OverrideAudit{
		AuditID:   newID(),
		RecordID:  req.RecordID,
		Field:     req.Field,
		OldValue:  old,
		NewValue:  req.NewValue,
		Reason:    req.Reason,
		AdminID:   req.AdminID,
		AppliedAt: at.UTC(),
	}
}
