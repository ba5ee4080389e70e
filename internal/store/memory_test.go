package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyaparsetu-service/internal/domain"
)

func newTestRecord(code string, conf float64) *domain.ClassificationRecord {
	return &domain.ClassificationRecord{
		Text:     "test product " + code,
		Language: "en",
		TopCategories: []domain.CategoryScore{{
			Category:   "Home & Decor > Metalware > Brass Decoratives",
			Code:       code,
			Confidence: conf,
			Band:       domain.DefaultBandThresholds.BandFor(conf),
		}},
		HSNCode:          "7418",
		ProcessingTimeMS: 100,
	}
}

func assertBandSum(t *testing.T, m *domain.DashboardMetrics) {
	t.Helper()
	sum := 0
	for _, b := range domain.Bands {
		n, ok := m.BandDistribution[b]
		assert.True(t, ok, "band %s missing", b)
		sum += n
	}
	assert.Equal(t, m.TotalOnboarded, sum)
}

func TestMemoryStore_EmptyDashboard(t *testing.T) {
	s := NewMemoryStore()

	m, err := s.Dashboard(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, m.TotalOnboarded)
	assert.Zero(t, m.AvgConfidence)
	assert.NotNil(t, m.RecentClassifications)
	assert.Empty(t, m.RecentClassifications)
	assertBandSum(t, m)
}

func TestMemoryStore_RecordAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := newTestRecord("HD-MW-BD", 0.923)
	id, err := s.Record(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Empty(t, rec.ID, "caller's record must not be mutated")

	got, err := s.GetClassification(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	// Mutating the returned copy must not leak into the store.
	got.TopCategories[0].Band = domain.BandRed
	again, err := s.GetClassification(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BandGreen, again.TopCategories[0].Band)

	_, err = s.GetClassification(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRecordNotFound))
}

func TestMemoryStore_RecordDuplicateID(t *testing.T) {
	s := NewMemoryStore()
	rec := newTestRecord("HD-MW-BD", 0.9)
	rec.ID = "fixed"

	_, err := s.Record(context.Background(), rec)
	require.NoError(t, err)
	_, err = s.Record(context.Background(), rec)
	assert.True(t, errors.Is(err, ErrRecordExists))

	_, err = s.Record(context.Background(), nil)
	assert.Error(t, err)
}

func TestMemoryStore_Dashboard(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, conf := range []float64{0.923, 0.961, 0.947, 0.6, 0.3} {
		_, err := s.Record(ctx, newTestRecord(fmt.Sprintf("C-%v", conf), conf))
		require.NoError(t, err)
	}

	m, err := s.Dashboard(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, m.TotalOnboarded)
	assert.Equal(t, 3, m.BandDistribution[domain.BandGreen])
	assert.Equal(t, 1, m.BandDistribution[domain.BandYellow])
	assert.Equal(t, 1, m.BandDistribution[domain.BandRed])
	assertBandSum(t, m)
	assert.Equal(t, 0.746, m.AvgConfidence)
	assert.Equal(t, 100.0, m.AvgProcessingTimeMS)

	require.Len(t, m.RecentClassifications, 3)
	assert.Equal(t, "C-0.3", m.RecentClassifications[0].TopCategories[0].Code)
	assert.Equal(t, "C-0.6", m.RecentClassifications[1].TopCategories[0].Code)
	assert.Equal(t, "C-0.947", m.RecentClassifications[2].TopCategories[0].Code)
}

func TestMemoryStore_OverrideMismatch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id, err := s.Record(ctx, newTestRecord("HD-MW-BD", 0.6))
	require.NoError(t, err)

	_, err = s.Override(ctx, domain.OverrideRequest{
		RecordID: id, Field: domain.FieldBand, OldValue: "GREEN", NewValue: "RED", AdminID: "admin-1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOldValueMismatch))

	rec, err := s.GetClassification(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BandYellow, rec.TopCategories[0].Band)

	audits, err := s.ListAudits(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, audits)
}

func TestMemoryStore_OverrideApplied(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id, err := s.Record(ctx, newTestRecord("HD-MW-BD", 0.6))
	require.NoError(t, err)

	audit, err := s.Override(ctx, domain.OverrideRequest{
		RecordID: id, Field: domain.FieldBand, OldValue: "YELLOW", NewValue: "GREEN",
		Reason: "verified by reviewer", AdminID: "admin-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, audit.AuditID)
	assert.Equal(t, "YELLOW", audit.OldValue)
	assert.Equal(t, "GREEN", audit.NewValue)

	m, err := s.Dashboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, m.BandDistribution[domain.BandGreen])
	assert.Equal(t, 0, m.BandDistribution[domain.BandYellow])
	assertBandSum(t, m)
	assert.Equal(t, domain.BandGreen, m.RecentClassifications[0].TopCategories[0].Band)

	audits, err := s.ListAudits(ctx, id)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, audit.AuditID, audits[0].AuditID)
}

func TestMemoryStore_OverrideEmptyOldValueSkipsCheck(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id, err := s.Record(ctx, newTestRecord("HD-MW-BD", 0.9))
	require.NoError(t, err)

	audit, err := s.Override(ctx, domain.OverrideRequest{
		RecordID: id, Field: domain.FieldHSNCode, NewValue: "8306", AdminID: "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "7418", audit.OldValue)

	rec, err := s.GetClassification(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "8306", rec.HSNCode)
}

func TestMemoryStore_OverrideErrors(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id, err := s.Record(ctx, newTestRecord("HD-MW-BD", 0.9))
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      domain.OverrideRequest
		expected error
	}{
		{"unknown record", domain.OverrideRequest{RecordID: "nope", Field: domain.FieldBand, NewValue: "RED"}, ErrRecordNotFound},
		{"unknown field", domain.OverrideRequest{RecordID: id, Field: "confidence", NewValue: "1"}, ErrFieldNotOverridable},
		{"invalid band", domain.OverrideRequest{RecordID: id, Field: domain.FieldBand, NewValue: "PURPLE"}, ErrInvalidOverride},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Override(ctx, tt.req)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}

	_, err = s.ListAudits(ctx, "nope")
	assert.True(t, errors.Is(err, ErrRecordNotFound))
}

func TestMemoryStore_ConcurrentRecords(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Record(ctx, newTestRecord(fmt.Sprintf("C-%d", i), float64(i%10)/10))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	m, err := s.Dashboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, n, m.TotalOnboarded)
	assertBandSum(t, m)
}

func TestMemoryStore_RacingOverridesOneWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	id, err := s.Record(ctx, newTestRecord("HD-MW-BD", 0.6))
	require.NoError(t, err)

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			target := "GREEN"
			if i%2 == 0 {
				target = "RED"
			}
			_, err := s.Override(ctx, domain.OverrideRequest{
				RecordID: id, Field: domain.FieldBand, OldValue: "YELLOW", NewValue: target, AdminID: "admin",
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, ErrOldValueMismatch))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	audits, err := s.ListAudits(ctx, id)
	require.NoError(t, err)
	assert.Len(t, audits, 1)
}

func TestDemoRecords_CoverEveryBand(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	ids, err := Seed(ctx, s, DemoRecords(now, domain.DefaultBandThresholds))
	require.NoError(t, err)
	assert.Len(t, ids, 7)

	m, err := s.Dashboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, m.BandDistribution[domain.BandGreen])
	assert.Equal(t, 2, m.BandDistribution[domain.BandYellow])
	assert.Equal(t, 1, m.BandDistribution[domain.BandRed])
	assertBandSum(t, m)
	assert.Equal(t, "Traditional pickles and preserves", m.RecentClassifications[0].Text)
}
