package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyaparsetu-service/internal/domain"
)

// Helper function to create a mock DB and PostgresStore for testing
func newMockDBAndStore(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresStore) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	store := NewPostgresStore(db, nil)
	require.NotNil(t, store, "Store should not be nil")

	return db, mock, store
}

// PtrTo returns a pointer to v.
func PtrTo[T any](v T) *T {
	return &v
}

var recordColumns = []string{
	"id", "original_text", "translated_text", "language", "top_categories", "attributes",
	"hsn_code", "ondc_catalog", "processing_time_ms", "created_at",
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func addRecordRow(t *testing.T, rows *sqlmock.Rows, rec *domain.ClassificationRecord) *sqlmock.Rows {
	var catalog []byte
	if rec.ONDCCatalog != nil {
		catalog = mustJSON(t, rec.ONDCCatalog)
	}
	var translated any
	if rec.TranslatedText != nil {
		translated = *rec.TranslatedText
	}
	return rows.AddRow(
		rec.ID, rec.Text, translated, rec.Language,
		mustJSON(t, rec.TopCategories), mustJSON(t, rec.Attributes),
		rec.HSNCode, catalog, rec.ProcessingTimeMS, rec.CreatedAt,
	)
}

func sampleRecord(id string) *domain.ClassificationRecord {
	return &domain.ClassificationRecord{
		ID:             id,
		Text:           "main peetal ke saaman banata hoon",
		TranslatedText: PtrTo("I make brass items"),
		Language:       "hi",
		TopCategories: []domain.CategoryScore{
			{Category: "Home & Decor > Metalware > Brass Decoratives", Code: "HD-MW-BD", Confidence: 0.62, Band: domain.BandYellow},
		},
		Attributes:       domain.ProductAttributes{Material: "Brass (Peetal)"},
		HSNCode:          "7418",
		ProcessingTimeMS: 12.5,
		CreatedAt:        time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestPostgresStore_Record(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	rec := sampleRecord("")
	query := regexp.QuoteMeta(`INSERT INTO vyaparsetu.classifications`)

	mock.ExpectExec(query).
		WithArgs(sqlmock.AnyArg(), rec.Text, rec.TranslatedText, "hi", sqlmock.AnyArg(), 0.62, "YELLOW",
			sqlmock.AnyArg(), "7418", nil, 12.5, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := store.Record(context.Background(), rec)

	require.NoError(t, err, "Record should not return an error")
	assert.NotEmpty(t, id, "Record should assign an id")

	err = mock.ExpectationsWereMet()
	require.NoError(t, err, "SQLmock expectations were not met")
}

func TestPostgresStore_Record_IDExists(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	pqErr := &pq.Error{Code: "23505", Constraint: "classifications_pkey"}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vyaparsetu.classifications`)).WillReturnError(pqErr)

	_, err := store.Record(context.Background(), sampleRecord("dup"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRecordExists), "Error should be ErrRecordExists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetClassification_Found(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	expected := sampleRecord("rec-1")
	rows := addRecordRow(t, sqlmock.NewRows(recordColumns), expected)
	mock.ExpectQuery(`SELECT .+ FROM vyaparsetu\.classifications WHERE id = \$1`).
		WithArgs("rec-1").
		WillReturnRows(rows)

	rec, err := store.GetClassification(context.Background(), "rec-1")

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, expected.ID, rec.ID)
	assert.Equal(t, expected.TopCategories, rec.TopCategories)
	assert.Equal(t, expected.Attributes, rec.Attributes)
	require.NotNil(t, rec.TranslatedText)
	assert.Equal(t, "I make brass items", *rec.TranslatedText)
	assert.Nil(t, rec.ONDCCatalog)
	assert.Equal(t, expected.CreatedAt.Unix(), rec.CreatedAt.Unix())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetClassification_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM vyaparsetu\.classifications WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	rec, err := store.GetClassification(context.Background(), "missing")

	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, ErrRecordNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Dashboard(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*), COALESCE(AVG(top_confidence), 0), COALESCE(AVG(processing_time_ms), 0)`)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg_conf", "avg_time"}).AddRow(3, 0.74633, 150.04))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT top_band, COUNT(*) FROM vyaparsetu.classifications GROUP BY top_band;`)).
		WillReturnRows(sqlmock.NewRows([]string{"top_band", "count"}).AddRow("GREEN", 2).AddRow("YELLOW", 1))
	mock.ExpectQuery(`SELECT .+ FROM vyaparsetu\.classifications ORDER BY seq DESC LIMIT \$1`).
		WithArgs(DefaultRecentLimit).
		WillReturnRows(addRecordRow(t, sqlmock.NewRows(recordColumns), sampleRecord("rec-3")))
	mock.ExpectCommit()

	m, err := store.Dashboard(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, 3, m.TotalOnboarded)
	assert.Equal(t, 0.746, m.AvgConfidence)
	assert.Equal(t, 150.0, m.AvgProcessingTimeMS)
	assert.Equal(t, 2, m.BandDistribution[domain.BandGreen])
	assert.Equal(t, 1, m.BandDistribution[domain.BandYellow])
	assert.Equal(t, 0, m.BandDistribution[domain.BandRed])
	require.Len(t, m.RecentClassifications, 1)
	assert.Equal(t, "rec-3", m.RecentClassifications[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Dashboard_Empty(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg_conf", "avg_time"}).AddRow(0, 0, 0))
	mock.ExpectCommit()

	m, err := store.Dashboard(context.Background(), 5)

	require.NoError(t, err)
	assert.Zero(t, m.TotalOnboarded)
	assert.Len(t, m.BandDistribution, 3)
	assert.Empty(t, m.RecentClassifications)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Dashboard_QueryErrorRollsBack(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg_conf", "avg_time"}).AddRow(2, 0.9, 120.0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT top_band, COUNT(*)`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	m, err := store.Dashboard(context.Background(), 0)

	assert.Nil(t, m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query bands")
	require.NoError(t, mock.ExpectationsWereMet(), "all dashboard reads must share one transaction")
}

func TestPostgresStore_Override(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	rec := sampleRecord("rec-1")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM vyaparsetu\.classifications WHERE id = \$1 FOR UPDATE`).
		WithArgs("rec-1").
		WillReturnRows(addRecordRow(t, sqlmock.NewRows(recordColumns), rec))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vyaparsetu.classifications`)).
		WithArgs(sqlmock.AnyArg(), "GREEN", "7418", "rec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vyaparsetu.override_audits`)).
		WithArgs(sqlmock.AnyArg(), "rec-1", "band", "YELLOW", "GREEN", "looks right", "admin-7", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	audit, err := store.Override(context.Background(), domain.OverrideRequest{
		RecordID: "rec-1", Field: "band", OldValue: "YELLOW", NewValue: "GREEN",
		Reason: "looks right", AdminID: "admin-7",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, audit.AuditID)
	assert.Equal(t, "YELLOW", audit.OldValue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Override_Mismatch(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WithArgs("rec-1").
		WillReturnRows(addRecordRow(t, sqlmock.NewRows(recordColumns), sampleRecord("rec-1")))
	mock.ExpectRollback()

	audit, err := store.Override(context.Background(), domain.OverrideRequest{
		RecordID: "rec-1", Field: "band", OldValue: "RED", NewValue: "GREEN", AdminID: "admin-7",
	})

	assert.Nil(t, audit)
	assert.True(t, errors.Is(err, ErrOldValueMismatch))
	require.NoError(t, mock.ExpectationsWereMet(), "no update or audit may be written")
}

func TestPostgresStore_Override_NotFound(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := store.Override(context.Background(), domain.OverrideRequest{RecordID: "ghost", Field: "band", NewValue: "RED"})

	assert.True(t, errors.Is(err, ErrRecordNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Override_AuditFailureRollsBack(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WithArgs("rec-1").
		WillReturnRows(addRecordRow(t, sqlmock.NewRows(recordColumns), sampleRecord("rec-1")))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vyaparsetu.classifications`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO vyaparsetu.override_audits`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := store.Override(context.Background(), domain.OverrideRequest{
		RecordID: "rec-1", Field: "hsn_code", NewValue: "8306", AdminID: "admin-7",
	})

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAudits(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM vyaparsetu.classifications WHERE id = $1);`)).
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM vyaparsetu.override_audits`)).
		WithArgs("rec-1").
		WillReturnRows(sqlmock.NewRows([]string{"audit_id", "record_id", "field", "old_value", "new_value", "reason", "admin_id", "applied_at"}).
			AddRow("a-1", "rec-1", "band", "YELLOW", "GREEN", "ok", "admin-7", at))

	audits, err := store.ListAudits(context.Background(), "rec-1")

	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "a-1", audits[0].AuditID)
	assert.Equal(t, at, audits[0].AppliedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAudits_UnknownRecord(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := store.ListAudits(context.Background(), "ghost")

	assert.True(t, errors.Is(err, ErrRecordNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE SCHEMA IF NOT EXISTS vyaparsetu;`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
