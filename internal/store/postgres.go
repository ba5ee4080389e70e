package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"vyaparsetu-service/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// PostgresStore implements Store using PostgreSQL. Overrides run in a
// transaction holding a row lock on the target record.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger, now: time.Now}
}

// OpenPostgres connects to dsn, verifies the connection and creates the schema.
func OpenPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to ping database: %w", err)
	}
	s := NewPostgresStore(db, logger)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: EnsureSchema failed: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const classificationColumns = `id, original_text, translated_text, language, top_categories, attributes, hsn_code, ondc_catalog, processing_time_ms, created_at`

func (s *PostgresStore) Record(ctx context.Context, rec *domain.ClassificationRecord) (string, error) {
	if rec == nil {
		return "", errNilRecord
	}
	id := rec.ID
	if id == "" {
		id = newID()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now().UTC()
	}

	topJSON, err := json.Marshal(rec.TopCategories)
	if err != nil {
		return "", fmt.Errorf("store: Record failed to encode categories: %w", err)
	}
	attrJSON, err := json.Marshal(rec.Attributes)
	if err != nil {
		return "", fmt.Errorf("store: Record failed to encode attributes: %w", err)
	}
	var catalogArg any // SQL NULL when there is no catalog
	if rec.ONDCCatalog != nil {
		catalogJSON, err := json.Marshal(rec.ONDCCatalog)
		if err != nil {
			return "", fmt.Errorf("store: Record failed to encode catalog: %w", err)
		}
		catalogArg = catalogJSON
	}
	conf, band := topOf(rec)

	query := `
		INSERT INTO vyaparsetu.classifications
			(id, original_text, translated_text, language, top_categories, top_confidence, top_band,
			 attributes, hsn_code, ondc_catalog, processing_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = s.db.ExecContext(ctx, query,
		id, rec.Text, rec.TranslatedText, rec.Language, topJSON, conf, string(band),
		attrJSON, rec.HSNCode, catalogArg, rec.ProcessingTimeMS, createdAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // Unique violation on id
			return "", fmt.Errorf("%w: %s", ErrRecordExists, id)
		}
		s.logger.Error("failed to record classification", zap.String("id", id), zap.Error(err))
		return "", fmt.Errorf("store: Record failed to insert: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) GetClassification(ctx context.Context, id string) (*domain.ClassificationRecord, error) {
	query := `SELECT ` + classificationColumns + ` FROM vyaparsetu.classifications WHERE id = $1;`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("store: GetClassification failed to scan row: %w", err)
	}
	return rec, nil
}

// Dashboard reads totals, band counts and recent records from one
// repeatable-read snapshot so the band counts always sum to the total.
func (s *PostgresStore) Dashboard(ctx context.Context, recent int) (*domain.DashboardMetrics, error) {
	m := &domain.DashboardMetrics{
		BandDistribution:      emptyDistribution(),
		RecentClassifications: []domain.ClassificationRecord{},
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("store: Dashboard failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	totalsQuery := `
		SELECT COUNT(*), COALESCE(AVG(top_confidence), 0), COALESCE(AVG(processing_time_ms), 0)
		FROM vyaparsetu.classifications;
	`
	var avgConf, avgTime float64
	if err := tx.QueryRowContext(ctx, totalsQuery).Scan(&m.TotalOnboarded, &avgConf, &avgTime); err != nil {
		return nil, fmt.Errorf("store: Dashboard failed to aggregate totals: %w", err)
	}
	if m.TotalOnboarded > 0 {
		m.AvgConfidence = roundTo(avgConf, 3)
		m.AvgProcessingTimeMS = roundTo(avgTime, 1)
		if err := dashboardBands(ctx, tx, m); err != nil {
			return nil, err
		}
		if err := dashboardRecent(ctx, tx, m, recent); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: Dashboard failed to commit transaction: %w", err)
	}
	return m, nil
}

func dashboardBands(ctx context.Context, tx *sql.Tx, m *domain.DashboardMetrics) error {
	bandQuery := `SELECT top_band, COUNT(*) FROM vyaparsetu.classifications GROUP BY top_band;`
	rows, err := tx.QueryContext(ctx, bandQuery)
	if err != nil {
		return fmt.Errorf("store: Dashboard failed to query bands: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var band string
		var n int
		if err := rows.Scan(&band, &n); err != nil {
			return fmt.Errorf("store: Dashboard failed to scan band row: %w", err)
		}
		b := domain.Band(band)
		if !b.Valid() {
			b = domain.BandRed
		}
		m.BandDistribution[b] += n
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: Dashboard band iteration error: %w", err)
	}
	return nil
}

func dashboardRecent(ctx context.Context, tx *sql.Tx, m *domain.DashboardMetrics, recent int) error {
	recentQuery := `SELECT ` + classificationColumns + ` FROM vyaparsetu.classifications ORDER BY seq DESC LIMIT $1;`
	rows, err := tx.QueryContext(ctx, recentQuery, recentLimit(recent))
	if err != nil {
		return fmt.Errorf("store: Dashboard failed to query recent classifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return fmt.Errorf("store: Dashboard failed to scan classification row: %w", err)
		}
		m.RecentClassifications = append(m.RecentClassifications, *rec)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: Dashboard recent iteration error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Override(ctx context.Context, req domain.OverrideRequest) (*domain.OverrideAudit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: Override failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	lockQuery := `SELECT ` + classificationColumns + ` FROM vyaparsetu.classifications WHERE id = $1 FOR UPDATE;`
	rec, err := scanRecord(tx.QueryRowContext(ctx, lockQuery, req.RecordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("store: Override failed to lock record: %w", err)
	}

	old, err := patch(rec, req)
	if err != nil {
		return nil, err
	}
	topJSON, err := json.Marshal(rec.TopCategories)
	if err != nil {
		return nil, fmt.Errorf("store: Override failed to encode categories: %w", err)
	}
	_, band := topOf(rec)

	updateQuery := `
		UPDATE vyaparsetu.classifications
		SET top_categories = $1, top_band = $2, hsn_code = $3
		WHERE id = $4;
	`
	if _, err := tx.ExecContext(ctx, updateQuery, topJSON, string(band), rec.HSNCode, rec.ID); err != nil {
		return nil, fmt.Errorf("store: Override failed to update record: %w", err)
	}

	audit := newAudit(req, old, s.now())
	auditQuery := `
		INSERT INTO vyaparsetu.override_audits
			(audit_id, record_id, field, old_value, new_value, reason, admin_id, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := tx.ExecContext(ctx, auditQuery,
		audit.AuditID, audit.RecordID, audit.Field, audit.OldValue, audit.NewValue, audit.Reason, audit.AdminID, audit.AppliedAt,
	); err != nil {
		return nil, fmt.Errorf("store: Override failed to append audit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: Override failed to commit: %w", err)
	}
	return &audit, nil
}

func (s *PostgresStore) ListAudits(ctx context.Context, recordID string) ([]domain.OverrideAudit, error) {
	var exists bool
	existsQuery := `SELECT EXISTS(SELECT 1 FROM vyaparsetu.classifications WHERE id = $1);`
	if err := s.db.QueryRowContext(ctx, existsQuery, recordID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("store: ListAudits failed to check record: %w", err)
	}
	if !exists {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT audit_id, record_id, field, old_value, new_value, reason, admin_id, applied_at
		FROM vyaparsetu.override_audits
		WHERE record_id = $1
		ORDER BY seq ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("store: ListAudits failed to query audits: %w", err)
	}
	defer rows.Close()

	audits := []domain.OverrideAudit{}
	for rows.Next() {
		var a domain.OverrideAudit
		if err := rows.Scan(&a.AuditID, &a.RecordID, &a.Field, &a.OldValue, &a.NewValue, &a.Reason, &a.AdminID, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("store: ListAudits failed to scan audit row: %w", err)
		}
		audits = append(audits, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListAudits iteration error: %w", err)
	}
	return audits, nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Info("closing database connection pool")
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close database connection pool", zap.Error(err))
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.ClassificationRecord, error) {
	var (
		rec        domain.ClassificationRecord
		translated sql.NullString
		topJSON    []byte
		attrJSON   []byte
		catalog    []byte
	)
	err := row.Scan(
		&rec.ID, &rec.Text, &translated, &rec.Language, &topJSON, &attrJSON,
		&rec.HSNCode, &catalog, &rec.ProcessingTimeMS, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if translated.Valid {
		t := translated.String
		rec.TranslatedText = &t
	}
	if err := json.Unmarshal(topJSON, &rec.TopCategories); err != nil {
		return nil, fmt.Errorf("decode top_categories: %w", err)
	}
	if len(attrJSON) > 0 {
		if err := json.Unmarshal(attrJSON, &rec.Attributes); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
	}
	if len(catalog) > 0 && string(catalog) != "null" {
		rec.ONDCCatalog = &domain.ONDCCatalog{}
		if err := json.Unmarshal(catalog, rec.ONDCCatalog); err != nil {
			return nil, fmt.Errorf("decode ondc_catalog: %w", err)
		}
	}
	return &rec, nil
}
