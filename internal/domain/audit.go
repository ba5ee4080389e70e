package domain

import (
	"errors"
	"time"
)

// Overridable fields of a ClassificationRecord.
const (
	FieldCategory = "category"
	FieldCode     = "code"
	FieldBand     = "band"
	FieldHSNCode  = "hsn_code"
)

var (
	ErrFieldNotOverridable = errors.New("field not overridable")
	ErrInvalidBand         = errors.New("invalid band value")
	ErrNoTopCategory       = errors.New("record has no top category")
)

// OverrideRequest is an admin correction of a single record field.
type OverrideRequest struct {
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
	Reason   string `json:"reason"`
	AdminID  string `json:"admin_id"`
}

// OverrideAudit is an append-only trace of an applied override.
type OverrideAudit struct {
	AuditID   string    `json:"audit_id"`
	RecordID  string    `json:"record_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Reason    string    `json:"reason"`
	AdminID   string    `json:"admin_id"`
	AppliedAt time.Time `json:"applied_at"`
}

// FieldValue returns the current value of an overridable field.
func FieldValue(r *ClassificationRecord, field string) (string, error) {
	switch field {
	case FieldHSNCode:
		return r.HSNCode, nil
	case FieldCategory, FieldCode, FieldBand:
		top := r.Top()
		if top == nil {
			return "", ErrNoTopCategory
		}
		switch field {
		case FieldCategory:
			return top.Category, nil
		case FieldCode:
			return top.Code, nil
		default:
			return string(top.Band), nil
		}
	default:
		return "", ErrFieldNotOverridable
	}
}

// ApplyOverride sets field to value on r. Only the named field is touched.
func ApplyOverride(r *ClassificationRecord, field, value string) error {
	if field == FieldHSNCode {
		r.HSNCode = value
		return nil
	}
	if field != FieldCategory && field != FieldCode && field != FieldBand {
		return ErrFieldNotOverridable
	}
	top := r.Top()
	if top == nil {
		return ErrNoTopCategory
	}
	switch field {
	case FieldCategory:
		top.Category = value
	case FieldCode:
		top.Code = value
	case FieldBand:
		b := Band(value)
		if !b.Valid() {
			return ErrInvalidBand
		}
		top.Band = b
	}
	return nil
}

// DashboardMetrics is the aggregate view over all stored classifications.
type DashboardMetrics struct {
	TotalOnboarded        int                    `json:"total_onboarded"`
	AvgConfidence         float64                `json:"avg_confidence"`
	AvgProcessingTimeMS   float64                `json:"avg_processing_time_ms"`
	BandDistribution      map[Band]int           `json:"band_distribution"`
	RecentClassifications []ClassificationRecord `json:"recent_classifications"`
}
