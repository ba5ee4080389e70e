package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vyaparsetu-service/internal/classifier"
	"vyaparsetu-service/internal/domain"
	"vyaparsetu-service/internal/matcher"
	"vyaparsetu-service/internal/pricing"
	"vyaparsetu-service/internal/store"
	"vyaparsetu-service/internal/translate"
)

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	svc      Services
	opts     Options
	logger   *zap.Logger
	validate *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(svc Services, opts Options) *HTTPHandler {
	opts = opts.withDefaults()
	if svc.Translator == nil {
		svc.Translator = translate.Unavailable{}
	}
	return &HTTPHandler{
		svc:      svc,
		opts:     opts,
		logger:   opts.Logger,
		validate: validator.New(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON encodes payload before writing the status line, so an
// encoding failure becomes a 500 instead of a truncated success.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			zap.L().Error("failed to encode JSON response", zap.Error(err))
			code = http.StatusInternalServerError
			buf.Reset()
			_ = json.NewEncoder(&buf).Encode(ErrorResponse{Error: "failed to encode response"})
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// --- Health ---

type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database,omitempty"`
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Service: h.opts.ServiceName}
	if p, ok := h.svc.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		resp.Database = "healthy"
		if err := p.Ping(ctx); err != nil {
			resp.Database = "unhealthy"
			h.logger.Warn("health check database ping failed", zap.Error(err))
		}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// --- Catalog ---

// ClassifyInput is the body of POST /api/catalog/classify.
type ClassifyInput struct {
	Text     string `json:"text" validate:"required,max=5000"`
	Language string `json:"language" validate:"omitempty,max=16"`
	Location string `json:"location" validate:"omitempty,max=255"`
}

func (h *HTTPHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var input ClassifyInput
	if !h.decode(w, r, &input) {
		return
	}

	rec, err := h.svc.Classifier.Classify(r.Context(), classifier.Request{
		Text:     input.Text,
		Language: input.Language,
		Location: input.Location,
	})
	if err != nil {
		if errors.Is(err, classifier.ErrEmptyText) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("classification failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to classify product")
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// TranslateInput is the body of POST /api/catalog/translate.
type TranslateInput struct {
	Text       string `json:"text" validate:"required,max=5000"`
	SourceLang string `json:"source_lang" validate:"omitempty,max=16"`
	TargetLang string `json:"target_lang" validate:"omitempty,max=16"`
}

// TranslateResponse echoes the input next to its translation.
type TranslateResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

// Translate returns the original text when the provider fails.
func (h *HTTPHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var input TranslateInput
	if !h.decode(w, r, &input) {
		return
	}
	source := translate.NormalizeLang(input.SourceLang)
	if source == "" {
		source = translate.LangHindi
	}
	target := translate.NormalizeLang(input.TargetLang)
	if target == "" {
		target = translate.LangEnglish
	}

	respondWithJSON(w, http.StatusOK, TranslateResponse{
		OriginalText:   input.Text,
		TranslatedText: h.translateOrEcho(r.Context(), input.Text, source, target),
		SourceLang:     source,
		TargetLang:     target,
	})
}

func (h *HTTPHandler) translateOrEcho(ctx context.Context, text, source, target string) string {
	if source == target {
		return text
	}
	ctx, cancel := context.WithTimeout(ctx, h.opts.TranslateTimeout)
	defer cancel()
	out, err := h.svc.Translator.Translate(ctx, text, source, target)
	if err != nil || strings.TrimSpace(out) == "" {
		h.logger.Warn("translation degraded to original text",
			zap.String("source", source), zap.String("target", target), zap.Error(err))
		return text
	}
	return out
}

// --- Matchmaking ---

// RecommendInput is the body of POST /api/match/recommend.
type RecommendInput struct {
	ProductCategory    string   `json:"product_category" validate:"required,max=255"`
	ProductDescription string   `json:"product_description" validate:"omitempty,max=5000"`
	Location           string   `json:"location" validate:"omitempty,max=255"`
	Language           string   `json:"language" validate:"omitempty,max=16"`
	BusinessType       string   `json:"business_type" validate:"omitempty,oneof=B2B B2C b2b b2c"`
	Lat                *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon                *float64 `json:"lon" validate:"omitempty,longitude"`
}

// RecommendResponse is the ranked platform list.
type RecommendResponse struct {
	MSMEProfile      domain.MSMEProfile   `json:"msme_profile"`
	TopPlatforms     []domain.MatchResult `json:"top_platforms"`
	ProcessingTimeMS float64              `json:"processing_time_ms"`
}

func (input RecommendInput) matchRequest() domain.MatchRequest {
	req := domain.MatchRequest{
		Category:     input.ProductCategory,
		Description:  input.ProductDescription,
		Location:     input.Location,
		Language:     input.Language,
		BusinessType: strings.ToUpper(input.BusinessType),
	}
	if req.Language == "" {
		req.Language = translate.LangEnglish
	}
	if req.BusinessType == "" {
		req.BusinessType = "B2C"
	}
	if input.Lat != nil && input.Lon != nil {
		req.Coordinates = &domain.GeoPoint{Lat: *input.Lat, Lon: *input.Lon}
	}
	return req
}

func (h *HTTPHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var input RecommendInput
	if !h.decode(w, r, &input) {
		return
	}

	req := input.matchRequest()
	results, err := h.svc.Matcher.Recommend(req)
	if err != nil {
		switch {
		case errors.Is(err, matcher.ErrCategoryRequired):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, matcher.ErrUnknownCategory):
			respondWithError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("recommendation failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to recommend platforms")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, RecommendResponse{
		MSMEProfile: domain.MSMEProfile{
			Category:     req.Category,
			Description:  req.Description,
			Location:     req.Location,
			Language:     req.Language,
			BusinessType: req.BusinessType,
		},
		TopPlatforms:     results,
		ProcessingTimeMS: elapsedMS(start),
	})
}

// --- Pricing ---

func (h *HTTPHandler) Pricing(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when it is set, leaving the parameter escaped.
	category := chi.URLParam(r, "category")
	if unescaped, err := url.PathUnescape(category); err == nil {
		category = unescaped
	}

	q := r.URL.Query()
	b, err := h.svc.Pricing.Benchmark(pricing.Query{
		Category:  category,
		YourPrice: q.Get("your_price"),
		Location:  q.Get("location"),
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPrice) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("pricing benchmark failed", zap.String("category", category), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute pricing benchmark")
		return
	}
	respondWithJSON(w, http.StatusOK, b)
}

// --- Admin ---

func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Store.Dashboard(r.Context(), h.opts.RecentLimit)
	if err != nil {
		h.logger.Error("dashboard aggregation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	respondWithJSON(w, http.StatusOK, m)
}

// OverrideInput is the body of POST /api/admin/override.
type OverrideInput struct {
	RecordID string `json:"record_id" validate:"required,max=64"`
	Field    string `json:"field" validate:"required,max=32"`
	OldValue string `json:"old_value" validate:"max=255"`
	NewValue string `json:"new_value" validate:"required,max=255"`
	Reason   string `json:"reason" validate:"max=1000"`
	AdminID  string `json:"admin_id" validate:"omitempty,max=64"`
}

// OverrideResponse reports the outcome of an override; failures carry Error.
type OverrideResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"record_id,omitempty"`
	AuditID  string `json:"audit_id,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// overrideStatus maps an override failure to an HTTP status code.
func overrideStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrOldValueMismatch):
		return http.StatusConflict
	case errors.Is(err, store.ErrFieldNotOverridable), errors.Is(err, store.ErrInvalidOverride):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *HTTPHandler) Override(w http.ResponseWriter, r *http.Request) {
	var input OverrideInput
	if !h.decode(w, r, &input) {
		return
	}
	adminID := input.AdminID
	if tokenAdmin, ok := AdminIDFromContext(r.Context()); ok {
		adminID = tokenAdmin
	}
	if adminID == "" {
		adminID = adminRole
	}

	audit, err := h.svc.Store.Override(r.Context(), domain.OverrideRequest{
		RecordID: input.RecordID,
		Field:    input.Field,
		OldValue: input.OldValue,
		NewValue: input.NewValue,
		Reason:   input.Reason,
		AdminID:  adminID,
	})
	if err != nil {
		code := overrideStatus(err)
		msg := err.Error()
		if code == http.StatusInternalServerError {
			h.logger.Error("override failed", zap.String("record_id", input.RecordID), zap.Error(err))
			msg = "Failed to apply override"
		} else {
			h.logger.Warn("override rejected", zap.String("record_id", input.RecordID), zap.Error(err))
		}
		respondWithJSON(w, code, OverrideResponse{Success: false, RecordID: input.RecordID, Error: msg})
		return
	}

	h.logger.Info("override applied",
		zap.String("record_id", audit.RecordID),
		zap.String("field", audit.Field),
		zap.String("admin_id", audit.AdminID),
		zap.String("audit_id", audit.AuditID))
	respondWithJSON(w, http.StatusOK, OverrideResponse{
		Success:  true,
		RecordID: audit.RecordID,
		AuditID:  audit.AuditID,
		Message:  "Override applied. " + audit.Field + " changed from '" + audit.OldValue + "' to '" + audit.NewValue + "'.",
	})
}

func (h *HTTPHandler) GetClassification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordId")
	rec, err := h.svc.Store.GetClassification(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load classification", zap.String("record_id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve classification")
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

func (h *HTTPHandler) ListAudits(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recordId")
	audits, err := h.svc.Store.ListAudits(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			respondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to list audits", zap.String("record_id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve audit history")
		return
	}
	if audits == nil {
		audits = []domain.OverrideAudit{}
	}
	respondWithJSON(w, http.StatusOK, audits)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api/catalog", func(r chi.Router) {
		r.Post("/classify", h.Classify)
		r.Post("/translate", h.Translate)
	})

	r.Post("/api/match/recommend", h.Recommend)
	r.Get("/api/intelligence/pricing/{category}", h.Pricing)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(AdminAuth(h.opts.AdminSecret, h.logger))
		r.Get("/dashboard", h.Dashboard)
		r.Post("/override", h.Override)
		r.Route("/classifications/{recordId}", func(r chi.Router) {
			r.Get("/", h.GetClassification)
			r.Get("/audit", h.ListAudits)
		})
	})
}
