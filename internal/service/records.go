package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_service.go -package=mocks medguard-ai/internal/service RecordService

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/storage"
)

// RecordPayload is the body of a record creation request. Callers send
// either snake_case or camelCase keys; Normalize folds them together.
// A tx hash is accepted for compatibility but never stored at creation.
type RecordPayload struct {
	UserIDSnake         string   `json:"user_id,omitempty"`
	UserID              string   `json:"userId,omitempty"`
	Title               string   `json:"title"`
	Diagnosis           string   `json:"diagnosis"`
	RiskLevelSnake      string   `json:"risk_level,omitempty"`
	RiskLevel           string   `json:"riskLevel,omitempty"`
	Summary             *string  `json:"summary,omitempty"`
	IPFSHashSnake       string   `json:"ipfs_hash,omitempty"`
	IPFSHash            string   `json:"ipfsHash,omitempty"`
	IPFSURLSnake        string   `json:"ipfs_url,omitempty"`
	IPFSURL             string   `json:"ipfsUrl,omitempty"`
	TxHashSnake         string   `json:"tx_hash,omitempty"`
	TxHash              string   `json:"txHash,omitempty"`
	WellnessScoreSnake  *int     `json:"wellness_score,omitempty"`
	WellnessScore       *int     `json:"wellnessScore,omitempty"`
	PossibleCausesSnake []string `json:"possible_causes,omitempty"`
	PossibleCauses      []string `json:"possibleCauses,omitempty"`
	Suggestions         []string `json:"suggestions,omitempty"`
}

// Normalize returns a copy with every alias pair coalesced into the
// camelCase field, snake_case winning when both are set. The snake_case
// fields of the result are empty.
func (p RecordPayload) Normalize() RecordPayload {
	return RecordPayload{
		UserID:         strings.TrimSpace(coalesce(p.UserIDSnake, p.UserID)),
		Title:          strings.TrimSpace(p.Title),
		Diagnosis:      strings.TrimSpace(p.Diagnosis),
		RiskLevel:      strings.TrimSpace(coalesce(p.RiskLevelSnake, p.RiskLevel)),
		Summary:        p.Summary,
		IPFSHash:       coalesce(p.IPFSHashSnake, p.IPFSHash),
		IPFSURL:        coalesce(p.IPFSURLSnake, p.IPFSURL),
		TxHash:         coalesce(p.TxHashSnake, p.TxHash),
		WellnessScore:  coalescePtr(p.WellnessScoreSnake, p.WellnessScore),
		PossibleCauses: coalesceList(p.PossibleCausesSnake, p.PossibleCauses),
		Suggestions:    p.Suggestions,
	}
}

// RecordPatchPayload is the body of a partial record update. Nil fields are
// left untouched.
type RecordPatchPayload struct {
	Title              *string `json:"title,omitempty"`
	Diagnosis          *string `json:"diagnosis,omitempty"`
	RiskLevelSnake     *string `json:"risk_level,omitempty"`
	RiskLevel          *string `json:"riskLevel,omitempty"`
	Summary            *string `json:"summary,omitempty"`
	IPFSHashSnake      *string `json:"ipfs_hash,omitempty"`
	IPFSHash           *string `json:"ipfsHash,omitempty"`
	IPFSURLSnake       *string `json:"ipfs_url,omitempty"`
	IPFSURL            *string `json:"ipfsUrl,omitempty"`
	TxHashSnake        *string `json:"tx_hash,omitempty"`
	TxHash             *string `json:"txHash,omitempty"`
	TxSimulatedSnake   *bool   `json:"tx_simulated,omitempty"`
	TxSimulated        *bool   `json:"txSimulated,omitempty"`
	WellnessScoreSnake *int    `json:"wellness_score,omitempty"`
	WellnessScore      *int    `json:"wellnessScore,omitempty"`
}

// Normalize folds alias pairs into a storage patch.
func (p RecordPatchPayload) Normalize() storage.RecordPatch {
	return storage.RecordPatch{
		Title:         p.Title,
		Diagnosis:     p.Diagnosis,
		RiskLevel:     coalescePtr(p.RiskLevelSnake, p.RiskLevel),
		Summary:       p.Summary,
		IPFSHash:      coalescePtr(p.IPFSHashSnake, p.IPFSHash),
		IPFSURL:       coalescePtr(p.IPFSURLSnake, p.IPFSURL),
		TxHash:        coalescePtr(p.TxHashSnake, p.TxHash),
		TxSimulated:   coalescePtr(p.TxSimulatedSnake, p.TxSimulated),
		WellnessScore: coalescePtr(p.WellnessScoreSnake, p.WellnessScore),
	}
}

// RecordService persists health records on behalf of a caller.
type RecordService interface {
	Create(ctx context.Context, payload RecordPayload) (*storage.HealthRecord, *storage.HealthRecordDetails, error)
	// Get returns a record and its details; details are nil when the record has none.
	Get(ctx context.Context, id string) (*storage.HealthRecord, *storage.HealthRecordDetails, error)
	ListByUser(ctx context.Context, userID string) ([]storage.HealthRecord, error)
	Update(ctx context.Context, id string, payload RecordPatchPayload) (*storage.HealthRecord, error)
	Delete(ctx context.Context, id string) error
}

type recordService struct {
	store       storage.RecordStore
	requireAuth bool
}

// NewRecordService creates a new RecordService. With requireAuth set, every
// operation needs a caller identity in the context.
func NewRecordService(store storage.RecordStore, requireAuth bool) RecordService {
	return &recordService{
		store:       store,
		requireAuth: requireAuth,
	}
}

// Create validates the payload and inserts the record, its owner and its
// details in one transaction.
func (s *recordService) Create(ctx context.Context, payload RecordPayload) (*storage.HealthRecord, *storage.HealthRecordDetails, error) {
	logger := contextutil.LoggerFromContext(ctx)

	p := payload.Normalize()
	required := []struct{ field, value string }{
		{"userId", p.UserID},
		{"title", p.Title},
		{"diagnosis", p.Diagnosis},
		{"riskLevel", p.RiskLevel},
	}
	for _, r := range required {
		if r.value == "" {
			logger.WarnContext(ctx, "record payload missing required field", "field", r.field)
			return nil, nil, &ValidationError{Field: r.field, Message: "is required", Payload: payload}
		}
	}
	risk, ok := diagnosis.ParseRiskLevel(p.RiskLevel)
	if !ok {
		return nil, nil, &ValidationError{
			Field:   "riskLevel",
			Message: fmt.Sprintf("must be one of Low, Medium, High, Undetermined (got %q)", p.RiskLevel),
			Payload: payload,
		}
	}
	if err := validateScore(p.WellnessScore, payload); err != nil {
		return nil, nil, err
	}
	if err := s.authorize(ctx, p.UserID); err != nil {
		return nil, nil, err
	}

	rec := &storage.HealthRecord{
		UserID:        p.UserID,
		Title:         p.Title,
		Diagnosis:     p.Diagnosis,
		RiskLevel:     string(risk),
		Summary:       p.Summary,
		IPFSHash:      optional(p.IPFSHash),
		IPFSURL:       optional(p.IPFSURL),
		WellnessScore: p.WellnessScore,
	}
	var details *storage.HealthRecordDetails
	if len(p.PossibleCauses) > 0 || len(p.Suggestions) > 0 {
		details = &storage.HealthRecordDetails{
			PossibleCauses: p.PossibleCauses,
			Suggestions:    p.Suggestions,
		}
	}

	if err := s.store.Create(ctx, rec, details); err != nil {
		logger.ErrorContext(ctx, "failed to create health record", "user_id", p.UserID, "error", err)
		return nil, nil, WrapError(err, "failed to create health record")
	}
	if p.TxHash != "" {
		logger.DebugContext(ctx, "ignored tx hash on record creation", "record_id", rec.ID)
	}

	logger.InfoContext(ctx, "health record created", "record_id", rec.ID, "user_id", rec.UserID, "has_details", details != nil)
	return rec, details, nil
}

// Get fetches one record. Missing records are reported before ownership.
func (s *recordService) Get(ctx context.Context, id string) (*storage.HealthRecord, *storage.HealthRecordDetails, error) {
	rec, err := s.owned(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	details, err := s.store.GetDetails(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return rec, nil, nil
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to get record details", "record_id", id, "error", err)
		return nil, nil, WrapError(err, "failed to get record details")
	}
	return rec, details, nil
}

// ListByUser lists a user's records newest first.
func (s *recordService) ListByUser(ctx context.Context, userID string) ([]storage.HealthRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Message: "is required"}
	}
	if err := s.authorize(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list health records", "user_id", userID, "error", err)
		return nil, WrapError(err, "failed to list health records")
	}
	return records, nil
}

// Update applies a partial patch to a record the caller owns.
func (s *recordService) Update(ctx context.Context, id string, payload RecordPatchPayload) (*storage.HealthRecord, error) {
	logger := contextutil.LoggerFromContext(ctx)

	patch := payload.Normalize()
	if err := validatePatch(&patch, payload); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, id); err != nil {
		return nil, err
	}

	rec, err := s.store.Update(ctx, id, patch)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to update health record", "record_id", id, "error", err)
		return nil, WrapError(err, "failed to update health record")
	}

	logger.InfoContext(ctx, "health record updated", "record_id", id)
	return rec, nil
}

// Delete removes a record the caller owns, cascading to its details.
func (s *recordService) Delete(ctx context.Context, id string) error {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := s.owned(ctx, id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete health record", "record_id", id, "error", err)
		return WrapError(err, "failed to delete health record")
	}

	logger.InfoContext(ctx, "health record deleted", "record_id", id)
	return nil
}

// owned loads a record and checks the caller may touch it.
func (s *recordService) owned(ctx context.Context, id string) (*storage.HealthRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "is required"}
	}

	rec, err := s.store.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to get health record", "record_id", id, "error", err)
		return nil, WrapError(err, "failed to get health record")
	}

	if err := s.authorize(ctx, rec.UserID); err != nil {
		return nil, err
	}
	return rec, nil
}

// authorize compares the context caller with the owning user id.
func (s *recordService) authorize(ctx context.Context, ownerID string) error {
	caller, ok := contextutil.CallerFromContext(ctx)
	if !ok {
		if s.requireAuth {
			return ErrUnauthorized
		}
		return nil
	}
	if caller != ownerID {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "caller does not own resource", "caller", caller, "owner", ownerID)
		return ErrForbidden
	}
	return nil
}

func validatePatch(patch *storage.RecordPatch, payload RecordPatchPayload) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return &ValidationError{Field: "title", Message: "cannot be empty", Payload: payload}
	}
	if patch.Diagnosis != nil && strings.TrimSpace(*patch.Diagnosis) == "" {
		return &ValidationError{Field: "diagnosis", Message: "cannot be empty", Payload: payload}
	}
	if patch.RiskLevel != nil {
		risk, ok := diagnosis.ParseRiskLevel(*patch.RiskLevel)
		if !ok {
			return &ValidationError{Field: "riskLevel", Message: fmt.Sprintf("unknown risk level %q", *patch.RiskLevel), Payload: payload}
		}
		canonical := string(risk)
		patch.RiskLevel = &canonical
	}
	return validateScore(patch.WellnessScore, payload)
}

func validateScore(score *int, payload any) error {
	if score != nil && (*score < 0 || *score > 100) {
		return &ValidationError{Field: "wellnessScore", Message: "must be between 0 and 100", Payload: payload}
	}
	return nil
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func coalescePtr[T any](a, b *T) *T {
	if a != nil {
		return a
	}
	return b
}

func coalesceList(a, b []string) []string {
	if a != nil {
		return a
	}
	return b
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
