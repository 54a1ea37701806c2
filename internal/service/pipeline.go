package service

import (
	"context"
	"fmt"

	"medguard-ai/internal/anchor"
	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/pinning"
	"medguard-ai/internal/report"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageDiagnose Stage = "diagnose"
	StagePublish  Stage = "publish"
	StagePersist  Stage = "persist"
	StageAnchor   Stage = "anchor"
)

// StageError wraps the failure of one pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// PipelineState carries values between stages. The inputs are set by the
// caller; each stage fills in its outputs and returns the updated copy.
// A caller may start at any stage by filling the outputs of earlier ones.
type PipelineState struct {
	UserID            string                 `json:"userId"`
	Prompt            string                 `json:"prompt,omitempty"`
	Attachments       []diagnosis.Attachment `json:"-"`
	SystemInstruction string                 `json:"-"`
	Title             string                 `json:"title,omitempty"`
	WalletAddress     string                 `json:"walletAddress,omitempty"`
	Simulate          bool                   `json:"simulate,omitempty"`
	SkipAnchor        bool                   `json:"skipAnchor,omitempty"`

	Diagnosis   *diagnosis.Record   `json:"structuredData,omitempty"`
	Narrative   string              `json:"text,omitempty"`
	Fallback    bool                `json:"fallback"`
	Artifact    *pinning.Artifact   `json:"artifact,omitempty"`
	RecordID    string              `json:"recordId,omitempty"`
	Transaction *anchor.Transaction `json:"transaction,omitempty"`
	ExplorerURL string              `json:"explorerUrl,omitempty"`
	Completed   []Stage             `json:"completed"`
}

// Pipeline chains the stage services. It holds no per-run state.
type Pipeline struct {
	diagnoses DiagnosisService
	publisher PublishService
	records   RecordService
	anchors   AnchorService
}

// NewPipeline creates a new Pipeline.
func NewPipeline(diagnoses DiagnosisService, publisher PublishService, records RecordService, anchors AnchorService) *Pipeline {
	return &Pipeline{
		diagnoses: diagnoses,
		publisher: publisher,
		records:   records,
		anchors:   anchors,
	}
}

// Diagnose runs symptom analysis on the state's prompt.
func (p *Pipeline) Diagnose(ctx context.Context, st PipelineState) (PipelineState, error) {
	resp, err := p.diagnoses.Diagnose(ctx, DiagnoseRequest{
		Prompt:            st.Prompt,
		Attachments:       st.Attachments,
		SystemInstruction: st.SystemInstruction,
	})
	if err != nil {
		return st, &StageError{Stage: StageDiagnose, Err: err}
	}

	rec := resp.Record
	st.Diagnosis = &rec
	st.Narrative = resp.Text
	st.Fallback = resp.Fallback
	return st.done(StageDiagnose), nil
}

// Publish renders the diagnosis as a PDF and pins it.
func (p *Pipeline) Publish(ctx context.Context, st PipelineState) (PipelineState, error) {
	if st.Diagnosis == nil {
		return st, &StageError{Stage: StagePublish, Err: &ValidationError{Field: "structuredData", Message: "diagnosis is required before publishing"}}
	}

	data := report.FromDiagnosis(*st.Diagnosis)
	artifact, err := p.publisher.Publish(ctx, PublishRequest{Report: &data})
	if err != nil {
		return st, &StageError{Stage: StagePublish, Err: err}
	}
	st.Artifact = &artifact
	return st.done(StagePublish), nil
}

// Persist stores the diagnosis as a health record. The artifact is
// optional; a record without one has no hash.
func (p *Pipeline) Persist(ctx context.Context, st PipelineState) (PipelineState, error) {
	if st.Diagnosis == nil {
		return st, &StageError{Stage: StagePersist, Err: &ValidationError{Field: "structuredData", Message: "diagnosis is required before saving"}}
	}

	d := st.Diagnosis
	score := d.WellnessScore
	payload := RecordPayload{
		UserID:         st.UserID,
		Title:          st.title(),
		Diagnosis:      d.DiagnosisLabel,
		RiskLevel:      string(d.RiskLevel),
		WellnessScore:  &score,
		PossibleCauses: d.Causes,
		Suggestions:    d.Suggestions,
	}
	if d.AdditionalNotes != "" {
		notes := d.AdditionalNotes
		payload.Summary = &notes
	}
	if st.Artifact != nil {
		payload.IPFSHash = st.Artifact.Hash
		payload.IPFSURL = st.Artifact.URL
	}

	rec, _, err := p.records.Create(ctx, payload)
	if err != nil {
		return st, &StageError{Stage: StagePersist, Err: err}
	}
	st.RecordID = rec.ID
	return st.done(StagePersist), nil
}

// Anchor anchors the published artifact and attaches the transaction to
// the record when one was saved.
func (p *Pipeline) Anchor(ctx context.Context, st PipelineState) (PipelineState, error) {
	if st.Artifact == nil || st.Artifact.Hash == "" {
		return st, &StageError{Stage: StageAnchor, Err: &ValidationError{Field: "hash", Message: "a published artifact is required before anchoring"}}
	}

	label := ""
	if st.Diagnosis != nil {
		label = st.Diagnosis.DiagnosisLabel
	}
	res, err := p.anchors.Anchor(ctx, AnchorRequest{
		Hash:           st.Artifact.Hash,
		URL:            st.Artifact.URL,
		Title:          st.title(),
		DiagnosisLabel: label,
		WalletAddress:  st.WalletAddress,
		RecordID:       st.RecordID,
		Simulate:       st.Simulate,
	})
	if err != nil {
		return st, &StageError{Stage: StageAnchor, Err: err}
	}

	txn := res.Transaction
	st.Transaction = &txn
	st.ExplorerURL = res.ExplorerURL
	return st.done(StageAnchor), nil
}

// Run executes every stage in order, stopping at the first failure. The
// returned state holds whatever the completed stages produced.
func (p *Pipeline) Run(ctx context.Context, st PipelineState) (PipelineState, error) {
	logger := contextutil.LoggerFromContext(ctx)

	stages := []struct {
		name Stage
		run  func(context.Context, PipelineState) (PipelineState, error)
	}{
		{StageDiagnose, p.Diagnose},
		{StagePublish, p.Publish},
		{StagePersist, p.Persist},
		{StageAnchor, p.Anchor},
	}

	for _, stage := range stages {
		if stage.name == StageAnchor && st.SkipAnchor {
			continue
		}
		next, err := stage.run(ctx, st)
		if err != nil {
			logger.WarnContext(ctx, "pipeline stopped", "stage", stage.name, "completed", st.Completed, "error", err)
			return next, err
		}
		st = next
	}

	logger.InfoContext(ctx, "pipeline completed", "record_id", st.RecordID, "completed", st.Completed)
	return st, nil
}

func (st PipelineState) title() string {
	if st.Title != "" {
		return st.Title
	}
	if st.Diagnosis != nil {
		return "Medical Record: " + st.Diagnosis.DiagnosisLabel
	}
	return "Medical Record"
}

func (st PipelineState) done(stage Stage) PipelineState {
	st.Completed = append(append([]Stage(nil), st.Completed...), stage)
	return st
}
