package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks medguard-ai/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_diagnosis_service.go -package=mocks medguard-ai/internal/service DiagnosisService

import (
	"context"
	"fmt"
	"strings"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/llm"
)

// LLMClient is an interface for interacting with a completion service.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// Complete sends a single-turn request and returns the completion text.
	Complete(ctx context.Context, req llm.CompletionRequest) (string, error)
}

// DiagnoseRequest represents a symptom analysis request.
type DiagnoseRequest struct {
	Prompt            string
	Attachments       []diagnosis.Attachment
	SystemInstruction string
}

// DiagnoseResponse is the narrative plus the structured record.
// Fallback is set when the completion service failed and a safe default
// was substituted; FallbackReason then carries the cause.
type DiagnoseResponse struct {
	Text           string
	HTML           string
	Record         diagnosis.Record
	Fallback       bool
	FallbackReason string
}

// DiagnosisService turns free-text symptoms into a diagnosis record.
type DiagnosisService interface {
	Diagnose(ctx context.Context, req DiagnoseRequest) (DiagnoseResponse, error)
}

type diagnosisService struct {
	llmClient LLMClient
	scorer    diagnosis.WellnessScorer
	params    llm.ChatParams
}

// NewDiagnosisService creates a new DiagnosisService. A nil scorer uses an
// unseeded BandedScorer.
func NewDiagnosisService(llmClient LLMClient, scorer diagnosis.WellnessScorer) DiagnosisService {
	if scorer == nil {
		scorer = diagnosis.NewBandedScorer(nil)
	}
	return &diagnosisService{
		llmClient: llmClient,
		scorer:    scorer,
		params: llm.ChatParams{
			Temperature: 0.7,
			TopP:        0.95,
			MaxTokens:   8192,
		},
	}
}

// Diagnose runs one completion and extracts the structured record from it.
// Upstream failures are not returned as errors: the response carries the
// default record and Fallback=true instead.
func (s *diagnosisService) Diagnose(ctx context.Context, req DiagnoseRequest) (DiagnoseResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Prompt) == "" && len(req.Attachments) == 0 {
		logger.WarnContext(ctx, "empty diagnose request")
		return DiagnoseResponse{}, &ValidationError{
			Field:   "prompt",
			Message: "cannot be empty without attachments",
		}
	}

	completion := llm.CompletionRequest{
		SystemInstruction: req.SystemInstruction,
		Params:            s.params,
	}
	if strings.TrimSpace(completion.SystemInstruction) == "" {
		completion.SystemInstruction = diagnosis.DefaultSystemInstruction
	}

	var notes []string
	for i, att := range req.Attachments {
		switch att.Kind {
		case diagnosis.AttachmentImage:
			mime := att.MIMEType
			if mime == "" {
				mime = "image/jpeg"
			}
			completion.Images = append(completion.Images, llm.Image{MIMEType: mime, Data: att.Data})
		case diagnosis.AttachmentAudio, diagnosis.AttachmentVideo:
			notes = append(notes, fmt.Sprintf("[Attachment %d: %s recording provided by the user; it cannot be analyzed directly.]", i+1, att.Kind))
		default:
			return DiagnoseResponse{}, &ValidationError{
				Field:   fmt.Sprintf("attachments[%d].type", i),
				Message: fmt.Sprintf("unsupported kind %q", att.Kind),
			}
		}
	}
	completion.Prompt = req.Prompt
	if len(notes) > 0 {
		completion.Prompt = strings.TrimSpace(completion.Prompt + "\n\n" + strings.Join(notes, "\n"))
	}

	text, err := s.llmClient.Complete(ctx, completion)
	if err != nil {
		logger.ErrorContext(ctx, "completion failed, using default diagnosis", "error", err)
		rec := diagnosis.DefaultRecord()
		rec.WellnessScore = s.scorer.Score(rec.RiskLevel)
		return DiagnoseResponse{
			Text:           diagnosis.FallbackNarrative,
			HTML:           s.renderHTML(ctx, diagnosis.FallbackNarrative),
			Record:         rec,
			Fallback:       true,
			FallbackReason: err.Error(),
		}, nil
	}

	rec, ok := diagnosis.Extract(text)
	if !ok {
		logger.WarnContext(ctx, "no structured diagnosis in completion, using default", "completion_length", len(text))
	}
	rec.WellnessScore = s.scorer.Score(rec.RiskLevel)

	narrative := diagnosis.Narrative(text)
	logger.InfoContext(ctx, "diagnosis completed",
		"risk_level", rec.RiskLevel,
		"structured", ok,
		"images", len(completion.Images),
		"completion_length", len(text),
	)
	return DiagnoseResponse{
		Text:   narrative,
		HTML:   s.renderHTML(ctx, narrative),
		Record: rec,
	}, nil
}

func (s *diagnosisService) renderHTML(ctx context.Context, md string) string {
	html, err := diagnosis.RenderMarkdown(md)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to render narrative", "error", err)
		return ""
	}
	return html
}
