package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_publish.go -package=mocks medguard-ai/internal/service Renderer,Pinner,PublishService

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/pinning"
	"medguard-ai/internal/report"
)

// Renderer turns report data into a PDF document.
type Renderer interface {
	Render(d report.Data) ([]byte, error)
}

// Pinner uploads content to a pinning service and reads it back.
type Pinner interface {
	PinFile(ctx context.Context, fileName string, data []byte) (pinning.Artifact, error)
	PinJSON(ctx context.Context, content any) (pinning.Artifact, error)
	Fetch(ctx context.Context, hash string) ([]byte, string, error)
}

// PublishRequest selects what to publish: a report rendered to PDF, an
// uploaded file, or a JSON payload. Exactly one must be set. Encrypt seals
// a JSON payload before it is pinned.
type PublishRequest struct {
	Report   *report.Data
	File     []byte
	FileName string
	Payload  json.RawMessage
	Encrypt  bool
}

// PublishService renders reports and publishes artifacts.
type PublishService interface {
	RenderReport(ctx context.Context, d report.Data) ([]byte, error)
	Publish(ctx context.Context, req PublishRequest) (pinning.Artifact, error)
	// Fetch reads pinned content back. With open set, a sealed JSON
	// envelope is decrypted before it is returned.
	Fetch(ctx context.Context, hash string, open bool) ([]byte, string, error)
}

// hashPattern accepts CIDv0/CIDv1 style identifiers and nothing that could
// alter the gateway path.
var hashPattern = regexp.MustCompile(`^[A-Za-z0-9]{10,128}$`)

type publishService struct {
	renderer Renderer
	pinner   Pinner
	sealer   *pinning.Sealer
	now      func() time.Time
}

// NewPublishService creates a new PublishService. sealer may be nil, in
// which case encrypted publishing is unavailable.
func NewPublishService(renderer Renderer, pinner Pinner, sealer *pinning.Sealer) PublishService {
	return &publishService{
		renderer: renderer,
		pinner:   pinner,
		sealer:   sealer,
		now:      time.Now,
	}
}

// RenderReport renders a PDF report.
func (s *publishService) RenderReport(ctx context.Context, d report.Data) ([]byte, error) {
	pdf, err := s.renderer.Render(d)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to render report", "error", err)
		return nil, WrapError(err, "failed to render report")
	}
	return pdf, nil
}

// Publish pins the requested content. Every call yields a fresh artifact.
func (s *publishService) Publish(ctx context.Context, req PublishRequest) (pinning.Artifact, error) {
	logger := contextutil.LoggerFromContext(ctx)

	set := 0
	for _, present := range []bool{req.Report != nil, len(req.File) > 0, len(req.Payload) > 0} {
		if present {
			set++
		}
	}
	if set != 1 {
		return pinning.Artifact{}, &ValidationError{
			Field:   "payload",
			Message: "exactly one of report, file or payload is required",
		}
	}

	var (
		artifact pinning.Artifact
		err      error
		kind     string
	)
	switch {
	case req.Report != nil:
		kind = "report"
		var pdf []byte
		if pdf, err = s.RenderReport(ctx, *req.Report); err != nil {
			return pinning.Artifact{}, err
		}
		artifact, err = s.pinner.PinFile(ctx, s.fileName(req.FileName), pdf)
	case len(req.File) > 0:
		kind = "file"
		artifact, err = s.pinner.PinFile(ctx, s.fileName(req.FileName), req.File)
	default:
		kind = "json"
		if !json.Valid(req.Payload) {
			return pinning.Artifact{}, &ValidationError{Field: "payload", Message: "must be valid JSON"}
		}
		var content any = req.Payload
		if req.Encrypt {
			if s.sealer == nil {
				return pinning.Artifact{}, fmt.Errorf("%w: record encryption key is not set", ErrConfiguration)
			}
			env, sealErr := s.sealer.Seal(req.Payload)
			if sealErr != nil {
				return pinning.Artifact{}, WrapError(sealErr, "failed to seal payload")
			}
			content = env
		}
		artifact, err = s.pinner.PinJSON(ctx, content)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to publish artifact", "kind", kind, "error", err)
		return pinning.Artifact{}, mapPinningError(err)
	}

	logger.InfoContext(ctx, "artifact published",
		"kind", kind,
		"hash", artifact.Hash,
		"simulated", artifact.Simulated,
		"sealed", req.Encrypt && kind == "json",
	)
	return artifact, nil
}

// Fetch reads pinned content through the gateway.
func (s *publishService) Fetch(ctx context.Context, hash string, open bool) ([]byte, string, error) {
	if !hashPattern.MatchString(hash) {
		return nil, "", &ValidationError{Field: "hash", Message: "is not a content identifier"}
	}

	data, contentType, err := s.pinner.Fetch(ctx, hash)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to fetch artifact", "hash", hash, "error", err)
		return nil, "", mapPinningError(err)
	}
	if !open {
		return data, contentType, nil
	}

	if s.sealer == nil {
		return nil, "", fmt.Errorf("%w: record encryption key is not set", ErrConfiguration)
	}
	var env pinning.Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Alg == "" {
		return nil, "", &ValidationError{Field: "hash", Message: "content is not a sealed envelope"}
	}
	var plain json.RawMessage
	if err := s.sealer.Open(env, &plain); err != nil {
		return nil, "", WrapError(err, "failed to open sealed content")
	}
	return plain, "application/json", nil
}

func (s *publishService) fileName(name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("MedGuardAI_Health_Report_%s.pdf", s.now().Format("2006-01-02"))
}

func mapPinningError(err error) error {
	switch {
	case errors.Is(err, pinning.ErrNotConfigured):
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	case errors.Is(err, pinning.ErrUpstream):
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	return WrapError(err, "failed to publish")
}
