package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/service"
)

// DiagnoseHandler handles HTTP requests for symptom analysis.
type DiagnoseHandler struct {
	diagnoses service.DiagnosisService
}

// NewDiagnoseHandler creates a new DiagnoseHandler.
func NewDiagnoseHandler(diagnoses service.DiagnosisService) *DiagnoseHandler {
	return &DiagnoseHandler{
		diagnoses: diagnoses,
	}
}

// AttachmentRequest is one uploaded file, carried as a base64 data URL.
type AttachmentRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// DiagnoseRequest represents the HTTP request payload for diagnosis.
type DiagnoseRequest struct {
	Prompt       string              `json:"prompt"`
	Attachments  []AttachmentRequest `json:"attachments,omitempty"`
	SystemPrompt string              `json:"systemPrompt,omitempty"`
}

// DiagnoseResponse represents the HTTP response payload for diagnosis.
type DiagnoseResponse struct {
	Text           string           `json:"text"`
	HTML           string           `json:"html"`
	StructuredData diagnosis.Record `json:"structuredData"`
	Fallback       bool             `json:"fallback"`
	FallbackReason string           `json:"fallbackReason,omitempty"`
}

// ServeHTTP handles HTTP requests for diagnosis.
func (h *DiagnoseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req DiagnoseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		handleServiceError(w, ctx, err, "Invalid attachment")
		return
	}

	resp, err := h.diagnoses.Diagnose(ctx, service.DiagnoseRequest{
		Prompt:            req.Prompt,
		Attachments:       attachments,
		SystemInstruction: req.SystemPrompt,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process diagnosis request")
		return
	}

	writeJSON(w, ctx, http.StatusOK, DiagnoseResponse{
		Text:           resp.Text,
		HTML:           resp.HTML,
		StructuredData: resp.Record,
		Fallback:       resp.Fallback,
		FallbackReason: resp.FallbackReason,
	})
}

func decodeAttachments(in []AttachmentRequest) ([]diagnosis.Attachment, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]diagnosis.Attachment, 0, len(in))
	for i, a := range in {
		mimeType, data, err := parseDataURL(a.URL)
		if err != nil {
			return nil, &service.ValidationError{
				Field:   fmt.Sprintf("attachments[%d].url", i),
				Message: err.Error(),
			}
		}
		kind := diagnosis.AttachmentKind(strings.ToLower(strings.TrimSpace(a.Type)))
		if kind == "" {
			kind = diagnosis.AttachmentKind(strings.SplitN(mimeType, "/", 2)[0])
		}
		out = append(out, diagnosis.Attachment{
			Kind:     kind,
			MIMEType: mimeType,
			Data:     data,
		})
	}
	return out, nil
}

// parseDataURL decodes "data:<mime>;base64,<payload>". A bare base64 string
// is accepted with an empty MIME type.
func parseDataURL(s string) (string, []byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, errors.New("is empty")
	}

	mimeType := ""
	payload := s
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found {
			return "", nil, errors.New("malformed data URL")
		}
		params := strings.Split(header, ";")
		if params[len(params)-1] != "base64" {
			return "", nil, errors.New("data URL must be base64 encoded")
		}
		mimeType = params[0]
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return mimeType, data, nil
}
