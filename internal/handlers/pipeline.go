package handlers

import (
	"errors"
	"net/http"
	"strings"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/service"
)

// PipelineHandler runs diagnosis, publishing, persistence and anchoring
// for one prompt.
type PipelineHandler struct {
	pipeline *service.Pipeline
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(pipeline *service.Pipeline) *PipelineHandler {
	return &PipelineHandler{
		pipeline: pipeline,
	}
}

// PipelineRequest represents the HTTP request payload for a pipeline run.
type PipelineRequest struct {
	UserID        string              `json:"userId,omitempty"`
	Prompt        string              `json:"prompt"`
	Attachments   []AttachmentRequest `json:"attachments,omitempty"`
	SystemPrompt  string              `json:"systemPrompt,omitempty"`
	Title         string              `json:"title,omitempty"`
	WalletAddress string              `json:"walletAddress,omitempty"`
	Simulate      bool                `json:"simulate,omitempty"`
	SkipAnchor    bool                `json:"skipAnchor,omitempty"`
}

// PipelineErrorResponse reports the stage a run stopped at together with
// what the earlier stages produced.
type PipelineErrorResponse struct {
	ErrorResponse
	Stage  service.Stage         `json:"stage,omitempty"`
	Result service.PipelineState `json:"result"`
}

// ServeHTTP handles HTTP requests for pipeline runs.
func (h *PipelineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req PipelineRequest
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

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID, _ = contextutil.CallerFromContext(ctx)
	}

	st, err := h.pipeline.Run(ctx, service.PipelineState{
		UserID:            userID,
		Prompt:            req.Prompt,
		Attachments:       attachments,
		SystemInstruction: req.SystemPrompt,
		Title:             req.Title,
		WalletAddress:     req.WalletAddress,
		Simulate:          req.Simulate,
		SkipAnchor:        req.SkipAnchor,
	})
	if err != nil {
		status, body := errorResponse(err, "Pipeline failed")
		resp := PipelineErrorResponse{ErrorResponse: body, Result: st}
		var stageErr *service.StageError
		if errors.As(err, &stageErr) {
			resp.Stage = stageErr.Stage
		}
		logger.WarnContext(ctx, "pipeline run failed", "stage", resp.Stage, "status", status, "error", err)
		writeJSON(w, ctx, status, resp)
		return
	}

	writeJSON(w, ctx, http.StatusOK, st)
}
