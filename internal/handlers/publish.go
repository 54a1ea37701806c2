package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/report"
	"medguard-ai/internal/service"
)

// maxUploadBytes bounds multipart uploads to the publish endpoint.
const maxUploadBytes = 50 << 20

// PublishHandler renders reports and pins content to IPFS.
type PublishHandler struct {
	publisher service.PublishService
	now       func() time.Time
}

// NewPublishHandler creates a new PublishHandler.
func NewPublishHandler(publisher service.PublishService) *PublishHandler {
	return &PublishHandler{
		publisher: publisher,
		now:       time.Now,
	}
}

// PublishRequest is the JSON form of a publish call. Exactly one of
// Payload and Report is set.
type PublishRequest struct {
	Payload  json.RawMessage `json:"payload,omitempty"`
	Report   *report.Data    `json:"report,omitempty"`
	FileName string          `json:"fileName,omitempty"`
	Encrypt  bool            `json:"encrypt,omitempty"`
}

// Report renders the posted diagnosis as a PDF download.
func (h *PublishHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var data report.Data
	if err := decodeJSON(w, r, &data); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pdf, err := h.publisher.RenderReport(ctx, data)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to generate report")
		return
	}

	name := fmt.Sprintf("MedGuardAI_Health_Report_%s.pdf", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		logger.ErrorContext(ctx, "failed to write report", "error", err)
	}
}

// Publish pins a JSON payload, a rendered report, or an uploaded file.
// Multipart bodies carry the file in the "file" field.
func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req service.PublishRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, name, err := readUpload(w, r)
		if err != nil {
			logger.WarnContext(ctx, "invalid upload", "error", err)
			writeError(w, http.StatusBadRequest, "A file upload is required")
			return
		}
		req = service.PublishRequest{File: file, FileName: name}
	} else {
		var body PublishRequest
		if err := decodeJSON(w, r, &body); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req = service.PublishRequest{
			Report:   body.Report,
			Payload:  body.Payload,
			FileName: body.FileName,
			Encrypt:  body.Encrypt,
		}
	}

	artifact, err := h.publisher.Publish(ctx, req)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to publish content")
		return
	}
	writeJSON(w, ctx, http.StatusOK, artifact)
}

// Fetch streams pinned content back from the gateway. With ?open=true a
// sealed JSON envelope is decrypted first.
func (h *PublishHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hash := chi.URLParam(r, "hash")
	open := r.URL.Query().Get("open") == "true"

	data, contentType, err := h.publisher.Fetch(ctx, hash, open)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to fetch content")
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to write content", "hash", hash, "error", err)
	}
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}
