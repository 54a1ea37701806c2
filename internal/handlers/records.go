package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/service"
	"medguard-ai/internal/storage"
)

// RecordsHandler serves the health record resource.
type RecordsHandler struct {
	records  service.RecordService
	template *template.Template
}

// NewRecordsHandler creates a new RecordsHandler.
func NewRecordsHandler(records service.RecordService) *RecordsHandler {
	return &RecordsHandler{
		records:  records,
		template: template.Must(template.New("record").Parse(recordPage)),
	}
}

// RecordResponse is a single record with its details.
type RecordResponse struct {
	Record  *storage.HealthRecord        `json:"record"`
	Details *storage.HealthRecordDetails `json:"details"`
	Success bool                         `json:"success,omitempty"`
}

// RecordListResponse is a user's records, newest first.
type RecordListResponse struct {
	Records []storage.HealthRecord `json:"records"`
}

// SuccessResponse acknowledges an operation with no body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Create stores a new record.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload service.RecordPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, details, err := h.records.Create(ctx, payload)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create health record")
		return
	}
	writeJSON(w, ctx, http.StatusOK, RecordResponse{Record: rec, Details: details, Success: true})
}

// List returns the records of ?userId=, defaulting to the caller.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		userID, _ = contextutil.CallerFromContext(ctx)
	}

	records, err := h.records.ListByUser(ctx, userID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to fetch health records")
		return
	}
	if records == nil {
		records = []storage.HealthRecord{}
	}
	writeJSON(w, ctx, http.StatusOK, RecordListResponse{Records: records})
}

// Get returns one record and its details.
func (h *RecordsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, details, err := h.records.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to fetch health record")
		return
	}
	writeJSON(w, ctx, http.StatusOK, RecordResponse{Record: rec, Details: details})
}

// Update applies a partial update.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload service.RecordPatchPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.records.Update(ctx, chi.URLParam(r, "id"), payload)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update health record")
		return
	}
	writeJSON(w, ctx, http.StatusOK, RecordResponse{Record: rec, Success: true})
}

// Delete removes a record and its details.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.records.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete health record")
		return
	}
	writeJSON(w, ctx, http.StatusOK, SuccessResponse{Success: true})
}

// recordPageData holds template data for a rendered record page.
type recordPageData struct {
	Record  *storage.HealthRecord
	Details *storage.HealthRecordDetails
	Risk    string
	Summary template.HTML
}

// View renders a record as an HTML page. The summary is markdown.
func (h *RecordsHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	rec, details, err := h.records.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to fetch health record")
		return
	}

	data := recordPageData{
		Record:  rec,
		Details: details,
		Risk:    strings.ToLower(rec.RiskLevel),
	}
	if rec.Summary != nil && *rec.Summary != "" {
		summary, err := diagnosis.RenderMarkdown(*rec.Summary)
		if err != nil {
			logger.ErrorContext(ctx, "failed to render record summary", "record_id", rec.ID, "error", err)
			http.Error(w, "failed to render record", http.StatusInternalServerError)
			return
		}
		// Raw HTML in the summary is omitted by the markdown renderer.
		data.Summary = template.HTML(summary)
	}

	var buf bytes.Buffer
	if err := h.template.Execute(&buf, data); err != nil {
		logger.ErrorContext(ctx, "failed to execute record template", "record_id", rec.ID, "error", err)
		http.Error(w, "failed to render record", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

const recordPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Record.Title}} | MedGuard AI</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 860px;
      line-height: 1.6;
      background: #f8fafc;
      color: #0f172a;
    }
    header {
      margin-bottom: 1.5rem;
      border-bottom: 1px solid #e2e8f0;
      padding-bottom: 1rem;
    }
    h1 {
      margin: 0;
      font-size: 1.8rem;
    }
    .meta {
      color: #64748b;
      font-size: 0.95rem;
    }
    .badge {
      display: inline-block;
      padding: 2px 10px;
      border-radius: 999px;
      font-weight: 600;
      font-size: 0.85rem;
      background: #e2e8f0;
    }
    .badge.low { background: #dcfce7; color: #166534; }
    .badge.medium { background: #fef9c3; color: #854d0e; }
    .badge.high { background: #fee2e2; color: #991b1b; }
    section {
      background: #fff;
      border: 1px solid #e2e8f0;
      border-radius: 12px;
      padding: 1.25rem 1.5rem;
      margin-bottom: 1rem;
    }
    h2 {
      font-size: 1.1rem;
      margin-top: 0;
      color: #1d4ed8;
    }
    code {
      font-family: 'SFMono-Regular', Consolas, 'Liberation Mono', Menlo, monospace;
      word-break: break-all;
    }
    footer {
      color: #94a3b8;
      font-size: 0.8rem;
      margin-top: 2rem;
    }
  </style>
</head>
<body>
  <header>
    <h1>{{.Record.Title}}</h1>
    <p class="meta">
      {{.Record.CreatedAt.Format "January 2, 2006 15:04"}} &middot;
      <span class="badge {{.Risk}}">{{.Record.RiskLevel}} risk</span>
      {{with .Record.WellnessScore}}&middot; Wellness score {{.}}/100{{end}}
    </p>
  </header>
  <section>
    <h2>Diagnosis</h2>
    <p>{{.Record.Diagnosis}}</p>
  </section>
  {{with .Details}}
  {{if .PossibleCauses}}
  <section>
    <h2>Possible Causes</h2>
    <ul>{{range .PossibleCauses}}<li>{{.}}</li>{{end}}</ul>
  </section>
  {{end}}
  {{if .Suggestions}}
  <section>
    <h2>Suggestions</h2>
    <ul>{{range .Suggestions}}<li>{{.}}</li>{{end}}</ul>
  </section>
  {{end}}
  {{end}}
  {{if .Summary}}
  <section>
    <h2>Additional Notes</h2>
    {{.Summary}}
  </section>
  {{end}}
  {{if or .Record.IPFSHash .Record.TxHash}}
  <section>
    <h2>Verification</h2>
    {{with .Record.IPFSHash}}<p>IPFS: {{if $.Record.IPFSURL}}<a href="{{$.Record.IPFSURL}}"><code>{{.}}</code></a>{{else}}<code>{{.}}</code>{{end}}</p>{{end}}
    {{with .Record.TxHash}}<p>Transaction: <code>{{.}}</code>{{if $.Record.TxSimulated}} (simulated){{end}}</p>{{end}}
  </section>
  {{end}}
  <footer>
    This report is generated by AI and is not a substitute for professional medical advice.
  </footer>
</body>
</html>`
