package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/pinning"
	"medguard-ai/internal/service"
	"medguard-ai/internal/service/mocks"
	"medguard-ai/internal/storage"

	"go.uber.org/mock/gomock"
)

type pipelineMocks struct {
	diagnoses *mocks.MockDiagnosisService
	publisher *mocks.MockPublishService
	records   *mocks.MockRecordService
	anchors   *mocks.MockAnchorService
}

func newPipelineHandler(ctrl *gomock.Controller) (*PipelineHandler, pipelineMocks) {
	m := pipelineMocks{
		diagnoses: mocks.NewMockDiagnosisService(ctrl),
		publisher: mocks.NewMockPublishService(ctrl),
		records:   mocks.NewMockRecordService(ctrl),
		anchors:   mocks.NewMockAnchorService(ctrl),
	}
	p := service.NewPipeline(m.diagnoses, m.publisher, m.records, m.anchors)
	return NewPipelineHandler(p), m
}

func TestPipelineHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newPipelineHandler(ctrl)
	rec := diagnosis.Record{DiagnosisLabel: "Flu", RiskLevel: diagnosis.RiskMedium, WellnessScore: 60}

	m.diagnoses.EXPECT().Diagnose(gomock.Any(), service.DiagnoseRequest{Prompt: "fever"}).Return(service.DiagnoseResponse{Record: rec}, nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(pinning.Artifact{Hash: "QmHash", Success: true}, nil)
	m.records.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, p service.RecordPayload) (*storage.HealthRecord, *storage.HealthRecordDetails, error) {
			if p.UserID != "caller-1" {
				t.Errorf("record user = %q, want the caller", p.UserID)
			}
			return &storage.HealthRecord{ID: "r1"}, nil, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline", strings.NewReader(`{"prompt":"fever","skipAnchor":true}`))
	req = req.WithContext(contextutil.WithCaller(req.Context(), "caller-1"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ServeHTTP() status = %v (body %s)", w.Code, w.Body.String())
	}
	var st service.PipelineState
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if st.RecordID != "r1" || st.Artifact == nil || len(st.Completed) != 3 {
		t.Errorf("state = %+v", st)
	}
}

func TestPipelineHandler_StageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, m := newPipelineHandler(ctrl)
	m.diagnoses.EXPECT().Diagnose(gomock.Any(), gomock.Any()).Return(service.DiagnoseResponse{Record: diagnosis.DefaultRecord()}, nil)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(pinning.Artifact{}, service.ErrExternalService)

	req := httptest.NewRequest(http.MethodPost, "/api/pipeline", strings.NewReader(`{"userId":"u1","prompt":"cough"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("ServeHTTP() status = %v, want 502", w.Code)
	}
	var resp PipelineErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Stage != service.StagePublish {
		t.Errorf("stage = %q, want publish", resp.Stage)
	}
	if resp.Result.Diagnosis == nil || resp.Result.Diagnosis.DiagnosisLabel != "Undetermined" {
		t.Errorf("partial result = %+v", resp.Result)
	}
}

func TestPipelineHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _ := newPipelineHandler(ctrl)
	req := httptest.NewRequest(http.MethodGet, "/api/pipeline", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("ServeHTTP() status = %v, want 405", w.Code)
	}
}
