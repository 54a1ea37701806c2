package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/service"
	"medguard-ai/internal/service/mocks"
	"medguard-ai/internal/storage"

	"go.uber.org/mock/gomock"
)

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

type routerMocks struct {
	diagnoses *mocks.MockDiagnosisService
	publisher *mocks.MockPublishService
	records   *mocks.MockRecordService
	anchors   *mocks.MockAnchorService
	iot       *mocks.MockIoTStore
	users     *mocks.MockUserStore
}

func newTestRouter(ctrl *gomock.Controller) (http.Handler, routerMocks) {
	m := routerMocks{
		diagnoses: mocks.NewMockDiagnosisService(ctrl),
		publisher: mocks.NewMockPublishService(ctrl),
		records:   mocks.NewMockRecordService(ctrl),
		anchors:   mocks.NewMockAnchorService(ctrl),
		iot:       mocks.NewMockIoTStore(ctrl),
		users:     mocks.NewMockUserStore(ctrl),
	}
	deps := &Deps{
		Diagnoses:         m.diagnoses,
		Publisher:         m.publisher,
		Records:           m.records,
		Anchors:           m.anchors,
		Pipeline:          service.NewPipeline(m.diagnoses, m.publisher, m.records, m.anchors),
		Telemetry:         service.NewTelemetryService(m.iot, m.users),
		DB:                okPinger{},
		PinningConfigured: true,
	}
	return NewRouter(deps), m
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(ctrl)

	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(ctrl)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/diagnose exists",
			method:     http.MethodPost,
			path:       "/api/diagnose",
			wantStatus: http.StatusBadRequest, // Bad request due to invalid body, but route exists
		},
		{
			name:       "GET /api/diagnose method not allowed",
			method:     http.MethodGet,
			path:       "/api/diagnose",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "POST /api/records exists",
			method:     http.MethodPost,
			path:       "/api/records",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "PATCH /api/records/{id} exists",
			method:     http.MethodPatch,
			path:       "/api/records/r1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/anchor exists",
			method:     http.MethodPost,
			path:       "/api/anchor",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/wallet/balance requires address",
			method:     http.MethodGet,
			path:       "/api/wallet/balance",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/iot-data requires caller",
			method:     http.MethodGet,
			path:       "/api/iot-data",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "PUT /api/profile method not allowed",
			method:     http.MethodPut,
			path:       "/api/profile",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/chat",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_IdentityReachesServices(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := newTestRouter(ctrl)

	m.records.EXPECT().
		ListByUser(gomock.Any(), "user-7").
		DoAndReturn(func(ctx context.Context, userID string) ([]storage.HealthRecord, error) {
			if caller, ok := contextutil.CallerFromContext(ctx); !ok || caller != "user-7" {
				t.Errorf("caller = %q, %v", caller, ok)
			}
			return []storage.HealthRecord{{ID: "r1", UserID: "user-7"}}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/records", nil)
	req.Header.Set(UserIDHeader, "user-7")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/records status = %v (body %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"id":"r1"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(ctrl)

	req := httptest.NewRequest(http.MethodOptions, "/api/records/r1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("Router should apply CORS middleware")
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %v, want 204", w.Code)
	}
}
