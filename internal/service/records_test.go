package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/service"
	"medguard-ai/internal/storage"
	storagemocks "medguard-ai/internal/storage/mocks"

	"go.uber.org/mock/gomock"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func decodePayload(t *testing.T, body string) service.RecordPayload {
	t.Helper()
	var p service.RecordPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	return p
}

func TestRecordPayload_Normalize(t *testing.T) {
	snake := decodePayload(t, `{"user_id":"u1","title":"T","diagnosis":"D","risk_level":"Low","ipfs_hash":"QmA","wellness_score":80,"possible_causes":["x"]}`)
	camel := decodePayload(t, `{"userId":"u1","title":"T","diagnosis":"D","riskLevel":"Low","ipfsHash":"QmA","wellnessScore":80,"possibleCauses":["x"]}`)

	if !reflect.DeepEqual(snake.Normalize(), camel.Normalize()) {
		t.Errorf("Normalize() differs:\nsnake=%+v\ncamel=%+v", snake.Normalize(), camel.Normalize())
	}

	both := decodePayload(t, `{"user_id":"snake","userId":"camel","title":"T","diagnosis":"D","riskLevel":"High"}`)
	got := both.Normalize()
	if got.UserID != "snake" {
		t.Errorf("UserID = %q, want snake_case to win", got.UserID)
	}
	if got.RiskLevel != "High" {
		t.Errorf("RiskLevel = %q, want High", got.RiskLevel)
	}
	if got.UserIDSnake != "" || got.RiskLevelSnake != "" {
		t.Error("snake_case fields should be cleared")
	}
}

func TestRecordService_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		ctx          func() context.Context
		requireAuth  bool
		mockSetup    func(store *storagemocks.MockRecordStore)
		wantErr      bool
		checkErrType func(error) bool
		check        func(t *testing.T, rec *storage.HealthRecord, details *storage.HealthRecordDetails)
	}{
		{
			name: "snake_case payload with details",
			body: `{"user_id":"u1","title":"Medical Record: Flu","diagnosis":"Flu","risk_level":"medium","tx_hash":"0xignored","possibleCauses":["virus"],"suggestions":["rest"],"wellness_score":55}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, rec *storage.HealthRecord, details *storage.HealthRecordDetails) error {
						rec.ID = "rec-1"
						return nil
					})
			},
			check: func(t *testing.T, rec *storage.HealthRecord, details *storage.HealthRecordDetails) {
				if rec.ID != "rec-1" || rec.UserID != "u1" {
					t.Errorf("record = %+v", rec)
				}
				if rec.RiskLevel != "Medium" {
					t.Errorf("RiskLevel = %q, want canonical Medium", rec.RiskLevel)
				}
				if rec.TxHash != nil {
					t.Errorf("TxHash = %v, want nil at creation", *rec.TxHash)
				}
				if rec.WellnessScore == nil || *rec.WellnessScore != 55 {
					t.Errorf("WellnessScore = %v, want 55", rec.WellnessScore)
				}
				if details == nil || !reflect.DeepEqual(details.PossibleCauses, []string{"virus"}) {
					t.Errorf("details = %+v", details)
				}
			},
		},
		{
			name: "camelCase payload without details",
			body: `{"userId":"u1","title":"T","diagnosis":"D","riskLevel":"Low","ipfsHash":"QmHash","ipfsUrl":"https://gw/QmHash"}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().Create(gomock.Any(), gomock.Any(), nil).Return(nil)
			},
			check: func(t *testing.T, rec *storage.HealthRecord, details *storage.HealthRecordDetails) {
				if rec.IPFSHash == nil || *rec.IPFSHash != "QmHash" {
					t.Errorf("IPFSHash = %v, want QmHash", rec.IPFSHash)
				}
				if details != nil {
					t.Errorf("details = %+v, want nil", details)
				}
			},
		},
		{
			name:      "missing user",
			body:      `{"title":"T","diagnosis":"D","risk_level":"Low"}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "userId" && validationErr.Payload != nil
			},
		},
		{
			name:      "missing title",
			body:      `{"userId":"u1","diagnosis":"D","risk_level":"Low"}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "title"
			},
		},
		{
			name:      "missing diagnosis",
			body:      `{"user_id":"u1","title":"T","riskLevel":"Low"}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "diagnosis"
			},
		},
		{
			name:      "missing risk under either alias",
			body:      `{"user_id":"u1","title":"T","diagnosis":"D","risk_level":"","riskLevel":""}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "riskLevel"
			},
		},
		{
			name:      "unknown risk",
			body:      `{"user_id":"u1","title":"T","diagnosis":"D","risk_level":"Severe"}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrInvalidInput)
			},
		},
		{
			name:      "score out of range",
			body:      `{"user_id":"u1","title":"T","diagnosis":"D","risk_level":"Low","wellnessScore":140}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrInvalidInput)
			},
		},
		{
			name:      "caller creating for someone else",
			body:      `{"user_id":"u1","title":"T","diagnosis":"D","risk_level":"Low"}`,
			ctx:       func() context.Context { return contextutil.WithCaller(testContext(), "u2") },
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrForbidden)
			},
		},
		{
			name:        "auth required without caller",
			body:        `{"user_id":"u1","title":"T","diagnosis":"D","risk_level":"Low"}`,
			requireAuth: true,
			mockSetup:   func(store *storagemocks.MockRecordStore) {},
			wantErr:     true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrUnauthorized)
			},
		},
		{
			name: "store failure",
			body: `{"user_id":"u1","title":"T","diagnosis":"D","risk_level":"Low"}`,
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := storagemocks.NewMockRecordStore(ctrl)
			tt.mockSetup(store)
			svc := service.NewRecordService(store, tt.requireAuth)

			ctx := testContext()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			rec, details, err := svc.Create(ctx, decodePayload(t, tt.body))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Create() expected error, got nil")
					return
				}
				if tt.checkErrType != nil && !tt.checkErrType(err) {
					t.Errorf("Create() error type mismatch: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, rec, details)
			}
		})
	}
}

func TestRecordService_Get(t *testing.T) {
	owned := &storage.HealthRecord{ID: "r1", UserID: "u1", Title: "T"}

	tests := []struct {
		name        string
		caller      string
		mockSetup   func(store *storagemocks.MockRecordStore)
		wantErr     error
		wantDetails bool
	}{
		{
			name: "with details",
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().GetByID(gomock.Any(), "r1").Return(owned, nil)
				store.EXPECT().GetDetails(gomock.Any(), "r1").Return(&storage.HealthRecordDetails{ID: "d1"}, nil)
			},
			wantDetails: true,
		},
		{
			name:   "owner without details",
			caller: "u1",
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().GetByID(gomock.Any(), "r1").Return(owned, nil)
				store.EXPECT().GetDetails(gomock.Any(), "r1").Return(nil, storage.ErrNotFound)
			},
		},
		{
			name:   "not found before ownership",
			caller: "u2",
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().GetByID(gomock.Any(), "r1").Return(nil, storage.ErrNotFound)
			},
			wantErr: service.ErrNotFound,
		},
		{
			name:   "other caller",
			caller: "u2",
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().GetByID(gomock.Any(), "r1").Return(owned, nil)
			},
			wantErr: service.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := storagemocks.NewMockRecordStore(ctrl)
			tt.mockSetup(store)
			svc := service.NewRecordService(store, false)

			rec, details, err := svc.Get(contextutil.WithCaller(testContext(), tt.caller), "r1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() unexpected error: %v", err)
			}
			if rec.ID != "r1" {
				t.Errorf("Get() record = %+v", rec)
			}
			if (details != nil) != tt.wantDetails {
				t.Errorf("Get() details = %+v, want present=%v", details, tt.wantDetails)
			}
		})
	}
}

func TestRecordService_ListByUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storagemocks.NewMockRecordStore(ctrl)
	svc := service.NewRecordService(store, true)

	store.EXPECT().ListByUser(gomock.Any(), "u1").Return([]storage.HealthRecord{{ID: "b"}, {ID: "a"}}, nil)

	records, err := svc.ListByUser(contextutil.WithCaller(testContext(), "u1"), "u1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(records) != 2 || records[0].ID != "b" {
		t.Errorf("ListByUser() = %+v", records)
	}

	if _, err := svc.ListByUser(contextutil.WithCaller(testContext(), "u1"), "u2"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("ListByUser() other user error = %v, want ErrForbidden", err)
	}
	if _, err := svc.ListByUser(testContext(), "u1"); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("ListByUser() anonymous error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.ListByUser(testContext(), ""); !errors.Is(err, service.ErrInvalidInput) {
		t.Errorf("ListByUser() empty user error = %v, want ErrInvalidInput", err)
	}
}

func TestRecordService_Update(t *testing.T) {
	owned := &storage.HealthRecord{ID: "r1", UserID: "u1"}

	tests := []struct {
		name      string
		payload   service.RecordPatchPayload
		mockSetup func(store *storagemocks.MockRecordStore)
		wantErr   error
	}{
		{
			name:    "attach tx hash via snake_case",
			payload: service.RecordPatchPayload{TxHashSnake: strPtr("0xabc")},
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().GetByID(gomock.Any(), "r1").Return(owned, nil)
				store.EXPECT().
					Update(gomock.Any(), "r1", storage.RecordPatch{TxHash: strPtr("0xabc")}).
					Return(&storage.HealthRecord{ID: "r1", TxHash: strPtr("0xabc")}, nil)
			},
		},
		{
			name:    "risk canonicalized",
			payload: service.RecordPatchPayload{RiskLevel: strPtr("HIGH"), WellnessScore: intPtr(30)},
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().GetByID(gomock.Any(), "r1").Return(owned, nil)
				store.EXPECT().
					Update(gomock.Any(), "r1", storage.RecordPatch{RiskLevel: strPtr("High"), WellnessScore: intPtr(30)}).
					Return(owned, nil)
			},
		},
		{
			name:      "empty title",
			payload:   service.RecordPatchPayload{Title: strPtr(" ")},
			mockSetup: func(store *storagemocks.MockRecordStore) {},
			wantErr:   service.ErrInvalidInput,
		},
		{
			name:    "missing record",
			payload: service.RecordPatchPayload{Title: strPtr("new")},
			mockSetup: func(store *storagemocks.MockRecordStore) {
				store.EXPECT().GetByID(gomock.Any(), "r1").Return(nil, storage.ErrNotFound)
			},
			wantErr: service.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := storagemocks.NewMockRecordStore(ctrl)
			tt.mockSetup(store)
			svc := service.NewRecordService(store, false)

			_, err := svc.Update(testContext(), "r1", tt.payload)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("Update() unexpected error: %v", err)
			}
		})
	}
}

func TestRecordService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storagemocks.NewMockRecordStore(ctrl)
	svc := service.NewRecordService(store, false)
	ctx := contextutil.WithCaller(testContext(), "u1")

	gomock.InOrder(
		store.EXPECT().GetByID(gomock.Any(), "r1").Return(&storage.HealthRecord{ID: "r1", UserID: "u1"}, nil),
		store.EXPECT().Delete(gomock.Any(), "r1").Return(nil),
	)
	if err := svc.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	store.EXPECT().GetByID(gomock.Any(), "r2").Return(&storage.HealthRecord{ID: "r2", UserID: "u9"}, nil)
	if err := svc.Delete(ctx, "r2"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("Delete() error = %v, want ErrForbidden", err)
	}

	store.EXPECT().GetByID(gomock.Any(), "r3").Return(nil, storage.ErrNotFound)
	if err := svc.Delete(ctx, "r3"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
