package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRecordRepo_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	tests := []struct {
		name        string
		rec         *HealthRecord
		details     *HealthRecordDetails
		wantDetails bool
	}{
		{
			name: "with details",
			rec: &HealthRecord{
				UserID:        "user-1",
				Title:         "Sore throat",
				Diagnosis:     "Common Cold",
				RiskLevel:     "Low",
				Summary:       strPtr("Rest and fluids."),
				WellnessScore: intPtr(82),
			},
			details: &HealthRecordDetails{
				PossibleCauses: []string{"Rhinovirus"},
				Suggestions:    []string{"Rest", "Fluids"},
			},
			wantDetails: true,
		},
		{
			name: "without details",
			rec: &HealthRecord{
				UserID:    "user-2",
				Title:     "Headache",
				Diagnosis: "Tension headache",
				RiskLevel: "Medium",
			},
			wantDetails: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Create(ctx, tt.rec, tt.details); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if tt.rec.ID == "" {
				t.Fatal("Create() did not assign an ID")
			}
			if tt.rec.CreatedAt.IsZero() {
				t.Error("Create() did not set CreatedAt")
			}

			got, err := repo.GetByID(ctx, tt.rec.ID)
			if err != nil {
				t.Fatalf("GetByID() error = %v", err)
			}
			if got.Title != tt.rec.Title || got.Diagnosis != tt.rec.Diagnosis || got.RiskLevel != tt.rec.RiskLevel {
				t.Errorf("GetByID() = %+v, want fields of %+v", got, tt.rec)
			}
			if got.TxHash != nil {
				t.Errorf("GetByID() TxHash = %v, want nil", *got.TxHash)
			}

			users := NewUserRepo(db)
			if _, err := users.GetByID(ctx, tt.rec.UserID); err != nil {
				t.Errorf("user row not ensured: %v", err)
			}

			details, err := repo.GetDetails(ctx, tt.rec.ID)
			if tt.wantDetails {
				if err != nil {
					t.Fatalf("GetDetails() error = %v", err)
				}
				if len(details.PossibleCauses) != 1 || details.PossibleCauses[0] != "Rhinovirus" {
					t.Errorf("GetDetails() PossibleCauses = %v", details.PossibleCauses)
				}
				if len(details.Suggestions) != 2 {
					t.Errorf("GetDetails() Suggestions = %v", details.Suggestions)
				}
				return
			}
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("GetDetails() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRecordRepo_CreateExistingUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepo(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		rec := &HealthRecord{UserID: "same-user", Title: "t", Diagnosis: "d", RiskLevel: "Low"}
		if err := repo.Create(ctx, rec, nil); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", "same-user").Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("users rows = %d, want 1", count)
	}
}

func TestRecordRepo_GetByID_NotFound(t *testing.T) {
	repo := NewRecordRepo(newTestDB(t))

	got, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if got != nil {
		t.Errorf("GetByID() = %+v, want nil", got)
	}
}

func TestRecordRepo_ListByUser(t *testing.T) {
	repo := NewRecordRepo(newTestDB(t))
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		rec := &HealthRecord{UserID: "user-1", Title: title, Diagnosis: "d", RiskLevel: "Low"}
		if err := repo.Create(ctx, rec, nil); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	other := &HealthRecord{UserID: "user-2", Title: "other", Diagnosis: "d", RiskLevel: "High"}
	if err := repo.Create(ctx, other, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListByUser() returned %d records, want 3", len(got))
	}
	want := []string{"third", "second", "first"}
	for i, rec := range got {
		if rec.Title != want[i] {
			t.Errorf("ListByUser()[%d].Title = %q, want %q", i, rec.Title, want[i])
		}
	}

	empty, err := repo.ListByUser(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListByUser() for unknown user = %v, want empty slice", empty)
	}
}

func TestRecordRepo_Update(t *testing.T) {
	repo := NewRecordRepo(newTestDB(t))
	ctx := context.Background()

	rec := &HealthRecord{UserID: "user-1", Title: "t", Diagnosis: "d", RiskLevel: "Low"}
	if err := repo.Create(ctx, rec, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	simulated := true
	tests := []struct {
		name    string
		id      string
		patch   RecordPatch
		wantErr error
		check   func(t *testing.T, got *HealthRecord)
	}{
		{
			name:  "set tx hash",
			id:    rec.ID,
			patch: RecordPatch{TxHash: strPtr("0xabc"), TxSimulated: &simulated},
			check: func(t *testing.T, got *HealthRecord) {
				if got.TxHash == nil || *got.TxHash != "0xabc" {
					t.Errorf("TxHash = %v, want 0xabc", got.TxHash)
				}
				if !got.TxSimulated {
					t.Error("TxSimulated = false, want true")
				}
				if got.Title != "t" {
					t.Errorf("Title changed to %q", got.Title)
				}
			},
		},
		{
			name:  "set ipfs fields",
			id:    rec.ID,
			patch: RecordPatch{IPFSHash: strPtr("QmHash"), IPFSURL: strPtr("https://gw/QmHash"), WellnessScore: intPtr(70)},
			check: func(t *testing.T, got *HealthRecord) {
				if got.IPFSHash == nil || *got.IPFSHash != "QmHash" {
					t.Errorf("IPFSHash = %v", got.IPFSHash)
				}
				if got.WellnessScore == nil || *got.WellnessScore != 70 {
					t.Errorf("WellnessScore = %v", got.WellnessScore)
				}
				if got.TxHash == nil {
					t.Error("earlier patch lost")
				}
			},
		},
		{
			name:  "empty patch returns current",
			id:    rec.ID,
			patch: RecordPatch{},
			check: func(t *testing.T, got *HealthRecord) {
				if got.ID != rec.ID {
					t.Errorf("ID = %q, want %q", got.ID, rec.ID)
				}
			},
		},
		{
			name:    "missing record",
			id:      "missing",
			patch:   RecordPatch{Title: strPtr("x")},
			wantErr: ErrNotFound,
		},
		{
			name:    "missing record with empty patch",
			id:      "missing",
			patch:   RecordPatch{},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Update(ctx, tt.id, tt.patch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestRecordRepo_DeleteCascadesDetails(t *testing.T) {
	repo := NewRecordRepo(newTestDB(t))
	ctx := context.Background()

	rec := &HealthRecord{UserID: "user-1", Title: "t", Diagnosis: "d", RiskLevel: "High"}
	details := &HealthRecordDetails{PossibleCauses: []string{"a"}, Suggestions: []string{"b"}}
	if err := repo.Create(ctx, rec, details); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := repo.GetDetailsByID(ctx, details.ID); err != nil {
		t.Fatalf("GetDetailsByID() before delete error = %v", err)
	}

	if err := repo.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetDetailsByID(ctx, details.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDetailsByID() after delete error = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
