package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_store.go -package=mocks medguard-ai/internal/storage RecordStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecordStore defines the interface for health record storage operations.
type RecordStore interface {
	// Create inserts a record, ensuring its user exists, and the optional
	// details in a single transaction. IDs and timestamps are assigned here.
	Create(ctx context.Context, rec *HealthRecord, details *HealthRecordDetails) error
	// GetByID gets a record by ID.
	// Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*HealthRecord, error)
	// GetDetails gets the details row of a record.
	// Returns nil and ErrNotFound if the record has none.
	GetDetails(ctx context.Context, recordID string) (*HealthRecordDetails, error)
	// GetDetailsByID gets a details row by its own ID.
	GetDetailsByID(ctx context.Context, id string) (*HealthRecordDetails, error)
	// ListByUser lists a user's records, newest first.
	ListByUser(ctx context.Context, userID string) ([]HealthRecord, error)
	// Update applies a patch and returns the updated record.
	Update(ctx context.Context, id string, patch RecordPatch) (*HealthRecord, error)
	// Delete removes a record; its details go with it.
	Delete(ctx context.Context, id string) error
}

// RecordRepo provides methods for health record operations.
// It implements the RecordStore interface.
type RecordRepo struct {
	db *DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

const recordColumns = "id, user_id, title, diagnosis, risk_level, summary, ipfs_hash, ipfs_url, tx_hash, tx_simulated, wellness_score, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*HealthRecord, error) {
	var rec HealthRecord
	var summary, ipfsHash, ipfsURL, txHash sql.NullString
	var txSimulated int64
	var wellness sql.NullInt64

	err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Diagnosis, &rec.RiskLevel,
		&summary, &ipfsHash, &ipfsURL, &txHash, &txSimulated, &wellness, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec.Summary = nullString(summary)
	rec.IPFSHash = nullString(ipfsHash)
	rec.IPFSURL = nullString(ipfsURL)
	rec.TxHash = nullString(txHash)
	rec.TxSimulated = txSimulated != 0
	rec.WellnessScore = nullInt(wellness)
	return &rec, nil
}

// Create inserts the record and its details.
func (r *RecordRepo) Create(ctx context.Context, rec *HealthRecord, details *HealthRecordDetails) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := ensureUser(ctx, r.db.Driver, tx, rec.UserID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CreatedAt = now

	_, err = tx.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO health_records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.UserID, rec.Title, rec.Diagnosis, rec.RiskLevel,
		rec.Summary, rec.IPFSHash, rec.IPFSURL, rec.TxHash, boolInt(rec.TxSimulated), rec.WellnessScore,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert health record: %w", err)
	}

	if details != nil {
		if details.ID == "" {
			details.ID = uuid.New().String()
		}
		details.HealthRecordID = rec.ID
		details.CreatedAt = now

		causes, err := encodeList(details.PossibleCauses)
		if err != nil {
			return err
		}
		suggestions, err := encodeList(details.Suggestions)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			r.db.Rebind(`INSERT INTO health_record_details (id, health_record_id, possible_causes, suggestions, created_at)
			 VALUES (?, ?, ?, ?, ?)`),
			details.ID, details.HealthRecordID, causes, suggestions, details.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert health record details: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit health record: %w", err)
	}
	return nil
}

// GetByID gets a record by ID.
func (r *RecordRepo) GetByID(ctx context.Context, id string) (*HealthRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+recordColumns+" FROM health_records WHERE id = ?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query health record: %w", err)
	}
	return rec, nil
}

// GetDetails gets the details row of a record.
func (r *RecordRepo) GetDetails(ctx context.Context, recordID string) (*HealthRecordDetails, error) {
	return r.queryDetails(ctx, "health_record_id", recordID)
}

// GetDetailsByID gets a details row by its own ID.
func (r *RecordRepo) GetDetailsByID(ctx context.Context, id string) (*HealthRecordDetails, error) {
	return r.queryDetails(ctx, "id", id)
}

func (r *RecordRepo) queryDetails(ctx context.Context, column, value string) (*HealthRecordDetails, error) {
	var d HealthRecordDetails
	var causes, suggestions string

	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT id, health_record_id, possible_causes, suggestions, created_at FROM health_record_details WHERE "+column+" = ? ORDER BY created_at DESC LIMIT 1"),
		value,
	).Scan(&d.ID, &d.HealthRecordID, &causes, &suggestions, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query health record details: %w", err)
	}

	if d.PossibleCauses, err = decodeList(causes); err != nil {
		return nil, err
	}
	if d.Suggestions, err = decodeList(suggestions); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByUser lists a user's records, newest first.
func (r *RecordRepo) ListByUser(ctx context.Context, userID string) ([]HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		r.db.Rebind("SELECT "+recordColumns+" FROM health_records WHERE user_id = ? ORDER BY created_at DESC"),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list health records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []HealthRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan health record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate health records: %w", err)
	}
	return records, nil
}

// Update applies a patch and returns the updated record. An empty patch
// only checks that the record exists.
func (r *RecordRepo) Update(ctx context.Context, id string, patch RecordPatch) (*HealthRecord, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []any
	add := func(column string, v any) {
		sets = append(sets, column+" = ?")
		args = append(args, v)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Diagnosis != nil {
		add("diagnosis", *patch.Diagnosis)
	}
	if patch.RiskLevel != nil {
		add("risk_level", *patch.RiskLevel)
	}
	if patch.Summary != nil {
		add("summary", *patch.Summary)
	}
	if patch.IPFSHash != nil {
		add("ipfs_hash", *patch.IPFSHash)
	}
	if patch.IPFSURL != nil {
		add("ipfs_url", *patch.IPFSURL)
	}
	if patch.TxHash != nil {
		add("tx_hash", *patch.TxHash)
	}
	if patch.TxSimulated != nil {
		add("tx_simulated", boolInt(*patch.TxSimulated))
	}
	if patch.WellnessScore != nil {
		add("wellness_score", *patch.WellnessScore)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE health_records SET "+strings.Join(sets, ", ")+" WHERE id = ?"),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update health record: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a record. Details are removed by the cascade.
func (r *RecordRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM health_records WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete health record: %w", err)
	}
	return requireAffected(res)
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	items := []string{}
	if s == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return items, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
