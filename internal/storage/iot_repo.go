package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IoTRepo provides methods for wearable telemetry.
type IoTRepo struct {
	db *DB
}

// NewIoTRepo creates a new IoTRepo.
func NewIoTRepo(db *DB) *IoTRepo {
	return &IoTRepo{db: db}
}

// Insert stores a reading, assigning its ID and timestamp.
func (r *IoTRepo) Insert(ctx context.Context, reading *IoTReading) error {
	reading.ID = uuid.New().String()
	reading.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO iot_data (id, user_id, heart_rate, steps, temperature, sleep_hours, blood_oxygen, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		reading.ID, reading.UserID, reading.HeartRate, reading.Steps, reading.Temperature,
		reading.SleepHours, reading.BloodOxygen, reading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert iot reading: %w", err)
	}
	return nil
}

// Latest returns the newest reading for a user.
// Returns nil and ErrNotFound if the user has none.
func (r *IoTRepo) Latest(ctx context.Context, userID string) (*IoTReading, error) {
	var reading IoTReading
	var heartRate, steps, bloodOxygen sql.NullInt64
	var temperature, sleepHours sql.NullFloat64

	err := r.db.QueryRowContext(ctx,
		r.db.Rebind(`SELECT id, user_id, heart_rate, steps, temperature, sleep_hours, blood_oxygen, created_at
		 FROM iot_data WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`),
		userID,
	).Scan(&reading.ID, &reading.UserID, &heartRate, &steps, &temperature, &sleepHours, &bloodOxygen, &reading.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query iot reading: %w", err)
	}

	reading.HeartRate = nullInt(heartRate)
	reading.Steps = nullInt(steps)
	reading.Temperature = nullFloat(temperature)
	reading.SleepHours = nullFloat(sleepHours)
	reading.BloodOxygen = nullInt(bloodOxygen)
	return &reading, nil
}
