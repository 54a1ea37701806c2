package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_telemetry.go -package=mocks medguard-ai/internal/service IoTStore,UserStore

import (
	"context"
	"errors"
	"strings"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/storage"
)

// IoTStore persists wearable readings.
type IoTStore interface {
	Insert(ctx context.Context, reading *storage.IoTReading) error
	Latest(ctx context.Context, userID string) (*storage.IoTReading, error)
}

// UserStore reads and updates user profiles.
type UserStore interface {
	Ensure(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*storage.User, error)
	SetWalletAddress(ctx context.Context, id, address string) error
}

// IoTPayload is one telemetry sample posted by a device bridge.
type IoTPayload struct {
	UserID      string   `json:"userId,omitempty"`
	HeartRate   *int     `json:"heartRate,omitempty"`
	Steps       *int     `json:"steps,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	SleepHours  *float64 `json:"sleepHours,omitempty"`
	BloodOxygen *int     `json:"bloodOxygen,omitempty"`
}

// TelemetryService stores and serves IoT readings and user profiles.
// Unlike records, every operation requires a caller identity.
type TelemetryService struct {
	iot   IoTStore
	users UserStore
}

// NewTelemetryService creates a new TelemetryService.
func NewTelemetryService(iot IoTStore, users UserStore) *TelemetryService {
	return &TelemetryService{iot: iot, users: users}
}

// Latest returns the caller's newest reading, or nil when there is none.
// An empty userID means the caller.
func (s *TelemetryService) Latest(ctx context.Context, userID string) (*storage.IoTReading, error) {
	target, err := callerTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	reading, err := s.iot.Latest(ctx, target)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to fetch iot data", "user_id", target, "error", err)
		return nil, WrapError(err, "failed to fetch iot data")
	}
	return reading, nil
}

// Record stores a reading for the caller.
func (s *TelemetryService) Record(ctx context.Context, payload IoTPayload) (*storage.IoTReading, error) {
	logger := contextutil.LoggerFromContext(ctx)

	target, err := callerTarget(ctx, payload.UserID)
	if err != nil {
		return nil, err
	}
	if payload.BloodOxygen != nil && (*payload.BloodOxygen < 0 || *payload.BloodOxygen > 100) {
		return nil, &ValidationError{Field: "bloodOxygen", Message: "must be a percentage", Payload: payload}
	}
	if payload.Steps != nil && *payload.Steps < 0 {
		return nil, &ValidationError{Field: "steps", Message: "cannot be negative", Payload: payload}
	}

	reading := &storage.IoTReading{
		UserID:      target,
		HeartRate:   payload.HeartRate,
		Steps:       payload.Steps,
		Temperature: payload.Temperature,
		SleepHours:  payload.SleepHours,
		BloodOxygen: payload.BloodOxygen,
	}
	if err := s.iot.Insert(ctx, reading); err != nil {
		logger.ErrorContext(ctx, "failed to record iot data", "user_id", target, "error", err)
		return nil, WrapError(err, "failed to record iot data")
	}

	logger.InfoContext(ctx, "iot data recorded", "reading_id", reading.ID, "user_id", target)
	return reading, nil
}

// Profile returns the caller's user row, creating it on first access.
func (s *TelemetryService) Profile(ctx context.Context) (*storage.User, error) {
	caller, ok := contextutil.CallerFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if err := s.users.Ensure(ctx, caller); err != nil {
		return nil, WrapError(err, "failed to ensure user")
	}
	user, err := s.users.GetByID(ctx, caller)
	if err != nil {
		return nil, WrapError(err, "failed to get user")
	}
	return user, nil
}

// SetWalletAddress links a wallet to the caller's profile.
func (s *TelemetryService) SetWalletAddress(ctx context.Context, address string) (*storage.User, error) {
	caller, ok := contextutil.CallerFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, &ValidationError{Field: "walletAddress", Message: "is required"}
	}

	if err := s.users.Ensure(ctx, caller); err != nil {
		return nil, WrapError(err, "failed to ensure user")
	}
	if err := s.users.SetWalletAddress(ctx, caller, address); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to set wallet address", "user_id", caller, "error", err)
		return nil, WrapError(err, "failed to set wallet address")
	}
	return s.users.GetByID(ctx, caller)
}

// callerTarget resolves the user an IoT request acts on. A caller is always
// required; naming another user is forbidden.
func callerTarget(ctx context.Context, userID string) (string, error) {
	caller, ok := contextutil.CallerFromContext(ctx)
	if !ok {
		return "", ErrUnauthorized
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return caller, nil
	}
	if userID != caller {
		return "", ErrForbidden
	}
	return userID, nil
}
