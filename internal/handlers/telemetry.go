package handlers

import (
	"net/http"
	"time"

	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/service"
	"medguard-ai/internal/storage"
)

// TelemetryHandler serves IoT readings and the caller's profile.
type TelemetryHandler struct {
	telemetry *service.TelemetryService
}

// NewTelemetryHandler creates a new TelemetryHandler.
func NewTelemetryHandler(telemetry *service.TelemetryService) *TelemetryHandler {
	return &TelemetryHandler{
		telemetry: telemetry,
	}
}

// IoTResponse wraps a reading. Data is null when the user has none.
type IoTResponse struct {
	Data    *storage.IoTReading `json:"data"`
	Success bool                `json:"success,omitempty"`
}

// ProfileResponse is the caller's user row.
type ProfileResponse struct {
	ID            string    `json:"id"`
	WalletAddress *string   `json:"walletAddress"`
	Email         *string   `json:"email"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProfileRequest updates the caller's profile.
type ProfileRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// LatestIoT returns the newest reading for ?userId=, defaulting to the caller.
func (h *TelemetryHandler) LatestIoT(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reading, err := h.telemetry.Latest(ctx, r.URL.Query().Get("userId"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to fetch IoT data")
		return
	}
	writeJSON(w, ctx, http.StatusOK, IoTResponse{Data: reading})
}

// RecordIoT stores one reading.
func (h *TelemetryHandler) RecordIoT(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload service.IoTPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reading, err := h.telemetry.Record(ctx, payload)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to record IoT data")
		return
	}
	writeJSON(w, ctx, http.StatusOK, IoTResponse{Data: reading, Success: true})
}

// Profile returns the caller's profile.
func (h *TelemetryHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.telemetry.Profile(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to fetch profile")
		return
	}
	writeJSON(w, ctx, http.StatusOK, profileResponse(user))
}

// UpdateProfile links a wallet address to the caller.
func (h *TelemetryHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.telemetry.SetWalletAddress(ctx, req.WalletAddress)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to update profile")
		return
	}
	writeJSON(w, ctx, http.StatusOK, profileResponse(user))
}

func profileResponse(u *storage.User) ProfileResponse {
	return ProfileResponse{
		ID:            u.ID,
		WalletAddress: u.WalletAddress,
		Email:         u.Email,
		CreatedAt:     u.CreatedAt,
	}
}
