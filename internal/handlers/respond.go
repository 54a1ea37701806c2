package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"medguard-ai/internal/anchor"
	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/service"
)

// maxBodyBytes bounds JSON request bodies. Attachments arrive base64
// encoded inside the body, so the limit is generous.
const maxBodyBytes = 32 << 20

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Field names the offending input on validation errors.
	Field string `json:"field,omitempty"`
	// Payload echoes the rejected request body on validation errors.
	Payload any `json:"payload,omitempty"`
	// CanSimulate is set when a wallet rejection may be retried in
	// simulated mode.
	CanSimulate bool             `json:"canSimulate,omitempty"`
	State       anchor.MintState `json:"state,omitempty"`
}

// decodeJSON decodes a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// writeJSON writes v as a JSON body with the given status.
func writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	status, resp := errorResponse(err, defaultMsg)

	logger := contextutil.LoggerFromContext(ctx)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "service error", "status", status, "error", err)
	} else {
		logger.WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// errorResponse picks the status code and body for a service error.
func errorResponse(err error, defaultMsg string) (int, ErrorResponse) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, ErrorResponse{
			Error:   fmt.Sprintf("Validation error: %s", validationErr.Message),
			Field:   validationErr.Field,
			Payload: validationErr.Payload,
		}
	}

	var failure *service.AnchorFailure
	hasFailure := errors.As(err, &failure)

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid input"}
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "Forbidden"}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Resource not found"}
	case errors.Is(err, service.ErrUserRejected):
		resp := ErrorResponse{Error: "Transaction was rejected by the wallet"}
		if hasFailure {
			resp.CanSimulate = failure.SimulationOffered
			resp.State = failure.State
		}
		return http.StatusConflict, resp
	case errors.Is(err, service.ErrConfiguration):
		resp := ErrorResponse{Error: "Service not configured"}
		if hasFailure {
			resp.Error = "Wallet is not installed"
			resp.State = failure.State
		}
		return http.StatusServiceUnavailable, resp
	case errors.Is(err, service.ErrExternalService):
		resp := ErrorResponse{Error: "External service error"}
		if hasFailure {
			resp.State = failure.State
			if errors.Is(err, anchor.ErrInsufficientFunds) {
				resp.Error = "Insufficient funds for the transaction"
			}
		}
		return http.StatusBadGateway, resp
	}

	// Default to internal server error
	return http.StatusInternalServerError, ErrorResponse{Error: defaultMsg}
}
