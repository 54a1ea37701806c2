package handlers

import (
	"net/http"
	"strings"

	"medguard-ai/internal/anchor"
	"medguard-ai/internal/contextutil"
	"medguard-ai/internal/service"
)

// AnchorHandler handles on-chain anchoring and wallet queries.
type AnchorHandler struct {
	anchors service.AnchorService
}

// NewAnchorHandler creates a new AnchorHandler.
func NewAnchorHandler(anchors service.AnchorService) *AnchorHandler {
	return &AnchorHandler{
		anchors: anchors,
	}
}

// AnchorRequest represents the HTTP request payload for anchoring.
type AnchorRequest struct {
	Hash          string `json:"hash"`
	URL           string `json:"url,omitempty"`
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	RecordID      string `json:"recordId,omitempty"`
	Simulate      bool   `json:"simulate,omitempty"`
}

// AnchorResponse represents the HTTP response payload for anchoring.
type AnchorResponse struct {
	TxHash        string           `json:"txHash"`
	TokenID       string           `json:"tokenId"`
	Success       bool             `json:"success"`
	Simulated     bool             `json:"simulated"`
	ExplorerURL   string           `json:"explorerUrl,omitempty"`
	State         anchor.MintState `json:"state"`
	RecordUpdated bool             `json:"recordUpdated"`
}

// WalletStatusResponse reports wallet availability.
type WalletStatusResponse struct {
	Installed bool             `json:"installed"`
	State     anchor.MintState `json:"state"`
	Address   string           `json:"address,omitempty"`
}

// BalanceResponse is an account balance in APT.
type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Warning string `json:"warning,omitempty"`
}

// Anchor records a published artifact on chain.
func (h *AnchorHandler) Anchor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnchorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.anchors.Anchor(ctx, service.AnchorRequest{
		Hash:           req.Hash,
		URL:            req.URL,
		Title:          req.Title,
		Description:    req.Description,
		DiagnosisLabel: req.Diagnosis,
		WalletAddress:  req.WalletAddress,
		RecordID:       req.RecordID,
		Simulate:       req.Simulate,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to anchor record")
		return
	}

	writeJSON(w, ctx, http.StatusOK, AnchorResponse{
		TxHash:        res.Transaction.TxHash,
		TokenID:       res.Transaction.TokenID,
		Success:       res.Transaction.Success,
		Simulated:     res.Transaction.Simulated,
		ExplorerURL:   res.ExplorerURL,
		State:         res.State,
		RecordUpdated: res.RecordUpdated,
	})
}

// WalletStatus reports whether a wallet is available and connected.
func (h *AnchorHandler) WalletStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := h.anchors.WalletStatus(ctx, strings.TrimSpace(r.URL.Query().Get("walletAddress")))
	writeJSON(w, ctx, http.StatusOK, WalletStatusResponse{
		Installed: status.Installed,
		State:     status.State,
		Address:   status.Address,
	})
}

// Balance returns the APT balance of ?address=. Lookup failures still
// answer 200 with a zero balance and a warning.
func (h *AnchorHandler) Balance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		handleServiceError(w, ctx, &service.ValidationError{Field: "address", Message: "is required"}, "")
		return
	}

	res := h.anchors.Balance(ctx, address)
	writeJSON(w, ctx, http.StatusOK, BalanceResponse{
		Address: res.Address,
		Balance: res.Balance,
		Warning: res.Warning,
	})
}
