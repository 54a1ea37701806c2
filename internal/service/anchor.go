package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_anchor.go -package=mocks medguard-ai/internal/service BalanceLookup,AnchorService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medguard-ai/internal/anchor"
	"medguard-ai/internal/contextutil"
)

// BalanceLookup reads an account balance. Failures come back as an
// informational warning, never as an error.
type BalanceLookup interface {
	Balance(ctx context.Context, address string) (string, *anchor.LookupWarning)
}

// AnchorRequest is the input to an anchoring call.
type AnchorRequest struct {
	Hash           string
	URL            string
	Title          string
	Description    string
	DiagnosisLabel string
	WalletAddress  string
	// RecordID, when set, names the health record that receives the tx hash.
	RecordID string
	// Simulate forces the simulated anchorer for this call.
	Simulate bool
}

// AnchorResult is a successful anchoring outcome.
type AnchorResult struct {
	Transaction   anchor.Transaction
	ExplorerURL   string
	State         anchor.MintState
	RecordUpdated bool
	Transitions   []anchor.Transition
}

// AnchorFailure reports a failed anchoring attempt together with the state
// the flow was left in and whether a simulated retry is offered.
type AnchorFailure struct {
	State             anchor.MintState
	SimulationOffered bool
	Err               error
}

func (e *AnchorFailure) Error() string {
	return fmt.Sprintf("anchoring failed in state %s: %v", e.State, e.Err)
}

func (e *AnchorFailure) Unwrap() error { return e.Err }

// Is maps wallet outcomes onto the service taxonomy.
func (e *AnchorFailure) Is(target error) bool {
	switch target {
	case ErrUserRejected:
		return errors.Is(e.Err, anchor.ErrUserRejected) ||
			errors.Is(e.Err, anchor.ErrSecurityPolicy) ||
			errors.Is(e.Err, anchor.ErrConnectionRejected)
	case ErrConfiguration:
		return errors.Is(e.Err, anchor.ErrWalletNotInstalled)
	case ErrExternalService:
		return !errors.Is(e.Err, anchor.ErrUserRejected) &&
			!errors.Is(e.Err, anchor.ErrSecurityPolicy) &&
			!errors.Is(e.Err, anchor.ErrConnectionRejected) &&
			!errors.Is(e.Err, anchor.ErrWalletNotInstalled)
	}
	return false
}

// WalletStatus describes wallet availability for the anchoring flow.
type WalletStatus struct {
	Installed bool
	State     anchor.MintState
	Address   string
}

// BalanceResult is an account balance in APT. Warning is set when the
// lookup failed and the balance defaulted to zero.
type BalanceResult struct {
	Address string
	Balance string
	Warning string
}

// AnchorService anchors published artifacts on chain.
type AnchorService interface {
	Anchor(ctx context.Context, req AnchorRequest) (AnchorResult, error)
	WalletStatus(ctx context.Context, walletAddress string) WalletStatus
	Balance(ctx context.Context, address string) BalanceResult
}

// AnchorConfig selects the network and anchoring mode.
type AnchorConfig struct {
	Network string
	// Simulated makes every anchor use the simulated anchorer.
	Simulated bool
}

type anchorService struct {
	wallet    anchor.Wallet
	chain     anchor.Anchorer
	simulated anchor.Anchorer
	balances  BalanceLookup
	records   RecordService
	cfg       AnchorConfig
	now       func() time.Time
}

// NewAnchorService creates a new AnchorService. records may be nil, in
// which case anchors are never written back to health records.
func NewAnchorService(wallet anchor.Wallet, chain, simulated anchor.Anchorer, balances BalanceLookup, records RecordService, cfg AnchorConfig) AnchorService {
	return &anchorService{
		wallet:    wallet,
		chain:     chain,
		simulated: simulated,
		balances:  balances,
		records:   records,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Anchor runs one pass of the mint flow. The state machine is per call; the
// service itself holds no session.
func (s *anchorService) Anchor(ctx context.Context, req AnchorRequest) (AnchorResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	req.Hash = strings.TrimSpace(req.Hash)
	if req.Hash == "" {
		return AnchorResult{}, &ValidationError{Field: "hash", Message: "is required", Payload: req}
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.DiagnosisLabel) == "" {
		return AnchorResult{}, &ValidationError{Field: "title", Message: "is required", Payload: req}
	}

	anchorer := s.chain
	if s.cfg.Simulated || req.Simulate {
		anchorer = s.simulated
	}

	var session *anchor.WalletIdentity
	if req.WalletAddress != "" {
		session = &anchor.WalletIdentity{Address: req.WalletAddress}
	}
	minter := anchor.NewMinter(ctx, s.wallet, session)

	if !anchorer.Simulated() && minter.State() == anchor.StateConnectWallet {
		if !minter.CheckWalletAvailable(ctx) {
			return AnchorResult{}, &AnchorFailure{State: minter.State(), Err: anchor.ErrWalletNotInstalled}
		}
		if _, err := minter.Connect(ctx); err != nil {
			logger.WarnContext(ctx, "wallet connection failed", "error", err)
			return AnchorResult{}, &AnchorFailure{State: minter.State(), Err: err}
		}
	}

	txn, err := minter.PrepareAndSubmit(ctx, anchorer, anchor.Request{
		ArtifactHash: req.Hash,
		ArtifactURL:  req.URL,
		Metadata:     anchor.NewMetadata(req.DiagnosisLabel, req.Title, req.Description, req.Hash, s.now()),
		Sender:       req.WalletAddress,
	})
	if err != nil {
		failure := &AnchorFailure{
			State:             minter.State(),
			SimulationOffered: minter.SimulationOffered(),
			Err:               err,
		}
		logger.WarnContext(ctx, "anchoring failed",
			"state", failure.State,
			"simulation_offered", failure.SimulationOffered,
			"error", err,
		)
		return AnchorResult{}, failure
	}

	result := AnchorResult{
		Transaction: txn,
		State:       minter.State(),
		Transitions: minter.Transitions(),
	}
	if !txn.Simulated {
		result.ExplorerURL = anchor.ExplorerURL(s.cfg.Network, txn.TxHash)
	}

	if req.RecordID != "" && s.records != nil {
		simulated := txn.Simulated
		hash := txn.TxHash
		_, err := s.records.Update(ctx, req.RecordID, RecordPatchPayload{TxHash: &hash, TxSimulated: &simulated})
		if err != nil {
			logger.ErrorContext(ctx, "anchored but failed to update record", "record_id", req.RecordID, "tx_hash", hash, "error", err)
		} else {
			result.RecordUpdated = true
		}
	}

	logger.InfoContext(ctx, "artifact anchored",
		"artifact_hash", req.Hash,
		"tx_hash", txn.TxHash,
		"simulated", txn.Simulated,
		"record_updated", result.RecordUpdated,
	)
	return result, nil
}

// WalletStatus probes the wallet without changing anything.
func (s *anchorService) WalletStatus(ctx context.Context, walletAddress string) WalletStatus {
	var session *anchor.WalletIdentity
	if walletAddress != "" {
		session = &anchor.WalletIdentity{Address: walletAddress}
	}
	minter := anchor.NewMinter(ctx, s.wallet, session)

	status := WalletStatus{
		Installed: minter.CheckWalletAvailable(ctx),
		State:     minter.State(),
	}
	if id, ok := minter.Identity(); ok {
		status.Address = id.Address
	}
	return status
}

// Balance looks up an account balance. It never fails.
func (s *anchorService) Balance(ctx context.Context, address string) BalanceResult {
	address = strings.TrimSpace(address)
	balance, warning := s.balances.Balance(ctx, address)

	result := BalanceResult{Address: address, Balance: balance}
	if warning != nil {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "balance lookup degraded", "address", address, "error", warning.Err)
		result.Warning = warning.Error()
	}
	return result
}
