package anchor

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_wallet.go -package=mocks medguard-ai/internal/anchor Wallet,Anchorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// EntryFunctionPayload is a Move entry function call.
type EntryFunctionPayload struct {
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// TxOptions carries gas settings for a generated transaction.
type TxOptions struct {
	MaxGasAmount string `json:"max_gas_amount"`
	GasUnitPrice string `json:"gas_unit_price"`
}

// Wallet is a user-controlled signing capability. Absence must be detected
// through Installed, never assumed.
type Wallet interface {
	// Installed reports whether a wallet is reachable. It does not fail.
	Installed(ctx context.Context) bool
	IsConnected(ctx context.Context) (bool, error)
	Connect(ctx context.Context) (WalletIdentity, error)
	Account(ctx context.Context) (WalletIdentity, error)
	// GenerateTransaction builds an unsigned transaction. The result is
	// opaque and only passed back to SignAndSubmitTransaction.
	GenerateTransaction(ctx context.Context, sender string, payload EntryFunctionPayload, opts TxOptions) (json.RawMessage, error)
	// SignAndSubmitTransaction returns the submitted transaction hash.
	SignAndSubmitTransaction(ctx context.Context, txn json.RawMessage) (string, error)
}

// RemoteWallet reaches a wallet through an HTTP bridge that relays calls to
// the user's wallet extension. With no base URL it reports not installed.
type RemoteWallet struct {
	baseURL string
	client  *http.Client
}

// NewRemoteWallet creates a wallet bridge client. baseURL may be empty.
func NewRemoteWallet(baseURL string) *RemoteWallet {
	return &RemoteWallet{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

type walletStatus struct {
	Installed bool `json:"installed"`
	Connected bool `json:"connected"`
}

// Installed probes the bridge status endpoint.
func (w *RemoteWallet) Installed(ctx context.Context) bool {
	if w.baseURL == "" {
		return false
	}
	var status walletStatus
	if err := w.call(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return false
	}
	return status.Installed
}

// IsConnected reports whether the wallet has an approved session.
func (w *RemoteWallet) IsConnected(ctx context.Context) (bool, error) {
	if w.baseURL == "" {
		return false, ErrWalletNotInstalled
	}
	var status walletStatus
	if err := w.call(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return false, err
	}
	return status.Connected, nil
}

// Connect asks the user to approve a session.
func (w *RemoteWallet) Connect(ctx context.Context) (WalletIdentity, error) {
	if w.baseURL == "" {
		return WalletIdentity{}, ErrWalletNotInstalled
	}
	var id WalletIdentity
	if err := w.call(ctx, http.MethodPost, "/connect", struct{}{}, &id); err != nil {
		if errors.Is(ClassifyError(err), ErrUserRejected) {
			return WalletIdentity{}, fmt.Errorf("%w: %v", ErrConnectionRejected, err)
		}
		return WalletIdentity{}, err
	}
	if id.Address == "" {
		return w.Account(ctx)
	}
	return id, nil
}

// Account returns the connected account.
func (w *RemoteWallet) Account(ctx context.Context) (WalletIdentity, error) {
	if w.baseURL == "" {
		return WalletIdentity{}, ErrWalletNotInstalled
	}
	var id WalletIdentity
	if err := w.call(ctx, http.MethodGet, "/account", nil, &id); err != nil {
		return WalletIdentity{}, err
	}
	return id, nil
}

// GenerateTransaction builds a transaction for sender.
func (w *RemoteWallet) GenerateTransaction(ctx context.Context, sender string, payload EntryFunctionPayload, opts TxOptions) (json.RawMessage, error) {
	if w.baseURL == "" {
		return nil, ErrWalletNotInstalled
	}
	req := struct {
		Sender  string               `json:"sender"`
		Payload EntryFunctionPayload `json:"payload"`
		Options TxOptions            `json:"options"`
	}{sender, payload, opts}

	var txn json.RawMessage
	if err := w.call(ctx, http.MethodPost, "/transactions/generate", req, &txn); err != nil {
		return nil, ClassifyError(err)
	}
	return txn, nil
}

// SignAndSubmitTransaction has the user sign txn and submits it.
func (w *RemoteWallet) SignAndSubmitTransaction(ctx context.Context, txn json.RawMessage) (string, error) {
	if w.baseURL == "" {
		return "", ErrWalletNotInstalled
	}
	req := struct {
		Transaction json.RawMessage `json:"transaction"`
	}{txn}

	var resp struct {
		Hash string `json:"hash"`
	}
	if err := w.call(ctx, http.MethodPost, "/transactions/submit", req, &resp); err != nil {
		return "", ClassifyError(err)
	}
	if resp.Hash == "" {
		return "", errors.New("wallet returned no transaction hash")
	}
	return resp.Hash, nil
}

func (w *RemoteWallet) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal wallet request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, w.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create wallet request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach wallet: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read wallet response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("wallet returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode wallet response: %w", err)
	}
	return nil
}
