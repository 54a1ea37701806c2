package anchor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"medguard-ai/internal/contextutil"
)

// Anchorer submits the transaction that associates an artifact with a token.
type Anchorer interface {
	Anchor(ctx context.Context, req Request) (Transaction, error)
	// Simulated reports whether transactions are fabricated locally.
	Simulated() bool
}

// Self-transfer used as the anchoring transaction.
const (
	transferFunction = "0x1::coin::transfer"
	aptosCoinType    = "0x1::aptos_coin::AptosCoin"
	transferAmount   = "1"
	maxGasAmount     = "1000"
	gasUnitPrice     = "1"
)

func tokenID(at time.Time) string {
	return fmt.Sprintf("Medical_Record_%d", at.UnixMilli())
}

// ChainAnchorer submits a real transaction through the user's wallet.
type ChainAnchorer struct {
	wallet Wallet
	now    func() time.Time
}

// NewChainAnchorer creates an anchorer that signs with wallet.
func NewChainAnchorer(wallet Wallet) *ChainAnchorer {
	return &ChainAnchorer{wallet: wallet, now: time.Now}
}

// Simulated implements Anchorer.
func (a *ChainAnchorer) Simulated() bool { return false }

// Anchor sends one octa from the sender to itself. Wallet errors are
// classified into the package sentinels.
func (a *ChainAnchorer) Anchor(ctx context.Context, req Request) (Transaction, error) {
	logger := contextutil.LoggerFromContext(ctx)

	sender := req.Sender
	if sender == "" {
		id, err := a.wallet.Account(ctx)
		if err != nil {
			return Transaction{}, fmt.Errorf("failed to get wallet account: %w", ClassifyError(err))
		}
		sender = id.Address
	}

	payload := EntryFunctionPayload{
		Function:      transferFunction,
		TypeArguments: []string{aptosCoinType},
		Arguments:     []string{sender, transferAmount},
	}
	opts := TxOptions{MaxGasAmount: maxGasAmount, GasUnitPrice: gasUnitPrice}

	txn, err := a.wallet.GenerateTransaction(ctx, sender, payload, opts)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to generate transaction: %w", ClassifyError(err))
	}

	hash, err := a.wallet.SignAndSubmitTransaction(ctx, txn)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to submit transaction: %w", ClassifyError(err))
	}

	logger.InfoContext(ctx, "anchored artifact", "artifact_hash", req.ArtifactHash, "tx_hash", hash, "sender", sender)
	return Transaction{TxHash: hash, TokenID: tokenID(a.now()), Success: true}, nil
}

// SimulatedAnchorer fabricates a syntactically valid transaction without
// touching a wallet. Its results are always tagged Simulated.
type SimulatedAnchorer struct {
	now func() time.Time
}

// NewSimulatedAnchorer creates a simulated anchorer.
func NewSimulatedAnchorer() *SimulatedAnchorer {
	return &SimulatedAnchorer{now: time.Now}
}

// Simulated implements Anchorer.
func (a *SimulatedAnchorer) Simulated() bool { return true }

// Anchor returns a random "0x" + 64 hex character transaction hash.
func (a *SimulatedAnchorer) Anchor(ctx context.Context, req Request) (Transaction, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return Transaction{}, fmt.Errorf("failed to generate simulated hash: %w", err)
	}
	hash := "0x" + hex.EncodeToString(buf)

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "simulated anchor", "artifact_hash", req.ArtifactHash, "tx_hash", hash)
	return Transaction{TxHash: hash, TokenID: tokenID(a.now()), Success: true, Simulated: true}, nil
}
