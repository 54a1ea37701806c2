// Package anchor associates a published artifact hash with an on-chain
// transaction, either through a user's wallet or a simulated stand-in.
package anchor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MintState is a step of the anchoring flow.
type MintState string

const (
	StateConnectWallet MintState = "connect_wallet"
	StatePrepare       MintState = "prepare"
	StateMinting       MintState = "minting"
	StateSuccess       MintState = "success"
)

var (
	ErrWalletNotInstalled = errors.New("wallet is not installed")
	ErrConnectionRejected = errors.New("wallet connection rejected")
	ErrUserRejected       = errors.New("transaction rejected by user")
	ErrSecurityPolicy     = errors.New("transaction blocked by wallet security policy")
	ErrInsufficientFunds  = errors.New("insufficient funds for gas")
	ErrInvalidTransition  = errors.New("invalid mint state transition")
)

// WalletIdentity is the account a wallet is connected as.
type WalletIdentity struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey,omitempty"`
}

// Transaction is the outcome of a successful anchor.
type Transaction struct {
	TxHash    string `json:"txHash"`
	TokenID   string `json:"tokenId"`
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated"`
}

// Attribute is one NFT metadata trait.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata describes the token minted for a record.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

const placeholderImage = "https://ipfs.io/ipfs/QmULKig5Fxrs2uC9VHe7xDQfgxudwcH5f2fQVu8q5fFH9p"

// NewMetadata builds token metadata for a diagnosis pinned at artifactHash.
// Explicit title and description override the generated ones.
func NewMetadata(diagnosisLabel, title, description, artifactHash string, at time.Time) Metadata {
	if title == "" {
		title = "Medical Record: " + diagnosisLabel
	}
	if description == "" {
		description = "Medical record PDF for diagnosis: " + diagnosisLabel
	}
	return Metadata{
		Name:        title,
		Description: description,
		Image:       placeholderImage,
		Attributes: []Attribute{
			{TraitType: "Record Type", Value: "Medical Diagnosis"},
			{TraitType: "Format", Value: "PDF"},
			{TraitType: "Timestamp", Value: at.UTC().Format(time.RFC3339)},
			{TraitType: "IPFS CID", Value: artifactHash},
		},
	}
}

// Request is the input to an Anchorer.
type Request struct {
	ArtifactHash string
	ArtifactURL  string
	Metadata     Metadata
	// Sender is the account to submit from. Empty means the wallet's
	// connected account.
	Sender string
}

// ClassifyError maps a wallet error message onto the package sentinels so
// callers can branch with errors.Is. Unrecognised errors are returned as-is.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrWalletNotInstalled, ErrConnectionRejected, ErrUserRejected, ErrSecurityPolicy, ErrInsufficientFunds} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "security", "malicious", "blocked", "flagged", "untrusted"):
		return fmt.Errorf("%w: %v", ErrSecurityPolicy, err)
	case containsAny(msg, "insufficient", "gas fee", "balance"):
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	case containsAny(msg, "user rejected", "rejected"):
		return fmt.Errorf("%w: %v", ErrUserRejected, err)
	}
	return err
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Networks recognised for explorer links and balance lookups.
const (
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
)

// ExplorerURL returns the explorer page for a transaction. Unknown networks
// are treated as devnet.
func ExplorerURL(network, txHash string) string {
	base := "https://explorer.aptoslabs.com/txn/" + txHash
	switch strings.ToLower(network) {
	case NetworkMainnet:
		return base
	case NetworkTestnet:
		return base + "?network=testnet"
	}
	return base + "?network=devnet"
}
