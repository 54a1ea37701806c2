package anchor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Transition records one state change of a Minter.
type Transition struct {
	From MintState
	To   MintState
	At   time.Time
	Err  error
}

// Minter drives the connect, prepare, mint, confirm flow for one record.
//
// Allowed transitions are ConnectWallet -> Prepare -> Minting -> Success,
// with Minting -> Prepare on failure. A simulated anchorer needs no wallet;
// from ConnectWallet it passes through Prepare without a session.
type Minter struct {
	mu       sync.Mutex
	wallet   Wallet
	now      func() time.Time
	state    MintState
	identity *WalletIdentity
	lastErr  error
	offered  bool
	history  []Transition
}

// NewMinter creates a Minter. It starts in Prepare when session carries an
// identity or the wallet already has an approved session, otherwise in
// ConnectWallet.
func NewMinter(ctx context.Context, wallet Wallet, session *WalletIdentity) *Minter {
	m := &Minter{wallet: wallet, now: time.Now, state: StateConnectWallet}

	switch {
	case session != nil && session.Address != "":
		id := *session
		m.identity = &id
		m.state = StatePrepare
	case wallet.Installed(ctx):
		if connected, err := wallet.IsConnected(ctx); err == nil && connected {
			if id, err := wallet.Account(ctx); err == nil {
				m.identity = &id
				m.state = StatePrepare
			}
		}
	}
	return m
}

// State returns the current state.
func (m *Minter) State() MintState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity returns the connected wallet identity, if any.
func (m *Minter) Identity() (WalletIdentity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return WalletIdentity{}, false
	}
	return *m.identity, true
}

// LastError returns the error annotated on the most recent failed mint.
func (m *Minter) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// SimulationOffered reports whether the last real submission was rejected
// in a way that makes the simulated path the suggested fallback.
func (m *Minter) SimulationOffered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offered
}

// Transitions returns a copy of the state history.
func (m *Minter) Transitions() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Transition(nil), m.history...)
}

// CheckWalletAvailable probes the wallet. It does not fail.
func (m *Minter) CheckWalletAvailable(ctx context.Context) bool {
	return m.wallet.Installed(ctx)
}

// Connect requests a wallet session and moves ConnectWallet -> Prepare.
// Connecting again from Prepare returns the existing identity.
func (m *Minter) Connect(ctx context.Context) (WalletIdentity, error) {
	if !m.wallet.Installed(ctx) {
		return WalletIdentity{}, ErrWalletNotInstalled
	}

	m.mu.Lock()
	state := m.state
	if state == StatePrepare && m.identity != nil {
		id := *m.identity
		m.mu.Unlock()
		return id, nil
	}
	m.mu.Unlock()
	if state != StateConnectWallet {
		return WalletIdentity{}, fmt.Errorf("%w: connect from %s", ErrInvalidTransition, state)
	}

	id, err := m.wallet.Connect(ctx)
	if err != nil {
		if errors.Is(err, ErrWalletNotInstalled) || errors.Is(err, ErrConnectionRejected) {
			return WalletIdentity{}, err
		}
		if errors.Is(ClassifyError(err), ErrUserRejected) {
			return WalletIdentity{}, fmt.Errorf("%w: %v", ErrConnectionRejected, err)
		}
		return WalletIdentity{}, fmt.Errorf("failed to connect wallet: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = &id
	m.transition(StatePrepare, nil)
	return id, nil
}

// PrepareAndSubmit moves to Minting and anchors req with anchorer. On
// success it ends in Success; on failure it returns to Prepare with the
// error annotated.
//
// With a real anchorer and no installed wallet it fails with
// ErrWalletNotInstalled before any transition.
func (m *Minter) PrepareAndSubmit(ctx context.Context, anchorer Anchorer, req Request) (Transaction, error) {
	if !anchorer.Simulated() && !m.wallet.Installed(ctx) {
		return Transaction{}, ErrWalletNotInstalled
	}

	m.mu.Lock()
	from := m.state
	allowed := from == StatePrepare || (from == StateConnectWallet && anchorer.Simulated())
	if !allowed {
		m.mu.Unlock()
		return Transaction{}, fmt.Errorf("%w: mint from %s", ErrInvalidTransition, from)
	}
	if req.Sender == "" && m.identity != nil {
		req.Sender = m.identity.Address
	}
	m.lastErr = nil
	m.offered = false
	if from == StateConnectWallet {
		m.transition(StatePrepare, nil)
	}
	m.transition(StateMinting, nil)
	m.mu.Unlock()

	txn, err := anchorer.Anchor(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.lastErr = err
		m.offered = !anchorer.Simulated() && (errors.Is(err, ErrSecurityPolicy) || errors.Is(err, ErrUserRejected))
		m.transition(StatePrepare, err)
		return Transaction{}, err
	}

	m.transition(StateSuccess, nil)
	return txn, nil
}

// transition must be called with mu held.
func (m *Minter) transition(to MintState, err error) {
	m.history = append(m.history, Transition{From: m.state, To: to, At: m.now(), Err: err})
	m.state = to
}
