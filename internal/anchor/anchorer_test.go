package anchor_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"medguard-ai/internal/anchor"
	"medguard-ai/internal/anchor/mocks"
)

func TestSimulatedAnchorer(t *testing.T) {
	a := anchor.NewSimulatedAnchorer()
	assert.True(t, a.Simulated())

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		txn, err := a.Anchor(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Regexp(t, txHashPattern, txn.TxHash)
		assert.Regexp(t, tokenIDPattern, txn.TokenID)
		assert.True(t, txn.Success)
		assert.True(t, txn.Simulated)
		assert.False(t, seen[txn.TxHash], "duplicate simulated hash")
		seen[txn.TxHash] = true
	}
}

func TestChainAnchorer_ResolvesSenderFromWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	wallet := mocks.NewMockWallet(ctrl)
	wallet.EXPECT().Account(gomock.Any()).Return(anchor.WalletIdentity{Address: "0xacct"}, nil)
	wallet.EXPECT().GenerateTransaction(gomock.Any(), "0xacct", gomock.Any(), gomock.Any()).Return(json.RawMessage(`{}`), nil)
	wallet.EXPECT().SignAndSubmitTransaction(gomock.Any(), gomock.Any()).Return("0xhash", nil)

	a := anchor.NewChainAnchorer(wallet)
	assert.False(t, a.Simulated())

	txn, err := a.Anchor(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "0xhash", txn.TxHash)
	assert.False(t, txn.Simulated)
}

func TestChainAnchorer_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name    string
		walletE error
		want    error
	}{
		{name: "user rejected", walletE: errors.New("User rejected the request"), want: anchor.ErrUserRejected},
		{name: "insufficient", walletE: errors.New("Insufficient balance"), want: anchor.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			wallet := mocks.NewMockWallet(ctrl)
			wallet.EXPECT().GenerateTransaction(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(json.RawMessage(`{}`), nil)
			wallet.EXPECT().SignAndSubmitTransaction(gomock.Any(), gomock.Any()).Return("", tt.walletE)

			req := testRequest()
			req.Sender = "0xs"
			_, err := anchor.NewChainAnchorer(wallet).Anchor(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
