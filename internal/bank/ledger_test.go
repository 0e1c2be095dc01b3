package bank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Mint("alice", 100)

	require.NoError(t, l.Transfer("alice", "bob", 60))
	assert.Equal(t, uint64(40), l.BalanceOf("alice"))
	assert.Equal(t, uint64(60), l.BalanceOf("bob"))
}

func TestTransferInsufficientFundsIsNoOp(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Mint("alice", 10)

	err := l.Transfer("alice", "bob", 11)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, uint64(10), l.BalanceOf("alice"))
	assert.Equal(t, uint64(0), l.BalanceOf("bob"))
}

func TestGuardRejectsInboundTransfer(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Mint("alice", 100)
	l.SetGuard("vault", func(from string, amount uint64) error {
		return errors.New("no direct transfers")
	})

	err := l.Transfer("alice", "vault", 50)
	assert.ErrorIs(t, err, ErrTransferRefused)
	assert.Equal(t, uint64(100), l.BalanceOf("alice"))

	// Removing the guard opens the account again.
	l.SetGuard("vault", nil)
	require.NoError(t, l.Transfer("alice", "vault", 50))
	assert.Equal(t, uint64(50), l.BalanceOf("vault"))
}
