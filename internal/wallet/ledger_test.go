package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCreditAndBalances(t *testing.T) {
	l := NewLedger()
	l.Credit("u1", "ETH", 1.5)
	l.Credit("u1", "USDC", 200)

	balances, err := l.Balances(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ETH": "1.5", "USDC": "200"}, balances)
}

func TestLedgerTransferDebitsAndRecords(t *testing.T) {
	l := NewLedger()
	l.Credit("u1", "ETH", 2)

	tr, err := l.Transfer(context.Background(), "u1", "ETH", "0.5", "vitalik.eth")
	require.NoError(t, err)
	assert.Equal(t, "0.5", tr.Amount)
	assert.Equal(t, "vitalik.eth", tr.Recipient)
	assert.NotEmpty(t, tr.ID)

	balances, _ := l.Balances(context.Background(), "u1")
	assert.Equal(t, "1.5", balances["ETH"])

	history, err := l.History(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "in", history[0].Direction)
	assert.Equal(t, "out", history[1].Direction)
}

func TestLedgerTransferInsufficient(t *testing.T) {
	l := NewLedger()
	_, err := l.Transfer(context.Background(), "u1", "ETH", "1", "vitalik.eth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient")
}

func TestLedgerTransferInvalidAmount(t *testing.T) {
	l := NewLedger()
	l.Credit("u1", "ETH", 1)
	for _, amount := range []string{"", "abc", "-1", "0"} {
		_, err := l.Transfer(context.Background(), "u1", "ETH", amount, "vitalik.eth")
		assert.Error(t, err, "amount %q", amount)
	}
}

func TestLedgerDepositAddressStable(t *testing.T) {
	l := NewLedger()
	a1, err := l.DepositAddress(context.Background(), "u1", "base")
	require.NoError(t, err)
	a2, err := l.DepositAddress(context.Background(), "u1", "base")
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	other, err := l.DepositAddress(context.Background(), "u2", "base")
	require.NoError(t, err)
	assert.NotEqual(t, a1, other)

	assert.Len(t, a1, 42)
	assert.Equal(t, "0x", a1[:2])
}

func TestLedgerHistoryLimit(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 5; i++ {
		l.Credit("u1", "ETH", 1)
	}
	history, err := l.History(context.Background(), "u1", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
