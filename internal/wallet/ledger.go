package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is an in-memory Service used in default wiring and tests. Balances
// are decimal strings keyed by token symbol.
type Ledger struct {
	mu        sync.Mutex
	balances  map[string]map[string]float64
	earnings  map[string]map[string]float64
	transfers map[string][]Transfer
}

func NewLedger() *Ledger {
	return &Ledger{
		balances:  make(map[string]map[string]float64),
		earnings:  make(map[string]map[string]float64),
		transfers: make(map[string][]Transfer),
	}
}

// Credit funds a user's balance, recording it as an incoming transfer.
func (l *Ledger) Credit(userID, token string, amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balances[userID] == nil {
		l.balances[userID] = make(map[string]float64)
	}
	if l.earnings[userID] == nil {
		l.earnings[userID] = make(map[string]float64)
	}
	l.balances[userID][token] += amount
	l.earnings[userID][token] += amount
	l.transfers[userID] = append(l.transfers[userID], Transfer{
		ID:        uuid.NewString(),
		Token:     token,
		Amount:    formatAmount(amount),
		Direction: "in",
		CreatedAt: time.Now().UTC(),
	})
}

func (l *Ledger) Balances(_ context.Context, userID string) (map[string]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.balances[userID]))
	for token, amt := range l.balances[userID] {
		out[token] = formatAmount(amt)
	}
	return out, nil
}

func (l *Ledger) Earnings(_ context.Context, userID string) (map[string]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.earnings[userID]))
	for token, amt := range l.earnings[userID] {
		out[token] = formatAmount(amt)
	}
	return out, nil
}

// DepositAddress derives a stable per-user address; the same user and network
// always map to the same address.
func (l *Ledger) DepositAddress(_ context.Context, userID, network string) (string, error) {
	if network == "" {
		network = "ethereum"
	}
	sum := sha256.Sum256([]byte(network + ":" + userID))
	return "0x" + hex.EncodeToString(sum[:20]), nil
}

func (l *Ledger) Transfer(_ context.Context, userID, token, amount, recipient string) (Transfer, error) {
	amt, err := strconv.ParseFloat(amount, 64)
	if err != nil || amt <= 0 {
		return Transfer{}, fmt.Errorf("invalid amount %q", amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	have := l.balances[userID][token]
	if have < amt {
		return Transfer{}, fmt.Errorf("insufficient %s balance: have %s, need %s", token, formatAmount(have), amount)
	}
	l.balances[userID][token] = have - amt

	tr := Transfer{
		ID:        uuid.NewString(),
		Token:     token,
		Amount:    formatAmount(amt),
		Recipient: recipient,
		Direction: "out",
		CreatedAt: time.Now().UTC(),
	}
	l.transfers[userID] = append(l.transfers[userID], tr)
	return tr, nil
}

func (l *Ledger) History(_ context.Context, userID string, limit int) ([]Transfer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	trs := l.transfers[userID]
	if limit > 0 && len(trs) > limit {
		trs = trs[len(trs)-limit:]
	}
	out := make([]Transfer, len(trs))
	copy(out, trs)
	return out, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
