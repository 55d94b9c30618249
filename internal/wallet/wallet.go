package wallet

import (
	"context"
	"time"
)

// Transfer is one completed movement of funds.
type Transfer struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Amount    string    `json:"amount"`
	Recipient string    `json:"recipient"`
	Direction string    `json:"direction"` // "in" or "out"
	CreatedAt time.Time `json:"created_at"`
}

// Service is the narrow wallet collaborator the action handlers consume.
// Real payment-provider and chain integrations implement this elsewhere;
// the pipeline core never sees past it.
type Service interface {
	Balances(ctx context.Context, userID string) (map[string]string, error)
	Earnings(ctx context.Context, userID string) (map[string]string, error)
	DepositAddress(ctx context.Context, userID, network string) (string, error)
	Transfer(ctx context.Context, userID, token, amount, recipient string) (Transfer, error)
	History(ctx context.Context, userID string, limit int) ([]Transfer, error)
}
