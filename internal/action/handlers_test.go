package action

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletchat/internal/intent"
	"walletchat/internal/wallet"
)

type fakeNotifier struct {
	recipients []string
	err        error
}

func (f *fakeNotifier) Send(_ context.Context, recipient, _, _ string) error {
	f.recipients = append(f.recipients, recipient)
	return f.err
}

func newTestRegistry(t *testing.T) (*Registry, *wallet.Ledger, *fakeNotifier) {
	t.Helper()
	reg := NewRegistry(nil)
	ledger := wallet.NewLedger()
	notifier := &fakeNotifier{}
	RegisterBuiltin(reg, ledger, notifier, nil)
	return reg, ledger, notifier
}

func TestBalanceHandler(t *testing.T) {
	reg, ledger, _ := newTestRegistry(t)
	ledger.Credit("u1", "ETH", 1.5)

	res := reg.Dispatch(context.Background(), intent.Balance, nil, "u1")
	assert.Contains(t, res.Text, "1.5 ETH")
	assert.NotNil(t, res.Data)
}

func TestBalanceHandlerEmpty(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	res := reg.Dispatch(context.Background(), intent.Balance, nil, "u1")
	assert.Contains(t, res.Text, "empty")
	assert.Nil(t, res.Data)
}

func TestSendHandlerAsksForMissingParams(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	res := reg.Dispatch(context.Background(), intent.Send, map[string]string{"amount": "1"}, "u1")
	assert.Contains(t, res.Text, "the token")
	assert.Contains(t, res.Text, "the recipient")
	assert.NotContains(t, res.Text, "the amount")
}

func TestSendHandlerTransfers(t *testing.T) {
	reg, ledger, _ := newTestRegistry(t)
	ledger.Credit("u1", "ETH", 2)

	params := map[string]string{
		"amount":    "0.5",
		"token":     "ETH",
		"recipient": "0x1234567890123456789012345678901234567890",
	}
	res := reg.Dispatch(context.Background(), intent.Send, params, "u1")
	assert.Contains(t, res.Text, "Sent 0.5 ETH to 0x1234567890123456789012345678901234567890")

	balances, err := ledger.Balances(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "1.5", balances["ETH"])
}

func TestSendHandlerInsufficientFundsIsUserFacing(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	params := map[string]string{"amount": "5", "token": "ETH", "recipient": "vitalik.eth"}
	res := reg.Dispatch(context.Background(), intent.Send, params, "u1")
	assert.Contains(t, res.Text, "couldn't send")
	assert.Contains(t, res.Text, "insufficient")
}

func TestPaymentLinkHandlerCarriesMarkup(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	res := reg.Dispatch(context.Background(), intent.CreatePaymentLink,
		map[string]string{"amount": "50", "token": "USDC"}, "u1")

	assert.Contains(t, res.Text, "50 USDC")
	assert.Contains(t, res.Text, paymentLinkBase)

	markup, ok := res.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)

	link, ok := res.Data.(PaymentLink)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(link.URL, paymentLinkBase))
	assert.NotEmpty(t, link.ID)
}

func TestInvoiceHandlerEmailsRecipient(t *testing.T) {
	reg, _, notifier := newTestRegistry(t)
	params := map[string]string{"amount": "200", "token": "USDC", "recipient": "alice@example.com"}
	res := reg.Dispatch(context.Background(), intent.CreateInvoice, params, "u1")

	assert.Contains(t, res.Text, "200 USDC")
	assert.Contains(t, res.Text, "alice@example.com")
	assert.Equal(t, []string{"alice@example.com"}, notifier.recipients)
}

func TestInvoiceHandlerSurvivesNotifierFailure(t *testing.T) {
	reg := NewRegistry(nil)
	notifier := &fakeNotifier{err: context.DeadlineExceeded}
	RegisterBuiltin(reg, wallet.NewLedger(), notifier, nil)

	params := map[string]string{"recipient": "bob@example.com"}
	res := reg.Dispatch(context.Background(), intent.CreateInvoice, params, "u1")
	assert.Contains(t, res.Text, "Invoice")
	assert.NotContains(t, res.Text, "Sent to")
}

func TestDepositHandlerIsStable(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	a := reg.Dispatch(context.Background(), intent.Deposit, map[string]string{"network": "base"}, "u1")
	b := reg.Dispatch(context.Background(), intent.Deposit, map[string]string{"network": "base"}, "u1")
	assert.Equal(t, a.Text, b.Text)
	assert.Contains(t, a.Text, "0x")
}

func TestClarificationHandlerUsesParamMessage(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	res := reg.Dispatch(context.Background(), intent.Clarification,
		map[string]string{"message": "Which token did you mean?"}, "u1")
	assert.Equal(t, "Which token did you mean?", res.Text)

	res = reg.Dispatch(context.Background(), intent.Clarification, nil, "u1")
	assert.Equal(t, intent.Apology, res.Text)
}
