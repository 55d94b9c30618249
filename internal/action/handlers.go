package action

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"walletchat/internal/intent"
	"walletchat/internal/notify"
	"walletchat/internal/wallet"
)

const paymentLinkBase = "https://pay.walletchat.app/l/"

// PaymentLink is the structured payload attached to a create_payment_link
// result.
type PaymentLink struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Amount string `json:"amount,omitempty"`
	Token  string `json:"token,omitempty"`
	Memo   string `json:"memo,omitempty"`
}

// Invoice is the structured payload attached to a create_invoice result.
type Invoice struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Amount    string `json:"amount,omitempty"`
	Token     string `json:"token,omitempty"`
	Recipient string `json:"recipient,omitempty"`
	Memo      string `json:"memo,omitempty"`
}

// RegisterBuiltin populates reg with the payments handler surface. notifier
// may be nil; invoice emails are then skipped.
func RegisterBuiltin(reg *Registry, w wallet.Service, notifier notify.Notifier, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	reg.Register(intent.Balance, balanceHandler(w))
	reg.Register(intent.Earnings, earningsHandler(w))
	reg.Register(intent.Deposit, depositHandler(w))
	reg.Register(intent.Send, sendHandler(w))
	reg.Register(intent.Withdraw, sendHandler(w))
	reg.Register(intent.TransactionHistory, historyHandler(w))
	reg.Register(intent.CreatePaymentLink, paymentLinkHandler())
	reg.Register(intent.CreateInvoice, invoiceHandler(notifier, log))
	reg.Register(intent.Help, helpHandler())
	reg.Register(intent.Greeting, greetingHandler())
	reg.Register(intent.Clarification, clarificationHandler())
}

func balanceHandler(w wallet.Service) Handler {
	return func(ctx context.Context, _ map[string]string, userID string) (Result, error) {
		balances, err := w.Balances(ctx, userID)
		if err != nil {
			return Result{}, fmt.Errorf("load balances: %w", err)
		}
		if len(balances) == 0 {
			return Result{Text: "Your balance is empty. Say \"deposit\" to get your deposit address."}, nil
		}
		return Result{Text: "Your balance:\n" + renderAmounts(balances), Data: balances}, nil
	}
}

func earningsHandler(w wallet.Service) Handler {
	return func(ctx context.Context, _ map[string]string, userID string) (Result, error) {
		earnings, err := w.Earnings(ctx, userID)
		if err != nil {
			return Result{}, fmt.Errorf("load earnings: %w", err)
		}
		if len(earnings) == 0 {
			return Result{Text: "No earnings recorded yet."}, nil
		}
		return Result{Text: "Your earnings so far:\n" + renderAmounts(earnings), Data: earnings}, nil
	}
}

func depositHandler(w wallet.Service) Handler {
	return func(ctx context.Context, params map[string]string, userID string) (Result, error) {
		network := params["network"]
		addr, err := w.DepositAddress(ctx, userID, network)
		if err != nil {
			return Result{}, fmt.Errorf("derive deposit address: %w", err)
		}
		if network == "" {
			network = "ethereum"
		}
		text := fmt.Sprintf("Your %s deposit address:\n%s\n\nOnly send assets on the %s network to this address.", network, addr, network)
		return Result{Text: text, Data: map[string]string{"address": addr, "network": network}}, nil
	}
}

func sendHandler(w wallet.Service) Handler {
	return func(ctx context.Context, params map[string]string, userID string) (Result, error) {
		var missing []string
		if params["amount"] == "" {
			missing = append(missing, "the amount")
		}
		if params["token"] == "" {
			missing = append(missing, "the token")
		}
		if params["recipient"] == "" {
			missing = append(missing, "the recipient (address, ENS name or email)")
		}
		if len(missing) > 0 {
			return Result{Text: "To send funds I still need " + strings.Join(missing, ", ") + "."}, nil
		}

		tr, err := w.Transfer(ctx, userID, params["token"], params["amount"], params["recipient"])
		if err != nil {
			// Not an internal fault: tell the user what the wallet rejected.
			return Result{Text: fmt.Sprintf("I couldn't send that: %v", err)}, nil
		}
		text := fmt.Sprintf("Sent %s %s to %s.\nTransfer id: %s", tr.Amount, tr.Token, tr.Recipient, tr.ID)
		return Result{Text: text, Data: tr}, nil
	}
}

func historyHandler(w wallet.Service) Handler {
	return func(ctx context.Context, _ map[string]string, userID string) (Result, error) {
		trs, err := w.History(ctx, userID, 10)
		if err != nil {
			return Result{}, fmt.Errorf("load history: %w", err)
		}
		if len(trs) == 0 {
			return Result{Text: "No transactions yet."}, nil
		}
		var b strings.Builder
		b.WriteString("Your recent transactions:\n")
		for _, tr := range trs {
			if tr.Direction == "in" {
				fmt.Fprintf(&b, "+ %s %s received (%s)\n", tr.Amount, tr.Token, tr.CreatedAt.Format("2006-01-02"))
			} else {
				fmt.Fprintf(&b, "- %s %s to %s (%s)\n", tr.Amount, tr.Token, tr.Recipient, tr.CreatedAt.Format("2006-01-02"))
			}
		}
		return Result{Text: strings.TrimRight(b.String(), "\n"), Data: trs}, nil
	}
}

func paymentLinkHandler() Handler {
	return func(_ context.Context, params map[string]string, _ string) (Result, error) {
		link := PaymentLink{
			ID:     uuid.NewString(),
			Amount: params["amount"],
			Token:  params["token"],
			Memo:   params["description"],
		}
		link.URL = paymentLinkBase + link.ID

		text := "Here is your payment link:\n" + link.URL
		if link.Amount != "" && link.Token != "" {
			text = fmt.Sprintf("Here is your payment link for %s %s:\n%s", link.Amount, link.Token, link.URL)
		}
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Open payment link", link.URL),
			),
		)
		return Result{Text: text, ReplyMarkup: kb, Data: link}, nil
	}
}

func invoiceHandler(notifier notify.Notifier, log *zap.Logger) Handler {
	return func(ctx context.Context, params map[string]string, userID string) (Result, error) {
		inv := Invoice{
			ID:        uuid.NewString(),
			Amount:    params["amount"],
			Token:     params["token"],
			Recipient: params["recipient"],
			Memo:      params["description"],
		}
		inv.URL = paymentLinkBase + "inv/" + inv.ID

		text := fmt.Sprintf("Invoice %s created.\n%s", inv.ID, inv.URL)
		if inv.Amount != "" && inv.Token != "" {
			text = fmt.Sprintf("Invoice %s for %s %s created.\n%s", inv.ID, inv.Amount, inv.Token, inv.URL)
		}

		// Delivery failure is handler-local: the invoice still exists.
		if notifier != nil && strings.Contains(inv.Recipient, "@") {
			subject := "You have received an invoice"
			body := fmt.Sprintf("Pay invoice %s here: %s", inv.ID, inv.URL)
			if err := notifier.Send(ctx, inv.Recipient, subject, body); err != nil {
				log.Warn("invoice email failed", zap.String("user", userID), zap.Error(err))
			} else {
				text += "\nSent to " + inv.Recipient + "."
			}
		}
		return Result{Text: text, Data: inv}, nil
	}
}

func helpHandler() Handler {
	return func(context.Context, map[string]string, string) (Result, error) {
		return Result{Text: `I can help you with payments. Try:
- "payment link for 50 USDC"
- "invoice alice@example.com 200 USDC for the retainer"
- "send 0.01 ETH to 0x..."
- "what's my balance" / "my earnings"
- "deposit" for your deposit address
- "transaction history"`}, nil
	}
}

func greetingHandler() Handler {
	return func(context.Context, map[string]string, string) (Result, error) {
		return Result{Text: "Hey! I can create payment links and invoices, send funds, and show your balance. What would you like to do?"}, nil
	}
}

func clarificationHandler() Handler {
	return func(_ context.Context, params map[string]string, _ string) (Result, error) {
		msg := params["message"]
		if msg == "" {
			msg = intent.Apology
		}
		return Result{Text: msg}, nil
	}
}

func renderAmounts(amounts map[string]string) string {
	tokens := make([]string, 0, len(amounts))
	for t := range amounts {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	var b strings.Builder
	for _, t := range tokens {
		fmt.Fprintf(&b, "%s %s\n", amounts[t], t)
	}
	return strings.TrimRight(b.String(), "\n")
}
