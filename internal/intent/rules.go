package intent

import (
	"regexp"
	"strings"
)

// The rule-based classifier is a literal ordered list evaluated top to bottom;
// the first matching rule wins and evaluation stops. Match order is
// load-bearing: keep multi-keyword rules above the generic catch-alls.
//
// Predicates run over a lower-cased copy of the input; extractors run over the
// original text so addresses keep their case.
type rule struct {
	intent  string
	match   func(t string) bool
	extract func(text string) map[string]string
}

var (
	reWordSend  = regexp.MustCompile(`\b(send|transfer)\b`)
	reWordPay   = regexp.MustCompile(`\bpay\b`)
	reAddress   = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)
	reENS       = regexp.MustCompile(`(?i)\b[a-z0-9][a-z0-9-]*\.eth\b`)
	reEmail     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	reAmtToken  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(eth|btc|usdc|usdt|dai|sol|pol|matic|usd|eur)\b`)
	reTokenAmt  = regexp.MustCompile(`(?i)\b(eth|btc|usdc|usdt|dai|sol|pol|matic|usd|eur)\s*(\d+(?:\.\d+)?)\b`)
	reDollar    = regexp.MustCompile(`\$\s?(\d+(?:\.\d+)?)`)
	reAmount    = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	reToken     = regexp.MustCompile(`(?i)\b(eth|btc|usdc|usdt|dai|sol|pol|matic)\b`)
	reNetwork   = regexp.MustCompile(`(?i)\b(ethereum|base|polygon|arbitrum|optimism|solana)\b`)
	reConnector = regexp.MustCompile(`(?i)\b(?:for|because)\b`)
)

var rules = []rule{
	{
		intent:  CreatePaymentLink,
		match:   func(t string) bool { return strings.Contains(t, "payment link") },
		extract: extractMoney,
	},
	{
		intent:  CreateInvoice,
		match:   func(t string) bool { return strings.Contains(t, "invoice") },
		extract: extractMoney,
	},
	{
		intent: CreatePaymentLink,
		match: func(t string) bool {
			return strings.Contains(t, "link") &&
				(strings.Contains(t, "create") || strings.Contains(t, "generate") || strings.Contains(t, "make") || strings.Contains(t, "new"))
		},
		extract: extractMoney,
	},
	{
		intent:  Withdraw,
		match:   func(t string) bool { return strings.Contains(t, "withdraw") || strings.Contains(t, "cash out") },
		extract: extractMoney,
	},
	{
		intent:  Send,
		match:   func(t string) bool { return reWordSend.MatchString(t) },
		extract: extractMoney,
	},
	{
		intent: Send,
		match: func(t string) bool {
			return reWordPay.MatchString(t) && (hasRecipient(t) || reAmount.MatchString(t))
		},
		extract: extractMoney,
	},
	{
		intent: Earnings,
		match: func(t string) bool {
			return strings.Contains(t, "earning") || strings.Contains(t, "earned") ||
				strings.Contains(t, "revenue") || strings.Contains(t, "income")
		},
		extract: extractMoney,
	},
	{
		intent: Balance,
		match: func(t string) bool {
			return strings.Contains(t, "balance") ||
				(strings.Contains(t, "how much") && strings.Contains(t, "have")) ||
				strings.Contains(t, "my funds")
		},
		extract: extractMoney,
	},
	{
		intent: Deposit,
		match: func(t string) bool {
			return strings.Contains(t, "deposit") || strings.Contains(t, "top up") || strings.Contains(t, "topup") ||
				(strings.Contains(t, "receive") && strings.Contains(t, "address")) ||
				strings.Contains(t, "my address")
		},
		extract: extractMoney,
	},
	{
		intent: TransactionHistory,
		match: func(t string) bool {
			return strings.Contains(t, "history") || strings.Contains(t, "transactions") ||
				strings.Contains(t, "recent payments")
		},
		extract: extractMoney,
	},
	{
		intent: Help,
		match: func(t string) bool {
			return strings.Contains(t, "help") || strings.Contains(t, "what can you do") ||
				strings.Contains(t, "commands")
		},
	},
	{
		intent: Greeting,
		match:  isGreeting,
	},
}

// Classify runs the ordered rule list over text. The boolean is false when no
// rule matched; the params map is non-nil whenever a rule matched.
func Classify(text string) (string, map[string]string, bool) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if !r.match(lower) {
			continue
		}
		params := map[string]string{}
		if r.extract != nil {
			if p := r.extract(text); p != nil {
				params = p
			}
		}
		return r.intent, params, true
	}
	return "", nil, false
}

func hasRecipient(t string) bool {
	return reAddress.MatchString(t) || reENS.MatchString(t) || reEmail.MatchString(t)
}

// extractMoney pulls amount, token, network, recipient and description out of
// the raw text. The recipient span is cut out first so hex digits and ".eth"
// suffixes do not leak into the amount and token matches.
func extractMoney(text string) map[string]string {
	p := map[string]string{}
	work := text

	if m := reAddress.FindString(work); m != "" {
		p["recipient"] = m
		work = strings.Replace(work, m, " ", 1)
	} else if m := reENS.FindString(work); m != "" {
		p["recipient"] = m
		work = strings.Replace(work, m, " ", 1)
	} else if m := reEmail.FindString(work); m != "" {
		p["recipient"] = m
		work = strings.Replace(work, m, " ", 1)
	}

	if m := reAmtToken.FindStringSubmatch(work); m != nil {
		p["amount"] = m[1]
		p["token"] = strings.ToUpper(m[2])
		work = strings.Replace(work, m[0], " ", 1)
	} else if m := reTokenAmt.FindStringSubmatch(work); m != nil {
		p["token"] = strings.ToUpper(m[1])
		p["amount"] = m[2]
		work = strings.Replace(work, m[0], " ", 1)
	} else if m := reDollar.FindStringSubmatch(work); m != nil {
		p["amount"] = m[1]
		p["token"] = "USD"
		work = strings.Replace(work, m[0], " ", 1)
	} else if m := reAmount.FindString(work); m != "" {
		p["amount"] = m
		work = strings.Replace(work, m, " ", 1)
	}

	if _, ok := p["token"]; !ok {
		if m := reToken.FindString(work); m != "" {
			p["token"] = strings.ToUpper(m)
		}
	}
	if m := reNetwork.FindString(work); m != "" {
		p["network"] = strings.ToLower(m)
	}

	// Description: free text after the last connector word.
	if locs := reConnector.FindAllStringIndex(work, -1); len(locs) > 0 {
		desc := work[locs[len(locs)-1][1]:]
		desc = strings.Trim(strings.TrimSpace(desc), ".,!? ")
		if desc != "" {
			p["description"] = desc
		}
	}
	return p
}

func isGreeting(t string) bool {
	t = strings.Trim(strings.TrimSpace(t), "!. ")
	switch t {
	case "hi", "hello", "hey", "yo", "gm", "howdy",
		"good morning", "good afternoon", "good evening",
		"hi there", "hello there":
		return true
	}
	return false
}
