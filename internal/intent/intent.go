package intent

import "encoding/json"

// Canonical intent labels. Rules and the LLM prompt share this vocabulary;
// Clarification and Unknown are terminal labels produced only by the resolver.
const (
	CreatePaymentLink  = "create_payment_link"
	CreateInvoice      = "create_invoice"
	Send               = "send"
	Withdraw           = "withdraw"
	Balance            = "balance"
	Earnings           = "earnings"
	Deposit            = "deposit"
	TransactionHistory = "transaction_history"
	Help               = "help"
	Greeting           = "greeting"
	Clarification      = "clarification"
	Unknown            = "unknown"
)

// Result is the canonical classification outcome. Intent is always non-empty
// and Params is always non-nil, including on failure paths.
type Result struct {
	Intent string            `json:"intent"`
	Params map[string]string `json:"params"`
}

func NewResult(intent string, params map[string]string) Result {
	if params == nil {
		params = map[string]string{}
	}
	return Result{Intent: intent, Params: params}
}

// Render produces the textual representation stored as the assistant turn:
// the canonical JSON form, so a well-formed echo of it re-parses to the same
// intent and params.
func (r Result) Render() string {
	b, err := json.Marshal(r)
	if err != nil {
		return `{"intent":"` + r.Intent + `","params":{}}`
	}
	return string(b)
}

// Source tags how a classification attempt produced its outcome.
type Source int

const (
	// SourceJSON: the LLM returned a parseable JSON object with an intent.
	SourceJSON Source = iota
	// SourceHeuristic: the rule-based classifier matched.
	SourceHeuristic
	// SourceParseFailure: no usable intent could be extracted.
	SourceParseFailure
)

// Outcome is the internal result of one classification attempt.
type Outcome struct {
	Source  Source
	Intent  string
	Params  map[string]string
	RawText string
}
