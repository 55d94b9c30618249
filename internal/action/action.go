package action

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Result is what an action handler returns to the user. ReplyMarkup and Data
// are opaque to the pipeline: it passes them through without introspection.
type Result struct {
	Text        string `json:"text"`
	ReplyMarkup any    `json:"reply_markup,omitempty"`
	Data        any    `json:"data,omitempty"`
}

// Handler performs the action behind one intent. Handlers may have arbitrary
// side effects but must return a well-formed Result; errors are converted to
// a user-safe message at the dispatch boundary.
type Handler func(ctx context.Context, params map[string]string, userID string) (Result, error)

const (
	defaultUnknownText = "I didn't understand that. Say \"help\" to see what I can do."
	safeErrorText      = "Something went wrong on my side. Please try again in a moment."
)

// Registry maps intent names to handlers. It is populated at startup and
// read-only afterwards; Dispatch never writes.
type Registry struct {
	handlers map[string]Handler
	fallback Handler
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		handlers: make(map[string]Handler),
		log:      log,
	}
	r.fallback = func(context.Context, map[string]string, string) (Result, error) {
		return Result{Text: defaultUnknownText}, nil
	}
	return r
}

// Register binds intent to h. Not safe for use after Dispatch traffic starts.
func (r *Registry) Register(intent string, h Handler) {
	r.handlers[intent] = h
}

// Intents returns the registered intent names.
func (r *Registry) Intents() []string {
	out := make([]string, 0, len(r.handlers))
	for in := range r.handlers {
		out = append(out, in)
	}
	return out
}

// Dispatch invokes the handler for intent. Unknown intents get the default
// handler; handler errors and panics are logged and replaced with a generic
// message — internal error text never reaches the user.
func (r *Registry) Dispatch(ctx context.Context, intent string, params map[string]string, userID string) Result {
	h, ok := r.handlers[intent]
	if !ok {
		h = r.fallback
	}
	if params == nil {
		params = map[string]string{}
	}

	res, err := r.invoke(ctx, h, params, userID)
	if err != nil {
		r.log.Error("action handler failed",
			zap.String("intent", intent),
			zap.String("user", userID),
			zap.Error(err))
		return Result{Text: safeErrorText}
	}
	return res
}

func (r *Registry) invoke(ctx context.Context, h Handler, params map[string]string, userID string) (res Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panic: %v", p)
		}
	}()
	return h(ctx, params, userID)
}
