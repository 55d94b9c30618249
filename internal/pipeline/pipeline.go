package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"walletchat/internal/action"
	"walletchat/internal/intent"
	"walletchat/internal/storage"
	"walletchat/internal/synth"
)

// Pipeline is the synchronous per-message flow: resolve the intent, dispatch
// the action, then optionally synthesize a conversational reply. Every path
// terminates in a well-formed action.Result; Handle never fails.
type Pipeline struct {
	resolver    *intent.Resolver
	registry    *action.Registry
	synthesizer *synth.Synthesizer
	recorder    storage.Recorder
	log         *zap.Logger
}

// New wires a pipeline. synthesizer and recorder may be nil: without a
// synthesizer the dispatcher result goes out as-is, and without a recorder
// interactions are simply not logged.
func New(resolver *intent.Resolver, registry *action.Registry, synthesizer *synth.Synthesizer, recorder storage.Recorder, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		resolver:    resolver,
		registry:    registry,
		synthesizer: synthesizer,
		recorder:    recorder,
		log:         log,
	}
}

func (p *Pipeline) Handle(ctx context.Context, userID, text string) action.Result {
	start := time.Now()

	res := p.resolver.Resolve(ctx, userID, text)
	p.log.Debug("intent resolved",
		zap.String("user", userID),
		zap.String("intent", res.Intent),
		zap.Int("params", len(res.Params)))

	ar := p.registry.Dispatch(ctx, res.Intent, res.Params, userID)

	out := ar
	if p.synthesizer != nil {
		out = p.synthesizer.Synthesize(ctx, synth.Context{
			Message: text,
			Intent:  res.Intent,
			Params:  res.Params,
			Result:  ar,
		})
	}

	if p.recorder != nil {
		ev := storage.Event{
			Timestamp:         time.Now().UTC(),
			UserID:            userID,
			UserMessage:       text,
			Intent:            res.Intent,
			AssistantResponse: out.Text,
			DurationMS:        time.Since(start).Milliseconds(),
		}
		if err := p.recorder.AppendInteraction(ev); err != nil {
			p.log.Warn("failed to record interaction", zap.Error(err))
		}
	}
	return out
}
