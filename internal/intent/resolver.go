package intent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"walletchat/internal/session"
)

// updater is implemented by stores that can make the read-modify-write window
// atomic per user (session.Serialized). The resolver uses it when available;
// otherwise session updates stay last-write-wins.
type updater interface {
	Update(ctx context.Context, userID string, fn func(session.Session) ([]session.Turn, time.Time, error)) error
}

// Resolver orchestrates the two classification paths under the precedence
// policy and owns the session writeback.
//
// Conversational mode uses only the LLM path: a successful JSON parse wins
// outright and the rule classifier is never consulted; any failure resolves to
// clarification with the fixed apology. Deterministic mode uses only the rule
// classifier: no match resolves to unknown. The two paths are deliberately
// independent — there is no LLM-to-rules fallback.
type Resolver struct {
	store      session.Store
	classifier *Classifier
	natural    bool
	maxTurns   int
	log        *zap.Logger
}

func NewResolver(store session.Store, classifier *Classifier, natural bool, maxTurns int, log *zap.Logger) *Resolver {
	if maxTurns <= 0 {
		maxTurns = 8
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		store:      store,
		classifier: classifier,
		natural:    natural,
		maxTurns:   maxTurns,
		log:        log,
	}
}

// Resolve classifies message for userID and records both the message and the
// classification as conversation turns. It always returns a Result with a
// non-empty intent and non-nil params; failed classifications still become
// conversational context.
func (r *Resolver) Resolve(ctx context.Context, userID, message string) Result {
	sess, err := r.store.Get(ctx, userID)
	if err != nil {
		// get never fails upward: classify against an empty session.
		r.log.Warn("session read failed", zap.String("user", userID), zap.Error(err))
		sess = session.Session{UserID: userID}
	}

	var res Result
	if r.natural && r.classifier != nil {
		out := r.classifier.Classify(ctx, sess.Turns, message)
		if out.Source == SourceJSON {
			res = NewResult(out.Intent, out.Params)
		} else {
			res = NewResult(Clarification, map[string]string{"message": Apology})
		}
	} else {
		if in, params, ok := Classify(message); ok {
			res = NewResult(in, params)
		} else {
			res = NewResult(Unknown, nil)
		}
	}

	r.writeback(ctx, sess, message, res)
	return res
}

func (r *Resolver) writeback(ctx context.Context, sess session.Session, message string, res Result) {
	now := time.Now().UTC()
	userTurn := session.Turn{Role: session.RoleUser, Content: message}
	asstTurn := session.Turn{Role: session.RoleAssistant, Content: res.Render()}

	if u, ok := r.store.(updater); ok {
		err := u.Update(ctx, sess.UserID, func(cur session.Session) ([]session.Turn, time.Time, error) {
			turns := append(cur.Turns, userTurn, asstTurn)
			return session.Trim(turns, r.maxTurns), now, nil
		})
		if err != nil {
			r.log.Warn("session write failed", zap.String("user", sess.UserID), zap.Error(err))
		}
		return
	}

	turns := session.Trim(append(sess.Turns, userTurn, asstTurn), r.maxTurns)
	if err := r.store.Put(ctx, sess.UserID, turns, now); err != nil {
		r.log.Warn("session write failed", zap.String("user", sess.UserID), zap.Error(err))
	}
}
