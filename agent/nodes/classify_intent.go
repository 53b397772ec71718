package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

// ClassifyIntent resolves the intent exactly once, before any retrieval
// stage runs. Every downstream predicate keys off the result.
func ClassifyIntent(
	ctx context.Context,
	in *GraphState,
	classifier contractx.IntentClassifier,
) (*GraphState, error) {
	if in == nil || in.Handle == nil {
		return nil, fmt.Errorf("%w: provider handle is not resolved", contractx.ErrValidation)
	}

	intent, err := classifier.Classify(ctx, in.Handle, in.Text)
	if err != nil {
		return nil, err
	}

	in.Intent = intent
	log.Debug().Str("session_id", in.SessionID).Str("intent", string(intent)).Msg("classified user intent")
	return in, nil
}
