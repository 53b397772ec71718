package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	statex "github.com/mlbb-ai/coach/agent/state"
)

// LoadHistory pulls prior turns and appends the incoming user message.
// Session-store trouble never aborts a request; the turn proceeds with an
// empty history.
func LoadHistory(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	history, err := store.Load(ctx, in.SessionID)
	if err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("session load failed, continuing with empty history")
		history = nil
	}

	in.History = append(history, statex.NewUserMessage(in.Text, in.Now))
	return in, nil
}
