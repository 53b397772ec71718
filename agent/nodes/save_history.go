package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	statex "github.com/mlbb-ai/coach/agent/state"
)

// SaveHistory persists the exchange. A store failure is logged and swallowed;
// the user still gets the response that was already generated.
func SaveHistory(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if err := store.Save(ctx, in.SessionID, in.History); err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("session save failed, response still returned")
	}
	return in, nil
}
