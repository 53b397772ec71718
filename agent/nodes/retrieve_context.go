package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

// The three retrieval stages share one shape: run iff the intent predicate
// holds, otherwise leave the slot unset. A retrieval failure also leaves the
// slot unset and lets the request continue; missing context is not fatal.

func RetrieveHeroContext(
	ctx context.Context,
	in *GraphState,
	retriever contractx.ContextRetriever,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Intent == contractx.IntentHeroInfo || in.Intent == contractx.IntentMatchupAnalysis {
		in.HeroContext = retrieveBlock(ctx, in, retriever, "hero", HeroTopK)
	}
	return in, nil
}

func RetrieveBuildContext(
	ctx context.Context,
	in *GraphState,
	retriever contractx.ContextRetriever,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Intent == contractx.IntentBuildRecommendation {
		in.BuildContext = retrieveBlock(ctx, in, retriever, "build", BuildTopK)
	}
	return in, nil
}

func RetrieveStrategyContext(
	ctx context.Context,
	in *GraphState,
	retriever contractx.ContextRetriever,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Intent == contractx.IntentGeneralStrategy || in.Intent == contractx.IntentMatchupAnalysis {
		in.StrategyContext = retrieveBlock(ctx, in, retriever, "strategy", StrategyTopK)
	}
	return in, nil
}

func retrieveBlock(
	ctx context.Context,
	in *GraphState,
	retriever contractx.ContextRetriever,
	kind string,
	k int,
) string {
	passages, err := retriever.Retrieve(ctx, in.Text, k)
	if err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Str("context", kind).Msg("context retrieval failed, continuing without it")
		return ""
	}
	if len(passages) == 0 {
		log.Debug().Str("session_id", in.SessionID).Str("context", kind).Msg("no passages above threshold")
		return ""
	}
	return retriever.Format(passages)
}
