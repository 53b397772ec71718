package nodes

import (
	"context"
	"fmt"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

// Finalize projects the terminal state into the caller-facing result.
// Only context slots that were actually filled appear in Sources.
func Finalize(ctx context.Context, in *GraphState) (*GraphOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sources := make(map[string]string)
	if in.HeroContext != "" {
		sources[contractx.SourceHeroContext] = in.HeroContext
	}
	if in.BuildContext != "" {
		sources[contractx.SourceBuildContext] = in.BuildContext
	}
	if in.StrategyContext != "" {
		sources[contractx.SourceStrategyContext] = in.StrategyContext
	}

	return &GraphOutput{
		Response: in.Response,
		Intent:   in.Intent,
		Sources:  sources,
	}, nil
}
