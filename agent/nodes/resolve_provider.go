package nodes

import (
	"context"
	"fmt"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

// ResolveProvider runs before any retrieval work so configuration problems
// surface without wasted calls.
func ResolveProvider(
	ctx context.Context,
	in *GraphState,
	gateway contractx.Gateway,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	handle, err := gateway.Resolve(ctx, in.Provider)
	if err != nil {
		return nil, err
	}
	in.Handle = handle
	return in, nil
}
