package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	nodex "github.com/mlbb-ai/coach/agent/nodes"
)

func (c *Coach) compileCoachingGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, c.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_provider",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ResolveProvider(ctx, in, c.gateway)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_provider: %w", err)
	}

	if err := graph.AddLambdaNode("load_history",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadHistory(ctx, in, c.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_history: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIntent(ctx, in, c.classifier)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("retrieve_hero_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RetrieveHeroContext(ctx, in, c.retrievers.Hero)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node retrieve_hero_context: %w", err)
	}

	if err := graph.AddLambdaNode("retrieve_build_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RetrieveBuildContext(ctx, in, c.retrievers.Build)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node retrieve_build_context: %w", err)
	}

	if err := graph.AddLambdaNode("retrieve_strategy_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RetrieveStrategyContext(ctx, in, c.retrievers.Strategy)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node retrieve_strategy_context: %w", err)
	}

	if err := graph.AddLambdaNode("generate_response",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.GenerateResponse(ctx, in, c.gateway, c.prompts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node generate_response: %w", err)
	}

	if err := graph.AddLambdaNode("save_history",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.SaveHistory(ctx, in, c.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node save_history: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			out, err := nodex.Finalize(ctx, in)
			if err != nil {
				return nodex.GraphOutput{}, err
			}
			return *out, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	// general_chat answers from the model directly; every other intent goes
	// through the retrieval chain first.
	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			if in.Intent == contractx.IntentGeneralChat {
				return "generate_response", nil
			}
			return "retrieve_hero_context", nil
		},
		map[string]bool{
			"generate_response":     true,
			"retrieve_hero_context": true,
		},
	)

	if err := graph.AddBranch("classify_intent", branch); err != nil {
		return nil, fmt.Errorf("add retrieval branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "resolve_provider"},
		{"resolve_provider", "load_history"},
		{"load_history", "classify_intent"},
		{"retrieve_hero_context", "retrieve_build_context"},
		{"retrieve_build_context", "retrieve_strategy_context"},
		{"retrieve_strategy_context", "generate_response"},
		{"generate_response", "save_history"},
		{"save_history", "finalize"},
		{"finalize", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("coach.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile coaching graph: %w", err)
	}
	return runner, nil
}
