package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	promptx "github.com/mlbb-ai/coach/agent/prompt"
	statex "github.com/mlbb-ai/coach/agent/state"
)

const synthesisTemperature = 0.7

const responseGuidelines = `

Important guidelines:
- Be concise but thorough
- Use bullet points for lists
- Mention specific hero names, items, and game mechanics
- If context is insufficient, use your general MLBB knowledge
- For Marksman (MM) role, be especially detailed
- Always be encouraging and constructive`

const burmeseDirective = "\n- IMPORTANT: You MUST respond entirely in Burmese (Myanmar language). Use Burmese script for all text. Hero names, item names, and game terms can remain in English."

// GenerateResponse assembles the synthesis prompt from whichever context
// slots the retrieval stages filled and invokes the model. The assistant
// turn is appended to the history so SaveHistory persists the full exchange.
func GenerateResponse(
	ctx context.Context,
	in *GraphState,
	gateway contractx.Gateway,
	prompts *promptx.PromptSet,
) (*GraphState, error) {
	if in == nil || in.Handle == nil {
		return nil, fmt.Errorf("%w: provider handle is not resolved", contractx.ErrValidation)
	}

	system := buildSystemPrompt(in, prompts)

	response, err := gateway.Invoke(ctx, in.Handle, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(in.Text),
	}, synthesisTemperature)
	if err != nil {
		return nil, err
	}

	in.Response = response
	in.History = append(in.History, statex.NewAssistantMessage(response, in.Now))
	return in, nil
}

func buildSystemPrompt(in *GraphState, prompts *promptx.PromptSet) string {
	contextParts := make([]string, 0, 3)
	if in.HeroContext != "" {
		contextParts = append(contextParts, "Hero Information:\n"+in.HeroContext)
	}
	if in.BuildContext != "" {
		contextParts = append(contextParts, "Build Information:\n"+in.BuildContext)
	}
	if in.StrategyContext != "" {
		contextParts = append(contextParts, "Strategy Information:\n"+in.StrategyContext)
	}

	contextBlock := "No specific context available."
	if len(contextParts) > 0 {
		contextBlock = strings.Join(contextParts, "\n\n")
	}

	var b strings.Builder
	b.WriteString(prompts.SynthesisFor(in.Intent))
	b.WriteString("\n\nUse the following context to inform your response:\n\n")
	b.WriteString(contextBlock)
	b.WriteString(responseGuidelines)
	if in.Language == "my" {
		b.WriteString(burmeseDirective)
	}
	return b.String()
}
