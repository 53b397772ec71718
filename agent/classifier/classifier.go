package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

// classifyTemperature keeps label output stable; synthesis runs hotter.
const classifyTemperature = 0.1

// Classifier maps a user query onto the closed intent set with one model
// call. Output outside the set is coerced to the default intent, not treated
// as an error.
type Classifier struct {
	gateway contractx.Gateway
	prompt  string
}

var _ contractx.IntentClassifier = (*Classifier)(nil)

func New(gateway contractx.Gateway, systemPrompt string) (*Classifier, error) {
	if gateway == nil {
		return nil, fmt.Errorf("%w: gateway is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier prompt is required", contractx.ErrValidation)
	}
	return &Classifier{gateway: gateway, prompt: systemPrompt}, nil
}

func (c *Classifier) Classify(
	ctx context.Context,
	h contractx.ProviderHandle,
	query string,
) (contractx.Intent, error) {
	messages := []*schema.Message{
		schema.SystemMessage(c.prompt),
		schema.UserMessage(query),
	}

	raw, err := c.gateway.Invoke(ctx, h, messages, classifyTemperature)
	if err != nil {
		return "", err
	}

	intent := contractx.NormalizeIntent(raw)
	if string(intent) != strings.ToLower(strings.TrimSpace(raw)) {
		// Coercion is policy, but keep the raw label diagnosable.
		log.Debug().Str("raw_label", raw).Str("intent", string(intent)).Msg("coerced unrecognized intent label")
	}
	return intent, nil
}
