package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	nodex "github.com/mlbb-ai/coach/agent/nodes"
	promptx "github.com/mlbb-ai/coach/agent/prompt"
	statex "github.com/mlbb-ai/coach/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Retrievers groups the per-namespace retrievers the pipeline fans out to.
type Retrievers struct {
	Hero     contractx.ContextRetriever
	Build    contractx.ContextRetriever
	Strategy contractx.ContextRetriever
}

type Coach struct {
	store      statex.Store
	gateway    contractx.Gateway
	classifier contractx.IntentClassifier
	retrievers Retrievers
	prompts    *promptx.PromptSet

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	store statex.Store,
	gateway contractx.Gateway,
	classifier contractx.IntentClassifier,
	retrievers Retrievers,
	prompts *promptx.PromptSet,
) (*Coach, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if gateway == nil {
		return nil, errors.New("provider gateway is required")
	}
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	if retrievers.Hero == nil || retrievers.Build == nil || retrievers.Strategy == nil {
		return nil, errors.New("all three context retrievers are required")
	}
	if prompts == nil {
		ps := promptx.LoadPromptSet()
		prompts = &ps
	}

	c := &Coach{
		store:      store,
		gateway:    gateway,
		classifier: classifier,
		retrievers: retrievers,
		prompts:    prompts,
		now:        time.Now,
	}

	graphRunner, err := c.compileCoachingGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// HandleMessage runs one full coaching turn. provider and language may be
// empty; they fall back to the configured default provider and English.
func (c *Coach) HandleMessage(
	ctx context.Context,
	sessionID string,
	text string,
	provider string,
	language string,
) (contractx.CoachResult, error) {
	out, err := c.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
		Provider:  provider,
		Language:  language,
	})
	if err != nil {
		return contractx.CoachResult{}, err
	}
	return contractx.CoachResult{
		Response: out.Response,
		Intent:   out.Intent,
		Sources:  out.Sources,
	}, nil
}

// ClearSession drops all stored history for the session.
func (c *Coach) ClearSession(ctx context.Context, sessionID string) error {
	return c.store.Delete(ctx, sessionID)
}

// Providers reports the provider names the gateway can currently serve.
func (c *Coach) Providers() []string {
	return c.gateway.ListAvailable()
}
