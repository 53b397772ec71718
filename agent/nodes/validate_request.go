package nodes

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	statex "github.com/mlbb-ai/coach/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

// Retrieval fan-out sizes, fixed per context kind.
const (
	HeroTopK     = 3
	BuildTopK    = 3
	StrategyTopK = 5
)

type GraphInput struct {
	SessionID string
	Text      string
	Provider  string
	Language  string
}

type GraphOutput struct {
	Response string
	Intent   contractx.Intent
	Sources  map[string]string
}

// GraphState carries one request through the pipeline. Each node is an
// explicit transition taking the current state and returning the next; no
// stage may depend on fields a later stage sets.
type GraphState struct {
	SessionID string
	Text      string
	Provider  string
	Language  string
	Now       time.Time

	Handle  contractx.ProviderHandle
	History []statex.Message
	Intent  contractx.Intent

	HeroContext     string
	BuildContext    string
	StrategyContext string

	Response string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Provider:  strings.TrimSpace(in.Provider),
		Language:  strings.TrimSpace(in.Language),
		Now:       nowFn().UTC(),
	}, nil
}
