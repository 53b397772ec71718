package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ProviderHandle is a resolved, callable language-model backend. Handles are
// opaque to the pipeline; only the Gateway knows how to invoke them.
type ProviderHandle interface {
	Name() string
}

// Gateway resolves logical provider identifiers to callable handles and
// performs model invocations. Implementations must be safe for concurrent use.
type Gateway interface {
	// Resolve maps an identifier to a handle. An empty identifier selects the
	// configured default. Unknown or unavailable identifiers fail with
	// ErrProviderUnavailable (or ErrNoProvider when nothing is configured).
	Resolve(ctx context.Context, identifier string) (ProviderHandle, error)
	// ListAvailable reports identifiers whose credentials pass the
	// availability heuristic.
	ListAvailable() []string
	// Invoke runs one completion at the given temperature and returns the
	// response collapsed to plain text, regardless of how the provider
	// structured its content.
	Invoke(ctx context.Context, h ProviderHandle, messages []*schema.Message, temperature float32) (string, error)
}

// IntentClassifier maps a user query onto the closed intent set.
type IntentClassifier interface {
	Classify(ctx context.Context, h ProviderHandle, query string) (Intent, error)
}

// ContextRetriever is the capability shared by the hero, build and strategy
// retrievers: ranked passages for a query, plus deterministic formatting.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Passage, error)
	Format(passages []Passage) string
}
