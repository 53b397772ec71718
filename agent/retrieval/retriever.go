package retrieval

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

const defaultScoreThreshold = 0.7

// SearchClient is the vector-search boundary: ranked passages for a query,
// most relevant first, length <= k.
type SearchClient interface {
	Search(ctx context.Context, query string, k int, namespace string, filter map[string]string) ([]contractx.Passage, error)
}

// RetrieverOption customizes a Retriever.
type RetrieverOption func(*Retriever)

func WithScoreThreshold(threshold float32) RetrieverOption {
	return func(r *Retriever) {
		r.scoreThreshold = threshold
	}
}

// Retriever binds a SearchClient to one knowledge namespace and renders
// retrieved passages into a context block for the synthesis prompt.
type Retriever struct {
	search         SearchClient
	namespace      string
	scoreThreshold float32
}

var _ contractx.ContextRetriever = (*Retriever)(nil)

func NewRetriever(search SearchClient, namespace string, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		search:         search,
		namespace:      namespace,
		scoreThreshold: defaultScoreThreshold,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Retriever) Namespace() string { return r.namespace }

func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]contractx.Passage, error) {
	return r.retrieve(ctx, query, k, nil)
}

func (r *Retriever) retrieve(
	ctx context.Context,
	query string,
	k int,
	filter map[string]string,
) ([]contractx.Passage, error) {
	passages, err := r.search.Search(ctx, query, k, r.namespace, filter)
	if err != nil {
		return nil, err
	}
	return r.applyThreshold(passages), nil
}

// applyThreshold drops low-confidence passages when the backend reported
// scores. Passages without a score pass through untouched.
func (r *Retriever) applyThreshold(passages []contractx.Passage) []contractx.Passage {
	kept := make([]contractx.Passage, 0, len(passages))
	for _, p := range passages {
		if p.Score > 0 && p.Score < r.scoreThreshold {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Format renders passages into a single context block: a 1-based numbered
// header, any available source metadata, then the passage text, blank-line
// separated. Output order matches input order, so identical input always
// yields byte-identical output.
func (r *Retriever) Format(passages []contractx.Passage) string {
	formatted := make([]string, 0, len(passages))
	for i, p := range passages {
		sourceInfo := make([]string, 0, 3)
		if v, ok := p.Metadata["source"]; ok {
			sourceInfo = append(sourceInfo, "Source: "+v)
		}
		if v, ok := p.Metadata["hero"]; ok {
			sourceInfo = append(sourceInfo, "Hero: "+v)
		}
		if v, ok := p.Metadata["category"]; ok {
			sourceInfo = append(sourceInfo, "Category: "+v)
		}

		header := fmt.Sprintf("\n--- Document %d ---", i+1)
		if len(sourceInfo) > 0 {
			header += "\n" + strings.Join(sourceInfo, ", ")
		}
		formatted = append(formatted, header+"\n"+p.Text+"\n")
	}
	return strings.Join(formatted, "\n")
}
