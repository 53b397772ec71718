package retrieval

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

type searchCall struct {
	query     string
	k         int
	namespace string
	filter    map[string]string
}

type fakeSearch struct {
	passages []contractx.Passage
	err      error
	calls    []searchCall
}

func (f *fakeSearch) Search(ctx context.Context, query string, k int, namespace string, filter map[string]string) ([]contractx.Passage, error) {
	f.calls = append(f.calls, searchCall{query: query, k: k, namespace: namespace, filter: filter})
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

func TestRetrievePassesNamespaceAndK(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{passages: []contractx.Passage{{Text: "Fanny excels with cable control.", Score: 0.9}}}
	r := NewRetriever(search, NamespaceHeroes)

	passages, err := r.Retrieve(context.Background(), "how does Fanny work", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("expected one passage, got %d", len(passages))
	}
	if len(search.calls) != 1 {
		t.Fatalf("expected one search, got %d", len(search.calls))
	}
	call := search.calls[0]
	if call.namespace != NamespaceHeroes || call.k != 3 || call.query != "how does Fanny work" {
		t.Fatalf("unexpected search call: %+v", call)
	}
}

func TestRetrievePropagatesSearchError(t *testing.T) {
	t.Parallel()

	searchErr := errors.New("backend down")
	r := NewRetriever(&fakeSearch{err: searchErr}, NamespaceBuilds)

	_, err := r.Retrieve(context.Background(), "karrie build", 3)
	if !errors.Is(err, searchErr) {
		t.Fatalf("expected search error, got %v", err)
	}
}

func TestScoreThresholdFiltersOnlyScoredPassages(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{passages: []contractx.Passage{
		{Text: "high", Score: 0.95},
		{Text: "low", Score: 0.42},
		{Text: "unscored", Score: 0},
		{Text: "borderline", Score: 0.7},
	}}
	r := NewRetriever(search, NamespaceStrategies)

	passages, err := r.Retrieve(context.Background(), "team fight tips", 5)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(passages) != 3 {
		t.Fatalf("expected 3 passages after threshold, got %d: %+v", len(passages), passages)
	}
	for _, p := range passages {
		if p.Text == "low" {
			t.Fatalf("below-threshold passage must be dropped")
		}
	}
}

func TestCustomScoreThreshold(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{passages: []contractx.Passage{
		{Text: "a", Score: 0.5},
		{Text: "b", Score: 0.3},
	}}
	r := NewRetriever(search, NamespaceHeroes, WithScoreThreshold(0.4))

	passages, err := r.Retrieve(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(passages) != 1 || passages[0].Text != "a" {
		t.Fatalf("expected only passage a, got %+v", passages)
	}
}

func TestFormatRendersHeadersAndMetadata(t *testing.T) {
	t.Parallel()

	r := NewRetriever(&fakeSearch{}, NamespaceHeroes)
	passages := []contractx.Passage{
		{
			Text: "Fanny flies with cables.",
			Metadata: map[string]string{
				"source":   "hero-guide",
				"hero":     "Fanny",
				"category": "mechanics",
			},
		},
		{Text: "Energy management is key."},
	}

	want := "\n--- Document 1 ---\n" +
		"Source: hero-guide, Hero: Fanny, Category: mechanics\n" +
		"Fanny flies with cables.\n" +
		"\n" +
		"\n--- Document 2 ---\n" +
		"Energy management is key.\n"

	got := r.Format(passages)
	if got != want {
		t.Fatalf("unexpected format:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	t.Parallel()

	r := NewRetriever(&fakeSearch{}, NamespaceHeroes)
	passages := []contractx.Passage{
		{Text: "one", Metadata: map[string]string{"hero": "Chou", "source": "s", "category": "c"}},
		{Text: "two"},
	}

	first := r.Format(passages)
	for i := 0; i < 50; i++ {
		if got := r.Format(passages); got != first {
			t.Fatalf("format output changed between runs at iteration %d", i)
		}
	}
}

func TestHeroRetrieverFiltersByHero(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{}
	r := NewHeroRetriever(search)

	if _, err := r.RetrieveHeroInfo(context.Background(), "Fanny", 3); err != nil {
		t.Fatalf("RetrieveHeroInfo() error = %v", err)
	}
	call := search.calls[0]
	if call.namespace != NamespaceHeroes {
		t.Fatalf("unexpected namespace: %s", call.namespace)
	}
	if call.filter["hero"] != "Fanny" {
		t.Fatalf("expected hero filter, got %v", call.filter)
	}
}

func TestMatchupQueryShape(t *testing.T) {
	t.Parallel()

	got := MatchupQuery("Chou", "Ling")
	if got != "Chou vs Ling matchup counter strategy" {
		t.Fatalf("unexpected matchup query: %q", got)
	}
}

func TestBuildRetrieverQueryAndFilter(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{}
	r := NewBuildRetriever(search)

	if _, err := r.RetrieveBuildInfo(context.Background(), "Karrie", "behind", 3); err != nil {
		t.Fatalf("RetrieveBuildInfo() error = %v", err)
	}
	call := search.calls[0]
	if call.query != "Karrie build behind" {
		t.Fatalf("unexpected query: %q", call.query)
	}
	if call.namespace != NamespaceBuilds || call.filter["hero"] != "Karrie" {
		t.Fatalf("unexpected call: %+v", call)
	}

	if _, err := r.RetrieveBuildInfo(context.Background(), "Karrie", "", 3); err != nil {
		t.Fatalf("RetrieveBuildInfo() error = %v", err)
	}
	if got := search.calls[1].query; got != "Karrie build" {
		t.Fatalf("unexpected query without situation: %q", got)
	}
}

func TestStrategyRetrieverRoleFilter(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{}
	r := NewStrategyRetriever(search)

	if _, err := r.RetrieveStrategyInfo(context.Background(), "split push timing", "Marksman", 5); err != nil {
		t.Fatalf("RetrieveStrategyInfo() error = %v", err)
	}
	call := search.calls[0]
	if call.namespace != NamespaceStrategies || call.filter["role"] != "Marksman" {
		t.Fatalf("unexpected call: %+v", call)
	}

	if _, err := r.RetrieveStrategyInfo(context.Background(), "farming", "", 5); err != nil {
		t.Fatalf("RetrieveStrategyInfo() error = %v", err)
	}
	if search.calls[1].filter != nil {
		t.Fatalf("expected nil filter without role, got %v", search.calls[1].filter)
	}
}
