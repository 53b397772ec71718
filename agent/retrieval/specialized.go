package retrieval

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

// Knowledge namespaces in the vector store.
const (
	NamespaceHeroes     = "heroes"
	NamespaceBuilds     = "builds"
	NamespaceStrategies = "strategies"
)

// HeroRetriever serves hero ability/role queries from the heroes namespace.
type HeroRetriever struct {
	*Retriever
}

func NewHeroRetriever(search SearchClient, opts ...RetrieverOption) *HeroRetriever {
	return &HeroRetriever{Retriever: NewRetriever(search, NamespaceHeroes, opts...)}
}

// RetrieveHeroInfo narrows the search to one hero by metadata filter.
func (r *HeroRetriever) RetrieveHeroInfo(ctx context.Context, heroName string, k int) ([]contractx.Passage, error) {
	return r.retrieve(ctx, heroName, k, map[string]string{"hero": heroName})
}

// MatchupQuery synthesizes the search query for a hero-vs-hero matchup.
func MatchupQuery(hero1, hero2 string) string {
	return fmt.Sprintf("%s vs %s matchup counter strategy", hero1, hero2)
}

// RetrieveMatchupInfo searches matchup knowledge for two heroes.
func (r *HeroRetriever) RetrieveMatchupInfo(ctx context.Context, hero1, hero2 string, k int) ([]contractx.Passage, error) {
	return r.retrieve(ctx, MatchupQuery(hero1, hero2), k, nil)
}

// BuildRetriever serves item/emblem build queries from the builds namespace.
type BuildRetriever struct {
	*Retriever
}

func NewBuildRetriever(search SearchClient, opts ...RetrieverOption) *BuildRetriever {
	return &BuildRetriever{Retriever: NewRetriever(search, NamespaceBuilds, opts...)}
}

// RetrieveBuildInfo searches builds for a hero, optionally narrowed to a
// game situation ("ahead", "behind", ...).
func (r *BuildRetriever) RetrieveBuildInfo(ctx context.Context, heroName, situation string, k int) ([]contractx.Passage, error) {
	query := heroName + " build"
	if s := strings.TrimSpace(situation); s != "" {
		query += " " + s
	}

	var filter map[string]string
	if strings.TrimSpace(heroName) != "" {
		filter = map[string]string{"hero": heroName}
	}
	return r.retrieve(ctx, query, k, filter)
}

// StrategyRetriever serves gameplay/macro queries from the strategies namespace.
type StrategyRetriever struct {
	*Retriever
}

func NewStrategyRetriever(search SearchClient, opts ...RetrieverOption) *StrategyRetriever {
	return &StrategyRetriever{Retriever: NewRetriever(search, NamespaceStrategies, opts...)}
}

// RetrieveStrategyInfo searches strategies for a topic, optionally filtered
// by role.
func (r *StrategyRetriever) RetrieveStrategyInfo(ctx context.Context, topic, role string, k int) ([]contractx.Passage, error) {
	var filter map[string]string
	if strings.TrimSpace(role) != "" {
		filter = map[string]string{"role": role}
	}
	return r.retrieve(ctx, topic, k, filter)
}
