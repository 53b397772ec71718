package contract

import "strings"

// Intent is the closed-set classification of a user query. It decides which
// context sources the pipeline consults before synthesis.
type Intent string

const (
	IntentHeroInfo            Intent = "hero_info"
	IntentBuildRecommendation Intent = "build_recommendation"
	IntentMatchupAnalysis     Intent = "matchup_analysis"
	IntentGeneralStrategy     Intent = "general_strategy"
	IntentGeneralChat         Intent = "general_chat"
)

// DefaultIntent is the coercion target for any classifier output outside the
// valid set. Unknown labels are a policy decision, not an error.
const DefaultIntent = IntentGeneralStrategy

func (i Intent) Valid() bool {
	switch i {
	case IntentHeroInfo, IntentBuildRecommendation, IntentMatchupAnalysis,
		IntentGeneralStrategy, IntentGeneralChat:
		return true
	}
	return false
}

// NormalizeIntent maps a raw classifier label onto the closed intent set.
// It is idempotent: normalizing an already-valid intent returns it unchanged.
func NormalizeIntent(raw string) Intent {
	intent := Intent(strings.ToLower(strings.TrimSpace(raw)))
	if !intent.Valid() {
		return DefaultIntent
	}
	return intent
}

// Passage is a single retrieved unit of supporting text plus its source
// metadata (may include hero name, category). Never mutated after retrieval.
type Passage struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	// Score is the backend similarity score when available; zero means the
	// backend did not report one.
	Score float32 `json:"score,omitempty"`
}

// Context-slot keys used in CoachResult.Sources. Unset slots are omitted.
const (
	SourceHeroContext     = "hero_context"
	SourceBuildContext    = "build_context"
	SourceStrategyContext = "strategy_context"
)

// CoachResult is the structured outcome of one pipeline run.
type CoachResult struct {
	Response string            `json:"response"`
	Intent   Intent            `json:"intent"`
	Sources  map[string]string `json:"sources,omitempty"`
}
