package prompt

import (
	_ "embed"
	"strings"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/hero_info.txt
	heroInfoRaw string

	//go:embed template/build_recommendation.txt
	buildRecommendationRaw string

	//go:embed template/matchup_analysis.txt
	matchupAnalysisRaw string

	//go:embed template/general_strategy.txt
	generalStrategyRaw string

	//go:embed template/general_chat.txt
	generalChatRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Classifier string
	synthesis  map[contractx.Intent]string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classifier: strings.TrimSpace(classifierRaw),
		synthesis: map[contractx.Intent]string{
			contractx.IntentHeroInfo:            strings.TrimSpace(heroInfoRaw),
			contractx.IntentBuildRecommendation: strings.TrimSpace(buildRecommendationRaw),
			contractx.IntentMatchupAnalysis:     strings.TrimSpace(matchupAnalysisRaw),
			contractx.IntentGeneralStrategy:     strings.TrimSpace(generalStrategyRaw),
			contractx.IntentGeneralChat:         strings.TrimSpace(generalChatRaw),
		},
	}
}

// SynthesisFor returns the system instruction for an intent, falling back to
// the general-strategy instruction for anything unmapped.
func (p PromptSet) SynthesisFor(intent contractx.Intent) string {
	if s, ok := p.synthesis[intent]; ok {
		return s
	}
	return p.synthesis[contractx.IntentGeneralStrategy]
}
