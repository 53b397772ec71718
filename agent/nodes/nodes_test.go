package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	promptx "github.com/mlbb-ai/coach/agent/prompt"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.FixedZone("UTC+7", 7*3600))
}

func TestValidateRequestTrimsAndStampsUTC(t *testing.T) {
	t.Parallel()

	state, err := ValidateRequest(GraphInput{
		SessionID: "  s1  ",
		Text:      "  tell me about Chou  ",
		Provider:  " claude ",
		Language:  " my ",
	}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if state.SessionID != "s1" || state.Text != "tell me about Chou" {
		t.Fatalf("fields not trimmed: %+v", state)
	}
	if state.Provider != "claude" || state.Language != "my" {
		t.Fatalf("optional fields not trimmed: %+v", state)
	}
	if state.Now.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", state.Now.Location())
	}
}

func TestValidateRequestRejectsBlankInput(t *testing.T) {
	t.Parallel()

	if _, err := ValidateRequest(GraphInput{SessionID: " ", Text: "hi"}, fixedNow); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := ValidateRequest(GraphInput{SessionID: "s1", Text: "\n\t"}, fixedNow); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestFinalizeOmitsEmptySlots(t *testing.T) {
	t.Parallel()

	out, err := Finalize(context.Background(), &GraphState{
		Response:        "answer",
		Intent:          contractx.IntentMatchupAnalysis,
		HeroContext:     "hero block",
		StrategyContext: "strategy block",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if out.Response != "answer" || out.Intent != contractx.IntentMatchupAnalysis {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(out.Sources) != 2 {
		t.Fatalf("expected two source slots, got %v", out.Sources)
	}
	if _, ok := out.Sources[contractx.SourceBuildContext]; ok {
		t.Fatalf("empty build slot must be omitted: %v", out.Sources)
	}
}

func TestBuildSystemPromptContextOrdering(t *testing.T) {
	t.Parallel()

	prompts := promptx.LoadPromptSet()
	state := &GraphState{
		Intent:          contractx.IntentMatchupAnalysis,
		HeroContext:     "HERO-BLOCK",
		BuildContext:    "BUILD-BLOCK",
		StrategyContext: "STRATEGY-BLOCK",
	}

	system := buildSystemPrompt(state, &prompts)
	hero := strings.Index(system, "Hero Information:\nHERO-BLOCK")
	build := strings.Index(system, "Build Information:\nBUILD-BLOCK")
	strategy := strings.Index(system, "Strategy Information:\nSTRATEGY-BLOCK")
	if hero < 0 || build < 0 || strategy < 0 {
		t.Fatalf("missing context sections:\n%s", system)
	}
	if !(hero < build && build < strategy) {
		t.Fatalf("context sections out of order: hero=%d build=%d strategy=%d", hero, build, strategy)
	}
	if !strings.Contains(system, "Important guidelines:") {
		t.Fatalf("guidelines block missing")
	}
}

func TestBuildSystemPromptNoContextFallback(t *testing.T) {
	t.Parallel()

	prompts := promptx.LoadPromptSet()
	system := buildSystemPrompt(&GraphState{Intent: contractx.IntentGeneralChat}, &prompts)
	if !strings.Contains(system, "No specific context available.") {
		t.Fatalf("expected no-context fallback:\n%s", system)
	}
}

func TestBuildSystemPromptLanguageDirective(t *testing.T) {
	t.Parallel()

	prompts := promptx.LoadPromptSet()

	burmese := buildSystemPrompt(&GraphState{Intent: contractx.IntentGeneralChat, Language: "my"}, &prompts)
	if !strings.Contains(burmese, "Burmese script for all text") {
		t.Fatalf("expected Burmese directive")
	}

	english := buildSystemPrompt(&GraphState{Intent: contractx.IntentGeneralChat, Language: "en"}, &prompts)
	if strings.Contains(english, "Burmese") {
		t.Fatalf("Burmese directive must be absent for en")
	}
}
