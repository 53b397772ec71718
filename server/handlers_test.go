package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handledRequest struct {
	sessionID string
	text      string
	provider  string
	language  string
}

type fakeCoach struct {
	result    contractx.CoachResult
	err       error
	providers []string
	requests  []handledRequest
	cleared   []string
}

func (f *fakeCoach) HandleMessage(ctx context.Context, sessionID, text, provider, language string) (contractx.CoachResult, error) {
	f.requests = append(f.requests, handledRequest{sessionID: sessionID, text: text, provider: provider, language: language})
	if f.err != nil {
		return contractx.CoachResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeCoach) ClearSession(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

func (f *fakeCoach) Providers() []string {
	return f.providers
}

type fakeLanguages struct {
	language string
	err      error
}

func (f *fakeLanguages) GetLanguage(ctx context.Context, playerID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.language, nil
}

func postChat(t *testing.T, srv *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) chatResponse {
	t.Helper()
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

func TestChatGeneratesSessionID(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{result: contractx.CoachResult{Response: "hi", Intent: contractx.IntentGeneralChat}}
	srv := New(Config{}, coach)

	rec := postChat(t, srv, map[string]any{"message": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeChat(t, rec)
	if resp.SessionID == "" {
		t.Fatalf("expected generated session id")
	}
	if len(coach.requests) != 1 || coach.requests[0].sessionID != resp.SessionID {
		t.Fatalf("session id mismatch: %+v vs %s", coach.requests, resp.SessionID)
	}
}

func TestChatEchoesProvidedSessionID(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{result: contractx.CoachResult{Response: "hi", Intent: contractx.IntentGeneralChat}}
	srv := New(Config{}, coach)

	rec := postChat(t, srv, map[string]any{"message": "hello", "session_id": "abc-123"})
	resp := decodeChat(t, rec)
	if resp.SessionID != "abc-123" {
		t.Fatalf("expected echoed session id, got %q", resp.SessionID)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	t.Parallel()

	srv := New(Config{}, &fakeCoach{})
	rec := postChat(t, srv, map[string]any{"session_id": "s1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", rec.Code)
	}
}

func TestChatErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no provider", contractx.ErrNoProvider, http.StatusServiceUnavailable},
		{"provider unavailable", contractx.ErrProviderUnavailable, http.StatusBadRequest},
		{"authentication", contractx.ErrAuthentication, http.StatusUnauthorized},
		{"model invoke", contractx.ErrModelInvoke, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := New(Config{}, &fakeCoach{err: tc.err})
			rec := postChat(t, srv, map[string]any{"message": "hello"})
			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestChatSourcePreviewTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 450)
	coach := &fakeCoach{result: contractx.CoachResult{
		Response: "ok",
		Intent:   contractx.IntentHeroInfo,
		Sources: map[string]string{
			contractx.SourceHeroContext:     long,
			contractx.SourceStrategyContext: "short",
		},
	}}
	srv := New(Config{}, coach)

	resp := decodeChat(t, postChat(t, srv, map[string]any{"message": "tell me about Chou"}))
	hero := resp.Sources[contractx.SourceHeroContext]
	if len(hero) != sourcePreviewLimit+3 || !strings.HasSuffix(hero, "...") {
		t.Fatalf("expected truncated preview, got len=%d", len(hero))
	}
	if resp.Sources[contractx.SourceStrategyContext] != "short" {
		t.Fatalf("short source must pass through untouched")
	}
}

func TestChatSuggestionsTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		intent contractx.Intent
		want   []string
	}{
		{contractx.IntentHeroInfo, []string{"What items should I build?", "How do I play this matchup?"}},
		{contractx.IntentBuildRecommendation, []string{"When should I build defensively?", "Best emblem?"}},
		{contractx.IntentMatchupAnalysis, []string{"How do I position in team fights?", "Counter items?"}},
		{contractx.IntentGeneralStrategy, []string{"How do I farm efficiently?", "Team fight tips?"}},
		{contractx.IntentGeneralChat, []string{"Tell me about a hero", "Recommend a build"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.intent), func(t *testing.T) {
			t.Parallel()
			coach := &fakeCoach{result: contractx.CoachResult{Response: "ok", Intent: tc.intent}}
			srv := New(Config{}, coach)

			resp := decodeChat(t, postChat(t, srv, map[string]any{"message": "hello"}))
			if !reflect.DeepEqual(resp.Suggestions, tc.want) {
				t.Fatalf("suggestions for %s = %v, want %v", tc.intent, resp.Suggestions, tc.want)
			}
		})
	}
}

func TestChatResolvesPlayerLanguage(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{result: contractx.CoachResult{Response: "ok", Intent: contractx.IntentGeneralChat}}
	srv := New(Config{}, coach, WithLanguageResolver(&fakeLanguages{language: "my"}))

	postChat(t, srv, map[string]any{"message": "hello", "player_id": "p1"})
	if len(coach.requests) != 1 || coach.requests[0].language != "my" {
		t.Fatalf("expected language my, got %+v", coach.requests)
	}

	// Lookup failure falls back to no language preference.
	coach2 := &fakeCoach{result: contractx.CoachResult{Response: "ok", Intent: contractx.IntentGeneralChat}}
	srv2 := New(Config{}, coach2, WithLanguageResolver(&fakeLanguages{err: errors.New("db down")}))
	postChat(t, srv2, map[string]any{"message": "hello", "player_id": "p1"})
	if coach2.requests[0].language != "" {
		t.Fatalf("expected empty language on lookup failure, got %q", coach2.requests[0].language)
	}
}

func TestProvidersEndpoint(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{providers: []string{"claude", "gemini"}}
	srv := New(Config{}, coach, WithDefaultProvider("claude"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body struct {
		Providers []string `json:"providers"`
		Default   string   `json:"default"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(body.Providers, []string{"claude", "gemini"}) || body.Default != "claude" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestClearSessionEndpoint(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{}
	srv := New(Config{}, coach)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/chat/s1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if len(coach.cleared) != 1 || coach.cleared[0] != "s1" {
		t.Fatalf("expected s1 cleared, got %v", coach.cleared)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	coach := &fakeCoach{providers: []string{"claude"}}
	srv := New(Config{Version: "1.2.3"}, coach)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body struct {
		Status   string          `json:"status"`
		Version  string          `json:"version"`
		Services map[string]bool `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Version != "1.2.3" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if !body.Services["providers"] {
		t.Fatalf("expected providers available: %+v", body.Services)
	}
}

func TestHeroesEndpointWithoutMeta(t *testing.T) {
	t.Parallel()

	srv := New(Config{}, &fakeCoach{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/heroes", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 without hero meta, got %d", rec.Code)
	}
}
