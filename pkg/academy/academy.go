// Package academy talks to the Moonton GMS data API for live hero meta:
// rank-tier win/pick/ban rates, counter matchups, and teammate synergies.
package academy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.gms.moontontech.com"

// Source paths under the GMS data API, keyed by dataset.
var sources = map[string]string{
	"hero_rank_1d":     "/api/gms/source/2669606/2756567",
	"hero_rank_3d":     "/api/gms/source/2669606/2756568",
	"hero_rank_7d":     "/api/gms/source/2669606/2756569",
	"hero_rank_15d":    "/api/gms/source/2669606/2756565",
	"hero_rank_30d":    "/api/gms/source/2669606/2756570",
	"hero_position":    "/api/gms/source/2669606/2756564",
	"hero_skill_combo": "/api/gms/source/2669606/2674711",
	"hero_rate_7d":     "/api/gms/source/2669606/2674709",
	"hero_rate_15d":    "/api/gms/source/2669606/2687909",
	"hero_rate_30d":    "/api/gms/source/2669606/2690860",
}

var rankValues = map[string]string{
	"all":    "101",
	"epic":   "5",
	"legend": "6",
	"mythic": "7",
	"honor":  "8",
	"glory":  "9",
}

var daysSources = map[int]string{
	1:  "hero_rank_1d",
	3:  "hero_rank_3d",
	7:  "hero_rank_7d",
	15: "hero_rank_15d",
	30: "hero_rank_30d",
}

var sortFields = map[string]string{
	"pick_rate": "main_hero_appearance_rate",
	"ban_rate":  "main_hero_ban_rate",
	"win_rate":  "main_hero_win_rate",
}

type Config struct {
	BaseURL  string        `split_words:"true" default:"https://api.gms.moontontech.com"`
	Timeout  time.Duration `split_words:"true" default:"15s"`
	CacheTTL time.Duration `split_words:"true" default:"1h"`
}

// HeroRanking is one row of the rank-tier leaderboard. Rates are
// percentages rounded to two decimals.
type HeroRanking struct {
	HeroID   int     `json:"hero_id"`
	Name     string  `json:"name"`
	WinRate  float64 `json:"win_rate"`
	PickRate float64 `json:"pick_rate"`
	BanRate  float64 `json:"ban_rate"`
	Icon     string  `json:"icon,omitempty"`
}

// HeroRelation is a counter or synergy row relative to a main hero.
type HeroRelation struct {
	HeroID          int     `json:"hero_id"`
	Name            string  `json:"name"`
	WinRate         float64 `json:"win_rate"`
	IncreaseWinRate float64 `json:"increase_win_rate"`
}

type cacheEntry struct {
	data      any
	expiresAt time.Time
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry

	now func() time.Time
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cacheTTL:   cacheTTL,
		cache:      make(map[string]cacheEntry),
		now:        time.Now,
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type gmsEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type gmsRecords struct {
	Records []struct {
		Data json.RawMessage `json:"data"`
	} `json:"records"`
}

type gmsFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

type gmsSort struct {
	Data struct {
		Field string `json:"field"`
		Order string `json:"order"`
	} `json:"data"`
	Type string `json:"type"`
}

type gmsPayload struct {
	PageSize  int         `json:"pageSize"`
	Filters   []gmsFilter `json:"filters"`
	Sorts     []gmsSort   `json:"sorts"`
	PageIndex int         `json:"pageIndex"`
	Fields    []string    `json:"fields,omitempty"`
}

func (c *Client) post(ctx context.Context, sourceKey string, payload gmsPayload) (*gmsRecords, error) {
	path, ok := sources[sourceKey]
	if !ok {
		return nil, fmt.Errorf("unknown source key %q", sourceKey)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gms api returned status %d", resp.StatusCode)
	}

	var envelope gmsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	if envelope.Code != 0 {
		return nil, fmt.Errorf("gms api error: %s", envelope.Message)
	}

	var records gmsRecords
	if err := json.Unmarshal(envelope.Data, &records); err != nil {
		return nil, err
	}
	return &records, nil
}

func (c *Client) cached(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[key]
	if !ok || !entry.expiresAt.After(c.now()) {
		return nil, false
	}
	return entry.data, true
}

func (c *Client) store(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{data: data, expiresAt: c.now().Add(c.cacheTTL)}
}

// HeroRankings returns the win/pick/ban leaderboard for a rank tier over the
// given window. Unknown ranks fall back to all ranks, unknown windows to 7
// days. Results are cached for the configured TTL.
func (c *Client) HeroRankings(ctx context.Context, rank string, days int, sortBy string, limit int) ([]HeroRanking, error) {
	cacheKey := fmt.Sprintf("rankings:%s:%d:%s:%d", rank, days, sortBy, limit)
	if data, ok := c.cached(cacheKey); ok {
		return data.([]HeroRanking), nil
	}

	sourceKey, ok := daysSources[days]
	if !ok {
		sourceKey = "hero_rank_7d"
	}
	rankValue, ok := rankValues[rank]
	if !ok {
		rankValue = "101"
	}
	sortField, ok := sortFields[sortBy]
	if !ok {
		sortField = "main_hero_win_rate"
	}
	if limit <= 0 {
		limit = 20
	}

	sort := gmsSort{Type: "sequence"}
	sort.Data.Field = sortField
	sort.Data.Order = "desc"

	records, err := c.post(ctx, sourceKey, gmsPayload{
		PageSize: limit,
		Filters: []gmsFilter{
			{Field: "bigrank", Operator: "eq", Value: rankValue},
			{Field: "match_type", Operator: "eq", Value: "0"},
		},
		Sorts:     []gmsSort{sort},
		PageIndex: 1,
		Fields: []string{
			"main_hero",
			"main_hero_appearance_rate",
			"main_hero_ban_rate",
			"main_hero_win_rate",
			"main_heroid",
		},
	})
	if err != nil {
		return nil, err
	}

	type rankRecord struct {
		MainHeroID int `json:"main_heroid"`
		MainHero   struct {
			Data struct {
				Name string `json:"name"`
				Head string `json:"head"`
			} `json:"data"`
		} `json:"main_hero"`
		WinRate  float64 `json:"main_hero_win_rate"`
		PickRate float64 `json:"main_hero_appearance_rate"`
		BanRate  float64 `json:"main_hero_ban_rate"`
	}

	results := make([]HeroRanking, 0, len(records.Records))
	for _, rec := range records.Records {
		var row rankRecord
		if err := json.Unmarshal(rec.Data, &row); err != nil {
			continue
		}
		name := row.MainHero.Data.Name
		if name == "" {
			name = heroNameOrUnknown(row.MainHeroID)
		}
		results = append(results, HeroRanking{
			HeroID:   row.MainHeroID,
			Name:     name,
			WinRate:  toPercent(row.WinRate),
			PickRate: toPercent(row.PickRate),
			BanRate:  toPercent(row.BanRate),
			Icon:     row.MainHero.Data.Head,
		})
	}

	c.store(cacheKey, results)
	return results, nil
}

// HeroCounters returns heroes that counter the given hero at a rank tier.
func (c *Client) HeroCounters(ctx context.Context, heroID int, rank string) ([]HeroRelation, error) {
	return c.heroRelations(ctx, "counters", heroID, rank, "0")
}

// HeroSynergies returns the best teammates for the given hero at a rank tier.
func (c *Client) HeroSynergies(ctx context.Context, heroID int, rank string) ([]HeroRelation, error) {
	return c.heroRelations(ctx, "synergies", heroID, rank, "1")
}

func (c *Client) heroRelations(ctx context.Context, kind string, heroID int, rank string, matchType string) ([]HeroRelation, error) {
	if heroID <= 0 {
		return nil, errors.New("hero id is required")
	}

	cacheKey := fmt.Sprintf("%s:%d:%s", kind, heroID, rank)
	if data, ok := c.cached(cacheKey); ok {
		return data.([]HeroRelation), nil
	}

	rankValue, ok := rankValues[rank]
	if !ok {
		rankValue = "7"
	}

	records, err := c.post(ctx, "hero_rank_7d", gmsPayload{
		PageSize: 20,
		Filters: []gmsFilter{
			{Field: "match_type", Operator: "eq", Value: matchType},
			{Field: "main_heroid", Operator: "eq", Value: heroID},
			{Field: "bigrank", Operator: "eq", Value: rankValue},
		},
		Sorts:     []gmsSort{},
		PageIndex: 1,
	})
	if err != nil {
		return nil, err
	}

	type relationRecord struct {
		SubHero []struct {
			HeroID          int     `json:"heroid"`
			HeroWinRate     float64 `json:"hero_win_rate"`
			IncreaseWinRate float64 `json:"increase_win_rate"`
		} `json:"sub_hero"`
	}

	var results []HeroRelation
	for _, rec := range records.Records {
		var row relationRecord
		if err := json.Unmarshal(rec.Data, &row); err != nil {
			continue
		}
		for _, sub := range row.SubHero {
			results = append(results, HeroRelation{
				HeroID:          sub.HeroID,
				Name:            heroNameOrUnknown(sub.HeroID),
				WinRate:         toPercent(sub.HeroWinRate),
				IncreaseWinRate: toPercent(sub.IncreaseWinRate),
			})
		}
	}

	c.store(cacheKey, results)
	return results, nil
}

// FormatMetaContext renders meta rows as a prompt-ready text block.
func FormatMetaContext(heroName string, rankings []HeroRanking, counters, synergies []HeroRelation) string {
	parts := []string{fmt.Sprintf("\n=== LIVE META DATA FOR %s ===", strings.ToUpper(heroName))}

	for _, r := range rankings {
		if !strings.EqualFold(r.Name, heroName) {
			continue
		}
		parts = append(parts, fmt.Sprintf(
			"Current Stats (all ranks, 7 days): Win Rate: %g%%, Pick Rate: %g%%, Ban Rate: %g%%",
			r.WinRate, r.PickRate, r.BanRate))
		break
	}

	if len(counters) > 0 {
		lines := make([]string, 0, 5)
		for _, rel := range counters {
			if len(lines) == 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s: %g%% win rate against", rel.Name, rel.WinRate))
		}
		parts = append(parts, "Top Counters (Mythic rank):\n"+strings.Join(lines, "\n"))
	}

	if len(synergies) > 0 {
		lines := make([]string, 0, 5)
		for _, rel := range synergies {
			if len(lines) == 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("  - %s: %g%% win rate together (+%g%%)", rel.Name, rel.WinRate, rel.IncreaseWinRate))
		}
		parts = append(parts, "Best Teammates (Mythic rank):\n"+strings.Join(lines, "\n"))
	}

	parts = append(parts, "=== END META DATA ===\n")
	return strings.Join(parts, "\n")
}

func toPercent(rate float64) float64 {
	return math.Round(rate*10000) / 100
}
