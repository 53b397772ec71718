package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	contractx "github.com/mlbb-ai/coach/agent/contract"
)

const (
	payloadFieldText      = "text"
	payloadFieldNamespace = "namespace"
)

type QdrantConfig struct {
	Host       string `envconfig:"HOST" split_words:"true" default:"localhost"`
	Port       int    `envconfig:"PORT" split_words:"true" default:"6334"`
	APIKey     string `envconfig:"API_KEY" split_words:"true"`
	UseTLS     bool   `envconfig:"USE_TLS" split_words:"true" default:"false"`
	Collection string `envconfig:"COLLECTION" split_words:"true" default:"mlbb_coach"`

	// ScoreThreshold discards points below this similarity score at the
	// backend, before the retriever's own filter sees them.
	ScoreThreshold float32 `envconfig:"SCORE_THRESHOLD" split_words:"true" default:"0.7"`
}

// QdrantSearch implements SearchClient against a single Qdrant collection.
// Namespaces are a payload field, so one collection serves all three
// knowledge domains.
type QdrantSearch struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
	threshold  float32
}

var _ SearchClient = (*QdrantSearch)(nil)

func NewQdrantSearch(cfg QdrantConfig, embedder Embedder) (*QdrantSearch, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   strings.TrimSpace(cfg.Host),
		Port:   cfg.Port,
		APIKey: strings.TrimSpace(cfg.APIKey),
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	return &QdrantSearch{
		client:     client,
		embedder:   embedder,
		collection: strings.TrimSpace(cfg.Collection),
		threshold:  cfg.ScoreThreshold,
	}, nil
}

// Ping reports backend reachability for health checks.
func (s *QdrantSearch) Ping(ctx context.Context) error {
	_, err := s.client.HealthCheck(ctx)
	return err
}

func (s *QdrantSearch) Search(
	ctx context.Context,
	query string,
	k int,
	namespace string,
	filter map[string]string,
) ([]contractx.Passage, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	conditions := make([]*qdrant.Condition, 0, len(filter)+1)
	if ns := strings.TrimSpace(namespace); ns != "" {
		conditions = append(conditions, qdrant.NewMatch(payloadFieldNamespace, ns))
	}
	for field, value := range filter {
		conditions = append(conditions, qdrant.NewMatch(field, value))
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		ScoreThreshold: qdrant.PtrOf(s.threshold),
		Filter:         &qdrant.Filter{Must: conditions},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant query collection=%s: %w", s.collection, err)
	}

	passages := make([]contractx.Passage, 0, len(points))
	for _, point := range points {
		passages = append(passages, toPassage(point))
	}
	return passages, nil
}

func toPassage(point *qdrant.ScoredPoint) contractx.Passage {
	payload := point.GetPayload()

	passage := contractx.Passage{
		Score:    point.GetScore(),
		Metadata: make(map[string]string, len(payload)),
	}
	for field, value := range payload {
		text := value.GetStringValue()
		if text == "" {
			continue
		}
		switch field {
		case payloadFieldText:
			passage.Text = text
		case payloadFieldNamespace:
			// internal routing field, not source metadata
		default:
			passage.Metadata[field] = text
		}
	}
	return passage
}
