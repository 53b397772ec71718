package main

import (
	"context"

	"github.com/rs/zerolog/log"

	classifierx "github.com/mlbb-ai/coach/agent/classifier"
	orchestratorx "github.com/mlbb-ai/coach/agent/orchestrator"
	promptx "github.com/mlbb-ai/coach/agent/prompt"
	providerx "github.com/mlbb-ai/coach/agent/provider"
	retrievalx "github.com/mlbb-ai/coach/agent/retrieval"
	statex "github.com/mlbb-ai/coach/agent/state"
	academyx "github.com/mlbb-ai/coach/pkg/academy"
	configx "github.com/mlbb-ai/coach/pkg/config"
	_ "github.com/mlbb-ai/coach/pkg/logger/autoload"
	playerdbx "github.com/mlbb-ai/coach/pkg/playerdb"
	serverx "github.com/mlbb-ai/coach/server"
)

func main() {
	ctx := context.Background()

	providerCfg := configx.MustNew[providerx.Config]("")
	gateway := providerx.New(*providerCfg)

	available := gateway.ListAvailable()
	if len(available) == 0 {
		log.Warn().Msg("no llm providers configured, chat requests will fail")
	} else {
		log.Info().Strs("providers", available).Str("default", providerCfg.Default).Msg("llm providers ready")
	}

	redisCfg := configx.MustNew[statex.RedisConfig]("REDIS")
	store := statex.NewRedisStore(*redisCfg)
	if err := store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable at startup, sessions degrade to memory")
	}

	embedderCfg := configx.MustNew[retrievalx.EmbedderConfig]("EMBEDDING")
	embedder, err := retrievalx.NewOpenAIEmbedder(*embedderCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("embedder init failed")
	}

	qdrantCfg := configx.MustNew[retrievalx.QdrantConfig]("QDRANT")
	search, err := retrievalx.NewQdrantSearch(*qdrantCfg, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("qdrant init failed")
	}
	if err := search.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("qdrant unreachable at startup, retrieval degrades to empty context")
	}

	prompts := promptx.LoadPromptSet()

	intentClassifier, err := classifierx.New(gateway, prompts.Classifier)
	if err != nil {
		log.Fatal().Err(err).Msg("classifier init failed")
	}

	coach, err := orchestratorx.New(
		store,
		gateway,
		intentClassifier,
		orchestratorx.Retrievers{
			Hero:     retrievalx.NewHeroRetriever(search),
			Build:    retrievalx.NewBuildRetriever(search),
			Strategy: retrievalx.NewStrategyRetriever(search),
		},
		&prompts,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("coach init failed")
	}

	academyCfg := configx.MustNew[academyx.Config]("ACADEMY")
	meta := academyx.MustNew(*academyCfg)

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	opts := []serverx.Option{
		serverx.WithHeroMeta(meta),
		serverx.WithHealthPingers(store, search),
		serverx.WithDefaultProvider(providerCfg.Default),
	}

	playerCfg, err := configx.New[playerdbx.Config]("PLAYER_DB")
	if err == nil {
		players, repoErr := playerdbx.NewRepository(*playerCfg)
		if repoErr != nil {
			log.Warn().Err(repoErr).Msg("player db init failed, language defaults apply")
		} else {
			if schemaErr := players.EnsureSchema(ctx); schemaErr != nil {
				log.Warn().Err(schemaErr).Msg("player schema check failed")
			}
			opts = append(opts, serverx.WithLanguageResolver(players))
		}
	} else {
		log.Info().Msg("player db not configured, language defaults apply")
	}

	srv := serverx.New(*serverCfg, coach, opts...)
	log.Info().Int("port", serverCfg.Port).Msg("coach server listening")
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
