// Package server exposes the coaching pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	academyx "github.com/mlbb-ai/coach/pkg/academy"
)

type Config struct {
	Host         string        `split_words:"true" default:"0.0.0.0"`
	Port         int           `split_words:"true" default:"8000"`
	AllowOrigins []string      `split_words:"true" default:"*"`
	Timeout      time.Duration `split_words:"true" default:"60s"`
	Version      string        `split_words:"true" default:"dev"`
}

// CoachService is the slice of the orchestrator the handlers need.
type CoachService interface {
	HandleMessage(ctx context.Context, sessionID, text, provider, language string) (contractx.CoachResult, error)
	ClearSession(ctx context.Context, sessionID string) error
	Providers() []string
}

// HeroMeta serves live hero statistics for the heroes endpoints.
type HeroMeta interface {
	HeroRankings(ctx context.Context, rank string, days int, sortBy string, limit int) ([]academyx.HeroRanking, error)
	HeroCounters(ctx context.Context, heroID int, rank string) ([]academyx.HeroRelation, error)
	HeroSynergies(ctx context.Context, heroID int, rank string) ([]academyx.HeroRelation, error)
}

// LanguageResolver maps a player id to their preferred response language.
type LanguageResolver interface {
	GetLanguage(ctx context.Context, playerID string) (string, error)
}

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	cfg             Config
	coach           CoachService
	meta            HeroMeta
	languages       LanguageResolver
	defaultProvider string

	redisPing  Pinger
	qdrantPing Pinger

	engine *gin.Engine
}

type Option func(*Server)

func WithHeroMeta(meta HeroMeta) Option {
	return func(s *Server) { s.meta = meta }
}

func WithLanguageResolver(resolver LanguageResolver) Option {
	return func(s *Server) { s.languages = resolver }
}

func WithHealthPingers(redis, qdrant Pinger) Option {
	return func(s *Server) {
		s.redisPing = redis
		s.qdrantPing = qdrant
	}
}

func WithDefaultProvider(name string) Option {
	return func(s *Server) { s.defaultProvider = name }
}

func New(cfg Config, coach CoachService, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		coach: coach,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.buildEngine()
	return s
}

func (s *Server) buildEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.AllowOrigins) == 1 && s.cfg.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.AllowOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsCfg))

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api/v1")
	api.POST("/chat", s.handleChat)
	api.DELETE("/chat/:session_id", s.handleClearSession)
	api.GET("/providers", s.handleProviders)
	api.GET("/heroes", s.handleHeroRankings)
	api.GET("/heroes/:name", s.handleHeroDetail)

	return engine
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         addr(s.cfg),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Timeout,
		WriteTimeout: s.cfg.Timeout,
	}
	return srv.ListenAndServe()
}

func addr(cfg Config) string {
	host := cfg.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Port
	if port == 0 {
		port = 8000
	}
	return fmt.Sprintf("%s:%d", host, port)
}
