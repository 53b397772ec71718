package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/mlbb-ai/coach/agent/contract"
	nodex "github.com/mlbb-ai/coach/agent/nodes"
	academyx "github.com/mlbb-ai/coach/pkg/academy"
)

const sourcePreviewLimit = 200

type chatRequest struct {
	Message   string         `json:"message" binding:"required"`
	SessionID string         `json:"session_id"`
	PlayerID  string         `json:"player_id"`
	Provider  string         `json:"provider"`
	Context   map[string]any `json:"context"`
}

type chatResponse struct {
	Response    string            `json:"response"`
	SessionID   string            `json:"session_id"`
	Intent      string            `json:"intent"`
	Sources     map[string]string `json:"sources,omitempty"`
	Suggestions []string          `json:"suggestions"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	language := ""
	if req.PlayerID != "" && s.languages != nil {
		resolved, err := s.languages.GetLanguage(c.Request.Context(), req.PlayerID)
		if err != nil {
			log.Warn().Err(err).Str("player_id", req.PlayerID).Msg("language lookup failed, using default")
		} else {
			language = resolved
		}
	}

	result, err := s.coach.HandleMessage(c.Request.Context(), sessionID, req.Message, req.Provider, language)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Str("session_id", sessionID).Msg("chat request failed")
		}
		c.JSON(status, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Response:    result.Response,
		SessionID:   sessionID,
		Intent:      string(result.Intent),
		Sources:     previewSources(result.Sources),
		Suggestions: suggestionsFor(result.Intent),
	})
}

func (s *Server) handleClearSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := s.coach.ClearSession(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "cleared": true})
}

func (s *Server) handleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": s.coach.Providers(),
		"default":   s.defaultProvider,
	})
}

func (s *Server) handleHeroRankings(c *gin.Context) {
	if s.meta == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"detail": "hero meta service is not configured"})
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rankings, err := s.meta.HeroRankings(
		c.Request.Context(),
		c.DefaultQuery("rank", "all"),
		days,
		c.DefaultQuery("sort_by", "win_rate"),
		limit,
	)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"heroes": rankings})
}

func (s *Server) handleHeroDetail(c *gin.Context) {
	if s.meta == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"detail": "hero meta service is not configured"})
		return
	}

	name := c.Param("name")
	heroID, ok := academyx.HeroNameToID(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "unknown hero: " + name})
		return
	}

	rank := c.DefaultQuery("rank", "mythic")
	counters, err := s.meta.HeroCounters(c.Request.Context(), heroID, rank)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}
	synergies, err := s.meta.HeroSynergies(c.Request.Context(), heroID, rank)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}

	heroName, _ := academyx.HeroIDToName(heroID)
	c.JSON(http.StatusOK, gin.H{
		"hero_id":   heroID,
		"name":      heroName,
		"counters":  counters,
		"synergies": synergies,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	services := gin.H{
		"providers": len(s.coach.Providers()) > 0,
	}
	if s.redisPing != nil {
		services["redis"] = s.redisPing.Ping(c.Request.Context()) == nil
	}
	if s.qdrantPing != nil {
		services["qdrant"] = s.qdrantPing.Ping(c.Request.Context()) == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  s.cfg.Version,
		"services": services,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contractx.ErrNoProvider):
		return http.StatusServiceUnavailable
	case errors.Is(err, contractx.ErrProviderUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, contractx.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, nodex.ErrInvalidMessage), errors.Is(err, nodex.ErrInvalidSession),
		errors.Is(err, contractx.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// previewSources truncates each context slot so responses stay small; the
// full passages never leave the service.
func previewSources(sources map[string]string) map[string]string {
	if len(sources) == 0 {
		return nil
	}
	preview := make(map[string]string, len(sources))
	for slot, text := range sources {
		if len(text) > sourcePreviewLimit {
			text = text[:sourcePreviewLimit] + "..."
		}
		preview[slot] = text
	}
	return preview
}

func suggestionsFor(intent contractx.Intent) []string {
	switch intent {
	case contractx.IntentHeroInfo:
		return []string{"What items should I build?", "How do I play this matchup?"}
	case contractx.IntentBuildRecommendation:
		return []string{"When should I build defensively?", "Best emblem?"}
	case contractx.IntentMatchupAnalysis:
		return []string{"How do I position in team fights?", "Counter items?"}
	case contractx.IntentGeneralStrategy:
		return []string{"How do I farm efficiently?", "Team fight tips?"}
	default:
		return []string{"Tell me about a hero", "Recommend a build"}
	}
}
