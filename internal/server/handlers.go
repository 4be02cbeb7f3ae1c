package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/kgevidence/internal/core"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/llm"
)

type RecommendRequest struct {
	Head       string   `json:"head"`
	K          *int     `json:"k"`
	Direction  string   `json:"direction"`
	Whitelist  []string `json:"whitelist"`
	PerTypeCap *int     `json:"per_type_cap"`
	Exclude    []string `json:"exclude"`
	Strategy   string   `json:"strategy"`
}

type VerifyRequest struct {
	Triples  json.RawMessage `json:"triples"`
	Mode     string          `json:"mode"`
	Strategy string          `json:"strategy"`
}

type RecommendResponse struct {
	Suggestions []model.Suggestion `json:"suggestions"`
}

type VerifyResponse struct {
	Results []model.VerificationResult `json:"results"`
}

// Recommend handles recommend requests; a non-empty forced strategy overrides the body.
func (s *Server) Recommend(forced string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecommendRequest
		if !bindBody(c, &req) {
			return
		}

		k := core.DefaultK
		if req.K != nil {
			k = *req.K
		}
		perTypeCap := core.DefaultPerTypeCap
		if req.PerTypeCap != nil {
			perTypeCap = *req.PerTypeCap
		}

		strategy := req.Strategy
		if forced != "" {
			strategy = forced
		}

		suggestions, err := s.Engine.Recommend(c.Request.Context(), strategy, core.RecommendRequest{
			Head:        req.Head,
			K:           k,
			Direction:   req.Direction,
			Whitelist:   req.Whitelist,
			PerTypeCap:  perTypeCap,
			Exclude:     req.Exclude,
			Credentials: credentials(c),
		})
		if err != nil {
			s.fail(c, err)
			return
		}
		if suggestions == nil {
			suggestions = []model.Suggestion{}
		}
		c.JSON(http.StatusOK, RecommendResponse{Suggestions: suggestions})
	}
}

// Verify handles verify requests; a non-empty forced strategy overrides the body.
func (s *Server) Verify(forced string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyRequest
		if !bindBody(c, &req) {
			return
		}

		rows, err := core.ParseTriples(req.Triples)
		if err != nil {
			s.fail(c, err)
			return
		}

		strategy := req.Strategy
		if forced != "" {
			strategy = forced
		}

		results, err := s.Engine.Verify(c.Request.Context(), strategy, req.Mode, rows, credentials(c))
		if err != nil {
			s.fail(c, err)
			return
		}
		if results == nil {
			results = []model.VerificationResult{}
		}
		c.JSON(http.StatusOK, VerifyResponse{Results: results})
	}
}

func (s *Server) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if s.Cache != nil {
		resp["cache"] = s.Cache.Stats()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) fail(c *gin.Context, err error) {
	if core.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Log.Error("request failed", "path", c.FullPath(), "request_id", c.GetString(requestIDKey), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// bindBody decodes a JSON object; an empty body decodes as {}.
func bindBody(c *gin.Context, dst interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return false
	}
	return true
}

func credentials(c *gin.Context) core.Credentials {
	return core.Credentials{
		SearchKey: strings.TrimSpace(c.GetHeader(HeaderSerperKey)),
		LLM: llm.Credentials{
			OpenAI:    strings.TrimSpace(c.GetHeader(HeaderOpenAIKey)),
			Anthropic: strings.TrimSpace(c.GetHeader(HeaderAnthropicKey)),
			Gemini:    strings.TrimSpace(c.GetHeader(HeaderGeminiKey)),
		},
	}
}
