// Package server exposes the verification pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/veracityhq/claimcheck/internal/model"
	"github.com/veracityhq/claimcheck/internal/search"
)

const debugSnippetRunes = 250

// Checker verifies one input text (implemented by pipeline.Pipeline)
type Checker interface {
	Check(ctx context.Context, text string, debug bool) *model.Report
}

// Server wires the pipeline and search capability to HTTP routes
type Server struct {
	checker     Checker
	searcher    search.Searcher
	corsOrigins []string
}

// New creates a server
func New(checker Checker, searcher search.Searcher, cfg model.ServerConfig) *Server {
	return &Server{
		checker:     checker,
		searcher:    searcher,
		corsOrigins: cfg.CORSOrigins,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(s.cors())

	r.POST("/check", s.handleCheck)
	r.GET("/search", s.handleSearch)
	r.GET("/healthz", s.handleHealth)

	return r
}

// CheckRequest is the inbound verification request
type CheckRequest struct {
	LLMOutput string `json:"llm_output"`
	Debug     bool   `json:"debug"`
}

// handleCheck verifies the submitted text. Malformed input is the only
// client-visible error; everything downstream degrades inside the pipeline.
func (s *Server) handleCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.LLMOutput) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "llm_output is required"})
		return
	}

	report := s.checker.Check(c.Request.Context(), req.LLMOutput, req.Debug)
	c.JSON(http.StatusOK, report)
}

// handleSearch is a pure search passthrough for debugging: slim hit records,
// no scoring
func (s *Server) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	hits, err := s.searcher.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": search.SlimHits(hits, debugSnippetRunes)})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// cors allows the configured origins (the bundled web UI in development)
func (s *Server) cors() gin.HandlerFunc {
	allowed := make(map[string]bool, len(s.corsOrigins))
	for _, origin := range s.corsOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
