package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiruba11k/lead-scoring-llm/internal/logging"
	"github.com/kiruba11k/lead-scoring-llm/internal/pipeline"
	"github.com/kiruba11k/lead-scoring-llm/internal/scoring"
)

// SessionHandler exposes the lead pipeline over HTTP. Each session walks the
// same two steps the pipeline defines: extract first, score second.
type SessionHandler struct {
	runner *pipeline.Runner
	store  *pipeline.Store
	logger logging.Logger
}

func NewSessionHandler(runner *pipeline.Runner, store *pipeline.Store, logger logging.Logger) *SessionHandler {
	return &SessionHandler{
		runner: runner,
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes attaches the session endpoints to the router.
func (h *SessionHandler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/v1")
	{
		v1.POST("/sessions/:id/extract", h.Extract)
		v1.POST("/sessions/:id/score", h.Score)
		v1.GET("/sessions/:id", h.GetSession)
	}
}

type extractRequest struct {
	LinkedInURL string              `json:"linkedin_url" binding:"required"`
	Company     scoring.CompanyInfo `json:"company"`
}

// Extract runs the extraction stage for a session.
func (h *SessionHandler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request format",
		})
		return
	}

	session := h.store.GetOrCreate(c.Param("id"))

	err := h.runner.Extract(c.Request.Context(), session, req.LinkedInURL, req.Company)
	switch {
	case errors.Is(err, pipeline.ErrNotProfileURL):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "Not a LinkedIn profile URL",
		})
		return
	case errors.Is(err, pipeline.ErrProfileNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "Could not extract profile data",
		})
		return
	case err != nil:
		h.logger.WithFields(logging.Fields{
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Extraction failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Extraction failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// Score runs the scoring stage on a previously extracted session.
func (h *SessionHandler) Score(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Session not found",
		})
		return
	}

	result, err := h.runner.Score(c.Request.Context(), session)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoPayload) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Extract profile data first",
			})
			return
		}

		response := gin.H{
			"success": false,
			"error":   "Scoring failed",
		}
		var scoreErr *scoring.ScoringError
		if errors.As(err, &scoreErr) && scoreErr.Raw != "" {
			response["details"] = scoreErr.Raw
		}
		c.JSON(http.StatusBadGateway, response)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

// GetSession returns the current session snapshot.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Session not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}
