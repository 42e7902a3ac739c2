package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/services"
	"github.com/lectura-ai/lectura/internal/utils"
)

type AnalysisHandler struct {
	Sessions *SessionHandler
	Analysis services.AnalysisService
}

func NewAnalysisHandler(sessions *SessionHandler, analysis services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{Sessions: sessions, Analysis: analysis}
}

func (h *AnalysisHandler) Results(c *gin.Context) {
	sess, ok := h.Sessions.getOwned(c)
	if !ok {
		return
	}

	res, err := h.Analysis.Results(c.Request.Context(), sess)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AnalysisHandler) Search(c *gin.Context) {
	sess, ok := h.Sessions.getOwned(c)
	if !ok {
		return
	}

	matches, err := h.Analysis.Search(c.Request.Context(), sess, c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"query":      c.Query("q"),
		"found":      matches.Any(),
		"matches":    matches,
	})
}

type askRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

func (h *AnalysisHandler) Ask(c *gin.Context) {
	sess, ok := h.Sessions.getOwned(c)
	if !ok {
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AnalysisHandler.Ask", "invalid request body", err))
		return
	}

	qa, err := h.Analysis.Ask(c.Request.Context(), sess, req.Question, req.Context)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, qa)
}

func (h *AnalysisHandler) History(c *gin.Context) {
	sess, ok := h.Sessions.getOwned(c)
	if !ok {
		return
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(c, utils.E(utils.CodeInvalidArgument, "AnalysisHandler.History", "limit must be a non-negative integer", err))
			return
		}
		limit = n
	}

	out, err := h.Analysis.History(c.Request.Context(), sess.ID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if out == nil {
		out = []models.QAExchange{}
	}

	c.JSON(http.StatusOK, gin.H{"session_id": sess.ID, "exchanges": out})
}
