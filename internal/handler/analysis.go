package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetFillAnalysis 填息分析，可按 code 过滤
func (h *Handler) GetFillAnalysis(c *gin.Context) {
	code := c.Query("code")

	records, err := h.Analysis.FillAnalysis(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// GetSummaries 各ETF的殖利率与趋势
func (h *Handler) GetSummaries(c *gin.Context) {
	summaries, err := h.Analysis.Summaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summaries,
	})
}
