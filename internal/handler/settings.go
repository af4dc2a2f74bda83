package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/model"
)

// GetSources 各数据集的数据源
func (h *Handler) GetSources(c *gin.Context) {
	sources, err := h.Repo.SourceURLs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": sources,
	})
}

// UpdateSource 保存数据源，urls 为空时恢复默认
func (h *Handler) UpdateSource(c *gin.Context) {
	e, err := model.ParseEntity(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req urlsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "请求参数错误",
		})
		return
	}

	ctx := c.Request.Context()
	if err := h.Repo.SetSourceURL(ctx, e, req.URLs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	h.Logger.Info("数据源已更新", zap.String("entity", string(e)))

	sources, err := h.Repo.SourceURLs(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": sources,
	})
}

// GetStatus 最近一次刷新的状态
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.Scheduler.Status(),
	})
}
