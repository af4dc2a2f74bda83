package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/importer"
	"etf-dashboard-backend/internal/model"
)

type urlsRequest struct {
	URLs string `json:"urls"`
}

func (h *Handler) records(ctx context.Context, e model.Entity) (any, error) {
	switch e {
	case model.EntityMarketIndex:
		return h.Repo.MarketIndices().Get(ctx)
	case model.EntityBasicInfo:
		return h.Repo.BasicInfo().Get(ctx)
	case model.EntityPrice:
		return h.Repo.Prices().Get(ctx)
	case model.EntityDividend:
		return h.Repo.Dividends().Get(ctx)
	case model.EntitySize:
		return h.Repo.Sizes().Get(ctx)
	case model.EntityHistory:
		return h.Repo.History().Get(ctx)
	default:
		return nil, fmt.Errorf("未知的数据类型: %s", e)
	}
}

// GetData 获取合并后的数据集
func (h *Handler) GetData(c *gin.Context) {
	e, err := model.ParseEntity(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	data, err := h.records(c.Request.Context(), e)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":   data,
		"policy": e.Policy().String(),
	})
}

// ImportEntity 导入单类数据，body 中的 urls 为空时使用已保存的数据源
func (h *Handler) ImportEntity(c *gin.Context) {
	e, err := model.ParseEntity(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req urlsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "请求参数错误",
			})
			return
		}
	}

	result, err := h.Importer.Import(c.Request.Context(), e, req.URLs)
	if err != nil {
		h.Logger.Warn("导入失败", zap.String("entity", string(e)), zap.Error(err))
		c.JSON(importStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

func importStatus(err error) int {
	var ie *importer.ImportError
	switch {
	case errors.Is(err, importer.ErrNoSource):
		return http.StatusBadRequest
	case errors.As(err, &ie):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Refresh 立即刷新全部数据
func (h *Handler) Refresh(c *gin.Context) {
	report, err := h.Scheduler.RunOnce(c.Request.Context(), "manual")
	if report == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	resp := gin.H{"data": report}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// ClearCache 清空全部数据集
func (h *Handler) ClearCache(c *gin.Context) {
	if err := h.Repo.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "缓存已清空",
	})
}
