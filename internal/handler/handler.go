package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/analysis"
	"etf-dashboard-backend/internal/importer"
	"etf-dashboard-backend/internal/metrics"
	"etf-dashboard-backend/internal/scheduler"
	"etf-dashboard-backend/internal/store"
)

// Handler HTTP接口依赖
type Handler struct {
	Repo      store.Repository
	Importer  *importer.Importer
	Analysis  *analysis.Service
	Scheduler *scheduler.Scheduler
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Register 注册全部路由
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	{
		// 数据集
		api.GET("/data/:entity", h.GetData)
		api.POST("/import/:entity", h.ImportEntity)
		api.POST("/refresh", h.Refresh)
		api.DELETE("/cache", h.ClearCache)

		// 分析
		api.GET("/fill-analysis", h.GetFillAnalysis)
		api.GET("/summaries", h.GetSummaries)

		// 导出
		api.GET("/export/:entity", h.Export)

		// 设置
		api.GET("/settings/sources", h.GetSources)
		api.PUT("/settings/sources/:entity", h.UpdateSource)

		api.GET("/status", h.GetStatus)
	}
	r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
}

// AccessLog 访问日志
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("remote", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("http_access", fields...)
	}
}
