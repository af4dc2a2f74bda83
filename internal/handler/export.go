package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"etf-dashboard-backend/internal/export"
	"etf-dashboard-backend/internal/model"
)

const fillAnalysisExport = "fill-analysis"

// Export 导出数据集或填息分析，format=xlsx 时输出Excel
func (h *Handler) Export(c *gin.Context) {
	name := c.Param("entity")
	ctx := c.Request.Context()

	var (
		table export.Table
		err   error
	)
	if name == fillAnalysisExport {
		records, ferr := h.Analysis.FillAnalysis(ctx, c.Query("code"))
		table, err = export.Records(export.FillAnalysisColumns, records), ferr
	} else {
		e, perr := model.ParseEntity(name)
		if perr != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": perr.Error(),
			})
			return
		}
		table, err = export.ForEntity(ctx, h.Repo, e)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	base := fmt.Sprintf("etf_%s_%s", name, time.Now().Format("20060102"))
	var buf bytes.Buffer
	if c.Query("format") == "xlsx" {
		if err := export.WriteXLSX(&buf, name, table); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, base))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
		return
	}

	if err := export.Write(&buf, table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, base))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
