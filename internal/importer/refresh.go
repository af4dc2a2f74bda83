package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"etf-dashboard-backend/internal/model"
)

// EntityReport 刷新时单类数据的结果
type EntityReport struct {
	Entity model.Entity  `json:"entity"`
	Result *ImportResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// RefreshReport 一次全量刷新的结果，全部成功时 OK 为 true
type RefreshReport struct {
	OK         bool           `json:"ok"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Entities   []EntityReport `json:"entities"`
}

// Err 汇总失败的数据类型
func (r *RefreshReport) Err() error {
	if r == nil || r.OK {
		return nil
	}
	var failed []string
	for _, er := range r.Entities {
		if er.Error != "" {
			failed = append(failed, er.Entity.Label())
		}
	}
	return fmt.Errorf("部分数据导入失败: %s", strings.Join(failed, "、"))
}

// Failed 失败的数据类型数量
func (r *RefreshReport) Failed() int {
	n := 0
	for _, er := range r.Entities {
		if er.Error != "" {
			n++
		}
	}
	return n
}

// ImportAll 使用已保存的数据源并发导入全部六类数据。
// 单类失败不取消其他类型，全部完成后返回报告。
func (im *Importer) ImportAll(ctx context.Context) (*RefreshReport, error) {
	sources, err := im.repo.SourceURLs(ctx)
	if err != nil {
		return nil, err
	}

	entities := model.Entities()
	report := &RefreshReport{
		StartedAt: time.Now(),
		Entities:  make([]EntityReport, len(entities)),
	}

	var eg errgroup.Group
	for i, e := range entities {
		eg.Go(func() error {
			res, err := im.Import(ctx, e, sources[e])
			er := EntityReport{Entity: e, Result: res}
			if err != nil {
				er.Error = errorMessage(err)
			}
			report.Entities[i] = er
			return nil
		})
	}
	_ = eg.Wait()

	report.FinishedAt = time.Now()
	report.OK = report.Failed() == 0
	im.logger.Info("全量刷新完成",
		zap.Bool("ok", report.OK),
		zap.Int("failed", report.Failed()),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))
	return report, nil
}

func errorMessage(err error) string {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Message
	}
	return err.Error()
}
