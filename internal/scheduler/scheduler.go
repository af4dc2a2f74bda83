// Package scheduler 每个交易日定时刷新全部数据源。
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/config"
	"etf-dashboard-backend/internal/holiday"
	"etf-dashboard-backend/internal/importer"
)

// Refresher 执行一次全量导入
type Refresher interface {
	ImportAll(ctx context.Context) (*importer.RefreshReport, error)
}

// Status 最近一次刷新的状态
type Status struct {
	RunID      string                  `json:"runId,omitempty"`
	Trigger    string                  `json:"trigger,omitempty"` // auto/manual
	Running    bool                    `json:"running"`
	StartedAt  time.Time               `json:"startedAt,omitempty"`
	FinishedAt time.Time               `json:"finishedAt,omitempty"`
	Attempts   int                     `json:"attempts"`
	OK         bool                    `json:"ok"`
	Message    string                  `json:"message,omitempty"`
	NextRun    time.Time               `json:"nextRun,omitempty"`
	Report     *importer.RefreshReport `json:"report,omitempty"`
}

// Scheduler 自动刷新任务
type Scheduler struct {
	refresher Refresher
	calendar  *holiday.Calendar
	cfg       config.AutoRefreshConfig
	logger    *zap.Logger

	now func() time.Time

	mu     sync.RWMutex
	status Status
	runMu  sync.Mutex // 同一时间只执行一次刷新
}

func New(r Refresher, cal *holiday.Calendar, cfg config.AutoRefreshConfig, logger *zap.Logger) *Scheduler {
	if cal == nil {
		cal = holiday.NewCalendar()
	}
	return &Scheduler{
		refresher: r,
		calendar:  cal,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Status 返回状态副本
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) update(fn func(*Status)) {
	s.mu.Lock()
	fn(&s.status)
	s.mu.Unlock()
}

// Start 按配置的时间在每个交易日刷新，ctx 取消后退出
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("自动刷新已禁用")
		return nil
	}
	hour, minute, err := s.cfg.Clock()
	if err != nil {
		return err
	}

	s.logger.Info("自动刷新任务已启动",
		zap.String("time", s.cfg.Time),
		zap.Int("retry_count", s.cfg.RetryCount),
		zap.Duration("retry_interval", s.cfg.RetryInterval),
		zap.Int("holidays", s.calendar.Len()))

	go func() {
		for {
			next := s.calendar.NextRun(s.now(), hour, minute)
			s.update(func(st *Status) { st.NextRun = next })
			wait := next.Sub(s.now())
			s.logger.Info("下次自动刷新",
				zap.String("at", next.Format("2006-01-02 15:04:05")),
				zap.Duration("in", wait.Round(time.Minute)))

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.logger.Info("自动刷新任务已停止")
				return
			case <-timer.C:
			}
			s.RunWithRetry(ctx, "auto")
		}
	}()
	return nil
}

// RunOnce 立即执行一次刷新并记录状态
func (s *Scheduler) RunOnce(ctx context.Context, trigger string) (*importer.RefreshReport, error) {
	return s.run(ctx, trigger, 0)
}

// RunWithRetry 失败时按配置重试，错误只记录在状态中
func (s *Scheduler) RunWithRetry(ctx context.Context, trigger string) *importer.RefreshReport {
	report, _ := s.run(ctx, trigger, s.cfg.RetryCount)
	return report
}

func (s *Scheduler) run(ctx context.Context, trigger string, maxRetry int) (*importer.RefreshReport, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("trigger", trigger))
	s.update(func(st *Status) {
		next := st.NextRun
		*st = Status{RunID: runID, Trigger: trigger, Running: true, StartedAt: s.now(), NextRun: next}
	})

	var (
		report *importer.RefreshReport
		err    error
	)
	for i := 0; i <= maxRetry; i++ {
		if i > 0 {
			logger.Info("重试刷新", zap.Int("attempt", i))
		} else {
			logger.Info("开始刷新全部数据")
		}
		s.update(func(st *Status) { st.Attempts = i + 1 })

		report, err = s.refresher.ImportAll(ctx)
		if err == nil {
			err = report.Err()
		}
		if err == nil {
			break
		}
		logger.Warn("刷新失败", zap.Error(err))
		if i == maxRetry {
			break
		}
		logger.Info("稍后重试", zap.Duration("interval", s.cfg.RetryInterval))
		if werr := sleep(ctx, s.cfg.RetryInterval); werr != nil {
			err = werr
			break
		}
	}

	s.update(func(st *Status) {
		st.Running = false
		st.FinishedAt = s.now()
		st.Report = report
		st.OK = err == nil
		if err != nil {
			st.Message = err.Error()
		} else {
			st.Message = "刷新完成"
		}
	})
	if err != nil {
		logger.Error("刷新最终失败", zap.Int("retries", maxRetry), zap.Error(err))
	} else {
		logger.Info("刷新完成")
	}
	return report, err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
