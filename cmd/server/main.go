package main

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etf-dashboard-backend/internal/analysis"
	"etf-dashboard-backend/internal/cache"
	"etf-dashboard-backend/internal/config"
	"etf-dashboard-backend/internal/fetch"
	"etf-dashboard-backend/internal/handler"
	"etf-dashboard-backend/internal/holiday"
	"etf-dashboard-backend/internal/importer"
	"etf-dashboard-backend/internal/logging"
	"etf-dashboard-backend/internal/metrics"
	"etf-dashboard-backend/internal/scheduler"
	"etf-dashboard-backend/internal/store"
)

func init() {
	// 手动加载 .env 文件
	file, err := os.Open(".env")
	if err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			os.Setenv(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := cache.Open(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer provider.Close()

	repo := store.NewRepository(provider, logger, cfg.Sources)
	if _, err := repo.EnsureSchema(ctx, cfg.Cache.SchemaVersion); err != nil {
		return err
	}

	m := metrics.New()
	im := importer.New(repo, fetch.New(cfg.Fetch.Timeout, logger), m, logger)
	svc := analysis.NewService(repo, analysis.NewEngine(cfg.FillCutoff()))

	cal, err := holiday.LoadCalendar(cfg.AutoRefresh.HolidayFile)
	if err != nil {
		return err
	}
	sched := scheduler.New(im, cal, cfg.AutoRefresh, logger)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), handler.AccessLog(logger))

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	h := &handler.Handler{
		Repo:      repo,
		Importer:  im,
		Analysis:  svc,
		Scheduler: sched,
		Metrics:   m,
		Logger:    logger,
	}
	h.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("服务启动", zap.String("port", cfg.Server.Port), zap.String("cache", cfg.Cache.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
