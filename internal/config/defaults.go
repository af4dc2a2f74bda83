package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 可选配置项的默认值
const (
	DefaultPort                 = "8080"
	DefaultLogLevel             = "info"
	DefaultCacheBackend         = "memory"
	DefaultRedisAddr            = "localhost:6379"
	DefaultSQLitePath           = "data/etf_cache.db"
	DefaultSchemaVersion        = "v3"
	DefaultFetchTimeout         = 30 * time.Second
	DefaultFillCutoffDate       = "2026-01-01"
	DefaultAutoRefreshTime      = "18:00"
	DefaultAutoRefreshRetry     = 3
	DefaultAutoRefreshRetryWait = 10 * time.Minute
)

var defaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = defaultCORSOrigins
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = DefaultSQLitePath
	}
	if c.Cache.SchemaVersion == "" {
		c.Cache.SchemaVersion = DefaultSchemaVersion
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Analysis.FillCutoffDate == "" {
		c.Analysis.FillCutoffDate = DefaultFillCutoffDate
	}
	if c.AutoRefresh.Time == "" {
		c.AutoRefresh.Time = DefaultAutoRefreshTime
	}
	if c.AutoRefresh.RetryCount == 0 {
		c.AutoRefresh.RetryCount = DefaultAutoRefreshRetry
	}
	if c.AutoRefresh.RetryInterval == 0 {
		c.AutoRefresh.RetryInterval = DefaultAutoRefreshRetryWait
	}
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("不支持的缓存后端: %s", c.Cache.Backend)
	}
	if _, err := time.Parse(time.DateOnly, c.Analysis.FillCutoffDate); err != nil {
		return fmt.Errorf("fill_cutoff_date 格式错误: %s", c.Analysis.FillCutoffDate)
	}
	if _, _, err := c.RefreshClock(); err != nil {
		return err
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch timeout 不能为负数")
	}
	return nil
}

// RefreshClock 解析自动刷新时间 HH:MM
func (c *Config) RefreshClock() (hour, minute int, err error) {
	return c.AutoRefresh.Clock()
}

func (a AutoRefreshConfig) Clock() (hour, minute int, err error) {
	parts := strings.Split(a.Time, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("auto_refresh time 格式错误: %s", a.Time)
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("auto_refresh time 格式错误: %s", a.Time)
	}
	return hour, minute, nil
}
