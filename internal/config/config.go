// Package config 读取服务配置：可选的YAML文件，环境变量优先。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"etf-dashboard-backend/internal/logging"
	"etf-dashboard-backend/internal/model"
)

// Config 服务配置
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     logging.Config    `yaml:"logging"`
	Cache       CacheConfig       `yaml:"cache"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	AutoRefresh AutoRefreshConfig `yaml:"auto_refresh"`

	// 每类数据的默认来源，多个URL以 "|" 分隔
	Sources map[model.Entity]string `yaml:"sources"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// CacheConfig 缓存后端配置
type CacheConfig struct {
	Backend       string `yaml:"backend"` // memory/redis/sqlite
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	SQLitePath    string `yaml:"sqlite_path"`

	// 与已存储的版本不一致时清空全部数据集
	SchemaVersion string `yaml:"schema_version"`
}

// FetchConfig 数据源抓取配置
type FetchConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// AnalysisConfig 衍生分析配置
type AnalysisConfig struct {
	// 早于此日期的除息事件视为历史资料，不计算填息
	FillCutoffDate string `yaml:"fill_cutoff_date"`
}

// AutoRefreshConfig 自动刷新配置
type AutoRefreshConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Time          string        `yaml:"time"` // HH:MM
	RetryCount    int           `yaml:"retry_count"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	HolidayFile   string        `yaml:"holiday_file"`
}

// Load 读取配置：CONFIG_FILE 指定的YAML文件（可选），再以环境变量覆盖
func Load() (*Config, error) {
	cfg := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}
	return cfg, nil
}

// LoadFile 读取YAML配置文件并展开 ${VAR} 环境变量
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvString("PORT", c.Server.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	c.Logging.Level = getEnvString("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnvString("LOG_FORMAT", c.Logging.Format)
	c.Logging.Output = getEnvString("LOG_OUTPUT", c.Logging.Output)

	c.Cache.Backend = getEnvString("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.RedisAddr = getEnvString("REDIS_ADDR", c.Cache.RedisAddr)
	c.Cache.RedisPassword = getEnvString("REDIS_PASSWORD", c.Cache.RedisPassword)
	c.Cache.RedisDB = getEnvInt("REDIS_DB", c.Cache.RedisDB)
	c.Cache.SQLitePath = getEnvString("SQLITE_PATH", c.Cache.SQLitePath)
	c.Cache.SchemaVersion = getEnvString("SCHEMA_VERSION", c.Cache.SchemaVersion)

	c.Fetch.Timeout = getEnvDuration("FETCH_TIMEOUT", c.Fetch.Timeout)
	c.Analysis.FillCutoffDate = getEnvString("FILL_CUTOFF_DATE", c.Analysis.FillCutoffDate)

	c.AutoRefresh.Enabled = getEnvBool("AUTO_REFRESH_ENABLED", c.AutoRefresh.Enabled)
	c.AutoRefresh.Time = getEnvString("AUTO_REFRESH_TIME", c.AutoRefresh.Time)
	c.AutoRefresh.RetryCount = getEnvInt("AUTO_REFRESH_RETRY_COUNT", c.AutoRefresh.RetryCount)
	c.AutoRefresh.RetryInterval = getEnvDuration("AUTO_REFRESH_RETRY_INTERVAL", c.AutoRefresh.RetryInterval)
	c.AutoRefresh.HolidayFile = getEnvString("HOLIDAY_FILE", c.AutoRefresh.HolidayFile)

	if c.Sources == nil {
		c.Sources = make(map[model.Entity]string)
	}
	for _, e := range model.Entities() {
		key := "SOURCE_" + strings.ToUpper(string(e))
		c.Sources[e] = getEnvString(key, c.Sources[e])
	}
}

// FillCutoff 解析后的填息截止日
func (c *Config) FillCutoff() time.Time {
	t, err := time.ParseInLocation(time.DateOnly, c.Analysis.FillCutoffDate, time.Local)
	if err != nil {
		t, _ = time.ParseInLocation(time.DateOnly, DefaultFillCutoffDate, time.Local)
	}
	return t
}

// 辅助函数
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
