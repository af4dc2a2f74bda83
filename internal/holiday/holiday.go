// Package holiday 交易日判断：周末与自定义休市日不交易。
package holiday

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Calendar 交易日历
type Calendar struct {
	mu       sync.RWMutex
	holidays map[string]bool
}

// NewCalendar 只按周末判断的日历
func NewCalendar(holidays ...string) *Calendar {
	c := &Calendar{holidays: make(map[string]bool)}
	for _, d := range holidays {
		c.holidays[d] = true
	}
	return c
}

// LoadCalendar 从文件加载休市日，文件不存在时返回空日历。
// 文件格式：{"holidays": ["2026-01-01", "2026-02-16", ...]}，JSON或YAML均可
func LoadCalendar(path string) (*Calendar, error) {
	c := NewCalendar()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("读取休市日配置失败: %w", err)
	}

	var file struct {
		Holidays []string `yaml:"holidays"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("解析休市日配置失败: %w", err)
	}
	for _, d := range file.Holidays {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("休市日格式错误 %q: %w", d, err)
		}
		c.holidays[t.Format(dateLayout)] = true
	}
	return c, nil
}

// Len 休市日数量
func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.holidays)
}

// IsTradingDay 周一到周五且不在休市日列表中
func (c *Calendar) IsTradingDay(date time.Time) bool {
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.holidays[date.Format(dateLayout)]
}

// IsTradingTime 台股交易时段 09:00-13:30
func (c *Calendar) IsTradingTime(t time.Time) bool {
	if !c.IsTradingDay(t) {
		return false
	}
	hhmm := t.Hour()*100 + t.Minute()
	return hhmm >= 900 && hhmm < 1330
}

// NextRun now 之后第一个交易日的 hour:minute
func (c *Calendar) NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	// 最多向后找一年
	for i := 0; i < 366 && !c.IsTradingDay(next); i++ {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
