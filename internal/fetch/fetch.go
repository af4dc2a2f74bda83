// Package fetch 从远端抓取CSV文本，单个来源失败不影响其他来源。
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"etf-dashboard-backend/internal/csvdata"
)

// ErrBrokenContent 数据源返回了错误页面
var ErrBrokenContent = errors.New("数据源返回错误页面")

// maxBodySize 单个来源最多读取的字节数
const maxBodySize = 64 << 20

// Getter 抓取单个URL的文本
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Fetcher 基于HTTP的 Getter
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

// New 创建抓取器，timeout 为单次请求超时
func New(timeout time.Duration, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NewWithClient 使用自定义HTTP客户端
func NewWithClient(client *http.Client, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Fetch 抓取URL文本；非2xx状态或错误页面均返回错误
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target := NormalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/csv,text/plain,*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP状态异常: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	text := string(body)
	if csvdata.IsBrokenContent(text) {
		f.logger.Warn("数据源返回错误页面", zap.String("url", target))
		return "", ErrBrokenContent
	}
	f.logger.Debug("抓取完成", zap.String("url", target), zap.Int("bytes", len(body)))
	return text, nil
}

// SplitURLs 拆分以 "|" 分隔的多个来源
func SplitURLs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeURL Google试算表“发布到网络”的链接补上 output=csv
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	if !strings.Contains(u.Host, "docs.google.com") || !strings.Contains(u.Path, "/pub") {
		return u.String()
	}
	q := u.Query()
	if q.Get("output") == "" {
		q.Set("output", "csv")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Result 单个来源的抓取结果
type Result struct {
	URL  string
	Text string
	Err  error
}

// FetchAll 并发抓取全部来源，结果顺序与输入一致
func FetchAll(ctx context.Context, g Getter, urls []string) []Result {
	results := make([]Result, len(urls))
	var eg errgroup.Group
	eg.SetLimit(4)
	for i, u := range urls {
		eg.Go(func() error {
			text, err := g.Fetch(ctx, u)
			results[i] = Result{URL: u, Text: text, Err: err}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
