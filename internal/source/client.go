package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/afumu/codash/internal/model"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	maxBodyBytes = 8 << 20
)

// ClientConfig 是出站 HTTP 客户端的配置。
type ClientConfig struct {
	Timeout   time.Duration
	UserAgent string
	// RPS 是每个平台的出站请求速率，<= 0 表示不限速。
	RPS   float64
	Burst int
}

// Client 对所有外部平台发起请求：每次调用单独超时，并按平台限速。
type Client struct {
	HTTP      *http.Client
	userAgent string
	timeout   atomic.Int64

	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[model.Platform]*rate.Limiter
}

// NewClient 创建客户端。Transport 留空以使用 http.DefaultTransport。
func NewClient(conf ClientConfig) *Client {
	c := &Client{
		HTTP:      &http.Client{},
		userAgent: conf.UserAgent,
		limiters:  make(map[model.Platform]*rate.Limiter),
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	c.SetTimeout(conf.Timeout)
	c.SetRate(conf.RPS, conf.Burst)
	return c
}

// SetTimeout 修改单次请求超时，对之后发起的请求生效。
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	c.timeout.Store(int64(d))
}

// Timeout 返回当前的单次请求超时。
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.timeout.Load())
}

// SetRate 修改每个平台的限速，已有的限速器原地更新。
func (c *Client) SetRate(rps float64, burst int) {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst <= 0 {
		burst = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.limit, c.burst = limit, burst
	for _, l := range c.limiters {
		l.SetLimit(limit)
		l.SetBurst(burst)
	}
}

func (c *Client) limiter(p model.Platform) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[p]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[p] = l
	}
	return l
}

// Get 发起 GET 请求并返回响应体。非 2xx 返回 *StatusError。
func (c *Client) Get(ctx context.Context, p model.Platform, url string, accept string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return c.do(ctx, p, req)
}

// GetJSON 是 Accept 为 application/json 的 Get。
func (c *Client) GetJSON(ctx context.Context, p model.Platform, url string) ([]byte, error) {
	return c.Get(ctx, p, url, "application/json")
}

// GetDocument 获取并解析 HTML 页面。
func (c *Client) GetDocument(ctx context.Context, p model.Platform, url string) (*goquery.Document, []byte, error) {
	body, err := c.Get(ctx, p, url, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, unavailable("parse html %s: %v", url, err)
	}
	return doc, body, nil
}

// PostJSON 以 JSON 发送 payload 并返回响应体。
func (c *Client) PostJSON(ctx context.Context, p model.Platform, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// LeetCode 的 GraphQL 会拒绝没有 Referer 的请求
	if strings.Contains(url, "leetcode.com") {
		req.Header.Set("Referer", "https://leetcode.com")
	}
	return c.do(ctx, p, req)
}

func (c *Client) do(ctx context.Context, p model.Platform, req *http.Request) ([]byte, error) {
	if err := c.limiter(p).Wait(ctx); err != nil {
		return nil, unavailable("rate limit wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout())
	defer cancel()
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", c.userAgent)

	url := req.URL.String()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, unavailable("request %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, unavailable("read %s: %v", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}
