// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client 是 pokies 後端 API 的 HTTP 客戶端。
//
// 它同時實作 catalog.Fetcher（GET /api/games）與 stats.Poster（POST /api/stats/{name}），
// 並以 zstd / gzip 協商回應壓縮。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/stats"
)

const maxBodyBytes = 32 << 20

// StatusError 表示後端回了非 2xx。
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

type Client struct {
	base    string
	hc      *http.Client
	timeout time.Duration
	log     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTimeout 設定單一請求的逾時；0 表示不設限（預設）。
// 套用在 http.Client 的副本上，不影響 WithHTTPClient 傳入的原物件。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New 以後端 base URL（例如 http://localhost:5808）建立 Client。
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, errs.WrapAs(errs.Warn, err, "invalid api base url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errs.Warnf("invalid api base url: %q (scheme must be http or https)", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		hc:   &http.Client{},
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.hc
		hc.Timeout = c.timeout
		c.hc = &hc
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.base }

// FetchGames 取回原始遊戲清單文字。
func (c *Client) FetchGames(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/games", nil)
	if err != nil {
		return "", errs.Wrap(err, "build games request")
	}
	req.Header.Set("Accept", "text/plain")
	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// PostStats 送出單一遊戲被修改過的欄位。成功條件：2xx 且回應為 JSON 物件。
func (c *Client) PostStats(ctx context.Context, name string, p stats.Patch) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return errs.Wrap(err, "encode stats payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.statsURL(name), bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, "build stats request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	body, err := c.do(req)
	if err != nil {
		return errs.WrapWithExtra(err, "post stats failed", name)
	}
	var ack map[string]any
	if err := json.Unmarshal(body, &ack); err != nil || ack == nil {
		if err == nil {
			err = errs.NewFatal("response is not a json object")
		}
		return errs.WrapWithExtra(err, "invalid stats response", name)
	}
	c.log.Debug("stats saved", slog.String("game", name))
	return nil
}

// GetStats 讀取後端目前保存的紀錄。
func (c *Client) GetStats(ctx context.Context, name string) (stats.GameStats, error) {
	var out stats.GameStats
	err := c.getJSON(ctx, c.statsURL(name), &out)
	return out, err
}

// Summary 讀取後端的統計摘要。
func (c *Client) Summary(ctx context.Context) (stats.Summary, error) {
	var out stats.Summary
	err := c.getJSON(ctx, c.base+"/api/summary", &out)
	return out, err
}

func (c *Client) statsURL(name string) string {
	return c.base + "/api/stats/" + url.PathEscape(name)
}

func (c *Client) getJSON(ctx context.Context, target string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errs.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.Wrap(err, "decode response")
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.Redacted()),
			slog.Any("err", err))
		return nil, errs.Wrap(err, "api request failed")
	}
	defer resp.Body.Close()

	rc, err := decodeBody(resp)
	if err != nil {
		return nil, errs.Wrap(err, "open response body")
	}
	defer rc.Close()
	body, err := io.ReadAll(io.LimitReader(rc, maxBodyBytes))
	if err != nil {
		return nil, errs.Wrap(err, "read response body")
	}

	c.log.Debug("api request",
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		lv := errs.Fatal
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			lv = errs.Warn
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, errs.WrapAs(lv, errs.ErrNotFound, se.Error())
		}
		return nil, errs.WrapAs(lv, se, "api request rejected")
	}
	return body, nil
}

func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "zstd":
		zr, err := zstd.NewReader(resp.Body, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case "gzip":
		return gzip.NewReader(resp.Body)
	default:
		return io.NopCloser(resp.Body), nil
	}
}
