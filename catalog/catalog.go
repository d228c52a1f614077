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

// Package catalog 負責取得遊戲清單並在 session 期間快取。
//
// 清單來源是一份以換行分隔的純文字，每行一個遊戲名稱；
// 空白行與以 '#' 開頭的註解行在載入時即被排除，之後不會再出現。
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/zintix-labs/pokies/errs"
	"golang.org/x/sync/singleflight"
)

// Fetcher 抽象「取回原始清單文字」的來源（HTTP、檔案、測試替身）。
type Fetcher interface {
	FetchGames(ctx context.Context) (string, error)
}

// FetcherFunc 讓一般函數滿足 Fetcher。
type FetcherFunc func(ctx context.Context) (string, error)

func (f FetcherFunc) FetchGames(ctx context.Context) (string, error) { return f(ctx) }

// Parse 將原始文字切成遊戲名稱。
//   - 以 '\n' 分行，並去除行尾 '\r'
//   - 排除只含空白的行
//   - 排除以 '#' 開頭的行（前面有空白者不算註解，保留原文）
func Parse(raw string) []string {
	if raw == "" {
		return []string{}
	}
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

const sfKey = "games"

type Option func(*Loader)

// WithCoalesce 讓同時發生的多個快取未命中共用一次 fetch。
func WithCoalesce() Option {
	return func(l *Loader) { l.coalesce = true }
}

// Loader 是 fetch-once 的記憶化載入器。
//
// 併發合約：
//   - 快取檢查不是鎖。預設模式下，兩個 Load 若都看到空快取，會各自 fetch，
//     最後完成者的結果覆蓋快取（last write wins）。
//   - WithCoalesce 之下，同時的未命中只會發出一次 fetch。
//   - fetch 失敗時快取保持空白，不自動重試；下一次 Load 會重新 fetch。
//   - Invalidate 之前已發出的 fetch 不會寫回快取，之後的 Load 一律重新 fetch。
type Loader struct {
	src      Fetcher
	coalesce bool
	sf       singleflight.Group

	mu      sync.RWMutex
	games   []string
	loaded  bool
	fetches int
	gen     uint64 // Invalidate 時遞增
}

func NewLoader(src Fetcher, opts ...Option) (*Loader, error) {
	if src == nil {
		return nil, errs.NewFatal("catalog fetcher is required")
	}
	l := &Loader{src: src}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Load 回傳遊戲清單（副本）。首次呼叫會 fetch，之後直接回傳快取。
func (l *Loader) Load(ctx context.Context) ([]string, error) {
	if games, ok := l.Cached(); ok {
		return games, nil
	}
	if !l.coalesce {
		games, err := l.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return clone(games), nil
	}
	v, err, _ := l.sf.Do(sfKey, func() (any, error) {
		return l.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]string)), nil
}

func (l *Loader) fetch(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	l.fetches++
	gen := l.gen
	l.mu.Unlock()

	raw, err := l.src.FetchGames(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "fetch game catalog failed")
	}
	games := Parse(raw)

	l.mu.Lock()
	if l.gen == gen {
		l.games = games
		l.loaded = true
	}
	l.mu.Unlock()
	return games, nil
}

// Cached 回傳目前快取（副本）；尚未載入時 ok=false。
func (l *Loader) Cached() ([]string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, false
	}
	return clone(l.games), true
}

// Invalidate 丟棄快取，下一次 Load 會重新 fetch。
// 在途的 fetch 仍會回傳給原本的呼叫者，但結果不進快取。
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.games = nil
	l.loaded = false
	l.gen++
	l.mu.Unlock()
	l.sf.Forget(sfKey)
}

// Fetches 回傳至今實際發出的 fetch 次數。
func (l *Loader) Fetches() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fetches
}

func clone(s []string) []string {
	return append([]string{}, s...)
}
