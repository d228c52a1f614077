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

package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/zintix-labs/pokies/errs"
	"golang.org/x/sync/errgroup"
)

var ErrBatchFailed = errs.NewFatal("batch save failed")

// Poster 把單一遊戲本次修改過的欄位送到後端。非 2xx 或回應無法解析都應回傳 error。
type Poster interface {
	PostStats(ctx context.Context, name string, p Patch) error
}

type PosterFunc func(ctx context.Context, name string, p Patch) error

func (f PosterFunc) PostStats(ctx context.Context, name string, p Patch) error {
	return f(ctx, name, p)
}

// SkipReason 說明 SaveAll 為何沒有發出任何請求。
type SkipReason uint8

const (
	NotSkipped SkipReason = iota
	SkipInFlight
	SkipEmpty
)

func (r SkipReason) String() string {
	switch r {
	case SkipInFlight:
		return "in_flight"
	case SkipEmpty:
		return "empty"
	default:
		return ""
	}
}

// ItemResult 是單一遊戲的儲存結果。
type ItemResult struct {
	Name string
	Err  error
}

// BatchResult 彙整一次 fan-out 的所有結果，依遊戲名稱排序。
type BatchResult struct {
	Skipped SkipReason
	Items   []ItemResult
}

func (br *BatchResult) OK() bool {
	if br.Skipped != NotSkipped {
		return false
	}
	for _, it := range br.Items {
		if it.Err != nil {
			return false
		}
	}
	return true
}

// Failed 回傳失敗的遊戲名稱。
func (br *BatchResult) Failed() []string {
	var out []string
	for _, it := range br.Items {
		if it.Err != nil {
			out = append(out, it.Name)
		}
	}
	return out
}

// Err 合併所有單項錯誤；全部成功回傳 nil。
func (br *BatchResult) Err() error {
	var all []error
	for _, it := range br.Items {
		if it.Err != nil {
			all = append(all, fmt.Errorf("%s: %w", it.Name, it.Err))
		}
	}
	return errors.Join(all...)
}

type SaverOption func(*Saver)

// WithWorkers 限制同時在途的請求數；n <= 0 表示不限制。
func WithWorkers(n int) SaverOption {
	return func(s *Saver) { s.workers = n }
}

// WithProgress 每完成一筆請求呼叫 fn(done, total)。fn 可能被多個 goroutine 同時呼叫。
func WithProgress(fn func(done, total int)) SaverOption {
	return func(s *Saver) { s.progress = fn }
}

// Saver 把 Editor 的待儲存項目批次送出。
//
// 合約：
//   - 已有批次在途或沒有待儲存項目時直接返回（Skipped），不排隊。
//   - 每個待儲存遊戲一個獨立請求，同時發出，全部完成後才回傳。
//   - 全部成功才清除待儲存集合；任一失敗則整批視為失敗，待儲存集合保持原樣以便重試。
type Saver struct {
	ed       *Editor
	post     Poster
	workers  int
	progress func(done, total int)
	saving   atomic.Bool
}

func NewSaver(ed *Editor, post Poster, opts ...SaverOption) (*Saver, error) {
	if ed == nil {
		return nil, errs.NewFatal("stats editor is required")
	}
	if post == nil {
		return nil, errs.NewFatal("stats poster is required")
	}
	s := &Saver{ed: ed, post: post}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Saving 回報目前是否有批次在途。
func (s *Saver) Saving() bool { return s.saving.Load() }

func (s *Saver) SaveAll(ctx context.Context) (*BatchResult, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return &BatchResult{Skipped: SkipInFlight}, nil
	}
	defer s.saving.Store(false)

	snap := s.ed.snapshot()
	if len(snap) == 0 {
		return &BatchResult{Skipped: SkipEmpty}, nil
	}

	res := &BatchResult{Items: make([]ItemResult, len(snap))}
	var done atomic.Int32
	var g errgroup.Group
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}
	for i, it := range snap {
		g.Go(func() error {
			err := s.post.PostStats(ctx, it.name, it.patch)
			res.Items[i] = ItemResult{Name: it.name, Err: err}
			if s.progress != nil {
				s.progress(int(done.Add(1)), len(snap))
			}
			// 單項失敗不回傳給 group，避免影響其他請求
			return nil
		})
	}
	_ = g.Wait()

	if failed := res.Failed(); len(failed) > 0 {
		return res, errs.WrapWithExtra(errors.Join(ErrBatchFailed, res.Err()),
			"save stats", fmt.Sprintf("failed %d/%d: %s", len(failed), len(snap), strings.Join(failed, ", ")))
	}
	s.ed.clear(snap)
	return res, nil
}
