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

// Package pokies 組裝一個瀏覽 session：遊戲清單、字母/前綴篩選、統計編輯與批次儲存。
//
// Session 持有所有 session 內的可變狀態（清單快取、篩選條件、待儲存集合、儲存中旗標），
// 建立時皆為空，Close() 時一併丟棄；套件層級不保存任何狀態。
//
// 典型使用：
//
//	c, _ := client.New("http://localhost:5808")
//	s, _ := pokies.NewSession(c, c)
//	_ = s.SetLetter("b")
//	res, err := s.Search(ctx)
//	s.SetStat(res[0].Name, stats.RTP, "96.5%")
//	_, err = s.SaveAll(ctx)
package pokies

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zintix-labs/pokies/catalog"
	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/filter"
	"github.com/zintix-labs/pokies/gamelink"
	"github.com/zintix-labs/pokies/stats"
)

// Result 是一筆可顯示的搜尋結果。Stats 為 session 內目前的編輯值（可能為零值）。
type Result struct {
	Name  string
	Link  string
	Stats stats.GameStats
}

type Option func(*sessionOpts)

type sessionOpts struct {
	log       *slog.Logger
	linker    gamelink.Linker
	loaderOps []catalog.Option
	saverOps  []stats.SaverOption
}

func WithLogger(log *slog.Logger) Option {
	return func(o *sessionOpts) {
		if log != nil {
			o.log = log
		}
	}
}

func WithLinker(l gamelink.Linker) Option {
	return func(o *sessionOpts) { o.linker = l }
}

// WithCoalesce 讓同時發生的清單載入共用一次 fetch。
func WithCoalesce() Option {
	return func(o *sessionOpts) { o.loaderOps = append(o.loaderOps, catalog.WithCoalesce()) }
}

// WithSaveWorkers 限制批次儲存同時在途的請求數；n <= 0 不限制。
func WithSaveWorkers(n int) Option {
	return func(o *sessionOpts) { o.saverOps = append(o.saverOps, stats.WithWorkers(n)) }
}

// WithSaveProgress 每完成一筆儲存請求呼叫 fn。
func WithSaveProgress(fn func(done, total int)) Option {
	return func(o *sessionOpts) { o.saverOps = append(o.saverOps, stats.WithProgress(fn)) }
}

type Session struct {
	log    *slog.Logger
	linker gamelink.Linker
	loader *catalog.Loader
	editor *stats.Editor
	saver  *stats.Saver

	mu    sync.Mutex
	state filter.State
}

// NewSession 以清單來源與統計送出端建立 session。兩者皆為必要依賴。
func NewSession(src catalog.Fetcher, post stats.Poster, opts ...Option) (*Session, error) {
	o := &sessionOpts{
		log:    slog.New(slog.DiscardHandler),
		linker: gamelink.NewLinker("", ""),
	}
	for _, opt := range opts {
		opt(o)
	}
	loader, err := catalog.NewLoader(src, o.loaderOps...)
	if err != nil {
		return nil, errs.Wrap(err, "new session failed")
	}
	ed := stats.NewEditor()
	saver, err := stats.NewSaver(ed, post, o.saverOps...)
	if err != nil {
		return nil, errs.Wrap(err, "new session failed")
	}
	return &Session{
		log:    o.log,
		linker: o.linker,
		loader: loader,
		editor: ed,
		saver:  saver,
		state:  filter.NewState(),
	}, nil
}

// SetLetter 設定字母篩選（all、0-9 或單一字母）。
func (s *Session) SetLetter(sel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SetLetter(sel)
}

func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetQuery(q)
}

// Filter 回傳目前的篩選條件。
func (s *Session) Filter() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search 依目前條件回傳結果。
//
// 條件為 all 且 query 為空白時直接回傳空結果，不會觸發清單載入。
// 清單載入失敗會記錄並回傳錯誤；快取保持空白，下次 Search 會重新 fetch。
func (s *Session) Search(ctx context.Context) ([]Result, error) {
	st := s.Filter()
	if st.Empty() {
		return []Result{}, nil
	}
	games, err := s.loader.Load(ctx)
	if err != nil {
		s.log.Error("load catalog failed", slog.Any("err", err))
		return nil, errs.Wrap(err, "search failed")
	}
	matched := st.Apply(games)
	out := make([]Result, 0, len(matched))
	for _, name := range matched {
		gs, _ := s.editor.Stats(name)
		out = append(out, Result{Name: name, Link: s.linker.Link(name), Stats: gs})
	}
	return out, nil
}

// SetStat 修改 name 的單一欄位並標記為待儲存。
func (s *Session) SetStat(name string, f stats.Field, value string) {
	s.editor.SetStat(name, f, value)
}

// SaveAll 送出所有待儲存項目。儲存中或無待儲存項目時為 no-op（result.Skipped 非零）。
func (s *Session) SaveAll(ctx context.Context) (*stats.BatchResult, error) {
	res, err := s.saver.SaveAll(ctx)
	switch {
	case err != nil:
		s.log.Error("save stats failed", slog.Any("err", err), slog.Any("failed", res.Failed()))
	case res.Skipped != stats.NotSkipped:
		s.log.Debug("save skipped", slog.String("reason", res.Skipped.String()))
	default:
		s.log.Info("stats saved", slog.Int("games", len(res.Items)))
	}
	return res, err
}

func (s *Session) Saving() bool { return s.saver.Saving() }

// Reload 丟棄清單快取，下次 Search 重新 fetch。
func (s *Session) Reload() { s.loader.Invalidate() }

func (s *Session) Link(name string) string { return s.linker.Link(name) }

func (s *Session) Pending() []string { return s.editor.Pending() }

// Stats 回傳 session 內所有統計紀錄的副本。
func (s *Session) Stats() map[string]stats.GameStats { return s.editor.All() }

// Fetches 回傳清單實際 fetch 的次數。
func (s *Session) Fetches() int { return s.loader.Fetches() }

// Close 結束 session：丟棄清單快取、統計紀錄與待儲存集合，並重設篩選條件。
func (s *Session) Close() {
	s.loader.Invalidate()
	s.editor.Reset()
	s.mu.Lock()
	s.state.Reset()
	s.mu.Unlock()
}
