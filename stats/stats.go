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

// Package stats 管理每款遊戲的可編輯統計值、待儲存集合與批次儲存。
package stats

import (
	"sort"
	"strings"
	"sync"

	"github.com/zintix-labs/pokies/errs"
)

// GameStats 是單一遊戲的統計紀錄；四個欄位皆為選填字串。
type GameStats struct {
	MaxPay   string `json:"maxPay,omitempty" yaml:"maxPay,omitempty"`
	RTP      string `json:"rtp,omitempty" yaml:"rtp,omitempty"`
	LastWin  string `json:"lastWin,omitempty" yaml:"lastWin,omitempty"`
	TotalBet string `json:"totalBet,omitempty" yaml:"totalBet,omitempty"`
}

func (gs GameStats) IsZero() bool { return gs == GameStats{} }

// Get 取出指定欄位的值。
func (gs GameStats) Get(f Field) string {
	switch f {
	case MaxPay:
		return gs.MaxPay
	case RTP:
		return gs.RTP
	case LastWin:
		return gs.LastWin
	case TotalBet:
		return gs.TotalBet
	}
	return ""
}

// With 回傳只替換欄位 f 的副本。
func (gs GameStats) With(f Field, value string) GameStats {
	switch f {
	case MaxPay:
		gs.MaxPay = value
	case RTP:
		gs.RTP = value
	case LastWin:
		gs.LastWin = value
	case TotalBet:
		gs.TotalBet = value
	}
	return gs
}

// Field 列舉可編輯欄位。
type Field uint8

const (
	MaxPay Field = iota
	RTP
	LastWin
	TotalBet
)

var fieldKeys = [...]string{
	MaxPay:   "maxPay",
	RTP:      "rtp",
	LastWin:  "lastWin",
	TotalBet: "totalBet",
}

func Fields() []Field { return []Field{MaxPay, RTP, LastWin, TotalBet} }

func (f Field) String() string {
	if int(f) < len(fieldKeys) {
		return fieldKeys[f]
	}
	return "unknown"
}

// ParseField 接受 JSON key（不分大小寫）與 snake_case 別名。
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	for i, k := range fieldKeys {
		if strings.ToLower(k) == key {
			return Field(i), nil
		}
	}
	return 0, errs.Warnf("unknown stat field: %q", s)
}

// Editor 保存 session 內的統計紀錄與待儲存集合。
// 批次儲存在背景 goroutine 執行，因此所有方法都以 mutex 保護。
type Editor struct {
	mu      sync.Mutex
	byGame  map[string]GameStats
	pending map[string]uint64   // name -> 最後一次編輯的 revision
	dirty   map[string]FieldSet // name -> 待儲存的欄位
	rev     uint64
}

func NewEditor() *Editor {
	return &Editor{
		byGame:  map[string]GameStats{},
		pending: map[string]uint64{},
		dirty:   map[string]FieldSet{},
	}
}

// SetStat 更新（必要時建立）name 的紀錄，只改欄位 f，並把 name 標記為待儲存。
// 空字串也是一次修改：儲存時會送出，以清除後端的值。
func (e *Editor) SetStat(name string, f Field, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byGame[name] = e.byGame[name].With(f, value)
	e.dirty[name] = e.dirty[name].With(f)
	e.rev++
	e.pending[name] = e.rev
}

func (e *Editor) Stats(name string) (GameStats, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	gs, ok := e.byGame[name]
	return gs, ok
}

// All 回傳所有紀錄的副本。
func (e *Editor) All() map[string]GameStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]GameStats, len(e.byGame))
	for k, v := range e.byGame {
		out[k] = v
	}
	return out
}

// Pending 回傳排序後的待儲存遊戲名稱。
func (e *Editor) Pending() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.pending))
	for k := range e.pending {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e *Editor) PendingLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

func (e *Editor) HasPending() bool { return e.PendingLen() > 0 }

// Reset 丟棄所有紀錄與待儲存集合（session 結束時使用）。
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.byGame = map[string]GameStats{}
	e.pending = map[string]uint64{}
	e.dirty = map[string]FieldSet{}
}

type snapshotItem struct {
	name  string
	patch Patch
	rev   uint64
}

func (e *Editor) snapshot() []snapshotItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]snapshotItem, 0, len(e.pending))
	for name, rev := range e.pending {
		out = append(out, snapshotItem{name: name, patch: Patch{Stats: e.byGame[name], Set: e.dirty[name]}, rev: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// clear 移除快照中的待儲存項目；儲存期間被再次編輯者（revision 改變）保留。
func (e *Editor) clear(items []snapshotItem) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, it := range items {
		if e.pending[it.name] == it.rev {
			delete(e.pending, it.name)
			delete(e.dirty, it.name)
		}
	}
}
