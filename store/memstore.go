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

// Package store 是後端的記憶體統計存放區。
//
// 只存在於行程生命週期內，不落地；重啟即清空。
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/stats"
)

type Record struct {
	Game      string
	Stats     stats.GameStats
	UpdatedAt time.Time
}

type MemStore struct {
	mu   sync.RWMutex
	recs map[string]Record
	now  func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		recs: map[string]Record{},
		now:  time.Now,
	}
}

// Upsert 把 patch 套用到既有紀錄（Set 內的空字串會清除欄位）；回傳結果與是否為新建。
func (m *MemStore) Upsert(game string, patch stats.Patch) (Record, bool, error) {
	if strings.TrimSpace(game) == "" {
		return Record{}, false, errs.NewWarn("game name required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[game]
	rec.Game = game
	rec.Stats = patch.Apply(rec.Stats)
	rec.UpdatedAt = m.now()
	m.recs[game] = rec
	return rec, !ok, nil
}

func (m *MemStore) Get(game string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[game]
	if !ok {
		return Record{}, errs.ErrNotFound.WithExtra(game)
	}
	return rec, nil
}

// Snapshot 回傳目前所有紀錄的副本。
func (m *MemStore) Snapshot() map[string]stats.GameStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]stats.GameStats, len(m.recs))
	for k, r := range m.recs {
		out[k] = r.Stats
	}
	return out
}

// Games 回傳排序後的遊戲名稱。
func (m *MemStore) Games() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.recs))
	for k := range m.recs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recs)
}
