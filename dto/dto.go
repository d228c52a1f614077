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

package dto

import (
	"time"

	"github.com/zintix-labs/pokies/stats"
)

// StatsAck 是 POST /api/stats/{name} 的回應。
type StatsAck struct {
	Game      string          `json:"game"`
	Slug      string          `json:"slug"`
	Stats     stats.GameStats `json:"stats"` // 合併後的完整紀錄
	UpdatedAt time.Time       `json:"updated_at"`
	Created   bool            `json:"created,omitempty"` // 是否為首次建立
}

// GameView 是單筆搜尋結果。
type GameView struct {
	Name  string           `json:"name"`
	Link  string           `json:"link"`
	Stats *stats.GameStats `json:"stats,omitempty"`
}

// SearchResult 是 GET /api/search 的回應。
type SearchResult struct {
	Letter string     `json:"letter"`
	Query  string     `json:"query"`
	Total  int        `json:"total"`
	Games  []GameView `json:"games"`
}

// StatsList 是 GET /api/stats 的回應。
type StatsList struct {
	Total int                        `json:"total"`
	Stats map[string]stats.GameStats `json:"stats"`
}
