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

package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/zintix-labs/pokies/dto"
	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/gamelink"
	"github.com/zintix-labs/pokies/server/httperr"
	"github.com/zintix-labs/pokies/server/netsvr"
	"github.com/zintix-labs/pokies/server/svrcfg"
	"github.com/zintix-labs/pokies/stats"
	"github.com/zintix-labs/pokies/store"
)

// StatsHandler 提供每款遊戲統計的讀寫。
type StatsHandler struct {
	store *store.MemStore
	log   *slog.Logger
}

func NewStatsHandler(sCfg *svrcfg.SvrCfg) (*StatsHandler, error) {
	if sCfg.Store == nil {
		return nil, errs.NewFatal("stats store is required")
	}
	return &StatsHandler{store: sCfg.Store, log: sCfg.Log}, nil
}

// Post POST /api/stats/{name}：套用 body 中出現的欄位，空字串代表清除。
func (h *StatsHandler) Post(w http.ResponseWriter, r *http.Request) {
	name := netsvr.URLParam(r, "name")
	if strings.TrimSpace(name) == "" {
		httperr.Errs(w, errs.NewWarn("game name required"))
		return
	}
	patch, err := dto.DecodeStatsRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	rec, created, err := h.store.Upsert(name, patch)
	if err != nil {
		httperr.Log(h.log, "upsert stats", err)
		httperr.Errs(w, err)
		return
	}
	h.log.Debug("stats updated", slog.String("game", name), slog.Bool("created", created))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto.StatsAck{
		Game:      rec.Game,
		Slug:      gamelink.Normalize(rec.Game),
		Stats:     rec.Stats,
		UpdatedAt: rec.UpdatedAt,
		Created:   created,
	})
}

// Get GET /api/stats/{name}
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.Get(netsvr.URLParam(r, "name"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Stats)
}

// List GET /api/stats
func (h *StatsHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.store.Snapshot()
	writeJSON(w, http.StatusOK, dto.StatsList{Total: len(all), Stats: all})
}

// Summary GET /api/summary
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stats.Summarize(h.store.Snapshot()))
}
