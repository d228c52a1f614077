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
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/pokies/catalog"
	"github.com/zintix-labs/pokies/dto"
	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/filter"
	"github.com/zintix-labs/pokies/gamelink"
	"github.com/zintix-labs/pokies/server/httperr"
	"github.com/zintix-labs/pokies/server/svrcfg"
	"github.com/zintix-labs/pokies/store"
)

// GamesHandler 提供遊戲清單與伺服器端搜尋。
type GamesHandler struct {
	fsys   fs.FS
	file   string
	loader *catalog.Loader
	linker gamelink.Linker
	store  *store.MemStore
	log    *slog.Logger
}

func NewGamesHandler(sCfg *svrcfg.SvrCfg) (*GamesHandler, error) {
	h := &GamesHandler{
		fsys:   sCfg.CatalogFS,
		file:   sCfg.CatalogFile,
		linker: sCfg.Linker,
		store:  sCfg.Store,
		log:    sCfg.Log,
	}
	l, err := catalog.NewLoader(catalog.FetcherFunc(h.readRaw), catalog.WithCoalesce())
	if err != nil {
		return nil, errs.Wrap(err, "build games handler error")
	}
	h.loader = l
	return h, nil
}

func (h *GamesHandler) readRaw(ctx context.Context) (string, error) {
	raw, err := fs.ReadFile(h.fsys, h.file)
	if err != nil {
		return "", errs.Wrap(err, "read catalog file")
	}
	return string(raw), nil
}

// Games GET /api/games：原樣回傳清單文字（含註解行，由客戶端解析）。
func (h *GamesHandler) Games(w http.ResponseWriter, r *http.Request) {
	raw, err := h.readRaw(r.Context())
	if err != nil {
		httperr.Log(h.log, "serve games", err)
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(raw))
}

// Reload POST /api/games/reload：丟棄伺服器端搜尋用的清單快取。
func (h *GamesHandler) Reload(w http.ResponseWriter, r *http.Request) {
	h.loader.Invalidate()
	games, err := h.loader.Load(r.Context())
	if err != nil {
		httperr.Log(h.log, "reload games", err)
		httperr.Errs(w, err)
		return
	}
	h.log.Info("catalog reloaded", slog.Int("games", len(games)))
	writeJSON(w, http.StatusOK, map[string]int{"games": len(games)})
}

// Search GET /api/search?letter=&q=
func (h *GamesHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSearchRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	res := dto.SearchResult{Letter: req.Letter.String(), Query: req.Query, Games: []dto.GameView{}}

	st := filter.State{Selector: req.Letter, Query: req.Query}
	if !st.Empty() {
		games, err := h.loader.Load(r.Context())
		if err != nil {
			httperr.Log(h.log, "search games", err)
			httperr.Errs(w, err)
			return
		}
		for _, g := range st.Apply(games) {
			view := dto.GameView{Name: g, Link: h.linker.Link(g)}
			if rec, err := h.store.Get(g); err == nil {
				s := rec.Stats
				view.Stats = &s
			}
			res.Games = append(res.Games, view)
		}
	}
	res.Total = len(res.Games)
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
