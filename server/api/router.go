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

package api

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/pokies/server/api/dev"
	v1 "github.com/zintix-labs/pokies/server/api/v1"
	"github.com/zintix-labs/pokies/server/netsvr"
	"github.com/zintix-labs/pokies/server/netsvr/middleware"
	"github.com/zintix-labs/pokies/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	registerHealth(svr)               // 2. 健康檢查
	dev.Register(svr)                 // 3. 開發者瀏覽頁
	return registerAPI(svr, sCfg)     // 4. 註冊 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

func registerHealth(svr netsvr.NetSvr) {
	svr.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
}

// 註冊 api
func registerAPI(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	g, err := v1.NewGamesHandler(sCfg)
	if err != nil {
		return err
	}
	s, err := v1.NewStatsHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/api", func(r netsvr.NetRouter) {
		r.Get("/games", g.Games)
		r.Post("/games/reload", g.Reload)
		r.Get("/search", g.Search)

		r.Get("/summary", s.Summary)
		r.Get("/stats", s.List)
		r.Get("/stats/{name}", s.Get)
		r.Post("/stats/{name}", s.Post)
	})
	return nil
}
