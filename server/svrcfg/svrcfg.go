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

package svrcfg

import (
	"io/fs"
	"log/slog"
	"strings"

	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/gamelink"
	"github.com/zintix-labs/pokies/server/logger"
	"github.com/zintix-labs/pokies/store"
)

const DefaultAddr = ":5808"

// SvrCfg 是後端所需的全部依賴；由 cmd 組裝後注入，server 不自行讀檔或讀環境變數。
type SvrCfg struct {
	Log         *slog.Logger
	Addr        string
	CatalogFS   fs.FS  // 遊戲清單來源
	CatalogFile string // CatalogFS 中的檔名
	Store       *store.MemStore
	Linker      gamelink.Linker
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if strings.TrimSpace(sc.Addr) == "" {
		sc.Addr = DefaultAddr
	}
	if sc.CatalogFS == nil {
		return errs.NewFatal("catalog fs is required")
	}
	if sc.CatalogFile == "" {
		return errs.NewFatal("catalog file name is required")
	}
	if _, err := fs.Stat(sc.CatalogFS, sc.CatalogFile); err != nil {
		return errs.Wrap(err, "catalog file not found")
	}
	if sc.Store == nil {
		sc.Store = store.NewMemStore()
	}
	if sc.Linker.Host == "" || sc.Linker.Region == "" {
		sc.Linker = gamelink.NewLinker(sc.Linker.Host, sc.Linker.Region)
	}
	return nil
}
