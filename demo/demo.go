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

// Package demo 組裝一份可直接啟動的後端設定；清單預設來自內嵌的 demo_configs。
package demo

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zintix-labs/pokies/catalog"
	"github.com/zintix-labs/pokies/config"
	"github.com/zintix-labs/pokies/demo/demo_configs"
	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/server/logger"
	"github.com/zintix-labs/pokies/server/svrcfg"
	"github.com/zintix-labs/pokies/store"
)

// Games 回傳內嵌 demo 清單解析後的遊戲名稱。
func Games() ([]string, error) {
	raw, err := fs.ReadFile(demo_configs.FS, demo_configs.CatalogFile)
	if err != nil {
		return nil, errs.Wrap(err, "read demo catalog")
	}
	return catalog.Parse(string(raw)), nil
}

// NewServerConfig 依 cfg 建立 SvrCfg。cfg.CatalogFile 為空時使用內嵌清單，否則以其所在目錄為 fs.FS。
func NewServerConfig(cfg config.Config) (*svrcfg.SvrCfg, error) {
	sCfg := &svrcfg.SvrCfg{
		Log:         logger.New(cfg.Mode()),
		Addr:        cfg.Addr,
		CatalogFS:   demo_configs.FS,
		CatalogFile: demo_configs.CatalogFile,
		Store:       store.NewMemStore(),
		Linker:      cfg.Linker(),
	}
	if cfg.CatalogFile != "" {
		abs, err := filepath.Abs(cfg.CatalogFile)
		if err != nil {
			return nil, errs.WrapWithExtra(err, "resolve catalog path", cfg.CatalogFile)
		}
		sCfg.CatalogFS = os.DirFS(filepath.Dir(abs))
		sCfg.CatalogFile = filepath.Base(abs)
	}
	if err := sCfg.Vaild(); err != nil {
		return nil, err
	}
	return sCfg, nil
}
