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

// Package config 讀取 pokies 的 YAML 設定檔。
//
// 檔案可只寫部分欄位，其餘沿用 Default()；各 cmd 再以 flag 覆寫。
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/gamelink"
	"github.com/zintix-labs/pokies/server/logger"
	"github.com/zintix-labs/pokies/server/svrcfg"
	"gopkg.in/yaml.v3"
)

const DefaultAPIBase = "http://localhost:5808"

type Config struct {
	APIBase     string        `yaml:"api_base"`
	LinkHost    string        `yaml:"link_host"`
	LinkRegion  string        `yaml:"link_region"`
	SaveWorkers int           `yaml:"save_workers"` // 0 = 不設上限
	Timeout     time.Duration `yaml:"timeout"`      // 0 = 不設限
	LogMode     string        `yaml:"log_mode"`
	Addr        string        `yaml:"addr"`
	CatalogFile string        `yaml:"catalog_file"` // 空字串 = 內建 demo 清單
}

func Default() Config {
	return Config{
		APIBase:    DefaultAPIBase,
		LinkHost:   gamelink.DefaultHost,
		LinkRegion: gamelink.DefaultRegion,
		LogMode:    logger.ModeDev.String(),
		Addr:       svrcfg.DefaultAddr,
	}
}

// Load 讀取 path；path 為空時直接回傳 Default()。
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.WrapWithExtra(err, "read config failed", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errs.WrapWithExtra(err, "parse config failed", path)
	}
	return cfg, nil
}

// Parse 以 Default() 為底解碼 YAML；未知欄位視為錯誤。
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errs.WrapAs(errs.Warn, err, "invalid config yaml")
	}
	if err := cfg.Check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Check() error {
	if c.SaveWorkers < 0 {
		return errs.Warnf("save_workers must be >= 0, got %d", c.SaveWorkers)
	}
	if c.Timeout < 0 {
		return errs.Warnf("timeout must be >= 0, got %s", c.Timeout)
	}
	return nil
}

func (c Config) Linker() gamelink.Linker {
	return gamelink.NewLinker(c.LinkHost, c.LinkRegion)
}

// Mode 回傳 log 模式；無法辨識時為 ModeDev。
func (c Config) Mode() logger.LogMode {
	return logger.ParseMode(c.LogMode)
}
