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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/pokies/config"
	"github.com/zintix-labs/pokies/demo"
	"github.com/zintix-labs/pokies/server"
	"github.com/zintix-labs/pokies/server/logger"
)

// pokies 參考後端：提供遊戲清單、伺服器端搜尋與統計儲存（記憶體）。
// 未指定 -catalog 時使用內建的 demo 清單。
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "yaml config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	catalogFile := flag.String("catalog", "", "catalog text file on disk (overrides config)")
	logMode := flag.String("log-mode", "", "log mode: dev|prod|silence (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *catalogFile != "" {
		cfg.CatalogFile = *catalogFile
	}
	if *logMode != "" {
		cfg.LogMode = *logMode
	}

	log, ah := logger.NewAsync(4096, cfg.Mode())
	defer ah.Close()

	sCfg, err := demo.NewServerConfig(cfg)
	if err != nil {
		return err
	}
	sCfg.Log = log
	return server.Run(sCfg)
}
