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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zintix-labs/pokies"
	"github.com/zintix-labs/pokies/client"
	"github.com/zintix-labs/pokies/config"
	"github.com/zintix-labs/pokies/server/logger"
)

// 互動式瀏覽工具：連線到 pokies 後端，搜尋遊戲並批次儲存統計。
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "yaml config file")
	api := flag.String("api", "", "api base url (overrides config)")
	workers := flag.Int("workers", -1, "max concurrent save requests, 0 = unlimited (overrides config)")
	timeout := flag.Duration("timeout", -1, "per-request timeout, 0 = none (overrides config)")
	logMode := flag.String("log-mode", "", "log mode: dev|prod|silence (overrides config)")
	noBar := flag.Bool("no-progress", false, "hide the save progress bar")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *api != "" {
		cfg.APIBase = *api
	}
	if *workers >= 0 {
		cfg.SaveWorkers = *workers
	}
	if *timeout >= 0 {
		cfg.Timeout = *timeout
	}
	if *logMode != "" {
		cfg.LogMode = *logMode
	}
	if err := cfg.Check(); err != nil {
		return err
	}

	log, ah := logger.NewAsync(1024, cfg.Mode())
	defer ah.Close()

	c, err := client.New(cfg.APIBase, client.WithTimeout(cfg.Timeout), client.WithLogger(log))
	if err != nil {
		return err
	}

	sh := newShell(os.Stdout, !*noBar)
	s, err := pokies.NewSession(c, c,
		pokies.WithLogger(log),
		pokies.WithLinker(cfg.Linker()),
		pokies.WithSaveWorkers(cfg.SaveWorkers),
		pokies.WithSaveProgress(sh.progress),
	)
	if err != nil {
		return err
	}
	defer s.Close()
	sh.s = s

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("pokies @ %s - type help\n", c.BaseURL())
	return sh.run(ctx, os.Stdin)
}
