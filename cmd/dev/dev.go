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
	"log"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/zintix-labs/pokies/config"
	"github.com/zintix-labs/pokies/demo"
	"github.com/zintix-labs/pokies/server"
)

// 以內建 demo 清單啟動後端，並在就緒後開啟瀏覽頁 /dev。
func main() {
	addr := flag.String("addr", config.Default().Addr, "listen address")
	flag.Parse()
	runDevPanel(*addr)
}

func runDevPanel(addr string) {
	url := "http://" + dialAddr(addr) + "/dev"
	go func() {
		// 等 server 真的在 listen 再開瀏覽器
		if err := waitForTCP(dialAddr(addr), 5*time.Second); err != nil {
			log.Fatal("dev server not ready:" + err.Error())
		}
		if err := openBrowser(url); err != nil {
			log.Fatal("open browser failed:" + err.Error())
		}
	}()
	cfg := config.Default()
	cfg.Addr = addr
	scfg, err := demo.NewServerConfig(cfg)
	if err != nil {
		log.Fatal("set server configs error:" + err.Error())
	}
	if err := server.Run(scfg); err != nil {
		os.Exit(1)
	}
}

// dialAddr 把 ":5808" 這類只有 port 的位址補成 127.0.0.1:5808。
func dialAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}

func waitForTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s", addr)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
