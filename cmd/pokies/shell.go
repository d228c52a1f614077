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
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/pokies"
	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const helpText = `commands:
  letter <all|0-9|a-z>          set the letter filter and search
  find [prefix]                 set the name prefix and search (empty clears it)
  list                          show the current results
  set <#|name> <field> <value>  edit a stat (fields: maxPay rtp lastWin totalBet)
  pending                       list games with unsaved edits
  save                          post every pending edit
  export [yaml|json]            print all edited stats
  summary                       numeric summary of edited stats
  reload                        drop the cached catalog
  help                          show this help
  quit                          leave
`

// shell 是互動式命令列；每行一個指令。
type shell struct {
	s       *pokies.Session
	out     io.Writer
	p       *message.Printer
	showBar bool

	last []pokies.Result

	mu  sync.Mutex
	bar *pb.ProgressBar
}

func newShell(out io.Writer, showBar bool) *shell {
	return &shell{
		out:     out,
		p:       message.NewPrinter(language.English),
		showBar: showBar,
	}
}

// progress 供 Session 在每筆儲存完成時呼叫。
func (sh *shell) progress(done, total int) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.bar != nil {
		sh.bar.SetCurrent(int64(done))
	}
}

func (sh *shell) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	fmt.Fprint(sh.out, "> ")
	for sc.Scan() {
		if quit := sh.exec(ctx, sc.Text()); quit {
			return nil
		}
		fmt.Fprint(sh.out, "> ")
	}
	return sc.Err()
}

// exec 執行一行指令；回傳 true 表示結束。
func (sh *shell) exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch strings.ToLower(cmd) {
	case "":
	case "help", "?":
		fmt.Fprint(sh.out, helpText)
	case "letter", "l":
		if err = sh.s.SetLetter(rest); err == nil {
			err = sh.search(ctx)
		}
	case "find", "search", "f":
		sh.s.SetQuery(rest)
		err = sh.search(ctx)
	case "list", "ls":
		err = sh.search(ctx)
	case "set":
		err = sh.set(rest)
	case "pending":
		sh.pending()
	case "save":
		err = sh.save(ctx)
	case "export":
		err = sh.export(rest)
	case "summary":
		fmt.Fprint(sh.out, stats.Summarize(sh.s.Stats()).Table())
	case "reload":
		sh.s.Reload()
		fmt.Fprintln(sh.out, "catalog cache cleared")
	case "quit", "exit", "q":
		return true
	default:
		err = errs.Warnf("unknown command %q (try help)", cmd)
	}
	if err != nil {
		fmt.Fprintln(sh.out, "error:", err)
	}
	return false
}

func (sh *shell) search(ctx context.Context) error {
	res, err := sh.s.Search(ctx)
	if err != nil {
		return err
	}
	sh.last = res
	st := sh.s.Filter()
	if st.Empty() {
		fmt.Fprintln(sh.out, "pick a letter or type a prefix to see games")
		return nil
	}
	pending := map[string]bool{}
	for _, n := range sh.s.Pending() {
		pending[n] = true
	}
	rows := make([][]string, 0, len(res))
	for i, r := range res {
		name := r.Name
		if pending[name] {
			name += " *"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1), name,
			r.Stats.MaxPay, r.Stats.RTP, r.Stats.LastWin, r.Stats.TotalBet,
			r.Link,
		})
	}
	title := sh.p.Sprintf("letter=%s query=%q: %d games", st.Selector, st.Query, len(res))
	fmt.Fprint(sh.out, stats.FormatTable(title,
		[]string{"#", "Game", "Max Pay", "RTP", "Last Win", "Total Bet", "Link"}, rows))
	return nil
}

// set <#|name> <field> <value...>；name 可含空白（甚至含欄位名稱），以最後一個可辨識的欄位名稱切分。
func (sh *shell) set(args string) error {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return errs.NewWarn("usage: set <#|name> <field> <value>")
	}
	fi := -1
	for i := len(fields) - 1; i >= 1; i-- {
		if _, err := stats.ParseField(fields[i]); err == nil {
			fi = i
			break
		}
	}
	if fi < 0 {
		return errs.NewWarn("usage: set <#|name> <field> <value>")
	}
	f, _ := stats.ParseField(fields[fi])
	target := strings.Join(fields[:fi], " ")
	value := strings.Join(fields[fi+1:], " ")

	name := target
	if idx, err := strconv.Atoi(target); err == nil {
		if idx < 1 || idx > len(sh.last) {
			return errs.Warnf("no result #%d (run list first)", idx)
		}
		name = sh.last[idx-1].Name
	}
	sh.s.SetStat(name, f, value)
	fmt.Fprintf(sh.out, "%s.%s = %q (pending)\n", name, f, value)
	return nil
}

func (sh *shell) pending() {
	names := sh.s.Pending()
	if len(names) == 0 {
		fmt.Fprintln(sh.out, "nothing pending")
		return
	}
	sh.p.Fprintf(sh.out, "%d pending: %s\n", len(names), strings.Join(names, ", "))
}

func (sh *shell) save(ctx context.Context) error {
	n := len(sh.s.Pending())
	if n > 0 {
		bar := pb.New(n)
		if !sh.showBar {
			bar.SetWriter(io.Discard)
		} else {
			bar.SetWriter(sh.out)
		}
		bar.Start()
		sh.mu.Lock()
		sh.bar = bar
		sh.mu.Unlock()
		defer func() {
			bar.Finish()
			sh.mu.Lock()
			sh.bar = nil
			sh.mu.Unlock()
		}()
	}

	res, err := sh.s.SaveAll(ctx)
	if err != nil {
		return errs.Wrap(err, sh.p.Sprintf("%d of %d saves failed, all edits kept", len(res.Failed()), len(res.Items)))
	}
	switch res.Skipped {
	case stats.SkipEmpty:
		fmt.Fprintln(sh.out, "nothing to save")
	case stats.SkipInFlight:
		fmt.Fprintln(sh.out, "a save is already running")
	default:
		sh.p.Fprintf(sh.out, "saved %d games\n", len(res.Items))
	}
	return nil
}

func (sh *shell) export(format string) error {
	r, err := stats.RenderFor(format)
	if err != nil {
		return err
	}
	return r.Write(sh.out, sh.s.Stats())
}
