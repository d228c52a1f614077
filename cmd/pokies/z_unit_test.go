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
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/zintix-labs/pokies"
	"github.com/zintix-labs/pokies/catalog"
	"github.com/zintix-labs/pokies/stats"
)

const testCatalog = "# demo\nAlpha Quest\nBravo Spin\n9 Lives\n"

type memPoster struct {
	mu   sync.Mutex
	got  map[string]stats.GameStats
	fail bool
}

func (p *memPoster) PostStats(ctx context.Context, name string, patch stats.Patch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("backend down")
	}
	p.got[name] = patch.Stats
	return nil
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *memPoster) {
	t.Helper()
	out := &bytes.Buffer{}
	sh := newShell(out, false)
	post := &memPoster{got: map[string]stats.GameStats{}}
	fetch := catalog.FetcherFunc(func(ctx context.Context) (string, error) { return testCatalog, nil })
	s, err := pokies.NewSession(fetch, post, pokies.WithSaveProgress(sh.progress))
	if err != nil {
		t.Fatal(err)
	}
	sh.s = s
	return sh, out, post
}

func TestShellSearchAndSave(t *testing.T) {
	sh, out, post := newTestShell(t)
	ctx := context.Background()

	sh.exec(ctx, "list")
	if !strings.Contains(out.String(), "pick a letter") {
		t.Fatalf("empty filter should prompt:\n%s", out)
	}

	out.Reset()
	sh.exec(ctx, "letter b")
	if !strings.Contains(out.String(), "Bravo Spin") || strings.Contains(out.String(), "Alpha Quest") {
		t.Fatalf("letter b:\n%s", out)
	}

	sh.exec(ctx, "set 1 rtp 96.5%")
	sh.exec(ctx, "set Alpha Quest maxPay 5,000x")
	out.Reset()
	sh.exec(ctx, "pending")
	if !strings.Contains(out.String(), "2 pending: Alpha Quest, Bravo Spin") {
		t.Fatalf("pending:\n%s", out)
	}

	out.Reset()
	sh.exec(ctx, "save")
	if !strings.Contains(out.String(), "saved 2 games") {
		t.Fatalf("save:\n%s", out)
	}
	if post.got["Bravo Spin"].RTP != "96.5%" || post.got["Alpha Quest"].MaxPay != "5,000x" {
		t.Fatalf("posted: %+v", post.got)
	}

	out.Reset()
	sh.exec(ctx, "save")
	if !strings.Contains(out.String(), "nothing to save") {
		t.Fatalf("second save:\n%s", out)
	}
}

func TestShellSaveFailureKeepsEdits(t *testing.T) {
	sh, out, post := newTestShell(t)
	ctx := context.Background()
	post.fail = true

	sh.exec(ctx, "set Alpha Quest rtp 90%")
	sh.exec(ctx, "save")
	if !strings.Contains(out.String(), "error:") {
		t.Fatalf("expected error output:\n%s", out)
	}
	if got := sh.s.Pending(); len(got) != 1 || got[0] != "Alpha Quest" {
		t.Fatalf("pending = %v", got)
	}
}

func TestShellExportAndErrors(t *testing.T) {
	sh, out, _ := newTestShell(t)
	ctx := context.Background()

	sh.exec(ctx, "set 9 Lives lastWin $20")
	out.Reset()
	sh.exec(ctx, "export json")
	if !strings.Contains(out.String(), `"lastWin": "$20"`) {
		t.Fatalf("export:\n%s", out)
	}

	for _, line := range []string{"bogus", "letter xyz", "set 3 rtp 1", "set Alpha", "export csv"} {
		out.Reset()
		sh.exec(ctx, line)
		if !strings.Contains(out.String(), "error:") {
			t.Errorf("%q should report an error, got %q", line, out)
		}
	}
}

func TestShellRunQuits(t *testing.T) {
	sh, out, _ := newTestShell(t)
	in := strings.NewReader("find al\nquit\nfind br\n")
	if err := sh.run(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Alpha Quest") || strings.Contains(out.String(), "Bravo Spin") {
		t.Fatalf("run output:\n%s", out)
	}
}

func TestShellSetNameContainingFieldWord(t *testing.T) {
	sh, _, _ := newTestShell(t)
	sh.exec(context.Background(), "set Big Rtp Wins rtp 96")
	st := sh.s.Stats()
	if got := st["Big Rtp Wins"].RTP; got != "96" {
		t.Fatalf("stats = %+v", st)
	}
	if _, ok := st["Big"]; ok {
		t.Fatalf("name was split at the first field word: %+v", st)
	}
}
