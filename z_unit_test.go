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

package pokies

import (
	"context"
	"errors"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/pokies/catalog"
	"github.com/zintix-labs/pokies/client"
	"github.com/zintix-labs/pokies/server/api"
	"github.com/zintix-labs/pokies/server/logger"
	"github.com/zintix-labs/pokies/server/netsvr"
	"github.com/zintix-labs/pokies/server/svrcfg"
	"github.com/zintix-labs/pokies/stats"
)

const rawCatalog = "Alpha Quest\n# comment\n\nBravo Spin\n9 Lives\n"

type countingFetcher struct {
	calls atomic.Int32
	raw   string
	err   error
}

func (f *countingFetcher) FetchGames(ctx context.Context) (string, error) {
	f.calls.Add(1)
	return f.raw, f.err
}

// recordingPoster 記錄送出的請求；fail 內的名稱回傳錯誤。
type recordingPoster struct {
	mu   sync.Mutex
	got  map[string]stats.GameStats
	fail map[string]bool
	gate chan struct{}
	hit  chan string
}

func newRecordingPoster(fail ...string) *recordingPoster {
	p := &recordingPoster{got: map[string]stats.GameStats{}, fail: map[string]bool{}}
	for _, n := range fail {
		p.fail[n] = true
	}
	return p
}

func (p *recordingPoster) PostStats(ctx context.Context, name string, patch stats.Patch) error {
	if p.hit != nil {
		p.hit <- name
	}
	if p.gate != nil {
		<-p.gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[name] {
		return errors.New("boom")
	}
	p.got[name] = patch.Stats
	return nil
}

func (p *recordingPoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.got)
}

func names(res []Result) []string {
	out := make([]string, len(res))
	for i, r := range res {
		out[i] = r.Name
	}
	return out
}

func TestSearchScenarios(t *testing.T) {
	f := &countingFetcher{raw: rawCatalog}
	s, err := NewSession(f, newRecordingPoster())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	res, err := s.Search(ctx)
	if err != nil || len(res) != 0 {
		t.Fatalf("all + empty query should be empty: %v %v", res, err)
	}
	if f.calls.Load() != 0 {
		t.Fatalf("empty search should not fetch")
	}

	s.SetQuery("al")
	res, _ = s.Search(ctx)
	if got := names(res); !reflect.DeepEqual(got, []string{"Alpha Quest"}) {
		t.Fatalf("query al: %v", got)
	}
	if res[0].Link != "https://wildz.com/nz/play/alpha-quest" {
		t.Fatalf("link = %q", res[0].Link)
	}

	s.SetQuery("")
	if err := s.SetLetter("0-9"); err != nil {
		t.Fatal(err)
	}
	res, _ = s.Search(ctx)
	if got := names(res); !reflect.DeepEqual(got, []string{"9 Lives"}) {
		t.Fatalf("digits: %v", got)
	}

	if err := s.SetLetter("ab"); err == nil {
		t.Fatal("invalid selector should fail")
	}
	if f.calls.Load() != 1 {
		t.Fatalf("catalog should be fetched once, got %d", f.calls.Load())
	}
}

func TestSearchFetchFailureRetries(t *testing.T) {
	f := &countingFetcher{raw: rawCatalog, err: errors.New("offline")}
	s, _ := NewSession(f, newRecordingPoster())
	_ = s.SetLetter("b")

	if _, err := s.Search(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	f.err = nil
	res, err := s.Search(context.Background())
	if err != nil || !reflect.DeepEqual(names(res), []string{"Bravo Spin"}) {
		t.Fatalf("retry: %v %v", names(res), err)
	}
	if f.calls.Load() != 2 {
		t.Fatalf("fetches = %d", f.calls.Load())
	}
}

func TestReloadRefetches(t *testing.T) {
	f := &countingFetcher{raw: rawCatalog}
	s, _ := NewSession(f, newRecordingPoster())
	s.SetQuery("a")
	_, _ = s.Search(context.Background())
	s.Reload()
	_, _ = s.Search(context.Background())
	if s.Fetches() != 2 {
		t.Fatalf("fetches = %d", s.Fetches())
	}
}

func TestSaveAllPartialFailureKeepsPending(t *testing.T) {
	p := newRecordingPoster("B")
	s, _ := NewSession(&countingFetcher{raw: rawCatalog}, p)
	s.SetStat("A", stats.RTP, "96%")
	s.SetStat("B", stats.MaxPay, "500x")

	res, err := s.SaveAll(context.Background())
	if !errors.Is(err, stats.ErrBatchFailed) {
		t.Fatalf("expected batch failure, got %v", err)
	}
	if !reflect.DeepEqual(res.Failed(), []string{"B"}) {
		t.Fatalf("failed = %v", res.Failed())
	}
	if got := s.Pending(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("pending = %v", got)
	}

	delete(p.fail, "B")
	if _, err := s.SaveAll(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(s.Pending()) != 0 {
		t.Fatalf("pending not cleared: %v", s.Pending())
	}
}

func TestSaveAllInFlightIsDropped(t *testing.T) {
	p := newRecordingPoster()
	p.gate = make(chan struct{})
	p.hit = make(chan string, 4)
	s, _ := NewSession(&countingFetcher{raw: rawCatalog}, p)
	s.SetStat("A", stats.RTP, "96%")

	done := make(chan error, 1)
	go func() {
		_, err := s.SaveAll(context.Background())
		done <- err
	}()
	<-p.hit

	res, err := s.SaveAll(context.Background())
	if err != nil || res.Skipped != stats.SkipInFlight {
		t.Fatalf("second save should be dropped: %+v %v", res, err)
	}
	close(p.gate)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if p.count() != 1 || len(p.hit) != 0 {
		t.Fatalf("duplicate requests dispatched")
	}
}

func TestSearchShowsEditedStats(t *testing.T) {
	s, _ := NewSession(&countingFetcher{raw: rawCatalog}, newRecordingPoster())
	s.SetStat("Bravo Spin", stats.LastWin, "$12")
	_ = s.SetLetter("B")
	res, _ := s.Search(context.Background())
	if len(res) != 1 || res[0].Stats.LastWin != "$12" {
		t.Fatalf("stats not attached: %+v", res)
	}
}

func TestCloseDiscardsState(t *testing.T) {
	f := &countingFetcher{raw: rawCatalog}
	s, _ := NewSession(f, newRecordingPoster())
	s.SetQuery("a")
	_, _ = s.Search(context.Background())
	s.SetStat("A", stats.RTP, "1")

	s.Close()
	if len(s.Pending()) != 0 || len(s.Stats()) != 0 || !s.Filter().Empty() {
		t.Fatal("session state survived Close")
	}
	s.SetQuery("a")
	_, _ = s.Search(context.Background())
	if f.calls.Load() != 2 {
		t.Fatalf("catalog cache survived Close")
	}
}

func TestNewSessionRequiresDeps(t *testing.T) {
	if _, err := NewSession(nil, newRecordingPoster()); err == nil {
		t.Fatal("nil fetcher should fail")
	}
	if _, err := NewSession(&countingFetcher{}, nil); err == nil {
		t.Fatal("nil poster should fail")
	}
}

func TestSessionAgainstServer(t *testing.T) {
	sCfg := &svrcfg.SvrCfg{
		Log:         logger.New(logger.ModeSilence),
		CatalogFS:   fstest.MapFS{"games.txt": {Data: []byte(rawCatalog)}},
		CatalogFile: "games.txt",
	}
	if err := sCfg.Vaild(); err != nil {
		t.Fatal(err)
	}
	svr := netsvr.NewChiServer(sCfg.Addr)
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(svr.Handler())
	defer ts.Close()

	c, err := client.New(ts.URL, client.WithHTTPClient(ts.Client()))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(c, c, WithCoalesce(), WithSaveWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	s.SetQuery("b")
	res, err := s.Search(ctx)
	if err != nil || !reflect.DeepEqual(names(res), []string{"Bravo Spin"}) {
		t.Fatalf("search: %v %v", names(res), err)
	}
	s.SetStat("Bravo Spin", stats.RTP, "95.1%")
	s.SetStat("AC/DC", stats.MaxPay, "100x")
	if _, err := s.SaveAll(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(s.Pending()) != 0 {
		t.Fatalf("pending = %v", s.Pending())
	}
	rec, err := sCfg.Store.Get("AC/DC")
	if err != nil || rec.Stats.MaxPay != "100x" {
		t.Fatalf("server record: %+v %v", rec, err)
	}

	// 清空欄位後再次儲存，後端也要跟著清除
	s.SetStat("Bravo Spin", stats.RTP, "")
	if _, err := s.SaveAll(ctx); err != nil {
		t.Fatalf("save cleared: %v", err)
	}
	rec, err = sCfg.Store.Get("Bravo Spin")
	if err != nil || rec.Stats.RTP != "" {
		t.Fatalf("rtp should be cleared on the server: %+v %v", rec, err)
	}
	var _ catalog.Fetcher = c
	var _ stats.Poster = c
}
