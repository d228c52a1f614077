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

package catalog

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const sampleRaw = "Alpha Quest\n# comment\n\nBravo Spin\r\n9 Lives\n   \n  # indented\n"

func TestParse(t *testing.T) {
	got := Parse(sampleRaw)
	want := []string{"Alpha Quest", "Bravo Spin", "9 Lives", "  # indented"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %q, want %q", got, want)
	}
	if got := Parse(""); len(got) != 0 {
		t.Fatalf("empty input should yield empty catalog, got %q", got)
	}
}

func TestLoaderCaches(t *testing.T) {
	var calls atomic.Int32
	l, err := NewLoader(FetcherFunc(func(ctx context.Context) (string, error) {
		calls.Add(1)
		return sampleRaw, nil
	}))
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	for i := 0; i < 3; i++ {
		games, err := l.Load(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(games) != 4 {
			t.Fatalf("unexpected games: %q", games)
		}
	}
	if calls.Load() != 1 || l.Fetches() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", calls.Load())
	}

	// 回傳的是副本，呼叫端修改不影響快取
	games, _ := l.Load(context.Background())
	games[0] = "mutated"
	again, _ := l.Load(context.Background())
	if again[0] != "Alpha Quest" {
		t.Fatalf("cache was mutated through returned slice")
	}
}

func TestLoaderFailureLeavesCacheEmpty(t *testing.T) {
	fail := true
	l, _ := NewLoader(FetcherFunc(func(ctx context.Context) (string, error) {
		if fail {
			return "", errors.New("connection refused")
		}
		return sampleRaw, nil
	}))
	if _, err := l.Load(context.Background()); err == nil {
		t.Fatalf("expected fetch error")
	}
	if _, ok := l.Cached(); ok {
		t.Fatalf("cache must stay empty after failure")
	}
	fail = false
	games, err := l.Load(context.Background())
	if err != nil || len(games) != 4 {
		t.Fatalf("retry should succeed, got %q err=%v", games, err)
	}
	if l.Fetches() != 2 {
		t.Fatalf("expected 2 fetches, got %d", l.Fetches())
	}
}

func TestLoaderInvalidate(t *testing.T) {
	body := "A"
	l, _ := NewLoader(FetcherFunc(func(ctx context.Context) (string, error) { return body, nil }))
	_, _ = l.Load(context.Background())
	body = "B"
	l.Invalidate()
	games, _ := l.Load(context.Background())
	if !reflect.DeepEqual(games, []string{"B"}) {
		t.Fatalf("expected refetched catalog, got %q", games)
	}
}

// blockingFetcher 讓每次 fetch 都停在 release，直到測試放行。
type blockingFetcher struct {
	entered chan struct{}
	release chan struct{}
	n       atomic.Int32
}

func (b *blockingFetcher) FetchGames(ctx context.Context) (string, error) {
	n := b.n.Add(1)
	b.entered <- struct{}{}
	<-b.release
	if n == 1 {
		return "First", nil
	}
	return "Second", nil
}

func TestLoaderConcurrentMissesBothFetch(t *testing.T) {
	bf := &blockingFetcher{entered: make(chan struct{}, 2), release: make(chan struct{})}
	l, _ := NewLoader(bf)

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_, _ = l.Load(context.Background())
		}()
	}
	<-bf.entered
	<-bf.entered
	close(bf.release)
	wg.Wait()

	if l.Fetches() != 2 {
		t.Fatalf("uncoalesced misses should both fetch, got %d", l.Fetches())
	}
	games, ok := l.Cached()
	if !ok || len(games) != 1 {
		t.Fatalf("cache should hold one of the results, got %q", games)
	}
}

func TestLoaderCoalesce(t *testing.T) {
	bf := &blockingFetcher{entered: make(chan struct{}, 2), release: make(chan struct{})}
	l, _ := NewLoader(bf, WithCoalesce())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = l.Load(context.Background())
	}()
	<-bf.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = l.Load(context.Background())
	}()
	time.Sleep(20 * time.Millisecond)
	close(bf.release)
	wg.Wait()

	if l.Fetches() != 1 {
		t.Fatalf("coalesced misses should fetch once, got %d", l.Fetches())
	}
}

// slowFirstFetcher 只有第一次 fetch 會停在 release，之後立即回傳新清單。
type slowFirstFetcher struct {
	entered chan struct{}
	release chan struct{}
	n       atomic.Int32
}

func (f *slowFirstFetcher) FetchGames(ctx context.Context) (string, error) {
	if f.n.Add(1) == 1 {
		f.entered <- struct{}{}
		<-f.release
		return "Old Game", nil
	}
	return "New Game", nil
}

func TestLoaderInvalidateDuringFetch(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"default", nil},
		{"coalesce", []Option{WithCoalesce()}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &slowFirstFetcher{entered: make(chan struct{}, 1), release: make(chan struct{})}
			l, _ := NewLoader(f, tc.opts...)

			first := make(chan []string, 1)
			go func() {
				games, _ := l.Load(context.Background())
				first <- games
			}()
			<-f.entered

			l.Invalidate()
			games, err := l.Load(context.Background())
			if err != nil {
				t.Fatalf("load after invalidate: %v", err)
			}
			if !reflect.DeepEqual(games, []string{"New Game"}) {
				t.Fatalf("load after invalidate = %q", games)
			}

			close(f.release)
			if old := <-first; !reflect.DeepEqual(old, []string{"Old Game"}) {
				t.Fatalf("in-flight caller = %q", old)
			}
			if l.Fetches() != 2 {
				t.Fatalf("fetches = %d, want 2", l.Fetches())
			}
			cached, ok := l.Cached()
			if !ok || !reflect.DeepEqual(cached, []string{"New Game"}) {
				t.Fatalf("stale fetch overwrote cache: %q", cached)
			}
		})
	}
}

func TestNewLoaderRequiresFetcher(t *testing.T) {
	if _, err := NewLoader(nil); err == nil {
		t.Fatalf("expected error for nil fetcher")
	}
}
