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

package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeComp struct {
	runErr   error
	stop     chan struct{}
	shutdown atomic.Int32
}

func newFake(runErr error) *fakeComp {
	return &fakeComp{runErr: runErr, stop: make(chan struct{})}
}

func (f *fakeComp) Run() error {
	if f.runErr != nil {
		return f.runErr
	}
	<-f.stop
	return nil
}

func (f *fakeComp) Shutdown(ctx context.Context) error {
	if f.shutdown.Add(1) == 1 {
		close(f.stop)
	}
	return nil
}

func TestRunContextStopsOnCancel(t *testing.T) {
	c1, c2 := newFake(nil), newFake(nil)
	a := NewWith(nil, c1, c2)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if err := a.RunContext(ctx); err != nil {
		t.Fatalf("expected nil on cancel, got %v", err)
	}
	if c1.shutdown.Load() != 1 || c2.shutdown.Load() != 1 {
		t.Fatalf("every component should be shut down once")
	}
}

func TestRunContextReturnsComponentError(t *testing.T) {
	boom := errors.New("listen: address in use")
	ok := newFake(nil)
	a := NewWith(nil, ok, newFake(boom))
	if err := a.RunContext(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected component error, got %v", err)
	}
	if ok.shutdown.Load() != 1 {
		t.Fatalf("healthy component should be shut down")
	}
}
