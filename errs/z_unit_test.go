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

package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapInheritsLevel(t *testing.T) {
	base := NewWarn("bad selector")
	w := Wrap(base, "filter")
	if w.ErrLv != Warn {
		t.Fatalf("expected warn, got %s", w.ErrLv)
	}
	if !errors.Is(w, base) {
		t.Fatalf("errors.Is should reach wrapped cause")
	}

	std := Wrap(fmt.Errorf("dial tcp: refused"), "fetch games")
	if std.ErrLv != Fatal {
		t.Fatalf("foreign cause must be fatal, got %s", std.ErrLv)
	}
}

func TestWithExtraKeepsSentinel(t *testing.T) {
	err := ErrNotFound.WithExtra("Alpha Quest")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected sentinel match")
	}
	if ErrNotFound.Extra != "" {
		t.Fatalf("sentinel must not be mutated")
	}
	if !strings.Contains(err.Error(), "Alpha Quest") {
		t.Fatalf("missing extra in %q", err.Error())
	}
}

func TestLevel(t *testing.T) {
	if Level(nil) != None {
		t.Fatalf("nil should be None")
	}
	if Level(errors.New("x")) != Fatal {
		t.Fatalf("foreign error should be Fatal")
	}
	if Level(fmt.Errorf("ctx: %w", NewLog("note"))) != Log {
		t.Fatalf("expected Log through fmt wrap")
	}
	if Level(WrapAs(Warn, errors.New("x"), "y")) != Warn {
		t.Fatalf("WrapAs should force level")
	}
}
