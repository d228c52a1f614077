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

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const body = "Alpha Quest\nBravo Spin\n9 Lives\n"

var plain = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, body)
})

func TestNegotiate(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"gzip":               "gzip",
		"gzip, zstd":         "zstd",
		"zstd;q=0, gzip":     "gzip",
		"br":                 "",
		"GZIP;q=0.5":         "gzip",
		"gzip;q=0, zstd;q=0": "",
	}
	for in, want := range cases {
		got := ""
		if c := negotiate(in); c != nil {
			got = c.name
		}
		if got != want {
			t.Fatalf("negotiate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompressionZstd(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	rec := httptest.NewRecorder()
	Compression(plain).ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "zstd" {
		t.Fatalf("expected zstd, got %q", rec.Header().Get("Content-Encoding"))
	}
	zr, err := zstd.NewReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()
	got, err := io.ReadAll(zr)
	if err != nil || string(got) != body {
		t.Fatalf("unexpected body %q err=%v", got, err)
	}
}

func TestCompressionGzip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	Compression(plain).ServeHTTP(rec, req)

	gr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	got, _ := io.ReadAll(gr)
	if string(got) != body {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestCompressionSkipsNoBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	Compression(h).ServeHTTP(rec, req)
	if rec.Body.Len() != 0 || rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("204 must not carry a compressed body")
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := RequestID(AccessLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?letter=xx", nil))

	out := buf.String()
	for _, want := range []string{`"msg":"http.access"`, `"status":400`, `"level":"WARN"`, `"path":"/api/search"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("access log missing %s: %s", want, out)
		}
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header should be set")
	}
}
