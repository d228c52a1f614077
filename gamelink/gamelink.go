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

package gamelink

import (
	"net/url"
	"strings"
)

const (
	DefaultHost   = "wildz.com"
	DefaultRegion = "nz"
)

// Normalize 將遊戲名稱轉為 URL path segment：
// trim → lowercase → 非 [a-z0-9] 的連續字元換成單一 '-' → 合併重複 '-'。
// 結果具冪等性：Normalize(Normalize(s)) == Normalize(s)。
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	dash := false
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return b.String()
}

// Linker 產生外部遊玩連結：https://<host>/<region>/play/<normalized-name>
type Linker struct {
	Host   string
	Region string
}

func NewLinker(host, region string) Linker {
	if host == "" {
		host = DefaultHost
	}
	if region == "" {
		region = DefaultRegion
	}
	return Linker{Host: host, Region: region}
}

func (l Linker) Link(name string) string {
	u := url.URL{
		Scheme: "https",
		Host:   l.Host,
		Path:   "/" + l.Region + "/play/" + Normalize(name),
	}
	return u.String()
}
