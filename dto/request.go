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

package dto

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zintix-labs/pokies/errs"
	"github.com/zintix-labs/pokies/filter"
	"github.com/zintix-labs/pokies/stats"
)

// 防止 body 過大
const maxBody = 1 << 20

// DecodeStatsRequest 把 POST body 解成 stats.Patch。
//
// 注意：
//   - body 可以是四個欄位的任意子集；空物件合法（不改任何欄位）。
//   - 出現的欄位即使是空字串也算修改（清除該欄位）；null 視為未提供。
//   - 未知欄位一律拒絕，避免靜默丟資料。
//   - 這裡只負責解碼，不校驗數值格式（統計值本來就是自由字串）。
func DecodeStatsRequest(r *http.Request) (stats.Patch, error) {
	var st stats.Patch
	if r == nil || r.Body == nil {
		return st, errs.NewWarn("empty request body")
	}
	if r.Method != http.MethodPost {
		return st, errs.NewWarn("method not allowed")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(&st); err != nil {
		if errors.Is(err, io.EOF) {
			return st, errs.NewWarn("empty request body")
		}
		return st, errs.WrapAs(errs.Warn, err, "invalid json")
	}
	return st, nil
}

// SearchRequest 對應 GET /api/search?letter=&q=
type SearchRequest struct {
	Letter filter.Selector
	Query  string
}

func DecodeSearchRequest(r *http.Request) (SearchRequest, error) {
	if r == nil {
		return SearchRequest{}, errs.NewWarn("nil request")
	}
	q := r.URL.Query()
	sel, err := filter.ParseSelector(q.Get("letter"))
	if err != nil {
		return SearchRequest{}, err
	}
	return SearchRequest{Letter: sel, Query: q.Get("q")}, nil
}
