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

package stats

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/pokies/errs"
)

// FieldSet 是欄位的位元集合。
type FieldSet uint8

func (fs FieldSet) Has(f Field) bool { return fs&(1<<f) != 0 }

func (fs FieldSet) With(f Field) FieldSet { return fs | 1<<f }

// Patch 是一次送出的欄位更新。Set 內的欄位一定會送出，空字串代表清除；
// 不在 Set 內的欄位不會被更動。
type Patch struct {
	Stats GameStats
	Set   FieldSet
}

// PatchOf 以 gs 的非空欄位建立 Patch。
func PatchOf(gs GameStats) Patch {
	p := Patch{Stats: gs}
	for _, f := range Fields() {
		if gs.Get(f) != "" {
			p.Set = p.Set.With(f)
		}
	}
	return p
}

// Apply 把 Set 內的欄位（含空字串）寫入 gs。
func (p Patch) Apply(gs GameStats) GameStats {
	for _, f := range Fields() {
		if p.Set.Has(f) {
			gs = gs.With(f, p.Stats.Get(f))
		}
	}
	return gs
}

// MarshalJSON 只輸出 Set 內的欄位，依 Fields() 順序。
func (p Patch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range Fields() {
		if !p.Set.Has(f) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(f.String())
		v, err := json.Marshal(p.Stats.Get(f))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 只接受四個欄位的 JSON key；值必須是字串，null 視為未提供。
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errs.NewWarn("stats body must be a json object")
	}
	out := Patch{}
	for k, v := range raw {
		f, ok := fieldByKey(k)
		if !ok {
			return errs.Warnf("unknown stat field: %q", k)
		}
		if v == nil {
			continue
		}
		out.Stats = out.Stats.With(f, *v)
		out.Set = out.Set.With(f)
	}
	*p = out
	return nil
}

func fieldByKey(k string) (Field, bool) {
	for i, key := range fieldKeys {
		if key == k {
			return Field(i), true
		}
	}
	return 0, false
}
