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

// Package filter 以字母選擇器與前綴查詢過濾遊戲清單。
package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zintix-labs/pokies/errs"
	"golang.org/x/text/cases"
)

// Selector 是字母選擇器："all"、單一小寫字母 a-z，或數字類 "0-9"。
type Selector string

const (
	All    Selector = "all"
	Digits Selector = "0-9"
)

// ParseSelector 接受 all / 0-9 / 單一 ASCII 字母（大小寫皆可，統一轉小寫）。
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", string(All):
		return All, nil
	case string(Digits), "#", "digits":
		return Digits, nil
	}
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && c <= 'z' {
			return Selector(string(c)), nil
		}
	}
	return "", errs.Warnf("invalid letter selector: %q", s)
}

// Selectors 依介面顯示順序列出全部選擇器：all, a..z, 0-9。
func Selectors() []Selector {
	out := make([]Selector, 0, 28)
	out = append(out, All)
	for c := 'a'; c <= 'z'; c++ {
		out = append(out, Selector(string(c)))
	}
	return append(out, Digits)
}

func (s Selector) String() string { return string(s) }

// Match 判斷單一遊戲名稱是否符合字母選擇器（All 一律符合）。
func (s Selector) Match(game string) bool {
	return s.match(game, cases.Fold())
}

// match 重用呼叫端的 Caser；Caser 帶狀態，不可跨 goroutine 共用。
func (s Selector) match(game string, fold cases.Caser) bool {
	if s == All {
		return true
	}
	trimmed := strings.TrimLeftFunc(game, unicode.IsSpace)
	r, _ := utf8.DecodeRuneInString(trimmed)
	if r == utf8.RuneError {
		return false
	}
	if s == Digits {
		return r >= '0' && r <= '9'
	}
	return fold.String(string(r)) == string(s)
}

// Filter 回傳符合條件的遊戲，順序與 catalog 相同。
//
// 規則：
//  1. query 去空白後為空且 sel 為 All：回傳空結果（尚未套用任何過濾 = 不顯示結果）。
//  2. sel 非 All：保留首字（去除前導空白、case fold 後）符合選擇器者。
//  3. query 非空：保留 case fold 後以 query 為前綴者（query 以輸入原文比對，不去空白）。
//
// 兩個條件為 AND；沒有符合時回傳空 slice，不是錯誤。
func Filter(catalog []string, sel Selector, query string) []string {
	hasQuery := strings.TrimSpace(query) != ""
	if !hasQuery && sel == All {
		return []string{}
	}
	fold := cases.Fold()
	prefix := fold.String(query)

	out := make([]string, 0, len(catalog)/4+1)
	for _, game := range catalog {
		if !sel.match(game, fold) {
			continue
		}
		if hasQuery && !strings.HasPrefix(fold.String(game), prefix) {
			continue
		}
		out = append(out, game)
	}
	return out
}

// State 是一個 session 的過濾狀態。兩個欄位各自獨立重設，永不持久化。
type State struct {
	Selector Selector
	Query    string
}

func NewState() State { return State{Selector: All} }

func (st *State) SetLetter(s string) error {
	sel, err := ParseSelector(s)
	if err != nil {
		return err
	}
	st.Selector = sel
	return nil
}

func (st *State) SetQuery(q string) { st.Query = q }

func (st *State) Reset() {
	st.Selector = All
	st.Query = ""
}

// Empty 回報目前狀態是否屬於「不顯示結果」的情況。
func (st State) Empty() bool {
	return st.Selector == All && strings.TrimSpace(st.Query) == ""
}

func (st State) Apply(catalog []string) []string {
	return Filter(catalog, st.Selector, st.Query)
}
