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

// Package errs 提供 pokies 全域共用的分級錯誤型別。
//
// 分級讓最外層（HTTP 邊界、終端介面）決定如何呈現：
//   - Fatal：系統/依賴層問題（網路中斷、後端 5xx、無法解碼）。
//   - Warn ：可預期的輸入問題（未知欄位、非法字母選擇器、查無資料）。
//   - Log  ：只需記錄、不影響流程。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : 錯誤分級
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func (lv ErrLevel) String() string {
	if str, ok := errLvMap[lv]; ok {
		return str
	}
	return ""
}

// 共用哨兵錯誤。以 errors.Is 比對，Wrap 之後仍可命中。
var (
	ErrNotFound = NewWarn("not found")
)

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為額外上下文（例如遊戲名稱）；Cause 串接下層錯誤。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }

func NewWarn(msg string) *E { return New(Warn, msg) }

func NewLog(msg string) *E { return New(Log, msg) }

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// WithExtra 回傳附加上下文的新錯誤，不修改原值（哨兵錯誤可安全使用）。
func (e *E) WithExtra(extra string) *E {
	return &E{Message: e.Message, Extra: extra, Cause: e, ErrLv: e.ErrLv}
}

// Wrap 以 msg 包裝 cause。
//
// ErrLevel 規則：
//   - cause 鏈中已有 *E：沿用其 ErrLv。
//   - 否則（標準庫、三方依賴錯誤）一律視為 Fatal。
//
// 已判斷為「可預期」的情境請直接 New/NewWarn，不要 Wrap。
func Wrap(cause error, msg string) *E {
	errLv := Fatal
	if e, ok := AsErr(cause); ok {
		errLv = e.ErrLv
	}
	r := New(errLv, msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 同 Wrap，並附加上下文字串。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

// WrapAs 以指定分級包裝 cause，忽略 cause 原本的分級。
func WrapAs(errLv ErrLevel, cause error, msg string) *E {
	r := New(errLv, msg)
	r.Cause = cause
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Level 回傳 err 鏈上第一個 *E 的分級；非本包錯誤回傳 Fatal，nil 回傳 None。
func Level(err error) ErrLevel {
	if err == nil {
		return None
	}
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return Fatal
}
