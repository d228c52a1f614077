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
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary 是所有遊戲統計值的數值摘要。
type Summary struct {
	Games  int        `json:"games" yaml:"games"`
	RTP    FieldStats `json:"rtp" yaml:"rtp"`
	MaxPay FieldStats `json:"maxPay" yaml:"maxPay"`
}

// FieldStats 描述單一欄位的分布；Skipped 為無法解析成數字的筆數。
type FieldStats struct {
	Count   int     `json:"count" yaml:"count"`
	Skipped int     `json:"skipped" yaml:"skipped"`
	Mean    float64 `json:"mean" yaml:"mean"`
	Std     float64 `json:"std" yaml:"std"`
	Median  float64 `json:"median" yaml:"median"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
}

func Summarize(all map[string]GameStats) Summary {
	sum := Summary{Games: len(all)}
	var rtp, maxPay []float64
	for _, gs := range all {
		collect(gs.RTP, &rtp, &sum.RTP)
		collect(gs.MaxPay, &maxPay, &sum.MaxPay)
	}
	describe(rtp, &sum.RTP)
	describe(maxPay, &sum.MaxPay)
	return sum
}

func collect(raw string, dst *[]float64, fs *FieldStats) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	v, ok := ParseNumber(raw)
	if !ok {
		fs.Skipped++
		return
	}
	*dst = append(*dst, v)
}

func describe(x []float64, fs *FieldStats) {
	fs.Count = len(x)
	if len(x) == 0 {
		return
	}
	sort.Float64s(x)
	fs.Mean, fs.Std = stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		fs.Std = 0
	}
	fs.Median = stat.Quantile(0.5, stat.Empirical, x, nil)
	fs.Min = floats.Min(x)
	fs.Max = floats.Max(x)
}

// ParseNumber 解析使用者輸入的數值："96.5%"、"5000x"、"$1,250.00"。
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "x"), "X")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
