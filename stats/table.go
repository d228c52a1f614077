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
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang = language.English

// FormatTable 以終端機顯示寬度對齊（支援 CJK 與 emoji）輸出多欄表格。
// rows 的欄數少於 header 時以空白補齊。
func FormatTable(title string, header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := 0; i < len(header) && i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	divider := "+"
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
	}
	divider += "\n"

	if title != "" {
		inner := len(divider) - 3
		titleW := runewidth.StringWidth(title)
		if titleW > inner {
			title = runewidth.Truncate(title, inner, "…")
			titleW = runewidth.StringWidth(title)
		}
		left := (inner - titleW) / 2
		sb.WriteString("+" + strings.Repeat("-", inner) + "+\n")
		sb.WriteString("|" + blank(left) + title + blank(inner-titleW-left) + "|\n")
	}
	sb.WriteString(divider)
	writeRow(&sb, header, widths)
	sb.WriteString(divider)
	for _, row := range rows {
		writeRow(&sb, row, widths)
	}
	sb.WriteString(divider)
	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		sb.WriteString(" " + cell + blank(w-runewidth.StringWidth(cell)) + " |")
	}
	sb.WriteString("\n")
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

// Table 以 key/value 表格輸出摘要，數字依英文千分位格式化。
func (s Summary) Table() string {
	p := message.NewPrinter(lang)
	row := func(name string, fs FieldStats) []string {
		if fs.Count == 0 {
			return []string{name, p.Sprintf("%d", fs.Count), p.Sprintf("%d", fs.Skipped), "-", "-", "-", "-", "-"}
		}
		return []string{
			name,
			p.Sprintf("%d", fs.Count),
			p.Sprintf("%d", fs.Skipped),
			p.Sprintf("%.2f", fs.Mean),
			p.Sprintf("%.2f", fs.Std),
			p.Sprintf("%.2f", fs.Median),
			p.Sprintf("%.2f", fs.Min),
			p.Sprintf("%.2f", fs.Max),
		}
	}
	return FormatTable(
		p.Sprintf("Stats Summary (%d games)", s.Games),
		[]string{"Field", "Count", "Skipped", "Mean", "Std", "Median", "Min", "Max"},
		[][]string{row("RTP", s.RTP), row("Max Pay", s.MaxPay)},
	)
}
