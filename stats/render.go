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
	"encoding/json"
	"io"
	"strings"

	"github.com/zintix-labs/pokies/errs"
	"gopkg.in/yaml.v3"
)

// Render 定義統計紀錄的輸出行為
type Render interface {
	Write(w io.Writer, records map[string]GameStats) error
}

// Json渲染
type JsonRender struct{}

func (jr *JsonRender) Write(w io.Writer, records map[string]GameStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, records map[string]GameStats) error {
	// map key 由 yaml.v3 排序輸出；空紀錄以 {} 表示，避免輸出 null
	var node yaml.Node
	if err := node.Encode(records); err != nil {
		return err
	}
	flowEmptyMappings(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

func flowEmptyMappings(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.MappingNode && len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
		return
	}
	for _, c := range n.Content {
		flowEmptyMappings(c)
	}
}

// RenderFor 依格式名稱取得 Render：json / yaml / yml。
func RenderFor(format string) (Render, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return &JsonRender{}, nil
	case "yaml", "yml", "":
		return &YAMLRender{}, nil
	default:
		return nil, errs.Warnf("unsupported export format: %q", format)
	}
}
