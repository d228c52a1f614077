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

// Package dev 提供內部瀏覽頁：字母/前綴搜尋遊戲、編輯統計並批次送出。
//
// 注意（contract）：
//   - 這不是 production UI；頁面只呼叫 /api/search 與 /api/stats/{name}。
//   - 待送出的修改只存在瀏覽器記憶體；Save 失敗時全部保留。
package dev

import (
	"net/http"

	"github.com/zintix-labs/pokies/server/netsvr"
)

// Register 註冊 dev 頁面。
//   - GET /dev ：內嵌 HTML（single page）
func Register(svr netsvr.NetRouter) {
	svr.Get("/dev", devPage)
}

// devPageHTML 是內嵌的瀏覽頁。
//
// UI 行為：
//   - 字母列：All、0-9、A-Z；點選即搜尋。
//   - 搜尋框：輸入即搜尋；All 且空白時不顯示任何結果。
//   - 統計欄位修改後標記為 pending；Save 期間按鈕停用。
const devPageHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Pokies Dev</title>
  <style>
    body { font-family: -apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif; background:#0f172a; color:#e2e8f0; margin:0; }
    .wrap { max-width: 980px; margin: 24px auto; padding: 16px 20px; background:#111827; border:1px solid #1f2937; border-radius:12px; }
    h1 { margin: 0 0 16px; font-size: 22px; }
    .letters { display:flex; flex-wrap:wrap; gap:4px; margin-bottom:12px; }
    .letters button { background:#1f2937; color:#e2e8f0; border:1px solid #334155; border-radius:6px; padding:4px 8px; cursor:pointer; }
    .letters button.on { background:#38bdf8; color:#0b1224; }
    input { background:#0b1224; color:#e2e8f0; border:1px solid #1f2738; border-radius:8px; padding:8px 10px; font-size:14px; }
    #q { width: 100%; box-sizing: border-box; margin-bottom: 12px; }
    table { width:100%; border-collapse: collapse; font-size: 13px; }
    td, th { border-bottom:1px solid #1f2937; padding:6px; text-align:left; }
    td input { width: 80px; }
    tr.pending td:first-child::after { content:" *"; color:#f59e0b; }
    a { color:#38bdf8; }
    #save { background:#22c55e; color:#0b1224; border:none; border-radius:10px; padding:10px 14px; font-weight:600; cursor:pointer; }
    #save:disabled { opacity:0.5; cursor:default; }
    #msg { margin-left: 12px; font-size: 13px; color:#94a3b8; }
  </style>
</head>
<body>
<div class="wrap">
  <h1>Pokies</h1>
  <div class="letters" id="letters"></div>
  <input id="q" placeholder="Search games..." />
  <div><button id="save" disabled>Save (0)</button><span id="msg"></span></div>
  <table><thead><tr><th>Game</th><th>Max Pay</th><th>RTP</th><th>Last Win</th><th>Total Bet</th></tr></thead>
  <tbody id="rows"></tbody></table>
</div>
<script>
const fields = ["maxPay","rtp","lastWin","totalBet"];
let letter = "all";
let edits = {};
let pending = new Set();
let saving = false;

function el(tag, attrs, text) {
  const e = document.createElement(tag);
  Object.assign(e, attrs || {});
  if (text !== undefined) e.textContent = text;
  return e;
}

function drawLetters() {
  const box = document.getElementById("letters");
  box.innerHTML = "";
  ["all","0-9"].concat("ABCDEFGHIJKLMNOPQRSTUVWXYZ".split("")).forEach(l => {
    const b = el("button", {className: l === letter ? "on" : ""}, l === "all" ? "All" : l);
    b.onclick = () => { letter = l; drawLetters(); search(); };
    box.appendChild(b);
  });
}

function syncSave() {
  const b = document.getElementById("save");
  b.textContent = "Save (" + pending.size + ")";
  b.disabled = saving || pending.size === 0;
}

async function search() {
  const q = document.getElementById("q").value;
  const res = await fetch("/api/search?letter=" + encodeURIComponent(letter) + "&q=" + encodeURIComponent(q));
  const body = await res.json();
  const rows = document.getElementById("rows");
  rows.innerHTML = "";
  (body.games || []).forEach(g => {
    const tr = el("tr", {className: pending.has(g.name) ? "pending" : ""});
    const td = el("td");
    td.appendChild(el("a", {href: g.link, target: "_blank"}, g.name));
    tr.appendChild(td);
    const stored = Object.assign({}, g.stats || {}, edits[g.name] || {});
    fields.forEach(f => {
      const cell = el("td");
      const inp = el("input", {value: stored[f] || ""});
      inp.onchange = () => {
        edits[g.name] = Object.assign(edits[g.name] || {}, {[f]: inp.value});
        pending.add(g.name);
        tr.className = "pending";
        syncSave();
      };
      cell.appendChild(inp);
      tr.appendChild(cell);
    });
    rows.appendChild(tr);
  });
}

async function save() {
  if (saving || pending.size === 0) return;
  saving = true; syncSave();
  const names = Array.from(pending);
  const results = await Promise.all(names.map(n =>
    fetch("/api/stats/" + encodeURIComponent(n), {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify(edits[n] || {}),
    }).then(r => r.ok).catch(() => false)));
  const failed = names.filter((n, i) => !results[i]);
  if (failed.length === 0) {
    pending = new Set();
    document.getElementById("msg").textContent = "saved " + names.length;
  } else {
    document.getElementById("msg").textContent = "failed: " + failed.join(", ");
  }
  saving = false; syncSave();
  search();
}

document.getElementById("q").oninput = search;
document.getElementById("save").onclick = save;
drawLetters();
syncSave();
</script>
</body>
</html>`

// devPage 回傳內嵌 HTML（single page）。
func devPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(devPageHTML))
}
