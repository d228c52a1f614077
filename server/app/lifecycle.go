package app

import "context"

// Component 是可啟動 / 可關閉的長生命週期元件（HTTP server、背景 worker）。
//   - Run 阻塞直到元件停止。
//   - Shutdown 要求優雅關閉，需尊重 ctx deadline。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
