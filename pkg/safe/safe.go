package safe

import (
	"log/slog"
	"runtime/debug"
)

// Run 执行 fn, panic 时记录日志而不是让进程退出
func Run(fn func()) {
	RunWithLog(fn, "safe.Run")
}

// RunWithLog 同 Run, component 用于区分日志来源
func RunWithLog(fn func(), component string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}

// Go 在新的 goroutine 里执行 fn
func Go(component string, fn func()) {
	go RunWithLog(fn, component)
}
