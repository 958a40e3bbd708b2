package logger

import (
	"io"
	log "log/slog"
	"os"
)

var LogWriter io.Writer

// InitLogger 初始化全局 slog，JSON 输出并自动附带 trace_id
func InitLogger() {
	LogWriter = os.Stdout

	h := log.NewJSONHandler(LogWriter, &log.HandlerOptions{Level: log.LevelInfo})
	log.SetDefault(log.New(&ContextHandler{h}))
}
