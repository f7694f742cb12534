package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options 控制全局日志输出。
type Options struct {
	Level   string // trace/debug/info/warn/error，无法识别时为 info
	Format  string // console 或 json
	NoColor bool
	Output  io.Writer // 为空时写到 stderr
}

// Setup 配置 zerolog 的全局 logger，可以在运行中重复调用。
func Setup(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if !strings.EqualFold(opts.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, NoColor: opts.NoColor, TimeFormat: time.DateTime}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	SetLevel(opts.Level)
}

// SetLevel 只修改全局日志级别。
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
