package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/ogurasousui/roster-sync/internal/platform/config"
	"github.com/rs/zerolog"
)

// New は logging 設定からルートロガーを生成します。
func New(cfg config.LoggingConfig) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// WithComponent はコンポーネント名を付与した子ロガーを返します。
func WithComponent(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
