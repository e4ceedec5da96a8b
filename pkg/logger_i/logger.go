package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/akolanti/CSVAgent/internal/config"
)

// Logger resolves the process default handler at call time, so loggers created
// at package init still follow whatever Init installs later.
type Logger struct {
	attrs []any
}

// Init installs the process-wide slog handler. Production writes JSON at info level,
// everything else writes text at debug level.
func Init(isProd bool) {
	InitTo(os.Stdout, isProd)
}

// InitTo is Init with an explicit sink, for processes that own stdout.
func InitTo(w io.Writer, isProd bool) {
	options := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	var handler slog.Handler
	if isProd {
		options.Level = config.LOG_LEVEL_PROD
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

func NewLogger(section string) *Logger {
	return &Logger{attrs: []any{"component", section}}
}

// FromContext attaches the trace and session ids carried by ctx, when present.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	out := l
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		out = out.With("traceId", trace)
	}
	if sid, ok := ctx.Value(config.SESSION_ID_KEY).(string); ok && sid != "" {
		out = out.With("sessionId", sid)
	}
	return out
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	inner := slog.Default()
	if !inner.Enabled(context.Background(), level) {
		return
	}
	inner.With(l.attrs...).Log(context.Background(), level, msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	return &Logger{attrs: append(attrs, args...)}
}
