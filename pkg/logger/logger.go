// Package logger wires zap behind a logr.Logger and carries it through contexts.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/ltable/pkg/settings"
)

type loggerContextKey struct{}

const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	CommitKey      = "commit"
	VersionKey     = "version"
	GoVersionKey   = "go_version"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
	ColumnsKey     = "columns"
	WidthKey       = "width"
)

// Format selects the log encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Options configures a logger built by New.
type Options struct {
	// Level is the minimum zap level. Negative values enable debug output.
	Level int8
	// Format defaults to FormatJSON.
	Format Format
	// Output defaults to os.Stderr. Logs must never go to stdout, which carries
	// rendered tables.
	Output io.Writer
}

var (
	once sync.Once

	globalSync       func() error
	globalLogrLogger *logr.Logger

	defaultNoopLogger = logr.Discard()
)

// New builds a standalone logger. The returned sync function flushes it.
func New(opts Options) (*logr.Logger, func() error) {
	zl := newZap(opts)
	l := zapr.NewLogger(zl)
	return &l, zl.Sync
}

func newZap(opts Options) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	var enc zapcore.Encoder
	switch opts.Format {
	case FormatConsole:
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encoderCfg)
	default:
		enc = zapcore.NewJSONEncoder(encoderCfg)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}

	core := zapcore.NewCore(
		enc,
		zapcore.Lock(zapcore.AddSync(out)),
		zap.NewAtomicLevelAt(zapcore.Level(opts.Level)),
	).With([]zapcore.Field{
		zap.String(CommitKey, settings.VersionInformation.Commit),
		zap.String(VersionKey, settings.VersionInformation.BuildVersion),
		zap.String(GoVersionKey, goVersion),
	})

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.WithFatalHook(zapcore.WriteThenPanic),
	)
}

// Init builds the global logger on first use and returns it. Later calls
// ignore opts.
func Init(opts Options) *logr.Logger {
	once.Do(func() {
		globalLogrLogger, globalSync = New(opts)
	})
	if globalLogrLogger == nil {
		return &defaultNoopLogger
	}
	return globalLogrLogger
}

// WithLogger attaches log to ctx. The original context is returned when it
// already carries the same logger.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger stored in ctx, the global logger, or a no-op
// logger in that order.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// Sync flushes the global logger.
func Sync() {
	if globalSync == nil {
		return
	}
	if err := globalSync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

// isIgnorableSyncError reports Sync errors that pipes and terminals return.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	// Windows consoles wrap ERROR_INVALID_HANDLE in *os.PathError.
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetNoopLogger returns a logger that drops everything.
func GetNoopLogger() *logr.Logger {
	return &defaultNoopLogger
}

// WithValues returns a copy of lgr carrying keysAndValues.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nlgr := lgr.WithValues(keysAndValues...)
	return &nlgr
}
