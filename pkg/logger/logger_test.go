package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockLogLevel int8 = 0

func TestInitReturnsSameInstance(t *testing.T) {
	first := Init(Options{Level: mockLogLevel})
	require.NotNil(t, first)
	assert.Same(t, first, Init(Options{Level: -1, Format: FormatConsole}))
	require.NotNil(t, globalSync)
}

func TestInitReturnsNoopWhenGlobalIsNil(t *testing.T) {
	Init(Options{Level: mockLogLevel})
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Init(Options{Level: mockLogLevel}))
}

func TestNewWritesJSONToOutput(t *testing.T) {
	var buf bytes.Buffer
	lgr, sync := New(Options{Output: &buf})
	lgr.Info("resolved", WidthKey, 120, ColumnsKey, 4)
	require.NoError(t, sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "resolved", entry[MessageKey])
	assert.EqualValues(t, 120, entry[WidthKey])
	assert.EqualValues(t, 4, entry[ColumnsKey])
	assert.Contains(t, entry, TimeStampKey)
	assert.Contains(t, entry, VersionKey)
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	lgr, _ := New(Options{Output: &buf, Format: FormatConsole})
	lgr.Info("hello")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "hello")
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr, _ := New(Options{Output: &buf})
	lgr.V(1).Info("hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	lgr, _ = New(Options{Output: &buf, Level: -1})
	lgr.V(1).Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	l1 := Init(Options{Level: mockLogLevel})
	ctx1 := WithLogger(ctx, l1)
	assert.Same(t, l1, ctx1.Value(loggerContextKey{}))
	assert.Equal(t, ctx1, WithLogger(ctx1, l1), "same logger keeps the context")

	l2 := logr.Discard()
	ctx2 := WithLogger(ctx1, &l2)
	assert.Same(t, &l2, FromContext(ctx2))
}

func TestFromContextFallbacks(t *testing.T) {
	global := Init(Options{Level: mockLogLevel})
	assert.Same(t, global, FromContext(context.Background()))

	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestSyncWithoutGlobalLogger(t *testing.T) {
	orig := globalSync
	globalSync = nil
	defer func() { globalSync = orig }()
	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(&os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.ENOTTY}))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	lgr := Init(Options{Level: mockLogLevel})
	assert.NotSame(t, lgr, WithValues(lgr, "key", "value"))
	assert.NotSame(t, lgr, WithValues(lgr))
	assert.Panics(t, func() { _ = WithValues(nil, "key", "value") })
}

func TestGetNoopLogger(t *testing.T) {
	assert.Same(t, &defaultNoopLogger, GetNoopLogger())
	assert.NotPanics(t, func() { GetNoopLogger().Info("dropped") })
}
