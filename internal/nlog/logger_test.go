package nlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegisterSubsystemReturnsSameLogger(t *testing.T) {
	logger := NewNopLogger()

	first := logger.RegisterSubsystem("posts")
	second := logger.RegisterSubsystem("posts")
	assert.Same(t, first, second)

	got, err := logger.GetSubsystemLogger("posts")
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestGetUnregisteredSubsystem(t *testing.T) {
	logger := NewNopLogger()

	_, err := logger.GetSubsystemLogger("feed")
	require.Error(t, err)
	assert.Equal(t, "The subsystem was not registered {feed}", err.Error())
}

func TestDisabledLoggerDoesNotPanic(t *testing.T) {
	logger, err := NewAppLogger("debug", false)
	require.NoError(t, err)

	logger.RegisterSubsystem("auth").Logf("user %s logged in", "leo")
	logger.Sync()
}

func TestDebugfLogsAtDebugLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithCore(core).RegisterSubsystem("comments")

	logger.Debugf("dropped comment on post %d", 7)
	logger.Logf("kept comment on post %d", 8)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "dropped comment on post 7", entries[0].Message)
	assert.Equal(t, "comments", entries[0].LoggerName)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}
