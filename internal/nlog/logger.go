package nlog

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is what services and handlers log through.
type Logger interface {
	Logf(format string, v ...any)
	Debugf(format string, v ...any)
}

type subsystemLogger struct {
	sugar *zap.SugaredLogger
}

func (s *subsystemLogger) Logf(format string, v ...any) {
	s.sugar.Infof(format, v...)
}

func (s *subsystemLogger) Debugf(format string, v ...any) {
	s.sugar.Debugf(format, v...)
}

// AppLogger owns the process logger and hands out one named logger per subsystem.
type AppLogger struct {
	base *zap.Logger

	lock       sync.RWMutex
	subsystems map[string]Logger
}

// NewAppLogger builds a production zap logger at the given level.
// When logging is disabled every subsystem logger is a no-op.
func NewAppLogger(level string, enabled bool) (*AppLogger, error) {
	if !enabled {
		return &AppLogger{base: zap.NewNop(), subsystems: make(map[string]Logger)}, nil
	}

	config := zap.NewProductionConfig()
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	config.Level.SetLevel(parsed)

	base, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return &AppLogger{base: base, subsystems: make(map[string]Logger)}, nil
}

// NewLoggerWithCore wraps an existing core, which lets tests observe entries.
func NewLoggerWithCore(core zapcore.Core) *AppLogger {
	return &AppLogger{base: zap.New(core), subsystems: make(map[string]Logger)}
}

// NewNopLogger is used by tests.
func NewNopLogger() *AppLogger {
	return &AppLogger{base: zap.NewNop(), subsystems: make(map[string]Logger)}
}

func (a *AppLogger) RegisterSubsystem(name string) Logger {
	a.lock.Lock()
	defer a.lock.Unlock()

	if l, ok := a.subsystems[name]; ok {
		return l
	}
	l := &subsystemLogger{sugar: a.base.Named(name).Sugar()}
	a.subsystems[name] = l
	return l
}

func (a *AppLogger) GetSubsystemLogger(name string) (Logger, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	l, ok := a.subsystems[name]
	if !ok {
		return nil, fmt.Errorf("The subsystem was not registered {%s}", name)
	}
	return l, nil
}

// Zap exposes the structured logger for request and panic logging.
func (a *AppLogger) Zap() *zap.Logger {
	return a.base
}

func (a *AppLogger) Sync() {
	_ = a.base.Sync()
}
