package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// ZerologProvider is a LoggerProvider backed by rs/zerolog.
type ZerologProvider struct {
	mu     sync.RWMutex
	root   zerolog.Logger
	level  Level
	writer io.Writer
}

// NewZerologProvider creates a provider writing JSON events to stderr at the
// given minimum level.
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(level, os.Stderr)
}

// NewZerologProviderWithWriter creates a provider writing to w. Used by tests
// to capture output.
func NewZerologProviderWithWriter(level Level, w io.Writer) *ZerologProvider {
	root := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologProvider{
		root:   root,
		level:  level,
		writer: w,
	}
}

// GetLogger returns the default logger instance.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.root, provider: p}
}

// GetLoggerWithName returns a logger tagged with a component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	child := p.root.With().Str("logger", name).Logger()
	return &zerologLogger{logger: child, provider: p}
}

// SetLevel sets the minimum log level for all loggers created by this provider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.root = p.root.Level(toZerologLevel(level))
}

// ToLogLevel converts a level name to a Level. Unknown names default to info.
func ToLogLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	logger   zerolog.Logger
	provider *ZerologProvider
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	// An error value in the leading position is attached as the event error.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			l.emit(l.logger.Error().Err(err), msg, fields[1:])
			return
		}
	}
	l.emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger(), provider: l.provider}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.logger.GetLevel()
}

// emit applies key-value field pairs to the event and sends it. An odd
// trailing field is logged under the "field" key rather than dropped.
func (l *zerologLogger) emit(event *zerolog.Event, msg string, fields []any) {
	i := 0
	for ; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", fields[i])
		}
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			event = event.Object(key, v)
		case error:
			event = event.AnErr(key, v)
		default:
			event = event.Interface(key, v)
		}
	}
	if i < len(fields) {
		event = event.Interface("field", fields[i])
	}
	event.Msg(msg)
}
