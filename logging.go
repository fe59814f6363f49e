package sentinel

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the narrow structured-logging surface every subsystem accepts.
// It never blocks the simulation loop and must be safe to call with a nil
// receiver's caller holding no lock (every method takes its own).
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger backs Logger with a zerolog writer: each line is a JSON
// record carrying a timestamp and a component field, with the message
// itself formatted by Msgf.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	logger zerolog.Logger
}

func NewDefaultLogger(component string, debug bool) *DefaultLogger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger().Level(level)
	return &DefaultLogger{debug: debug, logger: zl}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
	if enabled {
		l.logger = l.logger.Level(zerolog.DebugLevel)
	} else {
		l.logger = l.logger.Level(zerolog.InfoLevel)
	}
}

func (l *DefaultLogger) current() *zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	zl := l.logger
	return &zl
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.current().Debug().Msgf(format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.current().Info().Msgf(format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.current().Warn().Msgf(format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.current().Error().Msgf(format, args...) }

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything. It is the default
// for every subsystem constructed without an explicit Logger.
func NewNopLogger() Logger { return &nopLogger{} }

func (n *nopLogger) DebugEnabled() bool                { return false }
func (n *nopLogger) SetDebug(enabled bool)             {}
func (n *nopLogger) Debugf(format string, args ...any) {}
func (n *nopLogger) Infof(format string, args ...any)  {}
func (n *nopLogger) Warnf(format string, args ...any)  {}
func (n *nopLogger) Errorf(format string, args ...any) {}
