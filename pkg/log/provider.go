package log

import "sync"

var (
	globalMu       sync.RWMutex
	globalProvider LoggerProvider
)

// SetProvider installs the process-wide LoggerProvider. The pipeline entry
// point calls this once before any stage runs.
func SetProvider(p LoggerProvider) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider = p
}

// GetLogger returns the default logger from the process-wide provider,
// creating a zerolog provider at info level when none is installed.
func GetLogger() Logger {
	return provider().GetLogger()
}

// GetLoggerWithName returns a named logger from the process-wide provider.
func GetLoggerWithName(name string) Logger {
	return provider().GetLoggerWithName(name)
}

func provider() LoggerProvider {
	globalMu.RLock()
	p := globalProvider
	globalMu.RUnlock()
	if p != nil {
		return p
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalProvider == nil {
		globalProvider = NewZerologProvider(LevelInfo)
	}
	return globalProvider
}
