// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package log wraps seelog behind package-level leveled functions so that
// callers never hold a logger instance.
package log

import (
	"fmt"
	"sync"

	"github.com/cihub/seelog"
)

var (
	mu     sync.RWMutex
	logger seelog.LoggerInterface = seelog.Disabled
)

const consoleConfig = `
<seelog minlevel="%s">
    <outputs formatid="common">
        <console/>
    </outputs>
    <formats>
        <format id="common" format="%%Date(2006-01-02 15:04:05 MST) | %%LEVEL | %%Msg%%n"/>
    </formats>
</seelog>`

// SetupLogger replaces the active logger. It is meant to be called once at
// startup, before any goroutine starts logging.
func SetupLogger(l seelog.LoggerInterface) {
	mu.Lock()
	defer mu.Unlock()
	// callers go through the package-level functions below, so skip the
	// extra stack frame when seelog resolves the call site
	l.SetAdditionalStackDepth(1) //nolint:errcheck
	logger = l
}

// SetupConsoleLogger builds a console logger at the given level ("trace",
// "debug", "info", "warn", "error", "critical") and installs it.
func SetupConsoleLogger(level string) error {
	if _, ok := seelog.LogLevelFromString(level); !ok {
		return fmt.Errorf("unknown log level: %q", level)
	}
	l, err := seelog.LoggerFromConfigAsString(fmt.Sprintf(consoleConfig, level))
	if err != nil {
		return err
	}
	SetupLogger(l)
	return nil
}

// Flush flushes any buffered log entries.
func Flush() {
	mu.RLock()
	defer mu.RUnlock()
	logger.Flush()
}

// Tracef formats and logs at the trace level.
func Tracef(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Tracef(format, params...)
}

// Debugf formats and logs at the debug level.
func Debugf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debugf(format, params...)
}

// Infof formats and logs at the info level.
func Infof(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Infof(format, params...)
}

// Info logs its arguments at the info level.
func Info(v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Info(v...)
}

// Warnf formats and logs at the warn level.
func Warnf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warnf(format, params...) //nolint:errcheck
}

// Errorf formats and logs at the error level.
func Errorf(format string, params ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Errorf(format, params...) //nolint:errcheck
}

// Error logs its arguments at the error level.
func Error(v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Error(v...) //nolint:errcheck
}
