// Package logger wraps zap so the rest of the engine can log through a
// single shared instance.
package logger

import "go.uber.org/zap"

// Log is the shared logger. Call Init before using it.
var Log *zap.Logger

// Init builds the shared logger. Safe to call more than once.
func Init() {
	if Log != nil {
		return
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		Log = zap.NewNop()
		return
	}
	Log = logger
}
