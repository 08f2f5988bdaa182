// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger wraps a zap logger with the small surface used by
// the proxy registry and the starlabel command.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	log *zap.Logger
}

// NewLogger returns a JSON logger writing to stderr at the named level.
// Unknown levels fall back to "info".
func NewLogger(logLevel, app string) *Logger {
	cfg := zap.Config{
		Encoding:         "json",
		DisableCaller:    true,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:  "message",
			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
			TimeKey:     "timestamp",
			EncodeTime:  zapcore.ISO8601TimeEncoder,
			NameKey:     "app",
		},
	}

	var level zapcore.Level
	switch logLevel {
	case "debug":
		level = zap.DebugLevel
		cfg.DisableCaller = false
		cfg.EncoderConfig.CallerKey = "caller"
		cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	case "warn":
		level = zap.WarnLevel
	case "error":
		level = zap.ErrorLevel
	default:
		level = zap.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{log: l.Named(app)}
}

// New wraps an existing zap logger.
func New(l *zap.Logger) *Logger {
	return &Logger{log: l}
}

func NewNop() *Logger {
	return &Logger{log: zap.NewNop()}
}

func String(key, value string) zap.Field {
	return zap.String(key, value)
}

// Count reports a number of items, such as values yielded before a
// failure.
func Count(count int) zap.Field {
	return zap.Int("count", count)
}

// Named returns a child logger whose name is appended to l's.
func (l *Logger) Named(name string) *Logger {
	return &Logger{log: l.log.Named(name)}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.log.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.log.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, err error, extraFields ...zap.Field) {
	fields := []zap.Field{zap.Error(err)}
	fields = append(fields, extraFields...)
	l.log.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, err error, extraFields ...zap.Field) {
	fields := []zap.Field{zap.Error(err)}
	fields = append(fields, extraFields...)
	l.log.Error(msg, fields...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.log.Sync()
}
