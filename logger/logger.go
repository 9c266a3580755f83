// Package logger wraps zap with runtime level control.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LoggerOpts struct {
	Level        string
	IsProduction bool
	JSONConsole  bool // Whether to use JSON encoding for the console output
}

type Logger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// New wrapped Zap logger.
func NewLogger(opts LoggerOpts) (Logger, error) {
	if opts.Level == "none" {
		return Logger{logger: zap.NewNop(), level: zap.AtomicLevel{}}, nil
	}
	level, err := zap.ParseAtomicLevel(opts.Level)
	if err != nil {
		return Logger{}, err
	}

	var ecfg zapcore.EncoderConfig
	if opts.IsProduction {
		ecfg = zap.NewProductionEncoderConfig()
	} else {
		ecfg = zap.NewDevelopmentEncoderConfig()
	}
	ecfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := consoleCore(ecfg, level, opts.JSONConsole)
	return Logger{logger: zap.New(core), level: level}, nil
}

func NewNoopLogger() Logger {
	return Logger{logger: zap.NewNop(), level: zap.AtomicLevel{}}
}

// Return usable Zap logger.
func (l Logger) Get() *zap.Logger {
	return l.logger
}

// Change the log level at runtime
func (l Logger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

// Change the log level at runtime
func (l Logger) SetLevelStr(input string) error {
	level, err := zap.ParseAtomicLevel(input)
	if err != nil {
		return err
	}
	l.level.SetLevel(level.Level())
	return nil
}

// Core writing to the console, pretty when attached to a terminal unless
// JSON output was requested.
func consoleCore(ecfg zapcore.EncoderConfig, level zap.AtomicLevel, jsonConsole bool) zapcore.Core {
	if !isTTY() {
		return zapcore.NewNopCore()
	}
	var encoder zapcore.Encoder
	if jsonConsole {
		encoder = zapcore.NewJSONEncoder(ecfg)
	} else {
		ecfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(ecfg)
	}
	return zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
