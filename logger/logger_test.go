package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		opts    LoggerOpts
		wantErr bool
	}{
		{
			name: "valid debug level",
			opts: LoggerOpts{Level: "debug", IsProduction: false, JSONConsole: false},
		},
		{
			name: "valid info level production",
			opts: LoggerOpts{Level: "info", IsProduction: true, JSONConsole: true},
		},
		{
			name: "none level",
			opts: LoggerOpts{Level: "none", IsProduction: false, JSONConsole: false},
		},
		{
			name:    "invalid level",
			opts:    LoggerOpts{Level: "invalid", IsProduction: false, JSONConsole: false},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.opts)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && logger.Get() == nil {
				t.Errorf("NewLogger() logger is nil")
			}
		})
	}
}

func TestNewNoopLogger(t *testing.T) {
	logger := NewNoopLogger()

	if logger.logger == nil {
		t.Errorf("NewNoopLogger() logger.logger is nil")
	}

	if logger.Get() == nil {
		t.Errorf("NewNoopLogger().Get() returned nil")
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger, err := NewLogger(LoggerOpts{Level: "info"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.SetLevel(zapcore.DebugLevel)
	if logger.level.Level() != zapcore.DebugLevel {
		t.Errorf("SetLevel() level = %v, want %v", logger.level.Level(), zapcore.DebugLevel)
	}

	logger.SetLevel(zapcore.ErrorLevel)
	if logger.level.Level() != zapcore.ErrorLevel {
		t.Errorf("SetLevel() level = %v, want %v", logger.level.Level(), zapcore.ErrorLevel)
	}
}

func TestLogger_SetLevelStr(t *testing.T) {
	logger, err := NewLogger(LoggerOpts{Level: "info"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	tests := []struct {
		name      string
		levelStr  string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"debug level", "debug", zapcore.DebugLevel, false},
		{"info level", "info", zapcore.InfoLevel, false},
		{"warn level", "warn", zapcore.WarnLevel, false},
		{"error level", "error", zapcore.ErrorLevel, false},
		{"invalid level", "invalid", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logger.SetLevelStr(tt.levelStr)

			if (err != nil) != tt.wantErr {
				t.Errorf("SetLevelStr() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && logger.level.Level() != tt.wantLevel {
				t.Errorf("SetLevelStr() level = %v, want %v", logger.level.Level(), tt.wantLevel)
			}
		})
	}
}

func TestConsoleCore(t *testing.T) {
	ecfg := zap.NewDevelopmentEncoderConfig()
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if consoleCore(ecfg, level, false) == nil {
		t.Errorf("consoleCore() returned nil")
	}
	if consoleCore(ecfg, level, true) == nil {
		t.Errorf("consoleCore() JSON returned nil")
	}
}
