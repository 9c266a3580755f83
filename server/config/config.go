package config

import (
	"os"
	"time"

	"github.com/the-last-flaw/refine-forge/server/ai"
	"github.com/the-last-flaw/refine-forge/server/chat"
	httpserver "github.com/the-last-flaw/refine-forge/server/http"
	"github.com/urfave/cli/v3"
)

type Environment string
type StoreBackend string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"

	StoreMemory StoreBackend = "memory"
	StoreSQLite StoreBackend = "sqlite"
)

func (e Environment) String() string {
	return string(e)
}

func (b StoreBackend) String() string {
	return string(b)
}

func environmentFromString(s string) Environment {
	switch s {
	case EnvironmentProduction.String():
		return EnvironmentProduction
	default:
		return EnvironmentDevelopment
	}
}

func storeBackendFromString(s string) StoreBackend {
	switch s {
	case StoreSQLite.String():
		return StoreSQLite
	default:
		return StoreMemory
	}
}

// From LDFLAGS
type BuildOpts struct {
	BuildVersion string
	BuildTime    string
}

func (l BuildOpts) MakeConfig(cmd *cli.Command) Config {
	if l.BuildVersion == "" {
		l.BuildVersion = "dev"
	}
	if l.BuildTime == "" {
		l.BuildTime = "unknown"
	}
	opts := configOpts{
		Version:      l.BuildVersion,
		BuildTime:    l.BuildTime,
		LogLevel:     cmd.String("log-level"),
		Environment:  cmd.String("env"),
		ServerURL:    cmd.String("server-url"),
		GeminiAPIKey: resolveAPIKey(cmd.String("gemini-api-key"), "GEMINI_API_KEY", "GOOGLE_AI_API_KEY"),
		Model:        cmd.String("model"),
		Store:        cmd.String("store"),
		StoreDSN:     cmd.String("store-dsn"),
		ReplyTimeout: cmd.Duration("reply-timeout"),
		PersonasFile: cmd.String("personas-file"),
	}

	return newConfig(opts)
}

type configOpts struct {
	Version      string
	BuildTime    string
	LogLevel     string
	Environment  string
	ServerURL    string
	GeminiAPIKey string
	Model        string
	Store        string
	StoreDSN     string
	ReplyTimeout time.Duration
	PersonasFile string
}

type Config struct {
	Version      string
	BuildTime    string
	LogLevel     string
	Environment  Environment
	Store        StoreBackend
	StoreDSN     string
	PersonasFile string
	Server       httpserver.Config
	AI           ai.Config
	Gateway      chat.GatewayConfig
}

func newConfig(opts configOpts) Config {
	return Config{
		Version:      opts.Version,
		BuildTime:    opts.BuildTime,
		LogLevel:     Default(opts.LogLevel, "info"),
		Environment:  environmentFromString(opts.Environment),
		Store:        storeBackendFromString(opts.Store),
		StoreDSN:     Default(opts.StoreDSN, chat.DefaultSQLiteDSN),
		PersonasFile: opts.PersonasFile,
		Server: httpserver.Config{
			ServerURL: Default(opts.ServerURL, "http://localhost:5000"),
		},
		AI: ai.Config{
			APIKey: opts.GeminiAPIKey,
			Model:  Default(opts.Model, ai.DefaultModel),
		},
		Gateway: chat.GatewayConfig{
			ReplyTimeout: opts.ReplyTimeout,
		},
	}
}

// resolveAPIKey returns the flag value, or the first non-empty environment
// variable. A variable that is set but empty is skipped, unlike the flag's
// env sources which stop at the first set variable.
func resolveAPIKey(flagValue string, envVars ...string) string {
	if flagValue != "" {
		return flagValue
	}
	for _, name := range envVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func Default[T comparable](val T, defaultVal T) T {
	var zero T
	if val == zero {
		return defaultVal
	}
	return val
}
