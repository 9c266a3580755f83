package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				options := []string{"error", "warn", "info", "debug"}
				if slices.Contains(options, strings.ToLower(v)) {
					return nil
				}
				return cli.Exit(fmt.Errorf("'log-level' must be %v. Received: %v", strings.Join(options, ", "), v), 2)
			},
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "build environment description",
			Value:   "development",
			Sources: cli.EnvVars("ENVIRONMENT"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				options := []string{EnvironmentDevelopment.String(), EnvironmentProduction.String()}
				if slices.Contains(options, strings.ToLower(v)) {
					return nil
				}
				return cli.Exit(fmt.Errorf("'env' must be %v. Received: %v", strings.Join(options, ", "), v), 2)
			},
		},
		&cli.StringFlag{
			Name:    "server-url",
			Usage:   "Server URL",
			Value:   "http://localhost:5000",
			Sources: cli.EnvVars("SERVER_URL"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				if err := validateURLInput(v); err != nil {
					return cli.Exit(fmt.Errorf("invalid server URL: %v", err), 2)
				}
				return nil
			},
		},
		&cli.StringFlag{
			Name:  "gemini-api-key",
			Usage: "Gemini API key. Without it the server runs with persona fallback replies only.",
			// cli.EnvVars stops at the first set variable even when its value
			// is empty; MakeConfig finishes the non-empty resolution.
			Sources: cli.EnvVars("GEMINI_API_KEY", "GOOGLE_AI_API_KEY"),
		},
		&cli.StringFlag{
			Name:    "model",
			Usage:   "Gemini model name",
			Value:   "gemini-2.5-flash",
			Sources: cli.EnvVars("GEMINI_MODEL"),
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Conversation store backend",
			Value:   StoreMemory.String(),
			Sources: cli.EnvVars("STORE_BACKEND"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				options := []string{StoreMemory.String(), StoreSQLite.String()}
				if slices.Contains(options, strings.ToLower(v)) {
					return nil
				}
				return cli.Exit(fmt.Errorf("'store' must be %v. Received: %v", strings.Join(options, ", "), v), 2)
			},
		},
		&cli.StringFlag{
			Name:    "store-dsn",
			Usage:   "DSN for the sqlite store backend. Defaults to a shared in-memory database.",
			Sources: cli.EnvVars("STORE_DSN"),
		},
		&cli.DurationFlag{
			Name:    "reply-timeout",
			Usage:   "Upper bound on a single upstream generation call",
			Value:   30 * time.Second,
			Sources: cli.EnvVars("REPLY_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "personas-file",
			Usage:   "Optional YAML or JSON file overriding persona prompts, reloaded on change",
			Sources: cli.EnvVars("PERSONAS_FILE"),
			Action: func(ctx context.Context, cmd *cli.Command, v string) error {
				if err := validateFileInput(v); err != nil {
					return cli.Exit(fmt.Errorf("invalid personas file: %v", err), 2)
				}
				return nil
			},
		},
	}
}

// Ensures the file input is valid.
func validateFileInput(file string) error {
	if file == "" {
		return errors.New("file is required")
	}
	_, err := os.Stat(file)
	return err
}

func validateURLInput(input string) error {
	if input == "" {
		return errors.New("URL is required")
	}
	u, err := url.ParseRequestURI(input)
	if err != nil {
		return fmt.Errorf("invalid url '%v': %v", input, err)
	}
	host, _, err := net.SplitHostPort(u.Host)
	if err != nil || host == "" {
		return fmt.Errorf("invalid url '%v': %v", input, err)
	}
	return nil
}
