package server

import (
	"context"
	"fmt"

	"github.com/the-last-flaw/refine-forge/server/config"
	"github.com/urfave/cli/v3"
)

type cmdWithArgs func(ctx context.Context, cmd *cli.Command, s *Server) error

// Wrap subcommands to inject the server dependency
func cmdWithServer(action cmdWithArgs, s *Server) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return action(ctx, cmd, s)
	}
}

type setupWithArgs func(ctx context.Context, cmd *cli.Command) (context.Context, error)

func setup(setup setupWithArgs) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		return setup(ctx, cmd)
	}
}

func NewCommandRoot(s *Server) (*bool, *cli.Command) {
	opts := s.BuildOpts
	version := fmt.Sprintf("%s (%s)", opts.BuildVersion, opts.BuildTime)
	if opts.BuildTime == "" {
		version = opts.BuildVersion
	}
	start := new(bool)
	return start, &cli.Command{
		Name:    "refine-forge",
		Usage:   "Persona chat server forwarding messages to a hosted LLM",
		Version: version,
		Before:  setup(s.Setup), // runs before any command to initialize the server
		Action: func(ctx context.Context, cmd *cli.Command) error {
			*start = true
			return nil
		},
		Commands: Commands(s),
		Flags:    config.Flags(),
	}
}

func Commands(s *Server) []*cli.Command {
	return []*cli.Command{
		newListPersonasCommand(s),
		newAskCommand(s),
	}
}
