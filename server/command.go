package server

import (
	"context"
	"fmt"

	"github.com/the-last-flaw/refine-forge/server/chat"
	"github.com/urfave/cli/v3"
)

func newListPersonasCommand(s *Server) *cli.Command {
	return &cli.Command{
		Name:   "personas",
		Usage:  "List the available personas and their prompts",
		Action: cmdWithServer(listPersonas, s),
	}
}

func listPersonas(ctx context.Context, cmd *cli.Command, s *Server) error {
	if s.personas != nil {
		if err := s.personas.Start(ctx); err != nil {
			return fmt.Errorf("load personas file: %w", err)
		}
		defer s.personas.Stop()
	}

	for _, p := range []chat.Persona{chat.PersonaJudas, chat.PersonaHeavensFang} {
		fmt.Printf("%s:\n%s\n\n", p, s.gateway.Template(p))
	}
	return nil
}

type askCommandFlags struct {
	Message string
	Persona string
}

func newAskCommandFlags(cmd *cli.Command) *askCommandFlags {
	return &askCommandFlags{
		Message: cmd.String("message"),
		Persona: cmd.String("persona"),
	}
}

func newAskCommand(s *Server) *cli.Command {
	return &cli.Command{
		Name:   "ask",
		Usage:  "Send a one-shot message to a persona and print the reply",
		Action: cmdWithServer(ask, s),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "Message text to send",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "persona",
				Aliases: []string{"p"},
				Usage:   "Persona to address: judas (primary) or heavens-fang (secondary)",
			},
		},
	}
}

func ask(ctx context.Context, cmd *cli.Command, s *Server) error {
	f := newAskCommandFlags(cmd)
	if f.Message == "" {
		return fmt.Errorf("message text is required")
	}

	if err := s.ai.Start(ctx); err != nil {
		return fmt.Errorf("start ai: %w", err)
	}
	if s.personas != nil {
		if err := s.personas.Start(ctx); err != nil {
			return fmt.Errorf("load personas file: %w", err)
		}
		defer s.personas.Stop()
	}

	reply := s.gateway.Generate(ctx, f.Message, chat.ParsePersona(f.Persona))
	fmt.Println(reply)
	return nil
}
