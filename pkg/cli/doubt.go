package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/edumentor/pkg/adapter"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func doubtCommand() *cli.Command {
	var (
		cfg     config
		subject string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "context",
			Aliases:     []string{"c"},
			Usage:       "Context added to every question, such as the chapter being studied",
			Destination: &subject,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "doubt",
		Usage: "Ask follow-up questions interactively",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.logger(ctx)
			if err != nil {
				return err
			}

			st, err := cfg.newStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(ctx, st)

			uc, err := cfg.newTutor(ctx, st)
			if err != nil {
				return err
			}
			session := uc.NewDoubtSession(subject)

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "> ",
				HistoryFile:     filepath.Join(cfg.dataDir, "doubt_history"),
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return goerr.Wrap(err, "failed to start readline")
			}
			defer rl.Close()

			w := c.Root().Writer
			fmt.Fprintf(w, "Doubt session started. Type 'clear' to reset, 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt || err == io.EOF {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read question")
				}

				question := strings.TrimSpace(line)
				switch question {
				case "":
					continue
				case "exit", "quit":
					fmt.Fprintf(w, "Asked %d questions\n", session.QuestionCount())
					return nil
				case "clear":
					session.Clear(ctx)
					continue
				}

				msg, err := session.Ask(ctx, question)
				if err != nil {
					var terr *adapter.TransportError
					if !errors.As(err, &terr) {
						return err
					}
					logging.From(ctx).Warn("failed to solve doubt", "error", err)
				}
				fmt.Fprintf(w, "\n%s\n\n", msg.Content)
			}

			fmt.Fprintf(w, "Asked %d questions\n", session.QuestionCount())
			return nil
		},
	}
}
