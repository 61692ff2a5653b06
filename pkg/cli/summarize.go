package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/edumentor/pkg/usecase/tutor"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func summarizeCommand() *cli.Command {
	var (
		cfg         config
		input       string
		summaryType string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to a notes file; stdin when omitted",
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Summary granularity (topic, chapter)",
			Value:       string(tutor.SummaryTypeTopic),
			Destination: &summaryType,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "summarize",
		Usage: "Summarize study notes into revision points",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.logger(ctx)
			if err != nil {
				return err
			}

			var r io.Reader = os.Stdin
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return goerr.Wrap(err, "failed to open notes file", goerr.V("path", input))
				}
				defer f.Close()
				r = f
			}

			content, err := io.ReadAll(r)
			if err != nil {
				return goerr.Wrap(err, "failed to read notes")
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

			summary, err := uc.SummarizeNotes(ctx, string(content), tutor.SummaryType(summaryType))
			if err != nil {
				return goerr.Wrap(err, "failed to summarize notes")
			}

			fmt.Fprintln(c.Root().Writer, summary)
			return nil
		},
	}
}
