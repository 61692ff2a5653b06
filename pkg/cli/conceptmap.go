package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/usecase/export"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func conceptMapCommand() *cli.Command {
	var (
		cfg    config
		format string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format (tree, json, yaml)",
			Value:       "tree",
			Destination: &format,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "conceptmap",
		Usage:     "Map how the ideas of a topic connect",
		ArgsUsage: "<topic>",
		Flags:     flags,
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

			m, err := uc.GenerateConceptMap(ctx, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return goerr.Wrap(err, "failed to generate concept map")
			}

			if format == "tree" {
				printConceptMap(c.Root().Writer, m)
				return nil
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return export.Write(c.Root().Writer, f, m)
		},
	}
}
