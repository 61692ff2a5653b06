package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var (
		cfg  config
		save bool
	)

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "save",
			Aliases:     []string{"s"},
			Usage:       "Add the explanation to saved topics",
			Destination: &save,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Explain a topic with recommended resources",
		ArgsUsage: "<topic>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.logger(ctx)
			if err != nil {
				return err
			}

			topic := strings.Join(c.Args().Slice(), " ")
			if topic == "" {
				return goerr.New("topic is required")
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

			exp, _, err := uc.Explain(ctx, topic)
			if err != nil {
				return goerr.Wrap(err, "failed to explain topic", goerr.V("topic", topic))
			}
			printExplanation(c.Root().Writer, topic, exp)

			if save {
				if _, err := uc.SaveTopic(ctx, topic, topic, exp); err != nil {
					return goerr.Wrap(err, "failed to save topic")
				}
			}
			return nil
		},
	}
}
