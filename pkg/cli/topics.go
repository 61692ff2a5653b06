package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func topicsCommand() *cli.Command {
	return &cli.Command{
		Name:  "topics",
		Usage: "Manage saved topics",
		Commands: []*cli.Command{
			topicsSaveCommand(),
			topicsListCommand(),
			topicsShowCommand(),
			topicsRemoveCommand(),
			topicsExportCommand(),
		},
	}
}

func topicsSaveCommand() *cli.Command {
	var (
		cfg   config
		title string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "title",
			Usage:       "Title of the saved topic; the topic itself when omitted",
			Destination: &title,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "save",
		Usage:     "Explain a topic and keep it in saved topics",
		ArgsUsage: "<topic>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.logger(ctx)
			if err != nil {
				return err
			}

			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return goerr.New("topic is required")
			}
			if title == "" {
				title = query
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

			exp, _, err := uc.Explain(ctx, query)
			if err != nil {
				return goerr.Wrap(err, "failed to explain topic", goerr.V("topic", query))
			}

			topic, err := uc.SaveTopic(ctx, title, query, exp)
			if err != nil {
				return goerr.Wrap(err, "failed to save topic")
			}
			fmt.Fprintf(c.Root().Writer, "%s\t%s\n", topic.ID, topic.Title)
			return nil
		},
	}
}

func topicsListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List saved topics, newest first",
		Flags: globalFlags(&cfg),
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

			printSavedTopics(c.Root().Writer, st.SavedTopics())
			return nil
		},
	}
}

func topicsShowCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show the explanation of a saved topic",
		ArgsUsage: "<topic-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.logger(ctx)
			if err != nil {
				return err
			}

			id := model.EntryID(c.Args().First())
			if id == "" {
				return goerr.New("topic id is required")
			}

			st, err := cfg.newStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(ctx, st)

			topic, ok := st.SavedTopic(id)
			if !ok {
				return goerr.New("saved topic not found", goerr.V("id", id))
			}
			if topic.Response == nil {
				fmt.Fprintf(c.Root().Writer, "# %s\n\n(no explanation saved)\n", topic.Title)
				return nil
			}
			printExplanation(c.Root().Writer, topic.Title, topic.Response)
			return nil
		},
	}
}

func topicsRemoveCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove a saved topic",
		ArgsUsage: "<topic-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, err := cfg.logger(ctx)
			if err != nil {
				return err
			}

			id := model.EntryID(c.Args().First())
			if id == "" {
				return goerr.New("topic id is required")
			}

			st, err := cfg.newStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore(ctx, st)

			if _, ok := st.SavedTopic(id); !ok {
				fmt.Fprintf(c.Root().Writer, "No saved topic %s\n", id)
			}
			if err := st.RemoveSavedTopic(ctx, id); err != nil {
				return goerr.Wrap(err, "failed to remove saved topic")
			}
			return nil
		},
	}
}

func topicsExportCommand() *cli.Command {
	var (
		cfg config
		ec  exportConfig
	)

	flags := exportFlags(&ec)
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export saved topics to a dated file",
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

			return ec.write(ctx, c, "savedTopics", st.SavedTopics())
		},
	}
}
