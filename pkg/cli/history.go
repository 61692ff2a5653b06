package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/edumentor/pkg/adapter"
	"github.com/m-mizutani/edumentor/pkg/usecase/export"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse and manage study history",
		Commands: []*cli.Command{
			historyListCommand(),
			historyDateCommand(),
			historySearchCommand(),
			historyExportCommand(),
			historyClearCommand(),
		},
	}
}

func historyListCommand() *cli.Command {
	var (
		cfg   config
		limit int64
		byDay bool
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of entries to list, 0 for all",
			Value:       20,
			Destination: &limit,
		},
		&cli.BoolFlag{
			Name:        "by-day",
			Usage:       "Group entries by calendar day",
			Destination: &byDay,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List recent history, newest first",
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

			w := c.Root().Writer
			if byDay {
				for _, g := range st.GroupHistoryByDay() {
					fmt.Fprintf(w, "== %s (%d)\n", g.Day.Format("Mon, 02 Jan 2006"), len(g.Entries))
					printHistory(w, g.Entries)
				}
				return nil
			}

			entries := st.History()
			if limit > 0 && int(limit) < len(entries) {
				entries = entries[:limit]
			}
			printHistory(w, entries)
			return nil
		},
	}
}

func historyDateCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "date",
		Usage:     "List history of one calendar day",
		ArgsUsage: "<YYYY-MM-DD|today|yesterday>",
		Flags:     globalFlags(&cfg),
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

			day, err := parseDay(c.Args().First(), st.Now(), st.Location())
			if err != nil {
				return err
			}

			printHistory(c.Root().Writer, slices.Collect(st.QueryByDate(day)))
			return nil
		},
	}
}

func parseDay(arg string, now time.Time, loc *time.Location) (time.Time, error) {
	switch arg {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}

	day, err := time.ParseInLocation("2006-01-02", arg, loc)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date, expected YYYY-MM-DD", goerr.V("date", arg))
	}
	return day, nil
}

func historySearchCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "search",
		Usage:     "Search history by query or explanation text",
		ArgsUsage: "<term>",
		Flags:     globalFlags(&cfg),
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

			printHistory(c.Root().Writer, st.SearchHistory(strings.Join(c.Args().Slice(), " ")))
			return nil
		},
	}
}

func historyExportCommand() *cli.Command {
	var (
		cfg       config
		ec        exportConfig
		bqProject string
		bqDataset string
		bqTable   string
	)

	flags := exportFlags(&ec)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "bigquery-project",
			Usage:       "Stream history to BigQuery in this project instead of writing a file",
			Sources:     cli.EnvVars("EDUMENTOR_BIGQUERY_PROJECT"),
			Destination: &bqProject,
		},
		&cli.StringFlag{
			Name:        "bigquery-dataset",
			Usage:       "BigQuery dataset ID",
			Sources:     cli.EnvVars("EDUMENTOR_BIGQUERY_DATASET"),
			Destination: &bqDataset,
		},
		&cli.StringFlag{
			Name:        "bigquery-table",
			Usage:       "BigQuery table ID",
			Value:       "history",
			Sources:     cli.EnvVars("EDUMENTOR_BIGQUERY_TABLE"),
			Destination: &bqTable,
		},
	)
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export history to a dated file or BigQuery",
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

			if bqProject == "" {
				return ec.write(ctx, c, "history", st.History())
			}

			if bqDataset == "" {
				return goerr.New("bigquery-dataset is required")
			}
			bq, err := adapter.NewBigQuery(ctx, bqProject, cfg.clientOptions()...)
			if err != nil {
				return err
			}
			defer bq.Close()

			n, err := export.HistoryToBigQuery(ctx, bq, bqDataset, bqTable, st.History())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Exported %d entries to %s.%s.%s\n", n, bqProject, bqDataset, bqTable)
			return nil
		},
	}
}

func historyClearCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all history",
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

			n := st.HistoryLen()
			if err := st.ClearHistory(ctx); err != nil {
				return goerr.Wrap(err, "failed to clear history")
			}
			fmt.Fprintf(c.Root().Writer, "Cleared %d history entries\n", n)
			return nil
		},
	}
}
