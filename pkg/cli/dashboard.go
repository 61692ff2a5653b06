package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/edumentor/pkg/usecase/study"
	"github.com/urfave/cli/v3"
)

func dashboardCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show study progress",
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

			saved := st.SavedTopics()
			stats := study.Dashboard(st.History(), saved, st.Now(), st.Location())

			w := c.Root().Writer
			fmt.Fprintf(w, "Study streak:     %d days\n", stats.StudyStreak)
			fmt.Fprintf(w, "Topics studied:   %d\n", stats.TopicsStudied)
			fmt.Fprintf(w, "Queries today:    %d\n", stats.EntriesToday)
			fmt.Fprintf(w, "Total queries:    %d\n", stats.TotalEntries)
			fmt.Fprintf(w, "\nYou've completed %d out of %d study sessions this week\n", stats.SessionsThisWeek, stats.WeeklyGoal)
			if stats.RemainingSessions > 0 {
				fmt.Fprintf(w, "%d more sessions to reach your weekly goal!\n", stats.RemainingSessions)
			} else {
				fmt.Fprintf(w, "Weekly goal reached!\n")
			}

			fmt.Fprintf(w, "\nSaved topics (%d total)\n", stats.SavedTopics)
			printSavedTopics(w, saved)
			return nil
		},
	}
}
