package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "edumentor",
		Usage: "AI study assistant: explanations, quizzes, flashcards and study history",
		Commands: []*cli.Command{
			askCommand(),
			quizCommand(),
			flashcardsCommand(),
			conceptMapCommand(),
			doubtCommand(),
			summarizeCommand(),
			historyCommand(),
			topicsCommand(),
			dashboardCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
