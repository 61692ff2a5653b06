package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/usecase/study"
	"github.com/m-mizutani/edumentor/pkg/usecase/tutor"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func quizCommand() *cli.Command {
	var (
		cfg        config
		difficulty string
		qtype      string
		count      int64
		printOnly  bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "difficulty",
			Usage:       "Question difficulty (easy, medium, hard)",
			Value:       "medium",
			Destination: &difficulty,
		},
		&cli.StringFlag{
			Name:        "type",
			Aliases:     []string{"t"},
			Usage:       "Question type (mcq, short, long, mixed)",
			Value:       "mcq",
			Destination: &qtype,
		},
		&cli.IntFlag{
			Name:        "count",
			Aliases:     []string{"n"},
			Usage:       "Number of questions",
			Value:       tutor.DefaultQuestionCount,
			Destination: &count,
		},
		&cli.BoolFlag{
			Name:        "print",
			Usage:       "Print questions with answers instead of starting a quiz",
			Destination: &printOnly,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "quiz",
		Usage:     "Generate practice questions and take a quiz",
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

			questions, _, err := uc.GenerateQuestions(ctx, tutor.QuestionRequest{
				Topic:      strings.Join(c.Args().Slice(), " "),
				Difficulty: difficulty,
				Type:       qtype,
				Count:      int(count),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to generate questions")
			}

			w := c.Root().Writer
			if printOnly {
				for i, q := range questions {
					printQuestion(w, i, len(questions), q)
					fmt.Fprintf(w, "Answer: %s\n%s\n", q.CorrectAnswer, q.Explanation)
				}
				return nil
			}

			return runQuiz(w, study.NewQuiz(questions))
		},
	}
}

// resolveAnswer maps an option number to the option text
func resolveAnswer(q *model.QuizQuestion, input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1]
	}
	return input
}

func runQuiz(w io.Writer, quiz *study.Quiz) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "answer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return goerr.Wrap(err, "failed to start readline")
	}
	defer rl.Close()

	for !quiz.Done() {
		q := quiz.Current()
		printQuestion(w, quiz.Index(), quiz.Len(), q)

		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read answer")
		}

		if err := quiz.Submit(resolveAnswer(q, strings.TrimSpace(line))); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\nQuiz Complete! You scored %d out of %d questions.\n", quiz.Score(), quiz.Len())
	for i, r := range quiz.Results() {
		mark := "✔"
		if !r.Correct {
			mark = "✘"
		}
		fmt.Fprintf(w, "%s %d. %s\n   your answer: %s\n   correct: %s\n   %s\n",
			mark, i+1, r.Question.Question, r.Answer, r.Question.CorrectAnswer, r.Question.Explanation)
	}
	return nil
}
