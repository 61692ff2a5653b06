package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/usecase/study"
	"github.com/m-mizutani/edumentor/pkg/usecase/tutor"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const flashcardHelp = "commands: [f]lip, [n]ext, [p]rev, 1=easy 2=medium 3=hard, [r]eset, [q]uit"

func flashcardsCommand() *cli.Command {
	var (
		cfg       config
		count     int64
		printOnly bool
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "count",
			Aliases:     []string{"n"},
			Usage:       "Number of flashcards",
			Value:       tutor.DefaultFlashcardCount,
			Destination: &count,
		},
		&cli.BoolFlag{
			Name:        "print",
			Usage:       "Print all cards instead of starting a review session",
			Destination: &printOnly,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "flashcards",
		Usage:     "Generate flashcards and review them",
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

			cards, err := uc.GenerateFlashcards(ctx, strings.Join(c.Args().Slice(), " "), int(count))
			if err != nil {
				return goerr.Wrap(err, "failed to generate flashcards")
			}

			w := c.Root().Writer
			if printOnly {
				for i, card := range cards {
					fmt.Fprintf(w, "%d. [%s] %s\n   %s\n", i+1, card.Difficulty, card.Front, card.Back)
				}
				return nil
			}

			return runDeck(w, study.NewDeck(cards))
		},
	}
}

func printCard(w io.Writer, deck *study.Deck) {
	card := deck.Current()
	side := "Front"
	text := card.Front
	if deck.Flipped() {
		side = "Back"
		text = card.Back
	}
	fmt.Fprintf(w, "\nCard %d of %d [%s] (%s)\n%s: %s\n",
		deck.Index()+1, deck.Len(), card.Difficulty, deck.Progress(card.ID), side, text)
}

func runDeck(w io.Writer, deck *study.Deck) error {
	if deck.Len() == 0 {
		fmt.Fprintf(w, "No flashcards generated\n")
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "card> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return goerr.Wrap(err, "failed to start readline")
	}
	defer rl.Close()

	fmt.Fprintln(w, flashcardHelp)
	printCard(w, deck)

loop:
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to read command")
		}

		switch strings.TrimSpace(line) {
		case "f", "":
			deck.Flip()
		case "n":
			deck.Next()
		case "p":
			deck.Prev()
		case "1":
			_ = deck.Mark(model.CardDifficultyEasy)
		case "2":
			_ = deck.Mark(model.CardDifficultyMedium)
		case "3":
			_ = deck.Mark(model.CardDifficultyHard)
		case "r":
			deck.Reset()
		case "q":
			break loop
		default:
			fmt.Fprintln(w, flashcardHelp)
			continue
		}
		printCard(w, deck)
	}

	stats := deck.Stats()
	fmt.Fprintf(w, "\nReviewed %d of %d cards (easy %d, medium %d, hard %d)\n",
		stats.Completed, stats.Total, stats.Easy, stats.Medium, stats.Hard)
	return nil
}
