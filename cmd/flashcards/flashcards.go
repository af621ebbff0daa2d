package flashcards

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/flashcards"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// NewFlashcardsCommand creates the flashcards command
func NewFlashcardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flashcards",
		Aliases: []string{"fc"},
		Short:   "Generate and review flashcards",
		Long: `Generate flashcards from vault notes, keep them in the state database and
review them with spaced repetition.`,
	}

	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newDueCommand())
	cmd.AddCommand(newReviewCommand())

	return cmd
}

// styleFlag resolves --style, falling back to the configured style
func styleFlag(app *cli.App, style string) (model.LearningStyle, error) {
	if style == "" {
		return app.Engine.Style(), nil
	}
	parsed, ok := model.ParseLearningStyle(style)
	if !ok {
		return "", errors.NewInvalidValueError("style", fmt.Sprintf("unknown learning style %q", style), "")
	}
	return parsed, nil
}

func newGenerateCommand() *cobra.Command {
	var (
		style      string
		regenerate bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate flashcards for vault notes",
		Long: `Generate flashcards for every note that has none yet and drop the cards of
deleted notes. --regenerate replaces every note's cards and resets review
progress. --dry-run prints the cards without storing them.`,
		Example: `  mindmeld flashcards generate
  mindmeld flashcards generate --style visual --regenerate
  mindmeld flashcards generate --dry-run --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				s, err := styleFlag(app, style)
				if err != nil {
					return err
				}
				notes, err := app.Notes(ctx)
				if err != nil {
					return err
				}

				if dryRun {
					cards := app.Engine.Flashcards(notes, s)
					return cli.Print(cmd, cards, func(w io.Writer) error {
						return writeCards(w, cards)
					})
				}

				result, err := app.Engine.SyncFlashcards(ctx, notes, s, regenerate)
				if err != nil {
					return err
				}
				return cli.Print(cmd, result, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Generated %d flashcards for %d notes, removed %d.\n",
						result.Generated, result.Notes, result.Removed)
					return err
				})
			})
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "Learning style for hints (visual, auditory, kinesthetic, balanced)")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "Replace existing cards, resetting review progress")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the generated cards without storing them")
	return cmd
}

func newListCommand() *cobra.Command {
	var noteID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored flashcards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				cards, err := app.Store.Flashcards(ctx)
				if err != nil {
					return errors.NewStoreError("flashcards.list", app.Store.Path(), err)
				}
				if noteID != "" {
					cards = flashcards.ForNote(cards, noteID)
				}
				return cli.Print(cmd, cards, func(w io.Writer) error {
					return writeCards(w, cards)
				})
			})
		},
	}

	cmd.Flags().StringVar(&noteID, "note", "", "Only show cards generated from this note")
	return cmd
}

func newDueCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "List flashcards due for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				cards, err := app.Engine.DueFlashcards(ctx)
				if err != nil {
					return err
				}
				return cli.Print(cmd, cards, func(w io.Writer) error {
					if len(cards) == 0 {
						_, err := fmt.Fprintln(w, "Nothing due. Come back later.")
						return err
					}
					return writeCards(w, cards)
				})
			})
		},
	}
}

func newReviewCommand() *cobra.Command {
	var again bool

	cmd := &cobra.Command{
		Use:   "review <card-id>",
		Short: "Record a flashcard review",
		Long: `Record that a card was answered. By default the card counts as known and
its next review moves out by its mastery level in days. --again schedules it
for tomorrow.`,
		Example: `  mindmeld flashcards review flashcard_graphs_1715329800000_0_k3j9x2
  mindmeld flashcards review flashcard_graphs_1715329800000_0_k3j9x2 --again`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				card, err := app.Engine.ReviewFlashcard(ctx, args[0], !again)
				if err != nil {
					return err
				}
				return cli.Print(cmd, card, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Mastery %d/5, next review %s.\n",
						card.MasteryLevel, card.NextReviewDue.Local().Format("2006-01-02 15:04"))
					return err
				})
			})
		},
	}

	cmd.Flags().BoolVar(&again, "again", false, "The card was not known; review it again tomorrow")
	return cmd
}

func writeCards(w io.Writer, cards []model.Flashcard) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, "No flashcards.")
		return err
	}
	for _, c := range cards {
		if _, err := fmt.Fprintf(w, "[%s] difficulty %d\nQ: %s\nA: %s\nHint: %s\n\n",
			c.ID, c.Difficulty, c.Question, c.Answer, c.Hint); err != nil {
			return err
		}
	}
	return nil
}
