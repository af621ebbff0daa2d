package analyze

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/engine"
	"github.com/eoinhurrell/mindmeld/internal/flashcards"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// NoteSummary is one row of the vault analysis
type NoteSummary struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	Category   string     `json:"category" yaml:"category"`
	WordCount  int        `json:"word_count" yaml:"word_count"`
	Complexity float64    `json:"complexity" yaml:"complexity"`
	Tone       model.Tone `json:"tone" yaml:"tone"`
	Topics     []string   `json:"topics" yaml:"topics"`
}

// NoteDetail is the full analysis of a single note
type NoteDetail struct {
	ID       string                `json:"id" yaml:"id"`
	Title    string                `json:"title" yaml:"title"`
	Analysis model.ContentAnalysis `json:"analysis" yaml:"analysis"`
	Question flashcards.Question   `json:"question" yaml:"question"`
}

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [note-id]",
		Short: "Analyze vault notes",
		Long: `Analyze every note in the vault: topics, keywords, complexity, tone and
action items. With a note id, print the full analysis of that note and the
question its flashcards would start from.`,
		Example: `  # Summarize every note
  mindmeld analyze

  # Full analysis of one note as JSON
  mindmeld analyze graphs --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				notes, err := app.Notes(ctx)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					return printDetail(cmd, notes, args[0])
				}
				summaries := Summarize(notes)
				return cli.Print(cmd, summaries, func(w io.Writer) error {
					return writeSummaries(w, summaries)
				})
			})
		},
	}
	return cmd
}

// Summarize reduces analyzed notes to summary rows
func Summarize(notes []model.Note) []NoteSummary {
	out := make([]NoteSummary, 0, len(notes))
	for _, n := range notes {
		a := model.EmptyAnalysis()
		if n.Analysis != nil {
			a = *n.Analysis
		}
		out = append(out, NoteSummary{
			ID:         n.ID,
			Title:      n.DisplayTitle(40),
			Category:   string(n.Category),
			WordCount:  a.WordCount,
			Complexity: a.Complexity,
			Tone:       a.EmotionalTone,
			Topics:     a.KeyTopics,
		})
	}
	return out
}

func printDetail(cmd *cobra.Command, notes []model.Note, id string) error {
	n, err := engine.FindNote(notes, id)
	if err != nil {
		return err
	}
	a := model.EmptyAnalysis()
	if n.Analysis != nil {
		a = *n.Analysis
	}
	detail := NoteDetail{
		ID:       n.ID,
		Title:    n.DisplayTitle(40),
		Analysis: a,
		Question: flashcards.QuestionFromAnalysis(n, a),
	}
	return cli.Print(cmd, detail, func(w io.Writer) error {
		return writeDetail(w, detail)
	})
}

func writeSummaries(w io.Writer, summaries []NoteSummary) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No notes found.")
		return err
	}
	for _, s := range summaries {
		topics := "-"
		if len(s.Topics) > 0 {
			topics = strings.Join(s.Topics, ", ")
		}
		if _, err := fmt.Fprintf(w, "%-20s %-40s %5d words  complexity %.2f  %-8s %s\n",
			s.ID, s.Title, s.WordCount, s.Complexity, s.Tone, topics); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d notes analyzed\n", len(summaries))
	return err
}

func writeDetail(w io.Writer, d NoteDetail) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n\n", d.Title, d.ID)
	fmt.Fprintf(&b, "Words:       %d\n", d.Analysis.WordCount)
	fmt.Fprintf(&b, "Complexity:  %.2f\n", d.Analysis.Complexity)
	fmt.Fprintf(&b, "Sentiment:   %.2f (%s)\n", d.Analysis.Sentiment, d.Analysis.EmotionalTone)
	fmt.Fprintf(&b, "Topics:      %s\n", strings.Join(d.Analysis.KeyTopics, ", "))

	keywords := make([]string, 0, len(d.Analysis.KeywordScores))
	for _, k := range d.Analysis.KeywordScores {
		keywords = append(keywords, fmt.Sprintf("%s (%.2f)", k.Word, k.Score))
	}
	fmt.Fprintf(&b, "Keywords:    %s\n", strings.Join(keywords, ", "))

	if len(d.Analysis.ActionItems) > 0 {
		b.WriteString("\nAction items:\n")
		for _, item := range d.Analysis.ActionItems {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\nAnswer:   %s\nHint:     %s\n", d.Question.Question, d.Question.Answer, d.Question.Hint)
	_, err := io.WriteString(w, b.String())
	return err
}
