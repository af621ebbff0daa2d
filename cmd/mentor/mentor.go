package mentor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/engine"
	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/mentor"
	"github.com/eoinhurrell/mindmeld/internal/model"
)

// NewMentorCommand creates the mentor command
func NewMentorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentor",
		Short: "Talk to the learning mentor",
		Long: `The mentor profiles your learning style from your notes, answers questions,
sets adaptive challenges, tracks goals and reports on your week.`,
	}

	cmd.AddCommand(newChatCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newProfileCommand())
	cmd.AddCommand(newChallengeCommand())
	cmd.AddCommand(newCompleteCommand())
	cmd.AddCommand(newPathCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newInsightsCommand())
	cmd.AddCommand(newGoalCommand())
	cmd.AddCommand(newNoteCommand())

	return cmd
}

// withNotes runs fn with the analyzed vault notes
func withNotes(cmd *cobra.Command, fn func(ctx context.Context, e *engine.Engine, notes []model.Note) error) error {
	return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
		notes, err := app.Notes(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, app.Engine, notes)
	})
}

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the mentor something",
		Example: `  mindmeld mentor chat "how do I stay motivated?"
  mindmeld mentor chat what should I study next`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				reply, err := e.Chat(ctx, notes, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return cli.Print(cmd, reply, func(w io.Writer) error {
					return writeMessage(w, reply)
				})
			})
		},
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show level, xp, streak and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				notes, err := app.Notes(ctx)
				if err != nil {
					return err
				}
				state, err := app.Engine.State(ctx, notes)
				if err != nil {
					return err
				}
				return cli.Print(cmd, state, func(w io.Writer) error {
					return writeStatus(w, app.Config.Mentor.UserName, state)
				})
			})
		},
	}
}

func newProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the learner profile derived from your notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				profile := e.Profile(notes)
				return cli.Print(cmd, profile, func(w io.Writer) error {
					return writeProfile(w, profile)
				})
			})
		},
	}
}

func newChallengeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge",
		Short: "Start an adaptive challenge, or show the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				c, _, err := e.NewChallenge(ctx, notes)
				if err != nil {
					return err
				}
				return cli.Print(cmd, c, func(w io.Writer) error {
					return writeChallenge(w, c)
				})
			})
		},
	}
}

func newCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Complete the active challenge and collect its reward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				_, msg, err := e.CompleteChallenge(ctx, notes)
				if err != nil {
					return err
				}
				return cli.Print(cmd, msg, func(w io.Writer) error {
					return writeMessage(w, msg)
				})
			})
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Plan the next learning steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				path, err := e.LearningPath(ctx, notes)
				if err != nil {
					return err
				}
				return cli.Print(cmd, path, func(w io.Writer) error {
					return writePath(w, path)
				})
			})
		},
	}
}

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize the last seven days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				report, err := e.Report(ctx, notes)
				if err != nil {
					return err
				}
				return cli.Print(cmd, report, func(w io.Writer) error {
					return writeReport(w, report)
				})
			})
		},
	}
}

func newInsightsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show insights, suggestions and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				g, err := e.Guidance(ctx, notes)
				if err != nil {
					return err
				}
				return cli.Print(cmd, g, func(w io.Writer) error {
					return writeGuidance(w, g)
				})
			})
		},
	}
}

func newGoalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage learning goals",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add an active goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				goal, err := e.AddGoal(ctx, notes, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return cli.Print(cmd, goal, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Added goal %q (%s)\n", goal.Name, goal.ID)
					return err
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "complete <goal-id>",
		Short: "Mark a goal completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				goal, err := e.CompleteGoal(ctx, notes, args[0])
				if err != nil {
					return err
				}
				return cli.Print(cmd, goal, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Completed goal %q\n", goal.Name)
					return err
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				state, err := e.State(ctx, notes)
				if err != nil {
					return err
				}
				return cli.Print(cmd, state.Goals, func(w io.Writer) error {
					if len(state.Goals) == 0 {
						_, err := fmt.Fprintln(w, "No goals yet. Add one with 'mindmeld mentor goal add'.")
						return err
					}
					for _, g := range state.Goals {
						if _, err := fmt.Fprintf(w, "%-28s %-10s %3.0f%%  %s\n", g.ID, g.Status, g.Progress, g.Name); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	})

	return cmd
}

func newNoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Write notes through the mentor",
	}

	var (
		title    string
		category string
		tags     []string
	)
	add := &cobra.Command{
		Use:   "add [content]",
		Short: "Write a new note to the vault and earn xp",
		Long: `Write a new note to the vault. The content comes from the arguments or,
when there are none, from standard input. The note's flashcards are stored
and the mentor credits the learner.`,
		Example: `  mindmeld mentor note add --title "Heaps" "A heap keeps the smallest item at the root."
  pbpaste | mindmeld mentor note add --title "Clipboard" --category idea`,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if content == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading note content: %w", err)
				}
				content = string(data)
			}
			if strings.TrimSpace(content) == "" {
				return errors.NewMissingFieldError("content", "")
			}

			n := model.Note{
				Title:    title,
				Content:  content,
				Category: model.Category(category),
				Tags:     tags,
			}
			if category != "" && model.ParseCategory(category) != n.Category {
				return errors.NewInvalidValueError("category", fmt.Sprintf("unknown category %q", category), "")
			}

			return withNotes(cmd, func(ctx context.Context, e *engine.Engine, notes []model.Note) error {
				path, msg, err := e.AddNote(ctx, n, notes)
				if err != nil {
					return err
				}
				result := struct {
					Path    string        `json:"path" yaml:"path"`
					Message model.Message `json:"message" yaml:"message"`
				}{path, msg}
				return cli.Print(cmd, result, func(w io.Writer) error {
					if _, err := fmt.Fprintf(w, "Saved %s\n\n", path); err != nil {
						return err
					}
					return writeMessage(w, msg)
				})
			})
		},
	}
	add.Flags().StringVarP(&title, "title", "t", "", "Note title")
	add.Flags().StringVarP(&category, "category", "c", "", "Note category (general, idea, research, project, personal, technical, business)")
	add.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	cmd.AddCommand(add)

	return cmd
}

func writeMessage(w io.Writer, m model.Message) error {
	var b strings.Builder
	b.WriteString(m.Text)
	b.WriteString("\n")
	if len(m.SuggestedActions) > 0 {
		b.WriteString("\nTry:\n")
		for _, a := range m.SuggestedActions {
			fmt.Fprintf(&b, "  - %s\n", a)
		}
	}
	if len(m.FollowUpQuestions) > 0 {
		b.WriteString("\nThink about:\n")
		for _, q := range m.FollowUpQuestions {
			fmt.Fprintf(&b, "  - %s\n", q)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeStatus(w io.Writer, name string, s model.MentorState) error {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s: ", name)
	}
	fmt.Fprintf(&b, "Level %d  (%d xp)  streak %d\n\n", s.Level, s.XP, s.Streak)
	fmt.Fprintf(&b, "Overall      %5.1f%%\n", s.Progress.Overall)
	fmt.Fprintf(&b, "Knowledge    %5.1f%%\n", s.Progress.Knowledge)
	fmt.Fprintf(&b, "Consistency  %5.1f%%\n", s.Progress.Consistency)
	fmt.Fprintf(&b, "Depth        %5.1f%%\n", s.Progress.Depth)
	fmt.Fprintf(&b, "Connections  %5.1f%%\n", s.Progress.Connections)
	if len(s.Badges) > 0 {
		fmt.Fprintf(&b, "\nBadges: %s\n", strings.Join(s.Badges, ", "))
	}
	if s.CurrentChallenge != nil {
		fmt.Fprintf(&b, "\nActive challenge: %s\n", s.CurrentChallenge.Title)
	}
	fmt.Fprintf(&b, "Completed challenges: %d\n", len(s.CompletedChallenges))
	_, err := io.WriteString(w, b.String())
	return err
}

func writeProfile(w io.Writer, p model.UserProfile) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Learning style:     %s\n", p.LearningStyle)
	fmt.Fprintf(&b, "Cognitive pattern:  %s\n", p.CognitivePattern)
	fmt.Fprintf(&b, "Motivation:         %s\n", p.MotivationPattern)
	fmt.Fprintf(&b, "Consistency:        %.2f\n", p.ConsistencyScore)
	fmt.Fprintf(&b, "Engagement:         %.2f\n", p.EngagementLevel)
	fmt.Fprintf(&b, "Knowledge depth:    %.2f\n", p.KnowledgeDepth)
	fmt.Fprintf(&b, "Growth rate:        %.2f\n", p.GrowthRate)
	if len(p.PreferredTopics) > 0 {
		fmt.Fprintf(&b, "Preferred topics:   %s\n", strings.Join(p.PreferredTopics, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeChallenge(w io.Writer, c model.Challenge) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  [%s, %d xp, %s]\n\n", c.Title, c.Difficulty, c.XP, c.TimeEstimate)
	fmt.Fprintf(&b, "%s\n\n", c.Description)
	fmt.Fprintf(&b, "Done when: %s\n", c.SuccessCriteria)
	fmt.Fprintf(&b, "Due: %s\n", c.DueDate.Local().Format("2006-01-02"))
	_, err := io.WriteString(w, b.String())
	return err
}

func writePath(w io.Writer, p mentor.LearningPath) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Level: %s  (about %s)\n\n", p.Level, p.EstimatedCompletion)
	for _, s := range p.Path {
		fmt.Fprintf(&b, "%d. %s  (%s, %s)\n", s.Step, s.Action, s.Duration, s.Focus)
	}
	if len(p.Milestones) > 0 {
		b.WriteString("\nMilestones:\n")
		for _, m := range p.Milestones {
			fmt.Fprintf(&b, "  - %s: %s\n", m.Milestone, m.Reward)
		}
	}
	fmt.Fprintf(&b, "\nFocus: %s\n", strings.Join(p.FocusAreas, ", "))
	_, err := io.WriteString(w, b.String())
	return err
}

func writeReport(w io.Writer, r mentor.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s report, %s\n\n", r.Period, r.DateRange)
	fmt.Fprintf(&b, "Notes created:        %d\n", r.Metrics.NotesCreated)
	fmt.Fprintf(&b, "Goals completed:      %d\n", r.Metrics.GoalsCompleted)
	fmt.Fprintf(&b, "Challenges completed: %d\n", r.Metrics.ChallengesCompleted)
	fmt.Fprintf(&b, "Average note length:  %d words\n", r.Metrics.AvgNoteLength)
	fmt.Fprintf(&b, "Topics:               %d\n", r.Metrics.TopicDiversity)
	fmt.Fprintf(&b, "Average complexity:   %.2f\n", r.Metrics.AvgComplexity)
	fmt.Fprintf(&b, "Action items:         %d\n", r.Metrics.ActionItemCount)
	writeList(&b, "Insights", r.Insights)
	writeList(&b, "Recommendations", r.Recommendations)
	writeList(&b, "Achievements", r.Achievements)
	writeList(&b, "Growth areas", r.GrowthAreas)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeGuidance(w io.Writer, g engine.Guidance) error {
	var b strings.Builder
	writeList(&b, "Insights", g.Insights)
	writeList(&b, "Suggestions", g.Suggestions)
	if len(g.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, r := range g.Recommendations {
			fmt.Fprintf(&b, "  - [%s] %s: %s (%s)\n", r.Priority, r.Title, r.Description, r.EstimatedTime)
		}
	}
	if b.Len() == 0 {
		b.WriteString("Nothing to add yet. Keep writing.\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
