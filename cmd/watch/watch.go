package watch

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eoinhurrell/mindmeld/internal/cli"
	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/watcher"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		metricsAddr string
		style       string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep flashcards in step with the vault",
		Long: `Monitor the vault for markdown changes. Changed notes get fresh flashcards
and the cards of deleted notes are dropped. Changes are batched after
watch.debounce of quiet and refreshes are limited to watch.rate_limit per
second.

With --metrics-addr (or watch.metrics_addr) Prometheus metrics are served at
/metrics on that address.`,
		Example: `  # Watch the configured vault
  mindmeld watch

  # Watch another vault and expose metrics
  mindmeld watch --vault ~/notes --metrics-addr localhost:9464`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return cli.Run(cmd, func(ctx context.Context, app *cli.App) error {
				cfg := app.Config
				s := app.Engine.Style()
				if style != "" {
					parsed, ok := model.ParseLearningStyle(style)
					if !ok {
						return errors.NewInvalidValueError("style", fmt.Sprintf("unknown learning style %q", style), "")
					}
					s = parsed
				}
				if metricsAddr == "" {
					metricsAddr = cfg.Watch.MetricsAddr
				}

				refresher := watcher.NewRefresher(app.Engine, s)
				notes, err := app.Notes(ctx)
				if err != nil {
					return err
				}
				if _, err := app.Engine.SyncFlashcards(ctx, notes, s, false); err != nil {
					return err
				}
				refresher.Remember(notes)
				app.Engine.StartCacheCleanup(ctx, cfg.CacheTTL())

				w := watcher.New(cfg.Vault.Path, refresher,
					watcher.WithDebounce(cfg.DebounceDuration()),
					watcher.WithRateLimit(cfg.Watch.RateLimit, cfg.Watch.Burst),
					watcher.WithIgnore(app.Engine.Vault().Ignored),
					watcher.WithLogger(app.Logger),
				)

				g, gctx := errgroup.WithContext(ctx)
				g.Go(func() error { return w.Run(gctx) })
				if metricsAddr != "" {
					g.Go(func() error {
						return watcher.ServeMetrics(gctx, metricsAddr, app.Engine.Metrics().Registry(), app.Logger)
					})
				}

				cmd.PrintErrln("Watching for note changes. Press Ctrl+C to stop.")
				err = g.Wait()
				app.Logger.Info("watcher stopped", zap.Error(err))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&style, "style", "", "Learning style for flashcard hints")
	return cmd
}
