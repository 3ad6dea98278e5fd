package benchmarks

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/thief-gridworld/grid"
	"github.com/zeu5/thief-gridworld/server"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the comparison and serve its results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, (*Config).Validate)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			env, err := grid.NewGridEnvironment(cfg.Grid, rand.New(rand.NewSource(cfg.Seed)))
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			s := server.NewServer(cfg.Addr, env, logger.With().Str("component", "server").Logger())
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return s.Start(ctx)
			})
			g.Go(func() error {
				results, err := NewThiefComparison(cfg, logger).Run(ctx)
				s.SetResults(results)
				if err != nil {
					return err
				}
				logger.Info().Int("results", len(results)).Msg("results ready")
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().String("addr", DefaultConfig().Addr, "Listen address of the HTTP view")
	return cmd
}
