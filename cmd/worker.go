package cmd

import (
	"context"

	"lending/pkg/sysversion"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "apply inbound transfers and send queued outbound transfers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		log := logger.FromContext(ctx)
		ctx = logger.WithContext(signal.WithContext(ctx), log)

		s := provideServices()
		if err := sysversion.Check(ctx, s.property); err != nil {
			log.WithError(err).Fatal("check sysversion")
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range s.workers() {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil && err != context.Canceled {
			log.WithError(err).Errorln("worker exit")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
