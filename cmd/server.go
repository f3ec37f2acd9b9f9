package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lending/handler"
	"lending/handler/hc"
	"lending/handler/rest"
	"lending/pkg/sysversion"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lending api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		s := provideServices()
		if err := sysversion.Check(ctx, s.property); err != nil {
			logrus.WithError(err).Fatal("check sysversion")
		}

		h := handler.New(provideSession(), rest.Services{
			Markets:  s.markets,
			Oracle:   s.oracle,
			Accounts: s.accounts,
			Borrows:  s.borrows,
			Payer:    s.wallet,
			IsAdmin:  provideConfig().IsAdmin,
		})

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version, s.markets))
		}

		{
			//metrics
			mux.Mount("/metrics", h.HandleMetrics())
		}

		{
			//restful api
			mux.Mount("/api", h.HandleRestAPI())
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		g, ctx := errgroup.WithContext(ctx)

		signal.WithContextFunc(ctx, func() {
			quit()
		})

		if withWorker, _ := cmd.Flags().GetBool("worker"); withWorker {
			// shares the account locker with the api
			workerCtx := logger.WithContext(ctx, logrus.NewEntry(logrus.StandardLogger()))
			for _, w := range s.workers() {
				w := w
				g.Go(func() error {
					return w.Run(workerCtx)
				})
			}
		}

		g.Go(func() error {
			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			return nil
		})

		g.Go(func() error {
			logrus.Infoln("serve at", addr)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				quit()
				return err
			}

			return nil
		})

		if err := g.Wait(); err != nil && err != context.Canceled {
			logrus.WithError(err).Fatal("server aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("worker", false, "run the workers in the same process")
}
