package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spigell/cvbank/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Re-match every active job on a schedule and serve health and metrics",
	Run: func(_ *cobra.Command, _ []string) {
		schedule()
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func schedule() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := mustBackend(ctx)
	defer b.Close()

	b.logger.Info("starting the cvbank scheduler",
		zap.String("version", version),
		zap.String("spec", b.config.Schedule.Spec),
	)

	sched := scheduler.New(b.svc, b.config.Schedule.Spec, b.logger.Named("scheduler"))
	if err := sched.Start(ctx); err != nil {
		b.logger.Fatal("starting scheduler", zap.Error(err))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h := scheduler.NewHandler(b.store, b.registry)
		return scheduler.Serve(gCtx, b.config.Schedule.Listen, h, b.logger)
	})

	err := g.Wait()
	sched.Stop()
	if err != nil {
		b.logger.Error("http server failed", zap.Error(err))
		return
	}
	b.logger.Info("exiting", zap.String("reason", "got a shutdown signal"))
}
