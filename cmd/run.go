package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score every active candidate against a job and replace its matches",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64("job-id", 0, "job to match candidates for")
	runCmd.Flags().Int64("requester", 0, "id of the recruiter who owns the job")
	runCmd.MarkFlagRequired("job-id")
	runCmd.MarkFlagRequired("requester")
}

func run(cmd *cobra.Command) {
	ctx := context.Background()

	jobID, _ := cmd.Flags().GetInt64("job-id")
	requester, _ := cmd.Flags().GetInt64("requester")

	b := mustBackend(ctx)
	defer b.Close()

	b.logger.Info("starting the cvbank", zap.String("version", version))

	res, err := b.svc.Run(ctx, jobID, requester)
	if err != nil {
		fatal(b.logger, "matching failed", err)
	}

	b.logger.Info("matching done",
		zap.Int64("job_id", jobID),
		zap.Bool("success", res.Success),
		zap.Int("matches", res.MatchCount),
	)
}
