package cmd

import (
	"context"
	"os"

	"github.com/spigell/cvbank/internal/dataset"
	"github.com/spigell/cvbank/internal/report"
	"github.com/spigell/cvbank/internal/service"
	"github.com/spigell/cvbank/internal/store/memory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score candidates from files against a job without a database",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("jobs", "", "YAML or JSON file with a jobs list")
	scoreCmd.Flags().String("candidates", "", "YAML or JSON file with a candidates list. Default is the jobs file.")
	scoreCmd.Flags().Int64("job-id", 0, "job to score candidates for")
	addFilterFlags(scoreCmd)

	scoreCmd.MarkFlagRequired("jobs")
	scoreCmd.MarkFlagRequired("job-id")
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	config, l := setup()

	jobsFile, _ := cmd.Flags().GetString("jobs")
	candidatesFile, _ := cmd.Flags().GetString("candidates")
	jobID, _ := cmd.Flags().GetInt64("job-id")

	ds, err := loadDataset(jobsFile, candidatesFile)
	if err != nil {
		l.Fatal("loading dataset", zap.Error(err))
	}

	job, ok := ds.JobByID(jobID)
	if !ok {
		l.Fatal("job not found in dataset", zap.Int64("job_id", jobID), zap.String("file", jobsFile))
	}

	store := memory.New()
	for _, j := range ds.Jobs {
		store.PutJob(j)
	}
	for _, c := range ds.Candidates {
		store.PutCandidate(c)
	}

	svc := service.New(store, l, service.WithWorkers(config.Matching.Workers))

	res, err := svc.Run(ctx, job.ID, job.RecruiterID)
	if err != nil {
		fatal(l, "matching failed", err)
	}
	l.Debug("scored", zap.Int("matches", res.MatchCount))

	ranked, err := svc.ListResults(ctx, job.ID, job.RecruiterID)
	if err != nil {
		fatal(l, "listing matches", err)
	}

	ranked, err = applyFilters(ctx, cmd, config, ranked, l)
	if err != nil {
		l.Fatal("filtering failed", zap.Error(err))
	}

	if err := report.Write(os.Stdout, ranked); err != nil {
		l.Fatal("writing report", zap.Error(err))
	}
}

// loadDataset reads jobs and candidates, possibly from the same file.
func loadDataset(jobsFile, candidatesFile string) (*dataset.Dataset, error) {
	ds, err := dataset.Load(jobsFile)
	if err != nil {
		return nil, err
	}

	if candidatesFile == "" || candidatesFile == jobsFile {
		return ds, nil
	}

	more, err := dataset.Load(candidatesFile)
	if err != nil {
		return nil, err
	}

	merged := &dataset.Dataset{
		Jobs:       append(ds.Jobs, more.Jobs...),
		Candidates: append(ds.Candidates, more.Candidates...),
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
