package cmd

import (
	"context"

	"github.com/spigell/cvbank/internal/store/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Run: func(_ *cobra.Command, _ []string) {
		migrate()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load jobs and candidates from files into the database",
	Run: func(cmd *cobra.Command, _ []string) {
		seed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("jobs", "", "YAML or JSON file with a jobs list")
	seedCmd.Flags().String("candidates", "", "YAML or JSON file with a candidates list. Default is the jobs file.")
	seedCmd.MarkFlagRequired("jobs")
}

// connect opens only the store; migrate and seed need nothing else.
func connect(ctx context.Context) (*postgres.Store, *zap.Logger) {
	config, l := setup()

	dsn, err := resolveDatabaseURL(config)
	if err != nil {
		l.Fatal("resolving database url", zap.Error(err))
	}

	store, err := postgres.Connect(ctx, dsn)
	if err != nil {
		fatal(l, "connecting to storage", err)
	}
	return store, l
}

func migrate() {
	ctx := context.Background()

	store, l := connect(ctx)
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		fatal(l, "applying schema", err)
	}
	l.Info("schema is up to date")
}

func seed(cmd *cobra.Command) {
	ctx := context.Background()

	jobsFile, _ := cmd.Flags().GetString("jobs")
	candidatesFile, _ := cmd.Flags().GetString("candidates")

	store, l := connect(ctx)
	defer store.Close()

	ds, err := loadDataset(jobsFile, candidatesFile)
	if err != nil {
		l.Fatal("loading dataset", zap.Error(err))
	}

	for _, j := range ds.Jobs {
		id, err := store.SaveJob(ctx, j)
		if err != nil {
			fatal(l, "saving job", err)
		}
		l.Debug("job saved", zap.Int64("job_id", id), zap.String("title", j.Title))
	}

	for _, c := range ds.Candidates {
		id, err := store.SaveCandidate(ctx, c)
		if err != nil {
			fatal(l, "saving candidate", err)
		}
		l.Debug("candidate saved", zap.Int64("candidate_id", id))
	}

	if err := store.SyncSequences(ctx); err != nil {
		fatal(l, "syncing sequences", err)
	}

	l.Info("dataset loaded",
		zap.Int("jobs", len(ds.Jobs)),
		zap.Int("candidates", len(ds.Candidates)),
	)
}
