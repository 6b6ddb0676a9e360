package cmd

import (
	"context"
	"os"

	"github.com/spigell/cvbank/internal/filtering"
	"github.com/spigell/cvbank/internal/matching"
	"github.com/spigell/cvbank/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Show the ranked matches of a job",
	Run: func(cmd *cobra.Command, _ []string) {
		matches(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchesCmd)

	matchesCmd.Flags().Int64("job-id", 0, "job to show matches for")
	matchesCmd.Flags().Int64("requester", 0, "id of the recruiter who owns the job")
	matchesCmd.Flags().Bool("dump", false, "dump the matches as JSON to a temp file")
	matchesCmd.Flags().Bool("by-status", false, "print the matches grouped by recruiter status as JSON")
	matchesCmd.Flags().Bool("flat", false, "print the matches as a flat JSON list")
	addFilterFlags(matchesCmd)

	matchesCmd.MarkFlagRequired("job-id")
	matchesCmd.MarkFlagRequired("requester")
}

func matches(cmd *cobra.Command) {
	ctx := context.Background()

	jobID, _ := cmd.Flags().GetInt64("job-id")
	requester, _ := cmd.Flags().GetInt64("requester")

	b := mustBackend(ctx)
	defer b.Close()

	ranked, err := b.svc.ListResults(ctx, jobID, requester)
	if err != nil {
		fatal(b.logger, "listing matches", err)
	}

	ranked, err = applyFilters(ctx, cmd, b.config, ranked, b.logger)
	if err != nil {
		b.logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(ranked) == 0 {
		b.logger.Info("exiting", zap.String("reason", "no matches left after filters"))
		return
	}

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		filename, err := report.DumpToTmpFile(ranked)
		if err != nil {
			b.logger.Fatal("dump matches to file", zap.Error(err))
		}
		b.logger.Info("dumping result to file", zap.String("filename", filename))
	}

	if grouped, _ := cmd.Flags().GetBool("by-status"); grouped {
		if err := report.WriteJSON(os.Stdout, report.ByStatus(ranked)); err != nil {
			b.logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	if flat, _ := cmd.Flags().GetBool("flat"); flat {
		if err := report.WriteJSON(os.Stdout, report.Entries(ranked)); err != nil {
			b.logger.Fatal("writing report", zap.Error(err))
		}
		return
	}

	if err := report.Write(os.Stdout, ranked); err != nil {
		b.logger.Fatal("writing report", zap.Error(err))
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Int("min-score", 0, "hide matches with a lower overall score")
	cmd.Flags().StringSlice("status", nil, "show only matches in these recruiter statuses")
	cmd.Flags().Int("top", 0, "show at most this many matches")
	cmd.Flags().StringP("exclude-file", "e", "", "file with candidates to hide. Default is exclude-file from the config.")
}

func filterConfig(cmd *cobra.Command, config *Config) *filtering.Config {
	minScore, _ := cmd.Flags().GetInt("min-score")
	statuses, _ := cmd.Flags().GetStringSlice("status")
	top, _ := cmd.Flags().GetInt("top")

	cfg := &filtering.Config{
		MinScore: minScore,
		Statuses: statuses,
		Top:      top,
	}
	cfg.ExcludeFile, _ = cmd.Flags().GetString("exclude-file")
	if cfg.ExcludeFile == "" && config != nil {
		cfg.ExcludeFile = config.ExcludeFile
	}
	return cfg
}

func applyFilters(ctx context.Context, cmd *cobra.Command, config *Config, ranked []matching.RankedMatch, l *zap.Logger) ([]matching.RankedMatch, error) {
	cfg := filterConfig(cmd, config)
	steps := filtering.Prepare(cfg)
	out, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: l}, steps, ranked)
	if err != nil {
		return nil, err
	}

	for _, st := range filtering.Describe(steps) {
		l.Debug("filter",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}
	return out, nil
}
