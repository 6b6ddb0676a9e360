package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Set the recruiter status of a match",
	Run: func(cmd *cobra.Command, _ []string) {
		setStatus(cmd)
	},
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Replace the recruiter notes of a match",
	Run: func(cmd *cobra.Command, _ []string) {
		setNote(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(noteCmd)

	for _, c := range []*cobra.Command{statusCmd, noteCmd} {
		c.Flags().String("match-id", "", "match to update")
		c.Flags().Int64("reviewer", 0, "id of the recruiter making the change")
		c.MarkFlagRequired("match-id")
		c.MarkFlagRequired("reviewer")
	}

	statusCmd.Flags().String("status", "", "shortlisted, contacted or rejected")
	statusCmd.MarkFlagRequired("status")

	noteCmd.Flags().String("text", "", "notes text; empty clears the notes")
}

func setStatus(cmd *cobra.Command) {
	ctx := context.Background()

	b := mustBackend(ctx)
	defer b.Close()

	matchID, reviewer := matchFlags(cmd, b.logger)
	status, _ := cmd.Flags().GetString("status")

	m, err := b.svc.UpdateStatus(ctx, matchID, status, reviewer)
	if err != nil {
		fatal(b.logger, "updating status", err)
	}

	b.logger.Info("match updated",
		zap.String("match_id", m.ID.String()),
		zap.String("status", string(m.RecruiterStatus)),
	)
}

func setNote(cmd *cobra.Command) {
	ctx := context.Background()

	b := mustBackend(ctx)
	defer b.Close()

	matchID, reviewer := matchFlags(cmd, b.logger)
	text, _ := cmd.Flags().GetString("text")

	m, err := b.svc.UpdateNotes(ctx, matchID, text, reviewer)
	if err != nil {
		fatal(b.logger, "updating notes", err)
	}

	b.logger.Info("match updated", zap.String("match_id", m.ID.String()))
}

func matchFlags(cmd *cobra.Command, l *zap.Logger) (uuid.UUID, int64) {
	raw, _ := cmd.Flags().GetString("match-id")
	reviewer, _ := cmd.Flags().GetInt64("reviewer")

	matchID, err := uuid.Parse(raw)
	if err != nil {
		l.Fatal("invalid match id", zap.String("match_id", raw), zap.Error(err))
	}
	return matchID, reviewer
}
