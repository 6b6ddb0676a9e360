package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/cvbank/internal/filtering"
	"github.com/spigell/cvbank/internal/matching"
	"github.com/spigell/cvbank/internal/report"
	"github.com/spigell/cvbank/internal/service"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptBack                = "back"
	PromptExit                = "exit"
	PromptAddNote             = "Add a note"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptMatchesToFile       = "Dump matches to file"
)

var errExit = errors.New("exit requested")

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Walk through the matches of a job and record decisions",
	Run: func(cmd *cobra.Command, _ []string) {
		review(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().Int64("job-id", 0, "job to review")
	reviewCmd.Flags().Int64("requester", 0, "id of the recruiter who owns the job")
	addFilterFlags(reviewCmd)

	reviewCmd.MarkFlagRequired("job-id")
	reviewCmd.MarkFlagRequired("requester")
}

// reviewSession holds what the prompt loop needs between iterations.
type reviewSession struct {
	svc       *service.Service
	logger    *zap.Logger
	jobID     int64
	requester int64
	filters   *filtering.Config
}

func review(cmd *cobra.Command) {
	ctx := context.Background()

	jobID, _ := cmd.Flags().GetInt64("job-id")
	requester, _ := cmd.Flags().GetInt64("requester")

	b := mustBackend(ctx)
	defer b.Close()

	s := &reviewSession{
		svc:       b.svc,
		logger:    b.logger,
		jobID:     jobID,
		requester: requester,
		filters:   filterConfig(cmd, b.config),
	}

	for {
		ranked, err := s.load(ctx)
		if err != nil {
			fatal(b.logger, "loading matches", err)
		}

		if len(ranked) == 0 {
			b.logger.Info("exiting", zap.String("reason", "no matches left to review"))
			return
		}

		b.logger.Info("current list of matches", zap.Int("count", len(ranked)))

		if err := s.pick(ctx, ranked); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, promptui.ErrInterrupt) {
				return
			}
			fatal(b.logger, "exiting", err)
		}
	}
}

func (s *reviewSession) load(ctx context.Context) ([]matching.RankedMatch, error) {
	ranked, err := s.svc.ListResults(ctx, s.jobID, s.requester)
	if err != nil {
		return nil, err
	}
	return filtering.Run(ctx, s.filters, filtering.Deps{Logger: s.logger}, filtering.Prepare(s.filters), ranked)
}

// pick shows the match list and handles one selection.
func (s *reviewSession) pick(ctx context.Context, ranked []matching.RankedMatch) error {
	items := make([]string, 0, len(ranked)+3)
	for i, r := range ranked {
		items = append(items, matchLabel(i+1, r))
	}

	items = append(items, PromptMatchesToFile)
	if s.filters.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	items = append(items, PromptExit)

	matchPrompt := promptui.Select{
		Label: "Choose a match and press ENTER",
		Items: items,
		Size:  10,
	}

	_, selected, err := matchPrompt.Run()
	if err != nil {
		return err
	}

	switch selected {
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptMatchesToFile:
		filename, err := report.DumpToTmpFile(ranked)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return s.exclude(ranked)
	default:
		return s.decide(ctx, ranked, selected)
	}
}

// decide asks what to do with the selected match and applies it.
func (s *reviewSession) decide(ctx context.Context, ranked []matching.RankedMatch, label string) error {
	matchID, err := uuid.Parse(strings.Fields(label)[1])
	if err != nil {
		return fmt.Errorf("there is no such match %q", label)
	}

	for _, r := range ranked {
		if r.ID == matchID {
			fmt.Println(report.String([]matching.RankedMatch{r}))
			break
		}
	}

	actions := make([]string, 0, 5)
	for _, st := range matching.ReviewStatuses() {
		actions = append(actions, string(st))
	}
	actions = append(actions, PromptAddNote, PromptBack)

	actionPrompt := promptui.Select{
		Label: "What to do with the candidate?",
		Items: actions,
	}

	_, action, err := actionPrompt.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptBack:
		return nil
	case PromptAddNote:
		notePrompt := promptui.Prompt{Label: "Note"}
		text, err := notePrompt.Run()
		if err != nil {
			return err
		}
		if _, err := s.svc.UpdateNotes(ctx, matchID, text, s.requester); err != nil {
			return err
		}
		s.logger.Info("note saved", zap.String("match_id", matchID.String()))
		return nil
	default:
		if _, err := s.svc.UpdateStatus(ctx, matchID, action, s.requester); err != nil {
			if errors.Is(err, matching.ErrForbiddenTransition) {
				s.logger.Warn("status not changed", zap.Error(err), zap.String("hint", hint(err)))
				return nil
			}
			return err
		}
		return nil
	}
}

func (s *reviewSession) exclude(ranked []matching.RankedMatch) error {
	excluded, err := filtering.LoadExcluded(s.filters.ExcludeFile)
	if err != nil {
		return err
	}

	excluded.Append(filtering.ToExcluded(ranked, time.Now()))

	if err := excluded.ToFile(s.filters.ExcludeFile); err != nil {
		return err
	}

	s.logger.Info("appended to exclude file", zap.String("filename", s.filters.ExcludeFile))
	return nil
}

// matchLabel renders one prompt row. The match id is the second field.
func matchLabel(rank int, r matching.RankedMatch) string {
	name := strings.TrimSpace(r.Candidate.FullName)
	if name == "" {
		name = fmt.Sprintf("candidate %d", r.CandidateID)
	}
	return fmt.Sprintf("#%d %s %s / score %d / %s", rank, r.ID, name, r.Scores.Overall, r.RecruiterStatus)
}
