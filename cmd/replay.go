package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"peer-feedback/feature/identity"
	"peer-feedback/feature/identity/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	replayPrefix          string
	replayDryRun          bool
	replayContinueOnError bool
	yesConfirm            bool
)

// replayCmd re-applies archived identity webhooks.
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay archived identity events",
	Long: `Re-applies archived identity webhooks in delivery order, e.g. after the
service missed deliveries during an outage. Replaying is safe: events that were
already applied are no-ops or re-apply the same state.

Examples:
  # Show what would happen for one day
  replay --prefix 2026/10/19 --dry-run

  # Replay everything, skipping failures (non-interactive)
  replay --continue-on-error --yes`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayPrefix, "prefix", "", "Only replay keys under this prefix (YYYY[/MM[/DD]])")
	replayCmd.Flags().BoolVar(&replayDryRun, "dry-run", false, "Print plans without writing")
	replayCmd.Flags().BoolVar(&replayContinueOnError, "continue-on-error", false, "Keep going after a failed event")
	replayCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	RootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()
	l := rt.logger

	arc, err := rt.openArchive(ctx)
	if err != nil {
		return err
	}
	if arc == nil {
		return identity.ErrArchiveDisabled
	}

	if !replayDryRun && !confirmDestructiveAction() {
		l.Warn("Replay cancelled by user. No changes were made.")
		return nil
	}

	svc := identity.NewService(rt.db, arc, l, reconcile.Options{CreateOnMissingUpdate: rt.cfg.Identity.CreateOnMissingUpdate})
	results, err := svc.Replay(ctx, identity.ReplayOptions{
		Prefix:          replayPrefix,
		DryRun:          replayDryRun,
		ContinueOnError: replayContinueOnError,
	})
	printReplayReport(l, results)
	if err != nil {
		return err
	}

	if replayDryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	return nil
}

// printReplayReport logs one line per event and a summary by action.
func printReplayReport(l *zap.Logger, results []identity.ReplayResult) {
	counts := map[reconcile.ActionType]int{}
	failed, retryable := 0, 0

	for _, r := range results {
		if r.Err != nil {
			failed++
			if reconcile.IsRetryable(r.Err) {
				retryable++
			}
			l.Warn("Event failed",
				zap.String("key", r.Key),
				zap.Bool("not_found", errors.Is(r.Err, reconcile.ErrNotFound)),
				zap.Error(r.Err),
			)
			continue
		}
		counts[r.Plan.Action]++
		l.Info("Event",
			zap.String("key", r.Key),
			zap.String("action", string(r.Plan.Action)),
			zap.String("user_id", r.Plan.UserID),
			zap.String("merged_user_id", r.Plan.MergedUserID),
			zap.String("reason", r.Plan.Reason),
		)
	}

	l.Info("Replay report",
		zap.Int("events", len(results)),
		zap.Int("created", counts[reconcile.ActionCreate]),
		zap.Int("claimed", counts[reconcile.ActionClaim]),
		zap.Int("updated", counts[reconcile.ActionUpdate]),
		zap.Int("merged", counts[reconcile.ActionMerge]),
		zap.Int("unchanged", counts[reconcile.ActionNoop]),
		zap.Int("ignored", counts[reconcile.ActionIgnore]),
		zap.Int("failed", failed),
		zap.Int("retryable", retryable),
	)
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to replay events against the database: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
