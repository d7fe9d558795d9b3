package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
)

// NewRootCmd builds the bookkeeping command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookkeeping",
		Short: "Personal bookkeeping client",
		Long: `bookkeeping records income and expenses against a bookkeeping service.

Sign in once with "bookkeeping login"; the session is kept locally until
"bookkeeping logout".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ephemeral, _ := cmd.Flags().GetBool("ephemeral")
			if err := initDependencies(cmd.Context(), ephemeral); err != nil {
				return err
			}
			cmd.SetContext(log.WithContext(cmd.Context(), deps.Logger.WithComponent(log.ComponentCLI)))
			return nil
		},
	}

	root.PersistentFlags().Bool("ephemeral", false, "keep the session in memory for this run only")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newCategoriesCmd(),
		newRecordsCmd(),
		newDashboardCmd(),
		newOpenCmd(),
		newExportCmd(),
		newChartCmd(),
	)
	return root
}

// Execute runs the CLI and releases dependencies afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if deps != nil {
			_ = deps.Close()
		}
	}()
	return NewRootCmd().ExecuteContext(ctx)
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "first day, YYYY-MM-DD (default: start of this month)")
	cmd.Flags().String("to", "", "last day, YYYY-MM-DD (default: end of this month)")
}

// dateRange reads --from and --to, defaulting to the current month.
func dateRange(cmd *cobra.Command) (core.Date, core.Date, error) {
	start, end := core.MonthRange(time.Now())
	if v, _ := cmd.Flags().GetString("from"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("--from: %w", err)
		}
		start = d
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Date{}, core.Date{}, fmt.Errorf("--to: %w", err)
		}
		end = d
	}
	if err := core.ValidateRange(start, end); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}
