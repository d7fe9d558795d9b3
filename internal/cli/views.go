package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	"bookkeeping/internal/router"
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show totals for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := dateRange(cmd)
			if err != nil {
				return err
			}
			d, err := deps.Ledger.Dashboard(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderDashboard(d))
			return nil
		},
	}
	addRangeFlags(cmd)
	return cmd
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [path]",
		Short: "Render the view mapped to a path",
		Long: `open resolves a path such as /dashboard, /records or /categories and
renders that view for the current month. "/" opens the dashboard. Views other
than /login need a signed-in user.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			route, err := deps.Routes.Resolve(path)
			if err != nil {
				return err
			}
			view := route.View
			if view != router.ViewLogin && !deps.Session.IsAuthenticated() {
				log.FromContext(cmd.Context()).DebugContext(cmd.Context(), "Redirecting to login", "view", view)
				view = router.ViewLogin
			}
			return renderView(cmd, view)
		},
	}
}

func renderView(cmd *cobra.Command, view router.View) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	start, end := core.MonthRange(time.Now())

	switch view {
	case router.ViewLogin:
		if u, ok := deps.Session.User(); ok {
			return printLine(out, renderUser(u, deps.API.BaseURL()))
		}
		return printLine(out, infoCard("Sign in", "Run: bookkeeping login <username>\nNo account? bookkeeping register <username>"))
	case router.ViewDashboard:
		d, err := deps.Ledger.Dashboard(ctx, start, end)
		if err != nil {
			return err
		}
		return printLine(out, renderDashboard(d))
	case router.ViewRecords:
		d, err := deps.Ledger.Dashboard(ctx, start, end)
		if err != nil {
			return err
		}
		return printLine(out, renderRecords(d.Records))
	case router.ViewCategories:
		cats, err := deps.Ledger.Categories(ctx)
		if err != nil {
			return err
		}
		return printLine(out, renderCategories(cats))
	default:
		return fmt.Errorf("%w: view %q", router.ErrNotFound, view)
	}
}

func printLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
