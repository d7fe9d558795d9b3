package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bookkeeping/internal/core"
)

func newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record", "rec"},
		Short:   "Manage income and expense records",
	}
	cmd.AddCommand(newRecordsListCmd(), newRecordsAddCmd(), newRecordsUpdateCmd(), newRecordsRmCmd())
	return cmd
}

func newRecordsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List records in a date range",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := dateRange(cmd)
			if err != nil {
				return err
			}
			d, err := deps.Ledger.Dashboard(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderRecords(d.Records))
			return nil
		},
	}
	addRangeFlags(cmd)
	return cmd
}

func addRecordFlags(fs *pflag.FlagSet) {
	fs.String("amount", "", "amount, e.g. 12.50")
	fs.String("date", "", "record date, YYYY-MM-DD (default: today)")
	fs.Int64("category", 0, "category id")
	fs.String("type", "", "INCOME or EXPENSE (default: the category's type)")
	fs.String("description", "", "free text")
}

// recordInput builds a partial record from the flags that were set.
func recordInput(fs *pflag.FlagSet) (core.RecordInput, error) {
	var in core.RecordInput
	if fs.Changed("amount") {
		v, _ := fs.GetString("amount")
		m, err := core.ParseDecimal(v)
		if err != nil {
			return in, fmt.Errorf("--amount: %w", err)
		}
		in.Amount = &m
	}
	if fs.Changed("date") {
		v, _ := fs.GetString("date")
		d, err := core.ParseDate(v)
		if err != nil {
			return in, fmt.Errorf("--date: %w", err)
		}
		in.RecordDate = &d
	}
	if fs.Changed("category") {
		id, _ := fs.GetInt64("category")
		in.CategoryID = &id
	}
	if fs.Changed("type") {
		v, _ := fs.GetString("type")
		p, err := core.ParsePolarity(v)
		if err != nil {
			return in, fmt.Errorf("--type: %w", err)
		}
		in.Type = &p
	}
	if fs.Changed("description") {
		v, _ := fs.GetString("description")
		in.Description = &v
	}
	return in, nil
}

func newRecordsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := recordInput(cmd.Flags())
			if err != nil {
				return err
			}
			if in.RecordDate == nil {
				now := time.Now()
				today := core.NewDate(now.Year(), int(now.Month()), now.Day())
				in.RecordDate = &today
			}
			r, err := deps.Ledger.AddRecord(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard(
				fmt.Sprintf("Record %d created", r.ID),
				fmt.Sprintf("%s %s on %s", r.Type, r.Amount, r.RecordDate)))
			return nil
		},
	}
	addRecordFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newRecordsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in, err := recordInput(cmd.Flags())
			if err != nil {
				return err
			}
			r, err := deps.Ledger.UpdateRecord(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard("Record "+strconv.FormatInt(r.ID, 10)+" updated"))
			return nil
		},
	}
	addRecordFlags(cmd.Flags())
	return cmd
}

func newRecordsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := deps.Ledger.RemoveRecord(cmd.Context(), id); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successCard(fmt.Sprintf("Record %d deleted", id)))
			return nil
		},
	}
}
