package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookkeeping/internal/charts"
	"bookkeeping/internal/core"
	"bookkeeping/internal/sheets/memory"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records to the configured spreadsheet or to CSV",
		Long: `export writes the records of a date range to the Google spreadsheet named
by GOOGLE_SPREADSHEET_ID. Without a spreadsheet, or with --csv, records are
written as CSV to the given file ("-" for stdout).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			start, end, err := dateRange(cmd)
			if err != nil {
				return err
			}
			d, err := deps.Ledger.Dashboard(ctx, start, end)
			if err != nil {
				return err
			}

			csvPath, _ := cmd.Flags().GetString("csv")
			if csvPath == "" {
				exporter, err := deps.RecordExporter(ctx)
				if err != nil {
					return err
				}
				if exporter != nil {
					n, err := exporter.ExportRecords(ctx, d.Records)
					if err != nil {
						return err
					}
					return printLine(cmd.OutOrStdout(), successCard(fmt.Sprintf("Exported %d records", n)))
				}
				csvPath = "-"
			}

			store := memory.New()
			if _, err := store.ExportRecords(ctx, d.Records); err != nil {
				return err
			}
			if csvPath == "-" {
				return store.WriteCSV(cmd.OutOrStdout())
			}
			return writeFile(csvPath, store.WriteCSV)
		},
	}
	addRangeFlags(cmd)
	cmd.Flags().String("csv", "", `write CSV to this file ("-" for stdout)`)
	return cmd
}

func newChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render category totals as a PNG chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := dateRange(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			pie, _ := cmd.Flags().GetString("pie")

			d, err := deps.Ledger.Dashboard(cmd.Context(), start, end)
			if err != nil {
				return err
			}

			render := func(w io.Writer) error { return charts.CategoryBars(d.Summary, w) }
			if pie != "" {
				p, err := core.ParsePolarity(pie)
				if err != nil {
					return fmt.Errorf("--pie: %w", err)
				}
				render = func(w io.Writer) error { return charts.CategoryPie(d.Summary, p, w) }
			}

			if err := writeFile(out, render); err != nil {
				if errors.Is(err, charts.ErrNoData) {
					return fmt.Errorf("nothing to chart between %s and %s", start, end)
				}
				return err
			}
			return printLine(cmd.OutOrStdout(), successCard("Chart written", out))
		},
	}
	addRangeFlags(cmd)
	cmd.Flags().String("out", "chart.png", "output PNG file")
	cmd.Flags().String("pie", "", "draw a pie of INCOME or EXPENSE categories instead of bars")
	return cmd
}

// writeFile renders into a temporary file and renames it into place, so a
// failed render leaves no partial output.
func writeFile(path string, render func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bookkeeping-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := render(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
