// Package sheets defines the outbound ports used to mirror records into a
// spreadsheet.
package sheets

import (
	"context"

	"bookkeeping/internal/core"
)

// RecordExporter writes records to an external sheet.
type RecordExporter interface {
	// UpsertRecord writes r, replacing an earlier row for the same record id.
	UpsertRecord(ctx context.Context, r core.Record) (rowRef string, err error)
	// ExportRecords appends records in bulk and returns how many were written.
	ExportRecords(ctx context.Context, records []core.Record) (int, error)
}

// Header is the column layout shared by every exporter.
var Header = []string{"ID", "Date", "Type", "Category", "Amount", "Description", "User"}
