// Package worker mirrors record events into the configured exporter.
package worker

import (
	"context"
	"fmt"

	"bookkeeping/internal/amqp"
	"bookkeeping/internal/log"
	"bookkeeping/internal/sheets"
)

// SyncWorker handles record events consumed from the broker.
type SyncWorker struct {
	exporter sheets.RecordExporter
	logger   *log.Logger
}

func NewSyncWorker(exporter sheets.RecordExporter, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		exporter: exporter,
		logger:   log.OrDefault(logger).WithComponent(log.ComponentWorker),
	}
}

// HandleRecordEvent exports created and updated records. Deletes are logged
// and skipped: exported rows are an append-only history.
func (w *SyncWorker) HandleRecordEvent(ctx context.Context, e amqp.RecordEvent) error {
	switch e.Op {
	case amqp.OpCreated, amqp.OpUpdated:
		if e.Record == nil {
			return fmt.Errorf("%s event for record %d has no payload", e.Op, e.RecordID)
		}
		ref, err := w.exporter.UpsertRecord(ctx, *e.Record)
		if err != nil {
			return fmt.Errorf("export record %d: %w", e.RecordID, err)
		}
		w.logger.InfoContext(ctx, "Exported record",
			"op", e.Op, "record_id", e.RecordID, "user_id", e.UserID, "ref", ref)
		return nil
	case amqp.OpDeleted:
		w.logger.InfoContext(ctx, "Skipping delete event", "record_id", e.RecordID, "user_id", e.UserID)
		return nil
	default:
		w.logger.WarnContext(ctx, "Ignoring unknown event", "op", e.Op, "record_id", e.RecordID)
		return nil
	}
}
