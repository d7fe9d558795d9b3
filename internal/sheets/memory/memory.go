// Package memory is an in-process RecordExporter. It backs tests and the
// CLI export command when no spreadsheet is configured.
package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"

	"bookkeeping/internal/core"
	ports "bookkeeping/internal/sheets"
)

type Store struct {
	mu    sync.Mutex
	rows  []core.Record
	index map[int64]int
}

var _ ports.RecordExporter = (*Store)(nil)

func New() *Store {
	return &Store{index: map[int64]int{}}
}

// UpsertRecord replaces the row for r.ID or appends one.
func (s *Store) UpsertRecord(_ context.Context, r core.Record) (string, error) {
	if r.ID <= 0 {
		return "", fmt.Errorf("upsert record: %w", core.ErrInvalidID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[r.ID]; ok {
		s.rows[i] = r
		return fmt.Sprintf("mem:%d", i+1), nil
	}
	s.rows = append(s.rows, r)
	s.index[r.ID] = len(s.rows) - 1
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// ExportRecords appends every record, even ones already present.
func (s *Store) ExportRecords(_ context.Context, records []core.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.rows = append(s.rows, r)
		if r.ID > 0 {
			s.index[r.ID] = len(s.rows) - 1
		}
	}
	return len(records), nil
}

// Records returns a copy of the stored rows in insertion order.
func (s *Store) Records() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.rows...)
}

// WriteCSV writes the header and every row to w.
func (s *Store) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ports.Header); err != nil {
		return err
	}
	for _, r := range s.Records() {
		category := ""
		if r.Category != nil {
			category = r.Category.Name
		}
		if err := cw.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.RecordDate.String(),
			string(r.Type),
			category,
			r.Amount.String(),
			r.Description,
			strconv.FormatInt(r.UserID, 10),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
