// Package google exports records to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bookkeeping/internal/config"
	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
	ports "bookkeeping/internal/sheets"
)

// Config selects the spreadsheet and credentials.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// FromAppConfig maps application settings onto Config.
func FromAppConfig(cfg *config.Config) Config {
	return Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}
}

// Client writes one row per record into "<year> <sheet>" tabs.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
	logger        *log.Logger
}

var _ ports.RecordExporter = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Records"
	}
	logger = log.OrDefault(logger).WithComponent(log.ComponentSheets)

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Creating Google Sheets service", "credentials_size", len(creds))

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetBase:     sheet,
		logger:        logger,
	}, nil
}

// credentials resolves inline JSON, then a key file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func credentials(cfg Config) ([]byte, error) {
	if j := strings.TrimSpace(cfg.CredentialsJSON); j != "" {
		return []byte(j), nil
	}
	file := strings.TrimSpace(cfg.CredentialsFile)
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// UpsertRecord overwrites the row holding r.ID or appends a new one. A row
// left in another year's tab by a date change is cleared before appending.
func (c *Client) UpsertRecord(ctx context.Context, r core.Record) (string, error) {
	if r.ID <= 0 {
		return "", fmt.Errorf("upsert record: %w", core.ErrInvalidID)
	}
	tabs, err := c.recordTabs(ctx)
	if err != nil {
		return "", err
	}
	sheet := c.sheetFor(r)

	if !slices.Contains(tabs, sheet) {
		if err := c.addTab(ctx, sheet); err != nil {
			return "", err
		}
	} else {
		row, err := c.findRow(ctx, sheet, r.ID)
		if err != nil {
			return "", err
		}
		if row > 0 {
			return c.updateRow(ctx, sheet, row, recordRow(r))
		}
	}

	for _, tab := range tabs {
		if tab == sheet {
			continue
		}
		row, err := c.findRow(ctx, tab, r.ID)
		if err != nil {
			return "", err
		}
		if row == 0 {
			continue
		}
		rng := rowRange(tab, row)
		if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("clear %s: %w", rng, err)
		}
		c.logger.InfoContext(ctx, "Cleared moved record row", log.FieldRecordID, r.ID, "range", rng)
	}

	return c.appendRows(ctx, sheet, [][]any{recordRow(r)})
}

// ExportRecords appends records, one batch per yearly tab.
func (c *Client) ExportRecords(ctx context.Context, records []core.Record) (int, error) {
	tabs, err := c.recordTabs(ctx)
	if err != nil {
		return 0, err
	}
	written := 0
	for _, batch := range c.batches(records) {
		if !slices.Contains(tabs, batch.sheet) {
			if err := c.addTab(ctx, batch.sheet); err != nil {
				return written, err
			}
		}
		if _, err := c.appendRows(ctx, batch.sheet, batch.rows); err != nil {
			return written, err
		}
		written += len(batch.rows)
	}
	return written, nil
}

// recordTabs lists the spreadsheet tabs that hold records.
func (c *Client) recordTabs(ctx context.Context) ([]string, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list tabs: %w", err)
	}
	var tabs []string
	for _, sh := range resp.Sheets {
		if sh.Properties != nil && c.isRecordTab(sh.Properties.Title) {
			tabs = append(tabs, sh.Properties.Title)
		}
	}
	return tabs, nil
}

func (c *Client) isRecordTab(title string) bool {
	if title == c.sheetBase {
		return true
	}
	if len(title) < 6 || title[4] != ' ' || title[5:] != c.sheetBase {
		return false
	}
	_, err := strconv.Atoi(title[:4])
	return err == nil
}

// addTab creates a tab and writes the header row.
func (c *Client) addTab(ctx context.Context, title string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
	}}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create tab %s: %w", title, err)
	}
	header := make([]any, len(ports.Header))
	for i, h := range ports.Header {
		header[i] = h
	}
	if _, err := c.updateRow(ctx, title, 1, header); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Created tab", "sheet", title)
	return nil
}

func (c *Client) findRow(ctx context.Context, sheet string, id int64) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read ids from %s: %w", sheet, err)
	}
	return rowIndexOf(resp.Values, id), nil
}

func (c *Client) updateRow(ctx context.Context, sheet string, row int, values []any) (string, error) {
	rng := rowRange(sheet, row)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{values}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", rng, err)
	}
	c.logger.DebugContext(ctx, "Updated row", "range", rng)
	return rng, nil
}

func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:G%d", sheet, row, row)
}

func (c *Client) appendRows(ctx context.Context, sheet string, rows [][]any) (string, error) {
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:G", &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	ref := sheet
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	c.logger.InfoContext(ctx, "Appended record rows", "count", len(rows), "range", ref)
	return ref, nil
}

type batch struct {
	sheet string
	rows  [][]any
}

func (c *Client) batches(records []core.Record) []batch {
	bySheet := map[string]*batch{}
	for _, r := range records {
		name := c.sheetFor(r)
		b, ok := bySheet[name]
		if !ok {
			b = &batch{sheet: name}
			bySheet[name] = b
		}
		b.rows = append(b.rows, recordRow(r))
	}
	out := make([]batch, 0, len(bySheet))
	for _, b := range bySheet {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].sheet < out[j].sheet })
	return out
}

func (c *Client) sheetFor(r core.Record) string {
	return yearPrefixedName(c.sheetBase, r.RecordDate.Year())
}

func recordRow(r core.Record) []any {
	category := ""
	if r.Category != nil {
		category = r.Category.Name
	}
	return []any{
		r.ID,
		r.RecordDate.String(),
		string(r.Type),
		category,
		r.Amount.Float(),
		r.Description,
		r.UserID,
	}
}

// rowIndexOf returns the 1-based row whose first cell is id, or 0.
func rowIndexOf(values [][]any, id int64) int {
	want := strconv.FormatInt(id, 10)
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == want {
			return i + 1
		}
	}
	return 0
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
