// Package sheets writes the sales pipeline to a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/octobees/prospect-crm/internal/config"
	"github.com/octobees/prospect-crm/internal/entity"
)

const defaultRange = "Pipeline!A1"

// Header is the first row written on every export.
var Header = []any{
	"Company", "Status", "Priority", "Relevance", "WiFi Required",
	"Matched Keywords", "Email", "Phone", "Website", "Industry",
	"Next Action", "Next Action Due", "Last Contact", "Source",
}

// Exporter overwrites a sheet range with the current pipeline.
type Exporter struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
	writeRange    string
}

// NewExporter builds an exporter from configuration. Extra client options
// replace the credentials file, which lets tests point at a fake endpoint.
func NewExporter(ctx context.Context, cfg config.SheetsConfig, opts ...option.ClientOption) (*Exporter, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must not be empty")
	}

	if len(opts) == 0 && cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, option.WithScopes(gsheets.SpreadsheetsScope))

	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	writeRange := strings.TrimSpace(cfg.Range)
	if writeRange == "" {
		writeRange = defaultRange
	}

	return &Exporter{
		values:        srv.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		writeRange:    writeRange,
	}, nil
}

// Export clears the target range and writes a header plus one row per
// company in the given order. It returns the number of company rows written.
func (e *Exporter) Export(ctx context.Context, companies []entity.Company) (int, error) {
	if _, err := e.values.Clear(e.spreadsheetID, e.writeRange, &gsheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return 0, fmt.Errorf("clear sheet range: %w", err)
	}

	body := &gsheets.ValueRange{Values: Rows(companies)}
	resp, err := e.values.Update(e.spreadsheetID, e.writeRange, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("write sheet rows: %w", err)
	}

	written := int(resp.UpdatedRows) - 1
	if written < 0 {
		written = 0
	}
	return written, nil
}

// Rows renders the header and company rows.
func Rows(companies []entity.Company) [][]any {
	rows := make([][]any, 0, len(companies)+1)
	rows = append(rows, Header)
	for _, c := range companies {
		rows = append(rows, []any{
			c.Name,
			string(c.Status),
			c.PriorityScore,
			c.RelevanceScore,
			yesNo(c.WifiRequired),
			strings.Join(c.MatchedKeywords, ", "),
			entity.Deref(c.Email),
			entity.Deref(c.Phone),
			entity.Deref(c.Website),
			entity.Deref(c.Industry),
			c.NextAction,
			formatTime(c.NextActionDueAt),
			formatTime(c.LastContactAt),
			c.Source,
		})
	}
	return rows
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
