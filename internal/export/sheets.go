// Package export writes projection results to Google Sheets.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"saldo/internal/forecast"
)

// SheetsExporter replaces a sheet's contents with a day-by-day projection
// table.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter creates an exporter using service account credentials
// read from a JSON file.
func NewSheetsExporter(ctx context.Context, spreadsheetID, sheetName, credentialsFile string) (*SheetsExporter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// Export clears the sheet and writes one row per projected day.
func (e *SheetsExporter) Export(ctx context.Context, result forecast.Result) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:D", e.sheetName)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", e.sheetName, err)
	}

	values := make([][]any, 0, len(result)+1)
	values = append(values, []any{"Date", "Balance", "Change", "Details"})
	for _, day := range result {
		values = append(values, []any{
			day.Date,
			day.Balance.InexactFloat64(),
			day.BalanceDiff.InexactFloat64(),
			changeSummary(day.Changes),
		})
	}

	dataRange := fmt.Sprintf("%s!A1:D%d", e.sheetName, len(values))
	vr := &gsheet.ValueRange{Values: values}
	_, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Projection exported to Google Sheets",
		"spreadsheet_id", e.spreadsheetID,
		"sheet", e.sheetName,
		"days", len(result))

	return nil
}

// changeSummary renders a day's changes as a single readable cell.
func changeSummary(changes []forecast.Change) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		label := c.Reason
		if c.Category != "" {
			label = fmt.Sprintf("%s (%s)", c.Reason, c.Category)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, formatAmount(c.Amount)))
	}
	return strings.Join(parts, "; ")
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
