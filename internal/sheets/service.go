// SPDX-License-Identifier: AGPL-3.0-only
package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Service wraps the Sheets API for one spreadsheet.
type Service struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewService(ctx context.Context, credentialsPath, spreadsheetID string) (*Service, error) {

	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &Service{
		svc:           svc,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Record is one data row keyed by the worksheet's header row.
type Record map[string]string

// Records reads a whole worksheet and returns its data rows keyed by header.
func (s *Service) Records(ctx context.Context, sheetName string) ([]Record, error) {

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeForSheet(sheetName)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheetName, err)
	}

	return recordsFromRows(resp.Values), nil
}

// FindRow locates the first data row whose column matches the wanted value.
// The returned index is the 1-based sheet row (headers are row 1).
func (s *Service) FindRow(ctx context.Context, sheetName, column, value string) (Record, int, error) {

	records, err := s.Records(ctx, sheetName)
	if err != nil {
		return nil, 0, err
	}

	for i, record := range records {
		if record[column] == value {
			return record, i + 2, nil
		}
	}

	return nil, 0, fmt.Errorf("no row with %s = %q in worksheet %q", column, value, sheetName)
}

// UpdateRowCells writes the given header-keyed values into one row with a
// single batch update.
func (s *Service) UpdateRowCells(ctx context.Context, sheetName string, row int, updates map[string]string) error {

	headerResp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeForRow(sheetName, 1)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read worksheet %q headers: %w", sheetName, err)
	}
	if len(headerResp.Values) == 0 {
		return fmt.Errorf("worksheet %q has no header row", sheetName)
	}

	headers := make(map[string]int)
	for i, cell := range headerResp.Values[0] {
		if name, ok := cell.(string); ok {
			headers[name] = i + 1
		}
	}

	var data []*sheets.ValueRange
	for column, value := range updates {
		col, ok := headers[column]
		if !ok {
			return fmt.Errorf("column %q not found in worksheet %q headers", column, sheetName)
		}
		data = append(data, &sheets.ValueRange{
			Range:  cellRange(sheetName, col, row),
			Values: [][]interface{}{{value}},
		})
	}

	_, err = s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update worksheet %q row %d: %w", sheetName, row, err)
	}

	return nil
}

// HasColumn reports whether the worksheet's header row contains the column.
func (s *Service) HasColumn(ctx context.Context, sheetName, column string) (bool, error) {

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeForRow(sheetName, 1)).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read worksheet %q headers: %w", sheetName, err)
	}
	if len(resp.Values) == 0 {
		return false, nil
	}

	for _, cell := range resp.Values[0] {
		if name, ok := cell.(string); ok && name == column {
			return true, nil
		}
	}

	return false, nil
}

// AppendRow appends one row at the bottom of the worksheet.
func (s *Service) AppendRow(ctx context.Context, sheetName string, values []interface{}) error {

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rangeForSheet(sheetName), &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to worksheet %q: %w", sheetName, err)
	}

	return nil
}

// EnsureWorksheet creates the worksheet with a header row when it does not
// exist yet.
func (s *Service) EnsureWorksheet(ctx context.Context, sheetName string, headers []string) error {

	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						GridProperties: &sheets.GridProperties{
							RowCount:    100,
							ColumnCount: 20,
						},
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet %q: %w", sheetName, err)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}

	return s.AppendRow(ctx, sheetName, headerRow)
}
