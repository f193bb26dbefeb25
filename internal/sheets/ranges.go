// SPDX-License-Identifier: AGPL-3.0-only
package sheets

import "fmt"

func recordsFromRows(rows [][]interface{}) []Record {

	if len(rows) < 2 {
		return nil
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		if name, ok := cell.(string); ok {
			headers[i] = name
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(row) {
				record[header] = fmt.Sprintf("%v", row[i])
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	return records
}

// columnLetter converts a 1-based column index to its A1 letter, e.g. 1 -> A,
// 27 -> AA.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}

func cellRange(sheetName string, col, row int) string {
	return fmt.Sprintf("'%s'!%s%d", sheetName, columnLetter(col), row)
}

func rangeForSheet(sheetName string) string {
	return fmt.Sprintf("'%s'", sheetName)
}

func rangeForRow(sheetName string, row int) string {
	return fmt.Sprintf("'%s'!%d:%d", sheetName, row, row)
}
