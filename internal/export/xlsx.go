// Package export builds the XLSX reports served by the list endpoints.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet is a header row plus data rows, written to a single worksheet.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Build renders the sheet into an XLSX workbook.
func Build(sheet Sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := sheet.Name
	if name == "" {
		name = "Sheet1"
	}
	index, err := f.NewSheet(name)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if name != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	headers := make([]any, len(sheet.Headers))
	for i, h := range sheet.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return nil, err
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

// FileName returns an attachment name stamped with the current date.
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("2006-01-02"))
}
