package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/memberdir/memberdir-backend/internal/bulk"
)

// ReportRow is one rejected upload row: its original cells in
// canonical column order plus the joined reason string.
type ReportRow struct {
	Cells  []string
	Reason string
}

// RenderErrorReport builds the fix-and-reupload workbook: the
// canonical header plus a trailing Reason column, one row per
// rejection, in display order. The result parses with the same header
// resolution as any other upload.
func RenderErrorReport(rows []ReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMembers); err != nil {
		return nil, err
	}

	header := append(append([]string{}, bulk.Columns...), bulk.ColReason)
	if err := writeRow(f, SheetMembers, 1, header); err != nil {
		return nil, err
	}
	if err := styleHeader(f, SheetMembers, len(header)); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := append(append([]string{}, row.Cells...), row.Reason)
		if err := writeRow(f, SheetMembers, i+2, cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write error report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []string) error {
	for col, val := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, width int) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, styleID)
}
