// Package excel renders and parses the bulk-upload workbooks. Sheet
// layout is shared between the template download and the upload
// parser so an exported file re-uploads cleanly.
package excel

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetInstructions = "Instructions"
	SheetMembers      = "Members"
	SheetReference    = "Reference"
)

var ErrEmptySheet = errors.New("sheet contains no data rows")

// ParseUpload reads the uploaded workbook and returns the header row
// plus all data rows of the Members sheet (falling back to the first
// sheet for hand-made files).
func ParseUpload(r io.Reader) (header []string, rows [][]string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetMembers
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, ErrEmptySheet
		}
		sheet = sheets[0]
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(all) == 0 {
		return nil, nil, ErrEmptySheet
	}
	return all[0], all[1:], nil
}
