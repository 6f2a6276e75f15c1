package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/memberdir/memberdir-backend/internal/bulk"
	"github.com/memberdir/memberdir-backend/internal/lookup"
)

const dropdownRows = 1000

// RenderTemplate builds the downloadable workbook: an Instructions
// cover sheet, the Members data-entry sheet (pre-populated when
// dataRows is non-empty, identifiers included so re-upload defaults to
// EDIT), and a Reference sheet carrying the vocabularies and the
// state→city table that drives the dropdowns.
func RenderTemplate(cat *lookup.Catalog, dataRows [][]string, downloadedBy string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetInstructions); err != nil {
		return nil, err
	}
	membersIdx, err := f.NewSheet(SheetMembers)
	if err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetReference); err != nil {
		return nil, err
	}

	if err := writeInstructions(f, downloadedBy); err != nil {
		return nil, err
	}
	if err := writeMembers(f, dataRows); err != nil {
		return nil, err
	}
	if err := writeReference(f, cat); err != nil {
		return nil, err
	}
	if err := addDropdowns(f, cat); err != nil {
		return nil, err
	}

	f.SetActiveSheet(membersIdx)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write template: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInstructions(f *excelize.File, downloadedBy string) error {
	lines := [][]string{
		{"Member Directory Bulk Upload"},
		{},
		{"Downloaded by", downloadedBy},
		{"Downloaded at", time.Now().UTC().Format("2006-01-02")},
		{},
		{"How to use"},
		{"1.", "Fill one member per row on the Members sheet."},
		{"2.", "Leave Identifier blank to add a new member; keep it to edit an existing one."},
		{"3.", "Dates use YYYY-MM-DD. Hobbies and Tech Interests are comma separated."},
		{"4.", "Valid values for State, City, Gender and the lists are on the Reference sheet."},
		{"5.", "Password is required for new members only."},
	}
	for i, line := range lines {
		if err := writeRow(f, SheetInstructions, i+1, line); err != nil {
			return err
		}
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetInstructions, "A1", "A1", titleStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetInstructions, "A", "B", 24)
}

func writeMembers(f *excelize.File, dataRows [][]string) error {
	if err := writeRow(f, SheetMembers, 1, bulk.Columns); err != nil {
		return err
	}
	if err := styleHeader(f, SheetMembers, len(bulk.Columns)); err != nil {
		return err
	}
	for i, cells := range dataRows {
		if err := writeRow(f, SheetMembers, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetMembers, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetMembers, "B", "N", 18); err != nil {
		return err
	}

	// DOB column keeps the YYYY-MM-DD shape even when Excel coerces
	// the cell to a native date.
	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return err
	}
	return f.SetColStyle(SheetMembers, "M", dateStyle)
}

func writeReference(f *excelize.File, cat *lookup.Catalog) error {
	if err := writeRow(f, SheetReference, 1, []string{
		"State", "City", "", "Gender", "Hobby", "Tech Interest", "States",
	}); err != nil {
		return err
	}

	row := 2
	for _, state := range cat.States {
		for _, city := range cat.CitiesByState[state] {
			if err := writeRow(f, SheetReference, row, []string{state, city}); err != nil {
				return err
			}
			row++
		}
	}

	if err := writeColumn(f, SheetReference, "D", lookup.Genders); err != nil {
		return err
	}
	if err := writeColumn(f, SheetReference, "E", lookup.Hobbies); err != nil {
		return err
	}
	if err := writeColumn(f, SheetReference, "F", lookup.TechInterests); err != nil {
		return err
	}
	if err := writeColumn(f, SheetReference, "G", cat.States); err != nil {
		return err
	}
	return f.SetColWidth(SheetReference, "A", "G", 18)
}

func writeColumn(f *excelize.File, sheet, col string, values []string) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, i+2), v); err != nil {
			return err
		}
	}
	return nil
}

func addDropdowns(f *excelize.File, cat *lookup.Catalog) error {
	dropdowns := []struct {
		col    string
		source string
		count  int
	}{
		{"G", "G", len(cat.States)},     // State
		{"I", "D", len(lookup.Genders)}, // Gender
	}
	for _, d := range dropdowns {
		if d.count == 0 {
			continue
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s%d", d.col, d.col, dropdownRows+1)
		dv.SetSqrefDropList(fmt.Sprintf("%s!$%s$2:$%s$%d", SheetReference, d.source, d.source, d.count+1))
		if err := f.AddDataValidation(SheetMembers, dv); err != nil {
			return err
		}
	}
	return nil
}
