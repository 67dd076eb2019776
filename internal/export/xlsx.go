package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
	"github.com/xuri/excelize/v2"
)

// staffColumns is the header row of the directory workbook.
var staffColumns = []string{
	"ID", "Name", "Department", "Position", "Birth Date",
	"Cake Status", "Celebration Time", "Dietary Restrictions", "Notes",
}

// StaffXLSX renders the staff directory as a spreadsheet. Records without a
// birth date are included; identity listings never drop them.
func StaffXLSX(records []roster.StaffRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, config.XLSXSheetName); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWorkbookBuild, err)
	}
	sheet = config.XLSXSheetName

	for col, h := range staffColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrWorkbookBuild, err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrWorkbookBuild, err)
		}
	}

	for i, r := range records {
		birth := ""
		if r.HasBirthDate {
			if r.BirthYearKnown {
				birth = r.BirthDate.Format(config.DateFormatFullDash)
			} else {
				birth = r.BirthDate.Format(config.DateFormatNoYearD)
			}
		}
		row := []any{
			r.ID, r.Name, r.Department, r.Position, birth,
			string(r.CakeStatus), r.CelebrationTime,
			strings.Join(r.DietaryRestrictions, ", "), r.Notes,
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", config.ErrWorkbookBuild, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("%s: %w", config.ErrWorkbookBuild, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWorkbookBuild, err)
	}
	return buf.Bytes(), nil
}

// XLSXFilename names the directory export after the reference date.
func XLSXFilename(referenceDate time.Time) string {
	return fmt.Sprintf(config.ExportXLSXPattern, referenceDate.Format(config.DateFormatFullDash))
}
