package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/lehigh-university-libraries/tagscan/internal/models"
)

const sheetName = "Patrimonio"

// WriteXLSX writes the table as a single-sheet workbook. Tags are stored as
// text so leading zeros survive.
func WriteXLSX(w io.Writer, table models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}

	for r, row := range table.Rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if len(table.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(table.Columns))
		_ = f.SetColWidth(sheetName, "A", last, 18)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
