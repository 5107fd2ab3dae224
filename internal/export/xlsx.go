package export

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
)

const defaultSheet = "Sheet1"

func writeXLSX(w io.Writer, sheet string, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	f.SetSheetName(defaultSheet, sheet)

	for col, title := range header {
		if err := setCell(f, sheet, col+1, 1, title); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, value := range row {
			if err := setCell(f, sheet, col+1, i+2, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to address cell: %w", err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
