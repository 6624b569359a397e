package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"semaphore/booking/internal/model"
)

const (
	OfficeSheet = "Offices"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var officeHeader = []interface{}{"Name", "Office", "Office code", "Phone number", "Requirements"}

// OfficeWorkbook lays the office list out one office per row under a header row.
// The caller owns the returned file and must Close it.
func OfficeWorkbook(options []model.OfficeOption) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", OfficeSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(OfficeSheet, "A1", &officeHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	for i, option := range options {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		row := []interface{}{option.Name, option.Office, option.OfficeCode, option.PhoneNumber, option.Requirements}
		if err := f.SetSheetRow(OfficeSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write office row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(OfficeSheet, "A", "E", 24); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}
