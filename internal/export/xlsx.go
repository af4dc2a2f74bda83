package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX 输出单工作表的Excel文件，代码栏位按文本写入
func WriteXLSX(w io.Writer, sheet string, t Table) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for i, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := wb.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if i < len(t.Headers) && !IsCodeColumn(t.Headers[i]) {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					if err := wb.SetCellValue(sheet, cell, n); err != nil {
						return err
					}
					continue
				}
			}
			if err := wb.SetCellStr(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	if len(t.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Headers))
		_ = wb.SetColWidth(sheet, "A", last, 14)
	}

	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("写入Excel失败: %w", err)
	}
	return nil
}
