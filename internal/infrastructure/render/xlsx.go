package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

const xlsxSheet = "Report"

// XLSXRenderer exports one report as a single-sheet workbook.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) Render(result *domain.ReportResult) ([]byte, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	write := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(xlsxSheet, cell, v)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	row := 1
	if err := write(1, row, "Report ID"); err != nil {
		return nil, err
	}
	_ = write(2, row, result.ID)
	row++
	_ = write(1, row, "Date")
	_ = write(2, row, result.CreatedAt.Format("2006-01-02 15:04"))
	row += 2

	if len(result.Parameters) > 0 {
		headers := []string{"Parameter", "Value", "Unit", "Range Min", "Range Max", "Classification"}
		for i, h := range headers {
			_ = write(i+1, row, h)
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(len(headers), row)
		_ = f.SetCellStyle(xlsxSheet, start, end, headerStyle)
		row++

		for _, p := range result.Parameters {
			_ = write(1, row, p.Parameter)
			_ = write(2, row, p.Value)
			_ = write(3, row, p.Unit)
			_ = write(4, row, p.RangeMin)
			_ = write(5, row, p.RangeMax)
			_ = write(6, row, string(p.Classification))
			row++
		}
		row++
	}

	if len(result.Insights) > 0 {
		_ = write(1, row, "Insight")
		_ = write(2, row, "Details")
		_ = write(3, row, "Recommendation")
		start, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(3, row)
		_ = f.SetCellStyle(xlsxSheet, start, end, headerStyle)
		row++

		for _, ins := range result.Insights {
			_ = write(1, row, ins.Parameter)
			_ = write(2, row, ins.Insight)
			_ = write(3, row, ins.Recommendation)
			row++
		}
		row++
	}

	if result.Risk.Source != "" {
		_ = write(1, row, "Overall Risk Score")
		_ = write(2, row, riskLine(result.Risk))
		if note := riskNote(result.Risk); note != "" {
			_ = write(3, row, note)
		}
	}

	_ = f.SetColWidth(xlsxSheet, "A", "A", 22)
	_ = f.SetColWidth(xlsxSheet, "B", "B", 26)
	_ = f.SetColWidth(xlsxSheet, "C", "C", 48)
	_ = f.SetColWidth(xlsxSheet, "D", "F", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
