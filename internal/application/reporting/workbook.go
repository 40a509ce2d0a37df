package reporting

import (
	"github.com/xuri/excelize/v2"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/domain/comparison"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// Workbook sheet names.
const (
	SheetTable  = "对比表"
	SheetScores = "性能评分"
)

// ComparisonWorkbook renders the comparison as an XLSX workbook: the table
// sheet holds one column per material, the score sheet one row per radar
// axis with scores followed by raw magnitudes.
func ComparisonWorkbook(materials []*catalog.Material, table []comparison.Section, scores comparison.RadarSeries) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetTable); err != nil {
		return nil, wrapWorkbook(err)
	}
	if _, err := f.NewSheet(SheetScores); err != nil {
		return nil, wrapWorkbook(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4D7C0F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, wrapWorkbook(err)
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#ECFCCB"}, Pattern: 1},
	})
	if err != nil {
		return nil, wrapWorkbook(err)
	}

	if err := writeTableSheet(f, materials, table, headerStyle, sectionStyle); err != nil {
		return nil, wrapWorkbook(err)
	}
	if err := writeScoreSheet(f, scores, headerStyle); err != nil {
		return nil, wrapWorkbook(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, wrapWorkbook(err)
	}
	return buf.Bytes(), nil
}

func writeTableSheet(f *excelize.File, materials []*catalog.Material, table []comparison.Section, headerStyle, sectionStyle int) error {
	cols := len(materials) + 1
	header := make([]interface{}, 0, cols)
	header = append(header, "属性")
	for _, m := range materials {
		header = append(header, m.Name+" ("+m.ID+")")
	}
	if err := f.SetSheetRow(SheetTable, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(cols, 1)
	if err := f.SetCellStyle(SheetTable, "A1", last, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, sec := range table {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(SheetTable, cell, sec.Title); err != nil {
			return err
		}
		end, _ := excelize.CoordinatesToCellName(cols, row)
		if err := f.SetCellStyle(SheetTable, cell, end, sectionStyle); err != nil {
			return err
		}
		row++
		for _, r := range sec.Rows {
			values := make([]interface{}, 0, cols)
			values = append(values, r.Key)
			for _, c := range r.Cells {
				if c.Present {
					values = append(values, c.Value)
				} else {
					values = append(values, AbsentMarker)
				}
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetTable, cell, &values); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(SheetTable, "A", "A", 18); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(cols)
	if cols > 1 {
		return f.SetColWidth(SheetTable, "B", lastCol, 28)
	}
	return nil
}

func writeScoreSheet(f *excelize.File, scores comparison.RadarSeries, headerStyle int) error {
	n := len(scores.MaterialIDs)
	cols := 2 + 2*n
	header := make([]interface{}, 0, cols)
	header = append(header, "指标", "最大值")
	for _, id := range scores.MaterialIDs {
		header = append(header, id+" 评分")
	}
	for _, id := range scores.MaterialIDs {
		header = append(header, id+" 数值")
	}
	if err := f.SetSheetRow(SheetScores, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(cols, 1)
	if err := f.SetCellStyle(SheetScores, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, p := range scores.Points {
		values := make([]interface{}, 0, cols)
		values = append(values, p.Label, p.Max)
		for _, id := range scores.MaterialIDs {
			values = append(values, p.Scores[id])
		}
		for _, id := range scores.MaterialIDs {
			values = append(values, p.Magnitudes[id])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetScores, cell, &values); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetScores, "A", "A", 16)
}

func wrapWorkbook(err error) error {
	return errors.Wrap(err, errors.ErrCodeExportFailed, "render workbook")
}
