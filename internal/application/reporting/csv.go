package reporting

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// utf8BOM makes spreadsheet tools detect the encoding of CSV exports.
const utf8BOM = "\ufeff"

// CSVHeader is the first record of every material CSV.
var CSVHeader = []string{"Category", "Property", "Value"}

const (
	csvBasic       = "Basic"
	csvPerformance = "Performance"
)

// MaterialCSV renders m as Category,Property,Value records: the eight basic
// fields, always present and possibly empty, then every attribute group in
// canonical order, then wear and corrosion resistance when reported.
// Quoting follows RFC 4180.
func MaterialCSV(m *catalog.Material) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)

	records := [][]string{
		CSVHeader,
		{csvBasic, "Name", m.Name},
		{csvBasic, "Grade", m.Grade},
		{csvBasic, "Category", string(m.Category)},
		{csvBasic, "Standard", m.Standard},
		{csvBasic, "Shape", m.Shape},
		{csvBasic, "Condition", m.SupplyCondition},
		{csvBasic, "Process", m.Process},
		{csvBasic, "Description", m.Description},
	}

	for _, g := range catalog.AllGroups {
		for _, a := range m.Group(g) {
			records = append(records, []string{g.ExportName(), a.Key, a.Value})
		}
	}

	if m.WearResistance != "" {
		records = append(records, []string{csvPerformance, "Wear Resistance", m.WearResistance})
	}
	if m.CorrosionResistance != "" {
		records = append(records, []string{csvPerformance, "Corrosion Resistance", m.CorrosionResistance})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "write csv")
	}
	return buf.Bytes(), nil
}

// MaterialFilename is the download name of a material export: name_grade.ext,
// with "Data" standing in for a missing grade.
func MaterialFilename(m *catalog.Material, ext string) string {
	grade := m.Grade
	if grade == "" {
		grade = "Data"
	}
	name := m.Name + "_" + grade
	name = strings.NewReplacer("/", "-", "\\", "-", " ", "_", ";", "-", ":", "-").Replace(name)
	return name + "." + strings.TrimPrefix(ext, ".")
}
