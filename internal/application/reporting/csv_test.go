package reporting

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, []byte(utf8BOM)), "missing BOM")
	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestMaterialCSV_QuoteRoundTrip(t *testing.T) {
	m := &catalog.Material{
		ID: "X-1", Name: "测试钢", Category: catalog.CategorySteel,
		Description: `He said "go"`,
	}
	data, err := MaterialCSV(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"He said ""go"""`)

	records := readCSV(t, data)
	var got string
	for _, r := range records {
		if r[0] == "Basic" && r[1] == "Description" {
			got = r[2]
		}
	}
	assert.Equal(t, `He said "go"`, got)
}

func TestMaterialCSV_Layout(t *testing.T) {
	m := &catalog.Material{
		ID: "AL-01", Name: "耐磨铝合金", Category: catalog.CategoryAluminum, Grade: "TiB2/Al-Zn-Mg-Cu",
		Chemical:       catalog.NewAttributeGroup("Al", "Bal.", "Si", "-"),
		Mechanical:     catalog.NewAttributeGroup("屈服强度", "636 MPa"),
		Characteristic: catalog.NewAttributeGroup("耐磨性", "优, 提升 30%"),
		WearResistance: "良好",
	}
	data, err := MaterialCSV(m)
	require.NoError(t, err)

	records := readCSV(t, data)
	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"Basic", "Name", "耐磨铝合金"}, records[1])
	assert.Equal(t, []string{"Basic", "Grade", "TiB2/Al-Zn-Mg-Cu"}, records[2])
	assert.Equal(t, []string{"Basic", "Category", "铝合金"}, records[3])
	assert.Equal(t, []string{"Basic", "Standard", ""}, records[4])
	assert.Equal(t, []string{"Basic", "Description", ""}, records[8])
	assert.Equal(t, []string{"Chemical Composition", "Al", "Bal."}, records[9])
	assert.Equal(t, []string{"Chemical Composition", "Si", "-"}, records[10])
	assert.Equal(t, []string{"Mechanical Properties", "屈服强度", "636 MPa"}, records[11])
	assert.Equal(t, []string{"Characteristics", "耐磨性", "优, 提升 30%"}, records[12])
	assert.Equal(t, []string{"Performance", "Wear Resistance", "良好"}, records[13])
	assert.Len(t, records, 14, "no Corrosion Resistance row without data")
}

func TestMaterialCSV_BasicRowsAlwaysPresent(t *testing.T) {
	records := readCSV(t, mustCSV(t, &catalog.Material{ID: "X", Name: "n", Category: catalog.CategorySteel}))
	var keys []string
	for _, r := range records[1:] {
		require.Equal(t, "Basic", r[0])
		keys = append(keys, r[1])
	}
	assert.Equal(t, []string{"Name", "Grade", "Category", "Standard", "Shape", "Condition", "Process", "Description"}, keys)
}

func mustCSV(t *testing.T, m *catalog.Material) []byte {
	t.Helper()
	data, err := MaterialCSV(m)
	require.NoError(t, err)
	return data
}

func TestMaterialFilename(t *testing.T) {
	assert.Equal(t, "合金钢_40Cr.csv", MaterialFilename(&catalog.Material{Name: "合金钢", Grade: "40Cr"}, "csv"))
	assert.Equal(t, "合金钢_Data.txt", MaterialFilename(&catalog.Material{Name: "合金钢"}, ".txt"))
	name := MaterialFilename(&catalog.Material{Name: "铝", Grade: "TiB2/Al; MD-S"}, "csv")
	assert.False(t, strings.ContainsAny(name, "/; "))
}
