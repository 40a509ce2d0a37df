package reporting

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/domain/comparison"
)

func TestComparisonWorkbook(t *testing.T) {
	ms := []*catalog.Material{
		{ID: "AL-01", Name: "铝一", Category: catalog.CategoryAluminum, Mechanical: catalog.NewAttributeGroup("屈服强度", "636 MPa")},
		{ID: "AL-02", Name: "铝二", Category: catalog.CategoryAluminum, Physical: catalog.NewAttributeGroup("密度", "2.8 g/cm³")},
	}
	table := comparison.BuildTable(ms, catalog.AllGroups)
	scores := comparison.ComputeScores(ms, comparison.DefaultMetrics)

	data, err := ComparisonWorkbook(ms, table, scores)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTable, SheetScores}, f.GetSheetList())

	rows, err := f.GetRows(SheetTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"属性", "铝一 (AL-01)", "铝二 (AL-02)"}, rows[0])
	assert.Equal(t, comparison.SectionBasic, rows[1][0])

	var yield []string
	for _, r := range rows {
		if len(r) > 0 && r[0] == "屈服强度" {
			yield = r
		}
	}
	assert.Equal(t, []string{"屈服强度", "636 MPa", AbsentMarker}, yield)

	scoreRows, err := f.GetRows(SheetScores)
	require.NoError(t, err)
	assert.Equal(t, []string{"指标", "最大值", "AL-01 评分", "AL-02 评分", "AL-01 数值", "AL-02 数值"}, scoreRows[0])
	require.Len(t, scoreRows, 1+len(comparison.DefaultMetrics))
	assert.Equal(t, []string{"屈服强度", "636", "100", "0", "636", "0"}, scoreRows[1])
	density := scoreRows[len(scoreRows)-1]
	assert.Equal(t, "密度(轻量化)", density[0])
	assert.Equal(t, "100", density[3])
}

func TestComparisonWorkbook_Empty(t *testing.T) {
	data, err := ComparisonWorkbook(nil, []comparison.Section{}, comparison.RadarSeries{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"属性"}, rows[0])
}
