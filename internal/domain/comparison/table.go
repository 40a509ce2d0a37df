package comparison

import (
	"strings"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
)

const (
	// SectionBasic is the title of the leading section built from scalar fields.
	SectionBasic = "基本信息"
	// SectionPerformance is the title of the trailing wear/corrosion section.
	SectionPerformance = "其他特性"

	applicationSeparator = "、"
)

// Cell is one material's value in a row. Present is false when the material
// does not report the key; Value is then empty and must be rendered as absent.
type Cell struct {
	MaterialID string `json:"materialId"`
	Value      string `json:"value"`
	Present    bool   `json:"present"`
}

// Row is one attribute across the selection. Cells is aligned with the
// selection order and Values indexes the same cells by material id.
type Row struct {
	Key    string          `json:"key"`
	Cells  []Cell          `json:"cells"`
	Values map[string]Cell `json:"values"`
}

// Value returns the cell of material id.
func (r Row) Value(id string) (Cell, bool) {
	c, ok := r.Values[id]
	return c, ok
}

// Section is a titled block of rows. Group is empty for the basic and
// performance sections.
type Section struct {
	Title string            `json:"title"`
	Group catalog.GroupName `json:"group,omitempty"`
	Rows  []Row             `json:"rows"`
}

// BuildTable produces the comparison table of materials. The basic section
// comes first, then one section per group in the order given, skipping groups
// no material reports, then the performance section when any material has
// wear or corrosion data. Every row holds exactly one cell per material.
func BuildTable(materials []*catalog.Material, groups []catalog.GroupName) []Section {
	sections := make([]Section, 0, len(groups)+2)
	if len(materials) == 0 {
		return sections
	}

	sections = append(sections, Section{Title: SectionBasic, Rows: basicRows(materials)})

	for _, g := range groups {
		keys := ResolveKeys(materials, g)
		if len(keys) == 0 {
			continue
		}
		rows := make([]Row, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, buildRow(materials, k, func(m *catalog.Material) string {
				v, _ := m.Group(g).Get(k)
				return v
			}, func(m *catalog.Material) bool {
				return m.Group(g).Has(k)
			}))
		}
		sections = append(sections, Section{Title: g.Title(), Group: g, Rows: rows})
	}

	var hasWear, hasCorrosion bool
	for _, m := range materials {
		hasWear = hasWear || m.WearResistance != ""
		hasCorrosion = hasCorrosion || m.CorrosionResistance != ""
	}
	if hasWear || hasCorrosion {
		sections = append(sections, Section{Title: SectionPerformance, Rows: []Row{
			scalarRow(materials, "耐磨性能", func(m *catalog.Material) string { return m.WearResistance }),
			scalarRow(materials, "耐腐蚀性", func(m *catalog.Material) string { return m.CorrosionResistance }),
		}})
	}
	return sections
}

func basicRows(materials []*catalog.Material) []Row {
	return []Row{
		scalarRow(materials, "标准牌号", func(m *catalog.Material) string { return m.Grade }),
		scalarRow(materials, "适用标准", func(m *catalog.Material) string { return m.Standard }),
		scalarRow(materials, "产品形态", func(m *catalog.Material) string { return m.Shape }),
		scalarRow(materials, "供货状态", func(m *catalog.Material) string { return m.SupplyCondition }),
		scalarRow(materials, "加工工艺", func(m *catalog.Material) string { return m.Process }),
		scalarRow(materials, "典型应用", func(m *catalog.Material) string {
			return strings.Join(m.ApplicationParts, applicationSeparator)
		}),
		scalarRow(materials, "描述", func(m *catalog.Material) string { return m.Description }),
	}
}

func scalarRow(materials []*catalog.Material, key string, get func(*catalog.Material) string) Row {
	return buildRow(materials, key, get, func(m *catalog.Material) bool { return get(m) != "" })
}

func buildRow(materials []*catalog.Material, key string, get func(*catalog.Material) string, has func(*catalog.Material) bool) Row {
	row := Row{
		Key:    key,
		Cells:  make([]Cell, 0, len(materials)),
		Values: make(map[string]Cell, len(materials)),
	}
	for _, m := range materials {
		c := Cell{MaterialID: m.ID}
		if has(m) {
			c.Value = get(m)
			c.Present = true
		}
		row.Cells = append(row.Cells, c)
		row.Values[m.ID] = c
	}
	return row
}
