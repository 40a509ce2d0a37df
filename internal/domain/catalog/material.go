// Package catalog holds the read-only record model of the platform: materials,
// equipment and their parts, experiments, simulation cases and case studies,
// plus the in-memory Store that serves them.
package catalog

import "strings"

// Category is the closed set of material families.
type Category string

const (
	CategorySteel    Category = "钢材"
	CategoryAluminum Category = "铝合金"
	CategoryCoating  Category = "涂层材料"
)

// Categories lists the material categories in display order.
var Categories = []Category{CategorySteel, CategoryAluminum, CategoryCoating}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// GroupName identifies one of the five attribute groups of a material.
type GroupName string

const (
	GroupChemical       GroupName = "chemical"
	GroupMechanical     GroupName = "mechanical"
	GroupPhysical       GroupName = "physical"
	GroupThermal        GroupName = "thermal"
	GroupCharacteristic GroupName = "characteristic"
)

// AllGroups is the canonical section order used by tables, reports and exports.
var AllGroups = []GroupName{GroupChemical, GroupMechanical, GroupPhysical, GroupThermal, GroupCharacteristic}

var groupTitles = map[GroupName]string{
	GroupChemical:       "化学成分",
	GroupMechanical:     "力学性能",
	GroupPhysical:       "物理性能",
	GroupThermal:        "热性能",
	GroupCharacteristic: "材料特性",
}

var groupExportNames = map[GroupName]string{
	GroupChemical:       "Chemical Composition",
	GroupMechanical:     "Mechanical Properties",
	GroupPhysical:       "Physical Properties",
	GroupThermal:        "Thermal Properties",
	GroupCharacteristic: "Characteristics",
}

// Title is the Chinese section heading.
func (g GroupName) Title() string {
	if t, ok := groupTitles[g]; ok {
		return t
	}
	return string(g)
}

// ExportName is the English section name used in CSV exports.
func (g GroupName) ExportName() string {
	if t, ok := groupExportNames[g]; ok {
		return t
	}
	return string(g)
}

// Valid reports whether g is one of the five groups.
func (g GroupName) Valid() bool {
	_, ok := groupTitles[g]
	return ok
}

// ParseGroupName accepts the canonical name or the Chinese title.
func ParseGroupName(s string) (GroupName, bool) {
	s = strings.TrimSpace(s)
	for _, g := range AllGroups {
		if string(g) == s || g.Title() == s {
			return g, true
		}
	}
	return "", false
}

// Material is one catalog entry. Attribute groups are free-form: their key sets
// depend on the material family, not on a fixed schema.
type Material struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Category        Category `json:"category" yaml:"category"`
	Shape           string   `json:"shape,omitempty" yaml:"shape"`
	Grade           string   `json:"grade,omitempty" yaml:"grade"`
	Standard        string   `json:"standard,omitempty" yaml:"standard"`
	ProductCategory string   `json:"productCategory,omitempty" yaml:"product_category"`
	Process         string   `json:"process,omitempty" yaml:"process"`
	SupplyCondition string   `json:"supplyCondition,omitempty" yaml:"supply_condition"`
	MaterialSystem  string   `json:"materialSystem,omitempty" yaml:"material_system"`
	Description     string   `json:"description" yaml:"description"`

	Chemical       AttributeGroup `json:"chemicalComposition" yaml:"chemical"`
	Mechanical     AttributeGroup `json:"mechanicalProperties" yaml:"mechanical"`
	Physical       AttributeGroup `json:"physicalProperties,omitempty" yaml:"physical"`
	Thermal        AttributeGroup `json:"thermalProperties,omitempty" yaml:"thermal"`
	Characteristic AttributeGroup `json:"characteristicProperties,omitempty" yaml:"characteristic"`

	WearResistance      string `json:"wearResistance,omitempty" yaml:"wear_resistance"`
	CorrosionResistance string `json:"corrosionResistance,omitempty" yaml:"corrosion_resistance"`

	ApplicationParts []string `json:"applicationParts" yaml:"application_parts"`
	ImageURL         string   `json:"imageUrl" yaml:"image_url"`
}

// Group returns the named attribute group, or nil when the material has none.
func (m *Material) Group(name GroupName) AttributeGroup {
	switch name {
	case GroupChemical:
		return m.Chemical
	case GroupMechanical:
		return m.Mechanical
	case GroupPhysical:
		return m.Physical
	case GroupThermal:
		return m.Thermal
	case GroupCharacteristic:
		return m.Characteristic
	}
	return nil
}

// Facet is a filterable material field.
type Facet string

const (
	FacetName            Facet = "name"
	FacetGrade           Facet = "grade"
	FacetShape           Facet = "shape"
	FacetSupplyCondition Facet = "supplyCondition"
	FacetMaterialSystem  Facet = "materialSystem"
	FacetProcess         Facet = "process"
)

// FacetValue returns the material field addressed by f.
func (m *Material) FacetValue(f Facet) string {
	switch f {
	case FacetName:
		return m.Name
	case FacetGrade:
		return m.Grade
	case FacetShape:
		return m.Shape
	case FacetSupplyCondition:
		return m.SupplyCondition
	case FacetMaterialSystem:
		return m.MaterialSystem
	case FacetProcess:
		return m.Process
	}
	return ""
}

// FacetConfig is one filter dropdown of the material browser.
type FacetConfig struct {
	Facet   Facet    `json:"facet"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

var steelFacets = []FacetConfig{
	{Facet: FacetName, Label: "材料名称", Options: []string{"高强度合金钢", "优质碳素结构钢", "渗碳齿轮钢", "弹簧钢", "低合金高强度结构钢", "碳素工具钢", "硼钢", "耐热钢"}},
	{Facet: FacetGrade, Label: "标准牌号", Options: []string{"45#", "40Cr", "65Mn", "20CrMnTi", "Q345B", "Q235B", "35CrMo", "GCr15", "T10A", "20MnTiB"}},
	{Facet: FacetShape, Label: "产品形态", Options: []string{"棒材", "板材", "管材", "型材", "锻件", "铸件"}},
	{Facet: FacetSupplyCondition, Label: "供货状态", Options: []string{"热轧", "冷轧", "退火", "正火", "淬火+回火"}},
}

var aluminumFacets = []FacetConfig{
	{Facet: FacetName, Label: "材料名称", Options: []string{"超硬铝合金", "防锈铝合金", "通用结构铝合金", "船用级防锈铝", "压铸铝合金", "铸造铝合金", "硬铝合金", "耐磨铝合金", "超硬铝"}},
	{Facet: FacetGrade, Label: "标准牌号", Options: []string{"7075", "5052", "6061", "5083", "ADC12", "A356", "2A12", "4032", "5A06", "7050"}},
	{Facet: FacetShape, Label: "产品形态", Options: []string{"棒材", "板材", "管材", "型材", "锻件", "铸件"}},
	{Facet: FacetSupplyCondition, Label: "供货状态", Options: []string{"热轧", "冷轧", "退火", "正火", "淬火+回火", "铸造"}},
}

var coatingFacets = []FacetConfig{
	{Facet: FacetName, Label: "材料名称", Options: []string{"耐磨陶瓷涂层", "硬质合金涂层", "自熔性合金涂层", "纳米复合涂层", "电镀硬铬", "聚四氟乙烯涂层", "钴基合金涂层", "铝焊丝"}},
	{Facet: FacetMaterialSystem, Label: "材料体系", Options: []string{"铁基", "镍基", "钴基", "陶瓷", "金属陶瓷", "有机复合", "金属"}},
	{Facet: FacetProcess, Label: "制备工艺", Options: []string{"HVOF", "等离子喷涂", "静电喷涂", "电镀", "PVD", "喷涂固化", "电弧喷涂"}},
	{Facet: FacetShape, Label: "材料形态", Options: []string{"焊丝", "粉末", "其他"}},
}

// FacetsFor returns the filter configuration of a category, or nil for an
// unknown category.
func FacetsFor(c Category) []FacetConfig {
	var src []FacetConfig
	switch c {
	case CategorySteel:
		src = steelFacets
	case CategoryAluminum:
		src = aluminumFacets
	case CategoryCoating:
		src = coatingFacets
	default:
		return nil
	}
	out := make([]FacetConfig, len(src))
	for i, f := range src {
		out[i] = FacetConfig{Facet: f.Facet, Label: f.Label, Options: append([]string(nil), f.Options...)}
	}
	return out
}

// ListColumn is a sortable column of the material list.
type ListColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ColumnsFor returns the list columns shown for a category.
func ColumnsFor(c Category) []ListColumn {
	if c == CategoryCoating {
		return []ListColumn{
			{Key: "name", Label: "名称"},
			{Key: "materialSystem", Label: "体系"},
			{Key: "process", Label: "工艺"},
			{Key: "shape", Label: "形态"},
			{Key: "description", Label: "描述"},
		}
	}
	return []ListColumn{
		{Key: "name", Label: "名称"},
		{Key: "grade", Label: "牌号"},
		{Key: "shape", Label: "形态"},
		{Key: "supplyCondition", Label: "状态"},
		{Key: "standard", Label: "标准"},
	}
}

// SortValue returns the scalar field used when sorting by column key.
// Unknown keys sort as empty strings.
func (m *Material) SortValue(key string) string {
	switch key {
	case "id":
		return m.ID
	case "standard":
		return m.Standard
	case "description":
		return m.Description
	case "category":
		return string(m.Category)
	}
	return m.FacetValue(Facet(key))
}
