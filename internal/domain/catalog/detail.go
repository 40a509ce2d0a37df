package catalog

var propertyOrder = map[Category]map[GroupName][]string{
	CategorySteel: {
		GroupChemical:   {"C", "Si", "Mn", "P", "S", "Cr", "Ni", "Mo", "V", "Cu", "Fe"},
		GroupMechanical: {"弹性模量", "屈服强度", "抗拉强度", "断后伸长率", "断面收缩率", "冲击功", "硬度"},
	},
	CategoryAluminum: {
		GroupChemical:   {"Si", "Fe", "Cu", "Mg", "Mn", "Cr", "Zn", "Ti", "Al"},
		GroupMechanical: {"弹性模量", "屈服强度", "抗拉强度", "断口伸长率", "硬度", "疲劳强度"},
	},
}

// DetailSection is one titled block of a material data sheet.
type DetailSection struct {
	Group      GroupName      `json:"group"`
	Title      string         `json:"title"`
	Attributes AttributeGroup `json:"attributes"`
}

// OrderedGroup returns group name of m with the family's preferred keys first
// and the remaining keys in stored order. Empty values are dropped.
func OrderedGroup(m *Material, name GroupName) AttributeGroup {
	src := m.Group(name)
	if len(src) == 0 {
		return nil
	}
	preferred := propertyOrder[m.Category][name]
	out := make(AttributeGroup, 0, len(src))
	used := make(map[string]struct{}, len(preferred))
	for _, k := range preferred {
		if v, ok := src.Get(k); ok && v != "" {
			out = append(out, Attribute{Key: k, Value: v})
			used[k] = struct{}{}
		}
	}
	for _, a := range src {
		if _, ok := used[a.Key]; ok || a.Value == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// DetailSections returns the non-empty attribute sections of m in canonical group order.
func DetailSections(m *Material) []DetailSection {
	out := make([]DetailSection, 0, len(AllGroups))
	for _, g := range AllGroups {
		attrs := OrderedGroup(m, g)
		if len(attrs) == 0 {
			continue
		}
		out = append(out, DetailSection{Group: g, Title: g.Title(), Attributes: attrs})
	}
	return out
}
