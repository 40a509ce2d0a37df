package catalog

// DefaultPartCategory is used for parts that carry no category of their own.
const DefaultPartCategory = "其他"

// Part is a component of an equipment model, made of one catalog material.
type Part struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Category     string `json:"category,omitempty" yaml:"category"`
	MaterialID   string `json:"materialId" yaml:"material_id"`
	MaterialName string `json:"materialName" yaml:"material_name"`
}

// EffectiveCategory returns Category, or DefaultPartCategory when empty.
func (p Part) EffectiveCategory() string {
	if p.Category == "" {
		return DefaultPartCategory
	}
	return p.Category
}

// Equipment is a machine model. Category is the major class, Type the sub class.
type Equipment struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Type        string `json:"type" yaml:"type"`
	Model       string `json:"model" yaml:"model"`
	Description string `json:"description" yaml:"description"`
	ImageURL    string `json:"imageUrl" yaml:"image_url"`
	Parts       []Part `json:"parts" yaml:"parts"`
}

// EquipmentClass is one major equipment category with its sub categories.
type EquipmentClass struct {
	Major string   `json:"major"`
	Subs  []string `json:"subs"`
}

var categoryHierarchy = []EquipmentClass{
	{Major: "农用动力机械", Subs: []string{"拖拉机", "农用内燃机", "其他农用动力机械"}},
	{Major: "农用搬运机械", Subs: []string{"农用运输机械", "农用装卸机械", "其他农用搬运机械"}},
	{Major: "农用基本建设机械", Subs: []string{"挖掘机械", "平地机械", "清理机械", "其他农田基本建设机械"}},
}

// CategoryHierarchy returns a copy of the fixed major → sub category tree.
func CategoryHierarchy() []EquipmentClass {
	out := make([]EquipmentClass, len(categoryHierarchy))
	for i, c := range categoryHierarchy {
		out[i] = EquipmentClass{Major: c.Major, Subs: append([]string(nil), c.Subs...)}
	}
	return out
}
