package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedGroup_SteelChemical(t *testing.T) {
	m := &Material{
		Category: CategorySteel,
		Chemical: NewAttributeGroup("B", "0.002", "Mn", "1.2", "C", "0.25", "Si", "", "Fe", "Bal."),
	}
	got := OrderedGroup(m, GroupChemical)
	assert.Equal(t, []string{"C", "Mn", "Fe", "B"}, got.Keys())
}

func TestOrderedGroup_AluminumMechanical(t *testing.T) {
	m := &Material{
		Category:   CategoryAluminum,
		Mechanical: NewAttributeGroup("疲劳强度", "200", "抗拉强度", "680", "屈服强度", "636"),
	}
	assert.Equal(t, []string{"屈服强度", "抗拉强度", "疲劳强度"}, OrderedGroup(m, GroupMechanical).Keys())
}

func TestOrderedGroup_CoatingKeepsStoredOrder(t *testing.T) {
	m := &Material{
		Category:   CategoryCoating,
		Mechanical: NewAttributeGroup("硬度(HRC)", "58", "厚度(μm)", "300"),
	}
	assert.Equal(t, []string{"硬度(HRC)", "厚度(μm)"}, OrderedGroup(m, GroupMechanical).Keys())
	assert.Nil(t, OrderedGroup(m, GroupThermal))
}

func TestDetailSections(t *testing.T) {
	m := &Material{
		Category:       CategorySteel,
		Mechanical:     NewAttributeGroup("屈服强度", "785"),
		Chemical:       NewAttributeGroup("C", "0.4"),
		Characteristic: NewAttributeGroup("焊接性", ""),
	}
	sections := DetailSections(m)
	require.Len(t, sections, 2)
	assert.Equal(t, GroupChemical, sections[0].Group)
	assert.Equal(t, "化学成分", sections[0].Title)
	assert.Equal(t, GroupMechanical, sections[1].Group)
}
