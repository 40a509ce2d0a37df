package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
)

func TestResolveKeys_FirstSeenOrder(t *testing.T) {
	ms := materialsFixture()
	assert.Equal(t, []string{"Al", "Zn", "C", "B"}, ResolveKeys(ms, catalog.GroupChemical))
	assert.Equal(t, []string{"屈服强度", "抗拉强度", "冲击功"}, ResolveKeys(ms, catalog.GroupMechanical))
}

func TestResolveKeys_Deterministic(t *testing.T) {
	ms := materialsFixture()
	assert.Equal(t, ResolveKeys(ms, catalog.GroupChemical), ResolveKeys(ms, catalog.GroupChemical))
}

func TestResolveKeys_ReorderKeepsSet(t *testing.T) {
	ms := materialsFixture()
	forward := ResolveKeys(ms, catalog.GroupChemical)
	reversed := ResolveKeys([]*catalog.Material{ms[1], ms[0]}, catalog.GroupChemical)
	assert.Equal(t, []string{"C", "Zn", "B", "Al"}, reversed)
	assert.ElementsMatch(t, forward, reversed)
}

func TestResolveKeys_AbsentGroup(t *testing.T) {
	got := ResolveKeys(materialsFixture(), catalog.GroupThermal)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, ResolveKeys(nil, catalog.GroupChemical))
}
