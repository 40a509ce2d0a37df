package catalog

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ds := domain.Dataset{
		Materials: []*domain.Material{
			{ID: "S-1", Name: "合金钢", Category: domain.CategorySteel, Grade: "40Cr", Shape: "棒材",
				Chemical:   domain.NewAttributeGroup("Fe", "Bal.", "C", "0.40", "Cr", "1.0"),
				Mechanical: domain.NewAttributeGroup("屈服强度", "785 MPa")},
			{ID: "S-2", Name: "碳素钢", Category: domain.CategorySteel, Grade: "45#", Shape: "板材"},
			{ID: "S-3", Name: "弹簧钢", Category: domain.CategorySteel, Grade: "65Mn", Shape: "棒材"},
			{ID: "A-1", Name: "铝合金", Category: domain.CategoryAluminum, Grade: "6061", Description: "通用结构"},
		},
		Equipment: []*domain.Equipment{
			{ID: "EQ-1", Name: "旋耕机", Category: "农用动力机械", Type: "拖拉机", Model: "1GQN-200",
				Parts: []domain.Part{
					{ID: "P-1", Name: "旋耕刀", Category: "刀具", MaterialID: "S-3", MaterialName: "弹簧钢"},
					{ID: "P-2", Name: "机架", MaterialID: "X-404", MaterialName: "未知"},
				}},
		},
		Experiments: []*domain.Experiment{
			{ID: "E-1", Title: "拉伸试验", Type: domain.ExperimentMechanical, Status: domain.StatusCompleted},
			{ID: "E-2", Title: "盐雾试验", Type: domain.ExperimentEnvironment, Status: domain.StatusPending},
		},
		Simulations: []*domain.SimulationModel{{ID: "SIM-1", Title: "碰撞"}},
		CaseStudies: []*domain.CaseStudy{
			{ID: "C-1", Title: "案例一", Tags: []string{"耐磨"}},
			{ID: "C-2", Title: "案例二", Tags: []string{"轻量化"}},
		},
	}
	store, err := domain.NewStore(ds)
	require.NoError(t, err)
	return NewService(store, 2, nil)
}

func ids(ms []*domain.Material) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestSearchMaterials_Paging(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.SearchMaterials(context.Background(), SearchRequest{Category: domain.CategorySteel})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []string{"S-1", "S-2"}, ids(page.Items))

	page, err = svc.SearchMaterials(context.Background(), SearchRequest{
		Category: domain.CategorySteel,
		Page:     common.PageRequest{Page: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S-3"}, ids(page.Items))
}

func TestSearchMaterials_SortIsStable(t *testing.T) {
	svc := newTestService(t)

	asc, err := svc.SearchMaterials(context.Background(), SearchRequest{
		Category: domain.CategorySteel, SortBy: "shape", Order: common.SortAsc,
		Page: common.PageRequest{PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S-2", "S-1", "S-3"}, ids(asc.Items))

	desc, err := svc.SearchMaterials(context.Background(), SearchRequest{
		Category: domain.CategorySteel, SortBy: "shape", Order: common.SortDesc,
		Page: common.PageRequest{PageSize: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S-1", "S-3", "S-2"}, ids(desc.Items))
}

func TestSearchMaterials_FiltersAndQuery(t *testing.T) {
	svc := newTestService(t)

	page, err := svc.SearchMaterials(context.Background(), SearchRequest{
		Filters: map[domain.Facet][]string{domain.FacetShape: {"棒材"}, domain.FacetGrade: {"65", "40"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S-1", "S-3"}, ids(page.Items))

	page, err = svc.SearchMaterials(context.Background(), SearchRequest{Query: "通用"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1"}, ids(page.Items))
}

func TestSearchMaterials_RejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	tests := map[string]SearchRequest{
		"category": {Category: "塑料"},
		"sort":     {SortBy: "price"},
		"facet":    {Filters: map[domain.Facet][]string{"color": {"red"}}},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SearchMaterials(context.Background(), req)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestParseFilters(t *testing.T) {
	q := url.Values{
		"f.grade": {"40Cr, 45#", "65Mn"},
		"f.shape": {"全部"},
		"q":       {"钢"},
	}
	got := ParseFilters(q)
	assert.Equal(t, []string{"40Cr", "45#", "65Mn"}, got[domain.FacetGrade])
	_, ok := got[domain.FacetShape]
	assert.False(t, ok)
	assert.Len(t, got, 1)
}

func TestFacets(t *testing.T) {
	svc := newTestService(t)
	fs, cols, err := svc.Facets(domain.CategoryCoating)
	require.NoError(t, err)
	require.Len(t, fs, 4)
	assert.Equal(t, domain.FacetMaterialSystem, fs[1].Facet)
	assert.Equal(t, "materialSystem", cols[1].Key)

	_, _, err = svc.Facets("")
	assert.True(t, errors.IsValidation(err))
}

func TestMaterialDetail(t *testing.T) {
	svc := newTestService(t)
	d, err := svc.Material(context.Background(), "S-1")
	require.NoError(t, err)
	require.NotEmpty(t, d.Sections)
	assert.Equal(t, []string{"C", "Cr", "Fe"}, d.Sections[0].Attributes.Keys())
	assert.Empty(t, d.UsedIn)

	d, err = svc.Material(context.Background(), "S-3")
	require.NoError(t, err)
	assert.Equal(t, []PartRef{{PartID: "P-1", PartName: "旋耕刀", EquipmentID: "EQ-1", EquipmentName: "旋耕机"}}, d.UsedIn)

	_, err = svc.Material(context.Background(), "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestEquipmentAndParts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.Len(t, svc.EquipmentCategories(), 3)
	assert.Len(t, svc.ListEquipment(ctx, "农用动力机械", "全部", "1gqn"), 1)
	assert.Empty(t, svc.ListEquipment(ctx, "农用搬运机械", "", ""))

	d, err := svc.Equipment(ctx, "EQ-1")
	require.NoError(t, err)
	require.Len(t, d.Parts, 2)
	assert.Equal(t, "S-3", d.Parts[0].Material.ID)
	assert.Nil(t, d.Parts[1].Material)
	assert.Equal(t, domain.DefaultPartCategory, d.Parts[1].Category)

	rows := svc.ListParts(ctx, "刀具", "")
	require.Len(t, rows, 1)
	assert.Equal(t, "旋耕机", rows[0].EquipmentName)
	assert.Equal(t, []string{"刀具", domain.DefaultPartCategory}, svc.PartCategories())

	_, err = svc.Equipment(ctx, "EQ-404")
	assert.True(t, errors.IsNotFound(err))
}

func TestExperimentsSimulationsCases(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	list := svc.ListExperiments(ctx, domain.ExperimentEnvironment, "")
	require.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.Counts["Total"])
	assert.Equal(t, 1, list.Counts["Pending"])
	assert.Equal(t, 0, list.Counts["Processing"])

	_, err := svc.Experiment(ctx, "E-9")
	assert.True(t, errors.IsNotFound(err))

	assert.Len(t, svc.ListSimulations(ctx), 1)
	_, err = svc.Simulation(ctx, "SIM-1")
	assert.NoError(t, err)

	assert.Len(t, svc.ListCaseStudies(ctx, "耐磨"), 1)
	assert.Len(t, svc.ListCaseStudies(ctx, ""), 2)
	_, err = svc.CaseStudy(ctx, "C-3")
	assert.True(t, errors.IsNotFound(err))

	assert.Equal(t, 4, svc.Stats()["materials"])
}
