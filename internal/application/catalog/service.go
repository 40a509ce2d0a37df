// Package catalog is the read side of the platform: material browsing with
// facets, sorting and paging, the equipment tree, parts, experiments,
// simulations and case studies.
package catalog

import (
	"context"
	"net/url"
	"sort"
	"strings"

	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// FilterParamPrefix marks facet filters in query strings: f.grade=40Cr.
const FilterParamPrefix = "f."

var sortable = map[string]struct{}{
	"id": {}, "name": {}, "grade": {}, "shape": {}, "supplyCondition": {},
	"materialSystem": {}, "process": {}, "standard": {}, "description": {}, "category": {},
}

var facets = map[domain.Facet]struct{}{
	domain.FacetName: {}, domain.FacetGrade: {}, domain.FacetShape: {},
	domain.FacetSupplyCondition: {}, domain.FacetMaterialSystem: {}, domain.FacetProcess: {},
}

// SearchRequest is a material browser query.
type SearchRequest struct {
	Category domain.Category
	Query    string
	Filters  map[domain.Facet][]string
	SortBy   string
	Order    common.SortOrder
	Page     common.PageRequest
}

// PartRef names a part that uses a material.
type PartRef struct {
	PartID        string `json:"partId"`
	PartName      string `json:"partName"`
	EquipmentID   string `json:"equipmentId"`
	EquipmentName string `json:"equipmentName"`
}

// MaterialDetail is the data sheet of one material.
type MaterialDetail struct {
	Material *domain.Material       `json:"material"`
	Sections []domain.DetailSection `json:"sections"`
	UsedIn   []PartRef              `json:"usedIn"`
}

// PartRow is one line of the flattened parts list.
type PartRow struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	MaterialID    string           `json:"materialId"`
	MaterialName  string           `json:"materialName"`
	EquipmentID   string           `json:"equipmentId"`
	EquipmentName string           `json:"equipmentName"`
	Material      *domain.Material `json:"materialDetail,omitempty"`
}

// EquipmentDetail is an equipment model with its parts' materials resolved.
type EquipmentDetail struct {
	Equipment *domain.Equipment `json:"equipment"`
	Parts     []PartRow         `json:"parts"`
}

// ExperimentList is a filtered experiment list plus catalog-wide status counts.
type ExperimentList struct {
	Items  []*domain.Experiment `json:"items"`
	Counts map[string]int       `json:"counts"`
}

// Service serves catalog reads.
type Service struct {
	store           *domain.Store
	defaultPageSize int
	logger          logging.Logger
}

// NewService wraps store. defaultPageSize <= 0 selects common.DefaultPageSize.
func NewService(store *domain.Store, defaultPageSize int, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if defaultPageSize <= 0 {
		defaultPageSize = common.DefaultPageSize
	}
	return &Service{store: store, defaultPageSize: defaultPageSize, logger: logger}
}

// Store exposes the underlying record store.
func (s *Service) Store() *domain.Store { return s.store }

// ─────────────────────────────────────────────────────────────────────────────
// Materials
// ─────────────────────────────────────────────────────────────────────────────

// SearchMaterials filters, sorts and pages the material catalog. Sorting is
// stable, so equal keys keep catalog order in both directions.
func (s *Service) SearchMaterials(ctx context.Context, req SearchRequest) (*common.PageResult[*domain.Material], error) {
	if req.Category != "" && !req.Category.Valid() {
		return nil, errors.InvalidParam("unknown category").WithDetail(string(req.Category))
	}
	for f := range req.Filters {
		if _, ok := facets[f]; !ok {
			return nil, errors.InvalidParam("unknown filter").WithDetail(string(f))
		}
	}
	if req.SortBy != "" {
		if _, ok := sortable[req.SortBy]; !ok {
			return nil, errors.InvalidParam("unknown sort column").WithDetail(req.SortBy)
		}
	}

	items := s.store.Search(domain.MaterialQuery{
		Category: req.Category,
		Query:    req.Query,
		Filters:  req.Filters,
	})
	if req.SortBy != "" {
		SortMaterials(items, req.SortBy, req.Order)
	}

	page := common.Paginate(items, req.Page.Normalize(s.defaultPageSize))
	s.logger.Debug("material search",
		logging.String("category", string(req.Category)),
		logging.String("query", req.Query),
		logging.Int("total", page.Total))
	return &page, nil
}

// SortMaterials sorts items in place by column key.
func SortMaterials(items []*domain.Material, key string, order common.SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].SortValue(key), items[j].SortValue(key)
		if order == common.SortDesc {
			return a > b
		}
		return a < b
	})
}

// Facets returns the filter configuration and list columns of category.
func (s *Service) Facets(category domain.Category) ([]domain.FacetConfig, []domain.ListColumn, error) {
	if !category.Valid() {
		return nil, nil, errors.InvalidParam("unknown category").WithDetail(string(category))
	}
	return domain.FacetsFor(category), domain.ColumnsFor(category), nil
}

// Material returns the data sheet of id.
func (s *Service) Material(ctx context.Context, id string) (*MaterialDetail, error) {
	m, err := s.store.GetMaterial(id)
	if err != nil {
		return nil, err
	}
	used := s.store.PartsUsingMaterial(id)
	refs := make([]PartRef, 0, len(used))
	for _, pv := range used {
		refs = append(refs, PartRef{
			PartID:        pv.ID,
			PartName:      pv.Name,
			EquipmentID:   pv.Equipment.ID,
			EquipmentName: pv.Equipment.Name,
		})
	}
	return &MaterialDetail{Material: m, Sections: domain.DetailSections(m), UsedIn: refs}, nil
}

// ParseFilters collects f.<facet> query parameters. Comma separated values
// and repeated parameters are both accepted; blanks are dropped.
func ParseFilters(values url.Values) map[domain.Facet][]string {
	out := make(map[domain.Facet][]string)
	for key, vs := range values {
		if !strings.HasPrefix(key, FilterParamPrefix) {
			continue
		}
		facet := domain.Facet(strings.TrimPrefix(key, FilterParamPrefix))
		for _, v := range vs {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" && part != domain.AllOption {
					out[facet] = append(out[facet], part)
				}
			}
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Equipment and parts
// ─────────────────────────────────────────────────────────────────────────────

func (s *Service) EquipmentCategories() []domain.EquipmentClass {
	return domain.CategoryHierarchy()
}

func (s *Service) ListEquipment(ctx context.Context, major, sub, query string) []*domain.Equipment {
	return s.store.ListEquipment(major, sub, query)
}

// Equipment returns id with every part's material resolved.
func (s *Service) Equipment(ctx context.Context, id string) (*EquipmentDetail, error) {
	e, err := s.store.GetEquipment(id)
	if err != nil {
		return nil, err
	}
	rows := make([]PartRow, 0, len(e.Parts))
	for _, p := range e.Parts {
		m, _ := s.store.GetMaterial(p.MaterialID)
		rows = append(rows, partRow(domain.PartView{Part: p, Category: p.EffectiveCategory(), Equipment: e, Material: m}))
	}
	return &EquipmentDetail{Equipment: e, Parts: rows}, nil
}

// ListParts flattens the parts of every equipment model.
func (s *Service) ListParts(ctx context.Context, category, query string) []PartRow {
	views := s.store.ListParts(category, query)
	rows := make([]PartRow, 0, len(views))
	for _, pv := range views {
		rows = append(rows, partRow(pv))
	}
	return rows
}

func (s *Service) PartCategories() []string {
	return s.store.PartCategories()
}

func partRow(pv domain.PartView) PartRow {
	return PartRow{
		ID:            pv.ID,
		Name:          pv.Name,
		Category:      pv.Category,
		MaterialID:    pv.MaterialID,
		MaterialName:  pv.MaterialName,
		EquipmentID:   pv.Equipment.ID,
		EquipmentName: pv.Equipment.Name,
		Material:      pv.Material,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Experiments, simulations, case studies
// ─────────────────────────────────────────────────────────────────────────────

// ListExperiments filters experiments. Counts always cover the whole catalog.
func (s *Service) ListExperiments(ctx context.Context, typ domain.ExperimentType, query string) *ExperimentList {
	return &ExperimentList{
		Items:  s.store.ListExperiments(typ, query),
		Counts: s.store.ExperimentStatusCounts(),
	}
}

func (s *Service) Experiment(ctx context.Context, id string) (*domain.Experiment, error) {
	return s.store.GetExperiment(id)
}

func (s *Service) ListSimulations(ctx context.Context) []*domain.SimulationModel {
	return s.store.ListSimulations()
}

func (s *Service) Simulation(ctx context.Context, id string) (*domain.SimulationModel, error) {
	return s.store.GetSimulation(id)
}

func (s *Service) ListCaseStudies(ctx context.Context, tag string) []*domain.CaseStudy {
	return s.store.ListCaseStudies(tag)
}

func (s *Service) CaseStudy(ctx context.Context, id string) (*domain.CaseStudy, error) {
	return s.store.GetCaseStudy(id)
}

// Stats reports record counts per kind.
func (s *Service) Stats() map[string]int {
	return s.store.Stats()
}
