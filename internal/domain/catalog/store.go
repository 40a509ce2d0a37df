package catalog

import (
	"fmt"
	"strings"

	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// Dataset is the raw content of a catalog seed file.
type Dataset struct {
	Materials   []*Material        `yaml:"materials"`
	Equipment   []*Equipment       `yaml:"equipment"`
	Experiments []*Experiment      `yaml:"experiments"`
	Simulations []*SimulationModel `yaml:"simulations"`
	CaseStudies []*CaseStudy       `yaml:"case_studies"`

	// Version identifies the seed content. Loaders set it; it is not read
	// from the document.
	Version string `yaml:"-"`
}

// Store is the immutable in-memory record store. It is built once at startup
// and only read afterwards, so it is safe for concurrent use. Returned records
// are shared and must be treated as read-only.
type Store struct {
	materials   []*Material
	materialIdx map[string]*Material
	equipment   []*Equipment
	equipIdx    map[string]*Equipment
	experiments []*Experiment
	expIdx      map[string]*Experiment
	simulations []*SimulationModel
	simIdx      map[string]*SimulationModel
	cases       []*CaseStudy
	caseIdx     map[string]*CaseStudy
	version     string
}

// NewStore validates ds and indexes it. Malformed data is a load-time error.
func NewStore(ds Dataset) (*Store, error) {
	s := &Store{
		materialIdx: make(map[string]*Material, len(ds.Materials)),
		equipIdx:    make(map[string]*Equipment, len(ds.Equipment)),
		expIdx:      make(map[string]*Experiment, len(ds.Experiments)),
		simIdx:      make(map[string]*SimulationModel, len(ds.Simulations)),
		caseIdx:     make(map[string]*CaseStudy, len(ds.CaseStudies)),
		version:     ds.Version,
	}

	for i, m := range ds.Materials {
		if m == nil || m.ID == "" {
			return nil, invalid("materials[%d]: id is required", i)
		}
		if _, dup := s.materialIdx[m.ID]; dup {
			return nil, invalid("materials[%d]: duplicate id %q", i, m.ID)
		}
		if !m.Category.Valid() {
			return nil, invalid("material %s: unknown category %q", m.ID, m.Category)
		}
		if m.Name == "" {
			return nil, invalid("material %s: name is required", m.ID)
		}
		s.materialIdx[m.ID] = m
		s.materials = append(s.materials, m)
	}

	for i, e := range ds.Equipment {
		if e == nil || e.ID == "" {
			return nil, invalid("equipment[%d]: id is required", i)
		}
		if _, dup := s.equipIdx[e.ID]; dup {
			return nil, invalid("equipment[%d]: duplicate id %q", i, e.ID)
		}
		for j, p := range e.Parts {
			if p.ID == "" {
				return nil, invalid("equipment %s: parts[%d]: id is required", e.ID, j)
			}
		}
		s.equipIdx[e.ID] = e
		s.equipment = append(s.equipment, e)
	}

	for i, x := range ds.Experiments {
		if x == nil || x.ID == "" {
			return nil, invalid("experiments[%d]: id is required", i)
		}
		if _, dup := s.expIdx[x.ID]; dup {
			return nil, invalid("experiments[%d]: duplicate id %q", i, x.ID)
		}
		if !x.Status.Valid() {
			return nil, invalid("experiment %s: unknown status %q", x.ID, x.Status)
		}
		s.expIdx[x.ID] = x
		s.experiments = append(s.experiments, x)
	}

	for i, sm := range ds.Simulations {
		if sm == nil || sm.ID == "" {
			return nil, invalid("simulations[%d]: id is required", i)
		}
		if _, dup := s.simIdx[sm.ID]; dup {
			return nil, invalid("simulations[%d]: duplicate id %q", i, sm.ID)
		}
		s.simIdx[sm.ID] = sm
		s.simulations = append(s.simulations, sm)
	}

	for i, c := range ds.CaseStudies {
		if c == nil || c.ID == "" {
			return nil, invalid("case_studies[%d]: id is required", i)
		}
		if _, dup := s.caseIdx[c.ID]; dup {
			return nil, invalid("case_studies[%d]: duplicate id %q", i, c.ID)
		}
		s.caseIdx[c.ID] = c
		s.cases = append(s.cases, c)
	}

	return s, nil
}

func invalid(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeCatalogInvalid, fmt.Sprintf("catalog: "+format, args...))
}

// ─────────────────────────────────────────────────────────────────────────────
// Materials
// ─────────────────────────────────────────────────────────────────────────────

// Materials returns every material in catalog order.
func (s *Store) Materials() []*Material {
	return append([]*Material(nil), s.materials...)
}

// ListByCategory returns the materials of category c in catalog order.
// An empty category returns every material.
func (s *Store) ListByCategory(c Category) []*Material {
	if c == "" {
		return s.Materials()
	}
	out := make([]*Material, 0)
	for _, m := range s.materials {
		if m.Category == c {
			out = append(out, m)
		}
	}
	return out
}

// GetMaterial looks a material up by id.
func (s *Store) GetMaterial(id string) (*Material, error) {
	m, ok := s.materialIdx[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeMaterialNotFound, "material not found").WithDetail("id=" + id)
	}
	return m, nil
}

// GetMaterials resolves ids in order. The first unknown id fails the call.
func (s *Store) GetMaterials(ids []string) ([]*Material, error) {
	out := make([]*Material, 0, len(ids))
	for _, id := range ids {
		m, err := s.GetMaterial(id)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MaterialQuery selects materials. Filters map a facet to accepted values:
// a record matches a facet when its field contains any of the values, and
// must match every facet that has values. Query is a case-insensitive
// substring match against name, grade and description.
type MaterialQuery struct {
	Category Category
	Query    string
	Filters  map[Facet][]string
}

// Search scans the catalog linearly and returns matches in catalog order.
func (s *Store) Search(q MaterialQuery) []*Material {
	needle := strings.ToLower(strings.TrimSpace(q.Query))
	out := make([]*Material, 0)
	for _, m := range s.materials {
		if q.Category != "" && m.Category != q.Category {
			continue
		}
		if !matchFacets(m, q.Filters) {
			continue
		}
		if needle != "" && !matchQuery(m, needle) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchFacets(m *Material, filters map[Facet][]string) bool {
	for facet, accepted := range filters {
		if len(accepted) == 0 {
			continue
		}
		val := m.FacetValue(facet)
		if val == "" {
			return false
		}
		hit := false
		for _, opt := range accepted {
			if strings.Contains(val, opt) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func matchQuery(m *Material, needle string) bool {
	return strings.Contains(strings.ToLower(m.Name), needle) ||
		strings.Contains(strings.ToLower(m.Grade), needle) ||
		strings.Contains(strings.ToLower(m.Description), needle)
}

// ─────────────────────────────────────────────────────────────────────────────
// Equipment and parts
// ─────────────────────────────────────────────────────────────────────────────

// ListEquipment filters by major category and sub type; empty or "全部" means any.
// query, when set, matches name or model case-insensitively.
func (s *Store) ListEquipment(major, sub, query string) []*Equipment {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]*Equipment, 0)
	for _, e := range s.equipment {
		if !isAll(major) && e.Category != major {
			continue
		}
		if !isAll(sub) && e.Type != sub {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Name), needle) &&
			!strings.Contains(strings.ToLower(e.Model), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GetEquipment looks an equipment model up by id.
func (s *Store) GetEquipment(id string) (*Equipment, error) {
	e, ok := s.equipIdx[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeEquipmentNotFound, "equipment not found").WithDetail("id=" + id)
	}
	return e, nil
}

// PartView is a part joined with the equipment it belongs to and its material.
// Material is nil when the part references an unknown material id.
type PartView struct {
	Part
	Category  string     `json:"category"`
	Equipment *Equipment `json:"equipment"`
	Material  *Material  `json:"materialDetail,omitempty"`
}

// ListParts flattens every equipment's parts in catalog order. category
// filters on the effective part category; empty or "全部" means any. query
// matches part name, equipment name or material name case-insensitively.
func (s *Store) ListParts(category, query string) []PartView {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]PartView, 0)
	for _, e := range s.equipment {
		for _, p := range e.Parts {
			pv := PartView{
				Part:      p,
				Category:  p.EffectiveCategory(),
				Equipment: e,
				Material:  s.materialIdx[p.MaterialID],
			}
			if !isAll(category) && pv.Category != category {
				continue
			}
			if needle != "" &&
				!strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(e.Name), needle) &&
				!strings.Contains(strings.ToLower(p.MaterialName), needle) {
				continue
			}
			out = append(out, pv)
		}
	}
	return out
}

// PartCategories returns the distinct effective part categories in first-seen order.
func (s *Store) PartCategories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, pv := range s.ListParts("", "") {
		if _, ok := seen[pv.Category]; ok {
			continue
		}
		seen[pv.Category] = struct{}{}
		out = append(out, pv.Category)
	}
	return out
}

// PartsUsingMaterial returns the parts made of material id.
func (s *Store) PartsUsingMaterial(id string) []PartView {
	out := make([]PartView, 0)
	for _, pv := range s.ListParts("", "") {
		if pv.MaterialID == id {
			out = append(out, pv)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Experiments, simulations, case studies
// ─────────────────────────────────────────────────────────────────────────────

// ListExperiments filters by type (empty or "全部" means any) and by a
// case-insensitive query over title, test code and material name.
func (s *Store) ListExperiments(typ ExperimentType, query string) []*Experiment {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]*Experiment, 0)
	for _, x := range s.experiments {
		if !isAll(string(typ)) && x.Type != typ {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(x.Title), needle) &&
			!strings.Contains(strings.ToLower(x.TestCode), needle) &&
			!strings.Contains(strings.ToLower(x.MaterialName), needle) {
			continue
		}
		out = append(out, x)
	}
	return out
}

// ExperimentStatusCounts counts every experiment by status, plus a "Total" entry.
func (s *Store) ExperimentStatusCounts() map[string]int {
	counts := map[string]int{
		"Total":                  len(s.experiments),
		string(StatusCompleted):  0,
		string(StatusProcessing): 0,
		string(StatusPending):    0,
	}
	for _, x := range s.experiments {
		counts[string(x.Status)]++
	}
	return counts
}

// GetExperiment looks an experiment up by id.
func (s *Store) GetExperiment(id string) (*Experiment, error) {
	x, ok := s.expIdx[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeExperimentNotFound, "experiment not found").WithDetail("id=" + id)
	}
	return x, nil
}

// ListSimulations returns every simulation case in catalog order.
func (s *Store) ListSimulations() []*SimulationModel {
	return append([]*SimulationModel(nil), s.simulations...)
}

// GetSimulation looks a simulation case up by id.
func (s *Store) GetSimulation(id string) (*SimulationModel, error) {
	sm, ok := s.simIdx[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSimulationNotFound, "simulation not found").WithDetail("id=" + id)
	}
	return sm, nil
}

// ListCaseStudies returns case studies carrying tag, or all of them when tag is empty.
func (s *Store) ListCaseStudies(tag string) []*CaseStudy {
	out := make([]*CaseStudy, 0)
	for _, c := range s.cases {
		if tag != "" && !containsString(c.Tags, tag) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// GetCaseStudy looks a case study up by id.
func (s *Store) GetCaseStudy(id string) (*CaseStudy, error) {
	c, ok := s.caseIdx[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeCaseStudyNotFound, "case study not found").WithDetail("id=" + id)
	}
	return c, nil
}

// Version returns the seed version the store was built from, or "" when the
// dataset carried none.
func (s *Store) Version() string { return s.version }

// Stats reports record counts per kind.
func (s *Store) Stats() map[string]int {
	return map[string]int{
		"materials":   len(s.materials),
		"equipment":   len(s.equipment),
		"experiments": len(s.experiments),
		"simulations": len(s.simulations),
		"caseStudies": len(s.cases),
	}
}

// AllOption is the UI "select everything" value accepted by list filters.
const AllOption = "全部"

func isAll(v string) bool {
	return v == "" || v == AllOption
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
