// Package comparison builds side-by-side comparisons of catalog materials:
// the per-group key union, the row-oriented comparison table, and the
// selection-local 0-100 scores behind the radar chart.
package comparison

import "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"

// ResolveKeys returns the union of the keys of group across materials,
// each key at the position of its first occurrence. Materials without the
// group are skipped. The result is empty, never nil.
func ResolveKeys(materials []*catalog.Material, group catalog.GroupName) []string {
	keys := make([]string, 0)
	seen := make(map[string]struct{})
	for _, m := range materials {
		if m == nil {
			continue
		}
		for _, a := range m.Group(group) {
			if _, ok := seen[a.Key]; ok {
				continue
			}
			seen[a.Key] = struct{}{}
			keys = append(keys, a.Key)
		}
	}
	return keys
}
