package comparison

import (
	"fmt"

	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// DefaultMaxSelection is the largest number of materials compared at once.
const DefaultMaxSelection = 6

// Selection is an ordered, duplicate-free list of material ids bounded by a
// maximum size. It is not safe for concurrent use; the owning session
// serializes access.
type Selection struct {
	ids []string
	max int
}

// NewSelection returns an empty selection holding at most max ids. A
// non-positive max falls back to DefaultMaxSelection.
func NewSelection(max int) *Selection {
	if max <= 0 {
		max = DefaultMaxSelection
	}
	return &Selection{ids: make([]string, 0, max), max: max}
}

// LimitNotice is the user-facing message shown when the selection is full.
func LimitNotice(max int) string {
	return fmt.Sprintf("最多只能选择%d个材料进行对比", max)
}

// Max returns the capacity.
func (s *Selection) Max() int { return s.max }

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string{}, s.ids...)
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

func (s *Selection) indexOf(id string) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Add appends id. Adding an id already present is a no-op. Adding to a full
// selection fails with an InvalidSelection error and leaves it unchanged.
func (s *Selection) Add(id string) error {
	if id == "" {
		return errors.InvalidParam("material id is required")
	}
	if s.Contains(id) {
		return nil
	}
	if len(s.ids) >= s.max {
		return errors.InvalidSelection(LimitNotice(s.max)).WithDetail(fmt.Sprintf("selected=%d", len(s.ids)))
	}
	s.ids = append(s.ids, id)
	return nil
}

// Remove drops id and reports whether it was present.
func (s *Selection) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	return true
}

// Toggle removes id when present and adds it otherwise. It reports whether
// id is selected afterwards.
func (s *Selection) Toggle(id string) (bool, error) {
	if s.Remove(id) {
		return false, nil
	}
	if err := s.Add(id); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = s.ids[:0]
}

// Replace sets the selection to ids in order, dropping duplicates. It fails
// without modifying the selection when more than Max distinct ids are given.
func (s *Selection) Replace(ids []string) error {
	next := NewSelection(s.max)
	for _, id := range ids {
		if err := next.Add(id); err != nil {
			return err
		}
	}
	s.ids = next.ids
	return nil
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	return &Selection{ids: s.IDs(), max: s.max}
}
