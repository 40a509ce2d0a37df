package comparison

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

func fullSelection(t *testing.T) *Selection {
	t.Helper()
	s := NewSelection(DefaultMaxSelection)
	for i := 1; i <= 6; i++ {
		require.NoError(t, s.Add(fmt.Sprintf("M%d", i)))
	}
	return s
}

func TestSelection_SeventhAddRejected(t *testing.T) {
	s := fullSelection(t)
	before := s.IDs()

	err := s.Add("M7")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidSelection(err))

	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "最多只能选择6个材料进行对比", ae.Message)
	assert.Equal(t, before, s.IDs())
	assert.Equal(t, 6, s.Len())
}

func TestSelection_AddDuplicateIsNoop(t *testing.T) {
	s := NewSelection(0)
	assert.Equal(t, DefaultMaxSelection, s.Max())
	require.NoError(t, s.Add("A"))
	require.NoError(t, s.Add("A"))
	assert.Equal(t, []string{"A"}, s.IDs())

	full := fullSelection(t)
	assert.NoError(t, full.Add("M3"))
}

func TestSelection_AddEmptyID(t *testing.T) {
	err := NewSelection(2).Add("")
	assert.True(t, errors.IsValidation(err))
}

func TestSelection_Toggle(t *testing.T) {
	s := NewSelection(2)
	on, err := s.Toggle("A")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Toggle("A")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Add("A"))
	require.NoError(t, s.Add("B"))
	_, err = s.Toggle("C")
	assert.True(t, errors.IsInvalidSelection(err))
	assert.Equal(t, []string{"A", "B"}, s.IDs())
}

func TestSelection_RemoveKeepsOrder(t *testing.T) {
	s := fullSelection(t)
	assert.True(t, s.Remove("M2"))
	assert.False(t, s.Remove("M2"))
	assert.Equal(t, []string{"M1", "M3", "M4", "M5", "M6"}, s.IDs())
	assert.False(t, s.Contains("M2"))
}

func TestSelection_Replace(t *testing.T) {
	s := NewSelection(3)
	require.NoError(t, s.Replace([]string{"A", "B", "A"}))
	assert.Equal(t, []string{"A", "B"}, s.IDs())

	err := s.Replace([]string{"1", "2", "3", "4"})
	assert.True(t, errors.IsInvalidSelection(err))
	assert.Equal(t, []string{"A", "B"}, s.IDs())
}

func TestSelection_ClearAndClone(t *testing.T) {
	s := fullSelection(t)
	c := s.Clone()
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 6, c.Len())

	ids := c.IDs()
	ids[0] = "X"
	assert.Equal(t, "M1", c.IDs()[0])
}
