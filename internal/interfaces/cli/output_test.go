package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_HeadersVerbatim(t *testing.T) {
	var buf bytes.Buffer
	err := renderTable(&buf, []string{"指标", "AL-01", "steel_40cr"}, [][]string{{"屈服强度", "100", "785"}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "AL-01")
	assert.Contains(t, out, "steel_40cr")
	assert.NotContains(t, out, "AL - 01")
	assert.NotContains(t, out, "STEEL 40 CR")
}
