package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AgriMat-Platform/internal/intelligence/estimator"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

type stubEstimator struct {
	err   error
	calls int
}

func (s *stubEstimator) Estimate(ctx context.Context, req estimator.Request) (*estimator.Estimate, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &estimator.Estimate{Lifespan: 4200, Efficiency: 91, RiskAnalysis: "低风险", MaintenanceAdvice: "每500小时检查"}, nil
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, est *stubEstimator, args ...string) (string, error) {
	t.Helper()
	if est == nil {
		est = &stubEstimator{}
	}
	cmd := NewRootCommand(platform.WithEstimator(est))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color", "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "agrimat", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"materials", "compare", "equipment", "parts", "experiments", "predict", "serve"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	for _, flag := range []string{"config", "log-level", "output", "no-color", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %q", flag)
	}
	assert.Equal(t, OutputTable, cmd.PersistentFlags().Lookup("output").DefValue)
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	_, err := run(t, nil, "-o", "yaml", "materials", "list")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(errors.InvalidParam("bad")))
	assert.Equal(t, 2, exitCode(errors.InvalidSelection("too many")))
	assert.Equal(t, 3, exitCode(errors.New(errors.ErrCodeMaterialNotFound, "missing")))
	assert.Equal(t, 1, exitCode(fmt.Errorf("boom")))
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"AL-01", "AL-02", "MNB-01"}, splitArgs([]string{"AL-01, AL-02", "MNB-01", ","}))
	assert.Nil(t, splitArgs([]string{" "}))
}

// ─────────────────────────────────────────────────────────────────────────────
// materials
// ─────────────────────────────────────────────────────────────────────────────

func TestMaterialsList_JSON(t *testing.T) {
	out, err := run(t, nil, "-o", "json", "materials", "list", "--category", "钢材", "--page-size", "5")
	require.NoError(t, err)

	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 14, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)
}

func TestMaterialsList_Table(t *testing.T) {
	out, err := run(t, nil, "materials", "list", "--category", "铝合金")
	require.NoError(t, err)
	assert.Contains(t, out, "AL-01")
	assert.NotContains(t, out, "MNB-01")
	assert.Contains(t, out, "page 1/")
}

func TestMaterialsList_BadInput(t *testing.T) {
	cases := [][]string{
		{"materials", "list", "--page", "abc"},
		{"materials", "list", "--filter", "shape"},
		{"materials", "list", "--category", "塑料"},
	}
	for _, args := range cases {
		_, err := run(t, nil, args...)
		require.Error(t, err, "%v", args)
		assert.True(t, errors.IsValidation(err), "%v: %v", args, err)
	}
}

func TestMaterialsShow(t *testing.T) {
	out, err := run(t, nil, "materials", "show", "MNB-01")
	require.NoError(t, err)
	assert.Contains(t, out, "MNB-01")

	_, err = run(t, nil, "materials", "show", "XX-99")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
}

func TestMaterialsExport_CSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnb.csv")
	out, err := run(t, nil, "materials", "export", "MNB-01", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufeffCategory,Property,Value"))
}

func TestMaterialsExport_ReportToStdout(t *testing.T) {
	out, err := run(t, nil, "materials", "export", "MNB-01", "--format", "txt", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "MNB-01")

	_, err = run(t, nil, "materials", "export", "MNB-01", "--format", "pdf")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// compare
// ─────────────────────────────────────────────────────────────────────────────

func TestCompare_JSON(t *testing.T) {
	out, err := run(t, nil, "-o", "json", "compare", "AL-01,MNB-01")
	require.NoError(t, err)

	var view struct {
		MaterialIDs []string `json:"materialIds"`
		Table       []any    `json:"table"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, []string{"AL-01", "MNB-01"}, view.MaterialIDs)
	assert.NotEmpty(t, view.Table)
}

func TestCompare_TableAndScores(t *testing.T) {
	out, err := run(t, nil, "compare", "AL-01", "AL-02")
	require.NoError(t, err)
	assert.Contains(t, out, "AL-01")
	assert.Contains(t, out, "AL-02")

	out, err = run(t, nil, "compare", "--format", "scores", "AL-01", "AL-02")
	require.NoError(t, err)
	assert.Contains(t, out, "AL-02")
}

func TestCompare_Groups(t *testing.T) {
	out, err := run(t, nil, "-o", "json", "compare", "--groups", "力学性能,mechanical", "AL-01", "MNB-01")
	require.NoError(t, err)

	var view struct {
		Table []struct {
			Title string `json:"title"`
			Group string `json:"group"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	var grouped []string
	for _, s := range view.Table {
		if s.Group != "" {
			grouped = append(grouped, s.Group)
		}
	}
	assert.Equal(t, []string{"mechanical"}, grouped)

	_, err = run(t, nil, "compare", "--groups", "optical", "AL-01")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestCompare_TooMany(t *testing.T) {
	_, err := run(t, nil, "compare", "AL-01,AL-02,AL-03,AL-04,AL-05,AL-06,AL-07")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidSelection(err))
	assert.Equal(t, 2, exitCode(err))
}

func TestCompare_UnknownFormat(t *testing.T) {
	_, err := run(t, nil, "compare", "--format", "pdf", "AL-01")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestCompare_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmp.xlsx")
	_, err := run(t, nil, "compare", "--format", "xlsx", "--out", path, "AL-01", "MNB-01")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

// ─────────────────────────────────────────────────────────────────────────────
// equipment, parts, experiments
// ─────────────────────────────────────────────────────────────────────────────

func TestEquipmentCommands(t *testing.T) {
	out, err := run(t, nil, "-o", "json", "equipment", "list")
	require.NoError(t, err)
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 4)

	out, err = run(t, nil, "equipment", "show", "EQ-001")
	require.NoError(t, err)
	assert.Contains(t, out, "EQ-001")

	_, err = run(t, nil, "equipment", "show", "EQ-404")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))

	out, err = run(t, nil, "equipment", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "农用动力机械")
}

func TestPartsList(t *testing.T) {
	out, err := run(t, nil, "parts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "parts; categories:")
}

func TestExperimentsList(t *testing.T) {
	out, err := run(t, nil, "-o", "json", "experiments", "list")
	require.NoError(t, err)
	var list struct {
		Items  []map[string]any `json:"items"`
		Counts map[string]int   `json:"counts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list.Items, 4)
	assert.Equal(t, 4, list.Counts["Total"])

	out, err = run(t, nil, "experiments", "show", "EXP-1")
	require.NoError(t, err)
	assert.Contains(t, out, "EXP-1")
}

// ─────────────────────────────────────────────────────────────────────────────
// predict
// ─────────────────────────────────────────────────────────────────────────────

func TestPredict(t *testing.T) {
	est := &stubEstimator{}
	out, err := run(t, est, "-o", "json", "predict", "--temperature", "60", "--load", "1200")
	require.NoError(t, err)
	assert.Equal(t, 1, est.calls)

	var res struct {
		Lifespan float64 `json:"lifespan"`
		Fallback bool    `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4200.0, res.Lifespan)
	assert.False(t, res.Fallback)
}

func TestPredict_Fallback(t *testing.T) {
	out, err := run(t, &stubEstimator{err: fmt.Errorf("backend down")}, "predict")
	require.NoError(t, err)
	assert.Contains(t, out, "reference estimate")
}

func TestPredict_BadNumber(t *testing.T) {
	est := &stubEstimator{}
	_, err := run(t, est, "predict", "--load", "heavy")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Zero(t, est.calls)
}
