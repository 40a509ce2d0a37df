package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/AgriMat-Platform/internal/application/comparison"
	"github.com/turtacn/AgriMat-Platform/internal/application/reporting"
	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// Compare output formats.
const (
	CompareTable  = "table"
	CompareScores = "scores"
	CompareReport = "report"
	CompareXLSX   = "xlsx"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	var (
		format, out string
		groups      []string
	)
	cmd := &cobra.Command{
		Use:   "compare <id> [id...]",
		Short: "Compare materials side by side",
		Long: "Compare up to the configured maximum of materials. Ids may be given as\n" +
			"separate arguments or comma separated.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gs, err := parseGroups(groups)
			if err != nil {
				return err
			}
			return runCompare(cmd, splitArgs(args), gs, format, out)
		},
	}
	cmd.Flags().StringVar(&format, "format", CompareTable, "table|scores|report|xlsx")
	cmd.Flags().StringSliceVar(&groups, "groups", nil, "attribute groups to show, by name or title (e.g. mechanical,物理性能)")
	cmd.Flags().StringVar(&out, "out", "", "output file for report and xlsx (default: the export filename; - for stdout)")
	return cmd
}

func splitArgs(args []string) []string {
	var ids []string
	for _, a := range args {
		for _, id := range strings.Split(a, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// parseGroups resolves group names or titles, dropping repeats.
func parseGroups(names []string) ([]catalog.GroupName, error) {
	var groups []catalog.GroupName
	seen := make(map[catalog.GroupName]bool)
	for _, n := range splitArgs(names) {
		g, ok := catalog.ParseGroupName(n)
		if !ok {
			return nil, errors.InvalidParam("unknown attribute group").WithDetail(n)
		}
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func runCompare(cmd *cobra.Command, ids []string, groups []catalog.GroupName, format, out string) error {
	format = strings.ToLower(format)
	switch format {
	case CompareTable, CompareScores, CompareReport, CompareXLSX:
	default:
		return errors.InvalidParam("invalid compare format").WithDetail(format + " (must be table|scores|report|xlsx)")
	}

	return withPlatform(cmd, func(ctx context.Context, cliCtx *CLIContext, p *platform.Platform) error {
		view, err := p.Comparison.Compare(ctx, ids, cliCtx.Config.Comparison.MaxSelection, groups...)
		if err != nil {
			return err
		}

		switch format {
		case CompareReport, CompareXLSX:
			render := p.Reports.ComparisonReport
			if format == CompareXLSX {
				render = p.Reports.ComparisonWorkbook
			}
			a, err := render(ctx, view)
			if err != nil {
				return err
			}
			if out == "" {
				out = a.Filename
			}
			return writeOutput(cmd, out, a.Data)
		case CompareScores:
			return emit(cmd, cliCtx, view.Scores, func(w io.Writer) error {
				return renderScores(w, view)
			})
		default:
			return emit(cmd, cliCtx, view, func(w io.Writer) error {
				return renderComparisonTable(w, view)
			})
		}
	})
}

// renderComparisonTable prints one column per material; section titles get
// their own row.
func renderComparisonTable(w io.Writer, view *comparison.View) error {
	headers := append([]string{"属性"}, view.MaterialIDs...)
	var rows [][]string
	names := []string{"名称"}
	for _, m := range view.Materials {
		names = append(names, truncate(m.Name, 16))
	}
	rows = append(rows, names)

	for _, sec := range view.Table {
		title := make([]string, len(headers))
		title[0] = "[" + sec.Title + "]"
		rows = append(rows, title)
		for _, r := range sec.Rows {
			line := []string{r.Key}
			for _, c := range r.Cells {
				v := c.Value
				if !c.Present {
					v = reporting.AbsentMarker
				}
				line = append(line, truncate(v, 20))
			}
			rows = append(rows, line)
		}
	}
	return renderTable(w, headers, rows)
}

// renderScores prints the radar scores, colored by band.
func renderScores(w io.Writer, view *comparison.View) error {
	if view.Scores.Empty() {
		fmt.Fprintln(w, "no materials selected")
		return nil
	}
	headers := append([]string{"指标"}, view.Scores.MaterialIDs...)
	rows := make([][]string, 0, len(view.Scores.Points))
	for _, pt := range view.Scores.Points {
		line := []string{pt.Label}
		for _, id := range view.Scores.MaterialIDs {
			line = append(line, colorScore(pt.Scores[id]))
		}
		rows = append(rows, line)
	}
	return renderTable(w, headers, rows)
}
