package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
)

// printJSON outputs data as indented JSON to stdout.
func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

// renderTable writes headers and rows through tablewriter. Header cells are
// printed verbatim since they often carry material ids.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeaderAutoFormat(tw.Off))
	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	table.Header(hdr...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// printKeyValues writes aligned "key: value" lines; keys are padded by
// display width so CJK labels line up.
func printKeyValues(w io.Writer, pairs [][2]string) {
	width := 0
	for _, kv := range pairs {
		if n := runewidth.StringWidth(kv[0]); n > width {
			width = n
		}
	}
	for _, kv := range pairs {
		fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(kv[0], width), kv[1])
	}
}

// emit prints data as JSON when requested, otherwise calls render.
func emit(cmd *cobra.Command, cliCtx *CLIContext, data interface{}, render func(w io.Writer) error) error {
	if cliCtx.OutputFormat == OutputJSON {
		return printJSON(cmd.OutOrStdout(), data)
	}
	return render(cmd.OutOrStdout())
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	return runewidth.Truncate(strings.ReplaceAll(s, "\n", " "), width, "...")
}

// colorScore highlights a 0-100 score.
func colorScore(score int) string {
	s := fmt.Sprintf("%d", score)
	switch {
	case score >= 80:
		return color.GreenString(s)
	case score >= 50:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func attributePairs(g domain.AttributeGroup) [][2]string {
	out := make([][2]string, 0, len(g))
	for _, a := range g {
		out = append(out, [2]string{a.Key, a.Value})
	}
	return out
}

func sectionHeading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprintf("[%s]", title))
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	PrintSuccess(cmd, fmt.Sprintf("wrote %d bytes to %s", len(data), path))
	return nil
}
