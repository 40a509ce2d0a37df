package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/domain/comparison"
)

// Text report geometry. Widths are display columns: CJK characters count two.
const (
	ReportWidth     = 80
	ReportPageLines = 50

	headerLines = 3
	footerLines = 2
	bodyLines   = ReportPageLines - headerLines - footerLines

	keyWidth = 18
)

// AbsentMarker is printed for a key the material does not report.
const AbsentMarker = "N/A"

// PageBreak separates report pages.
const PageBreak = "\f"

// MaterialReport renders the data sheet of m. Sections follow the
// comparison table order for a single material; absent rows are omitted.
func MaterialReport(m *catalog.Material, generatedAt time.Time) []byte {
	var body []string
	body = append(body, fmt.Sprintf("材料编号: %s", m.ID), fmt.Sprintf("材料类别: %s", m.Category), "")
	for _, sec := range comparison.BuildTable([]*catalog.Material{m}, catalog.AllGroups) {
		body = append(body, sectionTitle(sec.Title))
		for _, row := range sec.Rows {
			cell := row.Cells[0]
			if !cell.Present {
				continue
			}
			body = append(body, keyValueLines(row.Key, cell.Value)...)
		}
		body = append(body, "")
	}
	title := m.Name
	if m.Grade != "" {
		title += " (" + m.Grade + ")"
	}
	return []byte(paginate(title+" 材料数据表", body, generatedAt))
}

// ComparisonReport renders the comparison table with one column per
// material, followed by the radar scores.
func ComparisonReport(materials []*catalog.Material, table []comparison.Section, scores comparison.RadarSeries, generatedAt time.Time) []byte {
	var body []string
	if len(materials) == 0 {
		body = append(body, "未选择对比材料")
		return []byte(paginate("材料对比报告", body, generatedAt))
	}

	colWidth := (ReportWidth - keyWidth) / len(materials)
	header := fitCell("属性", keyWidth)
	for _, m := range materials {
		header += fitCell(m.ID, colWidth)
	}
	body = append(body, strings.TrimRight(header, " "), strings.Repeat("-", ReportWidth))

	for _, sec := range table {
		body = append(body, sectionTitle(sec.Title))
		for _, row := range sec.Rows {
			line := fitCell(row.Key, keyWidth)
			for _, c := range row.Cells {
				v := c.Value
				if !c.Present {
					v = AbsentMarker
				}
				line += fitCell(v, colWidth)
			}
			body = append(body, strings.TrimRight(line, " "))
		}
		body = append(body, "")
	}

	body = append(body, sectionTitle("性能评分 (0-100)"))
	for _, p := range scores.Points {
		line := fitCell(p.Label, keyWidth)
		for _, id := range scores.MaterialIDs {
			line += fitCell(fmt.Sprintf("%d", p.Scores[id]), colWidth)
		}
		body = append(body, strings.TrimRight(line, " "))
	}
	return []byte(paginate("材料对比报告", body, generatedAt))
}

func sectionTitle(title string) string {
	return "[" + title + "]"
}

// keyValueLines lays out "key : value", wrapping long values under the
// value column.
func keyValueLines(key, value string) []string {
	prefix := "  " + runewidth.FillRight(runewidth.Truncate(key, keyWidth-2, ".."), keyWidth-2) + ": "
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
	wrapped := strings.Split(runewidth.Wrap(value, ReportWidth-runewidth.StringWidth(prefix)), "\n")
	out := make([]string, 0, len(wrapped))
	for i, part := range wrapped {
		if i == 0 {
			out = append(out, prefix+part)
			continue
		}
		out = append(out, indent+part)
	}
	return out
}

// fitCell pads or truncates s to exactly width columns, leaving one column
// of spacing.
func fitCell(s string, width int) string {
	if width <= 1 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width-1, ".."), width)
}

// paginate splits body into pages of exactly ReportPageLines lines, each
// with a title/page header and a footer, joined by PageBreak.
func paginate(title string, body []string, generatedAt time.Time) string {
	for i, l := range body {
		body[i] = runewidth.Truncate(l, ReportWidth, "")
	}
	total := (len(body) + bodyLines - 1) / bodyLines
	if total == 0 {
		total = 1
	}
	footer := "AgriMat Platform  生成时间 " + generatedAt.Format("2006-01-02 15:04:05")

	pages := make([]string, 0, total)
	for p := 0; p < total; p++ {
		var b strings.Builder
		pageNo := fmt.Sprintf("第 %d/%d 页", p+1, total)
		left := runewidth.Truncate(title, ReportWidth-runewidth.StringWidth(pageNo)-1, "..")
		gap := ReportWidth - runewidth.StringWidth(left) - runewidth.StringWidth(pageNo)
		b.WriteString(left + strings.Repeat(" ", gap) + pageNo + "\n")
		b.WriteString(strings.Repeat("=", ReportWidth) + "\n")
		b.WriteString("\n")

		start := p * bodyLines
		end := start + bodyLines
		if end > len(body) {
			end = len(body)
		}
		n := 0
		for _, l := range body[start:end] {
			b.WriteString(l + "\n")
			n++
		}
		for ; n < bodyLines; n++ {
			b.WriteString("\n")
		}

		b.WriteString(strings.Repeat("-", ReportWidth) + "\n")
		b.WriteString(footer + "\n")
		pages = append(pages, b.String())
	}
	return strings.Join(pages, PageBreak)
}
