package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arnavsh/safety-copilot/internal/types"
)

const maxTableRows = 15

// RenderResult renders a correlated tool result for the terminal,
// branching on the kind inferred at ingestion.
func RenderResult(st Styles, r *types.ToolResult) string {
	if r == nil {
		return ""
	}
	switch r.Kind {
	case types.KindTable:
		return renderTable(st, r.Table)
	case types.KindChart:
		return renderChart(st, r.Chart)
	case types.KindSearch:
		return renderSearch(st, r.Search)
	case types.KindImage:
		return renderImages(st, r.Images)
	default:
		return renderOpaque(st, r.Raw)
	}
}

// renderTable lays rows out in fixed-width columns. Column order follows
// the sorted union of row keys so reruns render identically.
func renderTable(st Styles, rows []map[string]any) string {
	if len(rows) == 0 {
		return ""
	}

	cols := tableColumns(rows)
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = len(col)
	}

	shown := rows
	if len(shown) > maxTableRows {
		shown = shown[:maxTableRows]
	}
	cells := make([][]string, len(shown))
	for i, row := range shown {
		cells[i] = make([]string, len(cols))
		for j, col := range cols {
			cell := cellText(row[col])
			cells[i][j] = cell
			if len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	var b strings.Builder
	for j, col := range cols {
		b.WriteString(st.TableHeader.Render(pad(col, widths[j])))
		if j < len(cols)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range cells {
		for j, cell := range row {
			b.WriteString(st.TableCell.Render(pad(cell, widths[j])))
			if j < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	if len(rows) > maxTableRows {
		b.WriteString(st.StatusText.Render(fmt.Sprintf("... %d more rows", len(rows)-maxTableRows)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderChart summarizes a figure payload; the terminal cannot draw it,
// so it surfaces the chart title and trace count instead.
func renderChart(st Styles, fig map[string]any) string {
	var b strings.Builder
	b.WriteString(st.TableHeader.Render("[chart]"))
	if title := chartTitle(fig); title != "" {
		b.WriteString(" ")
		b.WriteString(st.TableCell.Render(title))
	}
	if data, ok := fig["data"].([]any); ok {
		b.WriteString(" ")
		b.WriteString(st.StatusText.Render(fmt.Sprintf("(%d series)", len(data))))
	}
	b.WriteString("\n")
	b.WriteString(st.StatusText.Render("open the dashboard to view the full figure"))
	b.WriteString("\n")
	return b.String()
}

func renderSearch(st Styles, hits []types.SearchHit) string {
	var b strings.Builder
	for i, hit := range hits {
		title := hit.Title
		if title == "" {
			title = hit.URL
		}
		b.WriteString(st.SearchTitle.Render(fmt.Sprintf("%d. %s", i+1, title)))
		b.WriteString("\n")
		if hit.URL != "" && hit.Title != "" {
			b.WriteString("   ")
			b.WriteString(st.SearchLink.Render(hit.URL))
			b.WriteString("\n")
		}
		if hit.Snippet != "" {
			b.WriteString("   ")
			b.WriteString(st.TableCell.Render(truncate(hit.Snippet, 200)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderImages(st Styles, urls []string) string {
	var b strings.Builder
	for _, url := range urls {
		b.WriteString(st.TableHeader.Render("[image] "))
		b.WriteString(st.SearchLink.Render(url))
		b.WriteString("\n")
	}
	return b.String()
}

func renderOpaque(st Styles, raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(truncate(raw, 600), "\n") {
		if line == "" {
			continue
		}
		b.WriteString(st.ToolOutput.Render("| " + line))
		b.WriteString("\n")
	}
	return b.String()
}

func tableColumns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func chartTitle(fig map[string]any) string {
	layout, ok := fig["layout"].(map[string]any)
	if !ok {
		return ""
	}
	switch t := layout["title"].(type) {
	case string:
		return t
	case map[string]any:
		s, _ := t["text"].(string)
		return s
	}
	return ""
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return truncate(val, 40)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%.2f", val)
	default:
		return truncate(fmt.Sprintf("%v", val), 40)
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
