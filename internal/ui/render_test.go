package ui

import (
	"strings"
	"testing"

	"github.com/arnavsh/safety-copilot/internal/types"
)

func TestRenderResult_Table(t *testing.T) {
	out := RenderResult(DefaultStyles(), &types.ToolResult{
		Kind: types.KindTable,
		Table: []map[string]any{
			{"department": "Operations", "count": float64(42)},
			{"department": "Logistics", "count": float64(17)},
		},
	})

	for _, want := range []string{"department", "count", "Operations", "42", "Logistics", "17"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}

	// Columns are sorted, so count comes before department in the header.
	if strings.Index(out, "count") > strings.Index(out, "department") {
		t.Error("columns not in sorted order")
	}
}

func TestRenderResult_TableTruncatesRows(t *testing.T) {
	rows := make([]map[string]any, 40)
	for i := range rows {
		rows[i] = map[string]any{"n": float64(i)}
	}
	out := RenderResult(DefaultStyles(), &types.ToolResult{Kind: types.KindTable, Table: rows})

	if !strings.Contains(out, "25 more rows") {
		t.Errorf("expected truncation note:\n%s", out)
	}
}

func TestRenderResult_Chart(t *testing.T) {
	out := RenderResult(DefaultStyles(), &types.ToolResult{
		Kind: types.KindChart,
		Chart: map[string]any{
			"data":   []any{map[string]any{}, map[string]any{}},
			"layout": map[string]any{"title": map[string]any{"text": "Incident Trend"}},
		},
	})

	if !strings.Contains(out, "Incident Trend") {
		t.Errorf("chart title missing:\n%s", out)
	}
	if !strings.Contains(out, "2 series") {
		t.Errorf("series count missing:\n%s", out)
	}
}

func TestRenderResult_Search(t *testing.T) {
	out := RenderResult(DefaultStyles(), &types.ToolResult{
		Kind: types.KindSearch,
		Search: []types.SearchHit{
			{Title: "OSHA ladder safety", URL: "https://example.com/osha", Snippet: "Requirements for fixed ladders"},
		},
	})

	for _, want := range []string{"1. OSHA ladder safety", "https://example.com/osha", "Requirements for fixed ladders"} {
		if !strings.Contains(out, want) {
			t.Errorf("search output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResult_Images(t *testing.T) {
	out := RenderResult(DefaultStyles(), &types.ToolResult{
		Kind:   types.KindImage,
		Images: []string{"https://example.com/a.png"},
	})
	if !strings.Contains(out, "https://example.com/a.png") {
		t.Errorf("image url missing:\n%s", out)
	}
}

func TestRenderResult_Opaque(t *testing.T) {
	out := RenderResult(DefaultStyles(), &types.ToolResult{Kind: types.KindOpaque, Raw: "first line\nsecond line"})
	if !strings.Contains(out, "first line") || !strings.Contains(out, "second line") {
		t.Errorf("opaque output missing lines:\n%s", out)
	}

	if got := RenderResult(DefaultStyles(), &types.ToolResult{Kind: types.KindOpaque}); got != "" {
		t.Errorf("empty opaque result should render nothing, got %q", got)
	}

	if got := RenderResult(DefaultStyles(), nil); got != "" {
		t.Errorf("nil result should render nothing, got %q", got)
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{nil, ""},
		{"Operations", "Operations"},
		{float64(42), "42"},
		{float64(3.14159), "3.14"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := cellText(tt.input); got != tt.expected {
			t.Errorf("cellText(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBanner(t *testing.T) {
	if !strings.Contains(Banner(), "Safety Operations") {
		t.Error("banner should carry the product tagline")
	}
}
