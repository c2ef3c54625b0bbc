package types

import "encoding/json"

// ResultKind discriminates the shape of a tool result. The kind is inferred
// once when the result event is ingested, so renderers branch on a tag
// instead of probing the payload.
type ResultKind string

const (
	KindTable  ResultKind = "table"
	KindChart  ResultKind = "chart"
	KindSearch ResultKind = "search"
	KindImage  ResultKind = "image"
	KindOpaque ResultKind = "opaque"
)

// SearchHit is one entry of a search-shaped tool result.
type SearchHit struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// ToolResult is a tool result payload tagged with its inferred kind.
// Exactly one of the payload fields is populated, matching Kind.
type ToolResult struct {
	Kind   ResultKind       `json:"kind"`
	Table  []map[string]any `json:"table,omitempty"`
	Chart  map[string]any   `json:"chart,omitempty"`
	Search []SearchHit      `json:"search,omitempty"`
	Images []string         `json:"images,omitempty"`
	Raw    string           `json:"raw,omitempty"`
}

// ParseToolResult types a raw tool result payload. Structured shapes
// (table rows, chart figures, search hits, image URL lists) are recognized
// by their top-level keys; anything else falls back to opaque text.
func ParseToolResult(v any) *ToolResult {
	if v == nil {
		return &ToolResult{Kind: KindOpaque}
	}

	switch payload := v.(type) {
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(payload), &decoded); err == nil {
			return parseStructured(decoded)
		}
		return &ToolResult{Kind: KindOpaque, Raw: payload}
	case map[string]any:
		return parseStructured(payload)
	default:
		return &ToolResult{Kind: KindOpaque, Raw: stringify(v)}
	}
}

func parseStructured(m map[string]any) *ToolResult {
	if rows := tableRows(m["table"]); rows != nil {
		return &ToolResult{Kind: KindTable, Table: rows}
	}
	for _, key := range []string{"chart", "figure"} {
		if fig, ok := m[key].(map[string]any); ok {
			return &ToolResult{Kind: KindChart, Chart: fig}
		}
	}
	for _, key := range []string{"search_results", "results"} {
		if hits := searchHits(m[key]); hits != nil {
			return &ToolResult{Kind: KindSearch, Search: hits}
		}
	}
	for _, key := range []string{"images", "image_urls"} {
		if urls := imageURLs(m[key]); urls != nil {
			return &ToolResult{Kind: KindImage, Images: urls}
		}
	}
	return &ToolResult{Kind: KindOpaque, Raw: stringify(m)}
}

func tableRows(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		row, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		rows = append(rows, row)
	}
	return rows
}

func searchHits(v any) []SearchHit {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	hits := make([]SearchHit, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		var hit SearchHit
		hit.Title, _ = entry["title"].(string)
		hit.URL, _ = entry["url"].(string)
		hit.Snippet, _ = entry["snippet"].(string)
		if hit.Title == "" && hit.URL == "" && hit.Snippet == "" {
			return nil
		}
		hits = append(hits, hit)
	}
	return hits
}

func imageURLs(v any) []string {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil
	}
	urls := make([]string, 0, len(items))
	for _, item := range items {
		url, ok := item.(string)
		if !ok {
			return nil
		}
		urls = append(urls, url)
	}
	return urls
}

func stringify(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
