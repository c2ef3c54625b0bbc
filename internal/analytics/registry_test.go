package analytics

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.yaml")
	content := `panels:
  - name: kpi_summary
    title: KPI Summary
    route: /api/kpis
    dataset: true
  - name: site_map
    title: Site Map
    route: /api/map
    params:
      zoom: "8"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	registry, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	panel, ok := registry.Get("kpi_summary")
	if !ok {
		t.Fatal("kpi_summary not loaded")
	}
	if panel.Route != "/api/kpis" || !panel.Dataset {
		t.Errorf("unexpected panel: %+v", panel)
	}

	panel, ok = registry.Get("site_map")
	if !ok {
		t.Fatal("site_map not loaded")
	}
	if panel.Params["zoom"] != "8" {
		t.Errorf("params lost: %+v", panel.Params)
	}
	if panel.Dataset {
		t.Error("dataset should default to false")
	}
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing registry file")
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	for _, name := range []string{"kpi_summary", "incident_trend", "hazard_wordcloud", "audit_completion", "department_breakdown"} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("built-in panel %q missing", name)
		}
	}

	names := registry.List()
	if !sort.StringsAreSorted(names) {
		t.Errorf("List() should be sorted, got %v", names)
	}
}
