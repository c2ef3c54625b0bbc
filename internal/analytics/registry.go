// Package analytics fetches KPI and chart data from the dashboard API.
// The copilot does not interpret these payloads; they are handed straight
// to rendering.
package analytics

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Panel describes one dashboard panel endpoint.
type Panel struct {
	Name    string            `yaml:"name"`
	Title   string            `yaml:"title"`
	Route   string            `yaml:"route"`
	Params  map[string]string `yaml:"params,omitempty"`
	Dataset bool              `yaml:"dataset"` // whether the route takes a dataset parameter
}

// Registry maps panel names to their endpoint definitions.
type Registry struct {
	Panels map[string]Panel
}

// LoadRegistry reads a panel registry from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Panels []Panel `yaml:"panels"`
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	registry := &Registry{Panels: make(map[string]Panel)}
	for _, p := range config.Panels {
		registry.Panels[p.Name] = p
	}
	return registry, nil
}

// DefaultRegistry returns the built-in panel set used when no registry
// file is configured.
func DefaultRegistry() *Registry {
	panels := []Panel{
		{Name: "kpi_summary", Title: "KPI Summary", Route: "/api/kpis", Dataset: true},
		{Name: "incident_trend", Title: "Incident Trend", Route: "/api/charts/incident-trend", Dataset: true},
		{Name: "hazard_wordcloud", Title: "Hazard Wordcloud", Route: "/api/charts/hazard-wordcloud"},
		{Name: "audit_completion", Title: "Audit Completion", Route: "/api/charts/audit-completion"},
		{Name: "department_breakdown", Title: "Department Breakdown", Route: "/api/charts/department-breakdown", Dataset: true},
	}
	registry := &Registry{Panels: make(map[string]Panel, len(panels))}
	for _, p := range panels {
		registry.Panels[p.Name] = p
	}
	return registry
}

// Get returns a panel definition by name.
func (r *Registry) Get(name string) (Panel, bool) {
	p, exists := r.Panels[name]
	return p, exists
}

// List returns panel names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.Panels))
	for name := range r.Panels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
