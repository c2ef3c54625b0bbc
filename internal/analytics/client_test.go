package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arnavsh/safety-copilot/internal/types"
)

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_incidents": 42}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	panel := Panel{
		Name:    "kpi_summary",
		Route:   "/api/kpis",
		Dataset: true,
		Params:  map[string]string{"period": "30d"},
	}

	data, err := client.Fetch(context.Background(), panel, types.DatasetIncident)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotPath != "/api/kpis" {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotQuery, "dataset=incident") {
		t.Errorf("dataset param missing from %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "period=30d") {
		t.Errorf("panel param missing from %q", gotQuery)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload["total_incidents"] != float64(42) {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestClient_Fetch_NoDatasetParam(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	panel := Panel{Name: "hazard_wordcloud", Route: "/api/charts/hazard-wordcloud"}

	if _, err := client.Fetch(context.Background(), panel, types.DatasetAll); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotQuery != "" {
		t.Errorf("panel without dataset sent query %q", gotQuery)
	}
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, 5*time.Second)
			panel := Panel{Name: "kpi_summary", Route: "/api/kpis"}
			if _, err := client.Fetch(context.Background(), panel, types.DatasetAll); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestClient_MapHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/map" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("dataset") != "hazard" {
			t.Errorf("dataset = %q", r.URL.Query().Get("dataset"))
		}
		w.Write([]byte("<html><body>map</body></html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	html, err := client.MapHTML(context.Background(), types.DatasetHazard)
	if err != nil {
		t.Fatalf("MapHTML failed: %v", err)
	}
	if !strings.Contains(html, "map") {
		t.Errorf("unexpected html %q", html)
	}
}
