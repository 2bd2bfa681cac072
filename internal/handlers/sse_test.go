package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestNewSSEHandlers(t *testing.T) {
	dashboards := createTestDashboards(t)
	handlers := NewSSEHandlers(dashboards, testLogger())

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}
	if handlers.dashboards != dashboards {
		t.Error("NewSSEHandlers() should set dashboards field")
	}
}

func refresh(handlers *SSEHandlers, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/sse/dashboards/"+id+"/refresh", nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()
	handlers.HandleRefresh(w, req)
	return w
}

func TestSSEHandlers_HandleRefresh(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboards(t), testLogger())

	w := refresh(handlers, "overview")

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected cache-control 'no-cache', got %q", cc)
	}

	body := w.Body.String()
	for _, want := range []string{
		"event: datastar-patch-elements",
		"event: datastar-patch-signals",
		`id="status"`,
		`id="cards"`,
		`id="charts"`,
		"data-chart=",
		"Em aberto",
		"lastRefresh",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response should contain %q", want)
		}
	}
}

func TestSSEHandlers_HandleRefresh_PicksUpFileChanges(t *testing.T) {
	dashboards := createTestDashboards(t)
	handlers := NewSSEHandlers(dashboards, testLogger())

	if body := refresh(handlers, "overview").Body.String(); !strings.Contains(body, "3 registros") {
		t.Fatalf("first refresh should report 3 records")
	}

	path := dashboards.Variants()[0].Source
	if err := os.WriteFile(path, []byte(overviewCSV+"2025-03-01,10,Sul,Ana,Cliente C\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if body := refresh(handlers, "overview").Body.String(); !strings.Contains(body, "4 registros") {
		t.Error("refresh should re-read the file")
	}
}

func TestSSEHandlers_HandleRefresh_PartialFailure(t *testing.T) {
	handlers := NewSSEHandlers(createTestDashboards(t), testLogger())

	body := refresh(handlers, "sellers").Body.String()

	if !strings.Contains(body, "Não foi possível gerar este gráfico") {
		t.Error("charts without their columns should be patched as placeholders")
	}
	if !strings.Contains(body, "chart-seller-revenue") {
		t.Error("charts with their columns should still render")
	}
}

func TestSSEHandlers_HandleRefresh_Errors(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"unknown variant", "nope", "not found"},
		{"load failure", "overview", "open workbook"},
	}

	handlers := NewSSEHandlers(createBrokenDashboards(t), testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := refresh(handlers, tt.id).Body.String()

			if !strings.Contains(body, "status-error") || !strings.Contains(body, tt.want) {
				t.Errorf("expected an error status patch containing %q, got %s", tt.want, body)
			}
			if strings.Contains(body, `id="charts"`) {
				t.Error("a failed refresh must not replace the charts")
			}
		})
	}
}
