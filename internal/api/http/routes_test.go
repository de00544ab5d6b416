package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/weather-glance/internal/icons"
	"github.com/i474232898/weather-glance/internal/metrics"
	"github.com/i474232898/weather-glance/internal/screen"
	"github.com/i474232898/weather-glance/internal/store"
	"github.com/i474232898/weather-glance/internal/weather"
)

func loadedState() screen.State {
	return screen.State{
		RunID:        "run-1",
		Phase:        screen.PhaseLoaded,
		Region:       "SEOUL",
		RegionSource: screen.RegionFromGeocoder,
		UpdatedAt:    time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Entries: []weather.ForecastEntry{
			{Temperature: 14, Main: "Clouds", Description: "overcast clouds"},
			{Temperature: 14.37, Main: "Rain", Description: "light rain"},
			{Temperature: 3, Main: "Volcano", Description: "ash"},
		},
	}
}

func doGet(t *testing.T, states StateReader, path string) (int, []byte) {
	t.Helper()

	app := NewApp(states, icons.Default(), nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, body
}

func TestScreenEndpoint(t *testing.T) {
	s := store.NewMemoryStore(10, time.Hour)

	// Nothing saved yet.
	if status, _ := doGet(t, s, "/api/v1/screen"); status != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, status)
	}

	s.Save(screen.Loading(time.Now()))
	status, body := doGet(t, s, "/api/v1/screen")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	var loading screenResponse
	if err := json.Unmarshal(body, &loading); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !loading.View.Loading || loading.View.Label != screen.LoadingLabel {
		t.Errorf("loading view = %+v", loading.View)
	}

	s.Save(loadedState())
	status, body = doGet(t, s, "/api/v1/screen")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	var got screenResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Phase != screen.PhaseLoaded || got.View.Label != "SEOUL" {
		t.Errorf("phase/label = %q/%q", got.Phase, got.View.Label)
	}
	if len(got.View.Cards) != 3 {
		t.Fatalf("got %d cards, want 3", len(got.View.Cards))
	}
	if got.View.Cards[1].Temperature != "14.4" || got.View.Cards[2].Icon != "question" {
		t.Errorf("cards = %+v", got.View.Cards)
	}
}

func TestPageEndpoint(t *testing.T) {
	s := store.NewMemoryStore(10, time.Hour)
	s.Save(loadedState())

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/screen/pages/1", http.StatusOK},
		{"/api/v1/screen/pages/3", http.StatusOK},
		{"/api/v1/screen/pages/4", http.StatusNotFound},
		{"/api/v1/screen/pages/0", http.StatusBadRequest},
		{"/api/v1/screen/pages/first", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := doGet(t, s, tt.path)
			if status != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantStatus, status, body)
			}
		})
	}

	_, body := doGet(t, s, "/api/v1/screen/pages/2")
	if !strings.Contains(string(body), `"condition":"Rain"`) {
		t.Errorf("page 2 body = %s", body)
	}
}

func TestPageEndpointWhileNotLoaded(t *testing.T) {
	s := store.NewMemoryStore(10, time.Hour)
	s.Save(screen.State{Phase: screen.PhaseDenied})

	status, body := doGet(t, s, "/api/v1/screen/pages/1")
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, status)
	}
	if !strings.Contains(string(body), `"error":true`) {
		t.Errorf("error body = %s", body)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	s := store.NewMemoryStore(10, 0)
	s.Save(screen.State{RunID: "a", Phase: screen.PhaseError, Error: screen.KindNetwork, UpdatedAt: time.Now()})
	s.Save(loadedState())

	status, body := doGet(t, s, "/api/v1/screen/history")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}

	var got struct {
		States []screenResponse `json:"states"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.States) != 2 || got.States[0].Error != screen.KindNetwork || got.States[1].RunID != "run-1" {
		t.Errorf("history = %+v", got.States)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	collector.RecordLoad("loaded", "", 3)

	app := NewApp(store.NewMemoryStore(1, 0), icons.Default(), collector.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "weather_glance_forecast_entries 3") {
		t.Errorf("metrics body missing gauge:\n%s", body)
	}
}
