package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tswoboda/voicedash/internal/aggregate"
	"github.com/tswoboda/voicedash/internal/config"
	"github.com/tswoboda/voicedash/internal/ingest"
	"github.com/tswoboda/voicedash/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	csv := "q_code,raw_response,lemmatized,canonical_code,alpha2country,age,gender\n" +
		"q1,I want safety,want safety,SAFETY,US,30,Female\n" +
		"q1,Clean water,clean water,ACCESS,KE,22,Female\n" +
		"q1,Paid work,paid work,SAFETY,KE,40,Male\n"
	if err := os.WriteFile(filepath.Join(dir, "test.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg := &config.Config{
		Campaigns: []config.CampaignConfig{{
			Code:                 "test",
			File:                 "test.csv",
			RespondentNoun:       "respondent",
			RespondentNounPlural: "respondents",
			QuestionCodes:        []string{"q1"},
			Fields:               []string{"gender"},
			About:                "# Test Campaign\n\nWhat respondents want.",
			ParentCategories: []config.ParentCategoryConfig{
				{Code: "RIGHTS", Name: "Rights", Categories: []config.CategoryConfig{
					{Code: "SAFETY", Description: "Safety"},
					{Code: "ACCESS", Description: "Access"},
				}},
			},
		}},
	}

	st := store.New()
	st.Register("test")
	loader := ingest.NewLoader(cfg, st, dir, nil)
	if _, err := loader.LoadCampaign(context.Background(), "test"); err != nil {
		t.Fatalf("failed to load fixture campaign: %v", err)
	}
	return New(cfg, st, loader)
}

func TestComputeEndpoint(t *testing.T) {
	srv := testServer(t)

	body := strings.NewReader(`{"filter_1": {"countries": ["KE"]}}`)
	req := httptest.NewRequest(http.MethodPost, "/campaigns/test", body)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result aggregate.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.RespondentCount1 != 2 {
		t.Errorf("expected 2 Kenyan respondents, got %d", result.RespondentCount1)
	}
	if result.RespondentCount2 != 3 {
		t.Errorf("expected 3 unfiltered respondents, got %d", result.RespondentCount2)
	}
	if result.FiltersAreIdentical {
		t.Error("distinct filters flagged identical")
	}
}

func TestComputeEmptyBody(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/test", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty body, got %d", w.Code)
	}
	var result aggregate.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.FiltersAreIdentical {
		t.Error("two absent filters must be flagged identical")
	}
}

func TestComputeMethodNotAllowed(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/test", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestUnknownCampaign(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/nope", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFilterOptionsEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/test/filter-options", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var opts aggregate.FilterOptions
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(opts.Countries) != 2 {
		t.Errorf("expected 2 country options, got %d", len(opts.Countries))
	}
	if len(opts.Genders) != 2 {
		t.Errorf("expected 2 gender options, got %d", len(opts.Genders))
	}
}

func TestFilterOptionsUnregisteredCampaign(t *testing.T) {
	cfg := &config.Config{
		Campaigns: []config.CampaignConfig{{
			Code:          "ghost",
			File:          "ghost.csv",
			QuestionCodes: []string{"q1"},
		}},
	}
	st := store.New()
	srv := New(cfg, st, ingest.NewLoader(cfg, st, t.TempDir(), nil))

	req := httptest.NewRequest(http.MethodGet, "/campaigns/ghost/filter-options", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unregistered campaign, got %d", w.Code)
	}
}

func TestMergedCompute(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/campaigns/allcampaigns", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result aggregate.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.CampaignCode != MergedCode {
		t.Errorf("expected merged campaign code, got %q", result.CampaignCode)
	}
	if result.RespondentCount1 != 3 {
		t.Errorf("expected 3 respondents across campaigns, got %d", result.RespondentCount1)
	}
}

func TestHistogramOptionsEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/test/histogram-options", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var opts []aggregate.Option
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(opts) != 3 {
		t.Errorf("expected age, country and gender dimensions, got %v", opts)
	}
}

func TestAboutEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/campaigns/test/about", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h1") {
		t.Errorf("expected rendered markdown, got %q", w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var health struct {
		Status    string         `json:"status"`
		Campaigns map[string]int `json:"campaigns"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.Status != "ok" || health.Campaigns["test"] != 3 {
		t.Errorf("unexpected health payload %+v", health)
	}
}

func TestReloadEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/reload?campaign=test", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
}
