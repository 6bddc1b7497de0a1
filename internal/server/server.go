// Package server exposes the campaign engines over a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/tswoboda/voicedash/internal/aggregate"
	"github.com/tswoboda/voicedash/internal/config"
	"github.com/tswoboda/voicedash/internal/filter"
	"github.com/tswoboda/voicedash/internal/ingest"
	"github.com/tswoboda/voicedash/internal/merge"
	"github.com/tswoboda/voicedash/internal/store"
)

var md = goldmark.New()

// MergedCode is the pseudo campaign code addressing the pan-campaign
// merged view.
const MergedCode = "allcampaigns"

// Server is the HTTP server for the dashboard API.
type Server struct {
	cfg         *config.Config
	store       *store.Store
	loader      *ingest.Loader
	aggregators map[string]*aggregate.Aggregator
	mux         *http.ServeMux
}

// New creates a new Server.
func New(cfg *config.Config, st *store.Store, loader *ingest.Loader) *Server {
	aggregators := make(map[string]*aggregate.Aggregator, len(cfg.Campaigns))
	for i := range cfg.Campaigns {
		camp := &cfg.Campaigns[i]
		aggregators[camp.Code] = aggregate.New(camp)
	}

	s := &Server{
		cfg:         cfg,
		store:       st,
		loader:      loader,
		aggregators: aggregators,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/campaigns/", s.handleCampaign)
	s.mux.HandleFunc("/admin/reload", s.handleReload)
	s.mux.HandleFunc("/healthz", s.handleHealth)
}

// computeRequest is the body of a campaign compute call. Both filter
// slots are optional; an absent slot means "all rows".
type computeRequest struct {
	Filter1 *filter.Filter `json:"filter_1"`
	Filter2 *filter.Filter `json:"filter_2"`
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/campaigns/")
	parts := strings.SplitN(path, "/", 2)
	code := parts[0]
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}
	if code == "" {
		http.NotFound(w, r)
		return
	}
	if code != MergedCode {
		if _, ok := s.aggregators[code]; !ok {
			http.Error(w, "Campaign not found", http.StatusNotFound)
			return
		}
	}

	switch sub {
	case "":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleCompute(w, r, code)
	case "filter-options":
		s.handleFilterOptions(w, r, code)
	case "histogram-options":
		s.handleHistogramOptions(w, r, code)
	case "about":
		s.handleAbout(w, r, code)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request, code string) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	qcode := r.URL.Query().Get("q_code")

	if code == MergedCode {
		s.writeJSON(w, s.computeMerged(qcode, req.Filter1, req.Filter2))
		return
	}

	result, err := s.compute(code, qcode, req.Filter1, req.Filter2)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) compute(code, qcode string, f1, f2 *filter.Filter) (*aggregate.Result, error) {
	camp, ok := s.store.Campaign(code)
	if !ok {
		return nil, fmt.Errorf("campaign %q is not registered", code)
	}
	ds, err := camp.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("campaign %q has no data yet", code)
	}
	if qcode == "" {
		campCfg, _ := s.cfg.Campaign(code)
		qcode = campCfg.QuestionCodes[0]
	}
	return s.aggregators[code].Compute(ds, qcode, f1, f2), nil
}

// computeMerged aggregates every loaded campaign and merges the
// finished results. Campaigns without data yet are skipped rather than
// failing the whole view.
func (s *Server) computeMerged(qcode string, f1, f2 *filter.Filter) *aggregate.Result {
	if qcode == "" {
		qcode = "q1"
	}
	var results []*aggregate.Result
	for _, code := range s.store.Codes() {
		campCfg, ok := s.cfg.Campaign(code)
		if !ok || !hasQuestionCode(campCfg, qcode) {
			continue
		}
		result, err := s.compute(code, qcode, f1, f2)
		if err != nil {
			continue
		}
		results = append(results, result)
	}
	return merge.Results(results)
}

func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request, code string) {
	if code == MergedCode {
		var all []aggregate.FilterOptions
		for _, c := range s.store.Codes() {
			camp, _ := s.store.Campaign(c)
			ds, err := camp.Snapshot()
			if err != nil {
				continue
			}
			all = append(all, s.aggregators[c].Options(ds))
		}
		s.writeJSON(w, merge.Options(all))
		return
	}

	camp, ok := s.store.Campaign(code)
	if !ok {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}
	ds, err := camp.Snapshot()
	if err != nil {
		http.Error(w, "Campaign has no data yet", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, s.aggregators[code].Options(ds))
}

func (s *Server) handleHistogramOptions(w http.ResponseWriter, r *http.Request, code string) {
	if code == MergedCode {
		// The merged view always offers every dimension.
		s.writeJSON(w, []aggregate.Option{
			{Value: "age", Label: "Age"},
			{Value: "canonical_country", Label: "Country"},
			{Value: "gender", Label: "Gender"},
			{Value: "profession", Label: "Profession"},
		})
		return
	}
	s.writeJSON(w, s.aggregators[code].HistogramOptions())
}

// handleAbout renders the campaign's markdown description.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request, code string) {
	campCfg, ok := s.cfg.Campaign(code)
	if !ok {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(campCfg.About), &buf); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// handleReload triggers a background reload. Readers keep serving the
// previous snapshots while it runs; a reload already in progress for a
// campaign makes that campaign's reload a no-op.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code := r.URL.Query().Get("campaign")
	go func() {
		if code != "" {
			if _, err := s.loader.LoadCampaign(context.Background(), code); err != nil {
				log.Printf("Reload of %s failed: %v", code, err)
			}
			return
		}
		s.loader.LoadAll(context.Background())
	}()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "reload started"}); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded := make(map[string]int, len(s.cfg.Campaigns))
	for _, code := range s.store.Codes() {
		camp, _ := s.store.Campaign(code)
		ds, err := camp.Snapshot()
		if err != nil {
			loaded[code] = 0
			continue
		}
		loaded[code] = ds.RowCount()
	}
	s.writeJSON(w, map[string]any{"status": "ok", "campaigns": loaded})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func hasQuestionCode(campCfg *config.CampaignConfig, qcode string) bool {
	for _, q := range campCfg.QuestionCodes {
		if q == qcode {
			return true
		}
	}
	return false
}

// RunReloadTicker reloads every campaign on the configured cadence until
// the context is cancelled.
func RunReloadTicker(ctx context.Context, loader *ingest.Loader, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Println("Scheduled reload starting...")
			loader.LoadAll(ctx)
		}
	}
}

// Serve starts the HTTP server on the given port.
func Serve(cfg *config.Config, st *store.Store, loader *ingest.Loader, port int) error {
	srv := New(cfg, st, loader)
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
