package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/tswoboda/voicedash/internal/aggregate"
	"github.com/tswoboda/voicedash/internal/config"
	"github.com/tswoboda/voicedash/internal/stopwords"
	"github.com/tswoboda/voicedash/internal/store"
)

// CampaignResult holds the outcome of loading a single campaign.
type CampaignResult struct {
	Campaign string
	Rows     int
	Err      error
}

// Result holds the results of a full load run.
type Result struct {
	Steps []CampaignResult
}

// Failed reports whether any campaign failed to load.
func (r *Result) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}
	return false
}

// Loader fetches, normalizes and publishes campaign datasets.
type Loader struct {
	cfg       *config.Config
	store     *store.Store
	dataDir   string
	warehouse *Warehouse
}

// NewLoader creates a loader. The warehouse may be nil when no campaign
// is table-backed.
func NewLoader(cfg *config.Config, st *store.Store, dataDir string, warehouse *Warehouse) *Loader {
	return &Loader{cfg: cfg, store: st, dataDir: dataDir, warehouse: warehouse}
}

// LoadAll loads every configured campaign. A failure in one campaign is
// recorded and does not stop the others.
func (l *Loader) LoadAll(ctx context.Context) *Result {
	r := &Result{}
	for i := range l.cfg.Campaigns {
		camp := &l.cfg.Campaigns[i]
		log.Printf("Loading campaign %s...", camp.Code)
		rows, err := l.LoadCampaign(ctx, camp.Code)
		step := CampaignResult{Campaign: camp.Code, Rows: rows, Err: err}
		if err != nil {
			log.Printf("Campaign %s failed: %v", camp.Code, err)
		} else {
			log.Printf("Campaign %s: %d rows loaded", camp.Code, rows)
		}
		r.Steps = append(r.Steps, step)
	}
	return r
}

// LoadCampaign fetches and publishes one campaign's dataset. While the
// load runs, readers keep serving the previously published snapshot;
// the new dataset only becomes visible once the whole build succeeded.
func (l *Loader) LoadCampaign(ctx context.Context, code string) (int, error) {
	campCfg, ok := l.cfg.Campaign(code)
	if !ok {
		return 0, fmt.Errorf("unknown campaign %q", code)
	}
	camp, ok := l.store.Campaign(code)
	if !ok {
		return 0, fmt.Errorf("campaign %q is not registered", code)
	}

	if err := camp.BeginReload(); err != nil {
		return 0, err
	}
	defer camp.EndReload()

	source, err := l.source(campCfg)
	if err != nil {
		return 0, err
	}
	raw, err := source.FetchRows(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("fetching rows: %w", err)
	}

	ds, err := NewNormalizer(campCfg).Build(raw)
	if err != nil {
		return 0, fmt.Errorf("normalizing rows: %w", err)
	}

	sw := stopwords.Base(campCfg.ExtraStopwords)
	for _, qcode := range ds.QuestionCodes {
		ds.NgramsUnfiltered[qcode] = aggregate.GenerateNgrams(ds.Rows[qcode], sw, "")
	}

	camp.Publish(ds)
	return ds.RowCount(), nil
}

func (l *Loader) source(campCfg *config.CampaignConfig) (Source, error) {
	if campCfg.File != "" {
		return NewCSVSource(l.dataDir, campCfg.File), nil
	}
	if campCfg.Table != "" {
		if l.warehouse == nil {
			return nil, fmt.Errorf("campaign %q needs a warehouse but none is open", campCfg.Code)
		}
		return NewWarehouseSource(l.warehouse, campCfg.Table), nil
	}
	return nil, fmt.Errorf("campaign %q has no data source", campCfg.Code)
}
