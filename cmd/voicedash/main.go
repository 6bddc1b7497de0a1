package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tswoboda/voicedash/internal/config"
	"github.com/tswoboda/voicedash/internal/ingest"
	"github.com/tswoboda/voicedash/internal/server"
	"github.com/tswoboda/voicedash/internal/store"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "voicedash",
	Short:   "Survey-response dashboard backend",
	Long:    "Voicedash ingests survey campaign responses and serves filtered breakdowns, word clouds, histograms and maps over a JSON API.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("voicedash", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/voicedash/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure campaigns, data sources, and topic taxonomies.")
		return nil
	},
}

// --- load command ---

var loadCampaign string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load campaign data and print ingestion stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, loader, closeFn, err := setup()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := context.Background()
		if loadCampaign != "" {
			rows, err := loader.LoadCampaign(ctx, loadCampaign)
			if err != nil {
				return err
			}
			fmt.Printf("Campaign %s: %d rows loaded\n", loadCampaign, rows)
			return nil
		}

		result := loader.LoadAll(ctx)
		fmt.Println("\nLoad complete:")
		for _, step := range result.Steps {
			if step.Err != nil {
				fmt.Printf("  %s: error: %v\n", step.Campaign, step.Err)
			} else {
				fmt.Printf("  %s: %d rows\n", step.Campaign, step.Rows)
			}
		}
		if result.Failed() {
			return fmt.Errorf("one or more campaigns failed to load")
		}
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadCampaign, "campaign", "", "Load a single campaign by code")
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-campaign dataset status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, loader, closeFn, err := setup()
		if err != nil {
			return err
		}
		defer closeFn()

		result := loader.LoadAll(context.Background())

		fmt.Println("Campaigns:")
		for _, step := range result.Steps {
			if step.Err != nil {
				fmt.Printf("  %s: load failed: %v\n", step.Campaign, step.Err)
				continue
			}
			camp, _ := st.Campaign(step.Campaign)
			ds, err := camp.Snapshot()
			if err != nil {
				fmt.Printf("  %s: no data\n", step.Campaign)
				continue
			}
			fmt.Printf("  %s:\n", step.Campaign)
			fmt.Printf("    Rows: %d\n", ds.RowCount())
			fmt.Printf("    Questions: %d\n", len(ds.QuestionCodes))
			fmt.Printf("    Countries: %d\n", len(ds.Countries))
			fmt.Printf("    Genders: %d\n", len(ds.Genders))
			fmt.Printf("    Professions: %d\n", len(ds.Professions))
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load all campaigns and start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, loader, closeFn, err := setup()
		if err != nil {
			return err
		}
		defer closeFn()

		ctx := context.Background()
		result := loader.LoadAll(ctx)
		for _, step := range result.Steps {
			if step.Err != nil {
				log.Printf("Campaign %s not available: %v", step.Campaign, step.Err)
			}
		}

		if cfg.Reload.IntervalHours > 0 {
			interval := time.Duration(cfg.Reload.IntervalHours) * time.Hour
			go server.RunReloadTicker(ctx, loader, interval)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(cfg, st, loader, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

// setup registers every configured campaign and builds the loader,
// opening the response warehouse only when a campaign needs it.
func setup() (*store.Store, *ingest.Loader, func(), error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	st := store.New()
	needWarehouse := false
	for _, camp := range cfg.Campaigns {
		st.Register(camp.Code)
		if camp.Table != "" {
			needWarehouse = true
		}
	}

	closeFn := func() {}
	var warehouse *ingest.Warehouse
	if needWarehouse {
		var err error
		warehouse, err = ingest.OpenWarehouse(filepath.Join(dataDir, "voicedash.db"))
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn = func() { warehouse.Close() }
	}

	loader := ingest.NewLoader(cfg, st, dataDir, warehouse)
	return st, loader, closeFn, nil
}
