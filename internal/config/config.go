package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tswoboda/voicedash/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Server    Server           `yaml:"server"`
	Data      Data             `yaml:"data"`
	Reload    Reload           `yaml:"reload"`
	Logging   Logging          `yaml:"logging"`
	Campaigns []CampaignConfig `yaml:"campaigns"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Data struct {
	Dir string `yaml:"dir"`
}

type Reload struct {
	// IntervalHours is the background reload cadence. Zero disables it.
	IntervalHours int `yaml:"interval_hours"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// CampaignConfig describes one survey campaign: where its responses come
// from, which demographic fields its rows carry, and its topic taxonomy.
type CampaignConfig struct {
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	DashboardPath string `yaml:"dashboard_path"`

	// Exactly one source: a CSV file relative to the data dir, or a table
	// in the warehouse database.
	File  string `yaml:"file"`
	Table string `yaml:"table"`

	RespondentNoun       string `yaml:"respondent_noun"`
	RespondentNounPlural string `yaml:"respondent_noun_plural"`

	QuestionCodes []string `yaml:"question_codes"`

	// PreBucketedAges marks campaigns whose age column already holds
	// bucket labels rather than numeric ages.
	PreBucketedAges bool `yaml:"pre_bucketed_ages"`
	// LegacyAgeScheme selects the finer elderly bucket thresholds.
	LegacyAgeScheme bool `yaml:"legacy_age_scheme"`
	// TopBreakdownOnly truncates the topic breakdown to its top 5 rows.
	TopBreakdownOnly bool `yaml:"top_breakdown_only"`

	ExtraStopwords []string `yaml:"extra_stopwords"`

	// Fields lists the optional demographic fields present in this
	// campaign's source rows. Transforms for absent fields are skipped.
	Fields []string `yaml:"fields"`

	// About is dashboard-facing markdown describing the campaign.
	About string `yaml:"about"`

	ParentCategories []ParentCategoryConfig `yaml:"parent_categories"`
}

type ParentCategoryConfig struct {
	Code       string           `yaml:"code"`
	Name       string           `yaml:"name"`
	Categories []CategoryConfig `yaml:"categories"`
}

type CategoryConfig struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

// Taxonomy builds the campaign's response topic taxonomy from its
// configured parent categories.
func (c *CampaignConfig) Taxonomy() *taxonomy.Taxonomy {
	parents := make([]taxonomy.ParentCategory, 0, len(c.ParentCategories))
	for _, p := range c.ParentCategories {
		cats := make([]taxonomy.Category, 0, len(p.Categories))
		for _, cat := range p.Categories {
			cats = append(cats, taxonomy.Category{Code: cat.Code, Description: cat.Description})
		}
		parents = append(parents, taxonomy.ParentCategory{Code: p.Code, Name: p.Name, Categories: cats})
	}
	return taxonomy.New(parents)
}

// HasField reports whether the campaign's source rows carry the named
// optional demographic field.
func (c *CampaignConfig) HasField(name string) bool {
	for _, f := range c.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Campaign returns the config for a campaign code.
func (c *Config) Campaign(code string) (*CampaignConfig, bool) {
	for i := range c.Campaigns {
		if c.Campaigns[i].Code == code {
			return &c.Campaigns[i], true
		}
	}
	return nil, false
}

// ConfigDir returns the XDG config directory for voicedash.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "voicedash")
}

// DataDir returns the XDG data directory for voicedash.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "voicedash")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/voicedash/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'voicedash init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults and enforcing
// startup invariants. Duplicate campaign codes or dashboard paths are
// configuration corruption, not a recoverable condition.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Server:  Server{Port: 8000},
		Reload:  Reload{IntervalHours: 12},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	seenCodes := make(map[string]bool)
	seenPaths := make(map[string]bool)
	for i := range cfg.Campaigns {
		camp := &cfg.Campaigns[i]
		if camp.Code == "" {
			return nil, fmt.Errorf("campaign at index %d has no code", i)
		}
		if seenCodes[camp.Code] {
			return nil, fmt.Errorf("duplicate campaign code %q", camp.Code)
		}
		seenCodes[camp.Code] = true
		if camp.DashboardPath != "" {
			if seenPaths[camp.DashboardPath] {
				return nil, fmt.Errorf("duplicate dashboard path %q at campaign %q", camp.DashboardPath, camp.Code)
			}
			seenPaths[camp.DashboardPath] = true
		}
		if camp.File == "" && camp.Table == "" {
			return nil, fmt.Errorf("campaign %q has neither a file nor a table source", camp.Code)
		}
		if camp.RespondentNoun == "" {
			camp.RespondentNoun = "respondent"
		}
		if camp.RespondentNounPlural == "" {
			camp.RespondentNounPlural = camp.RespondentNoun + "s"
		}
		if len(camp.QuestionCodes) == 0 {
			camp.QuestionCodes = []string{"q1"}
		}
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Data.Dir != "" {
		return c.Data.Dir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
