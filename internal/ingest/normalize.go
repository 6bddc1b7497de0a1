package ingest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tswoboda/voicedash/internal/config"
	"github.com/tswoboda/voicedash/internal/countries"
	"github.com/tswoboda/voicedash/internal/store"
	"github.com/tswoboda/voicedash/internal/taxonomy"
)

// AgeBucket maps a raw age string onto its display bucket. Non-numeric
// values pass through unchanged, negative ages become "N/A". The legacy
// scheme keeps the finer bands above 55 that older campaigns shipped with.
func AgeBucket(age string, legacy bool) string {
	age = strings.TrimSpace(age)
	n, err := strconv.Atoi(age)
	if err != nil {
		return age
	}
	if n < 0 {
		return "N/A"
	}
	if legacy {
		switch {
		case n >= 65:
			return "65+"
		case n >= 55:
			return "55-64"
		}
	} else if n >= 55 {
		return "55+"
	}
	switch {
	case n >= 45:
		return "45-54"
	case n >= 35:
		return "35-44"
	case n >= 25:
		return "25-34"
	case n >= 20:
		return "20-24"
	case n >= 15:
		return "15-19"
	case n >= 10:
		return "10-14"
	default:
		return "<10"
	}
}

// Normalizer turns raw source rows into a publishable dataset for one
// campaign.
type Normalizer struct {
	campaign *config.CampaignConfig
	tax      *taxonomy.Taxonomy
	now      func() time.Time
}

// NewNormalizer creates a normalizer for the given campaign.
func NewNormalizer(campaign *config.CampaignConfig) *Normalizer {
	return &Normalizer{
		campaign: campaign,
		tax:      campaign.Taxonomy(),
		now:      time.Now,
	}
}

// Taxonomy returns the campaign's response topic taxonomy.
func (n *Normalizer) Taxonomy() *taxonomy.Taxonomy {
	return n.tax
}

// Build normalizes the raw rows and assembles the dataset with its
// catalogs. An unknown country code fails the whole build so a bad
// extract never reaches the dashboard.
func (n *Normalizer) Build(raw []RawRow) (*store.Dataset, error) {
	ds := &store.Dataset{
		CampaignCode:     n.campaign.Code,
		LoadedAt:         n.now(),
		Rows:             make(map[string][]store.Row),
		NgramsUnfiltered: make(map[string]store.Ngrams),
	}

	countryIndex := make(map[string]*store.Country)
	regionSeen := make(map[string]map[string]bool)
	ageSet := make(map[string]bool)
	bucketSet := make(map[string]bool)
	bucketDefaultSet := make(map[string]bool)
	genderSet := make(map[string]bool)
	settingSet := make(map[string]bool)
	professionSet := make(map[string]bool)
	yearSet := make(map[string]bool)

	for i, r := range raw {
		alpha2 := strings.ToUpper(strings.TrimSpace(r.Alpha2Country))
		country, ok := countries.Lookup(alpha2)
		if !ok {
			return nil, fmt.Errorf("row %d: unknown country code %q", i, alpha2)
		}

		row := store.Row{
			QuestionCode:     strings.TrimSpace(r.QuestionCode),
			RawResponse:      r.RawResponse,
			Tokens:           strings.Fields(strings.ToLower(r.Lemmatized)),
			CanonicalCode:    strings.TrimSpace(r.CanonicalCode),
			Lang:             strings.TrimSpace(r.Lang),
			Alpha2Country:    alpha2,
			CanonicalCountry: country.Name,
			Region:           strings.TrimSpace(r.Region),
			Province:         strings.TrimSpace(r.Province),
			Age:              cleanDemographic(r.Age),
			Gender:           cleanDemographic(r.Gender),
			Profession:       strings.TrimSpace(r.Profession),
			Setting:          titleCase(strings.TrimSpace(r.Setting)),
			ResponseYear:     strings.TrimSpace(r.ResponseYear),
			IngestionTime:    r.IngestionTime,
		}
		if row.QuestionCode == "" {
			row.QuestionCode = n.campaign.QuestionCodes[0]
		}
		row.ParentCategory = n.parentOf(row.CanonicalCode)

		if n.campaign.PreBucketedAges {
			row.AgeBucket = row.Age
			row.AgeBucketDefault = row.Age
			row.Age = ""
		} else {
			row.AgeBucket = AgeBucket(row.Age, n.campaign.LegacyAgeScheme)
			row.AgeBucketDefault = AgeBucket(row.Age, false)
		}

		ds.Rows[row.QuestionCode] = append(ds.Rows[row.QuestionCode], row)

		if c, ok := countryIndex[alpha2]; ok {
			if row.Region != "" && !regionSeen[alpha2][row.Region] {
				regionSeen[alpha2][row.Region] = true
				c.Regions = append(c.Regions, store.Region{Name: row.Region, Province: row.Province})
			}
		} else {
			entry := &store.Country{
				Alpha2Code: alpha2,
				Name:       country.Name,
				Demonym:    country.Demonym,
			}
			regionSeen[alpha2] = make(map[string]bool)
			if row.Region != "" {
				regionSeen[alpha2][row.Region] = true
				entry.Regions = append(entry.Regions, store.Region{Name: row.Region, Province: row.Province})
			}
			countryIndex[alpha2] = entry
		}

		if row.Age != "" {
			ageSet[row.Age] = true
		}
		if row.AgeBucket != "" {
			bucketSet[row.AgeBucket] = true
		}
		if row.AgeBucketDefault != "" {
			bucketDefaultSet[row.AgeBucketDefault] = true
		}
		if row.Gender != "" {
			genderSet[row.Gender] = true
		}
		if row.Setting != "" {
			settingSet[row.Setting] = true
		}
		if row.Profession != "" {
			professionSet[row.Profession] = true
		}
		if row.ResponseYear != "" {
			yearSet[row.ResponseYear] = true
		}
	}

	for _, c := range countryIndex {
		sort.Slice(c.Regions, func(i, j int) bool { return c.Regions[i].Name < c.Regions[j].Name })
		ds.Countries = append(ds.Countries, *c)
	}
	sort.Slice(ds.Countries, func(i, j int) bool { return ds.Countries[i].Name < ds.Countries[j].Name })

	for code := range ds.Rows {
		ds.QuestionCodes = append(ds.QuestionCodes, code)
	}
	sort.Strings(ds.QuestionCodes)

	ds.Ages = sortedByFirstNumber(keys(ageSet))
	ds.AgeBuckets = sortedByFirstNumber(keys(bucketSet))
	ds.AgeBucketsDefault = sortedByFirstNumber(keys(bucketDefaultSet))
	ds.Genders = sortedStrings(keys(genderSet))
	ds.LivingSettings = sortedStrings(keys(settingSet))
	ds.Professions = sortedStrings(keys(professionSet))
	ds.ResponseYears = sortedStrings(keys(yearSet))

	return ds, nil
}

// parentOf resolves the parent category of a possibly composite topic
// code. Multi-topic responses take the first sub-code's parent.
func (n *Normalizer) parentOf(code string) string {
	if code == "" {
		return ""
	}
	first := strings.SplitN(code, "/", 2)[0]
	return n.tax.Parent(first)
}

// cleanDemographic trims a free-form demographic value and normalizes
// the opt-out answer's casing.
func cleanDemographic(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "prefer not to say") {
		return "Prefer Not To Say"
	}
	return value
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return strings.Title(strings.ToLower(s)) //nolint:staticcheck
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func sortedStrings(values []string) []string {
	sort.Strings(values)
	return values
}

// sortedByFirstNumber orders labels by the first number they contain,
// ascending. A leading "<" counts as zero so "<10" sorts before "10-14".
// Labels with no number at all sort after the numeric ones.
func sortedByFirstNumber(labels []string) []string {
	sort.Slice(labels, func(i, j int) bool {
		ni, oki := firstNumber(labels[i])
		nj, okj := firstNumber(labels[j])
		if oki && okj {
			if ni != nj {
				return ni < nj
			}
			return labels[i] < labels[j]
		}
		if oki != okj {
			return oki
		}
		return labels[i] < labels[j]
	})
	return labels
}

func firstNumber(label string) (int, bool) {
	if strings.HasPrefix(label, "<") {
		return 0, true
	}
	start := -1
	for i, r := range label {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(label[start:i])
			return n, true
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(label[start:])
		return n, true
	}
	return 0, false
}
