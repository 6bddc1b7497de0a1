package store

import "time"

// Row is one respondent's normalized answer to one question code.
type Row struct {
	QuestionCode     string
	RawResponse      string
	Tokens           []string
	CanonicalCode    string
	ParentCategory   string
	Lang             string
	Alpha2Country    string
	CanonicalCountry string
	Region           string
	Province         string
	Age              string
	AgeBucket        string
	AgeBucketDefault string
	Gender           string
	Profession       string
	Setting          string
	ResponseYear     string
	IngestionTime    time.Time
}

// Region is a sub-national region of a country present in the data.
type Region struct {
	Name     string
	Province string
}

// Country is a country present in the data, with the regions seen for it.
type Country struct {
	Alpha2Code string
	Name       string
	Demonym    string
	Regions    []Region
}

// Ngrams holds unigram, bigram and trigram counts for one question code.
type Ngrams struct {
	Unigrams map[string]int
	Bigrams  map[string]int
	Trigrams map[string]int
}

// Copy returns an independent copy of the count maps.
func (n Ngrams) Copy() Ngrams {
	cp := Ngrams{
		Unigrams: make(map[string]int, len(n.Unigrams)),
		Bigrams:  make(map[string]int, len(n.Bigrams)),
		Trigrams: make(map[string]int, len(n.Trigrams)),
	}
	for k, v := range n.Unigrams {
		cp.Unigrams[k] = v
	}
	for k, v := range n.Bigrams {
		cp.Bigrams[k] = v
	}
	for k, v := range n.Trigrams {
		cp.Trigrams[k] = v
	}
	return cp
}

// Dataset is one campaign's normalized row set plus the catalogs derived
// from it. A Dataset is immutable once published: readers share the handle
// and must not mutate rows or catalogs. All catalogs are rebuilt together
// with the rows on every load, never patched in place.
type Dataset struct {
	CampaignCode string
	LoadedAt     time.Time

	// Rows partitioned by question code. A respondent who did not answer
	// a question contributes no row under that code.
	Rows map[string][]Row

	QuestionCodes     []string
	Countries         []Country
	Ages              []string
	AgeBuckets        []string
	AgeBucketsDefault []string
	Genders           []string
	LivingSettings    []string
	Professions       []string
	ResponseYears     []string

	// NgramsUnfiltered caches n-gram counts over the full row set per
	// question code, rebuilt with every dataset. Served whenever a filter
	// slot is absent so unfiltered requests skip recounting the corpus.
	NgramsUnfiltered map[string]Ngrams
}

// RowCount returns the total number of rows across question codes.
func (d *Dataset) RowCount() int {
	n := 0
	for _, rows := range d.Rows {
		n += len(rows)
	}
	return n
}

// CountryByCode returns the catalog entry for an alpha-2 code.
func (d *Dataset) CountryByCode(alpha2 string) (Country, bool) {
	for _, c := range d.Countries {
		if c.Alpha2Code == alpha2 {
			return c, true
		}
	}
	return Country{}, false
}
