package aggregate

import (
	"reflect"
	"testing"

	"github.com/tswoboda/voicedash/internal/config"
	"github.com/tswoboda/voicedash/internal/filter"
	"github.com/tswoboda/voicedash/internal/stopwords"
	"github.com/tswoboda/voicedash/internal/store"
)

func testCampaign() *config.CampaignConfig {
	return &config.CampaignConfig{
		Code:                 "test",
		RespondentNoun:       "respondent",
		RespondentNounPlural: "respondents",
		QuestionCodes:        []string{"q1"},
		Fields:               []string{"gender", "profession"},
		ParentCategories: []config.ParentCategoryConfig{
			{Code: "RIGHTS", Name: "Rights", Categories: []config.CategoryConfig{
				{Code: "SAFETY", Description: "Safety and freedom from violence"},
				{Code: "ECONOMIC", Description: "Economic independence"},
			}},
		},
	}
}

func testDataset() *store.Dataset {
	return &store.Dataset{
		CampaignCode: "test",
		Rows: map[string][]store.Row{
			"q1": {
				{RawResponse: "I want safety", Tokens: []string{"want", "safety"},
					CanonicalCode: "SAFETY", Alpha2Country: "US", CanonicalCountry: "United States",
					Age: "30", AgeBucketDefault: "25-34", Gender: "Female"},
				{RawResponse: "Safety and work", Tokens: []string{"safety", "work"},
					CanonicalCode: "SAFETY/ECONOMIC", Alpha2Country: "KE", CanonicalCountry: "Kenya",
					Age: "22", AgeBucketDefault: "20-24", Gender: "Female"},
				{RawResponse: "Paid work", Tokens: []string{"paid", "work"},
					CanonicalCode: "ECONOMIC", Alpha2Country: "KE", CanonicalCountry: "Kenya",
					Age: "30", AgeBucketDefault: "25-34", Gender: "Male"},
			},
		},
		QuestionCodes:    []string{"q1"},
		NgramsUnfiltered: map[string]store.Ngrams{},
	}
}

func TestGenerateNgramsExcludesStopwords(t *testing.T) {
	rows := []store.Row{
		{Tokens: []string{"the", "hope", "of", "clean", "water"}},
	}
	sw := stopwords.Set{"the": true, "of": true}
	ng := GenerateNgrams(rows, sw, "")

	if _, ok := ng.Unigrams["the"]; ok {
		t.Error("stopword must not appear as a unigram key")
	}
	for key := range ng.Bigrams {
		if key == "the hope" || key == "of clean" {
			t.Errorf("stopword leaked into bigram %q", key)
		}
	}
	if ng.Unigrams["hope"] != 1 || ng.Unigrams["water"] != 1 {
		t.Errorf("unexpected unigrams %v", ng.Unigrams)
	}
	if ng.Bigrams["clean water"] != 1 {
		t.Errorf("expected contiguous non-stopword bigram, got %v", ng.Bigrams)
	}
	if _, ok := ng.Bigrams["hope clean"]; ok {
		t.Error("bigram must not bridge a removed stopword")
	}
}

func TestGenerateNgramsPhraseTerm(t *testing.T) {
	rows := []store.Row{
		{Tokens: []string{"clean", "water", "supply"}},
		{Tokens: []string{"good", "school"}},
	}
	ng := GenerateNgrams(rows, stopwords.Set{}, "water")

	if len(ng.Bigrams) != 2 {
		t.Errorf("expected only water bigrams, got %v", ng.Bigrams)
	}
	if ng.Bigrams["clean water"] != 1 || ng.Bigrams["water supply"] != 1 {
		t.Errorf("unexpected bigrams %v", ng.Bigrams)
	}
	if _, ok := ng.Trigrams["clean water supply"]; !ok {
		t.Errorf("expected trigram containing the term, got %v", ng.Trigrams)
	}
	// Unigrams are unaffected by the phrase restriction.
	if ng.Unigrams["school"] != 1 {
		t.Errorf("unexpected unigrams %v", ng.Unigrams)
	}
}

func TestWordCloudScenario(t *testing.T) {
	ng := store.Ngrams{
		Unigrams: map[string]int{"hope": 5},
		Bigrams:  map[string]int{},
		Trigrams: map[string]int{},
	}
	cloud := wordCloud(ng)
	if len(cloud) != 1 || cloud[0].Word != "hope" || cloud[0].Count != 5 {
		t.Fatalf("unexpected word cloud %v", cloud)
	}
}

func TestWordCloudCap(t *testing.T) {
	uni := make(map[string]int, 150)
	for i := 0; i < 150; i++ {
		uni[string(rune('a'+i%26))+string(rune('a'+i/26))] = i + 1
	}
	cloud := wordCloud(store.Ngrams{Unigrams: uni, Bigrams: map[string]int{}, Trigrams: map[string]int{}})
	if len(cloud) != wordCloudCap {
		t.Fatalf("expected %d entries, got %d", wordCloudCap, len(cloud))
	}
	if cloud[0].Count != 150 {
		t.Errorf("expected highest count first, got %d", cloud[0].Count)
	}
}

func TestComparePhrasesNormalization(t *testing.T) {
	counts1 := map[string]int{"water": 10, "school": 4}
	counts2 := map[string]int{"water": 2, "school": 1, "food": 5}

	got := comparePhrases(counts1, counts2)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Word != "water" || got[0].Count1 != 10 {
		t.Errorf("expected highest slot-1 count first, got %+v", got[0])
	}
	// factor = 10 / 5; water: 2*2=4, school: 1*2=2
	if got[0].Count2 != 4 || got[1].Count2 != 2 {
		t.Errorf("unexpected scaled counts %+v", got)
	}
}

func TestComparePhrasesNoSecondSlotData(t *testing.T) {
	got := comparePhrases(map[string]int{"water": 3}, map[string]int{})
	if got[0].Count2 != 0 {
		t.Errorf("expected zero slot-2 count, got %d", got[0].Count2)
	}

	if out := comparePhrases(map[string]int{}, map[string]int{"x": 1}); len(out) != 0 {
		t.Errorf("expected empty comparison for empty slot 1, got %v", out)
	}
}

func TestBreakdownExplodesCompositeCodes(t *testing.T) {
	a := New(testCampaign())
	ds := testDataset()

	out := a.breakdown(ds.Rows["q1"], nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(out))
	}
	// SAFETY appears in two rows (one via the composite code), ECONOMIC too;
	// the tie breaks alphabetically by label.
	if out[0].Code != "ECONOMIC" || out[0].Count1 != 2 {
		t.Errorf("unexpected first entry %+v", out[0])
	}
	if out[1].Code != "SAFETY" || out[1].Count1 != 2 {
		t.Errorf("unexpected second entry %+v", out[1])
	}
	if out[1].Label != "Safety and freedom from violence" {
		t.Errorf("taxonomy label not attached: %q", out[1].Label)
	}
}

func TestBreakdownDropsUnresolvableCodes(t *testing.T) {
	a := New(testCampaign())
	rows := []store.Row{{CanonicalCode: "UNKNOWN"}}
	if out := a.breakdown(rows, nil); len(out) != 0 {
		t.Errorf("expected unresolvable code to be dropped, got %v", out)
	}
}

func TestBreakdownTopFive(t *testing.T) {
	camp := testCampaign()
	camp.TopBreakdownOnly = true
	camp.ParentCategories = []config.ParentCategoryConfig{
		{Code: "P", Name: "Parent", Categories: []config.CategoryConfig{
			{Code: "A", Description: "a"}, {Code: "B", Description: "b"},
			{Code: "C", Description: "c"}, {Code: "D", Description: "d"},
			{Code: "E", Description: "e"}, {Code: "F", Description: "f"},
		}},
	}
	a := New(camp)

	rows := make([]store.Row, 0)
	for _, code := range []string{"A", "B", "C", "D", "E", "F"} {
		rows = append(rows, store.Row{CanonicalCode: code})
	}
	if out := a.breakdown(rows, nil); len(out) != 5 {
		t.Errorf("expected breakdown truncated to 5, got %d", len(out))
	}
}

func TestHistogramCountrySortScenario(t *testing.T) {
	a := New(testCampaign())
	ds := testDataset()

	rows1 := filter.Apply(ds, "q1", nil)
	rows2 := filter.Apply(ds, "q1", &filter.Filter{Countries: []string{"US"}})

	h := a.histogram(rows1, rows2, false, true)
	// Slot 2 filtered only: sorted ascending by the first series.
	if len(h.Country) != 2 {
		t.Fatalf("expected 2 country bins, got %d", len(h.Country))
	}
	if h.Country[0].Label != "United States" || h.Country[0].Count1 != 1 {
		t.Errorf("unexpected first bin %+v", h.Country[0])
	}
	if h.Country[1].Label != "Kenya" || h.Country[1].Count1 != 2 {
		t.Errorf("unexpected second bin %+v", h.Country[1])
	}
	if h.Country[0].Count2 != 1 || h.Country[1].Count2 != 0 {
		t.Errorf("unexpected slot-2 counts %+v", h.Country)
	}
}

func TestHistogramAgeOrder(t *testing.T) {
	a := New(testCampaign())
	rows := []store.Row{
		{Age: "9"}, {Age: "30"}, {Age: "30"}, {Age: "Prefer Not To Say"},
	}
	h := a.histogram(rows, nil, false, false)

	labels := make([]string, 0, len(h.Age))
	for _, b := range h.Age {
		labels = append(labels, b.Label)
	}
	// Numeric labels sort reverse lexicographic, so "9" precedes "30".
	want := []string{"9", "30", "Prefer Not To Say"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("got age order %v, want %v", labels, want)
	}
}

func TestHistogramSkipsAbsentFields(t *testing.T) {
	camp := testCampaign()
	camp.Fields = nil
	a := New(camp)

	h := a.histogram(testDataset().Rows["q1"], nil, false, false)
	if len(h.Gender) != 0 || len(h.Profession) != 0 {
		t.Error("expected absent demographic fields to yield empty dimensions")
	}
}

func TestBubbleMap(t *testing.T) {
	points := bubbleMap(testDataset().Rows["q1"])
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Alpha2 != "KE" || points[0].Count != 2 {
		t.Errorf("expected Kenya first with 2, got %+v", points[0])
	}
	if points[0].Lat == 0 && points[0].Lon == 0 {
		t.Error("expected a coordinate to be attached")
	}
}

func TestModeOfAges(t *testing.T) {
	rows := []store.Row{{Age: "30"}, {Age: "30"}, {Age: "22"}}
	if got := modeOf(rows, ageOf); got != "30" {
		t.Errorf("expected mode 30, got %q", got)
	}

	// Ties are joined, alphabetically.
	rows = []store.Row{{Age: "22"}, {Age: "30"}}
	if got := modeOf(rows, ageOf); got != "22 30" {
		t.Errorf("expected joined modes, got %q", got)
	}

	if got := modeOf(nil, ageOf); got != "N/A" {
		t.Errorf("expected N/A for empty input, got %q", got)
	}
}

func TestComputeEndToEnd(t *testing.T) {
	a := New(testCampaign())
	ds := testDataset()

	f2 := &filter.Filter{Countries: []string{"KE"}}
	r := a.Compute(ds, "q1", nil, f2)

	if r.RespondentCount1 != 3 || r.RespondentCount2 != 2 {
		t.Errorf("unexpected respondent counts %d / %d", r.RespondentCount1, r.RespondentCount2)
	}
	if r.FiltersAreIdentical {
		t.Error("distinct filters must not be flagged identical")
	}
	if r.FilterDescription1 != "3 respondents" {
		t.Errorf("unexpected description %q", r.FilterDescription1)
	}
	if r.AverageAge1 != "30" {
		t.Errorf("expected mode age 30, got %q", r.AverageAge1)
	}
	if len(r.ResponsesSample) != 3 {
		t.Errorf("expected full sample of 3 rows, got %d", len(r.ResponsesSample))
	}
	if len(r.WordCloud) == 0 || len(r.TopWords) == 0 {
		t.Error("expected word statistics to be populated")
	}
	if len(r.Ages) != 3 || len(r.AgeBuckets) != 3 {
		t.Errorf("expected pooled slot-1 age lists, got %d / %d", len(r.Ages), len(r.AgeBuckets))
	}
	if len(r.Ages2) != 2 || len(r.AgeBuckets2) != 2 {
		t.Errorf("expected pooled slot-2 age lists, got %d / %d", len(r.Ages2), len(r.AgeBuckets2))
	}
}

func TestComputeIdenticalFilters(t *testing.T) {
	a := New(testCampaign())
	r := a.Compute(testDataset(), "q1", nil, nil)
	if !r.FiltersAreIdentical {
		t.Error("two absent filters must be flagged identical")
	}
}

func TestComputeUsesNgramCacheWhenUnfiltered(t *testing.T) {
	a := New(testCampaign())
	ds := testDataset()
	ds.NgramsUnfiltered["q1"] = store.Ngrams{
		Unigrams: map[string]int{"cached": 7},
		Bigrams:  map[string]int{},
		Trigrams: map[string]int{},
	}

	r := a.Compute(ds, "q1", nil, nil)
	if len(r.WordCloud) != 1 || r.WordCloud[0].Word != "cached" {
		t.Errorf("expected the cached n-grams to be served, got %v", r.WordCloud)
	}
}

func TestSampleDeterministic(t *testing.T) {
	a := New(testCampaign())
	rows := testDataset().Rows["q1"]

	first := a.sample(rows)
	second := a.sample(rows)
	if !reflect.DeepEqual(first, second) {
		t.Error("sampling must be deterministic for the same input")
	}
	if first[0].Description == "" {
		t.Error("expected composite topic descriptions to be resolved")
	}
}

func TestOptions(t *testing.T) {
	a := New(testCampaign())
	ds := testDataset()
	ds.Countries = []store.Country{
		{Alpha2Code: "KE", Name: "Kenya", Regions: []store.Region{{Name: "Nairobi"}}},
		{Alpha2Code: "US", Name: "United States"},
	}
	ds.Ages = []string{"22", "30"}
	ds.Genders = []string{"Female", "Male"}

	opts := a.Options(ds)
	if len(opts.Countries) != 2 || opts.Countries[0].Label != "Kenya" {
		t.Errorf("unexpected country options %v", opts.Countries)
	}
	if len(opts.Countries[0].Options) != 1 || opts.Countries[0].Options[0].Value != "Nairobi" {
		t.Errorf("expected nested region options, got %v", opts.Countries[0].Options)
	}
	if len(opts.ResponseTopics) != 1 || opts.ResponseTopics[0].Value != "RIGHTS" {
		t.Errorf("unexpected topic options %v", opts.ResponseTopics)
	}
	if len(opts.ResponseTopics[0].Options) != 2 {
		t.Errorf("expected 2 child topics, got %v", opts.ResponseTopics[0].Options)
	}
	if len(opts.Genders) != 2 {
		t.Errorf("unexpected gender options %v", opts.Genders)
	}
	if len(opts.OnlyResponsesFromCategories) != 2 || len(opts.OnlyMultiWordPhrases) != 2 {
		t.Error("expected both toggle lists to carry two choices")
	}
}

func TestHistogramOptionsFollowSchema(t *testing.T) {
	a := New(testCampaign())
	opts := a.HistogramOptions()
	if len(opts) != 4 {
		t.Fatalf("expected 4 dimensions, got %d", len(opts))
	}

	camp := testCampaign()
	camp.Fields = []string{"gender"}
	a = New(camp)
	opts = a.HistogramOptions()
	if len(opts) != 3 {
		t.Fatalf("expected profession to be omitted, got %d dimensions", len(opts))
	}
}
