package aggregate

// WordCount is one word-cloud entry.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PhraseComparison pairs one phrase's counts across the two filter slots.
// Count2 is scaled onto Count1's range so the two series are directly
// comparable.
type PhraseComparison struct {
	Word   string `json:"word"`
	Count1 int    `json:"count_1"`
	Count2 int    `json:"count_2"`
}

// BreakdownEntry is one response topic's count pair in the breakdown.
type BreakdownEntry struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Count1 int    `json:"count_1"`
	Count2 int    `json:"count_2"`
}

// HistogramBin is one label's count pair in a demographic histogram.
type HistogramBin struct {
	Label  string `json:"label"`
	Count1 int    `json:"count_1"`
	Count2 int    `json:"count_2"`
}

// Histogram groups respondent counts by demographic dimension. A
// dimension the campaign's rows do not carry stays empty.
type Histogram struct {
	Age        []HistogramBin `json:"age"`
	Gender     []HistogramBin `json:"gender"`
	Profession []HistogramBin `json:"profession"`
	Country    []HistogramBin `json:"canonical_country"`
}

// MapPoint is one country's respondent count with its plot coordinate.
type MapPoint struct {
	Alpha2 string  `json:"alpha2country"`
	Name   string  `json:"country_name"`
	Count  int     `json:"n"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// SampleRow is one sampled response with its topic descriptions resolved.
type SampleRow struct {
	RawResponse string `json:"raw_response"`
	Description string `json:"description"`
	Country     string `json:"canonical_country"`
	Age         string `json:"age"`
	Gender      string `json:"gender"`
	Profession  string `json:"profession"`
}

// Result is everything the dashboard shows for one campaign question
// under up to two filters. Computed per request and discarded.
type Result struct {
	CampaignCode string `json:"campaign_code"`
	QuestionCode string `json:"question_code"`

	ResponsesSample  []SampleRow        `json:"responses_sample"`
	Breakdown        []BreakdownEntry   `json:"responses_breakdown"`
	WordCloud        []WordCount        `json:"wordcloud_words"`
	TopWords         []PhraseComparison `json:"top_words"`
	TwoWordPhrases   []PhraseComparison `json:"two_word_phrases"`
	ThreeWordPhrases []PhraseComparison `json:"three_word_phrases"`
	Histogram        Histogram          `json:"histogram"`
	Map1             []MapPoint         `json:"world_bubble_maps_1"`
	Map2             []MapPoint         `json:"world_bubble_maps_2"`

	RespondentCount1  int    `json:"respondents_count_1"`
	RespondentCount2  int    `json:"respondents_count_2"`
	AverageAge1       string `json:"average_age_1"`
	AverageAge2       string `json:"average_age_2"`
	AverageAgeBucket1 string `json:"average_age_bucket_1"`
	AverageAgeBucket2 string `json:"average_age_bucket_2"`

	FilterDescription1  string `json:"filter_1_description"`
	FilterDescription2  string `json:"filter_2_description"`
	FiltersAreIdentical bool   `json:"filters_are_identical"`

	// Ages and AgeBuckets carry each slot's raw values so the
	// cross-campaign merged view can average over the pooled lists
	// without re-reading rows. Not serialized.
	Ages        []string `json:"-"`
	AgeBuckets  []string `json:"-"`
	Ages2       []string `json:"-"`
	AgeBuckets2 []string `json:"-"`
}
