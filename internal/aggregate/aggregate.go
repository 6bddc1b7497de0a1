// Package aggregate computes the dashboard statistics for one campaign
// from filtered dataset snapshots. Every function is pure: empty input
// produces a well-formed empty result, never an error.
package aggregate

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/tswoboda/voicedash/internal/config"
	"github.com/tswoboda/voicedash/internal/countries"
	"github.com/tswoboda/voicedash/internal/filter"
	"github.com/tswoboda/voicedash/internal/stopwords"
	"github.com/tswoboda/voicedash/internal/store"
	"github.com/tswoboda/voicedash/internal/taxonomy"
)

const (
	topPhraseCount = 20
	wordCloudCap   = 100
	sampleCap      = 1000
	sampleSeed     = 1
)

// Aggregator computes statistics for one campaign.
type Aggregator struct {
	campaign *config.CampaignConfig
	tax      *taxonomy.Taxonomy
	sw       stopwords.Set
}

// New creates an aggregator for the given campaign.
func New(campaign *config.CampaignConfig) *Aggregator {
	return &Aggregator{
		campaign: campaign,
		tax:      campaign.Taxonomy(),
		sw:       stopwords.Base(campaign.ExtraStopwords),
	}
}

// Compute runs every dashboard statistic for one question code under up
// to two filters. Nil filters mean "all rows"; the unfiltered n-gram
// cache is served for those slots instead of recounting.
func (a *Aggregator) Compute(ds *store.Dataset, qcode string, f1, f2 *filter.Filter) *Result {
	rows1 := filter.Apply(ds, qcode, f1)
	rows2 := filter.Apply(ds, qcode, f2)

	ngrams1 := a.ngramsFor(ds, qcode, rows1, f1)
	ngrams2 := a.ngramsFor(ds, qcode, rows2, f2)

	f1Active := f1 != nil && !f1.IsZero()
	f2Active := f2 != nil && !f2.IsZero()

	r := &Result{
		CampaignCode: a.campaign.Code,
		QuestionCode: qcode,

		ResponsesSample:  a.sample(rows1),
		Breakdown:        a.breakdown(rows1, rows2),
		WordCloud:        wordCloud(ngrams1),
		TopWords:         comparePhrases(ngrams1.Unigrams, ngrams2.Unigrams),
		TwoWordPhrases:   comparePhrases(ngrams1.Bigrams, ngrams2.Bigrams),
		ThreeWordPhrases: comparePhrases(ngrams1.Trigrams, ngrams2.Trigrams),
		Histogram:        a.histogram(rows1, rows2, f1Active, f2Active),
		Map1:             bubbleMap(rows1),
		Map2:             bubbleMap(rows2),

		RespondentCount1:  len(rows1),
		RespondentCount2:  len(rows2),
		AverageAge1:       modeOf(rows1, ageOf),
		AverageAge2:       modeOf(rows2, ageOf),
		AverageAgeBucket1: modeOf(rows1, func(r store.Row) string { return r.AgeBucketDefault }),
		AverageAgeBucket2: modeOf(rows2, func(r store.Row) string { return r.AgeBucketDefault }),

		FilterDescription1:  filter.Describe(f1, len(rows1), a.campaign.RespondentNoun, a.campaign.RespondentNounPlural),
		FilterDescription2:  filter.Describe(f2, len(rows2), a.campaign.RespondentNoun, a.campaign.RespondentNounPlural),
		FiltersAreIdentical: filter.Identical(f1, f2),
	}

	for _, row := range rows1 {
		if age := ageOf(row); age != "" {
			r.Ages = append(r.Ages, age)
		}
		if row.AgeBucketDefault != "" {
			r.AgeBuckets = append(r.AgeBuckets, row.AgeBucketDefault)
		}
	}
	for _, row := range rows2 {
		if age := ageOf(row); age != "" {
			r.Ages2 = append(r.Ages2, age)
		}
		if row.AgeBucketDefault != "" {
			r.AgeBuckets2 = append(r.AgeBuckets2, row.AgeBucketDefault)
		}
	}
	return r
}

// ngramsFor serves the store's cached unfiltered counts for an absent
// filter and recounts over the filtered rows otherwise.
func (a *Aggregator) ngramsFor(ds *store.Dataset, qcode string, rows []store.Row, f *filter.Filter) store.Ngrams {
	if f == nil || f.IsZero() {
		if cached, ok := ds.NgramsUnfiltered[qcode]; ok {
			return cached
		}
	}
	phraseTerm := ""
	if f != nil && f.OnlyMultiWordPhrasesContainingFilterTerm {
		phraseTerm = strings.ToLower(strings.TrimSpace(f.KeywordFilter))
	}
	return GenerateNgrams(rows, a.sw, phraseTerm)
}

// breakdown explodes composite topic codes, counts per sub-code for both
// slots and resolves labels. Codes the taxonomy cannot resolve are
// dropped from the output, not treated as failures.
func (a *Aggregator) breakdown(rows1, rows2 []store.Row) []BreakdownEntry {
	counts1 := explodeTopicCounts(rows1)
	counts2 := explodeTopicCounts(rows2)

	codes := make([]string, 0, len(counts1)+len(counts2))
	seen := make(map[string]bool)
	for code := range counts1 {
		seen[code] = true
		codes = append(codes, code)
	}
	for code := range counts2 {
		if !seen[code] {
			codes = append(codes, code)
		}
	}

	out := make([]BreakdownEntry, 0, len(codes))
	for _, code := range codes {
		label, ok := a.tax.Description(code)
		if !ok {
			continue
		}
		out = append(out, BreakdownEntry{
			Code:   code,
			Label:  label,
			Count1: counts1[code],
			Count2: counts2[code],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count1 != out[j].Count1 {
			return out[i].Count1 > out[j].Count1
		}
		return out[i].Label < out[j].Label
	})
	if a.campaign.TopBreakdownOnly && len(out) > 5 {
		out = out[:5]
	}
	return out
}

func explodeTopicCounts(rows []store.Row) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.CanonicalCode == "" {
			continue
		}
		for _, code := range strings.Split(row.CanonicalCode, "/") {
			counts[code]++
		}
	}
	return counts
}

// wordCloud unions all three n-gram maps of the first slot, highest
// count first, capped at 100 entries.
func wordCloud(ng store.Ngrams) []WordCount {
	union := make(map[string]int, len(ng.Unigrams)+len(ng.Bigrams)+len(ng.Trigrams))
	for _, m := range []map[string]int{ng.Unigrams, ng.Bigrams, ng.Trigrams} {
		for word, count := range m {
			union[word] += count
		}
	}
	return topCounts(union, wordCloudCap)
}

// comparePhrases keeps the first slot's top 20 phrases and scales the
// second slot's counts for those same phrases onto the first slot's
// range: factor = max(slot-1 top-20) / max(slot-2 map), floored to int
// after scaling. Factor 1 when slot 2 has no data.
func comparePhrases(counts1, counts2 map[string]int) []PhraseComparison {
	top1 := topCounts(counts1, topPhraseCount)
	out := make([]PhraseComparison, 0, len(top1))
	if len(top1) == 0 {
		return out
	}

	factor := 1.0
	if max2 := maxCount(counts2); max2 > 0 {
		factor = float64(top1[0].Count) / float64(max2)
	}
	for _, wc := range top1 {
		out = append(out, PhraseComparison{
			Word:   wc.Word,
			Count1: wc.Count,
			Count2: int(float64(counts2[wc.Word]) * factor),
		})
	}
	return out
}

// histogram group-counts both row sets by each demographic dimension the
// campaign carries.
func (a *Aggregator) histogram(rows1, rows2 []store.Row, f1Active, f2Active bool) Histogram {
	h := Histogram{
		Age:     ageHistogram(rows1, rows2),
		Country: countSorted(rows1, rows2, func(r store.Row) string { return r.CanonicalCountry }, f1Active, f2Active, true),
	}
	if a.campaign.HasField("gender") {
		h.Gender = countSorted(rows1, rows2, func(r store.Row) string { return r.Gender }, f1Active, f2Active, false)
	}
	if a.campaign.HasField("profession") {
		h.Profession = countSorted(rows1, rows2, func(r store.Row) string { return r.Profession }, f1Active, f2Active, true)
	}
	return h
}

func binCounts(rows1, rows2 []store.Row, key func(store.Row) string) []HistogramBin {
	counts1 := make(map[string]int)
	counts2 := make(map[string]int)
	for _, r := range rows1 {
		if v := key(r); v != "" {
			counts1[v]++
		}
	}
	for _, r := range rows2 {
		if v := key(r); v != "" {
			counts2[v]++
		}
	}

	labels := make([]string, 0, len(counts1)+len(counts2))
	seen := make(map[string]bool)
	for label := range counts1 {
		seen[label] = true
		labels = append(labels, label)
	}
	for label := range counts2 {
		if !seen[label] {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)

	bins := make([]HistogramBin, 0, len(labels))
	for _, label := range labels {
		bins = append(bins, HistogramBin{Label: label, Count1: counts1[label], Count2: counts2[label]})
	}
	return bins
}

// countSorted builds a histogram dimension sorted ascending by one count
// series. Which series depends on which slots are filtered: only slot 1
// filtered sorts by the second series, every other single-or-no-filter
// case sorts by the first, and two active filters keep the label order.
// Truncating keeps the last 20 bins, the largest after ascending sort.
func countSorted(rows1, rows2 []store.Row, key func(store.Row) string, f1Active, f2Active, truncate bool) []HistogramBin {
	bins := binCounts(rows1, rows2, key)

	if !(f1Active && f2Active) {
		byCount2 := f1Active && !f2Active
		sort.SliceStable(bins, func(i, j int) bool {
			if byCount2 {
				return bins[i].Count2 < bins[j].Count2
			}
			return bins[i].Count1 < bins[j].Count1
		})
	}
	if truncate && len(bins) > 20 {
		bins = bins[len(bins)-20:]
	}
	return bins
}

// ageHistogram orders numeric age labels first, reverse lexicographic,
// then appends the non-numeric labels. A label is non-numeric when its
// first character is not a digit, regardless of what follows. Reverse
// string order means "9" precedes "15" for raw ages; bucket labels are
// fixed-width so it matches numeric order for them.
func ageHistogram(rows1, rows2 []store.Row) []HistogramBin {
	bins := binCounts(rows1, rows2, ageOf)

	numeric := make([]HistogramBin, 0, len(bins))
	textual := make([]HistogramBin, 0)
	for _, b := range bins {
		if len(b.Label) > 0 && b.Label[0] >= '0' && b.Label[0] <= '9' {
			numeric = append(numeric, b)
		} else {
			textual = append(textual, b)
		}
	}
	sort.SliceStable(numeric, func(i, j int) bool {
		return numeric[i].Label > numeric[j].Label
	})
	return append(numeric, textual...)
}

// bubbleMap counts rows per country and attaches the static plot
// coordinate. Countries without a known coordinate are skipped.
func bubbleMap(rows []store.Row) []MapPoint {
	counts := make(map[string]int)
	for _, r := range rows {
		if r.Alpha2Country != "" {
			counts[r.Alpha2Country]++
		}
	}

	points := make([]MapPoint, 0, len(counts))
	for alpha2, count := range counts {
		country, ok := countries.Lookup(alpha2)
		if !ok || country.Name == "" {
			continue
		}
		lat, lon, ok := countries.Coordinate(alpha2)
		if !ok {
			continue
		}
		points = append(points, MapPoint{
			Alpha2: alpha2,
			Name:   country.Name,
			Count:  count,
			Lat:    lat,
			Lon:    lon,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Count != points[j].Count {
			return points[i].Count > points[j].Count
		}
		return points[i].Alpha2 < points[j].Alpha2
	})
	return points
}

// modeOf returns the most frequent value of a row field. Ties are joined
// with a space, alphabetically. Empty input yields "N/A".
func modeOf(rows []store.Row, key func(store.Row) string) string {
	counts := make(map[string]int)
	for _, r := range rows {
		if v := key(r); v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "N/A"
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	modes := make([]string, 0, 1)
	for v, c := range counts {
		if c == max {
			modes = append(modes, v)
		}
	}
	sort.Strings(modes)
	return strings.Join(modes, " ")
}

// sample draws a deterministic pseudo-random sample of up to 1000 rows
// and resolves composite topic descriptions for display.
func (a *Aggregator) sample(rows []store.Row) []SampleRow {
	n := len(rows)
	if n > sampleCap {
		n = sampleCap
	}
	perm := rand.New(rand.NewSource(sampleSeed)).Perm(len(rows))

	out := make([]SampleRow, 0, n)
	for _, idx := range perm[:n] {
		row := rows[idx]
		out = append(out, SampleRow{
			RawResponse: row.RawResponse,
			Description: a.tax.CompositeDescription(row.CanonicalCode),
			Country:     row.CanonicalCountry,
			Age:         ageOf(row),
			Gender:      row.Gender,
			Profession:  row.Profession,
		})
	}
	return out
}

// ageOf prefers the raw age and falls back to the bucket for campaigns
// that only carry bucketed ages.
func ageOf(r store.Row) string {
	if r.Age != "" {
		return r.Age
	}
	return r.AgeBucket
}
