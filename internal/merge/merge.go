// Package merge combines already-computed per-campaign aggregates into a
// single pan-campaign view. It never reads raw rows: cost is bounded by
// the sizes of the finished aggregates, not the campaign row counts.
package merge

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"

	"github.com/tswoboda/voicedash/internal/aggregate"
)

const (
	topPhraseCount = 20
	wordCloudCap   = 100
	sampleCap      = 1000
	sampleSeed     = 1
)

// Results merges per-campaign aggregate results by key, summing counts,
// then re-sorts and re-truncates with the same rules the per-campaign
// engine uses. An empty input yields a well-formed empty result.
func Results(results []*aggregate.Result) *aggregate.Result {
	merged := &aggregate.Result{
		CampaignCode: "allcampaigns",
	}
	if len(results) == 0 {
		merged.AverageAge1 = "N/A"
		merged.AverageAge2 = "N/A"
		merged.AverageAgeBucket1 = "N/A"
		merged.AverageAgeBucket2 = "N/A"
		return merged
	}
	merged.QuestionCode = results[0].QuestionCode
	merged.FiltersAreIdentical = results[0].FiltersAreIdentical

	var ages, buckets, ages2, buckets2 []string
	for _, r := range results {
		merged.RespondentCount1 += r.RespondentCount1
		merged.RespondentCount2 += r.RespondentCount2
		ages = append(ages, r.Ages...)
		buckets = append(buckets, r.AgeBuckets...)
		ages2 = append(ages2, r.Ages2...)
		buckets2 = append(buckets2, r.AgeBuckets2...)
	}

	merged.Breakdown = mergeBreakdown(results)
	merged.WordCloud = mergeWordCloud(results)
	merged.TopWords = mergePhrases(results, func(r *aggregate.Result) []aggregate.PhraseComparison { return r.TopWords })
	merged.TwoWordPhrases = mergePhrases(results, func(r *aggregate.Result) []aggregate.PhraseComparison { return r.TwoWordPhrases })
	merged.ThreeWordPhrases = mergePhrases(results, func(r *aggregate.Result) []aggregate.PhraseComparison { return r.ThreeWordPhrases })
	merged.Histogram = mergeHistograms(results)
	merged.Map1 = mergeMaps(results, func(r *aggregate.Result) []aggregate.MapPoint { return r.Map1 })
	merged.Map2 = mergeMaps(results, func(r *aggregate.Result) []aggregate.MapPoint { return r.Map2 })
	merged.ResponsesSample = mergeSamples(results)

	// The merged view averages pooled numeric ages arithmetically while
	// the per-campaign view reports the mode. The two definitions differ
	// on purpose and both are kept.
	merged.AverageAge1 = meanAge(ages)
	merged.AverageAge2 = meanAge(ages2)
	merged.AverageAgeBucket1 = modeLabel(buckets)
	merged.AverageAgeBucket2 = modeLabel(buckets2)
	merged.Ages = ages
	merged.AgeBuckets = buckets
	merged.Ages2 = ages2
	merged.AgeBuckets2 = buckets2

	merged.FilterDescription1 = fmt.Sprintf("%d respondents across all campaigns", merged.RespondentCount1)
	merged.FilterDescription2 = fmt.Sprintf("%d respondents across all campaigns", merged.RespondentCount2)
	return merged
}

func mergeBreakdown(results []*aggregate.Result) []aggregate.BreakdownEntry {
	byCode := make(map[string]*aggregate.BreakdownEntry)
	var order []string
	for _, r := range results {
		for _, e := range r.Breakdown {
			if existing, ok := byCode[e.Code]; ok {
				existing.Count1 += e.Count1
				existing.Count2 += e.Count2
				continue
			}
			entry := e
			byCode[e.Code] = &entry
			order = append(order, e.Code)
		}
	}

	out := make([]aggregate.BreakdownEntry, 0, len(order))
	for _, code := range order {
		out = append(out, *byCode[code])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count1 != out[j].Count1 {
			return out[i].Count1 > out[j].Count1
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func mergeWordCloud(results []*aggregate.Result) []aggregate.WordCount {
	counts := make(map[string]int)
	for _, r := range results {
		for _, wc := range r.WordCloud {
			counts[wc.Word] += wc.Count
		}
	}

	out := make([]aggregate.WordCount, 0, len(counts))
	for word, count := range counts {
		out = append(out, aggregate.WordCount{Word: word, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > wordCloudCap {
		out = out[:wordCloudCap]
	}
	return out
}

func mergePhrases(results []*aggregate.Result, pick func(*aggregate.Result) []aggregate.PhraseComparison) []aggregate.PhraseComparison {
	byWord := make(map[string]*aggregate.PhraseComparison)
	var order []string
	for _, r := range results {
		for _, p := range pick(r) {
			if existing, ok := byWord[p.Word]; ok {
				existing.Count1 += p.Count1
				existing.Count2 += p.Count2
				continue
			}
			entry := p
			byWord[p.Word] = &entry
			order = append(order, p.Word)
		}
	}

	out := make([]aggregate.PhraseComparison, 0, len(order))
	for _, word := range order {
		out = append(out, *byWord[word])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count1 != out[j].Count1 {
			return out[i].Count1 > out[j].Count1
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > topPhraseCount {
		out = out[:topPhraseCount]
	}
	return out
}

func mergeHistograms(results []*aggregate.Result) aggregate.Histogram {
	return aggregate.Histogram{
		Age:        mergeBins(results, func(h aggregate.Histogram) []aggregate.HistogramBin { return h.Age }, false, false),
		Gender:     mergeBins(results, func(h aggregate.Histogram) []aggregate.HistogramBin { return h.Gender }, true, false),
		Profession: mergeBins(results, func(h aggregate.Histogram) []aggregate.HistogramBin { return h.Profession }, true, true),
		Country:    mergeBins(results, func(h aggregate.Histogram) []aggregate.HistogramBin { return h.Country }, true, true),
	}
}

// mergeBins sums per-label counts across campaigns. Count-sorted
// dimensions re-sort ascending by the first series; truncated ones keep
// the last 20 bins, like the per-campaign histogram.
func mergeBins(results []*aggregate.Result, pick func(aggregate.Histogram) []aggregate.HistogramBin, byCount, truncate bool) []aggregate.HistogramBin {
	byLabel := make(map[string]*aggregate.HistogramBin)
	var order []string
	for _, r := range results {
		for _, b := range pick(r.Histogram) {
			if existing, ok := byLabel[b.Label]; ok {
				existing.Count1 += b.Count1
				existing.Count2 += b.Count2
				continue
			}
			bin := b
			byLabel[b.Label] = &bin
			order = append(order, b.Label)
		}
	}

	out := make([]aggregate.HistogramBin, 0, len(order))
	for _, label := range order {
		out = append(out, *byLabel[label])
	}
	if byCount {
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Count1 != out[j].Count1 {
				return out[i].Count1 < out[j].Count1
			}
			return out[i].Label < out[j].Label
		})
	}
	if truncate && len(out) > 20 {
		out = out[len(out)-20:]
	}
	return out
}

func mergeMaps(results []*aggregate.Result, pick func(*aggregate.Result) []aggregate.MapPoint) []aggregate.MapPoint {
	byAlpha2 := make(map[string]*aggregate.MapPoint)
	var order []string
	for _, r := range results {
		for _, p := range pick(r) {
			if existing, ok := byAlpha2[p.Alpha2]; ok {
				existing.Count += p.Count
				continue
			}
			point := p
			byAlpha2[p.Alpha2] = &point
			order = append(order, p.Alpha2)
		}
	}

	out := make([]aggregate.MapPoint, 0, len(order))
	for _, alpha2 := range order {
		out = append(out, *byAlpha2[alpha2])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Alpha2 < out[j].Alpha2
	})
	return out
}

// mergeSamples draws proportionally from each campaign's pre-sampled
// rows up to the shared cap, then shuffles deterministically.
func mergeSamples(results []*aggregate.Result) []aggregate.SampleRow {
	total := 0
	for _, r := range results {
		total += len(r.ResponsesSample)
	}
	if total == 0 {
		return []aggregate.SampleRow{}
	}

	out := make([]aggregate.SampleRow, 0, sampleCap)
	if total <= sampleCap {
		for _, r := range results {
			out = append(out, r.ResponsesSample...)
		}
	} else {
		for _, r := range results {
			take := len(r.ResponsesSample) * sampleCap / total
			out = append(out, r.ResponsesSample[:take]...)
		}
	}

	rnd := rand.New(rand.NewSource(sampleSeed))
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// meanAge is the arithmetic mean of the numeric ages in the pooled list,
// rounded to the nearest whole year. Non-numeric labels are skipped.
func meanAge(ages []string) string {
	sum, n := 0, 0
	for _, a := range ages {
		v, err := strconv.Atoi(a)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return "N/A"
	}
	return strconv.Itoa(int(math.Round(float64(sum) / float64(n))))
}

// modeLabel is the most frequent label, ties broken alphabetically.
func modeLabel(labels []string) string {
	if len(labels) == 0 {
		return "N/A"
	}
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	best, bestCount := "", 0
	for l, c := range counts {
		if c > bestCount || (c == bestCount && l < best) {
			best, bestCount = l, c
		}
	}
	return best
}
