package merge

import (
	"sort"

	"github.com/tswoboda/voicedash/internal/aggregate"
)

// Options unions per-campaign filter options by value, recursively for
// nested options, and sorts each list by label. The two toggle lists are
// taken verbatim from the first campaign; every campaign exposes the
// same pair of choices for those.
func Options(options []aggregate.FilterOptions) aggregate.FilterOptions {
	merged := aggregate.FilterOptions{}
	if len(options) == 0 {
		return merged
	}

	for _, o := range options {
		merged.Countries = unionOptions(merged.Countries, o.Countries)
		merged.ResponseTopics = unionOptions(merged.ResponseTopics, o.ResponseTopics)
		merged.Ages = unionOptions(merged.Ages, o.Ages)
		merged.AgeBuckets = unionOptions(merged.AgeBuckets, o.AgeBuckets)
		merged.Genders = unionOptions(merged.Genders, o.Genders)
		merged.Professions = unionOptions(merged.Professions, o.Professions)
	}
	merged.OnlyResponsesFromCategories = options[0].OnlyResponsesFromCategories
	merged.OnlyMultiWordPhrases = options[0].OnlyMultiWordPhrases
	return merged
}

// unionOptions folds more into base, deduplicating by value. Nested
// option lists are unioned the same way. The result is sorted by label.
func unionOptions(base, more []aggregate.Option) []aggregate.Option {
	index := make(map[string]int, len(base))
	out := make([]aggregate.Option, len(base))
	copy(out, base)
	for i, o := range out {
		index[o.Value] = i
	}

	for _, o := range more {
		if i, ok := index[o.Value]; ok {
			out[i].Options = unionOptions(out[i].Options, o.Options)
			continue
		}
		index[o.Value] = len(out)
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Label < out[j].Label
	})
	return out
}
