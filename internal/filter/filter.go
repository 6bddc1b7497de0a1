// Package filter compiles a declarative dashboard filter into a predicate
// over dataset rows. Application is pure: the dataset is never mutated and
// the same filter over the same snapshot always selects the same rows.
package filter

import (
	"sort"
	"strings"

	"github.com/tswoboda/voicedash/internal/store"
)

// Filter is one slot of the dashboard's two-filter comparison. Empty
// fields impose no constraint; a nil *Filter selects every row.
type Filter struct {
	Countries      []string `json:"countries"`
	Regions        []string `json:"regions"`
	ResponseTopics []string `json:"response_topics"`
	Genders        []string `json:"genders"`
	Professions    []string `json:"professions"`
	Ages           []string `json:"ages"`
	KeywordFilter  string   `json:"keyword_filter"`
	KeywordExclude string   `json:"keyword_exclude"`

	// OnlyResponsesFromCategories requires the full composite code to
	// equal a requested topic instead of matching any sub-code.
	OnlyResponsesFromCategories bool `json:"only_responses_from_categories"`

	// OnlyMultiWordPhrasesContainingFilterTerm restricts bigram/trigram
	// aggregation to phrases containing the keyword as a whole token.
	OnlyMultiWordPhrasesContainingFilterTerm bool `json:"only_multi_word_phrases_containing_filter_term"`
}

// IsZero reports whether the filter imposes no constraint at all.
func (f *Filter) IsZero() bool {
	if f == nil {
		return true
	}
	return len(f.Countries) == 0 && len(f.Regions) == 0 && len(f.ResponseTopics) == 0 &&
		len(f.Genders) == 0 && len(f.Professions) == 0 && len(f.Ages) == 0 &&
		f.KeywordFilter == "" && f.KeywordExclude == ""
}

// Apply selects the rows of one question code that satisfy the filter.
// Constraints compose conjunctively. The returned slice shares row values
// with the dataset but is safe to reorder.
func Apply(ds *store.Dataset, qcode string, f *Filter) []store.Row {
	rows := ds.Rows[qcode]
	if f == nil || f.IsZero() {
		out := make([]store.Row, len(rows))
		copy(out, rows)
		return out
	}

	countries := toSet(f.Countries)
	regions := toSet(f.Regions)
	topics := toSet(f.ResponseTopics)
	genders := toSet(f.Genders)
	professions := toSet(f.Professions)
	ages := toSet(f.Ages)
	keyword := strings.ToLower(strings.TrimSpace(f.KeywordFilter))
	exclude := strings.ToLower(strings.TrimSpace(f.KeywordExclude))

	out := []store.Row{}
	for _, row := range rows {
		if len(countries) > 0 && !countries[row.Alpha2Country] {
			continue
		}
		if len(regions) > 0 && !regions[row.Region] {
			continue
		}
		if len(topics) > 0 && !matchTopics(row, topics, f.OnlyResponsesFromCategories) {
			continue
		}
		if len(genders) > 0 && !genders[row.Gender] {
			continue
		}
		if len(professions) > 0 && !professions[row.Profession] {
			continue
		}
		if len(ages) > 0 && !ages[ageOf(row)] {
			continue
		}
		if keyword != "" || exclude != "" {
			text := strings.Join(row.Tokens, " ")
			if keyword != "" && !strings.Contains(text, keyword) {
				continue
			}
			if exclude != "" && strings.Contains(text, exclude) {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}

// matchTopics implements the two topic-matching modes. In exact mode the
// full composite code must equal a requested topic. Otherwise any
// slash-delimited sub-code, or the row's parent category, may intersect.
func matchTopics(row store.Row, topics map[string]bool, exact bool) bool {
	if exact {
		return topics[row.CanonicalCode]
	}
	if topics[row.ParentCategory] {
		return true
	}
	for _, sub := range strings.Split(row.CanonicalCode, "/") {
		if topics[sub] {
			return true
		}
	}
	return false
}

// ageOf returns the value the age constraint matches against: the raw age
// when present, the bucket label for pre-bucketed campaigns.
func ageOf(row store.Row) string {
	if row.Age != "" {
		return row.Age
	}
	return row.AgeBucket
}

// Identical reports field-by-field equality of two filters, independent of
// the order values were supplied in. A nil filter equals a zero filter.
func Identical(f1, f2 *Filter) bool {
	a, b := normalize(f1), normalize(f2)
	return setsEqual(a.Countries, b.Countries) &&
		setsEqual(a.Regions, b.Regions) &&
		setsEqual(a.ResponseTopics, b.ResponseTopics) &&
		setsEqual(a.Genders, b.Genders) &&
		setsEqual(a.Professions, b.Professions) &&
		setsEqual(a.Ages, b.Ages) &&
		a.KeywordFilter == b.KeywordFilter &&
		a.KeywordExclude == b.KeywordExclude &&
		a.OnlyResponsesFromCategories == b.OnlyResponsesFromCategories &&
		a.OnlyMultiWordPhrasesContainingFilterTerm == b.OnlyMultiWordPhrasesContainingFilterTerm
}

func normalize(f *Filter) Filter {
	if f == nil {
		return Filter{}
	}
	return *f
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}

func setsEqual(a, b []string) bool {
	as, bs := toSet(a), toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if !bs[v] {
			return false
		}
	}
	return true
}

// sortedCopy returns the values sorted without mutating the input.
func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
