package filter

import (
	"fmt"
	"strings"

	"github.com/tswoboda/voicedash/internal/countries"
)

// Describe renders a human-readable summary of the rows a filter selected,
// e.g. "1532 women in Kenya and United States who mentioned 'water'".
func Describe(f *Filter, count int, nounSingular, nounPlural string) string {
	noun := nounPlural
	if count == 1 {
		noun = nounSingular
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "%d %s", count, noun)

	if f == nil || f.IsZero() {
		return b.String()
	}

	if len(f.Countries) > 0 {
		names := make([]string, 0, len(f.Countries))
		for _, code := range sortedCopy(f.Countries) {
			if c, ok := countries.Lookup(code); ok {
				names = append(names, c.Name)
			} else {
				names = append(names, code)
			}
		}
		fmt.Fprintf(b, " in %s", joinAnd(names))
	}
	if len(f.Regions) > 0 {
		fmt.Fprintf(b, " from %s", joinAnd(sortedCopy(f.Regions)))
	}
	if len(f.Genders) > 0 {
		fmt.Fprintf(b, " identifying as %s", joinOr(sortedCopy(f.Genders)))
	}
	if len(f.Professions) > 0 {
		fmt.Fprintf(b, " working as %s", joinOr(sortedCopy(f.Professions)))
	}
	if len(f.Ages) > 0 {
		fmt.Fprintf(b, " aged %s", joinOr(sortedCopy(f.Ages)))
	}
	if len(f.ResponseTopics) > 0 {
		fmt.Fprintf(b, " who responded about %s", joinOr(sortedCopy(f.ResponseTopics)))
	}
	if f.KeywordFilter != "" {
		fmt.Fprintf(b, " who mentioned %q", f.KeywordFilter)
	}
	if f.KeywordExclude != "" {
		fmt.Fprintf(b, " but not %q", f.KeywordExclude)
	}

	return b.String()
}

func joinAnd(values []string) string { return joinWith(values, "and") }
func joinOr(values []string) string  { return joinWith(values, "or") }

func joinWith(values []string, conj string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	case 2:
		return values[0] + " " + conj + " " + values[1]
	default:
		return strings.Join(values[:len(values)-1], ", ") + " " + conj + " " + values[len(values)-1]
	}
}
