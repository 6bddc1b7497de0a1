// Package stopwords holds the base lowercase stopword set applied to every
// campaign before n-gram counting. Campaign configs may extend it.
package stopwords

// Set is a lookup set of lowercase words.
type Set map[string]bool

// Base returns a copy of the base stopword set merged with extras.
func Base(extras []string) Set {
	merged := make(Set, len(base)+len(extras))
	for w := range base {
		merged[w] = true
	}
	for _, w := range extras {
		if w != "" {
			merged[w] = true
		}
	}
	return merged
}

// Contains reports whether the word is in the set.
func (s Set) Contains(word string) bool {
	return s[word]
}

var base = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true, "can": true, "shall": true,
	"to": true, "of": true, "in": true, "for": true, "on": true, "with": true, "at": true,
	"by": true, "from": true, "as": true, "into": true, "through": true, "during": true,
	"before": true, "after": true, "above": true, "below": true, "and": true, "but": true,
	"or": true, "nor": true, "not": true, "so": true, "yet": true, "both": true,
	"either": true, "neither": true, "each": true, "every": true, "all": true, "any": true,
	"few": true, "more": true, "most": true, "other": true, "some": true, "such": true,
	"no": true, "only": true, "own": true, "same": true, "than": true, "too": true,
	"very": true, "just": true, "how": true, "what": true, "which": true, "who": true,
	"whom": true, "this": true, "that": true, "these": true, "those": true, "it": true,
	"its": true, "about": true, "up": true, "out": true, "also": true, "like": true,
	"i": true, "me": true, "my": true, "we": true, "our": true, "you": true, "your": true,
	"they": true, "them": true, "their": true, "he": true, "she": true, "his": true,
	"her": true, "want": true, "need": true, "there": true, "here": true, "when": true,
	"where": true, "why": true, "because": true, "if": true, "then": true, "us": true,
	"please": true, "would_like": true, "etc": true, "e.g": true,
}
